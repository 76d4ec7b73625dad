package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ircfoundry/ircserv/internal/config"
	"github.com/ircfoundry/ircserv/internal/irc"
	"github.com/ircfoundry/ircserv/internal/storage"
)

func main() {
	cfg, err := config.FromArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, config.Usage)
		os.Exit(1)
	}

	eventLog, err := storage.OpenEventLog("server.log")
	if err != nil {
		log.Fatalf("Failed to open event log: %v", err)
	}
	defer eventLog.Close()

	server := irc.NewServer(cfg, eventLog)
	if err := server.Listen(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, shutting down...", sig)
		server.Shutdown()
	}()

	log.Printf("IRC server listening on %s", server.Addr())
	if err := server.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
