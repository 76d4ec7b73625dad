package config

import (
	"fmt"
	"strconv"
)

// Usage is printed to stderr when the arguments are missing or malformed.
const Usage = "Usage: ircserv <port> <password>"

// Config holds all server configuration. There are no flags, environment
// variables or configuration files; the two positional arguments are the
// whole surface.
type Config struct {
	Port     string
	Password string
}

// FromArgs builds a Config from the positional command-line arguments
// (everything after the program name). The password may be the empty
// string, but it must be passed explicitly.
func FromArgs(args []string) (*Config, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("expected 2 arguments, got %d", len(args))
	}

	port := args[0]
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return nil, fmt.Errorf("invalid port %q", port)
	}

	return &Config{Port: port, Password: args[1]}, nil
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + c.Port
}
