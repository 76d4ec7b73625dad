package irc

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/ergochat/irc-go/ircmsg"
	"github.com/ircfoundry/ircserv/internal/config"
	"github.com/ircfoundry/ircserv/internal/storage"
)

type eventKind int

const (
	eventAccept eventKind = iota
	eventLine
	eventHangup
)

// event is one unit of work for the reactor: a new connection, one
// complete inbound line, or a peer hangup.
type event struct {
	kind eventKind
	conn net.Conn // eventAccept only
	id   uint64
	line string // eventLine only
}

// Server owns the listening socket, every live connection, and the
// three registries (clients by connection id, nickname index, channel
// registry). All registry mutation and all writes happen on the single
// goroutine running Run; per-connection reader goroutines only frame
// bytes into lines and forward them as events. That single-writer
// discipline gives a total order of command execution across all
// connections, so no handler ever observes a torn intermediate state.
type Server struct {
	cfg      *config.Config
	eventLog *storage.EventLog
	listener net.Listener

	clients  map[uint64]*Client
	nicks    map[string]*Client
	channels map[string]*Channel
	nextID   uint64

	events chan event
	quit   chan struct{}
	once   sync.Once
}

// NewServer creates a server for the given configuration. The event
// log records lifecycle events; it is owned by the caller.
func NewServer(cfg *config.Config, eventLog *storage.EventLog) *Server {
	return &Server{
		cfg:      cfg,
		eventLog: eventLog,
		clients:  make(map[uint64]*Client),
		nicks:    make(map[string]*Client),
		channels: make(map[string]*Channel),
		events:   make(chan event, 64),
		quit:     make(chan struct{}),
	}
}

// Listen binds the listening socket. Any failure here is startup-fatal
// for the caller.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr(), err)
	}
	s.listener = listener
	s.eventLog.Recordf("Server started on port %s", s.cfg.Port)
	return nil
}

// Addr returns the bound listen address. Valid only after Listen.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Run drives the reactor until Shutdown is called. It must be preceded
// by Listen.
func (s *Server) Run() error {
	go s.acceptLoop()
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)
		case <-s.quit:
			s.close()
			return nil
		}
	}
}

// Shutdown stops the server. Idempotent and safe to call from a signal
// handler goroutine; the reactor performs the actual teardown.
func (s *Server) Shutdown() {
	s.once.Do(func() {
		close(s.quit)
		if s.listener != nil {
			s.listener.Close()
		}
	})
}

func (s *Server) handleEvent(ev event) {
	switch ev.kind {
	case eventAccept:
		s.addClient(ev.conn)
	case eventLine:
		// Lines for an already-removed connection (for example queued
		// behind a failed PASS in the same read) are dropped here.
		if c, ok := s.clients[ev.id]; ok {
			s.dispatch(c, ev.line)
		}
	case eventHangup:
		s.removeClient(ev.id)
	}
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			select {
			case <-s.quit:
				return
			default:
			}
			log.Printf("Accept error: %v", err)
			continue
		}
		select {
		case s.events <- event{kind: eventAccept, conn: conn}:
		case <-s.quit:
			conn.Close()
			return
		}
	}
}

func (s *Server) addClient(conn net.Conn) {
	s.nextID++
	c := newClient(s.nextID, conn)
	s.clients[c.id] = c
	s.eventLog.Recordf("New connection from %s", c.host)
	go s.readLoop(c)
}

// readLoop runs one goroutine per connection. It owns the client's
// framing buffer and nothing else; complete lines and the final hangup
// are handed to the reactor in arrival order.
func (s *Server) readLoop(c *Client) {
	buf := make([]byte, 1024)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			for _, line := range c.buf.Feed(buf[:n]) {
				select {
				case s.events <- event{kind: eventLine, id: c.id, line: line}:
				case <-s.quit:
					return
				}
			}
		}
		if err != nil {
			select {
			case s.events <- event{kind: eventHangup, id: c.id}:
			case <-s.quit:
			}
			return
		}
	}
}

// removeClient is the single authority for connection teardown: it
// strips the client from every channel (deleting channels that become
// empty), from the nickname index, and from the client registry, then
// closes the socket. Safe to call for an id that is already gone.
func (s *Server) removeClient(id uint64) {
	c, ok := s.clients[id]
	if !ok {
		return
	}
	for name, ch := range s.channels {
		ch.remove(id)
		if ch.empty() {
			delete(s.channels, name)
		}
	}
	if c.nick != "" && s.nicks[c.nick] == c {
		delete(s.nicks, c.nick)
	}
	c.conn.Close()
	delete(s.clients, id)
	s.eventLog.Recordf("Client disconnected: %s", c.host)
}

// close tears the whole server down: farewell to every client, all
// sockets closed, registries released. Runs on the reactor goroutine.
func (s *Server) close() {
	s.broadcast("Server shutting down. Goodbye!\r\n", 0)
	for _, c := range s.clients {
		c.conn.Close()
	}
	s.clients = make(map[uint64]*Client)
	s.nicks = make(map[string]*Client)
	s.channels = make(map[string]*Channel)
	s.eventLog.Record("Server is shutting down.")
}

// unicast writes one preformatted line to a client. A failed write is
// logged and the connection stays open; persistent failures surface as
// read errors and tear the connection down through the usual path.
func (s *Server) unicast(c *Client, line string) {
	if line == "" {
		return
	}
	if _, err := c.conn.Write([]byte(line)); err != nil {
		log.Printf("Error sending to client %d (%s): %v", c.id, c.host, err)
	}
}

// broadcast sends a line to every connected client except excludeID.
func (s *Server) broadcast(line string, excludeID uint64) {
	for id, c := range s.clients {
		if id != excludeID {
			s.unicast(c, line)
		}
	}
}

// sendToChannel fans a line out to the channel membership except
// excludeID, in deterministic member order.
func (s *Server) sendToChannel(ch *Channel, line string, excludeID uint64) {
	for _, id := range ch.memberIDs() {
		if id == excludeID {
			continue
		}
		if c, ok := s.clients[id]; ok {
			s.unicast(c, line)
		}
	}
}

// buildLine assembles one outbound wire line. trailing forces the last
// parameter into ':'-prefixed trailing position even when it contains
// no space, which is how message bodies go out on the wire.
func buildLine(source, verb string, trailing bool, params ...string) string {
	msg := ircmsg.MakeMessage(nil, source, verb, params...)
	if trailing {
		msg.ForceTrailing()
	}
	line, err := msg.Line()
	if err != nil {
		log.Printf("Error building %s line: %v", verb, err)
		return ""
	}
	return line
}

// reply sends a numeric-style reply to one client.
func (s *Server) reply(c *Client, code string, params ...string) {
	s.unicast(c, buildLine("", code, false, params...))
}
