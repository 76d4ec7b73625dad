package irc

import (
	"net"
)

// Client is one accepted connection and its session state. All fields
// are owned by the reactor goroutine except buf, which only the
// connection's reader goroutine touches.
type Client struct {
	id   uint64
	conn net.Conn
	host string // peer address, used in identity prefixes

	nick     string
	username string
	realname string

	authenticated bool // server password accepted
	registered    bool // nick and username both set
	operator      bool // user-mode status flag

	buf lineBuffer

	// Channel names this client holds a pending invitation to.
	invites map[string]bool
}

func newClient(id uint64, conn net.Conn) *Client {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil || host == "" {
		host = "unknown.host"
	}
	return &Client{
		id:      id,
		conn:    conn,
		host:    host,
		invites: make(map[string]bool),
	}
}

// Prefix returns the client's identity as nick!user@host.
func (c *Client) Prefix() string {
	return c.displayNick() + "!" + c.username + "@" + c.host
}

// displayNick returns the nickname, or "*" before one is set. Numeric
// replies must never carry an empty parameter mid-line.
func (c *Client) displayNick() string {
	if c.nick == "" {
		return "*"
	}
	return c.nick
}

// tryRegister flips the registered flag once both nickname and username
// are set. Reports whether registration completed on this call.
func (c *Client) tryRegister() bool {
	if c.registered || c.nick == "" || c.username == "" {
		return false
	}
	c.registered = true
	return true
}

func (c *Client) invite(channel string) {
	c.invites[channel] = true
}

func (c *Client) invitedTo(channel string) bool {
	return c.invites[channel]
}

func (c *Client) clearInvite(channel string) {
	delete(c.invites, channel)
}

// validNick reports whether nick satisfies the nickname rules: 1 to 9
// characters, leading alphabetic, the rest alphanumeric, '-' or '_'.
func validNick(nick string) bool {
	if len(nick) == 0 || len(nick) > 9 {
		return false
	}
	if !isAlpha(nick[0]) {
		return false
	}
	for i := 1; i < len(nick); i++ {
		ch := nick[i]
		if !isAlpha(ch) && !isDigit(ch) && ch != '-' && ch != '_' {
			return false
		}
	}
	return true
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
