package irc

import (
	"strings"

	"github.com/ergochat/irc-go/ircmsg"
)

// handler is one protocol command implementation. params come straight
// from the parser; each handler validates its own parameter count and
// content, emits an error reply on precondition failure, and returns.
type handler func(s *Server, c *Client, params []string)

// command pairs a handler with the dispatcher-enforced preconditions,
// so registration gating lives in one place instead of being repeated
// ad hoc inside every handler.
type command struct {
	handler      handler
	requiresReg  bool
	bypassesAuth bool // usable before the server password is supplied
}

var commands = map[string]command{
	"PING": {handler: (*Server).cmdPing, bypassesAuth: true},
	"PASS": {handler: (*Server).cmdPass, bypassesAuth: true},
	"NICK": {handler: (*Server).cmdNick},
	"USER": {handler: (*Server).cmdUser},
	"QUIT": {handler: (*Server).cmdQuit, bypassesAuth: true},

	"JOIN":    {handler: (*Server).cmdJoin, requiresReg: true},
	"PART":    {handler: (*Server).cmdPart, requiresReg: true},
	"PRIVMSG": {handler: (*Server).cmdPrivmsg, requiresReg: true},
	"MODE":    {handler: (*Server).cmdMode, requiresReg: true},
	"TOPIC":   {handler: (*Server).cmdTopic, requiresReg: true},
	"KICK":    {handler: (*Server).cmdKick, requiresReg: true},
	"INVITE":  {handler: (*Server).cmdInvite, requiresReg: true},
}

// Verbs that are recognized but deliberately never answered.
var ignoredVerbs = map[string]bool{
	"CAP":   true,
	"WHOIS": true,
	"WHO":   true,
}

// dispatch parses one framed line and routes it to its handler,
// enforcing the password and registration gates first.
func (s *Server) dispatch(c *Client, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	msg, err := ircmsg.ParseLine(line)
	if err != nil {
		return
	}
	verb := strings.ToUpper(msg.Command)

	if ignoredVerbs[verb] {
		return
	}

	cmd, known := commands[verb]
	if !known {
		s.reply(c, "421", verb, "Unknown command")
		return
	}

	if s.cfg.Password != "" && !c.authenticated && !cmd.bypassesAuth {
		s.reply(c, "462", "You must provide the correct PASS before registering")
		return
	}
	if cmd.requiresReg && !c.registered {
		s.reply(c, "451", verb, "You have not registered")
		return
	}

	cmd.handler(s, c, msg.Params)
}
