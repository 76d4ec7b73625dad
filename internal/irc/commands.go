package irc

import (
	"strconv"
	"strings"
)

// maxMessageLen caps PRIVMSG bodies; longer messages are rejected, not
// truncated.
const maxMessageLen = 256

// maxChannelNameLen caps channel names at JOIN time.
const maxChannelNameLen = 50

func (s *Server) cmdPing(c *Client, params []string) {
	if len(params) == 0 {
		s.reply(c, "461", "PING", "Not enough parameters")
		return
	}
	s.unicast(c, buildLine("", "PONG", true, params[0]))
}

func (s *Server) cmdPass(c *Client, params []string) {
	if len(params) == 0 {
		s.reply(c, "461", "PASS", "Not enough parameters")
		return
	}
	if c.registered {
		s.reply(c, "462", "You may not reregister")
		return
	}
	if params[0] == s.cfg.Password {
		c.authenticated = true
		s.reply(c, "001", c.displayNick(), "Password accepted, proceed to register")
		return
	}
	s.reply(c, "464", "Password incorrect")
	s.removeClient(c.id)
}

func (s *Server) cmdNick(c *Client, params []string) {
	if len(params) == 0 || params[0] == "" {
		s.reply(c, "431", "No nickname given")
		return
	}
	newNick := params[0]
	if len(newNick) > 9 {
		s.reply(c, "432", newNick, "Nickname must not exceed 9 characters")
		return
	}
	if !validNick(newNick) {
		s.reply(c, "432", newNick, "Invalid nickname format")
		return
	}
	if other, taken := s.nicks[newNick]; taken && other != c {
		s.reply(c, "433", c.displayNick(), newNick, "Nickname already in use")
		return
	}

	oldNick := c.nick
	if oldNick != "" {
		delete(s.nicks, oldNick)
	}
	c.nick = newNick
	s.nicks[newNick] = c

	if oldNick != "" {
		s.unicast(c, buildLine(oldNick+"!"+c.username+"@"+c.host, "NICK", false, newNick))
	}
	if c.tryRegister() {
		s.reply(c, "001", c.nick, "Welcome to the IRC server")
	}
}

func (s *Server) cmdUser(c *Client, params []string) {
	if len(params) < 4 {
		s.reply(c, "461", "USER", "Not enough parameters")
		return
	}
	if c.registered {
		s.reply(c, "462", "You may not reregister")
		return
	}
	c.username = params[0]
	c.realname = strings.Join(params[3:], " ")
	if c.tryRegister() {
		s.reply(c, "001", c.nick, "Welcome to the IRC server")
	}
}

func (s *Server) cmdQuit(c *Client, params []string) {
	quitMsg := "Client Quit"
	if len(params) > 0 && params[0] != "" {
		quitMsg = params[0]
	}
	line := buildLine(c.Prefix(), "QUIT", true, quitMsg)
	for _, ch := range s.channels {
		if ch.has(c.id) {
			s.sendToChannel(ch, line, c.id)
		}
	}
	s.unicast(c, line)
	s.removeClient(c.id)
}

func (s *Server) cmdJoin(c *Client, params []string) {
	if len(params) == 0 || params[0] == "" {
		s.reply(c, "461", "JOIN", "Not enough parameters")
		return
	}
	name := params[0]
	if !validChannelName(name) {
		s.reply(c, "403", name, "No such channel")
		return
	}
	if len(name) > maxChannelNameLen {
		s.reply(c, "417", name, "Channel name must not exceed 50 characters")
		return
	}

	ch, exists := s.channels[name]
	if !exists {
		ch = newChannel(name)
		s.channels[name] = ch
	}

	// Checks run in a fixed order: capacity, invitation, key, then
	// membership. A freshly created channel passes them all.
	if ch.full() {
		s.reply(c, "471", c.nick, name, "Cannot join channel (+l) - channel is full")
		return
	}
	if ch.hasMode(modeInviteOnly) && !c.invitedTo(name) {
		s.reply(c, "473", c.nick, name, "Cannot join channel (+i)")
		return
	}
	if ch.hasMode(modeKey) {
		if len(params) < 2 {
			s.reply(c, "475", c.nick, name, "Cannot join channel (+k) - Missing key")
			return
		}
		if !ch.checkKey(params[1]) {
			s.reply(c, "475", c.nick, name, "Cannot join channel (+k) - Incorrect key")
			return
		}
	}
	if ch.has(c.id) {
		s.reply(c, "443", c.nick, name, "You're already in the channel")
		return
	}

	ch.add(c.id)
	c.clearInvite(name)

	joinLine := buildLine(c.Prefix(), "JOIN", false, name)
	s.unicast(c, joinLine)
	s.sendToChannel(ch, joinLine, c.id)

	if ch.topic != "" {
		s.reply(c, "332", c.nick, name, ch.topic)
	}
	s.unicast(c, buildLine("", "353", true, c.nick, "@", name, s.namesList(ch)))
	s.reply(c, "366", c.nick, name, "End of /NAMES list")
}

func (s *Server) cmdPrivmsg(c *Client, params []string) {
	if len(params) < 2 {
		s.reply(c, "461", "PRIVMSG", "Not enough parameters")
		return
	}
	target := params[0]
	body := strings.Join(params[1:], " ")
	if len(body) > maxMessageLen {
		s.reply(c, "417", "PRIVMSG", "Message too long (max 256 characters)")
		return
	}

	if validChannelName(target) {
		ch, exists := s.channels[target]
		if !exists {
			s.reply(c, "403", target, "No such channel")
			return
		}
		if !ch.has(c.id) {
			s.reply(c, "404", target, "Cannot send to channel")
			return
		}
		s.sendToChannel(ch, buildLine(c.Prefix(), "PRIVMSG", true, target, body), c.id)
		return
	}

	targetClient, connected := s.nicks[target]
	if !connected {
		s.reply(c, "401", target, "No such nick")
		return
	}
	s.unicast(targetClient, buildLine(c.Prefix(), "PRIVMSG", true, target, body))
}

func (s *Server) cmdPart(c *Client, params []string) {
	if len(params) == 0 {
		s.reply(c, "461", "PART", "Not enough parameters")
		return
	}
	name := params[0]
	ch, exists := s.channels[name]
	if !exists {
		s.reply(c, "403", name, "No such channel")
		return
	}
	if !ch.has(c.id) {
		s.reply(c, "442", name, "You're not on that channel")
		return
	}

	line := buildLine(c.Prefix(), "PART", false, name)
	s.sendToChannel(ch, line, c.id)
	s.unicast(c, line)
	s.removeFromChannel(ch, c.id)
}

func (s *Server) cmdTopic(c *Client, params []string) {
	if len(params) == 0 {
		s.reply(c, "461", "TOPIC", "Not enough parameters")
		return
	}
	name := params[0]
	ch, exists := s.channels[name]
	if !exists {
		s.reply(c, "403", name, "No such channel")
		return
	}
	if !ch.has(c.id) {
		s.reply(c, "442", name, "You're not on that channel")
		return
	}

	if len(params) == 1 {
		if ch.topic == "" {
			s.reply(c, "331", name, "No topic is set")
		} else {
			s.reply(c, "332", name, ch.topic)
		}
		return
	}

	if ch.hasMode(modeTopicLock) && !ch.isOp(c.id) {
		s.reply(c, "482", name, "You're not channel operator")
		return
	}

	ch.topic = strings.Join(params[1:], " ")
	line := buildLine(c.Prefix(), "TOPIC", true, name, ch.topic)
	s.sendToChannel(ch, line, c.id)
	s.unicast(c, line)
}

func (s *Server) cmdKick(c *Client, params []string) {
	if len(params) < 2 {
		s.reply(c, "461", "KICK", "Not enough parameters")
		return
	}
	name, targetNick := params[0], params[1]
	reason := "Kicked by operator"
	if len(params) > 2 && params[2] != "" {
		reason = params[2]
	}

	ch, exists := s.channels[name]
	if !exists {
		s.reply(c, "403", name, "No such channel")
		return
	}
	if !ch.has(c.id) {
		s.reply(c, "442", name, "You're not on that channel")
		return
	}
	if !ch.isOp(c.id) {
		s.reply(c, "482", name, "You're not channel operator")
		return
	}
	target := s.channelMember(ch, targetNick)
	if target == nil {
		s.reply(c, "441", targetNick, name, "They aren't on that channel")
		return
	}
	if target == c {
		s.reply(c, "401", targetNick, "You cannot kick yourself")
		return
	}

	line := buildLine(c.Prefix(), "KICK", true, name, targetNick, reason)
	s.sendToChannel(ch, line, c.id)
	s.unicast(c, line)
	s.removeFromChannel(ch, target.id)
}

func (s *Server) cmdInvite(c *Client, params []string) {
	if len(params) < 2 {
		s.reply(c, "461", "INVITE", "Not enough parameters")
		return
	}
	targetNick, name := params[0], params[1]

	ch, exists := s.channels[name]
	if !exists {
		s.reply(c, "403", name, "No such channel")
		return
	}
	if !ch.has(c.id) {
		s.reply(c, "442", name, "You're not on that channel")
		return
	}
	if ch.hasMode(modeInviteOnly) && !ch.isOp(c.id) {
		s.reply(c, "482", name, "You're not channel operator")
		return
	}
	target, connected := s.nicks[targetNick]
	if !connected {
		s.reply(c, "401", targetNick, "No such nick")
		return
	}
	if ch.has(target.id) {
		s.reply(c, "443", targetNick, name, "is already on channel")
		return
	}

	target.invite(name)
	s.reply(c, "341", c.nick, targetNick, name)
	s.unicast(target, buildLine(c.Prefix(), "INVITE", true, targetNick, name))
}

func (s *Server) cmdMode(c *Client, params []string) {
	if len(params) == 0 || params[0] == "" {
		s.reply(c, "461", "MODE", "Not enough parameters")
		return
	}
	if validChannelName(params[0]) {
		s.channelMode(c, params)
		return
	}
	s.userMode(c, params)
}

func (s *Server) channelMode(c *Client, params []string) {
	name := params[0]
	ch, exists := s.channels[name]
	if !exists {
		s.reply(c, "403", name, "No such channel")
		return
	}
	if !ch.has(c.id) {
		s.reply(c, "442", name, "You're not on that channel")
		return
	}

	if len(params) < 2 {
		modes := ch.modeString()
		if modes == "" {
			modes = "+"
		}
		s.reply(c, "324", c.nick, name, modes)
		return
	}

	if !ch.isOp(c.id) {
		s.reply(c, "482", name, "You're not channel operator")
		return
	}

	mode := params[1]
	if len(mode) < 2 || (mode[0] != '+' && mode[0] != '-') {
		s.reply(c, "501", mode, "Unknown mode flag")
		return
	}
	adding := mode[0] == '+'

	// The argument may follow as its own parameter or be glued to the
	// mode token, as in "+l5".
	var modeArg string
	if len(params) >= 3 {
		modeArg = params[2]
	} else if len(mode) > 2 {
		modeArg = mode[2:]
	}

	switch mode[1] {
	case 'i':
		if adding {
			ch.setMode(modeInviteOnly)
		} else {
			ch.unsetMode(modeInviteOnly)
		}
	case 't':
		if adding {
			ch.setMode(modeTopicLock)
		} else {
			ch.unsetMode(modeTopicLock)
		}
	case 'k':
		if adding {
			if modeArg == "" {
				s.reply(c, "461", "MODE", "Not enough parameters")
				return
			}
			ch.setKey(modeArg)
		} else {
			ch.setKey("")
		}
	case 'o':
		if modeArg == "" {
			s.reply(c, "461", "MODE", "Not enough parameters")
			return
		}
		target := s.channelMember(ch, modeArg)
		if target == nil {
			s.reply(c, "401", modeArg, "No such nick")
			return
		}
		if adding {
			ch.grantOp(target.id)
		} else {
			ch.revokeOp(target.id)
		}
	case 'l':
		if adding {
			limit, err := strconv.Atoi(modeArg)
			if err != nil || limit <= 0 {
				s.reply(c, "461", "MODE", "Not enough parameters")
				return
			}
			ch.setLimit(limit)
		} else {
			ch.setLimit(0)
		}
	default:
		s.reply(c, "501", mode, "Unknown mode flag")
		return
	}

	announce := []string{name, mode}
	if modeArg != "" && len(mode) == 2 {
		announce = append(announce, modeArg)
	}
	line := buildLine(c.Prefix(), "MODE", false, announce...)
	s.sendToChannel(ch, line, c.id)
	s.unicast(c, line)
}

func (s *Server) userMode(c *Client, params []string) {
	target := params[0]
	targetClient, connected := s.nicks[target]
	if !connected {
		s.reply(c, "401", target, "No such nick")
		return
	}
	if targetClient != c {
		s.reply(c, "502", target, "You can't change modes for other users")
		return
	}
	if len(params) < 2 {
		s.reply(c, "461", "MODE", "Not enough parameters")
		return
	}

	switch params[1] {
	case "+i":
		c.operator = true
	case "-i":
		c.operator = false
	default:
		s.reply(c, "501", params[1], "Unknown mode flag")
		return
	}
	s.unicast(c, buildLine(c.Prefix(), "MODE", false, target, params[1]))
}

// removeFromChannel drops a member and reclaims the channel the moment
// its membership reaches zero.
func (s *Server) removeFromChannel(ch *Channel, id uint64) {
	ch.remove(id)
	if ch.empty() {
		delete(s.channels, ch.name)
	}
}

// channelMember resolves a nickname to a client only if it is currently
// a member of ch.
func (s *Server) channelMember(ch *Channel, nick string) *Client {
	cl, connected := s.nicks[nick]
	if !connected || !ch.has(cl.id) {
		return nil
	}
	return cl
}

// namesList renders the channel membership in deterministic order,
// annotating operators with '@'.
func (s *Server) namesList(ch *Channel) string {
	names := make([]string, 0, len(ch.members))
	for _, id := range ch.memberIDs() {
		member, ok := s.clients[id]
		if !ok {
			continue
		}
		if ch.isOp(id) {
			names = append(names, "@"+member.nick)
		} else {
			names = append(names, member.nick)
		}
	}
	return strings.Join(names, " ")
}
