package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidNick(t *testing.T) {
	valid := []string{"a", "bob", "Bob-1", "x_y_z", "ninechars"}
	for _, nick := range valid {
		assert.True(t, validNick(nick), "nick %q should be valid", nick)
	}

	invalid := []string{"", "1bob", "-bob", "_bob", "tencharsxx", "bo b", "bo!b", "bo@b"}
	for _, nick := range invalid {
		assert.False(t, validNick(nick), "nick %q should be invalid", nick)
	}
}

func TestTryRegisterEitherOrder(t *testing.T) {
	c := &Client{}
	assert.False(t, c.tryRegister())

	c.nick = "alice"
	assert.False(t, c.tryRegister())
	assert.False(t, c.registered)

	c.username = "a"
	assert.True(t, c.tryRegister())
	assert.True(t, c.registered)

	// Already registered; must not report completion again.
	assert.False(t, c.tryRegister())

	d := &Client{}
	d.username = "b"
	assert.False(t, d.tryRegister())
	d.nick = "bob"
	assert.True(t, d.tryRegister())
}

func TestDisplayNick(t *testing.T) {
	c := &Client{host: "10.0.0.1"}
	assert.Equal(t, "*", c.displayNick())
	assert.Equal(t, "*!@10.0.0.1", c.Prefix())

	c.nick = "alice"
	c.username = "a"
	assert.Equal(t, "alice", c.displayNick())
	assert.Equal(t, "alice!a@10.0.0.1", c.Prefix())
}

func TestInvites(t *testing.T) {
	c := &Client{invites: make(map[string]bool)}
	assert.False(t, c.invitedTo("#room"))

	c.invite("#room")
	assert.True(t, c.invitedTo("#room"))
	assert.False(t, c.invitedTo("#other"))

	c.clearInvite("#room")
	assert.False(t, c.invitedTo("#room"))
}
