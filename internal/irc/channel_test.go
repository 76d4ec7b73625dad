package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstMemberBecomesOperator(t *testing.T) {
	ch := newChannel("#room")
	ch.add(1)
	assert.True(t, ch.isOp(1))

	ch.add(2)
	assert.False(t, ch.isOp(2))
}

func TestOperatorSubsetOfMembership(t *testing.T) {
	ch := newChannel("#room")
	ch.add(1)
	ch.add(2)
	ch.grantOp(2)
	assert.True(t, ch.isOp(2))

	ch.remove(2)
	assert.False(t, ch.isOp(2), "operator status must not outlive membership")

	// Non-members cannot be promoted.
	ch.grantOp(9)
	assert.False(t, ch.isOp(9))
}

func TestChannelEmptyAfterLastRemove(t *testing.T) {
	ch := newChannel("#room")
	ch.add(1)
	assert.False(t, ch.empty())
	ch.remove(1)
	assert.True(t, ch.empty())
}

func TestKeyModeCoupling(t *testing.T) {
	ch := newChannel("#room")
	assert.False(t, ch.hasMode(modeKey))

	ch.setKey("sesame")
	assert.True(t, ch.hasMode(modeKey))
	assert.True(t, ch.checkKey("sesame"))
	assert.False(t, ch.checkKey("wrong"))

	ch.setKey("")
	assert.False(t, ch.hasMode(modeKey))
}

func TestLimitModeCoupling(t *testing.T) {
	ch := newChannel("#room")
	ch.setLimit(2)
	assert.True(t, ch.hasMode(modeLimit))

	ch.add(1)
	assert.False(t, ch.full())
	ch.add(2)
	assert.True(t, ch.full())

	ch.setLimit(0)
	assert.False(t, ch.hasMode(modeLimit))
	assert.False(t, ch.full())
}

func TestModeString(t *testing.T) {
	ch := newChannel("#room")
	assert.Equal(t, "", ch.modeString())

	ch.setLimit(5)
	ch.setKey("k")
	ch.setMode(modeInviteOnly)
	ch.setMode(modeTopicLock)
	assert.Equal(t, "+itkl", ch.modeString())

	ch.unsetMode(modeTopicLock)
	assert.Equal(t, "+ikl", ch.modeString())
}

func TestMemberIDsDeterministic(t *testing.T) {
	ch := newChannel("#room")
	for _, id := range []uint64{5, 3, 9, 1} {
		ch.add(id)
	}
	assert.Equal(t, []uint64{1, 3, 5, 9}, ch.memberIDs())
}

func TestValidChannelName(t *testing.T) {
	for _, name := range []string{"#room", "&local", "+open", "!tag"} {
		assert.True(t, validChannelName(name), "name %q should be valid", name)
	}
	for _, name := range []string{"", "room", "@room", ":room"} {
		assert.False(t, validChannelName(name), "name %q should be invalid", name)
	}
}
