package irc

import (
	"sort"
	"strings"
)

// Channel mode letters.
const (
	modeInviteOnly = 'i' // joins require an invitation
	modeTopicLock  = 't' // topic changes require operator status
	modeKey        = 'k' // joins require the channel key
	modeLimit      = 'l' // membership is capped
)

// channelModeOrder fixes the rendering order of the mode string.
const channelModeOrder = "itkl"

// Channel is a named group conversation. Membership and the operator
// subset are sets of connection ids; clients are resolved through the
// server registries, never referenced directly.
type Channel struct {
	name    string
	topic   string
	members map[uint64]bool
	ops     map[uint64]bool
	modes   map[rune]bool
	key     string
	limit   int
}

func newChannel(name string) *Channel {
	return &Channel{
		name:    name,
		members: make(map[uint64]bool),
		ops:     make(map[uint64]bool),
		modes:   make(map[rune]bool),
	}
}

// validChannelName reports whether name carries a permitted leading
// sigil. Length is checked separately so the caller can reply with the
// right error.
func validChannelName(name string) bool {
	if name == "" {
		return false
	}
	switch name[0] {
	case '#', '&', '+', '!':
		return true
	}
	return false
}

// add inserts a member. The first client ever added becomes operator.
func (ch *Channel) add(id uint64) {
	ch.members[id] = true
	if len(ch.members) == 1 {
		ch.ops[id] = true
	}
}

// remove drops a member and any operator status it held.
func (ch *Channel) remove(id uint64) {
	delete(ch.members, id)
	delete(ch.ops, id)
}

func (ch *Channel) has(id uint64) bool {
	return ch.members[id]
}

func (ch *Channel) isOp(id uint64) bool {
	return ch.ops[id]
}

// grantOp promotes a current member. Non-members cannot hold ops.
func (ch *Channel) grantOp(id uint64) {
	if ch.members[id] {
		ch.ops[id] = true
	}
}

func (ch *Channel) revokeOp(id uint64) {
	delete(ch.ops, id)
}

func (ch *Channel) empty() bool {
	return len(ch.members) == 0
}

func (ch *Channel) hasMode(mode rune) bool {
	return ch.modes[mode]
}

func (ch *Channel) setMode(mode rune) {
	ch.modes[mode] = true
}

func (ch *Channel) unsetMode(mode rune) {
	delete(ch.modes, mode)
}

// setKey sets or clears the channel key; +k is set exactly while the
// key is non-empty.
func (ch *Channel) setKey(key string) {
	ch.key = key
	if key == "" {
		ch.unsetMode(modeKey)
	} else {
		ch.setMode(modeKey)
	}
}

func (ch *Channel) checkKey(key string) bool {
	return ch.key == key
}

// setLimit sets or clears the user limit; +l is set exactly while the
// limit is positive.
func (ch *Channel) setLimit(limit int) {
	if limit > 0 {
		ch.limit = limit
		ch.setMode(modeLimit)
	} else {
		ch.limit = 0
		ch.unsetMode(modeLimit)
	}
}

func (ch *Channel) full() bool {
	return ch.hasMode(modeLimit) && len(ch.members) >= ch.limit
}

// modeString renders the set modes as "+itkl" in a fixed order, or ""
// when no mode is set.
func (ch *Channel) modeString() string {
	var b strings.Builder
	for _, mode := range channelModeOrder {
		if ch.modes[mode] {
			b.WriteRune(mode)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "+" + b.String()
}

// memberIDs returns the membership sorted by connection id, so listings
// enumerate deterministically.
func (ch *Channel) memberIDs() []uint64 {
	ids := make([]uint64, 0, len(ch.members))
	for id := range ch.members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
