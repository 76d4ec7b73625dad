package irc

import (
	"bytes"
	"strings"
)

// lineBuffer reassembles a fragmented byte stream into protocol lines.
// A line ends at CR, LF, or CRLF; terminators are stripped. Bytes after
// the last terminator stay buffered until more input arrives. There is
// no cap on the buffered remainder.
type lineBuffer struct {
	pending []byte
}

// Feed appends p to the buffer and returns every complete line it now
// holds, in order. Lines beginning with ':' (source-prefixed, as in
// server-to-server framing) are dropped here and never dispatched.
func (b *lineBuffer) Feed(p []byte) []string {
	b.pending = append(b.pending, p...)

	var lines []string
	for {
		i := bytes.IndexAny(b.pending, "\r\n")
		if i < 0 {
			break
		}
		line := string(b.pending[:i])
		next := i + 1
		if b.pending[i] == '\r' && next < len(b.pending) && b.pending[next] == '\n' {
			next++
		}
		b.pending = b.pending[next:]
		if strings.HasPrefix(line, ":") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
