package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLogAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	log, err := OpenEventLog(path)
	require.NoError(t, err)

	log.Record("Server started on port 6667")
	log.Recordf("New connection from %s", "127.0.0.1")
	require.NoError(t, log.Close())

	events, err := ReadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Server started on port 6667", events[0])
	assert.Equal(t, "New connection from 127.0.0.1", events[1])
}

func TestEventLogAppendsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	log, err := OpenEventLog(path)
	require.NoError(t, err)
	log.Record("first run")
	require.NoError(t, log.Close())

	log, err = OpenEventLog(path)
	require.NoError(t, err)
	log.Record("second run")
	require.NoError(t, log.Close())

	events, err := ReadEvents(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"first run", "second run"}, events)
}

func TestEventLogRecordAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	log, err := OpenEventLog(path)
	require.NoError(t, err)
	require.NoError(t, log.Close())

	// Must not panic or write.
	log.Record("too late")
	require.NoError(t, log.Close())

	events, err := ReadEvents(path)
	require.NoError(t, err)
	assert.Empty(t, events)
}
