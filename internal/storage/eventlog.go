package storage

import (
	"bufio"
	"fmt"
	"os"
	"sync"
)

// EventLog is an append-only plaintext log of server lifecycle events,
// one free-text line per event. It is written but never read back by
// the server itself.
type EventLog struct {
	mu   sync.Mutex
	file *os.File
}

// OpenEventLog opens the log at path for appending, creating it if needed.
func OpenEventLog(path string) (*EventLog, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	return &EventLog{file: file}, nil
}

// Record appends one event line. Errors are swallowed; losing an event
// log line must never disturb the server.
func (l *EventLog) Record(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	fmt.Fprintln(l.file, event)
}

// Recordf appends one formatted event line.
func (l *EventLog) Recordf(format string, args ...interface{}) {
	l.Record(fmt.Sprintf(format, args...))
}

// Close closes the underlying file. Further Records are no-ops.
func (l *EventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ReadEvents reads all event lines from a log file. Only used by tests
// and tooling; the server never reads its own log.
func ReadEvents(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
