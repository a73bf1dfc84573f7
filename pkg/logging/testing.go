package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger records JSON log output for assertions. It is safe to log to
// from several goroutines, as the HTTP server and event broker do.
type TestLogger struct {
	*zerolog.Logger
	out *syncBuffer
}

// Entry is one decoded log line.
type Entry struct {
	Level   string
	Message string
	Fields  map[string]any
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewTestLogger returns a trace-level logger whose output is kept in memory.
// The global level is restored when the test ends.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()

	out := &syncBuffer{}
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	logger := zerolog.New(out).Level(zerolog.TraceLevel)
	return &TestLogger{Logger: &logger, out: out}
}

// Output returns everything logged so far.
func (tl *TestLogger) Output() string {
	return tl.out.String()
}

// Lines returns the raw log lines.
func (tl *TestLogger) Lines() []string {
	output := strings.TrimSpace(tl.Output())
	if output == "" {
		return []string{}
	}
	return strings.Split(output, "\n")
}

// Contains reports whether substr appears anywhere in the output.
func (tl *TestLogger) Contains(substr string) bool {
	return strings.Contains(tl.Output(), substr)
}

// Entries decodes the output. Lines that are not JSON objects are skipped.
func (tl *TestLogger) Entries() []Entry {
	var entries []Entry
	for _, line := range tl.Lines() {
		var fields map[string]any
		if err := json.Unmarshal([]byte(line), &fields); err != nil {
			continue
		}
		e := Entry{Fields: fields}
		e.Level, _ = fields[zerolog.LevelFieldName].(string)
		e.Message, _ = fields[zerolog.MessageFieldName].(string)
		delete(fields, zerolog.LevelFieldName)
		delete(fields, zerolog.MessageFieldName)
		entries = append(entries, e)
	}
	return entries
}

// Find returns the first entry logged at level with message msg.
func (tl *TestLogger) Find(level zerolog.Level, msg string) (Entry, bool) {
	for _, e := range tl.Entries() {
		if e.Level == level.String() && e.Message == msg {
			return e, true
		}
	}
	return Entry{}, false
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
