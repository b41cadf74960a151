package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Tag prefixes every diagnostic line.
const Tag = "mod_webauth"

// Sink receives formatted diagnostic lines.
type Sink interface {
	Log(level hclog.Level, msg string)
}

// Errorf formats a tagged line and sends it to sink at error level.
// A nil sink drops the line.
func Errorf(sink Sink, format string, args ...interface{}) {
	if sink == nil {
		return
	}
	sink.Log(hclog.Error, Tag+": "+fmt.Sprintf(format, args...))
}

// Options configures the process logger.
type Options struct {
	// Name of the root logger. Defaults to "webauth".
	Name string
	// Level is one of trace, debug, info, warn, error.
	Level string
	// Format is json or text.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// NewLogger builds the hclog logger used by the server and CLI.
func NewLogger(opts Options) hclog.Logger {
	name := opts.Name
	if name == "" {
		name = "webauth"
	}
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      ParseLevel(opts.Level),
		Output:     output,
		JSONFormat: strings.EqualFold(opts.Format, "json"),
	})
}

// ParseLevel maps a level name to an hclog level, defaulting to info.
func ParseLevel(level string) hclog.Level {
	l := hclog.LevelFromString(level)
	if l == hclog.NoLevel {
		return hclog.Info
	}
	return l
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	return hclog.LevelFromString(level) != hclog.NoLevel
}

// Logger adapts an hclog.Logger to a Sink.
type Logger struct {
	L hclog.Logger
}

// FromLogger wraps l. A nil logger yields a sink that discards everything.
func FromLogger(l hclog.Logger) Logger {
	if l == nil {
		l = hclog.NewNullLogger()
	}
	return Logger{L: l}
}

// Log implements Sink.
func (s Logger) Log(level hclog.Level, msg string) {
	s.L.Log(level, msg)
}

// Discard is a Sink that drops every line.
var Discard Sink = discard{}

type discard struct{}

func (discard) Log(hclog.Level, string) {}

// Entry is a single recorded diagnostic line.
type Entry struct {
	Level   hclog.Level
	Message string
}

// Recorder is a Sink that keeps every line in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Log implements Sink.
func (r *Recorder) Log(level hclog.Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg})
}

// Entries returns a copy of the recorded lines.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of recorded lines.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reset drops all recorded lines.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
