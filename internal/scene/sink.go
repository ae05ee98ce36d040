package scene

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Sink receives the plain text lines a scene reports: removal events,
// shape listings and status summaries. Exact formatting is not a contract.
type Sink interface {
	Linef(format string, args ...any)
}

// WriterSink writes each line to an io.Writer.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a sink printing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Linef implements Sink.
func (s *WriterSink) Linef(format string, args ...any) {
	//nolint:errcheck // Best-effort output, the simulation continues regardless
	fmt.Fprintf(s.w, format+"\n", args...)
}

// MemorySink collects lines in memory. Used by tests and the viewer.
type MemorySink struct {
	mu    sync.Mutex
	lines []string
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Linef implements Sink.
func (s *MemorySink) Linef(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
}

// Lines returns a copy of everything written so far.
func (s *MemorySink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Tail returns at most the last n lines.
func (s *MemorySink) Tail(n int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		return nil
	}
	start := max(len(s.lines)-n, 0)
	out := make([]string, len(s.lines)-start)
	copy(out, s.lines[start:])
	return out
}

// Reset discards all collected lines.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = s.lines[:0]
}

// LogSink forwards each line to a structured logger at info level.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink creates a sink backed by logger.
func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Linef implements Sink.
func (s *LogSink) Linef(format string, args ...any) {
	s.logger.Info(fmt.Sprintf(format, args...))
}

// MultiSink fans every line out to several sinks.
type MultiSink []Sink

// Linef implements Sink.
func (m MultiSink) Linef(format string, args ...any) {
	for _, s := range m {
		s.Linef(format, args...)
	}
}

type discardSink struct{}

func (discardSink) Linef(string, ...any) {}

// Discard is a sink that drops every line.
var Discard Sink = discardSink{}
