package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Tail is a logrus hook keeping the most recent formatted lines in a
// ring, so the status page can show a live log excerpt without reading
// files.
type Tail struct {
	mu    sync.Mutex
	lines []string
	cap   int
}

func NewTail(capacity int) *Tail {
	if capacity <= 0 {
		capacity = 50
	}
	return &Tail{cap: capacity}
}

func (t *Tail) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (t *Tail) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.cap {
		t.lines = t.lines[len(t.lines)-t.cap:]
	}
	t.mu.Unlock()
	return nil
}

// Recent returns the buffered lines, oldest first.
func (t *Tail) Recent() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

// New builds the process logger with the given level name and a tail
// hook attached. An unknown level falls back to info.
func New(level string) (*logrus.Logger, *Tail) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	tail := NewTail(50)
	log.AddHook(tail)
	return log, tail
}
