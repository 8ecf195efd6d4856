package tui

import (
	"sync"

	"github.com/fentz26/taskboard/internal/tracker"
)

// NoticeSink collects tracker notices until the UI drains them.
type NoticeSink struct {
	mu      sync.Mutex
	pending []tracker.Notice
}

// Notify implements tracker.Notifier.
func (s *NoticeSink) Notify(n tracker.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, n)
}

// Drain returns and clears the pending notices.
func (s *NoticeSink) Drain() []tracker.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}
