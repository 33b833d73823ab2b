package fetcher

import "log/slog"

// ProgressSink receives one unit of progress per processed item. It is an
// observability hook only: the batch result does not depend on it.
type ProgressSink interface {
	Start(total int)
	Increment()
	Done()
}

// NopSink discards all progress events.
type NopSink struct{}

func (NopSink) Start(int)  {}
func (NopSink) Increment() {}
func (NopSink) Done()      {}

// LogSink reports progress through a structured logger, at most once per
// Every items plus a final summary.
type LogSink struct {
	Logger *slog.Logger
	Every  int

	total int
	done  int
}

func (s *LogSink) Start(total int) {
	s.total = total
	s.done = 0
	s.logger().Info("Batch started", "items", total)
}

func (s *LogSink) Increment() {
	s.done++
	every := s.Every
	if every <= 0 {
		every = 10
	}
	if s.done%every == 0 && s.done < s.total {
		s.logger().Info("Batch progress", "done", s.done, "total", s.total)
	}
}

func (s *LogSink) Done() {
	s.logger().Info("Batch finished", "done", s.done, "total", s.total)
}

func (s *LogSink) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
