package events

import (
	"sync"
	"sync/atomic"

	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
)

// defaultQueueSize bounds an AsyncSink's backlog when the caller passes no
// size.
const defaultQueueSize = 256

// AsyncSink decouples publishers from a slow delegate. Publish enqueues
// without blocking; when the queue is full the oldest queued event is
// dropped to make room.
type AsyncSink struct {
	delegate Sink
	logger   logging.Logger
	queue    chan Event
	done     chan struct{}
	wg       sync.WaitGroup
	closed   atomic.Bool
	dropped  atomic.Int64
}

// NewAsyncSink starts the delivery worker. size <= 0 selects the default
// queue size.
func NewAsyncSink(delegate Sink, size int, logger logging.Logger) *AsyncSink {
	if size <= 0 {
		size = defaultQueueSize
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &AsyncSink{
		delegate: delegate,
		logger:   logger,
		queue:    make(chan Event, size),
		done:     make(chan struct{}),
	}
	s.wg.Add(1)
	go s.drain()
	return s
}

// Publish enqueues the event and returns immediately. After Close the event
// is discarded.
func (s *AsyncSink) Publish(ev Event) error {
	if s.closed.Load() {
		s.dropped.Add(1)
		return nil
	}
	for {
		select {
		case s.queue <- ev:
			return nil
		default:
		}
		select {
		case <-s.queue:
			s.dropped.Add(1)
		default:
		}
	}
}

// Close flushes queued events to the delegate and stops the worker.
func (s *AsyncSink) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		close(s.done)
	}
	s.wg.Wait()
	return nil
}

// Dropped reports how many events were discarded on overflow or after Close.
func (s *AsyncSink) Dropped() int64 { return s.dropped.Load() }

func (s *AsyncSink) drain() {
	defer s.wg.Done()
	for {
		select {
		case ev := <-s.queue:
			s.deliver(ev)
		case <-s.done:
			for {
				select {
				case ev := <-s.queue:
					s.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (s *AsyncSink) deliver(ev Event) {
	if err := s.delegate.Publish(ev); err != nil {
		s.logger.Warn("async event delivery failed",
			logging.String("type", ev.Type),
			logging.String("case_id", ev.CaseID),
			logging.Err(err))
	}
}

// MemorySink records events in order, for tests and in-process observers.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// NewMemorySink builds an empty recorder.
func NewMemorySink() *MemorySink { return &MemorySink{} }

// Publish appends the event.
func (s *MemorySink) Publish(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

// Events returns a copy of everything published so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Types returns the event types in publish order.
func (s *MemorySink) Types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Type
	}
	return out
}

// LogSink writes each event through the logging facade.
type LogSink struct {
	logger logging.Logger
}

// NewLogSink wraps the logger. A nil logger selects the process default.
func NewLogSink(logger logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{logger: logger}
}

// Publish logs the event at info level, keyed by its type.
func (s *LogSink) Publish(ev Event) error {
	fields := []logging.Field{logging.String("case_id", ev.CaseID)}
	if ev.FileName != "" {
		fields = append(fields, logging.String("file_name", ev.FileName))
	}
	if ev.Message != "" {
		fields = append(fields, logging.String("message", ev.Message))
	}
	if ev.Error != "" {
		fields = append(fields, logging.String("error", ev.Error))
	}
	s.logger.Info(ev.Type, fields...)
	return nil
}
