// Package events publishes pipeline progress to injected sinks. One event
// serializes to one JSON object; delivery is best-effort and never fails a
// case.
package events

import (
	"time"

	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
)

// Event types emitted at the documented progress points.
const (
	TypeCaseStart        = "case_start"
	TypeCaseComplete     = "case_complete"
	TypeDocumentStart    = "document_start"
	TypeDocumentComplete = "document_complete"
	TypeDocumentError    = "document_error"
)

// Event is one progress notification.
type Event struct {
	Type      string    `json:"type"`
	CaseID    string    `json:"case_id"`
	Timestamp time.Time `json:"timestamp"`
	FileName  string    `json:"file_name,omitempty"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Sink receives published events. Implementations own their queueing and
// must not block callers on slow delivery.
type Sink interface {
	Publish(Event) error
}

// Broadcaster stamps and publishes the events for one case. Publish
// failures are logged and swallowed. A nil Broadcaster is valid and
// publishes nothing, so callers never branch on whether eventing is wired.
type Broadcaster struct {
	caseID string
	sink   Sink
	logger logging.Logger
	now    func() time.Time
}

// Option configures a Broadcaster.
type Option func(*Broadcaster)

// WithLogger routes publish failures to l instead of the process default.
func WithLogger(l logging.Logger) Option {
	return func(b *Broadcaster) { b.logger = l }
}

// WithNow overrides event timestamping, for tests.
func WithNow(now func() time.Time) Option {
	return func(b *Broadcaster) { b.now = now }
}

// NewBroadcaster binds a case id to a sink. A nil sink yields a silent
// broadcaster.
func NewBroadcaster(caseID string, sink Sink, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		caseID: caseID,
		sink:   sink,
		logger: logging.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CaseStart announces that consolidation of the case began.
func (b *Broadcaster) CaseStart(message string) {
	b.emit(Event{Type: TypeCaseStart, Message: message})
}

// CaseComplete announces that the case record is finished.
func (b *Broadcaster) CaseComplete(message string) {
	b.emit(Event{Type: TypeCaseComplete, Message: message})
}

// DocumentStart announces that a file entered processing.
func (b *Broadcaster) DocumentStart(fileName string) {
	b.emit(Event{Type: TypeDocumentStart, FileName: fileName})
}

// DocumentComplete announces that a file finished processing.
func (b *Broadcaster) DocumentComplete(fileName, message string) {
	b.emit(Event{Type: TypeDocumentComplete, FileName: fileName, Message: message})
}

// DocumentError announces that a file failed processing. The case goes on.
func (b *Broadcaster) DocumentError(fileName string, err error) {
	ev := Event{Type: TypeDocumentError, FileName: fileName}
	if err != nil {
		ev.Error = err.Error()
	}
	b.emit(ev)
}

func (b *Broadcaster) emit(ev Event) {
	if b == nil || b.sink == nil {
		return
	}
	ev.CaseID = b.caseID
	ev.Timestamp = b.now()
	if err := b.sink.Publish(ev); err != nil {
		b.logger.Warn("event publish failed",
			logging.String("type", ev.Type),
			logging.String("case_id", ev.CaseID),
			logging.Err(err))
	}
}
