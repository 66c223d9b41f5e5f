package memory

import (
	"sync"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
)

// Ensure AuditSink implements the interface.
var _ driven.AuditSink = (*AuditSink)(nil)

// AuditSink is an in-memory implementation of driven.AuditSink.
// The in-memory event list is authoritative for the current process
// lifetime; durable sinks can be layered on top via Tee.
type AuditSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	next   driven.AuditSink
}

// NewAuditSink creates a new in-memory audit sink.
func NewAuditSink() *AuditSink {
	return &AuditSink{}
}

// Tee forwards every recorded event to a second sink after the local
// append. Forwarding failures are swallowed: the local list remains
// authoritative.
func (s *AuditSink) Tee(next driven.AuditSink) *AuditSink {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = next
	return s
}

// Record appends one event in emission order.
func (s *AuditSink) Record(event domain.AuditEvent) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	next := s.next
	s.mu.Unlock()

	if next != nil {
		_ = next.Record(event)
	}
	return nil
}

// Events returns recorded events matching the filter, in emission order.
func (s *AuditSink) Events(filter driven.AuditFilter) []domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []domain.AuditEvent
	for _, e := range s.events {
		if filter.DecisionID != "" && e.DecisionID != filter.DecisionID {
			continue
		}
		if filter.Layer != "" && e.Layer != filter.Layer {
			continue
		}
		matched = append(matched, e)
	}
	return matched
}

// Close releases resources.
func (s *AuditSink) Close() error {
	if s.next != nil {
		return s.next.Close()
	}
	return nil
}
