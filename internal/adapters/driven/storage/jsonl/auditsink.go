// Package jsonl provides a line-delimited JSON audit sink. Events
// append to daily audit-YYYY-MM-DD.jsonl files, one JSON object per
// line, so trails can be inspected with standard text tooling.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// Ensure AuditSink implements the interface.
var _ driven.AuditSink = (*AuditSink)(nil)

// AuditSink appends audit events to daily JSONL files under dir.
type AuditSink struct {
	mu   sync.Mutex
	dir  string
	next driven.AuditSink
}

// NewAuditSink creates a JSONL audit sink writing under dir.
func NewAuditSink(dir string) (*AuditSink, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}
	return &AuditSink{dir: dir}, nil
}

// Tee forwards every recorded event to a second sink after the local
// write.
func (s *AuditSink) Tee(next driven.AuditSink) *AuditSink {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = next
	return s
}

// Record appends one event to today's file. Write failures are logged
// and swallowed; audit persistence never blocks the pipeline.
func (s *AuditSink) Record(event domain.AuditEvent) error {
	s.mu.Lock()
	if err := s.append(event); err != nil {
		logger.Warn("audit write failed: %v", err)
	}
	next := s.next
	s.mu.Unlock()

	if next != nil {
		_ = next.Record(event)
	}
	return nil
}

func (s *AuditSink) append(event domain.AuditEvent) error {
	day := event.Timestamp
	if day.IsZero() {
		day = time.Now()
	}
	name := fmt.Sprintf("audit-%s.jsonl", day.UTC().Format("2006-01-02"))

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	line, err := json.Marshal(event)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	_, err = f.Write(line)
	return err
}

// Events reads back all audit files in filename (date) order and
// returns events matching the filter. Unreadable lines are skipped.
func (s *AuditSink) Events(filter driven.AuditFilter) []domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths, err := filepath.Glob(filepath.Join(s.dir, "audit-*.jsonl"))
	if err != nil {
		return nil
	}
	sort.Strings(paths)

	var matched []domain.AuditEvent
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			logger.Warn("audit read failed: %v", err)
			continue
		}

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			var event domain.AuditEvent
			if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
				continue
			}
			if filter.DecisionID != "" && event.DecisionID != filter.DecisionID {
				continue
			}
			if filter.Layer != "" && event.Layer != filter.Layer {
				continue
			}
			matched = append(matched, event)
		}
		f.Close()
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
