// Package tui provides an interactive terminal interface for reviewing
// pending decisions. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline serves pending decisions, approvals and audit trails.
	Pipeline driving.PipelineService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	return nil
}
