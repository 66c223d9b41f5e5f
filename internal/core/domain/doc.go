// Package domain defines the core entities for the nanocortex decision
// pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - DocumentIngestion, Chunk: extracted and indexed evidence content
//   - RetrievalResult, Citation: scored, cited retrieval output
//   - PolicyRule, Condition, PolicyEvaluation: declarative decision policy
//   - Decision, HumanOverride: audited decision lifecycle
//   - FeedbackRecord, LearningAdjustment: the learning loop's records
//   - AuditEvent: append-only audit trail entries
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse. Every record type here is treated as an
// immutable value once constructed; state transitions build new values.
package domain
