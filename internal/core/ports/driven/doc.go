// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - AuditSink: append-only audit trail persistence
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Generator: produces answers from evidence. Without it, decisions fall
//     back to deterministic evidence-only answers.
//   - Reviewer: reviews generated answers. Review output is advisory only.
//   - ContentExtractor: parses source files. Only needed for ingestion.
//   - LearningStateStore: persists learning loop state across restarts.
//   - RuleSource: loads externally-authored policy rules.
//   - PromptStore: customisable prompt templates for Generator/Reviewer.
package driven
