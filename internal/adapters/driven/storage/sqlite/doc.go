// Package sqlite provides the durable storage adapter backed by a single
// SQLite database file.
//
// The Store owns the connection and schema migrations; the audit sink and
// the learning state store are thin wrappers sharing it. SQLite is used in
// WAL mode so CLI commands and the review TUI can read the trail while the
// pipeline appends to it.
package sqlite
