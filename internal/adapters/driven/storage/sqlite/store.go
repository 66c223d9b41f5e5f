package sqlite

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/STiFLeR7/nanocortex/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// Store is a unified SQLite-based storage that provides the durable
// audit trail and the learning loop snapshot through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.nanocortex/data/nanocortex.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".nanocortex", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "nanocortex.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// AuditSink returns an AuditSink interface backed by this store.
func (s *Store) AuditSink() driven.AuditSink {
	return &auditSink{store: s}
}

// LearningStateStore returns a LearningStateStore interface backed by
// this store.
func (s *Store) LearningStateStore() driven.LearningStateStore {
	return &learningStateStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Audit Sink ====================

// auditSink implements driven.AuditSink.
type auditSink struct {
	store *Store
}

var _ driven.AuditSink = (*auditSink)(nil)

// Record appends one event to the trail.
func (s *auditSink) Record(event domain.AuditEvent) error {
	payloadJSON, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("marshalling payload: %w", err)
	}

	if event.ID == "" {
		event.ID = domain.NewID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	_, err = s.store.db.Exec(`
		INSERT INTO audit_events (id, timestamp, layer, event_type, payload, decision_id, actor)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, event.ID, event.Timestamp, event.Layer, event.EventType,
		string(payloadJSON), event.DecisionID, event.Actor)

	if err != nil {
		return fmt.Errorf("saving audit event: %w", err)
	}
	return nil
}

// Events returns recorded events matching the filter, in emission order.
// Read errors are logged and yield an empty result: the trail is an
// inspection surface, not a dependency of core behaviour.
func (s *auditSink) Events(filter driven.AuditFilter) []domain.AuditEvent {
	query := `
		SELECT id, timestamp, layer, event_type, payload, decision_id, actor
		FROM audit_events
	`
	var clauses []string
	var args []any
	if filter.DecisionID != "" {
		clauses = append(clauses, "decision_id = ?")
		args = append(args, filter.DecisionID)
	}
	if filter.Layer != "" {
		clauses = append(clauses, "layer = ?")
		args = append(args, filter.Layer)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY rowid"

	rows, err := s.store.db.Query(query, args...)
	if err != nil {
		logger.Warn("Querying audit events: %v", err)
		return nil
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var event domain.AuditEvent
		var payloadJSON string
		if err := rows.Scan(&event.ID, &event.Timestamp, &event.Layer,
			&event.EventType, &payloadJSON, &event.DecisionID, &event.Actor); err != nil {
			logger.Warn("Scanning audit event: %v", err)
			return events
		}
		if err := json.Unmarshal([]byte(payloadJSON), &event.Payload); err != nil {
			logger.Warn("Unmarshaling audit payload: %v", err)
			event.Payload = map[string]any{}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		logger.Warn("Iterating audit events: %v", err)
	}

	return events
}

// Close is a no-op; the parent store owns the connection.
func (s *auditSink) Close() error {
	return nil
}

// ==================== Learning State Store ====================

// learningStateStore implements driven.LearningStateStore.
type learningStateStore struct {
	store *Store
}

var _ driven.LearningStateStore = (*learningStateStore)(nil)

// Save writes the state snapshot, replacing any previous one.
func (s *learningStateStore) Save(state driven.LearningState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshalling learning state: %w", err)
	}

	_, err = s.store.db.Exec(`
		INSERT INTO learning_state (id, state, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			updated_at = excluded.updated_at
	`, string(stateJSON), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving learning state: %w", err)
	}
	return nil
}

// Load reads the last saved snapshot.
func (s *learningStateStore) Load() (driven.LearningState, bool, error) {
	row := s.store.db.QueryRow("SELECT state FROM learning_state WHERE id = 1")

	var stateJSON string
	if err := row.Scan(&stateJSON); err != nil {
		if err == sql.ErrNoRows {
			return driven.LearningState{}, false, nil
		}
		return driven.LearningState{}, false, fmt.Errorf("scanning learning state: %w", err)
	}

	var state driven.LearningState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return driven.LearningState{}, false, fmt.Errorf("unmarshaling learning state: %w", err)
	}

	return state, true, nil
}

// Close is a no-op; the parent store owns the connection.
func (s *learningStateStore) Close() error {
	return nil
}
