package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
)

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// PendingDecisionStore returns a PendingDecisionStore interface backed
// by this store.
func (s *Store) PendingDecisionStore() driven.PendingDecisionStore {
	return &pendingDecisionStore{store: s}
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// SaveChunks appends chunks to the corpus.
func (s *chunkStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, doc_id, text, page, bbox, image_id, modality)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			doc_id = excluded.doc_id,
			text = excluded.text,
			page = excluded.page,
			bbox = excluded.bbox,
			image_id = excluded.image_id,
			modality = excluded.modality
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		var bboxJSON sql.NullString
		if chunk.BBox != nil {
			data, err := json.Marshal(chunk.BBox)
			if err != nil {
				return fmt.Errorf("marshalling bounding box: %w", err)
			}
			bboxJSON = sql.NullString{String: string(data), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocID, chunk.Text,
			chunk.Page, bboxJSON, chunk.ImageID, string(chunk.Modality)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// AllChunks returns every stored chunk in insertion order.
func (s *chunkStore) AllChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, doc_id, text, page, bbox, image_id, modality
		FROM chunks
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var modality string
		var bboxJSON sql.NullString
		if err := rows.Scan(&chunk.ID, &chunk.DocID, &chunk.Text,
			&chunk.Page, &bboxJSON, &chunk.ImageID, &modality); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if bboxJSON.Valid {
			var bbox domain.BoundingBox
			if err := json.Unmarshal([]byte(bboxJSON.String), &bbox); err != nil {
				return nil, fmt.Errorf("unmarshaling bounding box: %w", err)
			}
			chunk.BBox = &bbox
		}
		chunk.Modality = domain.Modality(modality)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// Close is a no-op; the parent store owns the connection.
func (s *chunkStore) Close() error {
	return nil
}

// ==================== Pending Decision Store ====================

// pendingDecisionStore implements driven.PendingDecisionStore.
type pendingDecisionStore struct {
	store *Store
}

var _ driven.PendingDecisionStore = (*pendingDecisionStore)(nil)

// SavePending stores a parked decision snapshot.
func (s *pendingDecisionStore) SavePending(decision domain.Decision) error {
	decisionJSON, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("marshalling decision: %w", err)
	}

	createdAt := decision.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.store.db.Exec(`
		INSERT INTO pending_decisions (id, decision, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			decision = excluded.decision,
			created_at = excluded.created_at
	`, decision.ID, string(decisionJSON), createdAt)

	if err != nil {
		return fmt.Errorf("saving pending decision: %w", err)
	}
	return nil
}

// DeletePending removes a resolved decision.
func (s *pendingDecisionStore) DeletePending(decisionID string) error {
	if _, err := s.store.db.Exec("DELETE FROM pending_decisions WHERE id = ?", decisionID); err != nil {
		return fmt.Errorf("deleting pending decision: %w", err)
	}
	return nil
}

// ListPending returns all parked decisions, oldest first.
func (s *pendingDecisionStore) ListPending() ([]domain.Decision, error) {
	rows, err := s.store.db.Query(`
		SELECT decision FROM pending_decisions ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying pending decisions: %w", err)
	}
	defer rows.Close()

	var decisions []domain.Decision //nolint:prealloc // size unknown from query
	for rows.Next() {
		var decisionJSON string
		if err := rows.Scan(&decisionJSON); err != nil {
			return nil, fmt.Errorf("scanning pending decision: %w", err)
		}
		var decision domain.Decision
		if err := json.Unmarshal([]byte(decisionJSON), &decision); err != nil {
			return nil, fmt.Errorf("unmarshaling pending decision: %w", err)
		}
		// Compiled condition patterns do not survive JSON; rebuild them
		// from the raw condition strings.
		for i := range decision.PolicyEvaluations {
			rule := &decision.PolicyEvaluations[i].Rule
			rule.Condition = domain.ParseCondition(rule.Condition.Raw)
		}
		decisions = append(decisions, decision)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending decisions: %w", err)
	}
	return decisions, nil
}

// Close is a no-op; the parent store owns the connection.
func (s *pendingDecisionStore) Close() error {
	return nil
}
