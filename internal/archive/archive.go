// internal/archive/archive.go
package archive

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	apperrors "qa-workers/internal/common/errors"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS qa_answers (
	id           BIGSERIAL PRIMARY KEY,
	run_id       UUID        NOT NULL,
	question     TEXT        NOT NULL,
	search_query TEXT        NOT NULL,
	urls         TEXT[]      NOT NULL,
	answer       TEXT        NOT NULL,
	mode         TEXT        NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
)`

const insertSQL = `
INSERT INTO qa_answers (run_id, question, search_query, urls, answer, mode, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Record is one answered question.
type Record struct {
	RunID       string
	Question    string
	SearchQuery string
	URLs        []string // pages that contributed a summary
	Answer      string
	Mode        string
	CreatedAt   time.Time
}

// Store writes answered questions to PostgreSQL.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the qa_answers table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return apperrors.NewArchiveWriteFailedError(err)
	}
	return nil
}

// Save inserts rec. A zero CreatedAt is set to now.
func (s *Store) Save(ctx context.Context, rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	urls := rec.URLs
	if urls == nil {
		urls = []string{}
	}

	_, err := s.db.ExecContext(ctx, insertSQL,
		rec.RunID,
		rec.Question,
		rec.SearchQuery,
		pq.Array(urls),
		rec.Answer,
		rec.Mode,
		rec.CreatedAt,
	)
	if err != nil {
		return apperrors.NewArchiveWriteFailedError(err)
	}
	return nil
}
