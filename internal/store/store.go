// Package store is the authoritative collection of scheduled tweets and
// derived analytics records, backed by Postgres. Publish-state transitions
// are per-record compare-and-set so two workers racing on the same tweet
// cannot both win.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	schemasql "github.com/Utkarsh-OTS/smm/pkg/database/sql"
	"github.com/Utkarsh-OTS/smm/pkg/logging"
)

var (
	// ErrNotFound is returned when a referenced tweet does not exist or
	// belongs to another user.
	ErrNotFound = errors.New("scheduled tweet not found")

	// ErrAlreadyPosted is returned when a publish-state transition loses the
	// compare-and-set: the tweet was already marked posted.
	ErrAlreadyPosted = errors.New("tweet already posted")

	// ErrPostedImmutable is returned when a mutation targets a posted tweet.
	// Posted records are append-only history for analytics.
	ErrPostedImmutable = errors.New("posted tweets are immutable history")

	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("validation failed")
)

// Store wraps the database connection with typed operations.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// New creates a new Store
func New(db *sql.DB, logger logging.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// DB exposes the underlying connection for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate applies the embedded schema files in lexical order. All statements
// are idempotent, so running on every startup is safe.
func (s *Store) Migrate(ctx context.Context) error {
	entries, err := fs.Glob(schemasql.Content, "schema/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list schema files: %w", err)
	}
	sort.Strings(entries)

	for _, name := range entries {
		contents, err := schemasql.Content.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(contents)); err != nil {
			return fmt.Errorf("failed to apply %s: %w", name, err)
		}
		s.logger.WithField("schema", name).Debug("Applied schema file")
	}

	return nil
}
