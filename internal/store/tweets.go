package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Utkarsh-OTS/smm/pkg/models"
	"github.com/Utkarsh-OTS/smm/pkg/validation"
)

const tweetColumns = `id, user_id, content, scheduled_for, is_posted, is_thread, thread_id, thread_order, metadata, created_at, updated_at`

// validateNewTweet enforces the creation-time invariants: valid content,
// and thread identity fields set together or not at all.
func validateNewTweet(t *models.ScheduledTweet) error {
	if err := validation.ValidateTweetContent(t.Content); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if t.IsThread {
		if t.ThreadID == "" {
			return fmt.Errorf("%w: thread posts require a thread_id", ErrValidation)
		}
		if t.ThreadOrder < 1 {
			return fmt.Errorf("%w: thread posts require a positive thread_order", ErrValidation)
		}
	} else {
		if t.ThreadID != "" || t.ThreadOrder != 0 {
			return fmt.Errorf("%w: thread_id and thread_order are only valid on thread posts", ErrValidation)
		}
	}
	if t.ScheduledFor.IsZero() {
		return fmt.Errorf("%w: scheduled_for is required", ErrValidation)
	}
	return nil
}

// CreateTweet validates and inserts a new scheduled tweet, assigning an ID
// when the caller did not provide one.
func (s *Store) CreateTweet(ctx context.Context, t *models.ScheduledTweet) (*models.ScheduledTweet, error) {
	if err := validateNewTweet(t); err != nil {
		return nil, err
	}

	for i, tag := range t.Metadata.Hashtags {
		tag = validation.NormalizeHashtag(tag)
		if err := validation.ValidateHashtag(tag); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err)
		}
		t.Metadata.Hashtags[i] = tag
	}

	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	metadata, err := json.Marshal(t.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	query := `
		INSERT INTO scheduled_tweets (id, user_id, content, scheduled_for, is_thread, thread_id, thread_order, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err = s.db.QueryRowContext(ctx, query,
		t.ID, t.UserID, t.Content, t.ScheduledFor, t.IsThread,
		nullString(t.ThreadID), nullInt(t.ThreadOrder), metadata,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert scheduled tweet: %w", err)
	}

	return t, nil
}

// GetTweet fetches a single tweet scoped to its owner.
func (s *Store) GetTweet(ctx context.Context, userID, id string) (*models.ScheduledTweet, error) {
	query := `SELECT ` + tweetColumns + ` FROM scheduled_tweets WHERE id = $1 AND user_id = $2`

	t, err := scanTweet(s.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTweets returns every tweet for a user, scheduled-time ascending with
// ID tiebreak. Callers re-sort or filter as needed.
func (s *Store) ListTweets(ctx context.Context, userID string) ([]models.ScheduledTweet, error) {
	query := `SELECT ` + tweetColumns + ` FROM scheduled_tweets WHERE user_id = $1 ORDER BY scheduled_for ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled tweets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTweets(rows)
}

// ListDue returns unposted tweets whose scheduled time has arrived, across
// all users, oldest first. Used by the publish dispatch worker.
func (s *Store) ListDue(ctx context.Context, now time.Time, limit int) ([]models.ScheduledTweet, error) {
	query := `
		SELECT ` + tweetColumns + `
		FROM scheduled_tweets
		WHERE NOT is_posted AND scheduled_for <= $1
		ORDER BY scheduled_for ASC, id ASC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due tweets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTweets(rows)
}

// DeleteTweet removes an unposted tweet. Deleting a posted tweet fails with
// ErrPostedImmutable; a tweet the user does not own is ErrNotFound.
func (s *Store) DeleteTweet(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM scheduled_tweets WHERE id = $1 AND user_id = $2 AND NOT is_posted`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled tweet: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Nothing deleted: either the tweet is already posted or it never existed.
	return s.classifyMiss(ctx, userID, id, ErrPostedImmutable)
}

// MarkPosted flips a tweet to posted exactly once. The guard on is_posted
// makes this a compare-and-set: a concurrent winner leaves the second caller
// with ErrAlreadyPosted.
func (s *Store) MarkPosted(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE scheduled_tweets SET is_posted = TRUE, updated_at = now() WHERE id = $1 AND user_id = $2 AND NOT is_posted`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark tweet posted: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	return s.classifyMiss(ctx, userID, id, ErrAlreadyPosted)
}

// Reschedule moves an unposted tweet to a new publish time. Posted tweets
// are immutable history.
func (s *Store) Reschedule(ctx context.Context, userID, id string, newTime time.Time) error {
	if newTime.IsZero() {
		return fmt.Errorf("%w: scheduled_for is required", ErrValidation)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE scheduled_tweets SET scheduled_for = $3, updated_at = now() WHERE id = $1 AND user_id = $2 AND NOT is_posted`,
		id, userID, newTime,
	)
	if err != nil {
		return fmt.Errorf("failed to reschedule tweet: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	return s.classifyMiss(ctx, userID, id, ErrPostedImmutable)
}

// ListActiveUsers returns the users with at least one scheduled tweet, for
// the periodic analysis refresh.
func (s *Store) ListActiveUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM scheduled_tweets ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// classifyMiss distinguishes "guard failed" from "row missing" after a
// conditional write matched zero rows.
func (s *Store) classifyMiss(ctx context.Context, userID, id string, postedErr error) error {
	var isPosted bool
	err := s.db.QueryRowContext(ctx,
		`SELECT is_posted FROM scheduled_tweets WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&isPosted)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if isPosted {
		return postedErr
	}
	// The row reappeared unposted between the write and this read; treat it
	// as a lost race the caller can retry.
	return ErrNotFound
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTweet(row rowScanner) (*models.ScheduledTweet, error) {
	var (
		t           models.ScheduledTweet
		threadID    sql.NullString
		threadOrder sql.NullInt32
		metadata    []byte
	)

	err := row.Scan(
		&t.ID, &t.UserID, &t.Content, &t.ScheduledFor, &t.IsPosted, &t.IsThread,
		&threadID, &threadOrder, &metadata, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if threadID.Valid {
		t.ThreadID = threadID.String
	}
	if threadOrder.Valid {
		t.ThreadOrder = int(threadOrder.Int32)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &t.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode tweet metadata: %w", err)
		}
	}

	return &t, nil
}

func collectTweets(rows *sql.Rows) ([]models.ScheduledTweet, error) {
	tweets := []models.ScheduledTweet{}
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, *t)
	}
	return tweets, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int) sql.NullInt32 {
	return sql.NullInt32{Int32: int32(i), Valid: i != 0}
}
