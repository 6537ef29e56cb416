package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Utkarsh-OTS/smm/pkg/models"
)

// SaveAnalysis replaces the user's analysis row wholesale. Analyses are
// derived views: there is exactly one per user and it is never patched.
func (s *Store) SaveAnalysis(ctx context.Context, a *models.TweetAnalysis) error {
	hashtags, err := json.Marshal(a.CommonHashtags)
	if err != nil {
		return fmt.Errorf("failed to encode common hashtags: %w", err)
	}
	style, err := json.Marshal(a.WritingStyle)
	if err != nil {
		return fmt.Errorf("failed to encode writing style: %w", err)
	}
	topics, err := json.Marshal(a.TopicAnalysis)
	if err != nil {
		return fmt.Errorf("failed to encode topic analysis: %w", err)
	}
	pattern, err := json.Marshal(a.PostingPattern)
	if err != nil {
		return fmt.Errorf("failed to encode posting pattern: %w", err)
	}

	query := `
		INSERT INTO tweet_analyses (user_id, total_tweets, avg_engagement, common_hashtags, writing_style, topic_analysis, sentiment_score, posting_pattern, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			total_tweets = EXCLUDED.total_tweets,
			avg_engagement = EXCLUDED.avg_engagement,
			common_hashtags = EXCLUDED.common_hashtags,
			writing_style = EXCLUDED.writing_style,
			topic_analysis = EXCLUDED.topic_analysis,
			sentiment_score = EXCLUDED.sentiment_score,
			posting_pattern = EXCLUDED.posting_pattern,
			generated_at = EXCLUDED.generated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		a.UserID, a.TotalTweets, a.AvgEngagement, hashtags, style, topics,
		a.SentimentScore, pattern, a.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// LatestAnalysis returns the user's stored analysis, or ErrNotFound when no
// run has happened yet.
func (s *Store) LatestAnalysis(ctx context.Context, userID string) (*models.TweetAnalysis, error) {
	query := `
		SELECT user_id, total_tweets, avg_engagement, common_hashtags, writing_style, topic_analysis, sentiment_score, posting_pattern, generated_at
		FROM tweet_analyses
		WHERE user_id = $1
	`

	var (
		a        models.TweetAnalysis
		hashtags []byte
		style    []byte
		topics   []byte
		pattern  []byte
	)
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&a.UserID, &a.TotalTweets, &a.AvgEngagement, &hashtags, &style,
		&topics, &a.SentimentScore, &pattern, &a.GeneratedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}

	if err := json.Unmarshal(hashtags, &a.CommonHashtags); err != nil {
		return nil, fmt.Errorf("failed to decode common hashtags: %w", err)
	}
	if err := json.Unmarshal(style, &a.WritingStyle); err != nil {
		return nil, fmt.Errorf("failed to decode writing style: %w", err)
	}
	if err := json.Unmarshal(topics, &a.TopicAnalysis); err != nil {
		return nil, fmt.Errorf("failed to decode topic analysis: %w", err)
	}
	if err := json.Unmarshal(pattern, &a.PostingPattern); err != nil {
		return nil, fmt.Errorf("failed to decode posting pattern: %w", err)
	}

	return &a, nil
}

// ReplaceSuggestions swaps the user's suggestion list atomically. Each run
// re-derives the full list, so prior rows are dropped rather than merged.
func (s *Store) ReplaceSuggestions(ctx context.Context, userID string, suggestions []models.ProfileOptimization) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM profile_optimizations WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear suggestions: %w", err)
	}

	for i := range suggestions {
		sg := &suggestions[i]
		if sg.ID == "" {
			sg.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO profile_optimizations (id, user_id, suggestion_type, title, description, priority) VALUES ($1, $2, $3, $4, $5, $6)`,
			sg.ID, userID, sg.SuggestionType, sg.Title, sg.Description, sg.Priority,
		)
		if err != nil {
			return fmt.Errorf("failed to insert suggestion: %w", err)
		}
	}

	return tx.Commit()
}

// ListSuggestions returns the user's suggestions ranked by priority
// descending, with suggestion type as a stable tiebreak.
func (s *Store) ListSuggestions(ctx context.Context, userID string) ([]models.ProfileOptimization, error) {
	query := `
		SELECT id, user_id, suggestion_type, title, description, priority, created_at
		FROM profile_optimizations
		WHERE user_id = $1
		ORDER BY priority DESC, suggestion_type ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	suggestions := []models.ProfileOptimization{}
	for rows.Next() {
		var sg models.ProfileOptimization
		if err := rows.Scan(&sg.ID, &sg.UserID, &sg.SuggestionType, &sg.Title, &sg.Description, &sg.Priority, &sg.CreatedAt); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, sg)
	}
	return suggestions, rows.Err()
}

// GetSettings returns the user's settings, falling back to defaults when the
// user has never saved any.
func (s *Store) GetSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	query := `
		SELECT user_id, timezone, default_tweet_style, auto_schedule_optimal, notifications_enabled
		FROM user_settings
		WHERE user_id = $1
	`

	var settings models.UserSettings
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.UserID, &settings.Timezone, &settings.DefaultTweetStyle,
		&settings.AutoScheduleOptimal, &settings.NotificationsEnabled,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.UserSettings{
			UserID:               userID,
			Timezone:             "UTC",
			DefaultTweetStyle:    "professional",
			NotificationsEnabled: true,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user settings: %w", err)
	}

	return &settings, nil
}
