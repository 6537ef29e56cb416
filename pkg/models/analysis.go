package models

import "time"

// HashtagFrequency is one row of the hashtag frequency table, ordered by
// descending frequency with alphabetical tiebreak.
type HashtagFrequency struct {
	Tag       string `json:"tag"`
	Frequency int    `json:"frequency"`
}

// TopicShare is a topic's percentage of the user's posts. Shares across an
// analysis sum to 100 up to rounding.
type TopicShare struct {
	Topic      string  `json:"topic"`
	Percentage float64 `json:"percentage"`
}

// WritingStyle summarizes how the user writes.
type WritingStyle struct {
	Tone           string `json:"tone"`
	AvgLength      int    `json:"avg_length"`
	EmojiUsage     string `json:"emoji_usage"`
	HashtagPattern string `json:"hashtag_pattern"`
}

// PostingPattern captures when the user's posts perform best.
type PostingPattern struct {
	BestTimes  []string `json:"best_times"`
	Frequency  string   `json:"frequency"`
	Engagement string   `json:"engagement"`
}

// TweetAnalysis is the per-user aggregate produced by an analysis run. It is
// recomputed wholesale and replaces the prior row; it is never patched.
type TweetAnalysis struct {
	UserID         string             `json:"user_id"`
	TotalTweets    int                `json:"total_tweets"`
	AvgEngagement  float64            `json:"avg_engagement"`
	CommonHashtags []HashtagFrequency `json:"common_hashtags"`
	WritingStyle   WritingStyle       `json:"writing_style"`
	TopicAnalysis  []TopicShare       `json:"topic_analysis"`
	SentimentScore float64            `json:"sentiment_score"`
	PostingPattern PostingPattern     `json:"posting_pattern"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

// ProfileOptimization is a system-generated improvement suggestion. Higher
// priority means more urgent; lists are returned priority-descending.
type ProfileOptimization struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	SuggestionType string    `json:"suggestion_type"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Priority       int       `json:"priority"`
	CreatedAt      time.Time `json:"created_at"`
}
