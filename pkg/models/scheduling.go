package models

import "time"

// PostMetadata carries auxiliary data extracted at composition time. The
// engine passes it through unmodified; only the analysis run reads it.
type PostMetadata struct {
	Hashtags []string `json:"hashtags"`
	Mentions []string `json:"mentions"`
}

// ScheduledTweet is a post queued for future publication. ThreadID and
// ThreadOrder are set together iff the post belongs to a thread; ThreadID is
// the grouping key assigned when the thread is composed, ThreadOrder the
// publish position within it.
type ScheduledTweet struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Content      string       `json:"content"`
	ScheduledFor time.Time    `json:"scheduled_for"`
	IsPosted     bool         `json:"is_posted"`
	IsThread     bool         `json:"is_thread"`
	ThreadID     string       `json:"thread_id,omitempty"`
	ThreadOrder  int          `json:"thread_order,omitempty"`
	Metadata     PostMetadata `json:"metadata"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ScheduleStats are the per-user counters shown on the schedule page.
type ScheduleStats struct {
	PendingCount  int `json:"pending_count"`
	PostedCount   int `json:"posted_count"`
	UpcomingCount int `json:"upcoming_count"`
	ThreadCount   int `json:"thread_count"`
}

// DashboardSummary is the aggregate view backing the dashboard page.
// AvgEngagement comes from the latest stored analysis, zero when none exists.
type DashboardSummary struct {
	ScheduledTweets int              `json:"scheduled_tweets"`
	TotalTweets     int              `json:"total_tweets"`
	AvgEngagement   float64          `json:"avg_engagement"`
	UpcomingTweets  []ScheduledTweet `json:"upcoming_tweets"`
}

// UserSettings holds per-user preferences. Timezone drives calendar grouping
// and time-of-day classification; everything else is presentation policy.
type UserSettings struct {
	UserID               string `json:"user_id"`
	Timezone             string `json:"timezone"`
	DefaultTweetStyle    string `json:"default_tweet_style"`
	AutoScheduleOptimal  bool   `json:"auto_schedule_optimal"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

// CreateScheduledRequest is the payload for scheduling a new tweet.
type CreateScheduledRequest struct {
	Content      string       `json:"content" binding:"required"`
	ScheduledFor time.Time    `json:"scheduled_for" binding:"required"`
	IsThread     bool         `json:"is_thread"`
	ThreadID     string       `json:"thread_id"`
	ThreadOrder  int          `json:"thread_order"`
	Metadata     PostMetadata `json:"metadata"`
}

// RescheduleRequest moves an unposted tweet to a new publish time.
type RescheduleRequest struct {
	ScheduledFor time.Time `json:"scheduled_for" binding:"required"`
}
