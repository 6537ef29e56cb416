package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Utkarsh-OTS/smm/pkg/models"
)

func TestCountStats_SpecExample(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	posted := tweetAt("a", now.Add(-24*time.Hour))
	posted.IsPosted = true
	tomorrow := tweetAt("b", now.Add(24*time.Hour))
	dayAfter := tweetAt("c", now.Add(48*time.Hour))

	stats := CountStats([]models.ScheduledTweet{posted, tomorrow, dayAfter}, now)

	assert.Equal(t, 2, stats.PendingCount)
	assert.Equal(t, 1, stats.PostedCount)
	assert.Equal(t, 2, stats.UpcomingCount)
	assert.Equal(t, 0, stats.ThreadCount)
}

func TestCountStats_CountsThreadMembers(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	tweets := []models.ScheduledTweet{
		threadTweet("a", "th1", 1),
		threadTweet("b", "th1", 2),
		tweetAt("solo", now.Add(time.Hour)),
	}

	stats := CountStats(tweets, now)
	assert.Equal(t, 2, stats.ThreadCount)
}

func TestUpcoming_SortsAndCaps(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tweets := []models.ScheduledTweet{
		tweetAt("far", now.Add(72*time.Hour)),
		tweetAt("soon", now.Add(time.Hour)),
		tweetAt("mid", now.Add(24*time.Hour)),
		tweetAt("past", now.Add(-time.Hour)),
	}
	postedSoon := tweetAt("posted", now.Add(2*time.Hour))
	postedSoon.IsPosted = true
	tweets = append(tweets, postedSoon)

	upcoming := Upcoming(tweets, now, 2)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "soon", upcoming[0].ID)
	assert.Equal(t, "mid", upcoming[1].ID)
}

func TestUpcoming_TiesBrokenByID(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	when := now.Add(time.Hour)

	upcoming := Upcoming([]models.ScheduledTweet{tweetAt("b", when), tweetAt("a", when)}, now, 0)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "a", upcoming[0].ID)
}

func TestBuildDashboard_Empty(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	summary := BuildDashboard(nil, nil, now, 0)

	assert.Equal(t, 0, summary.ScheduledTweets)
	assert.Equal(t, 0, summary.TotalTweets)
	assert.Zero(t, summary.AvgEngagement)
	assert.Empty(t, summary.UpcomingTweets)
}

func TestBuildDashboard_UsesLatestAnalysis(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	posted := tweetAt("a", now.Add(-time.Hour))
	posted.IsPosted = true
	pending := tweetAt("b", now.Add(time.Hour))

	analysis := &models.TweetAnalysis{UserID: "u1", AvgEngagement: 4.2}
	summary := BuildDashboard([]models.ScheduledTweet{posted, pending}, analysis, now, 5)

	assert.Equal(t, 1, summary.ScheduledTweets)
	assert.Equal(t, 2, summary.TotalTweets)
	assert.Equal(t, 4.2, summary.AvgEngagement)
	require.Len(t, summary.UpcomingTweets, 1)
	assert.Equal(t, "b", summary.UpcomingTweets[0].ID)
}
