package schedule

import (
	"sort"
	"time"

	"github.com/Utkarsh-OTS/smm/pkg/models"
)

// DefaultUpcomingLimit is the dashboard upcoming-list length when the caller
// passes no explicit limit.
const DefaultUpcomingLimit = 5

// CountStats computes the per-user schedule counters in a single pass.
func CountStats(tweets []models.ScheduledTweet, now time.Time) models.ScheduleStats {
	var stats models.ScheduleStats
	for i := range tweets {
		t := &tweets[i]
		if t.IsPosted {
			stats.PostedCount++
		} else {
			stats.PendingCount++
		}
		if IsUpcoming(t, now) {
			stats.UpcomingCount++
		}
		if t.IsThread {
			stats.ThreadCount++
		}
	}
	return stats
}

// Upcoming returns the soonest unposted future tweets, time ascending with
// ID tiebreak, capped at limit.
func Upcoming(tweets []models.ScheduledTweet, now time.Time, limit int) []models.ScheduledTweet {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	upcoming := []models.ScheduledTweet{}
	for i := range tweets {
		if IsUpcoming(&tweets[i], now) {
			upcoming = append(upcoming, tweets[i])
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		if !upcoming[i].ScheduledFor.Equal(upcoming[j].ScheduledFor) {
			return upcoming[i].ScheduledFor.Before(upcoming[j].ScheduledFor)
		}
		return upcoming[i].ID < upcoming[j].ID
	})

	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// BuildDashboard assembles the dashboard summary as a derived view over the
// tweet collection plus the latest analysis (nil when no run has happened).
func BuildDashboard(tweets []models.ScheduledTweet, analysis *models.TweetAnalysis, now time.Time, upcomingLimit int) models.DashboardSummary {
	stats := CountStats(tweets, now)

	summary := models.DashboardSummary{
		ScheduledTweets: stats.PendingCount,
		TotalTweets:     len(tweets),
		UpcomingTweets:  Upcoming(tweets, now, upcomingLimit),
	}
	if analysis != nil {
		summary.AvgEngagement = analysis.AvgEngagement
	}
	return summary
}
