// Package schedule holds the pure rules for organizing scheduled tweets:
// temporal classification, calendar grouping, thread ordering and the
// aggregate counters behind the dashboard. Every function takes the
// reference time and timezone explicitly; nothing here reads the wall
// clock, so a single pass over a collection is always self-consistent.
package schedule

import (
	"time"

	"github.com/Utkarsh-OTS/smm/pkg/models"
)

// IsPast reports whether the tweet's publish time is strictly before now.
func IsPast(t *models.ScheduledTweet, now time.Time) bool {
	return t.ScheduledFor.Before(now)
}

// IsToday reports whether the tweet is scheduled for the same calendar date
// as now in the given timezone.
func IsToday(t *models.ScheduledTweet, now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	y1, m1, d1 := t.ScheduledFor.In(loc).Date()
	y2, m2, d2 := now.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsUpcoming reports whether the tweet is unposted and scheduled strictly
// after now.
func IsUpcoming(t *models.ScheduledTweet, now time.Time) bool {
	return !t.IsPosted && t.ScheduledFor.After(now)
}
