package schedule

import (
	"sort"
	"time"

	"github.com/Utkarsh-OTS/smm/pkg/models"
)

// DateKey is the calendar-date grouping key format.
const DateKey = "2006-01-02"

// GroupByDate buckets tweets by calendar date in the given timezone (UTC
// when nil). Within a bucket, tweets are ordered by scheduled time ascending
// with ID as a deterministic tiebreak. The grouping is lossless: every input
// tweet lands in exactly one bucket.
func GroupByDate(tweets []models.ScheduledTweet, loc *time.Location) map[string][]models.ScheduledTweet {
	if loc == nil {
		loc = time.UTC
	}

	buckets := make(map[string][]models.ScheduledTweet)
	for _, t := range tweets {
		key := t.ScheduledFor.In(loc).Format(DateKey)
		buckets[key] = append(buckets[key], t)
	}

	for key := range buckets {
		bucket := buckets[key]
		sort.SliceStable(bucket, func(i, j int) bool {
			if !bucket[i].ScheduledFor.Equal(bucket[j].ScheduledFor) {
				return bucket[i].ScheduledFor.Before(bucket[j].ScheduledFor)
			}
			return bucket[i].ID < bucket[j].ID
		})
	}

	return buckets
}

// PostsOn returns the tweets scheduled on the given calendar date. An empty
// day yields an empty slice, never an error.
func PostsOn(tweets []models.ScheduledTweet, date time.Time, loc *time.Location) []models.ScheduledTweet {
	if loc == nil {
		loc = time.UTC
	}

	key := date.In(loc).Format(DateKey)
	bucket := GroupByDate(tweets, loc)[key]
	if bucket == nil {
		return []models.ScheduledTweet{}
	}
	return bucket
}
