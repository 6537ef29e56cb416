package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Utkarsh-OTS/smm/pkg/models"
)

func TestGroupByDate_Lossless(t *testing.T) {
	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	tweets := []models.ScheduledTweet{
		tweetAt("a", base),
		tweetAt("b", base.Add(26*time.Hour)),
		tweetAt("c", base.Add(3*time.Hour)),
		tweetAt("d", base.Add(48*time.Hour)),
	}

	buckets := GroupByDate(tweets, time.UTC)

	total := 0
	seen := map[string]bool{}
	for _, bucket := range buckets {
		for _, tw := range bucket {
			assert.False(t, seen[tw.ID], "tweet %s duplicated across buckets", tw.ID)
			seen[tw.ID] = true
			total++
		}
	}
	assert.Equal(t, len(tweets), total)
	assert.Len(t, buckets, 3)
}

func TestGroupByDate_BucketsOrderedByTime(t *testing.T) {
	base := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	tweets := []models.ScheduledTweet{
		tweetAt("late", base.Add(20*time.Hour)),
		tweetAt("early", base.Add(8*time.Hour)),
		tweetAt("mid", base.Add(14*time.Hour)),
	}

	bucket := GroupByDate(tweets, time.UTC)["2026-08-28"]
	require.Len(t, bucket, 3)
	assert.Equal(t, "early", bucket[0].ID)
	assert.Equal(t, "mid", bucket[1].ID)
	assert.Equal(t, "late", bucket[2].ID)
}

func TestGroupByDate_TiesBrokenByID(t *testing.T) {
	when := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	tweets := []models.ScheduledTweet{tweetAt("b", when), tweetAt("a", when)}

	bucket := GroupByDate(tweets, time.UTC)["2026-08-28"]
	require.Len(t, bucket, 2)
	assert.Equal(t, "a", bucket[0].ID)
}

func TestGroupByDate_TimezoneShiftsBucket(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 01:00 UTC on the 29th is the evening of the 28th in New York.
	tweets := []models.ScheduledTweet{tweetAt("a", time.Date(2026, 8, 29, 1, 0, 0, 0, time.UTC))}

	assert.Contains(t, GroupByDate(tweets, time.UTC), "2026-08-29")
	assert.Contains(t, GroupByDate(tweets, ny), "2026-08-28")
}

func TestPostsOn_EmptyDay(t *testing.T) {
	tweets := []models.ScheduledTweet{tweetAt("a", time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC))}

	bucket := PostsOn(tweets, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), time.UTC)
	assert.NotNil(t, bucket)
	assert.Empty(t, bucket)
}
