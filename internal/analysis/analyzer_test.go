package analysis

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Utkarsh-OTS/smm/pkg/models"
)

type stubFeed struct {
	values map[string]float64
	err    error
}

func (s *stubFeed) FetchEngagement(_ context.Context, postID string) (float64, bool, error) {
	if s.err != nil {
		return 0, false, s.err
	}
	value, ok := s.values[postID]
	return value, ok, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func postedTweet(id, content string, when time.Time, tags ...string) models.ScheduledTweet {
	return models.ScheduledTweet{
		ID:           id,
		UserID:       "user-1",
		Content:      content,
		ScheduledFor: when,
		IsPosted:     true,
		Metadata:     models.PostMetadata{Hashtags: tags},
	}
}

func TestAnalyze_EmptyHistory(t *testing.T) {
	analyzer := New(&stubFeed{}, nil, quietLogger())
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	result, suggestions := analyzer.Analyze(context.Background(), "user-1", nil, now, time.UTC)

	require.NotNil(t, result)
	assert.Equal(t, 0, result.TotalTweets)
	assert.Zero(t, result.AvgEngagement)
	assert.Empty(t, result.CommonHashtags)
	assert.Empty(t, result.TopicAnalysis)
	assert.Empty(t, result.PostingPattern.BestTimes)
	assert.Equal(t, "neutral", result.WritingStyle.Tone)
	assert.Equal(t, "inactive", result.PostingPattern.Frequency)
	assert.Equal(t, now, result.GeneratedAt)

	// Only the cadence rule can fire without history.
	require.Len(t, suggestions, 1)
	assert.Equal(t, "consistency", suggestions[0].SuggestionType)
}

func TestAnalyze_Deterministic(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	tweets := []models.ScheduledTweet{
		postedTweet("t1", "Shipped a new release today", base, "golang", "devlife"),
		postedTweet("t2", "Great coffee this morning", base.Add(26*time.Hour), "devlife"),
		postedTweet("t3", "Debugging a gnarly database bug", base.Add(50*time.Hour), "golang"),
	}
	feed := &stubFeed{values: map[string]float64{"t1": 10, "t2": 4, "t3": 7}}
	analyzer := New(feed, nil, quietLogger())
	now := base.Add(72 * time.Hour)

	first, firstSuggestions := analyzer.Analyze(context.Background(), "user-1", tweets, now, time.UTC)
	second, secondSuggestions := analyzer.Analyze(context.Background(), "user-1", tweets, now, time.UTC)

	assert.Equal(t, first, second)
	assert.Equal(t, firstSuggestions, secondSuggestions)
}

func TestAnalyze_HashtagOrdering(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	tweets := []models.ScheduledTweet{
		postedTweet("t1", "one", base, "beta", "alpha"),
		postedTweet("t2", "two", base.Add(time.Hour), "beta"),
		postedTweet("t3", "three", base.Add(2*time.Hour), "alpha"),
		postedTweet("t4", "four", base.Add(3*time.Hour), "zulu"),
	}
	analyzer := New(&stubFeed{}, nil, quietLogger())

	result, _ := analyzer.Analyze(context.Background(), "user-1", tweets, base.Add(time.Hour), time.UTC)

	require.Len(t, result.CommonHashtags, 3)
	// alpha and beta tie at 2, alphabetical first; zulu trails with 1.
	assert.Equal(t, models.HashtagFrequency{Tag: "alpha", Frequency: 2}, result.CommonHashtags[0])
	assert.Equal(t, models.HashtagFrequency{Tag: "beta", Frequency: 2}, result.CommonHashtags[1])
	assert.Equal(t, models.HashtagFrequency{Tag: "zulu", Frequency: 1}, result.CommonHashtags[2])
}

func TestAnalyze_TopicSharesSumToHundred(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	tweets := []models.ScheduledTweet{
		postedTweet("t1", "Refactoring legacy code all day", base),
		postedTweet("t2", "Our startup just closed funding", base.Add(time.Hour)),
		postedTweet("t3", "Weekend travel plans with family", base.Add(2*time.Hour)),
	}
	analyzer := New(&stubFeed{}, nil, quietLogger())

	result, _ := analyzer.Analyze(context.Background(), "user-1", tweets, base, time.UTC)

	require.Len(t, result.TopicAnalysis, 3)
	var sum float64
	for _, share := range result.TopicAnalysis {
		sum += share.Percentage
	}
	assert.InDelta(t, 100, sum, 0.001)
}

func TestAnalyze_BestTimesTopThree(t *testing.T) {
	base := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	tweets := []models.ScheduledTweet{
		postedTweet("t1", "a", base.Add(9*time.Hour)),
		postedTweet("t2", "b", base.Add(12*time.Hour)),
		postedTweet("t3", "c", base.Add(15*time.Hour)),
		postedTweet("t4", "d", base.Add(20*time.Hour)),
	}
	feed := &stubFeed{values: map[string]float64{"t1": 5, "t2": 20, "t3": 12, "t4": 8}}
	analyzer := New(feed, nil, quietLogger())

	result, _ := analyzer.Analyze(context.Background(), "user-1", tweets, base, time.UTC)

	assert.Equal(t, []string{"12:00 PM", "3:00 PM", "8:00 PM"}, result.PostingPattern.BestTimes)
}

func TestAnalyze_FeedFailureDegradesToZero(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	tweets := []models.ScheduledTweet{postedTweet("t1", "hello", base)}
	analyzer := New(&stubFeed{err: errors.New("feed down")}, nil, quietLogger())

	result, _ := analyzer.Analyze(context.Background(), "user-1", tweets, base, time.UTC)

	assert.Zero(t, result.AvgEngagement)
	assert.Empty(t, result.PostingPattern.BestTimes)
	assert.Equal(t, "no engagement data", result.PostingPattern.Engagement)
}

func TestSuggest_PriorityOrdering(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	tweets := []models.ScheduledTweet{
		postedTweet("t1", "plain post without tags", base),
		postedTweet("t2", "another plain post", base.Add(10*24*time.Hour)),
	}
	tweets[0].Metadata.Hashtags = []string{"golang"}
	feed := &stubFeed{values: map[string]float64{"t1": 3, "t2": 9}}
	analyzer := New(feed, nil, quietLogger())

	_, suggestions := analyzer.Analyze(context.Background(), "user-1", tweets, base, time.UTC)

	require.NotEmpty(t, suggestions)
	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].Priority, suggestions[i].Priority)
	}
	assert.Equal(t, "bio", suggestions[0].SuggestionType)

	kinds := make(map[string]bool)
	for _, s := range suggestions {
		kinds[s.SuggestionType] = true
	}
	assert.True(t, kinds["engagement_tips"], "no threads in history should trigger the thread tip")
	assert.True(t, kinds["hashtag_strategy"], "sparse hashtags should trigger the hashtag tip")
	assert.True(t, kinds["consistency"], "occasional cadence should trigger the consistency tip")
}

func TestKeywordClassifier(t *testing.T) {
	classifier := NewKeywordClassifier()

	tests := []struct {
		content string
		want    string
	}{
		{"Fixed a nasty bug in the API", "tech"},
		{"Our product launch went live", "business"},
		{"Interview prep notes", "career"},
		{"New course on distributed systems", "learning"},
		{"Coffee and a long morning walk", "personal"},
		{"Nothing matches here", "general"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifier.Classify(tt.content), tt.content)
	}
}
