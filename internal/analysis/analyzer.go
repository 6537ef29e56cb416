// Package analysis derives per-user writing and engagement statistics from
// tweet history and turns them into ranked profile suggestions. A run is a
// wholesale recompute: given the same inputs it always produces the same
// output, and external feed failures degrade to zero-valued fields rather
// than failing the run.
package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/Utkarsh-OTS/smm/pkg/logging"
	"github.com/Utkarsh-OTS/smm/pkg/models"
)

// EngagementFeed supplies per-post engagement values from the external
// analytics collaborator. The second return is false when no data exists
// for the post.
type EngagementFeed interface {
	FetchEngagement(ctx context.Context, postID string) (float64, bool, error)
}

// TopicClassifier buckets a post's content into a topic label.
type TopicClassifier interface {
	Classify(content string) string
}

// Analyzer computes TweetAnalysis records and suggestions.
type Analyzer struct {
	feed   EngagementFeed
	topics TopicClassifier
	logger logging.Logger
}

// New creates an Analyzer. A nil feed means the engagement collaborator is
// unavailable; the analyzer still runs with zero engagement. A nil
// classifier falls back to the built-in keyword classifier.
func New(feed EngagementFeed, topics TopicClassifier, logger logging.Logger) *Analyzer {
	if topics == nil {
		topics = NewKeywordClassifier()
	}
	return &Analyzer{feed: feed, topics: topics, logger: logger}
}

// Analyze recomputes the user's analysis and suggestion list from the full
// tweet history. loc is the user's timezone for time-of-day bucketing.
func (a *Analyzer) Analyze(ctx context.Context, userID string, tweets []models.ScheduledTweet, now time.Time, loc *time.Location) (*models.TweetAnalysis, []models.ProfileOptimization) {
	if loc == nil {
		loc = time.UTC
	}

	engagements := a.fetchEngagements(ctx, tweets)

	result := &models.TweetAnalysis{
		UserID:         userID,
		TotalTweets:    len(tweets),
		AvgEngagement:  meanEngagement(engagements),
		CommonHashtags: hashtagFrequencies(tweets),
		WritingStyle:   writingStyle(tweets),
		TopicAnalysis:  a.topicShares(tweets),
		SentimentScore: sentimentScore(tweets),
		PostingPattern: models.PostingPattern{
			BestTimes:  bestTimes(tweets, engagements, loc),
			Frequency:  postingFrequency(tweets, loc),
			Engagement: engagementNote(tweets, engagements, loc),
		},
		GeneratedAt: now,
	}

	return result, Suggest(result, tweets)
}

// fetchEngagements collects engagement for published tweets. Feed errors are
// logged and treated as absent values; analytics never block on the feed.
func (a *Analyzer) fetchEngagements(ctx context.Context, tweets []models.ScheduledTweet) map[string]float64 {
	engagements := make(map[string]float64)
	if a.feed == nil {
		return engagements
	}

	for i := range tweets {
		t := &tweets[i]
		if !t.IsPosted {
			continue
		}
		value, ok, err := a.feed.FetchEngagement(ctx, t.ID)
		if err != nil {
			a.logger.WithError(err).WithField("tweet_id", t.ID).Warn("Engagement feed unavailable, treating as absent")
			continue
		}
		if ok {
			engagements[t.ID] = value
		}
	}
	return engagements
}

func meanEngagement(engagements map[string]float64) float64 {
	if len(engagements) == 0 {
		return 0
	}
	var sum float64
	for _, v := range engagements {
		sum += v
	}
	return sum / float64(len(engagements))
}

// hashtagFrequencies builds the frequency table, descending by frequency
// with alphabetical tiebreak.
func hashtagFrequencies(tweets []models.ScheduledTweet) []models.HashtagFrequency {
	counts := make(map[string]int)
	for i := range tweets {
		for _, tag := range tweets[i].Metadata.Hashtags {
			counts[tag]++
		}
	}

	table := make([]models.HashtagFrequency, 0, len(counts))
	for tag, freq := range counts {
		table = append(table, models.HashtagFrequency{Tag: tag, Frequency: freq})
	}
	sort.Slice(table, func(i, j int) bool {
		if table[i].Frequency != table[j].Frequency {
			return table[i].Frequency > table[j].Frequency
		}
		return table[i].Tag < table[j].Tag
	})
	return table
}

// topicShares classifies every tweet and normalizes bucket counts to
// percentages summing to 100. Rounding drift lands on the largest bucket.
func (a *Analyzer) topicShares(tweets []models.ScheduledTweet) []models.TopicShare {
	if len(tweets) == 0 {
		return []models.TopicShare{}
	}

	counts := make(map[string]int)
	for i := range tweets {
		counts[a.topics.Classify(tweets[i].Content)]++
	}

	shares := make([]models.TopicShare, 0, len(counts))
	var sum float64
	for topic, count := range counts {
		pct := float64(int(float64(count)/float64(len(tweets))*1000+0.5)) / 10
		shares = append(shares, models.TopicShare{Topic: topic, Percentage: pct})
		sum += pct
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Percentage != shares[j].Percentage {
			return shares[i].Percentage > shares[j].Percentage
		}
		return shares[i].Topic < shares[j].Topic
	})

	if drift := 100 - sum; drift != 0 && len(shares) > 0 {
		shares[0].Percentage += drift
	}
	return shares
}

// bestTimes returns the top three hour-of-day buckets by mean engagement.
func bestTimes(tweets []models.ScheduledTweet, engagements map[string]float64, loc *time.Location) []string {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for i := range tweets {
		t := &tweets[i]
		value, ok := engagements[t.ID]
		if !ok {
			continue
		}
		hour := t.ScheduledFor.In(loc).Hour()
		sums[hour] += value
		counts[hour]++
	}
	if len(sums) == 0 {
		return []string{}
	}

	type hourMean struct {
		hour int
		mean float64
	}
	means := make([]hourMean, 0, len(sums))
	for hour, sum := range sums {
		means = append(means, hourMean{hour: hour, mean: sum / float64(counts[hour])})
	}
	sort.Slice(means, func(i, j int) bool {
		if means[i].mean != means[j].mean {
			return means[i].mean > means[j].mean
		}
		return means[i].hour < means[j].hour
	})

	if len(means) > 3 {
		means = means[:3]
	}
	times := make([]string, len(means))
	for i, m := range means {
		times[i] = time.Date(0, 1, 1, m.hour, 0, 0, 0, time.UTC).Format("3:04 PM")
	}
	return times
}

// postingFrequency describes how often the user posts over the span of
// their history.
func postingFrequency(tweets []models.ScheduledTweet, loc *time.Location) string {
	if len(tweets) == 0 {
		return "inactive"
	}

	first := tweets[0].ScheduledFor
	last := tweets[0].ScheduledFor
	for i := range tweets[1:] {
		when := tweets[i+1].ScheduledFor
		if when.Before(first) {
			first = when
		}
		if when.After(last) {
			last = when
		}
	}

	spanDays := last.In(loc).Sub(first.In(loc)).Hours()/24 + 1
	rate := float64(len(tweets)) / spanDays
	switch {
	case rate >= 0.75:
		return "daily"
	case rate >= 1.0/7:
		return "weekly"
	default:
		return "occasional"
	}
}

// engagementNote compares weekday and weekend engagement means.
func engagementNote(tweets []models.ScheduledTweet, engagements map[string]float64, loc *time.Location) string {
	var weekdaySum, weekendSum float64
	var weekdayN, weekendN int
	for i := range tweets {
		t := &tweets[i]
		value, ok := engagements[t.ID]
		if !ok {
			continue
		}
		switch t.ScheduledFor.In(loc).Weekday() {
		case time.Saturday, time.Sunday:
			weekendSum += value
			weekendN++
		default:
			weekdaySum += value
			weekdayN++
		}
	}

	if weekdayN == 0 && weekendN == 0 {
		return "no engagement data"
	}
	var weekdayMean, weekendMean float64
	if weekdayN > 0 {
		weekdayMean = weekdaySum / float64(weekdayN)
	}
	if weekendN > 0 {
		weekendMean = weekendSum / float64(weekendN)
	}
	switch {
	case weekdayMean > weekendMean:
		return "highest on weekdays"
	case weekendMean > weekdayMean:
		return "highest on weekends"
	default:
		return "no clear pattern"
	}
}
