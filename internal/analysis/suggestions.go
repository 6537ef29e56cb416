package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Utkarsh-OTS/smm/pkg/models"
)

// Suggestion priorities are static per type; the list is always returned
// in descending priority order.
const (
	priorityBio             = 5
	priorityPostingStrategy = 4
	priorityEngagementTips  = 3
	priorityHashtags        = 2
	priorityConsistency     = 1
)

// Suggest derives profile optimization suggestions from a finished
// analysis. Each rule fires independently; re-running on the same analysis
// yields the same suggestions.
func Suggest(analysis *models.TweetAnalysis, tweets []models.ScheduledTweet) []models.ProfileOptimization {
	var suggestions []models.ProfileOptimization

	add := func(kind string, priority int, title, description string) {
		suggestions = append(suggestions, models.ProfileOptimization{
			UserID:         analysis.UserID,
			SuggestionType: kind,
			Title:          title,
			Description:    description,
			Priority:       priority,
		})
	}

	if len(analysis.CommonHashtags) > 0 {
		top := topTags(analysis.CommonHashtags, 3)
		add("bio", priorityBio, "Put your focus areas in your bio",
			fmt.Sprintf("Mention your focus areas (%s) in your bio so new visitors immediately see what you post about.", strings.Join(top, ", ")))
	}

	if len(analysis.PostingPattern.BestTimes) > 0 {
		add("posting_strategy", priorityPostingStrategy, "Post when your audience is watching",
			fmt.Sprintf("Your audience engages most around %s. Schedule more posts into those windows.", strings.Join(analysis.PostingPattern.BestTimes, ", ")))
	}

	if analysis.TotalTweets > 0 && threadShare(tweets) < 0.2 {
		add("engagement_tips", priorityEngagementTips, "Write more threads",
			"Threads make up under a fifth of your posts. Longer-form threads tend to earn more replies and reposts.")
	}

	if analysis.TotalTweets > 0 && avgHashtags(tweets) < 1 {
		add("hashtag_strategy", priorityHashtags, "Tag your posts",
			"Most of your posts carry no hashtags. Adding one or two relevant tags widens discovery without looking spammy.")
	}

	if analysis.PostingPattern.Frequency != "daily" {
		add("consistency", priorityConsistency, "Settle into a steady cadence",
			"Your posting cadence is uneven. A steady daily or near-daily rhythm keeps you in followers' feeds.")
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Priority != suggestions[j].Priority {
			return suggestions[i].Priority > suggestions[j].Priority
		}
		return suggestions[i].SuggestionType < suggestions[j].SuggestionType
	})
	return suggestions
}

func topTags(table []models.HashtagFrequency, n int) []string {
	if len(table) < n {
		n = len(table)
	}
	tags := make([]string, n)
	for i := 0; i < n; i++ {
		tags[i] = table[i].Tag
	}
	return tags
}

func threadShare(tweets []models.ScheduledTweet) float64 {
	if len(tweets) == 0 {
		return 0
	}
	threaded := 0
	for i := range tweets {
		if tweets[i].IsThread {
			threaded++
		}
	}
	return float64(threaded) / float64(len(tweets))
}

func avgHashtags(tweets []models.ScheduledTweet) float64 {
	if len(tweets) == 0 {
		return 0
	}
	total := 0
	for i := range tweets {
		total += len(tweets[i].Metadata.Hashtags)
	}
	return float64(total) / float64(len(tweets))
}
