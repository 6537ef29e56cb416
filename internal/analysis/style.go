package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Utkarsh-OTS/smm/pkg/models"
)

var positiveWords = map[string]bool{
	"love": true, "great": true, "awesome": true, "excited": true,
	"happy": true, "amazing": true, "win": true, "best": true,
	"thanks": true, "good": true, "excellent": true, "beautiful": true,
}

var negativeWords = map[string]bool{
	"hate": true, "terrible": true, "awful": true, "angry": true,
	"sad": true, "worst": true, "fail": true, "bad": true,
	"broken": true, "annoying": true, "disappointed": true, "ugly": true,
}

// writingStyle derives tone and formatting habits from the corpus.
func writingStyle(tweets []models.ScheduledTweet) models.WritingStyle {
	if len(tweets) == 0 {
		return models.WritingStyle{
			Tone:           "neutral",
			AvgLength:      0,
			EmojiUsage:     "none",
			HashtagPattern: "none",
		}
	}

	var totalRunes, totalEmoji, totalBangs, totalTags int
	for i := range tweets {
		t := &tweets[i]
		totalRunes += utf8.RuneCountInString(t.Content)
		totalEmoji += countEmoji(t.Content)
		totalBangs += strings.Count(t.Content, "!")
		totalTags += len(t.Metadata.Hashtags)
	}

	n := float64(len(tweets))
	return models.WritingStyle{
		Tone:           tone(sentimentScore(tweets), float64(totalBangs)/n, float64(totalEmoji)/n),
		AvgLength:      int(float64(totalRunes)/n + 0.5),
		EmojiUsage:     emojiUsage(float64(totalEmoji) / n),
		HashtagPattern: hashtagPattern(float64(totalTags) / n),
	}
}

func tone(sentiment, bangsPerPost, emojiPerPost float64) string {
	switch {
	case sentiment >= 0.5 || bangsPerPost >= 0.5:
		return "enthusiastic"
	case emojiPerPost >= 1:
		return "casual"
	case sentiment < 0:
		return "critical"
	default:
		return "professional"
	}
}

func emojiUsage(perPost float64) string {
	switch {
	case perPost == 0:
		return "none"
	case perPost < 1:
		return "light"
	case perPost < 3:
		return "moderate"
	default:
		return "heavy"
	}
}

func hashtagPattern(perPost float64) string {
	switch {
	case perPost == 0:
		return "none"
	case perPost < 1.5:
		return "1 per tweet"
	case perPost < 3.5:
		return "2-3 per tweet"
	default:
		return "4+ per tweet"
	}
}

// sentimentScore tallies lexicon hits across the corpus and clamps the
// net ratio to [-1, 1].
func sentimentScore(tweets []models.ScheduledTweet) float64 {
	var positive, negative int
	for i := range tweets {
		for _, word := range strings.Fields(strings.ToLower(tweets[i].Content)) {
			word = strings.TrimFunc(word, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsNumber(r)
			})
			if positiveWords[word] {
				positive++
			} else if negativeWords[word] {
				negative++
			}
		}
	}

	total := positive + negative
	if total == 0 {
		return 0
	}
	score := float64(positive-negative) / float64(total)
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}

func countEmoji(s string) int {
	count := 0
	for _, r := range s {
		if isEmoji(r) {
			count++
		}
	}
	return count
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, transport, supplemental
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	default:
		return false
	}
}
