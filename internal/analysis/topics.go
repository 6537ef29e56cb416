package analysis

import "strings"

// KeywordClassifier is the default TopicClassifier. It assigns the first
// topic whose keyword list matches the content; unmatched content falls
// into the "general" bucket.
type KeywordClassifier struct {
	topics []topicKeywords
}

type topicKeywords struct {
	topic    string
	keywords []string
}

// NewKeywordClassifier builds the classifier with its built-in topic table.
// Topic order is fixed so classification is deterministic.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		topics: []topicKeywords{
			{topic: "tech", keywords: []string{"code", "coding", "software", "developer", "programming", "api", "golang", "javascript", "database", "bug", "release"}},
			{topic: "business", keywords: []string{"startup", "growth", "marketing", "revenue", "customer", "product", "launch", "sales", "funding"}},
			{topic: "career", keywords: []string{"job", "hiring", "interview", "resume", "career", "promotion", "salary"}},
			{topic: "learning", keywords: []string{"learn", "learning", "course", "tutorial", "book", "study", "tips"}},
			{topic: "personal", keywords: []string{"family", "weekend", "travel", "coffee", "gym", "life", "morning"}},
		},
	}
}

// Classify returns the topic label for the content.
func (c *KeywordClassifier) Classify(content string) string {
	lowered := strings.ToLower(content)
	for _, entry := range c.topics {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				return entry.topic
			}
		}
	}
	return "general"
}
