// Package validation holds the content rules shared by the API layer and
// the store, so a payload rejected at the edge can never sneak in through
// a background path.
package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTweetLength is the platform's per-post character limit, counted in
// runes.
const MaxTweetLength = 280

// ValidateTweetContent checks that content is non-blank and within the
// platform limit.
func ValidateTweetContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content must not be empty")
	}
	if n := utf8.RuneCountInString(content); n > MaxTweetLength {
		return fmt.Errorf("content is %d characters, the limit is %d", n, MaxTweetLength)
	}
	return nil
}

// NormalizeHashtag strips a leading '#' and lowercases the tag so frequency
// counting treats #GoLang and golang as the same tag.
func NormalizeHashtag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

// ValidateHashtag checks a normalized tag: non-empty, letters, digits and
// underscores only.
func ValidateHashtag(tag string) error {
	if tag == "" {
		return fmt.Errorf("hashtag must not be empty")
	}
	for _, r := range tag {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return fmt.Errorf("hashtag %q contains invalid character %q", tag, r)
		}
	}
	return nil
}
