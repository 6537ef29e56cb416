package schedule

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Utkarsh-OTS/smm/pkg/models"
)

// ErrInvalidThread is returned when a thread's ordering invariant is
// violated: duplicate or non-positive orders, or a member not flagged as
// part of a thread.
var ErrInvalidThread = errors.New("invalid thread")

// Threads groups a collection by thread ID. Tweets without a thread ID are
// skipped; membership is decided at composition time, never reconstructed
// from unrelated posts.
func Threads(tweets []models.ScheduledTweet) map[string][]models.ScheduledTweet {
	groups := make(map[string][]models.ScheduledTweet)
	for _, t := range tweets {
		if t.ThreadID == "" {
			continue
		}
		groups[t.ThreadID] = append(groups[t.ThreadID], t)
	}
	return groups
}

// OrderThread validates a thread's members and returns them in publish
// order. It only validates and sorts the order a composer assigned; it never
// invents one.
func OrderThread(members []models.ScheduledTweet) ([]models.ScheduledTweet, error) {
	if len(members) == 0 {
		return []models.ScheduledTweet{}, nil
	}

	threadID := members[0].ThreadID
	seen := make(map[int]string, len(members))
	for _, m := range members {
		if !m.IsThread {
			return nil, fmt.Errorf("%w: tweet %s is not flagged as a thread member", ErrInvalidThread, m.ID)
		}
		if m.ThreadID != threadID {
			return nil, fmt.Errorf("%w: tweet %s belongs to a different thread", ErrInvalidThread, m.ID)
		}
		if m.ThreadOrder < 1 {
			return nil, fmt.Errorf("%w: tweet %s has a non-positive thread order", ErrInvalidThread, m.ID)
		}
		if other, ok := seen[m.ThreadOrder]; ok {
			return nil, fmt.Errorf("%w: tweets %s and %s share thread order %d", ErrInvalidThread, other, m.ID, m.ThreadOrder)
		}
		seen[m.ThreadOrder] = m.ID
	}

	ordered := make([]models.ScheduledTweet, len(members))
	copy(ordered, members)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ThreadOrder < ordered[j].ThreadOrder
	})

	return ordered, nil
}
