package domain

import (
	"sort"
	"strings"
)

// KeyFunc returns the storage key a backend uses for a review.
type KeyFunc func(Review) string

// KeyByID keys reviews by their generated id (local backend).
func KeyByID(r Review) string { return r.ID }

// KeyByDevice keys reviews by the owning device (remote backend).
func KeyByDevice(r Review) string { return r.DeviceID }

// MarkerFallback controls what happens when a marker matches no review.
type MarkerFallback int

const (
	// FallbackNone treats an unresolved marker as "no owned review".
	FallbackNone MarkerFallback = iota
	// FallbackLatest guesses that the most recently created review is owned.
	FallbackLatest
)

// ParseMarkerFallback maps a config value onto a MarkerFallback.
func ParseMarkerFallback(value string) MarkerFallback {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "latest", "newest", "recent":
		return FallbackLatest
	default:
		return FallbackNone
	}
}

func (f MarkerFallback) String() string {
	if f == FallbackLatest {
		return "latest"
	}
	return "none"
}

// FindMine locates the review the marker points at.
func FindMine(reviews []Review, marker string, key KeyFunc, fallback MarkerFallback) (Review, bool) {
	if marker == "" || len(reviews) == 0 {
		return Review{}, false
	}
	for _, review := range reviews {
		if key(review) == marker {
			return review, true
		}
	}
	if fallback != FallbackLatest {
		return Review{}, false
	}
	latest := reviews[0]
	for _, review := range reviews[1:] {
		if review.Time > latest.Time {
			latest = review
		}
	}
	return latest, true
}

// Order pins the owned review first and sorts the rest newest first.
// The second result reports whether a review was pinned.
func Order(reviews []Review, marker string, key KeyFunc, fallback MarkerFallback) ([]Review, bool) {
	mine, found := FindMine(reviews, marker, key, fallback)

	ordered := make([]Review, 0, len(reviews))
	rest := make([]Review, 0, len(reviews))
	for _, review := range reviews {
		if found && key(review) == key(mine) && review.ID == mine.ID {
			continue
		}
		rest = append(rest, review)
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Time > rest[j].Time
	})

	if found {
		ordered = append(ordered, mine)
	}
	return append(ordered, rest...), found
}
