package domain

import (
	"fmt"
	"strings"
)

// PurgeTarget identifies sample reviews by exact name and text.
type PurgeTarget struct {
	name string
	text string
}

// NewPurgeTarget trims and validates the target pair.
func NewPurgeTarget(name, text string) (PurgeTarget, error) {
	name = strings.TrimSpace(name)
	text = strings.TrimSpace(text)
	if name == "" {
		return PurgeTarget{}, fmt.Errorf("purge target name is required")
	}
	if text == "" {
		return PurgeTarget{}, fmt.Errorf("purge target text is required")
	}
	return PurgeTarget{name: name, text: text}, nil
}

func (t PurgeTarget) Name() string { return t.name }
func (t PurgeTarget) Text() string { return t.text }

// Matches compares trimmed name and text for exact equality.
func (t PurgeTarget) Matches(name, text string) bool {
	return strings.TrimSpace(name) == t.name && strings.TrimSpace(text) == t.text
}

// PurgeResult reports the outcome of a purge.
type PurgeResult struct {
	Removed int
}

// Message is the inline text shown to the admin.
func (r PurgeResult) Message() string {
	switch r.Removed {
	case 0:
		return "No matching reviews found."
	case 1:
		return "Removed 1 review."
	default:
		return fmt.Sprintf("Removed %d reviews.", r.Removed)
	}
}
