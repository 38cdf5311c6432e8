package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MinRating and MaxRating bound every component rating.
	MinRating = 1
	MaxRating = 5
	// DefaultRating is applied to ratings the visitor left unselected.
	DefaultRating = 5
	// MaxTextRunes caps the free-form comment.
	MaxTextRunes = 350
	// MaxNameRunes caps the display name.
	MaxNameRunes = 60
)

// Review is a single visitor review shown on the page.
type Review struct {
	ID        string
	DeviceID  string
	Name      string
	Code      int
	Character int
	Sat       int
	Text      string
	Total     float64
	// Time is the creation or last update time in milliseconds since epoch.
	Time int64
}

// CreatedAt returns Time as a time.Time.
func (r Review) CreatedAt() time.Time {
	return time.UnixMilli(r.Time).UTC()
}

// ReviewInput captures the form fields before normalisation.
type ReviewInput struct {
	Name      string
	Code      int
	Character int
	Sat       int
	Text      string
}

// ValidationError reports invalid visitor input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Normalize trims text fields, defaults unselected ratings and enforces the
// form rules. The receiver is left untouched.
func (in ReviewInput) Normalize() (ReviewInput, error) {
	out := ReviewInput{
		Name: strings.TrimSpace(in.Name),
		Text: strings.TrimSpace(in.Text),
	}
	if out.Name == "" {
		return ReviewInput{}, &ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(out.Name) > MaxNameRunes {
		return ReviewInput{}, &ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", MaxNameRunes)}
	}
	out.Text = truncateRunes(out.Text, MaxTextRunes)

	var err error
	if out.Code, err = normalizeRating("code", in.Code); err != nil {
		return ReviewInput{}, err
	}
	if out.Character, err = normalizeRating("character", in.Character); err != nil {
		return ReviewInput{}, err
	}
	if out.Sat, err = normalizeRating("sat", in.Sat); err != nil {
		return ReviewInput{}, err
	}
	return out, nil
}

func normalizeRating(field string, value int) (int, error) {
	if value == 0 {
		return DefaultRating, nil
	}
	if value < MinRating || value > MaxRating {
		return 0, &ValidationError{Field: field, Message: fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating)}
	}
	return value, nil
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return strings.TrimSpace(string(runes[:limit]))
}

// ComputeTotal returns the mean of the three ratings rounded to one decimal.
func ComputeTotal(code, character, sat int) float64 {
	sum := decimal.NewFromInt(int64(code + character + sat))
	return sum.Div(decimal.NewFromInt(3)).Round(1).InexactFloat64()
}

// NewReview creates a review from normalised input. The input must already
// have passed Normalize.
func NewReview(in ReviewInput, deviceID string, now time.Time) Review {
	return Review{
		ID:        uuid.NewString(),
		DeviceID:  deviceID,
		Name:      in.Name,
		Code:      in.Code,
		Character: in.Character,
		Sat:       in.Sat,
		Text:      in.Text,
		Total:     ComputeTotal(in.Code, in.Character, in.Sat),
		Time:      now.UnixMilli(),
	}
}

// Apply overwrites the editable fields and refreshes Time. Identity fields
// (ID, DeviceID) are preserved. Time always moves forward, even when the
// clock reports the same millisecond.
func (r Review) Apply(in ReviewInput, now time.Time) Review {
	updated := r
	updated.Name = in.Name
	updated.Code = in.Code
	updated.Character = in.Character
	updated.Sat = in.Sat
	updated.Text = in.Text
	updated.Total = ComputeTotal(in.Code, in.Character, in.Sat)
	updated.Time = now.UnixMilli()
	if updated.Time <= r.Time {
		updated.Time = r.Time + 1
	}
	return updated
}

// Input returns the editable fields, used to prefill the edit form.
func (r Review) Input() ReviewInput {
	return ReviewInput{
		Name:      r.Name,
		Code:      r.Code,
		Character: r.Character,
		Sat:       r.Sat,
		Text:      r.Text,
	}
}
