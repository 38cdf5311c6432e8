package application

import (
	"context"
	"errors"

	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

// Backend is the storage strategy behind the review store. Implementations
// are selected once at startup.
type Backend interface {
	// Kind names the backend ("local" or "mongo").
	Kind() string
	// Key returns the storage key of a review.
	Key(review domain.Review) string
	ListAll(ctx context.Context) ([]domain.Review, error)
	// Put replaces the whole record stored under key.
	Put(ctx context.Context, key string, review domain.Review) error
	// Delete removes the record under key. Missing keys report false, nil.
	Delete(ctx context.Context, key string) (bool, error)
}

// MarkerRepository persists per-device submission markers and edit state.
type MarkerRepository interface {
	Marker(ctx context.Context, deviceID string) (string, error)
	SetMarker(ctx context.Context, deviceID, key string) error
	ClearMarker(ctx context.Context, deviceID string) error
	// ClearKey drops every marker (and edit state) that points at key.
	ClearKey(ctx context.Context, key string) (int, error)
	Editing(ctx context.Context, deviceID string) (bool, error)
	SetEditing(ctx context.Context, deviceID string, editing bool) error
}

// ReviewQueryService describes read use-cases of the widget.
type ReviewQueryService interface {
	List(ctx context.Context, deviceID string) (ReviewList, error)
	Summary(ctx context.Context) (domain.Summary, error)
}

// ReviewList is everything the page needs to render the list.
type ReviewList struct {
	Items   []domain.Review
	Pinned  bool
	Summary domain.Summary
	State   GateState
}

var (
	// ErrAlreadySubmitted is returned when a device with a review submits again
	// without entering edit mode.
	ErrAlreadySubmitted = errors.New("this device has already submitted a review")
	// ErrNoOwnedReview is returned when the device has no review to act on.
	ErrNoOwnedReview = errors.New("no review belongs to this device")
	// ErrNotEditing is returned when cancelling an edit that was never started.
	ErrNotEditing = errors.New("the review is not being edited")
	// ErrConfirmationRequired is returned for destructive calls without confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")
)
