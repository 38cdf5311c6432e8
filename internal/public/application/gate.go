package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

// GateState is the submission state of one device.
type GateState string

const (
	StateUnsubmitted GateState = "unsubmitted"
	StateSubmitted   GateState = "submitted"
	StateEditing     GateState = "editing"
)

// Session is the per-device view loaded at the start of every gate call.
type Session struct {
	DeviceID string
	Marker   string
	Editing  bool
	Mine     *domain.Review
	Reviews  []domain.Review
}

// State derives the gate state. A marker that resolves to no review counts
// as unsubmitted.
func (s Session) State() GateState {
	switch {
	case s.Mine == nil:
		return StateUnsubmitted
	case s.Editing:
		return StateEditing
	default:
		return StateSubmitted
	}
}

// Gate enforces one active review per device and drives the
// create/edit/delete transitions. Transitions for the same device run one at
// a time, from the read of the marker to the last write.
type Gate struct {
	store    *ReviewStore
	markers  MarkerRepository
	fallback domain.MarkerFallback
	now      func() time.Time
	devices  *deviceLocks
}

// GateOption customises a Gate.
type GateOption func(*Gate)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

// WithMarkerFallback sets the policy for markers that match no review.
func WithMarkerFallback(fallback domain.MarkerFallback) GateOption {
	return func(g *Gate) { g.fallback = fallback }
}

// NewGate builds a Gate over the store and the same marker repository it uses.
func NewGate(store *ReviewStore, markers MarkerRepository, opts ...GateOption) *Gate {
	g := &Gate{
		store:    store,
		markers:  markers,
		fallback: domain.FallbackNone,
		now:      time.Now,
		devices:  newDeviceLocks(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Load reads the device's marker, edit flag and the current reviews.
func (g *Gate) Load(ctx context.Context, deviceID string) (Session, error) {
	session := Session{DeviceID: deviceID}

	marker, err := g.markers.Marker(ctx, deviceID)
	if err != nil {
		return Session{}, fmt.Errorf("load marker: %w", err)
	}
	session.Marker = marker

	reviews, err := g.store.ListAll(ctx)
	if err != nil {
		return Session{}, err
	}
	session.Reviews = reviews

	if marker == "" {
		return session, nil
	}
	if mine, ok := domain.FindMine(reviews, marker, g.store.Key, g.fallback); ok {
		session.Mine = &mine
	}

	editing, err := g.markers.Editing(ctx, deviceID)
	if err != nil {
		return Session{}, fmt.Errorf("load edit state: %w", err)
	}
	session.Editing = editing
	return session, nil
}

// Submit creates the device's review, or saves it when the device is
// editing. A device that already submitted gets ErrAlreadySubmitted. The
// returned state is the one the device was in before the call, so callers
// can tell a create (StateUnsubmitted) from an edit (StateEditing).
func (g *Gate) Submit(ctx context.Context, deviceID string, input domain.ReviewInput) (domain.Review, GateState, error) {
	normalized, err := input.Normalize()
	if err != nil {
		return domain.Review{}, "", err
	}

	unlock := g.devices.lock(deviceID)
	defer unlock()

	session, err := g.Load(ctx, deviceID)
	if err != nil {
		return domain.Review{}, "", err
	}

	switch session.State() {
	case StateSubmitted:
		return domain.Review{}, StateSubmitted, ErrAlreadySubmitted
	case StateEditing:
		updated := session.Mine.Apply(normalized, g.now())
		if _, err := g.store.Upsert(ctx, deviceID, updated); err != nil {
			return domain.Review{}, StateEditing, err
		}
		if err := g.markers.SetEditing(ctx, deviceID, false); err != nil {
			return domain.Review{}, StateEditing, fmt.Errorf("leave edit state: %w", err)
		}
		return updated, StateEditing, nil
	default:
		review := domain.NewReview(normalized, deviceID, g.now())
		if _, err := g.store.Upsert(ctx, deviceID, review); err != nil {
			return domain.Review{}, StateUnsubmitted, err
		}
		if session.Editing {
			if err := g.markers.SetEditing(ctx, deviceID, false); err != nil {
				return domain.Review{}, StateUnsubmitted, fmt.Errorf("leave edit state: %w", err)
			}
		}
		return review, StateUnsubmitted, nil
	}
}

// RequestEdit unlocks the device's own review for editing and returns it
// for prefilling the form.
func (g *Gate) RequestEdit(ctx context.Context, deviceID string) (domain.Review, error) {
	unlock := g.devices.lock(deviceID)
	defer unlock()

	session, err := g.Load(ctx, deviceID)
	if err != nil {
		return domain.Review{}, err
	}
	if session.Mine == nil {
		return domain.Review{}, ErrNoOwnedReview
	}
	if err := g.markers.SetEditing(ctx, deviceID, true); err != nil {
		return domain.Review{}, fmt.Errorf("enter edit state: %w", err)
	}
	return *session.Mine, nil
}

// CancelEdit returns an editing device to the submitted state.
func (g *Gate) CancelEdit(ctx context.Context, deviceID string) error {
	unlock := g.devices.lock(deviceID)
	defer unlock()

	session, err := g.Load(ctx, deviceID)
	if err != nil {
		return err
	}
	if session.State() != StateEditing {
		return ErrNotEditing
	}
	if err := g.markers.SetEditing(ctx, deviceID, false); err != nil {
		return fmt.Errorf("leave edit state: %w", err)
	}
	return nil
}

// Delete removes the device's review once confirmed. A stale marker is
// cleared and reported as nothing removed.
func (g *Gate) Delete(ctx context.Context, deviceID string, confirmed bool) (bool, error) {
	if !confirmed {
		return false, ErrConfirmationRequired
	}

	unlock := g.devices.lock(deviceID)
	defer unlock()

	session, err := g.Load(ctx, deviceID)
	if err != nil {
		return false, err
	}

	removed := false
	if session.Mine != nil {
		removed, err = g.store.RemoveByKey(ctx, g.store.Key(*session.Mine))
		if err != nil {
			return false, err
		}
	}
	if err := g.markers.ClearMarker(ctx, deviceID); err != nil {
		return removed, fmt.Errorf("clear marker: %w", err)
	}
	if err := g.markers.SetEditing(ctx, deviceID, false); err != nil {
		return removed, fmt.Errorf("leave edit state: %w", err)
	}
	return removed, nil
}
