package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

type gateFixture struct {
	backend *memoryBackend
	markers *memoryMarkers
	store   *ReviewStore
	gate    *Gate
}

func newGateFixture(t *testing.T, kind string, key domain.KeyFunc, opts ...GateOption) gateFixture {
	t.Helper()
	backend := newMemoryBackend(kind, key)
	markers := newMemoryMarkers()
	store := NewReviewStore(backend, markers)

	tick := time.UnixMilli(1_700_000_000_000)
	clock := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	opts = append([]GateOption{WithClock(clock)}, opts...)
	return gateFixture{backend: backend, markers: markers, store: store, gate: NewGate(store, markers, opts...)}
}

func backends() map[string]domain.KeyFunc {
	return map[string]domain.KeyFunc{"local": domain.KeyByID, "mongo": domain.KeyByDevice}
}

func TestGate_SubmitCreatesOneReviewAndSetsMarker(t *testing.T) {
	for kind, key := range backends() {
		t.Run(kind, func(t *testing.T) {
			f := newGateFixture(t, kind, key)
			ctx := context.Background()

			review, from, err := f.gate.Submit(ctx, "d_1_1", domain.ReviewInput{Name: " Lan ", Code: 4})
			require.NoError(t, err)
			assert.Equal(t, StateUnsubmitted, from)
			assert.Equal(t, "Lan", review.Name)
			assert.Equal(t, 4.7, review.Total)

			reviews, err := f.store.ListAll(ctx)
			require.NoError(t, err)
			require.Len(t, reviews, 1)

			marker, _ := f.markers.Marker(ctx, "d_1_1")
			assert.Equal(t, key(reviews[0]), marker)
		})
	}
}

func TestGate_SubmitTwiceIsBlocked(t *testing.T) {
	f := newGateFixture(t, "local", domain.KeyByID)
	ctx := context.Background()

	_, _, err := f.gate.Submit(ctx, "d_1_1", domain.ReviewInput{Name: "Lan"})
	require.NoError(t, err)

	_, state, err := f.gate.Submit(ctx, "d_1_1", domain.ReviewInput{Name: "Lan again"})
	require.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, StateSubmitted, state)

	reviews, _ := f.store.ListAll(ctx)
	assert.Len(t, reviews, 1)
}

func TestGate_ValidationErrorChangesNothing(t *testing.T) {
	f := newGateFixture(t, "local", domain.KeyByID)
	ctx := context.Background()

	_, _, err := f.gate.Submit(ctx, "d_1_1", domain.ReviewInput{Name: "  "})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	reviews, _ := f.store.ListAll(ctx)
	assert.Empty(t, reviews)
	marker, _ := f.markers.Marker(ctx, "d_1_1")
	assert.Empty(t, marker)
}

func TestGate_EditPreservesKeyAndRefreshesTime(t *testing.T) {
	for kind, key := range backends() {
		t.Run(kind, func(t *testing.T) {
			f := newGateFixture(t, kind, key)
			ctx := context.Background()

			created, _, err := f.gate.Submit(ctx, "d_1_1", domain.ReviewInput{Name: "Lan", Text: "first"})
			require.NoError(t, err)

			prefill, err := f.gate.RequestEdit(ctx, "d_1_1")
			require.NoError(t, err)
			assert.Equal(t, created, prefill)

			session, err := f.gate.Load(ctx, "d_1_1")
			require.NoError(t, err)
			assert.Equal(t, StateEditing, session.State())

			edited, from, err := f.gate.Submit(ctx, "d_1_1", domain.ReviewInput{Name: "Lan", Code: 1, Character: 1, Sat: 1, Text: "second"})
			require.NoError(t, err)
			assert.Equal(t, StateEditing, from)
			assert.Equal(t, key(created), key(edited))
			assert.Equal(t, created.ID, edited.ID)
			assert.Greater(t, edited.Time, created.Time)
			assert.Equal(t, 1.0, edited.Total)

			reviews, _ := f.store.ListAll(ctx)
			require.Len(t, reviews, 1)
			assert.Equal(t, "second", reviews[0].Text)

			session, _ = f.gate.Load(ctx, "d_1_1")
			assert.Equal(t, StateSubmitted, session.State())
		})
	}
}

func TestGate_RequestEditWithoutReview(t *testing.T) {
	f := newGateFixture(t, "local", domain.KeyByID)

	_, err := f.gate.RequestEdit(context.Background(), "d_9_9")
	require.ErrorIs(t, err, ErrNoOwnedReview)
}

func TestGate_CancelEdit(t *testing.T) {
	f := newGateFixture(t, "local", domain.KeyByID)
	ctx := context.Background()

	require.ErrorIs(t, f.gate.CancelEdit(ctx, "d_1_1"), ErrNotEditing)

	_, _, err := f.gate.Submit(ctx, "d_1_1", domain.ReviewInput{Name: "Lan"})
	require.NoError(t, err)
	_, err = f.gate.RequestEdit(ctx, "d_1_1")
	require.NoError(t, err)

	require.NoError(t, f.gate.CancelEdit(ctx, "d_1_1"))
	session, _ := f.gate.Load(ctx, "d_1_1")
	assert.Equal(t, StateSubmitted, session.State())
}

func TestGate_DeleteThenSubmitFresh(t *testing.T) {
	for kind, key := range backends() {
		t.Run(kind, func(t *testing.T) {
			f := newGateFixture(t, kind, key)
			ctx := context.Background()

			first, _, err := f.gate.Submit(ctx, "d_1_1", domain.ReviewInput{Name: "Lan"})
			require.NoError(t, err)

			_, err = f.gate.Delete(ctx, "d_1_1", false)
			require.ErrorIs(t, err, ErrConfirmationRequired)

			removed, err := f.gate.Delete(ctx, "d_1_1", true)
			require.NoError(t, err)
			assert.True(t, removed)

			reviews, _ := f.store.ListAll(ctx)
			assert.Empty(t, reviews)
			marker, _ := f.markers.Marker(ctx, "d_1_1")
			assert.Empty(t, marker)

			second, from, err := f.gate.Submit(ctx, "d_1_1", domain.ReviewInput{Name: "Lan"})
			require.NoError(t, err)
			assert.Equal(t, StateUnsubmitted, from)
			assert.NotEqual(t, first.ID, second.ID)
		})
	}
}

func TestGate_DeleteWhileEditingResetsState(t *testing.T) {
	f := newGateFixture(t, "local", domain.KeyByID)
	ctx := context.Background()

	_, _, err := f.gate.Submit(ctx, "d_1_1", domain.ReviewInput{Name: "Lan"})
	require.NoError(t, err)
	_, err = f.gate.RequestEdit(ctx, "d_1_1")
	require.NoError(t, err)

	_, err = f.gate.Delete(ctx, "d_1_1", true)
	require.NoError(t, err)

	session, _ := f.gate.Load(ctx, "d_1_1")
	assert.Equal(t, StateUnsubmitted, session.State())
	editing, _ := f.markers.Editing(ctx, "d_1_1")
	assert.False(t, editing)
}

func TestGate_StaleMarkerIsUnsubmitted(t *testing.T) {
	f := newGateFixture(t, "local", domain.KeyByID)
	ctx := context.Background()

	require.NoError(t, f.markers.SetMarker(ctx, "d_1_1", "vanished"))
	require.NoError(t, f.backend.Put(ctx, "other", domain.Review{ID: "other", DeviceID: "d_2_2", Name: "Someone", Time: 5}))

	session, err := f.gate.Load(ctx, "d_1_1")
	require.NoError(t, err)
	assert.Equal(t, StateUnsubmitted, session.State())

	removed, err := f.gate.Delete(ctx, "d_1_1", true)
	require.NoError(t, err)
	assert.False(t, removed)
	marker, _ := f.markers.Marker(ctx, "d_1_1")
	assert.Empty(t, marker)

	reviews, _ := f.store.ListAll(ctx)
	assert.Len(t, reviews, 1)
}

func TestGate_StaleMarkerWithLatestFallback(t *testing.T) {
	f := newGateFixture(t, "local", domain.KeyByID, WithMarkerFallback(domain.FallbackLatest))
	ctx := context.Background()

	require.NoError(t, f.markers.SetMarker(ctx, "d_1_1", "vanished"))
	require.NoError(t, f.backend.Put(ctx, "other", domain.Review{ID: "other", Name: "Someone", Time: 5}))

	session, err := f.gate.Load(ctx, "d_1_1")
	require.NoError(t, err)
	require.NotNil(t, session.Mine)
	assert.Equal(t, "other", session.Mine.ID)
	assert.Equal(t, StateSubmitted, session.State())
}

func TestGate_BackendFailureSurfaces(t *testing.T) {
	f := newGateFixture(t, "mongo", domain.KeyByDevice)
	f.backend.putErr = errBackendDown

	_, _, err := f.gate.Submit(context.Background(), "d_1_1", domain.ReviewInput{Name: "Lan"})
	require.ErrorIs(t, err, errBackendDown)

	marker, _ := f.markers.Marker(context.Background(), "d_1_1")
	assert.Empty(t, marker)
}
