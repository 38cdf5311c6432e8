package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/review-wall/api/internal/infrastructure/local"
	"github.com/sngm3741/review-wall/api/internal/infrastructure/sqlite"
	publicapp "github.com/sngm3741/review-wall/api/internal/public/application"
	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

func TestGenerateReviews(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	reviews := generateReviews(42, now, 10, 2, "Anh Thư", "Khùng")
	require.Len(t, reviews, 12)

	purge := 0
	devices := map[string]struct{}{}
	for _, r := range reviews {
		assert.True(t, domain.ValidDeviceID(r.DeviceID), r.DeviceID)
		devices[r.DeviceID] = struct{}{}
		for _, rating := range []int{r.Code, r.Character, r.Sat} {
			assert.GreaterOrEqual(t, rating, domain.MinRating)
			assert.LessOrEqual(t, rating, domain.MaxRating)
		}
		assert.Equal(t, domain.ComputeTotal(r.Code, r.Character, r.Sat), r.Total)
		assert.LessOrEqual(t, r.Time, now.UnixMilli())
		assert.Greater(t, r.Time, now.Add(-31*24*time.Hour).UnixMilli())
		if r.Name == "Anh Thư" && r.Text == "Khùng" {
			purge++
		}
	}
	assert.Equal(t, 2, purge)
	assert.Len(t, devices, 12)
}

func TestGenerateReviews_SeedIsReproducible(t *testing.T) {
	now := time.Now()
	a := generateReviews(7, now, 5, 0, "x", "y")
	b := generateReviews(7, now, 5, 0, "x", "y")

	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
		assert.Equal(t, a[i].Time, b[i].Time)
		assert.Equal(t, a[i].DeviceID, b[i].DeviceID)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.env"), []byte("# comment\nexport SEED_TEST_A=\"one\"\nSEED_TEST_B='two'\nbroken\n"), 0o600))
	t.Setenv("SEED_TEST_A", "")
	t.Setenv("SEED_TEST_B", "")

	require.NoError(t, loadEnvFiles(dir, "local"))
	assert.Equal(t, "one", os.Getenv("SEED_TEST_A"))
	assert.Equal(t, "two", os.Getenv("SEED_TEST_B"))
}

func TestSeedReviews_DropClearsMarkers(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	kv := sqlite.NewKVRepository(db)
	markers := local.NewMarkerRepository(kv)
	backend := local.NewReviewBackend(kv)
	store := publicapp.NewReviewStore(backend, markers)
	gate := publicapp.NewGate(store, markers)

	mine, _, err := gate.Submit(ctx, "d_1_1", domain.ReviewInput{Name: "Lan"})
	require.NoError(t, err)
	_, err = gate.RequestEdit(ctx, "d_1_1")
	require.NoError(t, err)

	samples := generateReviews(3, time.Now(), 4, 1, "Anh Thư", "Khùng")
	dropped, err := seedReviews(ctx, store, backend, samples, true)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)

	marker, err := markers.Marker(ctx, "d_1_1")
	require.NoError(t, err)
	assert.Empty(t, marker)
	editing, err := markers.Editing(ctx, "d_1_1")
	require.NoError(t, err)
	assert.False(t, editing)

	stored, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 5)
	for _, r := range stored {
		assert.NotEqual(t, mine.ID, r.ID)
	}

	list, err := kv.List(ctx, "marker:")
	require.NoError(t, err)
	assert.Empty(t, list)
}
