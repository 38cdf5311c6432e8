package application

import (
	"context"
	"fmt"

	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

// ReviewStore is the backend-independent review store. It owns marker
// bookkeeping so every backend behaves the same towards callers.
type ReviewStore struct {
	backend Backend
	markers MarkerRepository
}

// NewReviewStore binds a backend and a marker repository.
func NewReviewStore(backend Backend, markers MarkerRepository) *ReviewStore {
	return &ReviewStore{backend: backend, markers: markers}
}

// Kind reports the selected backend.
func (s *ReviewStore) Kind() string {
	return s.backend.Kind()
}

// Key returns the storage key of review for the selected backend.
func (s *ReviewStore) Key(review domain.Review) string {
	return s.backend.Key(review)
}

// ListAll returns the current stored reviews, unordered.
func (s *ReviewStore) ListAll(ctx context.Context) ([]domain.Review, error) {
	reviews, err := s.backend.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews (%s): %w", s.backend.Kind(), err)
	}
	return reviews, nil
}

// Upsert replaces the record keyed for review and points the device's
// marker at it. The persisted key is returned.
func (s *ReviewStore) Upsert(ctx context.Context, deviceID string, review domain.Review) (string, error) {
	key := s.backend.Key(review)
	if key == "" {
		return "", fmt.Errorf("upsert review: empty %s key", s.backend.Kind())
	}
	if err := s.backend.Put(ctx, key, review); err != nil {
		return "", fmt.Errorf("upsert review %s (%s): %w", key, s.backend.Kind(), err)
	}
	if err := s.markers.SetMarker(ctx, deviceID, key); err != nil {
		return "", fmt.Errorf("set marker: %w", err)
	}
	return key, nil
}

// RemoveByKey deletes the record under key and clears any marker pointing
// at it. A missing record is not an error.
func (s *ReviewStore) RemoveByKey(ctx context.Context, key string) (bool, error) {
	removed, err := s.backend.Delete(ctx, key)
	if err != nil {
		return false, fmt.Errorf("remove review %s (%s): %w", key, s.backend.Kind(), err)
	}
	if _, err := s.markers.ClearKey(ctx, key); err != nil {
		return removed, fmt.Errorf("clear markers for %s: %w", key, err)
	}
	return removed, nil
}

// RemoveWhere applies RemoveByKey to every review matching pred and reports
// how many were removed.
func (s *ReviewStore) RemoveWhere(ctx context.Context, pred func(domain.Review) bool) (int, error) {
	reviews, err := s.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, review := range reviews {
		if !pred(review) {
			continue
		}
		removed, err := s.RemoveByKey(ctx, s.backend.Key(review))
		if err != nil {
			return count, err
		}
		if removed {
			count++
		}
	}
	return count, nil
}
