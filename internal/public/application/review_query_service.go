package application

import (
	"context"

	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

// reviewQueryService implements ReviewQueryService.
type reviewQueryService struct {
	store *ReviewStore
	gate  *Gate
}

// NewReviewQueryService creates a new ReviewQueryService.
func NewReviewQueryService(store *ReviewStore, gate *Gate) ReviewQueryService {
	return &reviewQueryService{store: store, gate: gate}
}

func (s *reviewQueryService) List(ctx context.Context, deviceID string) (ReviewList, error) {
	session, err := s.gate.Load(ctx, deviceID)
	if err != nil {
		return ReviewList{}, err
	}

	marker := ""
	if session.Mine != nil {
		marker = s.store.Key(*session.Mine)
	}
	items, pinned := domain.Order(session.Reviews, marker, s.store.Key, domain.FallbackNone)

	return ReviewList{
		Items:   items,
		Pinned:  pinned,
		Summary: domain.Summarize(session.Reviews),
		State:   session.State(),
	}, nil
}

func (s *reviewQueryService) Summary(ctx context.Context) (domain.Summary, error) {
	reviews, err := s.store.ListAll(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(reviews), nil
}
