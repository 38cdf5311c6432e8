package application

import (
	"context"

	admindomain "github.com/sngm3741/review-wall/api/internal/admin/domain"
	publicdomain "github.com/sngm3741/review-wall/api/internal/public/domain"
)

type purgeService struct {
	reviews ReviewRemover
	target  admindomain.PurgeTarget
}

// NewPurgeService creates a PurgeService removing reviews that match target.
func NewPurgeService(reviews ReviewRemover, target admindomain.PurgeTarget) PurgeService {
	return &purgeService{reviews: reviews, target: target}
}

func (s *purgeService) Target() admindomain.PurgeTarget {
	return s.target
}

func (s *purgeService) Purge(ctx context.Context, confirmed bool) (admindomain.PurgeResult, error) {
	if !confirmed {
		return admindomain.PurgeResult{}, ErrConfirmationRequired
	}
	removed, err := s.reviews.RemoveWhere(ctx, func(r publicdomain.Review) bool {
		return s.target.Matches(r.Name, r.Text)
	})
	return admindomain.PurgeResult{Removed: removed}, err
}
