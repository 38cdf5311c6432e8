package application

import (
	"context"
	"errors"

	admindomain "github.com/sngm3741/review-wall/api/internal/admin/domain"
	publicdomain "github.com/sngm3741/review-wall/api/internal/public/domain"
)

// ReviewRemover exposes the bulk delete of the review store.
type ReviewRemover interface {
	RemoveWhere(ctx context.Context, pred func(publicdomain.Review) bool) (int, error)
}

// PurgeService describes admin purge use-cases.
type PurgeService interface {
	Target() admindomain.PurgeTarget
	Purge(ctx context.Context, confirmed bool) (admindomain.PurgeResult, error)
}

// ErrConfirmationRequired is returned when a purge is not confirmed.
var ErrConfirmationRequired = errors.New("purge requires confirmation")
