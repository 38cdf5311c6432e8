package public

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sngm3741/review-wall/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/review-wall/api/internal/public/application"
	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

// ReviewNotifier は投稿/編集を管理者へ知らせる外部通知。
type ReviewNotifier interface {
	ReviewSubmitted(ctx context.Context, review domain.Review, edited bool) error
}

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger    *zap.Logger
	queries   publicapp.ReviewQueryService
	gate      *publicapp.Gate
	adminFlag common.AdminFlag
	notifier  ReviewNotifier
	tasks     *common.Background
}

// Config defines dependencies required by Handler. Notifier is optional.
// Background tracks notification goroutines and defaults to a private tracker.
type Config struct {
	Logger     *zap.Logger
	Queries    publicapp.ReviewQueryService
	Gate       *publicapp.Gate
	AdminFlag  common.AdminFlag
	Notifier   ReviewNotifier
	Background *common.Background
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tasks := cfg.Background
	if tasks == nil {
		tasks = &common.Background{}
	}
	return &Handler{
		logger:    logger,
		queries:   cfg.Queries,
		gate:      cfg.Gate,
		adminFlag: cfg.AdminFlag,
		notifier:  cfg.Notifier,
		tasks:     tasks,
	}
}

// Register mounts all public routes onto the router. Every route needs a
// device identity, so deviceMiddleware wraps the whole group.
func (h *Handler) Register(r chi.Router, deviceMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(deviceMiddleware)
		r.Get("/reviews", h.reviewListHandler())
		r.Get("/reviews/summary", h.reviewSummaryHandler())
		r.Get("/reviews/me", h.myReviewHandler())
		r.Post("/reviews", h.reviewSubmitHandler())
		r.Post("/reviews/me/edit", h.reviewEditHandler())
		r.Delete("/reviews/me/edit", h.reviewCancelEditHandler())
		r.Delete("/reviews/me", h.reviewDeleteHandler())
	})
}
