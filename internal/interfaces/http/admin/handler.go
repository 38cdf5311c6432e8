package admin

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminapp "github.com/sngm3741/review-wall/api/internal/admin/application"
	admindomain "github.com/sngm3741/review-wall/api/internal/admin/domain"
	"github.com/sngm3741/review-wall/api/internal/interfaces/http/common"
)

// PurgeNotifier は一括削除の結果を管理者へ知らせる外部通知。
type PurgeNotifier interface {
	ReviewsPurged(ctx context.Context, target admindomain.PurgeTarget, result admindomain.PurgeResult) error
}

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger    *zap.Logger
	purge     adminapp.PurgeService
	adminFlag common.AdminFlag
	notifier  PurgeNotifier
	tasks     *common.Background
}

// Config provides dependencies for Handler. Notifier is optional. Background
// tracks notification goroutines and defaults to a private tracker.
type Config struct {
	Logger     *zap.Logger
	Purge      adminapp.PurgeService
	AdminFlag  common.AdminFlag
	Notifier   PurgeNotifier
	Background *common.Background
}

// NewHandler constructs an admin HTTP handler set.
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
		purge:     cfg.Purge,
		adminFlag: cfg.AdminFlag,
		notifier:  cfg.Notifier,
		tasks:     tasks,
	}
}

// Register mounts admin routes onto router. Requests without the admin
// query flag get 404 so the surface stays hidden.
func (h *Handler) Register(r chi.Router) {
	r.Use(h.requireAdminFlag)
	r.Get("/purge", h.purgeTargetHandler())
	r.Post("/purge", h.purgeHandler())
}

func (h *Handler) requireAdminFlag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.adminFlag.Enabled(r) {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
