package admin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	adminapp "github.com/sngm3741/review-wall/api/internal/admin/application"
	admindomain "github.com/sngm3741/review-wall/api/internal/admin/domain"
	"github.com/sngm3741/review-wall/api/internal/interfaces/http/common"
)

const notifyTimeout = 10 * time.Second

// purgeTargetHandler は削除対象の条件を返し、確認ダイアログの文言に使わせる。
func (h *Handler) purgeTargetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		target := h.purge.Target()
		common.WriteJSON(h.logger, w, http.StatusOK, purgeTargetResponse{
			Name: target.Name(),
			Text: target.Text(),
		})
	}
}

func (h *Handler) purgeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		result, err := h.purge.Purge(ctx, common.Confirmed(r))
		if errors.Is(err, adminapp.ErrConfirmationRequired) {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			h.logger.Error("サンプルレビューの一括削除に失敗",
				zap.Int("removed", result.Removed),
				zap.Error(err),
			)
			common.WriteJSON(h.logger, w, http.StatusBadGateway, purgeErrorResponse{
				Error:   "Purge failed: review storage is unavailable",
				Removed: result.Removed,
			})
			return
		}

		h.logger.Info("サンプルレビューを一括削除しました", zap.Int("removed", result.Removed))
		h.notifyPurged(result)
		common.WriteJSON(h.logger, w, http.StatusOK, purgeResponse{
			Removed: result.Removed,
			Message: result.Message(),
		})
	}
}

func (h *Handler) notifyPurged(result admindomain.PurgeResult) {
	if h.notifier == nil || result.Removed == 0 {
		return
	}
	target := h.purge.Target()
	h.tasks.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := h.notifier.ReviewsPurged(ctx, target, result); err != nil {
			h.logger.Warn("管理者通知の送信に失敗", zap.Error(err))
		}
	})
}
