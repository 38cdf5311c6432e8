package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sngm3741/review-wall/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/review-wall/api/internal/public/application"
	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

const notifyTimeout = 10 * time.Second

func buildReviewResponse(review domain.Review, mine bool) reviewResponse {
	return reviewResponse{
		ID:         review.ID,
		Name:       review.Name,
		Code:       review.Code,
		Character:  review.Character,
		Sat:        review.Sat,
		Text:       review.Text,
		Total:      review.Total,
		TotalLabel: domain.FormatAverage(review.Total),
		Time:       review.Time,
		CreatedAt:  review.CreatedAt().Format(time.RFC3339),
		Mine:       mine,
	}
}

func buildSummaryResponse(summary domain.Summary) summaryResponse {
	return summaryResponse{
		Count:        summary.Count,
		Average:      summary.Average,
		AverageLabel: summary.Label,
		FillPercent:  summary.FillPercent,
	}
}

func (h *Handler) deviceID(w http.ResponseWriter, r *http.Request) (string, bool) {
	deviceID, ok := common.DeviceFromContext(r.Context())
	if !ok {
		h.logger.Error("端末 ID がコンテキストにありません", zap.String("path", r.URL.Path))
		common.WriteError(h.logger, w, http.StatusInternalServerError, "device identity is unavailable")
		return "", false
	}
	return deviceID, true
}

// writeServiceError はアプリケーション層のエラーを HTTP ステータスへ対応付ける。
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		common.WriteError(h.logger, w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, publicapp.ErrConfirmationRequired):
		common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, publicapp.ErrAlreadySubmitted), errors.Is(err, publicapp.ErrNotEditing):
		common.WriteError(h.logger, w, http.StatusConflict, err.Error())
	case errors.Is(err, publicapp.ErrNoOwnedReview):
		common.WriteError(h.logger, w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("レビューストアの操作に失敗",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		common.WriteError(h.logger, w, http.StatusBadGateway, "review storage is unavailable")
	}
}

// notifySubmitted は通知をバックグラウンドで送り、失敗はログに残すだけにする。
func (h *Handler) notifySubmitted(review domain.Review, edited bool) {
	if h.notifier == nil {
		return
	}
	h.tasks.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := h.notifier.ReviewSubmitted(ctx, review, edited); err != nil {
			h.logger.Warn("管理者通知の送信に失敗", zap.String("reviewId", review.ID), zap.Error(err))
		}
	})
}
