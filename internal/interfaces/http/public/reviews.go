package public

import (
	"context"
	"net/http"

	"github.com/sngm3741/review-wall/api/internal/interfaces/http/common"
)

func (h *Handler) reviewListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, ok := h.deviceID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		list, err := h.queries.List(ctx, deviceID)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}

		items := make([]reviewResponse, 0, len(list.Items))
		for i, review := range list.Items {
			items = append(items, buildReviewResponse(review, list.Pinned && i == 0))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, reviewListResponse{
			Items:           items,
			Pinned:          list.Pinned,
			State:           list.State,
			AdminEnabled:    h.adminFlag.Enabled(r),
			summaryResponse: buildSummaryResponse(list.Summary),
		})
	}
}

func (h *Handler) reviewSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		summary, err := h.queries.Summary(ctx)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, buildSummaryResponse(summary))
	}
}

func (h *Handler) myReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, ok := h.deviceID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		session, err := h.gate.Load(ctx, deviceID)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}

		resp := myReviewResponse{State: session.State()}
		if session.Mine != nil {
			review := buildReviewResponse(*session.Mine, true)
			resp.Review = &review
		}
		common.WriteJSON(h.logger, w, http.StatusOK, resp)
	}
}
