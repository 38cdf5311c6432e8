package public

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sngm3741/review-wall/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/review-wall/api/internal/public/application"
	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

func (h *Handler) reviewSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, ok := h.deviceID(w, r)
		if !ok {
			return
		}

		var req reviewRequest
		decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxReviewRequestBody))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				common.WriteError(h.logger, w, http.StatusBadRequest, "request body is empty")
				return
			}
			common.WriteError(h.logger, w, http.StatusBadRequest, "request body is malformed")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		review, from, err := h.gate.Submit(ctx, deviceID, domain.ReviewInput{
			Name:      req.Name,
			Code:      req.Code,
			Character: req.Character,
			Sat:       req.Sat,
			Text:      req.Text,
		})
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}

		edited := from == publicapp.StateEditing
		status, label := http.StatusCreated, "created"
		if edited {
			status, label = http.StatusOK, "updated"
		}
		h.notifySubmitted(review, edited)

		common.WriteJSON(h.logger, w, status, submitResponse{
			Status: label,
			State:  publicapp.StateSubmitted,
			Review: buildReviewResponse(review, true),
		})
	}
}

func (h *Handler) reviewEditHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, ok := h.deviceID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		review, err := h.gate.RequestEdit(ctx, deviceID)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, myReviewResponse{
			State:  publicapp.StateEditing,
			Review: ptr(buildReviewResponse(review, true)),
		})
	}
}

func (h *Handler) reviewCancelEditHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, ok := h.deviceID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		if err := h.gate.CancelEdit(ctx, deviceID); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]publicapp.GateState{"state": publicapp.StateSubmitted})
	}
}

func (h *Handler) reviewDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, ok := h.deviceID(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		removed, err := h.gate.Delete(ctx, deviceID, common.Confirmed(r))
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, deleteResponse{
			Removed: removed,
			State:   publicapp.StateUnsubmitted,
		})
	}
}

func ptr[T any](v T) *T { return &v }
