package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/mimiplus/internal/handlers/identityctx"
	"github.com/nkiryanov/mimiplus/internal/handlers/render"
	"github.com/nkiryanov/mimiplus/internal/logger"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/service/redemption"
)

func handleRequestRedemption(redemptionService redemptionService, l logger.Logger) http.Handler {
	type request struct {
		RewardID uuid.UUID `json:"rewardId" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		red, err := redemptionService.Request(r.Context(), identity.AccountID, req.RewardID)

		switch err {
		case nil:
			render.JSONWithStatus(w, newRedemptionResponse(red), http.StatusCreated)
		default:
			renderServiceError(w, l, "Failed to request redemption", err)
		}
	})
}

func handleOwnRedemptions(redemptionService redemptionService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		q := newQuery(r)
		redemptions, err := redemptionService.List(r.Context(), redemption.ListOpts{
			AccountID: &identity.AccountID,
			Statuses:  q.List("status"),
		})

		switch err {
		case nil:
			render.JSON(w, newRedemptionsResponse(redemptions))
		default:
			renderServiceError(w, l, "Failed to list own redemptions", err)
		}
	})
}

// Queue staff works on: oldest requests are at the end
func handlePendingRedemptions(redemptionService redemptionService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := newQuery(r)
		opts := redemption.ListOpts{
			AccountID: q.UUID("accountId"),
			Statuses:  []string{models.RedemptionStatusPending},
		}
		if !q.Valid(w) {
			return
		}

		redemptions, err := redemptionService.List(r.Context(), opts)

		switch err {
		case nil:
			render.JSON(w, newRedemptionsResponse(redemptions))
		default:
			renderServiceError(w, l, "Failed to list pending redemptions", err)
		}
	})
}
