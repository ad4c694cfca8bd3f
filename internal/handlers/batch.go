package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/mimiplus/internal/handlers/render"
	"github.com/nkiryanov/mimiplus/internal/logger"
)

func handleProcessBatch(batchService batchService, l logger.Logger) http.Handler {
	type request struct {
		Action        string      `json:"action" validate:"required,oneof=approve deny"`
		RedemptionIDs []uuid.UUID `json:"redemptionIds" validate:"required,uuids"`
	}

	type response struct {
		Message        string `json:"message"`
		ProcessedCount int    `json:"processedCount"`
		FailedCount    int    `json:"failedCount"`
		TotalProcessed int    `json:"totalProcessed"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		summary, err := batchService.Process(r.Context(), req.Action, req.RedemptionIDs)

		switch err {
		case nil:
			render.JSON(w, response{
				Message:        summary.Message,
				ProcessedCount: summary.ProcessedCount,
				FailedCount:    summary.FailedCount,
				TotalProcessed: summary.TotalProcessed,
			})
		default:
			renderServiceError(w, l, "Failed to process redemptions", err)
		}
	})
}
