package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/mimiplus/internal/handlers/render"
	"github.com/nkiryanov/mimiplus/internal/logger"
)

// Amount is validated by the service: non positive amount is invalid_amount, not a malformed request
func handleProcessPurchase(purchaseService purchaseService, pointsPerUnit decimal.Decimal, l logger.Logger) http.Handler {
	type request struct {
		AccountID uuid.UUID       `json:"accountId" validate:"required"`
		Amount    decimal.Decimal `json:"amount"`
	}

	type response struct {
		PointsEarned int64                `json:"pointsEarned"`
		NewBalance   int64                `json:"newBalance"`
		Transaction  *transactionResponse `json:"transaction,omitempty"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		result, err := purchaseService.Process(r.Context(), req.AccountID, req.Amount, pointsPerUnit)

		switch err {
		case nil:
			res := response{PointsEarned: result.PointsEarned, NewBalance: result.NewBalance}
			if result.Transaction != nil {
				tr := newTransactionResponse(*result.Transaction)
				res.Transaction = &tr
			}
			render.JSON(w, res)
		default:
			renderServiceError(w, l, "Failed to process purchase", err)
		}
	})
}
