package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/mimiplus/internal/handlers/identityctx"
	"github.com/nkiryanov/mimiplus/internal/handlers/render"
	"github.com/nkiryanov/mimiplus/internal/logger"
	"github.com/nkiryanov/mimiplus/internal/service/ledger"
)

func handleOwnTransactions(ledgerService ledgerService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		renderHistory(w, r, ledgerService, l, identity.AccountID)
	})
}

func handleAccountTransactions(ledgerService ledgerService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id")
		if !ok {
			return
		}

		renderHistory(w, r, ledgerService, l, id)
	})
}

// History filtered by 'kind', paged by 'limit' and 'offset'
func renderHistory(w http.ResponseWriter, r *http.Request, ledgerService ledgerService, l logger.Logger, accountID uuid.UUID) {
	q := newQuery(r)
	opts := ledger.HistoryOpts{
		Kinds:  q.List("kind"),
		Limit:  q.Int("limit", 0),
		Offset: q.Int("offset", 0),
	}
	if !q.Valid(w) {
		return
	}

	history, err := ledgerService.History(r.Context(), accountID, opts)

	switch err {
	case nil:
		render.JSON(w, newTransactionsResponse(history))
	default:
		renderServiceError(w, l, "Failed to get transactions", err)
	}
}
