package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/handlers/identityctx"
	"github.com/nkiryanov/mimiplus/internal/handlers/render"
	"github.com/nkiryanov/mimiplus/internal/logger"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/service/account"
)

func handleOwnAccount(accountService accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		a, err := accountService.Get(r.Context(), identity.AccountID)

		switch err {
		case nil:
			render.JSON(w, newAccountResponse(a))
		default:
			renderServiceError(w, l, "Failed to get own account", err)
		}
	})
}

func handleRenameOwnAccount(accountService accountService, l logger.Logger) http.Handler {
	type request struct {
		Name string `json:"name" validate:"required"`
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

		a, err := accountService.Rename(r.Context(), identity.AccountID, req.Name)

		switch err {
		case nil:
			render.JSON(w, newAccountResponse(a))
		default:
			renderServiceError(w, l, "Failed to rename own account", err)
		}
	})
}

func handleGetAccount(accountService accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id")
		if !ok {
			return
		}

		a, err := accountService.Get(r.Context(), id)

		switch err {
		case nil:
			render.JSON(w, newAccountResponse(a))
		default:
			renderServiceError(w, l, "Failed to get account", err)
		}
	})
}

// QR code goes as the rest of the path: it may contain '/'
func handleAccountByQRCode(accountService accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code, err := url.PathUnescape(chi.URLParam(r, "*"))
		if err != nil || code == "" {
			render.ServiceError(w, "Invalid QR code", http.StatusBadRequest)
			return
		}

		a, err := accountService.GetByQRCode(r.Context(), code)

		switch err {
		case nil:
			render.JSON(w, newAccountResponse(a))
		default:
			renderServiceError(w, l, "Failed to get account by QR code", err)
		}
	})
}

func handleListAccounts(accountService accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := newQuery(r)
		opts := account.ListOpts{
			Role:            q.String("role"),
			IncludeInactive: q.Bool("showInactive"),
		}
		if !q.Valid(w) {
			return
		}

		accounts, err := accountService.List(r.Context(), opts)

		switch err {
		case nil:
			res := make([]accountResponse, 0, len(accounts))
			for _, a := range accounts {
				res = append(res, newAccountResponse(a))
			}
			render.JSON(w, res)
		default:
			renderServiceError(w, l, "Failed to list accounts", err)
		}
	})
}

// Staff sees customers only, any other role is forbidden
func handleListCustomers(accountService accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := newQuery(r)
		role := q.String("role")
		opts := account.ListOpts{
			Role:            models.RoleCustomer,
			IncludeInactive: q.Bool("showInactive"),
		}
		if !q.Valid(w) {
			return
		}
		if role != "" && role != models.RoleCustomer {
			render.AppError(w, apperrors.ErrForbidden)
			return
		}

		accounts, err := accountService.List(r.Context(), opts)

		switch err {
		case nil:
			res := make([]accountResponse, 0, len(accounts))
			for _, a := range accounts {
				res = append(res, newAccountResponse(a))
			}
			render.JSON(w, res)
		default:
			renderServiceError(w, l, "Failed to list customers", err)
		}
	})
}

func handleCreateAccount(accountService accountService, l logger.Logger) http.Handler {
	type request struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"omitempty,oneof=customer staff admin"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		a, err := accountService.Create(r.Context(), account.CreateParams{
			Name:  req.Name,
			Email: req.Email,
			Role:  req.Role,
		})

		switch err {
		case nil:
			render.JSONWithStatus(w, newAccountResponse(a), http.StatusCreated)
		default:
			renderServiceError(w, l, "Failed to create account", err)
		}
	})
}

// Partial update: absent field keeps the current value
func handleUpdateAccount(accountService accountService, l logger.Logger) http.Handler {
	type request struct {
		Name  string `json:"name" validate:"required_without=Email"`
		Email string `json:"email" validate:"required_without=Name,omitempty,email"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		a, err := accountService.Update(r.Context(), id, account.UpdateParams{
			Name:  req.Name,
			Email: req.Email,
		})

		switch err {
		case nil:
			render.JSON(w, newAccountResponse(a))
		default:
			renderServiceError(w, l, "Failed to update account", err)
		}
	})
}

func handleDeactivateAccount(accountService accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id")
		if !ok {
			return
		}

		a, err := accountService.Deactivate(r.Context(), id)

		switch err {
		case nil:
			render.JSON(w, newAccountResponse(a))
		default:
			renderServiceError(w, l, "Failed to deactivate account", err)
		}
	})
}

func handleReactivateAccount(accountService accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id")
		if !ok {
			return
		}

		a, err := accountService.Reactivate(r.Context(), id)

		switch err {
		case nil:
			render.JSON(w, newAccountResponse(a))
		default:
			renderServiceError(w, l, "Failed to reactivate account", err)
		}
	})
}
