package handlers

import (
	"net/http"

	"github.com/nkiryanov/mimiplus/internal/handlers/render"
	"github.com/nkiryanov/mimiplus/internal/logger"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/service/catalog"
)

func renderRewards(w http.ResponseWriter, rewards []models.Reward) {
	res := make([]rewardResponse, 0, len(rewards))
	for _, reward := range rewards {
		res = append(res, newRewardResponse(reward))
	}
	render.JSON(w, res)
}

// Catalog as customers see it: active rewards only
func handleListActiveRewards(catalogService catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := newQuery(r)

		rewards, err := catalogService.List(r.Context(), catalog.ListOpts{Category: q.String("category")})

		switch err {
		case nil:
			renderRewards(w, rewards)
		default:
			renderServiceError(w, l, "Failed to list rewards", err)
		}
	})
}

func handleListRewards(catalogService catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := newQuery(r)
		opts := catalog.ListOpts{
			Category:        q.String("category"),
			IncludeInactive: q.Bool("showInactive"),
		}
		if !q.Valid(w) {
			return
		}

		rewards, err := catalogService.List(r.Context(), opts)

		switch err {
		case nil:
			renderRewards(w, rewards)
		default:
			renderServiceError(w, l, "Failed to list rewards", err)
		}
	})
}

func handleCreateReward(catalogService catalogService, l logger.Logger) http.Handler {
	type request struct {
		Name           string `json:"name" validate:"required"`
		Brand          string `json:"brand"`
		Category       string `json:"category"`
		Description    string `json:"description"`
		PointsRequired int64  `json:"pointsRequired" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		reward, err := catalogService.Create(r.Context(), catalog.CreateRewardParams{
			Name:           req.Name,
			Brand:          req.Brand,
			Category:       req.Category,
			Description:    req.Description,
			PointsRequired: req.PointsRequired,
		})

		switch err {
		case nil:
			render.JSONWithStatus(w, newRewardResponse(reward), http.StatusCreated)
		default:
			renderServiceError(w, l, "Failed to create reward", err)
		}
	})
}

func handleDeactivateReward(catalogService catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id")
		if !ok {
			return
		}

		reward, err := catalogService.Deactivate(r.Context(), id)

		switch err {
		case nil:
			render.JSON(w, newRewardResponse(reward))
		default:
			renderServiceError(w, l, "Failed to deactivate reward", err)
		}
	})
}

func handleReactivateReward(catalogService catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id")
		if !ok {
			return
		}

		reward, err := catalogService.Reactivate(r.Context(), id)

		switch err {
		case nil:
			render.JSON(w, newRewardResponse(reward))
		default:
			renderServiceError(w, l, "Failed to reactivate reward", err)
		}
	})
}
