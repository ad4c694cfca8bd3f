package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/repository"
)

type RewardRepo struct {
	DB DBTX
}

const rewardColumns = `id, created_at, name, brand, category, description, points_required, active`

const createReward = `-- name: CreateReward
INSERT INTO rewards (id, created_at, name, brand, category, description, points_required, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + rewardColumns

func (r *RewardRepo) CreateReward(ctx context.Context, w models.Reward) (models.Reward, error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createReward, w.ID, w.CreatedAt, w.Name, w.Brand, w.Category, w.Description, w.PointsRequired, w.Active)
	reward, err := pgx.CollectOneRow(rows, rowToReward)
	if err != nil {
		return reward, fmt.Errorf("db error: %w", err)
	}

	return reward, nil
}

const getReward = `-- name: GetReward
SELECT ` + rewardColumns + ` FROM rewards
WHERE id = $1
`

func (r *RewardRepo) GetReward(ctx context.Context, rewardID uuid.UUID) (models.Reward, error) {
	rows, _ := r.DB.Query(ctx, getReward, rewardID)
	return collectReward(rows)
}

const listRewards = `-- name: ListRewards
SELECT ` + rewardColumns + ` FROM rewards
WHERE ($1 = '' OR category = $1)
  AND ($2 OR active)
ORDER BY created_at DESC, id
`

func (r *RewardRepo) ListRewards(ctx context.Context, opts repository.ListRewardsOpts) ([]models.Reward, error) {
	rows, _ := r.DB.Query(ctx, listRewards, opts.Category, opts.IncludeInactive)
	rewards, err := pgx.CollectRows(rows, rowToReward)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rewards, nil
}

const setRewardActive = `-- name: SetRewardActive
UPDATE rewards SET active = $2
WHERE id = $1
RETURNING ` + rewardColumns

func (r *RewardRepo) SetRewardActive(ctx context.Context, rewardID uuid.UUID, active bool) (models.Reward, error) {
	rows, _ := r.DB.Query(ctx, setRewardActive, rewardID, active)
	return collectReward(rows)
}

func collectReward(rows pgx.Rows) (models.Reward, error) {
	reward, err := pgx.CollectOneRow(rows, rowToReward)

	switch {
	case err == nil:
		return reward, nil
	case errors.Is(err, pgx.ErrNoRows):
		return reward, apperrors.ErrRewardNotFound
	default:
		return reward, fmt.Errorf("db error: %w", err)
	}
}

func rowToReward(row pgx.CollectableRow) (models.Reward, error) {
	var w models.Reward
	err := row.Scan(&w.ID, &w.CreatedAt, &w.Name, &w.Brand, &w.Category, &w.Description, &w.PointsRequired, &w.Active)
	return w, err
}
