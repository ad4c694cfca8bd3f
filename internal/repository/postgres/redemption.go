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

type RedemptionRepo struct {
	DB DBTX
}

const redemptionColumns = `id, account_id, reward_id, points_used, status, requested_at, resolved_at`

const createRedemption = `-- name: CreateRedemption
INSERT INTO redemptions (id, account_id, reward_id, points_used, status, requested_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + redemptionColumns

func (r *RedemptionRepo) CreateRedemption(ctx context.Context, rd models.Redemption) (models.Redemption, error) {
	if rd.ID == uuid.Nil {
		rd.ID = uuid.New()
	}
	if rd.RequestedAt.IsZero() {
		rd.RequestedAt = time.Now()
	}
	if rd.Status == "" {
		rd.Status = models.RedemptionStatusPending
	}

	rows, _ := r.DB.Query(ctx, createRedemption, rd.ID, rd.AccountID, rd.RewardID, rd.PointsUsed, rd.Status, rd.RequestedAt)
	redemption, err := pgx.CollectOneRow(rows, rowToRedemption)

	if err == nil {
		return redemption, nil
	}

	constraint, ok := foreignKeyViolation(err)
	switch {
	case ok && constraint == "redemptions_reward_id_fkey":
		return redemption, apperrors.ErrRewardNotFound
	case ok:
		return redemption, apperrors.ErrAccountNotFound
	default:
		return redemption, fmt.Errorf("db error: %w", err)
	}
}

const getRedemptionForUpdate = `-- name: GetRedemptionForUpdate
SELECT ` + redemptionColumns + ` FROM redemptions
WHERE id = $1
FOR UPDATE
`

func (r *RedemptionRepo) GetRedemptionForUpdate(ctx context.Context, redemptionID uuid.UUID) (models.Redemption, error) {
	rows, _ := r.DB.Query(ctx, getRedemptionForUpdate, redemptionID)
	redemption, err := pgx.CollectOneRow(rows, rowToRedemption)

	switch {
	case err == nil:
		return redemption, nil
	case errors.Is(err, pgx.ErrNoRows):
		return redemption, apperrors.ErrRedemptionNotFound
	default:
		return redemption, fmt.Errorf("db error: %w", err)
	}
}

// Only pending redemptions may be resolved, so the transition happens once
const resolveRedemption = `-- name: ResolveRedemption
UPDATE redemptions SET status = $2, resolved_at = $3
WHERE id = $1 AND status = 'pending'
RETURNING ` + redemptionColumns

const redemptionExists = `-- name: RedemptionExists
SELECT EXISTS (SELECT 1 FROM redemptions WHERE id = $1)
`

func (r *RedemptionRepo) Resolve(ctx context.Context, redemptionID uuid.UUID, status string, resolvedAt time.Time) (models.Redemption, error) {
	rows, _ := r.DB.Query(ctx, resolveRedemption, redemptionID, status, resolvedAt)
	redemption, err := pgx.CollectOneRow(rows, rowToRedemption)

	switch {
	case err == nil:
		return redemption, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return redemption, fmt.Errorf("db error: %w", err)
	}

	rows, _ = r.DB.Query(ctx, redemptionExists, redemptionID)
	exists, err := pgx.CollectOneRow(rows, pgx.RowTo[bool])

	switch {
	case err != nil:
		return redemption, fmt.Errorf("db error: %w", err)
	case exists:
		return redemption, apperrors.ErrInvalidStateTransition
	default:
		return redemption, apperrors.ErrRedemptionNotFound
	}
}

const listRedemptions = `-- name: ListRedemptions
SELECT
	r.id, r.account_id, r.reward_id, r.points_used, r.status, r.requested_at, r.resolved_at,
	a.name, w.name, w.brand
FROM redemptions r
JOIN accounts a ON a.id = r.account_id
JOIN rewards w ON w.id = r.reward_id
WHERE ($1::uuid IS NULL OR r.account_id = $1)
  AND ($2::uuid[] IS NULL OR r.id = ANY($2))
  AND ($3::text[] IS NULL OR r.status = ANY($3))
ORDER BY r.requested_at DESC, r.id
`

func (r *RedemptionRepo) ListRedemptions(ctx context.Context, opts repository.ListRedemptionsOpts) ([]models.RedemptionDetails, error) {
	// Empty filters are passed as NULL
	var ids []uuid.UUID
	if len(opts.IDs) > 0 {
		ids = opts.IDs
	}
	var statuses []string
	if len(opts.Statuses) > 0 {
		statuses = opts.Statuses
	}

	rows, _ := r.DB.Query(ctx, listRedemptions, opts.AccountID, ids, statuses)
	redemptions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RedemptionDetails, error) {
		var d models.RedemptionDetails
		err := row.Scan(
			&d.ID, &d.AccountID, &d.RewardID, &d.PointsUsed, &d.Status, &d.RequestedAt, &d.ResolvedAt,
			&d.AccountName, &d.RewardName, &d.RewardBrand,
		)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return redemptions, nil
}

func rowToRedemption(row pgx.CollectableRow) (models.Redemption, error) {
	var rd models.Redemption
	err := row.Scan(&rd.ID, &rd.AccountID, &rd.RewardID, &rd.PointsUsed, &rd.Status, &rd.RequestedAt, &rd.ResolvedAt)
	return rd, err
}
