package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/logger"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/service/redemption"
)

const (
	ActionApprove = "approve"
	ActionDeny    = "deny"
)

const msgNothingPending = "No pending redemptions found with the provided IDs"

type Summary struct {
	Action         string
	ProcessedCount int
	FailedCount    int
	TotalProcessed int
	Message        string
}

// Part of redemption service batch needs
type Redemptions interface {
	Approve(ctx context.Context, redemptionID uuid.UUID) (models.Redemption, error)
	Deny(ctx context.Context, redemptionID uuid.UUID) (models.Redemption, error)
	List(ctx context.Context, opts redemption.ListOpts) ([]models.RedemptionDetails, error)
}

// Apply one action to many pending redemptions
// Items are independent: failure of one does not stop or undo others
type BatchService struct {
	redemptions Redemptions
	logger      logger.Logger
}

func NewService(redemptions Redemptions, l logger.Logger) *BatchService {
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &BatchService{
		redemptions: redemptions,
		logger:      l,
	}
}

func (s *BatchService) Process(ctx context.Context, action string, ids []uuid.UUID) (Summary, error) {
	summary := Summary{Action: action}

	var apply func(context.Context, uuid.UUID) (models.Redemption, error)
	var verb string
	switch action {
	case ActionApprove:
		apply, verb = s.redemptions.Approve, "approved"
	case ActionDeny:
		apply, verb = s.redemptions.Deny, "denied"
	default:
		return summary, fmt.Errorf("action %q: %w", action, apperrors.ErrInvalidBatchAction)
	}

	if len(ids) == 0 {
		summary.Message = msgNothingPending
		return summary, nil
	}

	// Absent and already resolved ids are skipped silently
	pending, err := s.redemptions.List(ctx, redemption.ListOpts{
		IDs:      ids,
		Statuses: []string{models.RedemptionStatusPending},
	})
	if err != nil {
		return summary, fmt.Errorf("can't list pending redemptions. Err: %w", err)
	}

	if len(pending) == 0 {
		summary.Message = msgNothingPending
		return summary, nil
	}

	// Follow caller order, duplicates collapse
	byID := make(map[uuid.UUID]models.RedemptionDetails, len(pending))
	for _, r := range pending {
		byID[r.ID] = r
	}

	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			continue
		}
		delete(byID, id)

		if err := ctx.Err(); err != nil {
			return summary, err
		}

		_, err := apply(ctx, r.ID)
		if err != nil {
			summary.FailedCount++
			s.logger.Warn("batch item failed",
				"action", action,
				"redemption_id", r.ID,
				"account_id", r.AccountID,
				"kind", apperrors.KindOf(err),
				"error", err,
			)
			continue
		}
		summary.ProcessedCount++
	}

	summary.TotalProcessed = summary.ProcessedCount + summary.FailedCount
	summary.Message = fmt.Sprintf("%s %d redemptions successfully", verb, summary.ProcessedCount)
	if summary.FailedCount > 0 {
		summary.Message += fmt.Sprintf(", %d failed", summary.FailedCount)
	}

	s.logger.Info("batch processed",
		"action", action,
		"processed", summary.ProcessedCount,
		"failed", summary.FailedCount,
	)

	return summary, nil
}
