package redemption

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/logger"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/repository"
	"github.com/nkiryanov/mimiplus/internal/service/ledger"
)

type ListOpts struct {
	AccountID *uuid.UUID
	IDs       []uuid.UUID
	Statuses  []string
}

// Redemption lifecycle: pending -> completed | denied
// Points are debited at approval time only
type RedemptionService struct {
	storage repository.Storage
	ledger  *ledger.LedgerService
	logger  logger.Logger

	// Clock, replaced in tests
	now func() time.Time
}

func NewService(storage repository.Storage, ledgerService *ledger.LedgerService, l logger.Logger) *RedemptionService {
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &RedemptionService{
		storage: storage,
		ledger:  ledgerService,
		logger:  l,
		now:     time.Now,
	}
}

// Create pending redemption of an active reward
// Balance is not checked here, staff may approve later when customer has enough points
func (s *RedemptionService) Request(ctx context.Context, accountID uuid.UUID, rewardID uuid.UUID) (models.Redemption, error) {
	var redemption models.Redemption

	reward, err := s.storage.Reward().GetReward(ctx, rewardID)
	if err != nil {
		return redemption, err
	}
	if !reward.Active {
		return redemption, fmt.Errorf("reward %s is inactive: %w", rewardID, apperrors.ErrRewardNotFound)
	}

	redemption, err = s.storage.Redemption().CreateRedemption(ctx, models.Redemption{
		AccountID:   accountID,
		RewardID:    reward.ID,
		PointsUsed:  reward.PointsRequired,
		Status:      models.RedemptionStatusPending,
		RequestedAt: s.now(),
	})
	if err != nil {
		return redemption, fmt.Errorf("can't request redemption. Err: %w", err)
	}

	s.logger.Debug("redemption requested", "redemption_id", redemption.ID, "account_id", accountID, "points", redemption.PointsUsed)

	return redemption, nil
}

// Debit points and complete redemption in one transaction
// If balance is not enough nothing changes and redemption stays pending
func (s *RedemptionService) Approve(ctx context.Context, redemptionID uuid.UUID) (models.Redemption, error) {
	var redemption models.Redemption

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		locked, err := storage.Redemption().GetRedemptionForUpdate(ctx, redemptionID)
		if err != nil {
			return err
		}
		if !locked.IsPending() {
			return fmt.Errorf("redemption %s is %s: %w", redemptionID, locked.Status, apperrors.ErrInvalidStateTransition)
		}

		reward, err := storage.Reward().GetReward(ctx, locked.RewardID)
		if err != nil {
			return err
		}

		_, _, err = s.ledger.WithStorage(storage).Debit(ctx, locked.AccountID, locked.PointsUsed, ledger.Entry{
			Kind:        models.TransactionKindRedemption,
			Description: reward.Title(),
		})
		if err != nil {
			return err
		}

		redemption, err = storage.Redemption().Resolve(ctx, redemptionID, models.RedemptionStatusCompleted, s.now())
		return err
	})
	if err != nil {
		return redemption, fmt.Errorf("can't approve redemption. Err: %w", err)
	}

	s.logger.Debug("redemption approved", "redemption_id", redemptionID, "account_id", redemption.AccountID, "points", redemption.PointsUsed)

	return redemption, nil
}

// Reject pending redemption, balance is untouched
func (s *RedemptionService) Deny(ctx context.Context, redemptionID uuid.UUID) (models.Redemption, error) {
	redemption, err := s.storage.Redemption().Resolve(ctx, redemptionID, models.RedemptionStatusDenied, s.now())
	if err != nil {
		return redemption, fmt.Errorf("can't deny redemption. Err: %w", err)
	}

	s.logger.Debug("redemption denied", "redemption_id", redemptionID, "account_id", redemption.AccountID)

	return redemption, nil
}

// Newest first
func (s *RedemptionService) List(ctx context.Context, opts ListOpts) ([]models.RedemptionDetails, error) {
	return s.storage.Redemption().ListRedemptions(ctx, repository.ListRedemptionsOpts{
		AccountID: opts.AccountID,
		IDs:       opts.IDs,
		Statuses:  opts.Statuses,
	})
}
