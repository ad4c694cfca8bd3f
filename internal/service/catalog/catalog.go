package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/repository"
)

type CreateRewardParams struct {
	Name           string
	Brand          string
	Category       string
	Description    string
	PointsRequired int64
}

type ListOpts = repository.ListRewardsOpts

type CatalogService struct {
	rewardRepo repository.RewardRepo
}

func NewService(rewardRepo repository.RewardRepo) *CatalogService {
	return &CatalogService{rewardRepo: rewardRepo}
}

// New rewards are active
func (s *CatalogService) Create(ctx context.Context, params CreateRewardParams) (models.Reward, error) {
	if params.PointsRequired <= 0 {
		return models.Reward{}, fmt.Errorf("reward price %d: %w", params.PointsRequired, apperrors.ErrInvalidAmount)
	}

	reward, err := s.rewardRepo.CreateReward(ctx, models.Reward{
		Name:           strings.TrimSpace(params.Name),
		Brand:          strings.TrimSpace(params.Brand),
		Category:       strings.TrimSpace(params.Category),
		Description:    params.Description,
		PointsRequired: params.PointsRequired,
		Active:         true,
	})
	if err != nil {
		return reward, fmt.Errorf("can't create reward. Err: %w", err)
	}

	return reward, nil
}

func (s *CatalogService) Get(ctx context.Context, rewardID uuid.UUID) (models.Reward, error) {
	return s.rewardRepo.GetReward(ctx, rewardID)
}

func (s *CatalogService) List(ctx context.Context, opts ListOpts) ([]models.Reward, error) {
	return s.rewardRepo.ListRewards(ctx, opts)
}

// Inactive reward can't be requested, but existing redemptions keep it
func (s *CatalogService) Deactivate(ctx context.Context, rewardID uuid.UUID) (models.Reward, error) {
	return s.rewardRepo.SetRewardActive(ctx, rewardID, false)
}

func (s *CatalogService) Reactivate(ctx context.Context, rewardID uuid.UUID) (models.Reward, error) {
	return s.rewardRepo.SetRewardActive(ctx, rewardID, true)
}
