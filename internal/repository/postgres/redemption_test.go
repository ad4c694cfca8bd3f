package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/repository"
	"github.com/nkiryanov/mimiplus/internal/testutil"
)

func mustCreateReward(t *testing.T, storage repository.Storage, name string, points int64) models.Reward {
	t.Helper()

	reward, err := storage.Reward().CreateReward(t.Context(), models.Reward{
		Name:           name,
		Brand:          "Mimi",
		Category:       "drinks",
		PointsRequired: points,
		Active:         true,
	})
	require.NoError(t, err)

	return reward
}

func TestReward(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
		coffee := mustCreateReward(t, storage, "Coffee", 100)
		cake := mustCreateReward(t, storage, "Cake", 300)

		_, err := storage.Reward().SetRewardActive(t.Context(), cake.ID, false)
		require.NoError(t, err)

		t.Run("get inactive reward", func(t *testing.T) {
			reward, err := storage.Reward().GetReward(t.Context(), cake.ID)

			require.NoError(t, err)
			require.False(t, reward.Active)
			require.EqualValues(t, 300, reward.PointsRequired)
		})

		t.Run("get unknown reward", func(t *testing.T) {
			_, err := storage.Reward().GetReward(t.Context(), uuid.New())

			require.ErrorIs(t, err, apperrors.ErrRewardNotFound)
		})

		t.Run("list active only", func(t *testing.T) {
			rewards, err := storage.Reward().ListRewards(t.Context(), repository.ListRewardsOpts{})

			require.NoError(t, err)
			require.Len(t, rewards, 1)
			require.Equal(t, coffee.ID, rewards[0].ID)
		})

		t.Run("list by category", func(t *testing.T) {
			rewards, err := storage.Reward().ListRewards(t.Context(), repository.ListRewardsOpts{Category: "food", IncludeInactive: true})
			require.NoError(t, err)
			require.Empty(t, rewards)

			rewards, err = storage.Reward().ListRewards(t.Context(), repository.ListRewardsOpts{Category: "drinks", IncludeInactive: true})
			require.NoError(t, err)
			require.Len(t, rewards, 2)
		})

		t.Run("set active on unknown reward", func(t *testing.T) {
			_, err := storage.Reward().SetRewardActive(t.Context(), uuid.New(), true)

			require.ErrorIs(t, err, apperrors.ErrRewardNotFound)
		})
	})
}

func TestRedemption(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("CreateRedemption", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			account := mustCreateAccount(t, storage, "ann")
			reward := mustCreateReward(t, storage, "Coffee", 100)

			t.Run("create ok", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					redemption, err := storage.Redemption().CreateRedemption(t.Context(), models.Redemption{
						AccountID:  account.ID,
						RewardID:   reward.ID,
						PointsUsed: reward.PointsRequired,
					})

					require.NoError(t, err)
					require.NotZero(t, redemption.ID)
					require.True(t, redemption.IsPending())
					require.Nil(t, redemption.ResolvedAt)
					require.EqualValues(t, 100, redemption.PointsUsed)
				})
			})

			t.Run("unknown account", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Redemption().CreateRedemption(t.Context(), models.Redemption{
						AccountID:  uuid.New(),
						RewardID:   reward.ID,
						PointsUsed: 100,
					})

					require.ErrorIs(t, err, apperrors.ErrAccountNotFound)
				})
			})

			t.Run("unknown reward", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Redemption().CreateRedemption(t.Context(), models.Redemption{
						AccountID:  account.ID,
						RewardID:   uuid.New(),
						PointsUsed: 100,
					})

					require.ErrorIs(t, err, apperrors.ErrRewardNotFound)
				})
			})
		})
	})

	t.Run("Resolve", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			account := mustCreateAccount(t, storage, "bob")
			reward := mustCreateReward(t, storage, "Coffee", 100)
			resolvedAt := testutil.MustParseTime(t, "2025-05-01T10:00:00Z")

			pending, err := storage.Redemption().CreateRedemption(t.Context(), models.Redemption{
				AccountID:  account.ID,
				RewardID:   reward.ID,
				PointsUsed: 100,
			})
			require.NoError(t, err)

			t.Run("resolve pending", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					locked, err := storage.Redemption().GetRedemptionForUpdate(t.Context(), pending.ID)
					require.NoError(t, err)
					require.True(t, locked.IsPending())

					resolved, err := storage.Redemption().Resolve(t.Context(), pending.ID, models.RedemptionStatusDenied, resolvedAt)

					require.NoError(t, err)
					require.Equal(t, models.RedemptionStatusDenied, resolved.Status)
					require.NotNil(t, resolved.ResolvedAt)
					require.WithinDuration(t, resolvedAt, *resolved.ResolvedAt, time.Second)
				})
			})

			t.Run("resolve twice", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Redemption().Resolve(t.Context(), pending.ID, models.RedemptionStatusCompleted, resolvedAt)
					require.NoError(t, err)

					_, err = storage.Redemption().Resolve(t.Context(), pending.ID, models.RedemptionStatusDenied, resolvedAt)

					require.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)

					stored, err := storage.Redemption().GetRedemptionForUpdate(t.Context(), pending.ID)
					require.NoError(t, err)
					require.Equal(t, models.RedemptionStatusCompleted, stored.Status, "first resolution wins")
				})
			})

			t.Run("unknown redemption", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Redemption().Resolve(t.Context(), uuid.New(), models.RedemptionStatusDenied, resolvedAt)
					require.ErrorIs(t, err, apperrors.ErrRedemptionNotFound)

					_, err = storage.Redemption().GetRedemptionForUpdate(t.Context(), uuid.New())
					require.ErrorIs(t, err, apperrors.ErrRedemptionNotFound)
				})
			})
		})
	})

	t.Run("ListRedemptions", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			ann := mustCreateAccount(t, storage, "ann")
			bob := mustCreateAccount(t, storage, "bob")
			reward := mustCreateReward(t, storage, "Coffee", 100)

			create := func(accountID uuid.UUID, requestedAt string) models.Redemption {
				r, err := storage.Redemption().CreateRedemption(t.Context(), models.Redemption{
					AccountID:   accountID,
					RewardID:    reward.ID,
					PointsUsed:  100,
					RequestedAt: testutil.MustParseTime(t, requestedAt),
				})
				require.NoError(t, err)
				return r
			}

			annOld := create(ann.ID, "2025-05-01T10:00:00Z")
			annNew := create(ann.ID, "2025-05-02T10:00:00Z")
			bobs := create(bob.ID, "2025-05-03T10:00:00Z")

			_, err := storage.Redemption().Resolve(t.Context(), annOld.ID, models.RedemptionStatusCompleted, time.Now())
			require.NoError(t, err)

			t.Run("all newest first", func(t *testing.T) {
				list, err := storage.Redemption().ListRedemptions(t.Context(), repository.ListRedemptionsOpts{})

				require.NoError(t, err)
				require.Len(t, list, 3)
				require.Equal(t, bobs.ID, list[0].ID)
				require.Equal(t, annNew.ID, list[1].ID)
				require.Equal(t, annOld.ID, list[2].ID)
				require.Equal(t, "bob", list[0].AccountName)
				require.Equal(t, "Coffee", list[0].RewardName)
				require.Equal(t, "Mimi", list[0].RewardBrand)
			})

			t.Run("by account", func(t *testing.T) {
				list, err := storage.Redemption().ListRedemptions(t.Context(), repository.ListRedemptionsOpts{AccountID: &ann.ID})

				require.NoError(t, err)
				require.Len(t, list, 2)
			})

			t.Run("pending by ids", func(t *testing.T) {
				list, err := storage.Redemption().ListRedemptions(t.Context(), repository.ListRedemptionsOpts{
					IDs:      []uuid.UUID{annOld.ID, annNew.ID, uuid.New()},
					Statuses: []string{models.RedemptionStatusPending},
				})

				require.NoError(t, err)
				require.Len(t, list, 1)
				require.Equal(t, annNew.ID, list[0].ID)
			})
		})
	})
}
