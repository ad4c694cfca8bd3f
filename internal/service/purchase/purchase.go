package purchase

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/mimiplus/internal/apperrors"
	"github.com/nkiryanov/mimiplus/internal/models"
	"github.com/nkiryanov/mimiplus/internal/service/ledger"
)

// Currency units per one point when nothing else is configured
var DefaultPointsPerUnit = decimal.NewFromInt(50)

// Largest amount the ledger stores: NUMERIC(14, 2)
var MaxAmount = decimal.RequireFromString("999999999999.99")

var maxPoints = decimal.NewFromInt(math.MaxInt64)

type Result struct {
	PointsEarned int64
	NewBalance   int64

	// Nil if purchase earned nothing
	Transaction *models.Transaction
}

type PurchaseService struct {
	ledger *ledger.LedgerService
}

func NewService(ledgerService *ledger.LedgerService) *PurchaseService {
	return &PurchaseService{ledger: ledgerService}
}

// Whole points for the amount: floor(amount / pointsPerUnit)
// Non positive input earns nothing, points not fitting int64 are ErrInvalidAmount
func EarnedPoints(amount decimal.Decimal, pointsPerUnit decimal.Decimal) (int64, error) {
	if !amount.IsPositive() || !pointsPerUnit.IsPositive() {
		return 0, nil
	}

	points := amount.Div(pointsPerUnit).Floor()
	if points.GreaterThan(maxPoints) {
		return 0, fmt.Errorf("%s points for %s: %w", points, amount, apperrors.ErrInvalidAmount)
	}
	return points.IntPart(), nil
}

// Amount has to be positive, in cents and fit the ledger
func validateAmount(amount decimal.Decimal) error {
	switch {
	case !amount.IsPositive():
		return fmt.Errorf("purchase amount %s is not positive: %w", amount, apperrors.ErrInvalidAmount)
	case !amount.Truncate(2).Equal(amount):
		return fmt.Errorf("purchase amount %s has fractions of a cent: %w", amount, apperrors.ErrInvalidAmount)
	case amount.GreaterThan(MaxAmount):
		return fmt.Errorf("purchase amount %s is above %s: %w", amount, MaxAmount, apperrors.ErrInvalidAmount)
	}
	return nil
}

// Credit points for the purchase
// Purchase below one unit is accepted but changes nothing
func (s *PurchaseService) Process(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, pointsPerUnit decimal.Decimal) (Result, error) {
	var result Result

	if err := validateAmount(amount); err != nil {
		return result, err
	}
	if !pointsPerUnit.IsPositive() {
		return result, fmt.Errorf("points per unit %s: %w", pointsPerUnit, apperrors.ErrInvalidAmount)
	}

	points, err := EarnedPoints(amount, pointsPerUnit)
	if err != nil {
		return result, err
	}
	if points == 0 {
		balance, err := s.ledger.GetBalance(ctx, accountID)
		if err != nil {
			return result, err
		}
		result.NewBalance = balance.Current
		return result, nil
	}

	account, transaction, err := s.ledger.Credit(ctx, accountID, points, ledger.Entry{
		Kind:        models.TransactionKindPurchase,
		Amount:      amount,
		Description: "Payment: " + amount.StringFixed(2),
	})
	if err != nil {
		return result, fmt.Errorf("can't process purchase. Err: %w", err)
	}

	return Result{
		PointsEarned: points,
		NewBalance:   account.PointsBalance,
		Transaction:  &transaction,
	}, nil
}
