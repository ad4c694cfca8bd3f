package apperrors

import (
	"errors"
)

var (
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrAccountNotFound      = errors.New("account not found")

	ErrRewardNotFound = errors.New("reward not found")

	ErrRedemptionNotFound     = errors.New("redemption not found")
	ErrInvalidStateTransition = errors.New("redemption is not pending")
	ErrInvalidBatchAction     = errors.New("batch action is invalid")

	ErrBalanceInsufficient = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount is invalid")

	ErrUnauthorized = errors.New("identity is not valid")
	ErrForbidden    = errors.New("role is not allowed")
)

// Kind is a stable machine readable name of an error
type Kind string

const (
	KindAccountAlreadyExists   Kind = "account_already_exists"
	KindAccountNotFound        Kind = "account_not_found"
	KindRewardNotFound         Kind = "reward_not_found"
	KindRedemptionNotFound     Kind = "redemption_not_found"
	KindInvalidStateTransition Kind = "invalid_state_transition"
	KindInvalidBatchAction     Kind = "invalid_batch_action"
	KindInsufficientBalance    Kind = "insufficient_balance"
	KindInvalidAmount          Kind = "invalid_amount"
	KindUnauthorized           Kind = "unauthorized"
	KindForbidden              Kind = "forbidden"
	KindInternal               Kind = "internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrAccountAlreadyExists, KindAccountAlreadyExists},
	{ErrAccountNotFound, KindAccountNotFound},
	{ErrRewardNotFound, KindRewardNotFound},
	{ErrRedemptionNotFound, KindRedemptionNotFound},
	{ErrInvalidStateTransition, KindInvalidStateTransition},
	{ErrInvalidBatchAction, KindInvalidBatchAction},
	{ErrBalanceInsufficient, KindInsufficientBalance},
	{ErrInvalidAmount, KindInvalidAmount},
	{ErrUnauthorized, KindUnauthorized},
	{ErrForbidden, KindForbidden},
}

// KindOf returns the kind of the first well known error found in err chain
// Unknown errors are reported as KindInternal
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
