package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"plain", ErrAccountNotFound, KindAccountNotFound},
		{"wrapped", fmt.Errorf("ledger error: %w", ErrBalanceInsufficient), KindInsufficientBalance},
		{"double wrapped", fmt.Errorf("a: %w", fmt.Errorf("b: %w", ErrInvalidStateTransition)), KindInvalidStateTransition},
		{"unknown", errors.New("connection reset"), KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}
