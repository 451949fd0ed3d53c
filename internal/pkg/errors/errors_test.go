package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"unauthenticated", fmt.Errorf("verify: %w", ErrUnauthenticated), KindUnauthenticated},
		{"not found", NotFound("lesson", "abc"), KindNotFound},
		{"invalid", Invalid("status", "must be one of %v", []string{"a"}), KindInvalidArgument},
		{"inconsistent", fmt.Errorf("nav: %w", ErrInconsistent), KindInconsistent},
		{"unavailable", fmt.Errorf("catalog: %w", ErrUnavailable), KindUnavailable},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), KindUnavailable},
		{"other", errors.New("boom"), KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestInvalidMessageNamesField(t *testing.T) {
	err := Invalid("progressPercentage", "must be between 0 and 100")
	assert.EqualError(t, err, "invalid argument: progressPercentage must be between 0 and 100")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}
