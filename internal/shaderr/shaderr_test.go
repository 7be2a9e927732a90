package shaderr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsUnwrapsWrappedError(t *testing.T) {
	base := New(InsufficientCarriers, "need %d, found %d", 5, 3)
	wrapped := fmt.Errorf("distribute failed: %w", base)

	kind, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, InsufficientCarriers, kind)
}

func TestAsFalseForOrdinaryError(t *testing.T) {
	_, ok := As(errors.New("boring"))
	assert.False(t, ok)
}

func TestExitCodesAreDistinct(t *testing.T) {
	kinds := []Kind{
		InvalidArguments, IoFailure, NotABmp, UnsupportedBmp,
		InsufficientCarriers, MalformedShadow, ArithmeticFailure,
	}
	seen := map[int]Kind{}
	for _, k := range kinds {
		code := k.ExitCode()
		if prev, exists := seen[code]; exists {
			t.Fatalf("exit code %d shared by %v and %v", code, prev, k)
		}
		seen[code] = k
	}
}

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(IoFailure, cause, "writing shadow1.bmp")
	assert.ErrorIs(t, err, cause)
}
