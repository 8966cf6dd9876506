package assert_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gompdf/gomlayout/internal/assert"
)

func TestInvariantHolds(t *testing.T) {
	require.NotPanics(t, func() { assert.Invariant(true, "never %d", 1) })
}

func TestInvariantViolated(t *testing.T) {
	defer func() {
		r := recover()
		v, ok := r.(assert.Violation)
		require.True(t, ok, "expected assert.Violation, got %T", r)
		require.Equal(t, "missing match for <div>", v.Message)
		require.Equal(t, "invariant violation: missing match for <div>", v.Error())
	}()
	assert.Invariant(false, "missing match for <%s>", "div")
}
