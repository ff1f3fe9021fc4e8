package rx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemandMax(t *testing.T) {
	assert.Equal(t, None, Max(0))
	assert.Equal(t, None, Max(-3))
	assert.Equal(t, Demand(3), Max(3))
}

func TestDemandAdd(t *testing.T) {
	assert.Equal(t, Demand(5), Max(2).Add(Max(3)))
	assert.Equal(t, Unlimited, Unlimited.Add(Max(1)))
	assert.Equal(t, Unlimited, Max(1).Add(Unlimited))
	assert.Equal(t, Unlimited, (Unlimited - 1).Add(Max(5)))
	assert.True(t, Unlimited.IsUnlimited())
	assert.False(t, Max(10).IsUnlimited())
}

func TestDemandSub(t *testing.T) {
	assert.Equal(t, Demand(1), Max(3).Sub(Max(2)))
	assert.Equal(t, None, Max(2).Sub(Max(5)))
	assert.Equal(t, Unlimited, Unlimited.Sub(Max(1)))
}

func TestCompletionString(t *testing.T) {
	assert.Equal(t, "finished", Finished[error]().String())
	assert.Equal(t, "failure(boom)", Failure(errors.New("boom")).String())
	assert.Equal(t, "failure", Failure[Never](nil).String())
}

func TestCompletionErr(t *testing.T) {
	c := Failure(errBoom)
	assert.False(t, c.IsFinished())
	assert.ErrorIs(t, c.Err(), errBoom)
	assert.True(t, Finished[error]().IsFinished())
	assert.NoError(t, Finished[error]().Err())
}

func TestNeverFailureFinishes(t *testing.T) {
	assert.True(t, Failure[Never](nil).IsFinished())
	assert.Equal(t, "finished", Failure[Never](nil).String())

	p := newProbe[int, Never](Unlimited, None)
	Fail[int, Never](nil).Subscribe(p)
	require.Len(t, p.Completions(), 1)
	assert.True(t, p.Completions()[0].IsFinished())
	assert.Empty(t, p.Values())
}
