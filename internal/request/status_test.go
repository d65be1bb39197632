package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkPairsTimestampWithBoolean(t *testing.T) {
	now := time.Now().UTC()

	set := Mark(true, now)
	assert.True(t, set.Set)
	require.NotNil(t, set.At)
	assert.Equal(t, now, *set.At)

	cleared := Mark(false, now)
	assert.False(t, cleared.Set)
	assert.Nil(t, cleared.At)
}

func TestApplyKeepsInvariantPerFlag(t *testing.T) {
	now := time.Now().UTC()
	r := Request{}

	for _, flag := range []Flag{FlagRegistered, FlagPaid, FlagOrdered} {
		r.Apply(flag, Mark(true, now))
	}
	require.NotNil(t, r.CompletedAt)
	require.NotNil(t, r.PaidAt)
	require.NotNil(t, r.OrderedAt)
	assert.True(t, r.FullyComplete())

	// unchecking one flag clears only its own timestamp
	r.Apply(FlagPaid, Mark(false, now))
	assert.False(t, r.IsPaid)
	assert.Nil(t, r.PaidAt)
	assert.True(t, r.IsCompleted)
	assert.NotNil(t, r.CompletedAt)
	assert.False(t, r.FullyComplete())
}

func TestUpdateIsZero(t *testing.T) {
	assert.True(t, Update{}.IsZero())

	name := "x"
	assert.False(t, Update{StudentName: &name}.IsZero())

	fu := Mark(true, time.Now())
	assert.False(t, Update{Paid: &fu}.IsZero())
}
