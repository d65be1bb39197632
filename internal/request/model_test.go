package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	id := NewID("김선생", "김철수", "초5-1 기본", now)
	assert.Equal(t, "김선생_김철수_초5-1-기본_1700000000000", id)

	// unsafe path characters are dropped, whitespace runs collapse
	id = NewID("t", "s", "math / level #2  [new]", now)
	assert.Equal(t, "t_s_math-level-2-new_1700000000000", id)
}

func TestNewIDTimestampDistinguishes(t *testing.T) {
	a := NewID("t", "s", "b", time.UnixMilli(1))
	b := NewID("t", "s", "b", time.UnixMilli(2))
	assert.NotEqual(t, a, b)
}

func TestFullyComplete(t *testing.T) {
	r := Request{}
	assert.False(t, r.FullyComplete())

	r.IsCompleted = true
	r.IsPaid = true
	assert.False(t, r.FullyComplete())

	r.IsOrdered = true
	assert.True(t, r.FullyComplete())
}
