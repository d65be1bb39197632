package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textbook/internal/request"
)

type fakeRequests struct {
	records []request.Request
	updates map[string]request.Update
}

func newFakeRequests(records ...request.Request) *fakeRequests {
	return &fakeRequests{records: records, updates: make(map[string]request.Update)}
}

func (f *fakeRequests) All(_ context.Context) ([]request.Request, error) {
	return f.records, nil
}

func (f *fakeRequests) Update(_ context.Context, id string, u request.Update) error {
	f.updates[id] = u
	return nil
}

func TestSyncMarksRegisteredAndPaid(t *testing.T) {
	requests := newFakeRequests(rec("r1", "김철수", "초5-1 기본"))
	syncLog := NewMemoryLog()
	rc := NewReconciler(requests, syncLog)

	res, err := rc.Sync(context.Background(), Input{
		StudentName: "김철수", BookName: "초5-1 기본 1권", IsPaid: true,
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeMatched, res.Outcome)
	require.NotNil(t, res.Matched)
	assert.Equal(t, "r1", res.Matched.ID)

	upd, ok := requests.updates["r1"]
	require.True(t, ok)
	require.NotNil(t, upd.Registered)
	assert.True(t, upd.Registered.Set)
	assert.NotNil(t, upd.Registered.At)
	require.NotNil(t, upd.Paid)
	assert.True(t, upd.Paid.Set)
	assert.NotNil(t, upd.Paid.At)
	assert.Nil(t, upd.Ordered)

	entries, err := syncLog.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "김철수", entries[0].StudentName)
	assert.True(t, entries[0].IsCompleted)
	assert.True(t, entries[0].IsPaid)
	assert.WithinDuration(t, time.Now(), entries[0].SyncedAt, 5*time.Second)
}

func TestSyncUnpaidNeverTouchesPaid(t *testing.T) {
	requests := newFakeRequests(rec("r1", "김철수", "초5-1 기본"))
	rc := NewReconciler(requests, NewMemoryLog())

	res, err := rc.Sync(context.Background(), Input{
		StudentName: "김철수", BookName: "초5-1 기본", IsPaid: false,
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeMatched, res.Outcome)

	// set-only semantics: an unchecked external checkbox must not
	// downgrade a previously paid record
	upd := requests.updates["r1"]
	require.NotNil(t, upd.Registered)
	assert.True(t, upd.Registered.Set)
	assert.Nil(t, upd.Paid)
}

func TestSyncNotFoundMutatesNothing(t *testing.T) {
	requests := newFakeRequests(rec("r1", "김철수", "초5-1 기본"))
	syncLog := NewMemoryLog()
	rc := NewReconciler(requests, syncLog)

	res, err := rc.Sync(context.Background(), Input{
		StudentName: "박민수", BookName: "초5-1 기본", IsPaid: true,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, res.Outcome)
	assert.Empty(t, requests.updates)

	entries, _ := syncLog.Recent(context.Background(), 10)
	assert.Empty(t, entries)
}

func TestSyncAmbiguousMutatesNothing(t *testing.T) {
	requests := newFakeRequests(
		rec("r1", "이영희", "중1 영어"),
		rec("r2", "이영희", "중1 영어 독해"),
	)
	rc := NewReconciler(requests, NewMemoryLog())

	res, err := rc.Sync(context.Background(), Input{
		StudentName: "이영희", BookName: "중1 영어 독해 완성", IsPaid: true,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAmbiguous, res.Outcome)
	assert.Len(t, res.Candidates, 2)
	assert.Nil(t, res.Matched)
	assert.Empty(t, requests.updates)
}
