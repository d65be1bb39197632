package reconcile

import (
	"context"
	"log"
	"time"

	"textbook/internal/request"
)

// Requests is the slice of the record store the reconciler needs.
// *request.Service satisfies it.
type Requests interface {
	All(ctx context.Context) ([]request.Request, error)
	Update(ctx context.Context, id string, u request.Update) error
}

// Reconciler ties a payment event observed in the external system to a
// stored request record.
type Reconciler struct {
	requests Requests
	syncLog  Log
}

// NewReconciler creates a reconciler.
func NewReconciler(requests Requests, syncLog Log) *Reconciler {
	return &Reconciler{requests: requests, syncLog: syncLog}
}

// SyncResult is what the caller branches on.
type SyncResult struct {
	Outcome    Outcome     `json:"outcome"`
	Matched    *Candidate  `json:"matched,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// Sync matches the input against the stored records and, on a single
// match, marks the record registered (and paid when the external
// checkbox was checked). Reconciliation only ever sets flags: an
// unchecked external checkbox never downgrades a previously paid
// record. Zero or multiple matches mutate nothing.
func (r *Reconciler) Sync(ctx context.Context, in Input) (SyncResult, error) {
	records, err := r.requests.All(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	res := Match(records, in)
	switch res.Outcome {
	case OutcomeNotFound:
		return SyncResult{Outcome: OutcomeNotFound}, nil
	case OutcomeAmbiguous:
		return SyncResult{Outcome: OutcomeAmbiguous, Candidates: res.Candidates}, nil
	}

	matched := res.Candidates[0]
	now := time.Now().UTC()
	registered := request.Mark(true, now)
	upd := request.Update{Registered: &registered}
	if in.IsPaid {
		paid := request.Mark(true, now)
		upd.Paid = &paid
	}
	if err := r.requests.Update(ctx, matched.ID, upd); err != nil {
		return SyncResult{}, err
	}

	entry := LogEntry{
		StudentName: in.StudentName,
		BookName:    in.BookName,
		IsCompleted: true,
		IsPaid:      in.IsPaid,
		SyncedAt:    now,
	}
	if err := r.syncLog.Append(ctx, entry); err != nil {
		// The history is best-effort; a failed append must not fail the sync.
		log.Printf("sync log append failed: %v", err)
	}

	return SyncResult{Outcome: OutcomeMatched, Matched: &matched}, nil
}

// RecentLog returns the latest sync log entries.
func (r *Reconciler) RecentLog(ctx context.Context, n int) ([]LogEntry, error) {
	return r.syncLog.Recent(ctx, n)
}
