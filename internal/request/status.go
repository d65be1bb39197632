package request

import "time"

// Flag identifies one of the three independent status flags.
type Flag string

const (
	FlagRegistered Flag = "registered" // stored as isCompleted/completedAt
	FlagPaid       Flag = "paid"
	FlagOrdered    Flag = "ordered"
)

// FlagUpdate is a boolean/timestamp pair produced by a status transition.
// At is non-nil exactly when Set is true, so applying a FlagUpdate can
// never break the timestamp-pairing invariant.
type FlagUpdate struct {
	Set bool
	At  *time.Time
}

// Mark is the pure transition function for a single flag: moving to set
// stamps now into the paired timestamp, moving to pending clears it.
func Mark(set bool, now time.Time) FlagUpdate {
	if set {
		return FlagUpdate{Set: true, At: &now}
	}
	return FlagUpdate{}
}

// Apply writes the transition for flag into r.
func (r *Request) Apply(flag Flag, u FlagUpdate) {
	switch flag {
	case FlagRegistered:
		r.IsCompleted, r.CompletedAt = u.Set, u.At
	case FlagPaid:
		r.IsPaid, r.PaidAt = u.Set, u.At
	case FlagOrdered:
		r.IsOrdered, r.OrderedAt = u.Set, u.At
	}
}

// Update describes a partial merge into a stored request. Nil fields are
// left untouched. Status flags always travel as FlagUpdate pairs.
type Update struct {
	StudentName   *string
	TeacherName   *string
	RequestDate   *string
	BookName      *string
	BookDetail    *string
	Price         *int64
	BankName      *string
	AccountNumber *string
	AccountHolder *string
	ImageURL      *string

	Registered *FlagUpdate
	Paid       *FlagUpdate
	Ordered    *FlagUpdate
}

// IsZero reports whether the update would change nothing.
func (u Update) IsZero() bool {
	return u.StudentName == nil && u.TeacherName == nil && u.RequestDate == nil &&
		u.BookName == nil && u.BookDetail == nil && u.Price == nil &&
		u.BankName == nil && u.AccountNumber == nil && u.AccountHolder == nil &&
		u.ImageURL == nil && u.Registered == nil && u.Paid == nil && u.Ordered == nil
}
