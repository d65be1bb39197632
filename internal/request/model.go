package request

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Request is a stored textbook-purchase request.
type Request struct {
	ID            string     `json:"id"`
	StudentName   string     `json:"studentName"`
	TeacherName   string     `json:"teacherName"`
	RequestDate   string     `json:"requestDate"`
	BookName      string     `json:"bookName"`
	BookDetail    string     `json:"bookDetail,omitempty"`
	Price         int64      `json:"price"`
	BankName      string     `json:"bankName"`
	AccountNumber string     `json:"accountNumber"`
	AccountHolder string     `json:"accountHolder"`
	IsCompleted   bool       `json:"isCompleted"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	IsPaid        bool       `json:"isPaid"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	IsOrdered     bool       `json:"isOrdered"`
	OrderedAt     *time.Time `json:"orderedAt,omitempty"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// FullyComplete reports whether all three status flags are set.
// It is always derived from the flags, never stored.
func (r Request) FullyComplete() bool {
	return r.IsCompleted && r.IsPaid && r.IsOrdered
}

// StatusCounts is the at-a-glance dashboard summary: how many records
// still have each flag unset, plus the total record count.
type StatusCounts struct {
	NotRegistered int `json:"notRegistered"`
	NotPaid       int `json:"notPaid"`
	NotOrdered    int `json:"notOrdered"`
	Total         int `json:"total"`
}

// NewID builds the human-readable composite document ID:
// teacher_student_book_millis. Uniqueness relies on the millisecond
// timestamp; the store rejects collisions on insert.
func NewID(teacherName, studentName, bookName string, now time.Time) string {
	parts := []string{
		sanitizeIDPart(teacherName),
		sanitizeIDPart(studentName),
		sanitizeIDPart(bookName),
		strconv.FormatInt(now.UnixMilli(), 10),
	}
	return strings.Join(parts, "_")
}

// sanitizeIDPart strips characters that are unsafe in document paths
// and file names, and collapses whitespace runs to a single dash.
func sanitizeIDPart(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsSpace(r):
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		case strings.ContainsRune(`/\#?%[]_`, r):
			// dropped
		default:
			b.WriteRune(r)
			lastDash = false
		}
	}
	return b.String()
}
