package reconcile

import (
	"strings"
	"time"
	"unicode"

	"textbook/internal/request"
)

// Input is one scraped row from the school-management site.
type Input struct {
	StudentName string `json:"studentName" binding:"required"`
	BookName    string `json:"bookName"`
	IsPaid      bool   `json:"isPaid"`
}

// Candidate identifies one matching record, enough for an operator to
// disambiguate manually.
type Candidate struct {
	ID          string    `json:"id"`
	StudentName string    `json:"studentName"`
	BookName    string    `json:"bookName"`
	TeacherName string    `json:"teacherName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Outcome classifies a match attempt. NotFound and Ambiguous are
// first-class results, not errors.
type Outcome string

const (
	OutcomeMatched   Outcome = "matched"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeAmbiguous Outcome = "ambiguous"
)

// MatchResult is the matcher's verdict. Candidates carries the single
// match on OutcomeMatched and the full list on OutcomeAmbiguous.
type MatchResult struct {
	Outcome    Outcome
	Candidates []Candidate
}

// Normalize strips all Unicode whitespace and lower-cases, so that
// "김 철수" and "김철수" compare equal and Latin text matches
// case-insensitively. Korean has no case folding but still needs the
// whitespace treatment applied consistently on both sides.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Match finds the records corresponding to one scraped row. The two
// systems share no identifier, so matching is exact on the normalized
// student name and deliberately loose on the book name: either side's
// normalized title may contain the other, which covers both an
// abbreviated stored title and an expanded external one.
func Match(records []request.Request, in Input) MatchResult {
	student := Normalize(in.StudentName)
	book := Normalize(in.BookName)

	var candidates []Candidate
	for _, r := range records {
		if r.StudentName == "" || Normalize(r.StudentName) != student {
			continue
		}
		if book == "" || r.BookName == "" {
			continue
		}
		stored := Normalize(r.BookName)
		if !strings.Contains(stored, book) && !strings.Contains(book, stored) {
			continue
		}
		candidates = append(candidates, Candidate{
			ID:          r.ID,
			StudentName: r.StudentName,
			BookName:    r.BookName,
			TeacherName: r.TeacherName,
			CreatedAt:   r.CreatedAt,
		})
	}

	switch len(candidates) {
	case 0:
		return MatchResult{Outcome: OutcomeNotFound}
	case 1:
		return MatchResult{Outcome: OutcomeMatched, Candidates: candidates}
	default:
		return MatchResult{Outcome: OutcomeAmbiguous, Candidates: candidates}
	}
}
