package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textbook/internal/request"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, Normalize("김 철수"), Normalize("김철수"))
	assert.Equal(t, "abcdef", Normalize("ABC def"))
	assert.Equal(t, "초5-1기본", Normalize("초5-1 기본"))
	assert.Equal(t, "", Normalize("   "))
}

func rec(id, student, book string) request.Request {
	return request.Request{
		ID:          id,
		StudentName: student,
		BookName:    book,
		TeacherName: "김선생",
		CreatedAt:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMatchBidirectionalSubstring(t *testing.T) {
	records := []request.Request{rec("r1", "김철수", "초5-1 기본")}

	// external title is the expanded form of the stored one
	res := Match(records, Input{StudentName: "김철수", BookName: "초5-1 기본 1권"})
	require.Equal(t, OutcomeMatched, res.Outcome)
	assert.Equal(t, "r1", res.Candidates[0].ID)

	// and the reverse: stored title is the expanded form
	res = Match(records, Input{StudentName: "김 철수", BookName: "초5-1"})
	assert.Equal(t, OutcomeMatched, res.Outcome)
}

func TestMatchRequiresExactStudentName(t *testing.T) {
	records := []request.Request{rec("r1", "김철수", "초5-1 기본")}

	res := Match(records, Input{StudentName: "김철", BookName: "초5-1 기본"})
	assert.Equal(t, OutcomeNotFound, res.Outcome)
	assert.Empty(t, res.Candidates)
}

func TestMatchNotFoundWhenNoBookOverlaps(t *testing.T) {
	records := []request.Request{
		rec("r1", "이영희", "중1 영어 독해"),
		rec("r2", "이 영희", "수학의 정석"),
	}

	res := Match(records, Input{StudentName: "이영희", BookName: "국어 문법 특강"})
	assert.Equal(t, OutcomeNotFound, res.Outcome)
}

func TestMatchAmbiguousReturnsAllCandidates(t *testing.T) {
	records := []request.Request{
		rec("r1", "이영희", "중1 영어"),
		rec("r2", "이 영희", "중1 영어 독해"),
	}

	res := Match(records, Input{StudentName: "이영희", BookName: "중1 영어 독해 완성"})
	require.Equal(t, OutcomeAmbiguous, res.Outcome)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "이영희", res.Candidates[0].StudentName)
	assert.Equal(t, "김선생", res.Candidates[0].TeacherName)
}

func TestMatchSkipsBlankBookNames(t *testing.T) {
	records := []request.Request{rec("r1", "김철수", "")}

	res := Match(records, Input{StudentName: "김철수", BookName: "초5-1 기본"})
	assert.Equal(t, OutcomeNotFound, res.Outcome)

	res = Match([]request.Request{rec("r2", "김철수", "초5-1 기본")},
		Input{StudentName: "김철수", BookName: ""})
	assert.Equal(t, OutcomeNotFound, res.Outcome)
}

func TestMatchLatinCaseInsensitive(t *testing.T) {
	records := []request.Request{rec("r1", "John Kim", "Grammar In Use")}

	res := Match(records, Input{StudentName: "john kim", BookName: "GRAMMAR in use intermediate"})
	assert.Equal(t, OutcomeMatched, res.Outcome)
}
