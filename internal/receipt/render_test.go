package receipt

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textbook/internal/request"
)

func TestFileName(t *testing.T) {
	r := request.Request{
		RequestDate: "2026-03-01",
		StudentName: "김철수",
		BookName:    "초5-1 기본",
	}
	assert.Equal(t, "2026-03-01_김철수_초5-1-기본.png", FileName(r))

	r.BookName = `math: level "2"`
	assert.Equal(t, "2026-03-01_김철수_math-level-2.png", FileName(r))
}

func TestRenderProducesDecodablePNG(t *testing.T) {
	r := request.Request{
		RequestDate:   "2026-03-01",
		StudentName:   "김철수",
		TeacherName:   "김선생",
		BookName:      "초5-1 기본",
		BookDetail:    "1단원",
		Price:         15000,
		BankName:      "국민은행",
		AccountNumber: "123-456",
		AccountHolder: "홍길동",
	}

	data, err := Render(r)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, cardWidth, img.Bounds().Dx())
	assert.Greater(t, img.Bounds().Dy(), 0)
}

func TestRenderOmitsEmptyDetail(t *testing.T) {
	with, err := Render(request.Request{StudentName: "s", BookName: "b", BookDetail: "d"})
	require.NoError(t, err)
	without, err := Render(request.Request{StudentName: "s", BookName: "b"})
	require.NoError(t, err)

	// one fewer line means a shorter card
	imgWith, _ := png.Decode(bytes.NewReader(with))
	imgWithout, _ := png.Decode(bytes.NewReader(without))
	assert.Greater(t, imgWith.Bounds().Dy(), imgWithout.Bounds().Dy())
}
