// Package receipt turns one stored request into a shareable PNG image,
// the raster equivalent of the receipt-style preview card.
package receipt

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"textbook/internal/request"
)

const (
	cardWidth  = 420
	lineHeight = 22
	marginX    = 24
	marginY    = 32
)

// FileName names the exported image {requestDate}_{studentName}_{bookName}.png
// with filesystem-unsafe characters stripped.
func FileName(r request.Request) string {
	return fmt.Sprintf("%s_%s_%s.png",
		sanitize(r.RequestDate), sanitize(r.StudentName), sanitize(r.BookName))
}

// Render draws a simple text card for the request and encodes it as PNG.
// Face7x13 only carries Latin glyphs; non-Latin text renders as the
// face's fallback box but keeps its cell width, so layout stays stable.
func Render(r request.Request) ([]byte, error) {
	lines := []string{
		"TEXTBOOK PURCHASE REQUEST",
		"",
		"Date:    " + r.RequestDate,
		"Student: " + r.StudentName,
		"Teacher: " + r.TeacherName,
		"Book:    " + r.BookName,
	}
	if r.BookDetail != "" {
		lines = append(lines, "Detail:  "+r.BookDetail)
	}
	lines = append(lines,
		fmt.Sprintf("Price:   %d", r.Price),
		"",
		"Bank:    "+r.BankName,
		"Account: "+r.AccountNumber,
		"Holder:  "+r.AccountHolder,
	)

	height := marginY*2 + lineHeight*len(lines)
	img := image.NewRGBA(image.Rect(0, 0, cardWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		d.Dot = fixed.P(marginX, marginY+i*lineHeight)
		d.DrawString(line)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("receipt: encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('-')
		case strings.ContainsRune(`/\:*?"<>|`, r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
