// Package makeedu bridges the school-management site into the textbook
// system: a scraper for its roster markup and a client for the sync API.
package makeedu

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Row is one student line extracted from the roster page.
type Row struct {
	StudentName string
	BookName    string
	IsPaid      bool
}

// ExtractRows parses roster HTML and returns one row per student link.
// The page marks student links as <a class="dl_pop st_..."> with the
// full name in the title attribute; the course/book link and the
// payment checkbox live in the same table row. Rows without a student
// name are skipped.
func ExtractRows(r io.Reader) ([]Row, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var rows []Row
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" && isStudentLink(n) {
			tr := closest(n, "tr")
			if tr != nil {
				if row, ok := extractRow(n, tr); ok {
					rows = append(rows, row)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return rows, nil
}

func extractRow(link, tr *html.Node) (Row, bool) {
	name := attr(link, "title")
	if name == "" {
		name = strings.TrimSpace(text(link))
	}
	if name == "" {
		return Row{}, false
	}

	row := Row{StudentName: name}
	if book := find(tr, func(n *html.Node) bool {
		return n.Data == "a" && hasClass(n, "btnPayName")
	}); book != nil {
		row.BookName = strings.TrimSpace(text(book))
	}
	if box := find(tr, func(n *html.Node) bool {
		return n.Data == "input" && hasClass(n, "checkPayYn") && hasClass(n, "changeCheck")
	}); box != nil {
		_, row.IsPaid = lookupAttr(box, "checked")
	}
	return row, true
}

// isStudentLink matches a.dl_pop with any st_* class (both the plain
// and the red variant the page uses for overdue students).
func isStudentLink(n *html.Node) bool {
	if !hasClass(n, "dl_pop") {
		return false
	}
	for _, c := range classes(n) {
		if strings.HasPrefix(c, "st_") {
			return true
		}
	}
	return false
}

func classes(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func closest(n *html.Node, tag string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tag {
			return p
		}
	}
	return nil
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
