package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NormalizeText turns a workbook text cell into plain text. Cells exported from rich
// text carry HTML markup; tags are stripped with <br> and block elements kept as line
// breaks. Whitespace is collapsed within each line and blank lines are dropped.
func NormalizeText(s string) string {
	if strings.ContainsRune(s, '<') {
		if plain, ok := stripMarkup(s); ok {
			s = plain
		}
	}

	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func stripMarkup(s string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", false
	}
	if doc.Find("body *").Length() == 0 {
		// "<" used as a comparison, not markup
		return s, true
	}

	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, tr, h1, h2, h3, h4").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})
	return doc.Find("body").Text(), true
}
