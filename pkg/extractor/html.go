package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FlattenHTML reduces an HTML price sheet to plain text: one line per table
// row with cells separated by " | ". Pages without tables yield their body text.
func FlattenHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedDocument, err)
	}
	doc.Find("script, style").Remove()

	var lines []string
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td").Map(func(_ int, cell *goquery.Selection) string {
			return strings.Join(strings.Fields(cell.Text()), " ")
		})
		if line := strings.Join(cells, " | "); strings.TrimSpace(strings.ReplaceAll(line, "|", "")) != "" {
			lines = append(lines, line)
		}
	})
	if len(lines) == 0 {
		text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
		if text == "" {
			return "", ErrUnsupportedDocument
		}
		return text, nil
	}
	return strings.Join(lines, "\n"), nil
}
