package resume

import (
	"context"
	"strings"

	"rsc.io/pdf"

	"prepai/internal/services"
)

// LocalParser extracts text from a PDF without any service.
type LocalParser struct{}

// NewLocalParser returns a LocalParser.
func NewLocalParser() *LocalParser {
	return &LocalParser{}
}

// Parse returns the text runs of every page joined by spaces, pages separated
// by newlines.
func (p *LocalParser) Parse(ctx context.Context, path string) (text string, err error) {
	defer func() {
		// rsc.io/pdf panics on some malformed documents.
		if r := recover(); r != nil {
			err = services.Wrap(services.ErrDecode, "resume", "parse locally", "malformed pdf", nil)
		}
	}()

	doc, err := pdf.Open(path)
	if err != nil {
		return "", services.Wrap(services.ErrDecode, "resume", "parse locally", "open pdf", err)
	}
	pages := make([]string, 0, doc.NumPage())
	for i := 1; i <= doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		parts := make([]string, 0, len(content.Text))
		for _, run := range content.Text {
			if strings.TrimSpace(run.S) == "" {
				continue
			}
			parts = append(parts, run.S)
		}
		if len(parts) > 0 {
			pages = append(pages, strings.Join(parts, " "))
		}
	}
	return strings.Join(pages, "\n"), nil
}
