// Package pdftext converts uploaded PDF invoices into plain text so the
// field extractor can work over them.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

type Extractor struct{}

func New() Extractor { return Extractor{} }

// ExtractText pulls the text content of every page, one row per line.
// Only PDF uploads are supported; anything else is rejected up front.
func (Extractor) ExtractText(_ context.Context, filename string, data []byte) (string, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return "", fmt.Errorf("only PDF uploads are supported (got %q); send JSON fields instead", filename)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for _, word := range row.Content {
				sb.WriteString(word.S)
				sb.WriteByte(' ')
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}
