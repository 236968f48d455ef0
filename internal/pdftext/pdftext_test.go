package pdftext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextRejectsNonPDF(t *testing.T) {
	_, err := New().ExtractText(context.Background(), "invoice.png", []byte("png bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only PDF uploads are supported")
}

func TestExtractTextRejectsCorruptPDF(t *testing.T) {
	_, err := New().ExtractText(context.Background(), "invoice.pdf", []byte("definitely not a pdf"))
	assert.Error(t, err)
}
