package extract

import (
	"context"
	"testing"
)

func TestPDFTextRejectsEmptyInput(t *testing.T) {
	if _, err := PDFText(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestPDFTextRejectsGarbage(t *testing.T) {
	if _, err := PDFText(context.Background(), []byte("this is not a pdf")); err == nil {
		t.Fatal("expected error for non-PDF bytes")
	}
}

func TestPDFTextHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := PDFText(ctx, []byte("%PDF-1.4")); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
