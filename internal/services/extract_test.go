package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("Failed to create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatalf("Failed to write zip entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractPlainText(t *testing.T) {
	svc := NewExtractService()

	text, err := svc.ExtractBytes([]byte("Hello world.\r\nSecond line.\r\n\r\n\r\nThird."), "txt")
	if err != nil {
		t.Fatalf("ExtractBytes failed: %v", err)
	}
	if strings.Contains(text, "\r") {
		t.Error("Carriage returns not normalized")
	}
	if strings.Contains(text, "\n\n\n") {
		t.Error("Blank-line runs not collapsed")
	}
	if !strings.Contains(text, "Hello world.") {
		t.Errorf("Content lost: %q", text)
	}
}

func TestExtractUnknownFormatFallsBackToPlain(t *testing.T) {
	svc := NewExtractService()

	text, err := svc.ExtractBytes([]byte("markdown *content*"), "md")
	if err != nil {
		t.Fatalf("ExtractBytes failed: %v", err)
	}
	if text != "markdown *content*" {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestExtractFailures(t *testing.T) {
	svc := NewExtractService()

	tests := []struct {
		name   string
		data   []byte
		format string
	}{
		{"empty text file", []byte("   \n  \n"), "txt"},
		{"binary garbage as text", []byte{0xff, 0xfe, 0x00, 0x80}, "txt"},
		{"corrupt pdf", []byte("not a pdf at all"), "pdf"},
		{"corrupt docx", []byte("not a zip"), "docx"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ExtractBytes(tc.data, tc.format)
			if err == nil {
				t.Fatal("Expected extraction error, got nil")
			}
			var extractionErr *ExtractionError
			if !errors.As(err, &extractionErr) {
				t.Errorf("Expected *ExtractionError, got %T", err)
			}
		})
	}
}

func TestExtractDOCX(t *testing.T) {
	svc := NewExtractService()

	xml := `<?xml version="1.0"?><w:document><w:body>` +
		`<w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Second &amp; third.</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text, err := svc.ExtractBytes(buildDOCX(t, xml), "docx")
	if err != nil {
		t.Fatalf("ExtractBytes failed: %v", err)
	}
	if !strings.Contains(text, "First paragraph.") {
		t.Errorf("Missing first paragraph: %q", text)
	}
	if !strings.Contains(text, "Second & third.") {
		t.Errorf("XML entities not decoded: %q", text)
	}
	lines := strings.Split(text, "\n")
	if len(lines) != 2 {
		t.Errorf("Expected 2 lines, got %d: %q", len(lines), text)
	}
}

func TestExtractDOCXWithoutDocumentXML(t *testing.T) {
	svc := NewExtractService()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, _ := w.Create("unrelated.txt")
	f.Write([]byte("nothing"))
	w.Close()

	_, err := svc.ExtractBytes(buf.Bytes(), "docx")
	if err == nil {
		t.Fatal("Expected error for docx without document.xml")
	}
}

func TestExtractFormatNormalization(t *testing.T) {
	svc := NewExtractService()

	// Leading dot and upper case are tolerated.
	if _, err := svc.ExtractBytes([]byte("plain"), ".TXT"); err != nil {
		t.Errorf("ExtractBytes with .TXT failed: %v", err)
	}
}
