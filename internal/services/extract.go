package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ExtractionError marks an unreadable, corrupt or unsupported upload.
// Nothing is persisted when extraction fails.
type ExtractionError struct {
	Format string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("cannot extract text from %s file: %s", e.Format, e.Reason)
}

type ExtractService struct{}

func NewExtractService() *ExtractService {
	return &ExtractService{}
}

// ExtractBytes returns the plain text of an uploaded file. The format tag is
// the filename extension ("pdf", "docx"); anything else is decoded as UTF-8
// text. An empty extraction result is an error, not an empty document.
func (s *ExtractService) ExtractBytes(data []byte, format string) (string, error) {
	format = strings.TrimPrefix(strings.ToLower(format), ".")

	var (
		text string
		err  error
	)
	switch format {
	case "pdf":
		text, err = extractPDF(data)
	case "docx":
		text, err = extractDOCX(data)
	default:
		text, err = extractPlain(data)
		format = "txt"
	}
	if err != nil {
		return "", &ExtractionError{Format: format, Reason: err.Error()}
	}

	text = normalizeText(text)
	if text == "" {
		return "", &ExtractionError{Format: format, Reason: "no extractable text found"}
	}
	return text, nil
}

func extractPlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	return string(data), nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages; an entirely empty result errors below.
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()

		documentXML, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}
		return stripDocumentXML(documentXML), nil
	}
	return "", fmt.Errorf("word/document.xml not found")
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

var xmlEntityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

func stripDocumentXML(src []byte) string {
	s := string(src)

	// Paragraphs, line breaks and tabs become whitespace before the
	// remaining markup is dropped.
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	s = xmlTagPattern.ReplaceAllString(s, "")
	return xmlEntityReplacer.Replace(s)
}

// normalizeText collapses line endings and runs of blank lines, trimming
// each line. Extraction output from PDFs in particular is noisy.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var buf bytes.Buffer
	emptyCount := 0
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}
	return strings.TrimSpace(buf.String())
}
