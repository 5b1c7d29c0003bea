// Package extract turns uploaded resume documents into plain text.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Format is a supported document format.
type Format string

const (
	PDF  Format = "pdf"
	DOCX Format = "docx"
)

func (f Format) Supported() bool {
	return f == PDF || f == DOCX
}

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupportedFormat is returned for anything that is not a PDF or DOCX.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// ExtractionError reports a document that has a supported format but could
// not be read.
type ExtractionError struct {
	Document string
	Format   Format
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("text extraction failed for %q (%s): %v", e.Document, e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// FormatFromFilename detects the format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return PDF, nil
	case ".docx":
		return DOCX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromMime detects the format from a stored content type.
func FormatFromMime(mime string) (Format, error) {
	switch mime {
	case MimePDF:
		return PDF, nil
	case MimeDOCX:
		return DOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mime)
	}
}

// Text extracts the plain text of document. Read failures are returned as
// *ExtractionError.
func Text(document string, format Format, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch format {
	case PDF:
		text, err = extractPDFText(data)
	case DOCX:
		text, err = extractDocxText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", &ExtractionError{Document: document, Format: format, Err: err}
	}
	return text, nil
}

func extractPDFText(data []byte) (text string, err error) {
	// the pdf package panics on some malformed object streams
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		textBuilder.WriteString(pageText(page))
	}
	return textBuilder.String(), nil
}

// pageText rebuilds the lines of a page from its positioned glyphs. Text
// placed with Td inside one text object carries no line break, so a new
// baseline starts a new line and a jump to the right on the same baseline
// becomes a space.
func pageText(page pdf.Page) string {
	var b strings.Builder
	var prev pdf.Text
	started := false
	for _, t := range page.Content().Text {
		if t.S == "\n" || t.S == "" {
			continue
		}
		if started {
			if !sameBaseline(prev, t) {
				b.WriteByte('\n')
			} else if t.X-(prev.X+prev.W) > wordGap*math.Max(prev.FontSize, 1) && prev.S != " " && t.S != " " {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		prev = t
		started = true
	}
	if started {
		b.WriteByte('\n')
	}
	return b.String()
}

// wordGap is the horizontal gap, in font sizes, read as a word break.
const wordGap = 0.2

func sameBaseline(a, b pdf.Text) bool {
	tolerance := math.Max(math.Max(a.FontSize, b.FontSize)/2, 1)
	return math.Abs(a.Y-b.Y) < tolerance
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return documentXMLText(doc.Editable().GetContent())
}
