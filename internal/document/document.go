package document

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// Format identifies how a document's text was extracted.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// Document holds a loaded proposal document with its extracted text.
type Document struct {
	Path   string
	Hash   string // "sha256:<hex>" of the source bytes
	Format Format
	Text   string
}

// Load reads a document from disk, hashes it and extracts its plain text.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return FromBytes(path, data)
}

// FromBytes extracts text from data, choosing the extractor by the name's extension.
func FromBytes(name string, data []byte) (*Document, error) {
	format := formatFor(name)

	var text string
	var err error
	switch format {
	case FormatHTML:
		text, err = htmlText(data)
	case FormatPDF:
		text, err = pdfText(data)
	default:
		text = string(data)
	}
	if err != nil {
		return nil, fmt.Errorf("extracting %s text from %s: %w", format, name, err)
	}

	return &Document{
		Path:   name,
		Hash:   hash(data),
		Format: format,
		Text:   text,
	}, nil
}

// FromText wraps text that is already in memory, such as standard input.
func FromText(name, text string) *Document {
	return &Document{
		Path:   name,
		Hash:   hash([]byte(text)),
		Format: FormatText,
		Text:   text,
	}
}

func formatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return FormatHTML
	case ".pdf":
		return FormatPDF
	default:
		return FormatText
	}
}

func hash(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}

// htmlText returns the visible text of an HTML document's body.
func htmlText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()
	return strings.TrimSpace(doc.Find("body").Text()), nil
}

// pdfText returns the plain text of every page of a PDF.
func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
