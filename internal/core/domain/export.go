package domain

import (
	"fmt"
	"strings"
)

// ExportFormat is a downloadable rendering of an ebook.
type ExportFormat string

// Supported export formats.
const (
	FormatPDF  ExportFormat = "pdf"
	FormatEPUB ExportFormat = "epub"
	FormatHTML ExportFormat = "html"
	FormatMOBI ExportFormat = "mobi"
	FormatDOCX ExportFormat = "docx"
)

// ExportFormats returns all supported formats.
func ExportFormats() []ExportFormat {
	return []ExportFormat{FormatPDF, FormatEPUB, FormatHTML, FormatMOBI, FormatDOCX}
}

// ParseExportFormat parses a case-insensitive format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: unknown export format %q", ErrInvalidInput, s)
	}
	return f, nil
}

// IsValid returns true if the format is recognised.
func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatPDF, FormatEPUB, FormatHTML, FormatMOBI, FormatDOCX:
		return true
	default:
		return false
	}
}

// Extension returns the file extension for the format.
// The service renders MOBI requests as EPUB, so mobi maps to epub.
func (f ExportFormat) Extension() string {
	switch f {
	case FormatMOBI:
		return string(FormatEPUB)
	default:
		return string(f)
	}
}

// ContentType returns the MIME type of the exported bytes.
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatEPUB, FormatMOBI:
		return "application/epub+zip"
	case FormatHTML:
		return "text/html"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

// ExportedFile is a retrieved export ready to be saved.
type ExportedFile struct {
	EbookID     string
	Format      ExportFormat
	FileName    string
	ContentType string
	Data        []byte
}

// ExportFileName builds the file name for an export of ebookID.
func ExportFileName(ebookID string, f ExportFormat) string {
	return fmt.Sprintf("ebook_%s.%s", ebookID, f.Extension())
}
