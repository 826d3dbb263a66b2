// Package export renders transaction reports as downloadable documents.
package export

import (
	"fmt"
	"io"
	"time"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// Format names an export document type.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatCSV   Format = "csv"
	FormatPrint Format = "print"
	FormatXML   Format = "xml"
)

// Formats lists every supported format.
var Formats = []Format{FormatPDF, FormatCSV, FormatPrint, FormatXML}

// ReportTitle heads every rendered report.
const ReportTitle = "Transactions Report"

// Report is what gets rendered: the rows of one window, in order.
type Report struct {
	Title       string
	Period      string
	GeneratedAt time.Time
	Rows        []models.Transaction
}

// Renderer writes a Report in one format.
type Renderer interface {
	ContentType() string
	// Attachment reports whether the document is downloaded rather than
	// shown inline.
	Attachment() bool
	Extension() string
	Render(w io.Writer, r Report) error
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", apperrors.ErrUnsupportedFormat
}

// For returns the renderer for f.
func For(f Format) (Renderer, error) {
	switch f {
	case FormatPDF:
		return pdfRenderer{}, nil
	case FormatCSV:
		return csvRenderer{}, nil
	case FormatPrint:
		return printRenderer{}, nil
	case FormatXML:
		return xmlRenderer{}, nil
	}
	return nil, apperrors.ErrUnsupportedFormat
}

// Filename is the download name for a report of the given period.
func Filename(r Renderer, period string) string {
	if period == "" {
		period = "all"
	}
	return fmt.Sprintf("transactions_report_%s.%s", period, r.Extension())
}

// amountText formats an amount with two decimals.
func amountText(tx *models.Transaction) string {
	return tx.Amount.StringFixed(2)
}
