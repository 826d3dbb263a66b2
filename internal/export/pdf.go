package export

import (
	"io"

	"github.com/go-pdf/fpdf"
)

type pdfRenderer struct{}

func (pdfRenderer) ContentType() string { return "application/pdf" }
func (pdfRenderer) Attachment() bool    { return true }
func (pdfRenderer) Extension() string   { return "pdf" }

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 30, "L"},
	{"Description", 80, "L"},
	{"Category", 45, "L"},
	{"Amount", 35, "R"},
}

// Render lays the rows out as a single table, repeating the header on every
// page.
func (pdfRenderer) Render(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.SetCreationDate(r.GeneratedAt)
	pdf.SetAutoPageBreak(true, 15)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(0, 123, 255)
		pdf.SetTextColor(255, 255, 255)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 8, c.title, "1", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.SetHeaderFuncMode(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	}, true)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(r.Title), "", 1, "C", false, 0, "")
	if r.Period != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, tr(r.Period), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)
	header()

	for i := range r.Rows {
		tx := &r.Rows[i]
		cells := []string{tx.Date.String(), tx.Description, tx.Category, amountText(tx)}
		for j, c := range pdfColumns {
			pdf.CellFormat(c.width, 7, tr(truncate(pdf, cells[j], c.width-2)), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// truncate shortens s with an ellipsis so it fits in width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
