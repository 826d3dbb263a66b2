package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

type csvRenderer struct{}

func (csvRenderer) ContentType() string { return "text/csv; charset=utf-8" }
func (csvRenderer) Attachment() bool    { return true }
func (csvRenderer) Extension() string   { return "csv" }

// Render writes Date,Description,Amount rows under a header line.
func (csvRenderer) Render(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Description", "Amount"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range r.Rows {
		tx := &r.Rows[i]
		if err := cw.Write([]string{tx.Date.String(), tx.Description, amountText(tx)}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
