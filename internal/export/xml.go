package export

import (
	"io"
	"strconv"
	"time"

	"github.com/beevik/etree"
)

type xmlRenderer struct{}

func (xmlRenderer) ContentType() string { return "application/xml; charset=utf-8" }
func (xmlRenderer) Attachment() bool    { return true }
func (xmlRenderer) Extension() string   { return "xml" }

// Render writes a <report> document with one <transaction> per row.
func (xmlRenderer) Render(w io.Writer, r Report) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("report")
	root.CreateAttr("title", r.Title)
	if r.Period != "" {
		root.CreateAttr("period", r.Period)
	}
	root.CreateAttr("generatedAt", r.GeneratedAt.UTC().Format(time.RFC3339))
	root.CreateAttr("count", strconv.Itoa(len(r.Rows)))

	list := root.CreateElement("transactions")
	for i := range r.Rows {
		tx := &r.Rows[i]
		el := list.CreateElement("transaction")
		el.CreateAttr("id", tx.ID)
		el.CreateAttr("type", string(tx.Type))
		el.CreateElement("date").SetText(tx.Date.String())
		el.CreateElement("description").SetText(tx.Description)
		el.CreateElement("category").SetText(tx.Category)
		el.CreateElement("amount").SetText(amountText(tx))
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}
