// Package render produces printable documents. The core only ever
// talks to the DocumentRenderer interface; the HTML implementation is
// one choice of output.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/crmdesk/crmdesk/internal/domain/entity"
)

// DocumentRenderer renders one financial document to a printable form
type DocumentRenderer interface {
	Render(doc *entity.Document, client *entity.Client) ([]byte, error)
}

// HTMLRenderer renders documents as standalone HTML pages with inline
// styles, suitable for the browser's native print dialog
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer creates a renderer with the built-in template
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("document").Parse(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

type itemView struct {
	Name        string
	Description string
	Quantity    string
	Unit        string
	Rate        string
	TaxRate     string
	Amount      string
}

type documentView struct {
	Title      string
	ClientName string
	Status     string
	Date       string
	Currency   string
	Items      []itemView
	SubTotal   string
	Tax        string
	Discount   string
	Total      string
	Note       string
	Terms      string
}

// Render implements DocumentRenderer
func (r *HTMLRenderer) Render(doc *entity.Document, client *entity.Client) ([]byte, error) {
	view := documentView{
		Title:    fmt.Sprintf("%s %s", kindTitle(doc.Kind), doc.Number),
		Status:   doc.Status,
		Date:     doc.CreatedAt.Format("2006-01-02"),
		Currency: doc.Currency,
		SubTotal: doc.SubTotal.StringFixed(2),
		Tax:      doc.TaxAmount.StringFixed(2),
		Discount: doc.DiscountAmount.StringFixed(2),
		Total:    doc.Total.StringFixed(2),
		Note:     doc.Note,
		Terms:    doc.Terms,
	}
	if client != nil {
		view.ClientName = client.Name
	}
	for _, it := range doc.Items {
		view.Items = append(view.Items, itemView{
			Name:        it.ItemName,
			Description: it.Description,
			Quantity:    it.Quantity.String(),
			Unit:        it.Unit,
			Rate:        it.UnitPrice.StringFixed(2),
			TaxRate:     it.TaxRate.String(),
			Amount:      it.Amount.StringFixed(2),
		})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return buf.Bytes(), nil
}

func kindTitle(kind entity.DocumentKind) string {
	switch kind {
	case entity.KindEstimate:
		return "Estimate"
	case entity.KindInvoice:
		return "Invoice"
	case entity.KindProposal:
		return "Proposal"
	case entity.KindOrder:
		return "Order"
	default:
		return "Document"
	}
}

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; color: #222; }
h1 { font-size: 22px; margin-bottom: 4px; }
.meta { color: #666; margin-bottom: 24px; }
table { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background: #f5f5f5; }
td.num, th.num { text-align: right; }
.totals { width: 320px; margin-left: auto; }
.totals td { border: none; padding: 4px 8px; }
.totals .grand td { font-weight: bold; border-top: 2px solid #222; }
.note { font-size: 12px; color: #666; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">
{{if .ClientName}}<div>Client: {{.ClientName}}</div>{{end}}
<div>Status: {{.Status}}</div>
<div>Date: {{.Date}}</div>
</div>
<table>
<tr><th>Item</th><th>Description</th><th class="num">Qty</th><th>Unit</th><th class="num">Rate</th><th class="num">Tax %</th><th class="num">Amount</th></tr>
{{range .Items}}
<tr>
<td>{{.Name}}</td>
<td>{{.Description}}</td>
<td class="num">{{.Quantity}}</td>
<td>{{.Unit}}</td>
<td class="num">{{.Rate}}</td>
<td class="num">{{.TaxRate}}</td>
<td class="num">{{.Amount}}</td>
</tr>
{{end}}
</table>
<table class="totals">
<tr><td>Sub Total</td><td class="num">{{.SubTotal}} {{.Currency}}</td></tr>
<tr><td>Tax</td><td class="num">{{.Tax}} {{.Currency}}</td></tr>
<tr><td>Discount</td><td class="num">-{{.Discount}} {{.Currency}}</td></tr>
<tr class="grand"><td>Total</td><td class="num">{{.Total}} {{.Currency}}</td></tr>
</table>
{{if .Note}}<p class="note">{{.Note}}</p>{{end}}
{{if .Terms}}<p class="note">{{.Terms}}</p>{{end}}
</body>
</html>
`
