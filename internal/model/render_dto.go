package model

import (
	"github.com/skbarnwal/gst-invoice-service/internal/domain"
)

// RenderItem is one line of the render request as the PDF service expects
// it. Amounts travel as strings.
type RenderItem struct {
	Name   string `json:"name"`
	HSN    string `json:"hsn"`
	Qty    int64  `json:"qty"`
	Rate   string `json:"rate"`
	Amount string `json:"amount"`
}

// RenderRequest is the JSON body posted to the PDF render service. Field
// names and formats are fixed by the service contract: invoice_date is
// DD-MMM-YYYY, "to" is a newline-joined recipient block, cgst/sgst/total
// carry two decimal places, taxable_amount and per-item amounts are plain
// stringified numbers.
type RenderRequest struct {
	InvoiceNo      string       `json:"invoice_no"`
	InvoiceDate    string       `json:"invoice_date"`
	To             string       `json:"to"`
	JobDescription string       `json:"job_description"`
	Items          []RenderItem `json:"items"`
	TaxableAmount  string       `json:"taxable_amount"`
	CGST           string       `json:"cgst"`
	SGST           string       `json:"sgst"`
	Total          string       `json:"total"`
}

// NewRenderRequest assembles the wire payload from a draft. The draft is
// expected to have passed Validate; the only remaining failure mode is an
// unparseable invoice date.
func NewRenderRequest(d domain.Draft) (*RenderRequest, error) {
	date, err := domain.FormatInvoiceDate(d.InvoiceDate)
	if err != nil {
		return nil, err
	}

	items := make([]RenderItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = RenderItem{
			Name:   it.Name,
			HSN:    domain.ServiceHSN,
			Qty:    it.Qty(),
			Rate:   it.Rate,
			Amount: it.Total().String(),
		}
	}

	return &RenderRequest{
		InvoiceNo:      d.InvoiceNo,
		InvoiceDate:    date,
		To:             d.RecipientBlock(),
		JobDescription: d.JobDescription,
		Items:          items,
		TaxableAmount:  d.Subtotal().String(),
		CGST:           d.CGST().StringFixed(2),
		SGST:           d.SGST().StringFixed(2),
		Total:          d.Total().StringFixed(2),
	}, nil
}
