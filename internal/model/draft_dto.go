package model

import (
	"github.com/skbarnwal/gst-invoice-service/internal/domain"
)

// DraftItemDTO is one entry-form row as submitted by a client. Quantity and
// rate arrive as raw text, exactly as typed.
type DraftItemDTO struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Rate     string `json:"rate"`
}

// DraftDTO is an invoice draft as posted to the HTTP API or read from a
// draft file by the CLI.
type DraftDTO struct {
	InvoiceNo        string         `json:"invoice_no"`
	InvoiceDate      string         `json:"invoice_date"` // YYYY-MM-DD
	RecipientName    string         `json:"recipient_name"`
	RecipientAddress string         `json:"recipient_address"`
	RecipientGSTIN   string         `json:"recipient_gstin"`
	JobDescription   string         `json:"job_description"`
	Items            []DraftItemDTO `json:"items"`
}

// ToDomain converts the DTO into a domain draft.
func (dto *DraftDTO) ToDomain() domain.Draft {
	items := make([]domain.LineItem, len(dto.Items))
	for i, it := range dto.Items {
		items[i] = domain.LineItem{
			ID:       it.ID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Rate:     it.Rate,
		}
	}
	return domain.Draft{
		InvoiceNo:        dto.InvoiceNo,
		InvoiceDate:      dto.InvoiceDate,
		RecipientName:    dto.RecipientName,
		RecipientAddress: dto.RecipientAddress,
		RecipientGSTIN:   dto.RecipientGSTIN,
		JobDescription:   dto.JobDescription,
		Items:            items,
	}
}

// ItemTotalDTO is one derived row amount in a totals response.
type ItemTotalDTO struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// TotalsResponse carries the derived amounts for a draft without touching
// the render service.
type TotalsResponse struct {
	Items    []ItemTotalDTO `json:"items"`
	Subtotal string         `json:"subtotal"`
	CGST     string         `json:"cgst"`
	SGST     string         `json:"sgst"`
	Total    string         `json:"total"`
}

// NewTotalsResponse computes the derived amounts for a draft.
func NewTotalsResponse(d domain.Draft) *TotalsResponse {
	items := make([]ItemTotalDTO, len(d.Items))
	for i, it := range d.Items {
		items[i] = ItemTotalDTO{
			ID:     it.ID,
			Name:   it.Name,
			Amount: it.Total().String(),
		}
	}
	return &TotalsResponse{
		Items:    items,
		Subtotal: d.Subtotal().String(),
		CGST:     d.CGST().StringFixed(2),
		SGST:     d.SGST().StringFixed(2),
		Total:    d.Total().StringFixed(2),
	}
}
