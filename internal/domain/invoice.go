package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ServiceHSN is the HSN/SAC code stamped on every line item. The business
// bills all rental services under this single code.
const ServiceHSN = "997329"

// GST is split into equal central and state halves at 9% each.
var gstHalfRate = decimal.NewFromInt(9).Div(decimal.NewFromInt(100))

// LineItem is a single row of the invoice entry form. Quantity and Rate are
// kept as the raw text the user typed; parsing happens only when amounts are
// derived, so a half-filled row never breaks the running totals.
type LineItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Rate     string `json:"rate"`
}

// Draft is an in-memory invoice being prepared for submission. It lives only
// for the duration of an editing session and is never persisted.
type Draft struct {
	InvoiceNo        string     `json:"invoice_no"`
	InvoiceDate      string     `json:"invoice_date"` // ISO date from the picker, YYYY-MM-DD
	RecipientName    string     `json:"recipient_name"`
	RecipientAddress string     `json:"recipient_address"`
	RecipientGSTIN   string     `json:"recipient_gstin"`
	JobDescription   string     `json:"job_description"`
	Items            []LineItem `json:"items"`
}

// ParseAmount converts user-entered numeric text to a decimal. Empty or
// unparseable input degrades to zero rather than erroring, matching the
// tolerant behaviour of the entry form. Thousands separators are stripped.
func ParseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Total returns quantity × rate for the row, with both sides parsed
// tolerantly.
func (it LineItem) Total() decimal.Decimal {
	return ParseAmount(it.Quantity).Mul(ParseAmount(it.Rate))
}

// Qty returns the integer part of the parsed quantity, zero when invalid.
// The render service expects whole quantities.
func (it LineItem) Qty() int64 {
	return ParseAmount(it.Quantity).IntPart()
}

// Subtotal sums the row totals in sequence order. Derived amounts are always
// recomputed from the rows, never cached.
func (d Draft) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range d.Items {
		sum = sum.Add(it.Total())
	}
	return sum
}

// CGST is the central GST component, 9% of the subtotal.
func (d Draft) CGST() decimal.Decimal {
	return d.Subtotal().Mul(gstHalfRate)
}

// SGST is the state GST component, 9% of the subtotal.
func (d Draft) SGST() decimal.Decimal {
	return d.Subtotal().Mul(gstHalfRate)
}

// Total is the grand total: subtotal plus both GST components.
func (d Draft) Total() decimal.Decimal {
	sub := d.Subtotal()
	return sub.Add(sub.Mul(gstHalfRate)).Add(sub.Mul(gstHalfRate))
}

// RecipientBlock joins the recipient lines for the invoice "to" field:
// name, address, and a "GST NO: <gstin>" line when a GSTIN was entered.
// Empty lines are skipped.
func (d Draft) RecipientBlock() string {
	lines := make([]string, 0, 3)
	if name := strings.TrimSpace(d.RecipientName); name != "" {
		lines = append(lines, name)
	}
	if addr := strings.TrimSpace(d.RecipientAddress); addr != "" {
		lines = append(lines, addr)
	}
	if gstin := strings.TrimSpace(d.RecipientGSTIN); gstin != "" {
		lines = append(lines, "GST NO: "+gstin)
	}
	return strings.Join(lines, "\n")
}

// FormatInvoiceDate converts an ISO date (2025-12-05) into the DD-MMM-YYYY
// form the render service expects (05-Dec-2025). The day is zero-padded, the
// year stays four digits.
func FormatInvoiceDate(iso string) (string, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(iso))
	if err != nil {
		return "", fmt.Errorf("invalid invoice date %q: expected YYYY-MM-DD", iso)
	}
	return t.Format("02-Jan-2006"), nil
}

// ValidationError reports the first required field that was missing.
// Message is user-facing.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the user-facing message.
func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the required fields in order and reports the first
// failure only; later checks are not evaluated once one fails.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.InvoiceNo) == "" {
		return &ValidationError{Field: "invoice_no", Message: "Please enter an invoice number"}
	}
	if strings.TrimSpace(d.InvoiceDate) == "" {
		return &ValidationError{Field: "invoice_date", Message: "Please select an invoice date"}
	}
	if strings.TrimSpace(d.RecipientName) == "" {
		return &ValidationError{Field: "recipient_name", Message: "Please enter the recipient name"}
	}
	// Only the first row needs a name; later rows may stay blank and simply
	// contribute nothing to the totals.
	if len(d.Items) == 0 || strings.TrimSpace(d.Items[0].Name) == "" {
		return &ValidationError{Field: "items", Message: "Please add at least one item with a name"}
	}
	return nil
}
