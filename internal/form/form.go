// Package form implements the invoice entry controller: an editing session
// over a draft with add/remove/update row operations, derived totals and a
// single-flight submission flow.
package form

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skbarnwal/gst-invoice-service/internal/domain"
	"github.com/skbarnwal/gst-invoice-service/internal/service"
)

// Field names an editable column of a line item row.
type Field string

const (
	FieldName     Field = "name"
	FieldQuantity Field = "quantity"
	FieldRate     Field = "rate"
)

// Form owns the mutable entry state for one invoice. It is not safe for
// concurrent use; it models a single user's editing session.
type Form struct {
	draft      domain.Draft
	submitting bool
	newID      func() string
}

// New creates a form with one empty item row, mirroring a freshly opened
// entry screen.
func New() *Form {
	f := &Form{
		newID: func() string { return uuid.New().String() },
	}
	f.draft.Items = []domain.LineItem{{ID: f.newID()}}
	return f
}

// SetInvoiceNo sets the invoice number.
func (f *Form) SetInvoiceNo(v string) { f.draft.InvoiceNo = v }

// SetInvoiceDate sets the ISO invoice date (YYYY-MM-DD).
func (f *Form) SetInvoiceDate(v string) { f.draft.InvoiceDate = v }

// SetRecipientName sets the recipient name.
func (f *Form) SetRecipientName(v string) { f.draft.RecipientName = v }

// SetRecipientAddress sets the recipient address.
func (f *Form) SetRecipientAddress(v string) { f.draft.RecipientAddress = v }

// SetRecipientGSTIN sets the recipient GST number.
func (f *Form) SetRecipientGSTIN(v string) { f.draft.RecipientGSTIN = v }

// SetJobDescription sets the job description.
func (f *Form) SetJobDescription(v string) { f.draft.JobDescription = v }

// AddItem appends a fresh empty row and returns its id. There is no upper
// bound on the row count.
func (f *Form) AddItem() string {
	id := f.newID()
	items := make([]domain.LineItem, 0, len(f.draft.Items)+1)
	items = append(items, f.draft.Items...)
	items = append(items, domain.LineItem{ID: id})
	f.draft.Items = items
	return id
}

// RemoveItem removes the row with the given id. The last remaining row can
// never be removed; that call is a no-op. Reports whether a row was
// removed.
func (f *Form) RemoveItem(id string) bool {
	if len(f.draft.Items) <= 1 {
		return false
	}
	items := make([]domain.LineItem, 0, len(f.draft.Items))
	removed := false
	for _, it := range f.draft.Items {
		if !removed && it.ID == id {
			removed = true
			continue
		}
		items = append(items, it)
	}
	if !removed {
		return false
	}
	f.draft.Items = items
	return true
}

// UpdateItem replaces one field of the row with the given id, leaving every
// other row and field untouched. The value is stored as raw text with no
// numeric validation. A new row slice is produced rather than mutating in
// place. Reports whether a row matched.
func (f *Form) UpdateItem(id string, field Field, value string) bool {
	items := make([]domain.LineItem, len(f.draft.Items))
	updated := false
	for i, it := range f.draft.Items {
		if it.ID == id {
			switch field {
			case FieldName:
				it.Name = value
			case FieldQuantity:
				it.Quantity = value
			case FieldRate:
				it.Rate = value
			}
			updated = true
		}
		items[i] = it
	}
	if !updated {
		return false
	}
	f.draft.Items = items
	return true
}

// Items returns a copy of the current rows.
func (f *Form) Items() []domain.LineItem {
	items := make([]domain.LineItem, len(f.draft.Items))
	copy(items, f.draft.Items)
	return items
}

// Draft returns a snapshot of the current draft with its own item slice.
func (f *Form) Draft() domain.Draft {
	d := f.draft
	d.Items = f.Items()
	return d
}

// ItemTotal returns the derived amount for one row.
func (f *Form) ItemTotal(id string) decimal.Decimal {
	for _, it := range f.draft.Items {
		if it.ID == id {
			return it.Total()
		}
	}
	return decimal.Zero
}

// Subtotal, CGST, SGST and Total recompute the derived amounts from the
// current rows on every call.
func (f *Form) Subtotal() decimal.Decimal { return f.draft.Subtotal() }
func (f *Form) CGST() decimal.Decimal    { return f.draft.CGST() }
func (f *Form) SGST() decimal.Decimal    { return f.draft.SGST() }
func (f *Form) Total() decimal.Decimal   { return f.draft.Total() }

// Submitting reports whether a submission is in flight. The flag is
// advisory, for disabling the submit control; nothing here blocks a second
// concurrent call.
func (f *Form) Submitting() bool {
	return f.submitting
}

// Submit validates the draft and, if it passes, runs one submission attempt
// through the given submitter. The submitting flag is raised only after
// validation succeeds and is cleared again on every exit path, so the form
// always ends re-submittable.
func (f *Form) Submit(ctx context.Context, submitter service.Submitter) (*service.Outcome, error) {
	if err := f.draft.Validate(); err != nil {
		return nil, err
	}

	f.submitting = true
	defer func() { f.submitting = false }()

	return submitter.Submit(ctx, f.Draft())
}
