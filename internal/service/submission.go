package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/skbarnwal/gst-invoice-service/internal/domain"
	"github.com/skbarnwal/gst-invoice-service/internal/model"
)

// Submitter defines the interface for invoice submission services.
type Submitter interface {
	// Submit validates a draft, renders it remotely and lands the PDF.
	Submit(ctx context.Context, draft domain.Draft) (*Outcome, error)
}

// SubmissionError represents an error that occurred during invoice
// submission.
type SubmissionError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error.
func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error.
func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Renderer produces PDF bytes for a render request.
type Renderer interface {
	GeneratePDF(ctx context.Context, request *model.RenderRequest) ([]byte, error)
}

// PDFStore lands PDF bytes and names downloads.
type PDFStore interface {
	Filename(invoiceNo string) string
	Save(ctx context.Context, invoiceNo string, pdf []byte) (string, error)
}

// Archiver copies issued PDFs to long-term storage.
type Archiver interface {
	UploadPDF(pdf []byte, filename string) (string, error)
}

// Outcome is the result of a successful submission.
type Outcome struct {
	Filename   string // download name, invoice_<no>.pdf
	Path       string // local path the PDF was written to
	ArchiveURL string // archive location, empty when archiving is off
	PDF        []byte
}

// SubmissionService drives one invoice submission end to end: validate,
// build the wire payload, call the render service, write the PDF, archive.
type SubmissionService struct {
	renderer Renderer
	store    PDFStore
	archiver Archiver
	log      zerolog.Logger
}

// NewSubmissionService creates a submission service. Archiving is off until
// SetArchiver is called.
func NewSubmissionService(renderer Renderer, store PDFStore, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		renderer: renderer,
		store:    store,
		log:      log,
	}
}

// SetArchiver enables copying issued PDFs to long-term storage.
func (s *SubmissionService) SetArchiver(a Archiver) {
	s.archiver = a
}

// Submit runs a single submission attempt. Validation happens strictly
// before any network activity; a validation failure means no request was
// made. Render, decode and write failures are all terminal for the attempt
// and leave nothing half-done that would block a retry.
func (s *SubmissionService) Submit(ctx context.Context, draft domain.Draft) (*Outcome, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	request, err := model.NewRenderRequest(draft)
	if err != nil {
		return nil, &SubmissionError{Op: "build_payload", Err: err}
	}

	pdf, err := s.renderer.GeneratePDF(ctx, request)
	if err != nil {
		return nil, err
	}

	filename := s.store.Filename(draft.InvoiceNo)
	path, err := s.store.Save(ctx, draft.InvoiceNo, pdf)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Filename: filename,
		Path:     path,
		PDF:      pdf,
	}

	// Archive failures are logged but never fail the submission; the user
	// already has the PDF at this point.
	if s.archiver != nil {
		url, err := s.archiver.UploadPDF(pdf, filename)
		if err != nil {
			s.log.Warn().Err(err).Str("invoice_no", draft.InvoiceNo).Msg("invoice archive upload failed")
		} else {
			outcome.ArchiveURL = url
		}
	}

	s.log.Info().
		Str("invoice_no", draft.InvoiceNo).
		Str("path", path).
		Int("bytes", len(pdf)).
		Msg("invoice PDF issued")

	return outcome, nil
}
