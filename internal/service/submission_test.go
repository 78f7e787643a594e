package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skbarnwal/gst-invoice-service/internal/domain"
	"github.com/skbarnwal/gst-invoice-service/internal/renderapi"
	"github.com/skbarnwal/gst-invoice-service/internal/repository"
	"github.com/skbarnwal/gst-invoice-service/internal/service"
)

var pdfBytes = []byte("%PDF-1.4 rendered invoice")

func validDraft() domain.Draft {
	return domain.Draft{
		InvoiceNo:     "134",
		InvoiceDate:   "2025-12-05",
		RecipientName: "The Director",
		Items: []domain.LineItem{
			{ID: "a", Name: "PA System", Quantity: "1", Rate: "25400"},
		},
	}
}

// newService wires a submission service against a live httptest render
// endpoint and a temp output directory; it returns the request counter.
func newService(t *testing.T, handler http.HandlerFunc) (*service.SubmissionService, string, *int32) {
	t.Helper()

	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := renderapi.NewClient(&renderapi.Config{Endpoint: srv.URL})

	dir := t.TempDir()
	repo, err := repository.NewPDFRepository(dir)
	require.NoError(t, err)

	return service.NewSubmissionService(client, repo, zerolog.Nop()), dir, &requests
}

func serveBinaryPDF(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Write(pdfBytes)
}

func TestSubmitHappyPath(t *testing.T) {
	svc, dir, requests := newService(t, serveBinaryPDF)

	outcome, err := svc.Submit(context.Background(), validDraft())
	require.NoError(t, err)

	assert.Equal(t, "invoice_134.pdf", outcome.Filename)
	assert.Equal(t, pdfBytes, outcome.PDF)
	assert.Empty(t, outcome.ArchiveURL)
	assert.Equal(t, int32(1), atomic.LoadInt32(requests), "exactly one network call per attempt")

	saved, err := os.ReadFile(filepath.Join(dir, "invoice_134.pdf"))
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, saved)
}

func TestSubmitValidationFailureMakesNoNetworkCall(t *testing.T) {
	svc, dir, requests := newService(t, serveBinaryPDF)

	draft := validDraft()
	draft.InvoiceNo = ""

	_, err := svc.Submit(context.Background(), draft)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "invoice_no", vErr.Field)
	assert.Equal(t, int32(0), atomic.LoadInt32(requests), "validation must abort before the network")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSubmitBadDateFailsBeforeNetwork(t *testing.T) {
	svc, _, requests := newService(t, serveBinaryPDF)

	draft := validDraft()
	draft.InvoiceDate = "garbage"

	_, err := svc.Submit(context.Background(), draft)

	var sErr *service.SubmissionError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, "build_payload", sErr.Op)
	assert.Equal(t, int32(0), atomic.LoadInt32(requests))
}

func TestSubmitRenderFailureWritesNothing(t *testing.T) {
	svc, dir, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("lambda exploded"))
	})

	_, err := svc.Submit(context.Background(), validDraft())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API Error: 500 - lambda exploded")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "a failed attempt must not leave a file behind")
}

func TestSubmitIsRetriableAfterFailure(t *testing.T) {
	fail := true
	svc, _, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("cold start timeout"))
			return
		}
		serveBinaryPDF(w, r)
	})

	_, err := svc.Submit(context.Background(), validDraft())
	require.Error(t, err)

	fail = false
	outcome, err := svc.Submit(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, "invoice_134.pdf", outcome.Filename)
}

type fakeArchiver struct {
	url      string
	err      error
	uploaded []byte
	filename string
}

func (a *fakeArchiver) UploadPDF(pdf []byte, filename string) (string, error) {
	a.uploaded = pdf
	a.filename = filename
	return a.url, a.err
}

func TestSubmitArchivesIssuedInvoice(t *testing.T) {
	svc, _, _ := newService(t, serveBinaryPDF)

	archiver := &fakeArchiver{url: "s3://invoices/invoices/invoice_134.pdf"}
	svc.SetArchiver(archiver)

	outcome, err := svc.Submit(context.Background(), validDraft())
	require.NoError(t, err)

	assert.Equal(t, archiver.url, outcome.ArchiveURL)
	assert.Equal(t, pdfBytes, archiver.uploaded)
	assert.Equal(t, "invoice_134.pdf", archiver.filename)
}

func TestSubmitArchiveFailureDoesNotFailSubmission(t *testing.T) {
	svc, dir, _ := newService(t, serveBinaryPDF)
	svc.SetArchiver(&fakeArchiver{err: errors.New("bucket unreachable")})

	outcome, err := svc.Submit(context.Background(), validDraft())
	require.NoError(t, err, "the user already has the PDF; archiving is best-effort")
	assert.Empty(t, outcome.ArchiveURL)

	_, err = os.Stat(filepath.Join(dir, "invoice_134.pdf"))
	assert.NoError(t, err)
}
