package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// RepositoryError represents an error that occurred within a repository.
type RepositoryError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error.
func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// PDFRepository lands rendered invoice PDFs on the local filesystem.
type PDFRepository struct {
	baseDir string
	mutex   sync.Mutex
}

// NewPDFRepository creates a new filesystem-backed PDF repository rooted at
// baseDir, creating the directory if needed.
func NewPDFRepository(baseDir string) (*PDFRepository, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, &RepositoryError{
			Op:  "create_repository",
			Err: fmt.Errorf("failed to create output directory: %w", err),
		}
	}
	return &PDFRepository{baseDir: baseDir}, nil
}

// Filename returns the download name for an invoice: invoice_<no>.pdf.
// Path separators in the invoice number are flattened so the file always
// lands inside the output directory.
func (r *PDFRepository) Filename(invoiceNo string) string {
	safe := strings.NewReplacer("/", "-", "\\", "-").Replace(invoiceNo)
	return fmt.Sprintf("invoice_%s.pdf", safe)
}

// Save writes the PDF bytes under the repository's base directory and
// returns the full path.
func (r *PDFRepository) Save(ctx context.Context, invoiceNo string, pdf []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", &RepositoryError{
			Op:  "save_pdf",
			Err: ctx.Err(),
		}
	default:
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	path := filepath.Join(r.baseDir, r.Filename(invoiceNo))
	if err := os.WriteFile(path, pdf, 0644); err != nil {
		return "", &RepositoryError{
			Op:  "save_pdf",
			Err: fmt.Errorf("failed to write PDF file: %w", err),
		}
	}
	return path, nil
}
