// ABOUTME: Admin document resource client: list, upload, ingest, delete
// ABOUTME: Upload is validated client-side; mutations re-list on success

package admin

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/llm-se/sentinel-cli/internal/api"
)

// ErrNotPDF is a validation failure raised before an upload call is made.
var ErrNotPDF = errors.New("only PDF files are allowed")

// DocumentsAPI is the subset of the backend client the document resource
// needs.
type DocumentsAPI interface {
	ListDocuments(ctx context.Context, token string) ([]api.DocumentRow, error)
	DeleteDocument(ctx context.Context, token, source string) error
	UploadPDF(ctx context.Context, token, filename string, content io.Reader) error
	IngestPDF(ctx context.Context, token string, ingest api.PdfIngest) error
}

// Documents manages the document list with the same refresh-after-mutation
// contract as Users.
type Documents struct {
	api   DocumentsAPI
	token func() string

	list ListState[api.DocumentRow]
}

// NewDocuments creates a document resource client.
func NewDocuments(client DocumentsAPI, token func() string) *Documents {
	return &Documents{api: client, token: token}
}

// Refresh reloads the document list from the backend.
func (d *Documents) Refresh(ctx context.Context) error {
	d.list.beginLoading()
	rows, err := d.api.ListDocuments(ctx, d.token())
	if err != nil {
		d.list.fail(err)
		return err
	}
	d.list.load(rows)
	return nil
}

// Upload stores a PDF on the backend without ingesting it. Non-PDF
// filenames are refused before any request is issued. Upload does not
// change the document list, so no refresh follows.
func (d *Documents) Upload(ctx context.Context, filename string, content io.Reader) error {
	filename = filepath.Base(filename)
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return ErrNotPDF
	}
	if err := d.api.UploadPDF(ctx, d.token(), filename, content); err != nil {
		d.list.banner(err)
		return err
	}
	return nil
}

// Ingest chunks and embeds an uploaded PDF, then resynchronizes the list.
func (d *Documents) Ingest(ctx context.Context, ingest api.PdfIngest) error {
	if strings.TrimSpace(ingest.PdfFilename) == "" || strings.TrimSpace(ingest.Metadata.OwnerDepartment) == "" {
		return ErrMissingField
	}
	if err := d.api.IngestPDF(ctx, d.token(), ingest); err != nil {
		d.list.banner(err)
		return err
	}
	return d.Refresh(ctx)
}

// Delete removes a document by source filename and resynchronizes the list.
func (d *Documents) Delete(ctx context.Context, source string) error {
	if strings.TrimSpace(source) == "" {
		return ErrMissingField
	}
	if err := d.api.DeleteDocument(ctx, d.token(), source); err != nil {
		d.list.banner(err)
		return err
	}
	return d.Refresh(ctx)
}

// State returns the tagged list state.
func (d *Documents) State() State {
	return d.list.state
}

// List returns the last loaded document rows, sorted by source.
func (d *Documents) List() []api.DocumentRow {
	return d.list.items
}

// Err returns the current banner error, if any.
func (d *Documents) Err() error {
	return d.list.err
}
