// ABOUTME: Tests for the document resource client
// ABOUTME: Covers upload validation, ingest refresh, and banner errors

package admin

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-se/sentinel-cli/internal/api"
)

type fakeDocumentsAPI struct {
	rows      []api.DocumentRow
	listErr   error
	uploadErr error
	ingestErr error
	deleteErr error

	listCalls    int
	uploadCalls  int
	ingestCalls  int
	deleteCalls  int
	lastFilename string
}

func (f *fakeDocumentsAPI) ListDocuments(ctx context.Context, token string) ([]api.DocumentRow, error) {
	f.listCalls++
	return f.rows, f.listErr
}

func (f *fakeDocumentsAPI) DeleteDocument(ctx context.Context, token, source string) error {
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeDocumentsAPI) UploadPDF(ctx context.Context, token, filename string, content io.Reader) error {
	f.uploadCalls++
	f.lastFilename = filename
	return f.uploadErr
}

func (f *fakeDocumentsAPI) IngestPDF(ctx context.Context, token string, ingest api.PdfIngest) error {
	f.ingestCalls++
	return f.ingestErr
}

func newTestDocuments(f *fakeDocumentsAPI) *Documents {
	return NewDocuments(f, func() string { return "admin" })
}

func TestDocumentsRefresh(t *testing.T) {
	f := &fakeDocumentsAPI{rows: []api.DocumentRow{{Source: "a.pdf"}, {Source: "b.pdf"}}}
	d := newTestDocuments(f)

	require.NoError(t, d.Refresh(context.Background()))
	assert.Equal(t, StateLoaded, d.State())
	assert.Len(t, d.List(), 2)
}

func TestDocumentsRefreshFailure(t *testing.T) {
	f := &fakeDocumentsAPI{listErr: errors.New("boom")}
	d := newTestDocuments(f)

	require.Error(t, d.Refresh(context.Background()))
	assert.Equal(t, StateError, d.State())
	assert.Empty(t, d.List())
}

func TestDocumentsUploadValidatesExtension(t *testing.T) {
	f := &fakeDocumentsAPI{}
	d := newTestDocuments(f)

	err := d.Upload(context.Background(), "notes.txt", strings.NewReader("hi"))
	assert.ErrorIs(t, err, ErrNotPDF)
	assert.Zero(t, f.uploadCalls, "invalid uploads must not reach the network")
}

func TestDocumentsUploadStripsPath(t *testing.T) {
	f := &fakeDocumentsAPI{}
	d := newTestDocuments(f)

	require.NoError(t, d.Upload(context.Background(), "/tmp/reports/Q3.PDF", strings.NewReader("%PDF")))
	assert.Equal(t, "Q3.PDF", f.lastFilename)
	assert.Zero(t, f.listCalls, "upload does not change the listing, so no refresh")
}

func TestDocumentsIngestRefreshesList(t *testing.T) {
	f := &fakeDocumentsAPI{rows: []api.DocumentRow{{Source: "report.pdf"}}}
	d := newTestDocuments(f)

	err := d.Ingest(context.Background(), api.PdfIngest{
		PdfFilename: "report.pdf",
		Metadata:    api.DocumentMeta{OwnerDepartment: "eng", MinRoleLevel: 1, MinClearanceLevel: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.ingestCalls)
	assert.Equal(t, 1, f.listCalls)
	assert.Equal(t, StateLoaded, d.State())
}

func TestDocumentsIngestValidation(t *testing.T) {
	f := &fakeDocumentsAPI{}
	d := newTestDocuments(f)

	err := d.Ingest(context.Background(), api.PdfIngest{PdfFilename: ""})
	assert.ErrorIs(t, err, ErrMissingField)

	err = d.Ingest(context.Background(), api.PdfIngest{PdfFilename: "a.pdf"})
	assert.ErrorIs(t, err, ErrMissingField, "owner department is required")

	assert.Zero(t, f.ingestCalls)
}

func TestDocumentsDeleteFailureKeepsList(t *testing.T) {
	f := &fakeDocumentsAPI{rows: []api.DocumentRow{{Source: "a.pdf"}}}
	d := newTestDocuments(f)
	require.NoError(t, d.Refresh(context.Background()))

	f.deleteErr = &api.APIError{StatusCode: 404, Detail: "Document not found"}
	require.Error(t, d.Delete(context.Background(), "ghost.pdf"))

	assert.Equal(t, StateLoaded, d.State())
	assert.Len(t, d.List(), 1)
	assert.EqualError(t, d.Err(), "Document not found")
	assert.Equal(t, 1, f.listCalls, "a failed mutation must not re-list")
}
