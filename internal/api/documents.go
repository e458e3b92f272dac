// ABOUTME: Admin document management calls: listing, upload, ingest, delete
// ABOUTME: Flattens the backend's source-keyed document map into sorted rows

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
)

// DocumentMeta is the access metadata stored with every chunk of a document.
type DocumentMeta struct {
	OwnerDepartment   string `json:"owner_department"`
	MinRoleLevel      int    `json:"min_role_level"`
	MinClearanceLevel int    `json:"min_clearance_level"`
	Chunks            int    `json:"chunks,omitempty"`
}

// DocumentRow is one document in the flattened listing, keyed by its source
// filename.
type DocumentRow struct {
	Source string
	DocumentMeta
}

// PdfIngest is the body for POST /admin/ingest/pdf. The named PDF must
// already have been uploaded.
type PdfIngest struct {
	PdfFilename string       `json:"pdf_filename"`
	Metadata    DocumentMeta `json:"metadata"`
}

// ListDocuments returns all ingested documents. The backend responds with a
// map keyed by source name; the rows are returned sorted by source so the
// listing is stable. Admin only.
func (c *Client) ListDocuments(ctx context.Context, token string) ([]DocumentRow, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/admin/documents", token, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Documents map[string]DocumentMeta `json:"documents"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	rows := make([]DocumentRow, 0, len(out.Documents))
	for source, meta := range out.Documents {
		rows = append(rows, DocumentRow{Source: source, DocumentMeta: meta})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Source < rows[j].Source })
	return rows, nil
}

// DeleteDocument removes all chunks of the document identified by its
// source filename. Admin only.
func (c *Client) DeleteDocument(ctx context.Context, token, source string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/admin/documents?source="+url.QueryEscape(source), token, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// UploadPDF uploads a PDF file for later ingestion. The upload stores the
// file only; IngestPDF embeds it.
func (c *Client) UploadPDF(ctx context.Context, token, filename string, content io.Reader) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("creating multipart form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("reading upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/upload/pdf", &body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, nil)
}

// IngestPDF chunks and embeds a previously uploaded PDF under the given
// access metadata. Admin only.
func (c *Client) IngestPDF(ctx context.Context, token string, ingest PdfIngest) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/admin/ingest/pdf", token, ingest)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
