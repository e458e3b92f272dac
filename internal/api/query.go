// ABOUTME: POST /query call and response types for the retrieval pipeline
// ABOUTME: A query either yields an answer with sources or a no_info verdict

package api

import (
	"context"
	"net/http"
)

// Response type tags returned by POST /query.
const (
	ResponseTypeAnswer = "answer"
	ResponseTypeNoInfo = "no_info"
)

// Source is one retrieved document reference attached to an answer.
type Source struct {
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
}

// AnswerData is the payload of an "answer" response.
type AnswerData struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// QueryResponse is the tagged union returned by POST /query. Data is only
// set for "answer", Reason only for "no_info".
type QueryResponse struct {
	Type      string      `json:"type"`
	RequestID string      `json:"request_id"`
	Reason    string      `json:"reason,omitempty"`
	Data      *AnswerData `json:"data,omitempty"`
}

// queryRequest is the JSON body sent to POST /query.
type queryRequest struct {
	RequestID string `json:"request_id"`
	Query     string `json:"query"`
}

// Query sends one retrieval query. requestID correlates the response with
// the caller's pending entry and is echoed back by the backend.
func (c *Client) Query(ctx context.Context, token, requestID, query string) (*QueryResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/query", token, queryRequest{
		RequestID: requestID,
		Query:     query,
	})
	if err != nil {
		return nil, err
	}

	var out QueryResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
