package search

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"informatica-search/pkg/models"
)

// maxPages bounds a single query's pagination.
const maxPages = 100

// Document is one search hit as returned by the service, including the
// @search.score annotation.
type Document map[string]any

// Query is a full-text search with an optional OData filter.
type Query struct {
	Text   string
	Filter string
	Top    int
}

// IndexingResult is the per-document outcome of an upload.
type IndexingResult struct {
	Key          string `json:"key"`
	Succeeded    bool   `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	StatusCode   int    `json:"statusCode"`
}

// IndexClient issues document operations against one index.
type IndexClient struct {
	client *Client
	name   string
}

// Name returns the index name.
func (ic *IndexClient) Name() string { return ic.name }

func (ic *IndexClient) docsPath(op string) string {
	return "/indexes/" + url.PathEscape(ic.name) + "/docs/" + op
}

type searchRequest map[string]any

type searchResponse struct {
	Value    []Document    `json:"value"`
	NextPage searchRequest `json:"@search.nextPageParameters"`
}

// Search runs q and returns every matching document, following the
// service's continuation parameters.
func (ic *IndexClient) Search(ctx context.Context, q Query) ([]Document, error) {
	body := searchRequest{"search": q.Text}
	if q.Filter != "" {
		body["filter"] = q.Filter
	}
	if q.Top > 0 {
		body["top"] = q.Top
	}

	docs := []Document{}
	for page := 0; page < maxPages && body != nil; page++ {
		var resp searchResponse
		if err := ic.client.do(ctx, http.MethodPost, ic.docsPath("search"), body, &resp, http.StatusOK); err != nil {
			return nil, err
		}
		docs = append(docs, resp.Value...)
		body = resp.NextPage
	}
	return docs, nil
}

type uploadAction struct {
	Action string `json:"@search.action"`
	models.WorkflowRecord
}

// UploadDocuments uploads (inserts or replaces) docs in one request. A
// transport failure or a whole-request rejection returns an error; a 207
// response returns per-document results with some marked as failed.
func (ic *IndexClient) UploadDocuments(ctx context.Context, docs []models.WorkflowRecord) ([]IndexingResult, error) {
	actions := make([]uploadAction, len(docs))
	for i, d := range docs {
		actions[i] = uploadAction{Action: "upload", WorkflowRecord: d}
	}

	var resp struct {
		Value []IndexingResult `json:"value"`
	}
	payload := map[string]any{"value": actions}
	if err := ic.client.do(ctx, http.MethodPost, ic.docsPath("index"), payload, &resp, http.StatusOK, http.StatusMultiStatus); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// QuoteLiteral renders s as an OData string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// EqFilter builds "field eq 'value'".
func EqFilter(field, value string) string {
	return field + " eq " + QuoteLiteral(value)
}
