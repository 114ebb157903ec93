// Package client is the page-side half of docquery: it posts questions and
// mode changes to the backend and renders the results into injected slots.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github/itish2003/docquery/models"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ServerError is an error reported by the backend in the "error" field of an
// otherwise readable response. Its text is shown to the user verbatim.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string { return e.Message }

// Querier sends a question to the query endpoint.
type Querier interface {
	Query(ctx context.Context, question string) (*models.QueryResponse, error)
}

// ModeChanger sends a mode identifier to the mode endpoint.
type ModeChanger interface {
	SwitchMode(ctx context.Context, mode string) error
}

// API talks to the /query and /switch-mode endpoints of a docquery server.
type API struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPI creates an API rooted at baseURL. A nil httpClient gets a default
// instrumented client without a timeout, so a hung backend stays pending.
func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Query posts a QueryRequest and returns the decoded response. A response
// carrying an "error" field is returned as a *ServerError.
func (a *API) Query(ctx context.Context, question string) (*models.QueryResponse, error) {
	var resp models.QueryResponse
	if err := a.post(ctx, "/query", models.QueryRequest{Question: question}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &ServerError{Message: resp.Error}
	}
	return &resp, nil
}

// SwitchMode posts a ModeRequest. Success carries no payload.
func (a *API) SwitchMode(ctx context.Context, mode string) error {
	var resp models.ModeResponse
	if err := a.post(ctx, "/switch-mode", models.ModeRequest{Mode: mode}, &resp); err != nil {
		return err
	}
	if resp.Error != "" {
		return &ServerError{Message: resp.Error}
	}
	return nil
}

// post sends body as JSON and decodes the reply whatever its status code;
// the backend reports failures in the body.
func (a *API) post(ctx context.Context, path string, body, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid response from %s (status %d): %w", path, resp.StatusCode, err)
	}
	return nil
}
