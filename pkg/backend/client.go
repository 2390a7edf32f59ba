// Package backend talks to the question-answering service that owns
// retrieval, ranking and language-model calls.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type Client interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	DocumentQuery(ctx context.Context, req DocumentQueryRequest) (*ChatResponse, error)
	RecentProjects(ctx context.Context, city string) (*RecentProjectsResponse, error)
	Cities(ctx context.Context) (*CitiesResponse, error)
	CreateDirectDocumentWorkflow(ctx context.Context, documentID string) (*WorkflowResponse, error)
	Models(ctx context.Context) (*ModelsResponse, error)
	Health(ctx context.Context) (*HealthResponse, error)
}

type HTTPClient struct {
	BaseURL         string
	HTTP            *http.Client
	MetadataTimeout time.Duration
	QueryTimeout    time.Duration
	tracer          trace.Tracer
}

var _ Client = &HTTPClient{}

func NewHTTPClient(baseURL string, metadataTimeout, queryTimeout time.Duration) *HTTPClient {
	return &HTTPClient{
		BaseURL:         strings.TrimRight(baseURL, "/"),
		HTTP:            &http.Client{},
		MetadataTimeout: metadataTimeout,
		QueryTimeout:    queryTimeout,
		tracer:          otel.Tracer("asistentas-gateway/backend"),
	}
}

func (c *HTTPClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", req, c.QueryTimeout, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) DocumentQuery(ctx context.Context, req DocumentQueryRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/document_query", req, c.QueryTimeout, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) RecentProjects(ctx context.Context, city string) (*RecentProjectsResponse, error) {
	path := "/api/recent-projects"
	if city != "" {
		path += "?city=" + url.QueryEscape(city)
	}
	var resp RecentProjectsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, c.MetadataTimeout, &resp); err != nil {
		return nil, err
	}
	if resp.Projects == nil {
		return nil, fmt.Errorf("recent projects: %w: missing projects", ErrMalformedResponse)
	}
	return &resp, nil
}

func (c *HTTPClient) Cities(ctx context.Context) (*CitiesResponse, error) {
	var resp CitiesResponse
	if err := c.do(ctx, http.MethodGet, "/api/cities", nil, c.MetadataTimeout, &resp); err != nil {
		return nil, err
	}
	if resp.Cities == nil {
		return nil, fmt.Errorf("cities: %w: missing cities", ErrMalformedResponse)
	}
	return &resp, nil
}

func (c *HTTPClient) CreateDirectDocumentWorkflow(ctx context.Context, documentID string) (*WorkflowResponse, error) {
	var resp WorkflowResponse
	err := c.do(ctx, http.MethodPost, "/api/workflows/create_direct_document_workflow",
		WorkflowRequest{DocumentID: documentID}, c.MetadataTimeout, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Models(ctx context.Context) (*ModelsResponse, error) {
	var resp ModelsResponse
	if err := c.do(ctx, http.MethodGet, "/api/models", nil, c.MetadataTimeout, &resp); err != nil {
		return nil, err
	}
	if resp.Models == nil {
		return nil, fmt.Errorf("models: %w: missing models", ErrMalformedResponse)
	}
	return &resp, nil
}

// Health probes the backend root. Any 2xx counts as healthy.
func (c *HTTPClient) Health(ctx context.Context) (*HealthResponse, error) {
	var body json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/", nil, c.MetadataTimeout, &body); err != nil {
		return nil, err
	}
	return &HealthResponse{StatusCode: http.StatusOK, Body: body}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload interface{}, timeout time.Duration, out interface{}) (err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ctx, span := c.startSpan(ctx, method+" "+path)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("backend request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, bodyBytes)
	}

	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return fmt.Errorf("%s %s: %w: empty body", method, path, ErrMalformedResponse)
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrMalformedResponse, err)
	}
	return nil
}

func (c *HTTPClient) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	tracer := c.tracer
	if tracer == nil {
		tracer = otel.Tracer("asistentas-gateway/backend")
	}
	return tracer.Start(ctx, "backend "+name, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("backend.base_url", c.BaseURL)))
}
