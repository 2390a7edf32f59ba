package service

import (
	"context"
	"sync"

	"asistentas-gateway/pkg/backend"
	"asistentas-gateway/pkg/events"
)

// fakeBackend answers from canned values and records what it was asked.
type fakeBackend struct {
	mu sync.Mutex

	chatResp     *backend.ChatResponse
	chatErr      error
	chatRequests []backend.ChatRequest

	queryResp     *backend.ChatResponse
	queryErr      error
	queryRequests []backend.DocumentQueryRequest

	projects    []backend.Project
	projectsErr error

	cities    []string
	citiesErr error

	models    []backend.Model
	modelsErr error

	workflowResp  *backend.WorkflowResponse
	workflowErr   error
	workflowCalls int
	workflowCtx   []error

	// When set, each workflow call reports on started and waits for release
	workflowStarted chan string
	workflowRelease chan struct{}

	healthErr error
}

var _ backend.Client = &fakeBackend{}

func (f *fakeBackend) Chat(_ context.Context, req backend.ChatRequest) (*backend.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatRequests = append(f.chatRequests, req)
	return f.chatResp, f.chatErr
}

func (f *fakeBackend) DocumentQuery(_ context.Context, req backend.DocumentQueryRequest) (*backend.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryRequests = append(f.queryRequests, req)
	return f.queryResp, f.queryErr
}

func (f *fakeBackend) RecentProjects(_ context.Context, _ string) (*backend.RecentProjectsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.projectsErr != nil {
		return nil, f.projectsErr
	}
	return &backend.RecentProjectsResponse{Projects: f.projects}, nil
}

func (f *fakeBackend) Cities(_ context.Context) (*backend.CitiesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.citiesErr != nil {
		return nil, f.citiesErr
	}
	return &backend.CitiesResponse{Cities: f.cities}, nil
}

func (f *fakeBackend) CreateDirectDocumentWorkflow(ctx context.Context, documentID string) (*backend.WorkflowResponse, error) {
	f.mu.Lock()
	f.workflowCalls++
	f.workflowCtx = append(f.workflowCtx, ctx.Err())
	started, release := f.workflowStarted, f.workflowRelease
	resp, err := f.workflowResp, f.workflowErr
	f.mu.Unlock()

	if started != nil {
		started <- documentID
	}
	if release != nil {
		<-release
	}
	return resp, err
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workflowCalls
}

func (f *fakeBackend) Models(_ context.Context) (*backend.ModelsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.modelsErr != nil {
		return nil, f.modelsErr
	}
	return &backend.ModelsResponse{Models: f.models}, nil
}

func (f *fakeBackend) Health(_ context.Context) (*backend.HealthResponse, error) {
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return &backend.HealthResponse{StatusCode: 200}, nil
}

func (f *fakeBackend) set(fn func(f *fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []events.Event
	closed []string
}

func (n *recordingNotifier) Notify(_ context.Context, event events.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) SessionClosed(_ context.Context, sessionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = append(n.closed, sessionID)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.EventType())
	}
	return out
}

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return p.err
}

type recordingDelivery struct {
	mu        sync.Mutex
	delivered []events.Event
	closed    []string
}

func (d *recordingDelivery) Deliver(event events.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, event)
}

func (d *recordingDelivery) CloseSession(sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = append(d.closed, sessionID)
}
