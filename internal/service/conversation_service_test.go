package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"asistentas-gateway/internal/config"
	"asistentas-gateway/internal/constant"
	"asistentas-gateway/internal/dto"
	"asistentas-gateway/internal/mapper"
	"asistentas-gateway/internal/pkg/logger"
	"asistentas-gateway/internal/repository/cache"
	"asistentas-gateway/internal/repository/memory"
	"asistentas-gateway/pkg/backend"
	"asistentas-gateway/pkg/document"
	"asistentas-gateway/pkg/events"
	"asistentas-gateway/pkg/state"
	"asistentas-gateway/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type conversationFixture struct {
	svc       IConversationService
	backend   *fakeBackend
	sessions  *memory.SessionRepository
	notifier  *recordingNotifier
	publisher *recordingPublisher
}

func newConversationFixture(t *testing.T) *conversationFixture {
	t.Helper()
	log := logger.NewNopLogger()
	fb := &fakeBackend{}
	sessions := memory.NewSessionRepository(time.Hour)
	notifier := &recordingNotifier{}
	publisher := &recordingPublisher{}
	documents := mapper.NewDocumentMapper()
	projects := NewProjectService(fb, cache.NewMemorySnapshotStore(time.Hour), nil, documents, log)

	svc := NewConversationService(
		sessions,
		fb,
		projects,
		publisher,
		notifier,
		state.NewManager(log),
		mapper.NewSessionMapper(documents),
		log,
		config.ChatConfig{Brand: constant.BrandProjektuZvalgas, ModelName: "m-default"},
	)
	return &conversationFixture{svc: svc, backend: fb, sessions: sessions, notifier: notifier, publisher: publisher}
}

func (f *conversationFixture) create(t *testing.T) string {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), &dto.CreateSessionRequest{})
	require.NoError(t, err)
	return resp.Id
}

func (f *conversationFixture) session(t *testing.T, id string) *store.Session {
	t.Helper()
	s, ok := f.sessions.Get(id)
	require.True(t, ok)
	return s
}

func displayedDoc(id, title string) document.SourceDocument {
	return document.SourceDocument{
		Content:  "santrauka " + id,
		Metadata: map[string]interface{}{"id": id, "Dokumento_pavadinimas": title},
	}
}

func TestCreateSession(t *testing.T) {
	f := newConversationFixture(t)

	resp, err := f.svc.Create(context.Background(), &dto.CreateSessionRequest{
		Brand: constant.BrandManoBustas,
		City:  "Vilnius",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Id)
	assert.Equal(t, constant.BrandManoBustas, resp.Brand.Key)
	assert.Equal(t, "m-default", resp.ModelName)
	assert.Equal(t, "UNFOCUSED", resp.Focus.State)
	assert.Equal(t, constant.PlaceholderUnfocused, resp.Placeholder)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, constant.LookupBrand(constant.BrandManoBustas).WelcomeMessage, resp.Messages[0].Content)

	require.Len(t, f.publisher.payloads, 1)
	var msg dto.RefreshDocumentsMessage
	require.NoError(t, json.Unmarshal(f.publisher.payloads[0], &msg))
	assert.Equal(t, resp.Id, msg.SessionId)
	assert.Equal(t, "Vilnius", msg.City)

	assert.Contains(t, f.notifier.types(), events.SessionCreated)
}

func TestCreateSessionRefreshesInlineWhenPublishFails(t *testing.T) {
	f := newConversationFixture(t)
	f.publisher.err = errors.New("broker down")
	f.backend.projects = []backend.Project{{"id": "p-1", "Dokumento_pavadinimas": "Projektas"}}

	id := f.create(t)

	require.Eventually(t, func() bool {
		docs, err := f.svc.Documents(context.Background(), id)
		return err == nil && len(docs.Documents) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSubmitUnfocusedUsesChatAndReplacesQueryDocuments(t *testing.T) {
	f := newConversationFixture(t)
	id := f.create(t)
	f.backend.chatResp = &backend.ChatResponse{
		Message:          "Radau du projektus",
		ConversationID:   "c-1",
		CreatedAt:        "2025-06-04T10:00:00Z",
		Sources:          []document.SourceDocument{displayedDoc("s-1", "Šaltinis")},
		SummaryDocuments: []document.SourceDocument{displayedDoc("q-1", "Pirmas"), displayedDoc("q-2", "Antras")},
	}

	resp, err := f.svc.Submit(context.Background(), id, &dto.SendMessageRequest{Message: "Kokie projektai?"})
	require.NoError(t, err)

	assert.Equal(t, "chat", resp.Endpoint)
	assert.False(t, resp.Failed)
	assert.Equal(t, "Kokie projektai?", resp.Sent.Content)
	assert.Equal(t, store.RoleAssistant, resp.Reply.Role)
	assert.Equal(t, "Radau du projektus", resp.Reply.Content)
	assert.Equal(t, time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC), resp.Reply.Timestamp.UTC())
	require.Len(t, resp.Reply.Sources, 1)
	require.Len(t, resp.Documents, 2)
	assert.Equal(t, "q-1", resp.Documents[0].ID)

	require.Len(t, f.backend.chatRequests, 1)
	assert.Equal(t, "m-default", f.backend.chatRequests[0].ModelName)
	assert.Empty(t, f.backend.chatRequests[0].ConversationID)

	s := f.session(t, id)
	assert.Equal(t, "c-1", s.ConversationID)
	assert.False(t, s.Loading)

	f.backend.chatResp = &backend.ChatResponse{Message: "Dar", ConversationID: "c-2"}
	_, err = f.svc.Submit(context.Background(), id, &dto.SendMessageRequest{Message: "Ir?"})
	require.NoError(t, err)
	assert.Equal(t, "c-1", f.backend.chatRequests[1].ConversationID)
	assert.Equal(t, "c-1", s.ConversationID)
	assert.Len(t, s.DisplayedDocuments, 2, "empty summary keeps previous query documents")
}

func TestSubmitFocusedUsesDocumentQuery(t *testing.T) {
	f := newConversationFixture(t)
	id := f.create(t)
	s := f.session(t, id)
	s.Lock()
	s.SetBackgroundDocuments([]document.SourceDocument{displayedDoc("d-1", "Mokykla")})
	s.Unlock()

	_, err := f.svc.Focus(context.Background(), id, &dto.FocusRequest{DocumentID: "d-1"})
	require.NoError(t, err)

	f.backend.queryResp = &backend.ChatResponse{
		Message:          "Terminas birželio 30",
		SummaryDocuments: []document.SourceDocument{displayedDoc("q-9", "Kitas")},
	}
	resp, err := f.svc.Submit(context.Background(), id, &dto.SendMessageRequest{Message: "Koks terminas?"})
	require.NoError(t, err)

	assert.Equal(t, "document_chat", resp.Endpoint)
	require.Len(t, f.backend.queryRequests, 1)
	assert.Equal(t, "d-1", f.backend.queryRequests[0].DocumentID)
	assert.Empty(t, f.backend.chatRequests)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "d-1", resp.Documents[0].ID, "document chat never replaces query documents")
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	f := newConversationFixture(t)
	id := f.create(t)
	s := f.session(t, id)
	s.Lock()
	s.Loading = true
	before := len(s.Messages)
	s.Unlock()

	_, err := f.svc.Submit(context.Background(), id, &dto.SendMessageRequest{Message: "Labas"})
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Len(t, s.Messages, before)
	assert.Empty(t, f.backend.chatRequests)
}

func TestSubmitEmptyMessage(t *testing.T) {
	f := newConversationFixture(t)
	id := f.create(t)

	_, err := f.svc.Submit(context.Background(), id, &dto.SendMessageRequest{Message: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSubmitBackendFailureAppendsErrorMessage(t *testing.T) {
	f := newConversationFixture(t)
	id := f.create(t)
	f.backend.chatErr = &backend.APIError{StatusCode: 500, Detail: "boom"}

	resp, err := f.svc.Submit(context.Background(), id, &dto.SendMessageRequest{Message: "Labas"})
	require.NoError(t, err)

	assert.True(t, resp.Failed)
	assert.Equal(t, store.RoleSystem, resp.Reply.Role)
	assert.Equal(t, "⚠️ Error: Request failed with status code 500: boom", resp.Reply.Content)

	s := f.session(t, id)
	assert.False(t, s.Loading)
	assert.Empty(t, s.ConversationID)
}

func TestSubmitUnknownSession(t *testing.T) {
	f := newConversationFixture(t)
	_, err := f.svc.Submit(context.Background(), "missing", &dto.SendMessageRequest{Message: "x"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFocusFromDisplayedDocuments(t *testing.T) {
	f := newConversationFixture(t)
	id := f.create(t)
	s := f.session(t, id)
	s.Lock()
	s.SetBackgroundDocuments([]document.SourceDocument{displayedDoc("d-1", "Mokykla")})
	s.Unlock()

	resp, err := f.svc.Focus(context.Background(), id, &dto.FocusRequest{DocumentID: "d-1"})
	require.NoError(t, err)

	assert.True(t, resp.Activated)
	assert.Equal(t, "FOCUSED", resp.Focus.State)
	assert.Equal(t, "d-1", resp.Focus.DocumentID)
	assert.Equal(t, "Mokykla", resp.Focus.Title)
	assert.Equal(t, fmt.Sprintf(constant.FocusActivatedMessageFormat, "Mokykla"), resp.Message.Content)
	assert.Zero(t, f.backend.workflowCalls)
	assert.Contains(t, f.notifier.types(), events.FocusChanged)
}

func TestFocusThroughWorkflow(t *testing.T) {
	f := newConversationFixture(t)
	id := f.create(t)
	f.backend.workflowResp = &backend.WorkflowResponse{
		Document: &document.SourceDocument{
			Content:  "Kvietimas pateikti pasiūlymą\nDaugiau teksto",
			Metadata: map[string]interface{}{"id": "w-1"},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp, err := f.svc.Focus(ctx, id, &dto.FocusRequest{DocumentID: "w-1"})
	require.NoError(t, err)

	assert.True(t, resp.Activated)
	assert.Equal(t, "w-1", resp.Focus.DocumentID)
	assert.Equal(t, 1, f.backend.workflowCalls)
	assert.NoError(t, f.backend.workflowCtx[0], "lookup outlives the request context")

	s := f.session(t, id)
	doc, ok := s.Focus.Document()
	require.True(t, ok)
	assert.Equal(t, document.SourceWorkflow, doc.Source())
	assert.NotEmpty(t, doc.Metadata["Dokumento_pavadinimas"])
}

func workflowDoc(id string) *backend.WorkflowResponse {
	return &backend.WorkflowResponse{
		Document: &document.SourceDocument{
			Content:  "Objektas: Mokyklos renovacija",
			Metadata: map[string]interface{}{"id": id},
		},
	}
}

func TestFocusConcurrentLookupsShareOneWorkflowCall(t *testing.T) {
	f := newConversationFixture(t)
	id := f.create(t)
	started := make(chan string, 8)
	release := make(chan struct{})
	f.backend.set(func(fb *fakeBackend) {
		fb.workflowResp = workflowDoc("w-9")
		fb.workflowStarted = started
		fb.workflowRelease = release
	})

	const callers = 5
	results := make([]*dto.FocusResponse, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.svc.Focus(context.Background(), id, &dto.FocusRequest{DocumentID: "w-9"})
			assert.NoError(t, err)
			results[i] = resp
		}(i)
	}

	<-started
	// Give the remaining callers time to join the lookup in flight.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, f.backend.calls())
	for _, resp := range results {
		require.NotNil(t, resp)
		assert.True(t, resp.Activated)
		assert.Equal(t, "FOCUSED", resp.Focus.State)
		assert.Equal(t, "w-9", resp.Focus.DocumentID)
	}
}

func TestFocusLookupsAreNotSharedAcrossSessions(t *testing.T) {
	f := newConversationFixture(t)
	first, second := f.create(t), f.create(t)
	started := make(chan string, 2)
	release := make(chan struct{})
	f.backend.set(func(fb *fakeBackend) {
		fb.workflowResp = workflowDoc("w-9")
		fb.workflowStarted = started
		fb.workflowRelease = release
	})

	var wg sync.WaitGroup
	for _, id := range []string{first, second} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			resp, err := f.svc.Focus(context.Background(), id, &dto.FocusRequest{DocumentID: "w-9"})
			assert.NoError(t, err)
			if assert.NotNil(t, resp) {
				assert.True(t, resp.Activated)
			}
		}(id)
	}

	// Both lookups must be in flight at once before either is released.
	<-started
	<-started
	close(release)
	wg.Wait()

	assert.Equal(t, 2, f.backend.calls())
}

func TestFocusWorkflowFailureKeepsState(t *testing.T) {
	tests := []struct {
		name string
		resp *backend.WorkflowResponse
		err  error
	}{
		{"backend error", nil, &backend.APIError{StatusCode: 404, Detail: "Document not found"}},
		{"no document", &backend.WorkflowResponse{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newConversationFixture(t)
			id := f.create(t)
			f.backend.set(func(fb *fakeBackend) {
				fb.workflowResp = tt.resp
				fb.workflowErr = tt.err
			})

			resp, err := f.svc.Focus(context.Background(), id, &dto.FocusRequest{DocumentID: "x-1"})
			require.NoError(t, err)

			assert.False(t, resp.Activated)
			assert.Equal(t, "UNFOCUSED", resp.Focus.State)
			assert.Equal(t, constant.FocusFailedMessage, resp.Message.Content)
		})
	}
}

func TestFocusMissingID(t *testing.T) {
	f := newConversationFixture(t)
	id := f.create(t)

	resp, err := f.svc.Focus(context.Background(), id, &dto.FocusRequest{DocumentID: " "})
	assert.ErrorIs(t, err, ErrMissingDocumentID)
	require.NotNil(t, resp)
	assert.Equal(t, constant.FocusMissingIDMessage, resp.Message.Content)
	assert.Zero(t, f.backend.workflowCalls)
}

func TestClearFocus(t *testing.T) {
	f := newConversationFixture(t)
	id := f.create(t)
	s := f.session(t, id)
	s.Lock()
	s.SetBackgroundDocuments([]document.SourceDocument{displayedDoc("d-1", "Mokykla")})
	s.Unlock()
	_, err := f.svc.Focus(context.Background(), id, &dto.FocusRequest{DocumentID: "d-1"})
	require.NoError(t, err)

	resp, err := f.svc.ClearFocus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "UNFOCUSED", resp.Focus.State)
	assert.Equal(t, constant.FocusClearedMessage, resp.Message.Content)

	again, err := f.svc.ClearFocus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, constant.FocusClearedMessage, again.Message.Content)
}

func TestRefreshDocuments(t *testing.T) {
	f := newConversationFixture(t)
	id := f.create(t)
	f.backend.projects = []backend.Project{
		{"id": "p-1", "Dokumento_pavadinimas": "Pirmas", "location": "Gedimino pr. 1, Vilnius"},
	}

	resp, err := f.svc.RefreshDocuments(context.Background(), id, &dto.RefreshDocumentsRequest{City: "Vilnius"})
	require.NoError(t, err)
	assert.False(t, resp.Stale)
	assert.Equal(t, "Vilnius", resp.City)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "p-1", resp.Documents[0].ID)

	f.backend.set(func(fb *fakeBackend) { fb.projectsErr = errors.New("timeout") })
	resp, err = f.svc.RefreshDocuments(context.Background(), id, &dto.RefreshDocumentsRequest{})
	require.NoError(t, err)
	assert.True(t, resp.Stale)
	assert.Equal(t, "Vilnius", resp.City)
	require.Len(t, resp.Documents, 1)
}

func TestRefreshDocumentsWithoutFallbackKeepsCurrentList(t *testing.T) {
	f := newConversationFixture(t)
	id := f.create(t)
	s := f.session(t, id)
	s.Lock()
	s.SetBackgroundDocuments([]document.SourceDocument{displayedDoc("d-1", "Mokykla")})
	s.Unlock()
	f.backend.projectsErr = errors.New("connection refused")

	resp, err := f.svc.RefreshDocuments(context.Background(), id, &dto.RefreshDocumentsRequest{City: "Kaunas"})
	require.NoError(t, err)
	assert.True(t, resp.Stale)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "d-1", resp.Documents[0].ID)
}

func TestDeleteClosesSession(t *testing.T) {
	f := newConversationFixture(t)
	id := f.create(t)

	require.NoError(t, f.svc.Delete(context.Background(), id))
	assert.Equal(t, []string{id}, f.notifier.closed)

	_, err := f.svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), id), ErrSessionNotFound)
}

func TestSubmissionErrorText(t *testing.T) {
	assert.Equal(t, "request timed out", submissionErrorText(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	assert.Equal(t, "plain", submissionErrorText(errors.New("plain")))
}
