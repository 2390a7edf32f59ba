package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"asistentas-gateway/internal/config"
	"asistentas-gateway/internal/constant"
	"asistentas-gateway/internal/dto"
	"asistentas-gateway/internal/mapper"
	"asistentas-gateway/internal/pkg/logger"
	"asistentas-gateway/pkg/backend"
	"asistentas-gateway/pkg/document"
	"asistentas-gateway/pkg/events"
	"asistentas-gateway/pkg/focus"
	"asistentas-gateway/pkg/state"
	"asistentas-gateway/pkg/store"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSubmissionInFlight = errors.New("a message is already being answered")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrMissingDocumentID  = errors.New("document id is required")
	ErrNoDocument         = errors.New("workflow returned no document")
)

// SessionStore is the storage the conversation service needs.
type SessionStore interface {
	Save(session *store.Session)
	Get(sessionID string) (*store.Session, bool)
	Delete(sessionID string) bool
	OnExpired(fn func(sessionID string))
}

type IConversationService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	Get(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	Delete(ctx context.Context, sessionID string) error
	Submit(ctx context.Context, sessionID string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	Focus(ctx context.Context, sessionID string, req *dto.FocusRequest) (*dto.FocusResponse, error)
	ClearFocus(ctx context.Context, sessionID string) (*dto.FocusResponse, error)
	Documents(ctx context.Context, sessionID string) (*dto.DocumentsResponse, error)
	RefreshDocuments(ctx context.Context, sessionID string, req *dto.RefreshDocumentsRequest) (*dto.DocumentsResponse, error)
	RefreshBackground(ctx context.Context, sessionID, city string) error
}

type conversationService struct {
	sessions  SessionStore
	client    backend.Client
	projects  IProjectService
	publisher IPublisherService
	notifier  ISessionNotifier
	states    *state.Manager
	mapper    *mapper.SessionMapper
	logger    logger.ILogger
	cfg       config.ChatConfig

	// one workflow lookup per (session, document) at a time
	lookups singleflight.Group
	now     func() time.Time
}

func NewConversationService(
	sessions SessionStore,
	client backend.Client,
	projects IProjectService,
	publisher IPublisherService,
	notifier ISessionNotifier,
	states *state.Manager,
	sessionMapper *mapper.SessionMapper,
	log logger.ILogger,
	cfg config.ChatConfig,
) IConversationService {
	s := &conversationService{
		sessions:  sessions,
		client:    client,
		projects:  projects,
		publisher: publisher,
		notifier:  notifier,
		states:    states,
		mapper:    sessionMapper,
		logger:    log,
		cfg:       cfg,
		now:       time.Now,
	}
	sessions.OnExpired(func(sessionID string) {
		s.logger.Info("CONVERSATION", "Session closed", map[string]interface{}{"session_id": sessionID})
		s.notifier.SessionClosed(context.Background(), sessionID)
	})
	return s
}

// Create opens a session for a freshly mounted chat page. The recent-projects
// list is loaded in the background.
func (s *conversationService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	brandKey := req.Brand
	if brandKey == "" {
		brandKey = s.cfg.Brand
	}
	brand := constant.LookupBrand(brandKey)

	modelName := req.ModelName
	if modelName == "" {
		modelName = s.cfg.ModelName
	}

	session := store.NewSession(uuid.NewString(), brand.Key, modelName, s.now())
	session.City = req.City
	session.Append(store.RoleSystem, brand.WelcomeMessage, s.now())
	s.sessions.Save(session)

	session.Lock()
	snapshot := session.Snapshot()
	session.Unlock()

	s.logger.Info("CONVERSATION", "Session created", map[string]interface{}{
		"session_id": session.ID,
		"brand":      brand.Key,
		"model":      modelName,
	})
	s.notifier.Notify(ctx, events.NewSessionEvent(events.SessionCreated, session.ID, map[string]interface{}{
		"brand": brand.Key,
	}))
	s.scheduleRefresh(ctx, session.ID, req.City)

	return s.mapper.SnapshotToResponse(snapshot), nil
}

func (s *conversationService) Get(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.Lock()
	snapshot := session.Snapshot()
	session.Unlock()
	return s.mapper.SnapshotToResponse(snapshot), nil
}

func (s *conversationService) Delete(ctx context.Context, sessionID string) error {
	if !s.sessions.Delete(sessionID) {
		return ErrSessionNotFound
	}
	return nil
}

// Submit sends one user message to the endpoint the focus state selects at
// this moment. Only one submission per session may be in flight.
func (s *conversationService) Submit(ctx context.Context, sessionID string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	session.Lock()
	if session.Loading {
		session.Unlock()
		return nil, ErrSubmissionInFlight
	}
	sent := session.Append(store.RoleUser, req.Message, s.now())
	session.Loading = true
	route := session.Focus.Route()
	conversationID := session.ConversationID
	modelName := session.ModelName
	session.Unlock()

	s.notifyMessage(ctx, sessionID, s.mapper.MessageToDTO(sent))
	s.notifier.Notify(ctx, events.NewSessionEvent(events.SubmissionStarted, sessionID, map[string]interface{}{
		"endpoint":    string(route.Endpoint),
		"document_id": route.DocumentID,
	}))

	resp, callErr := s.send(ctx, route, req.Message, modelName, conversationID)

	session.Lock()
	var reply store.Message
	documentsChanged := false
	if callErr != nil {
		reply = session.Append(store.RoleSystem, fmt.Sprintf(constant.SubmissionErrorMessageFormat, submissionErrorText(callErr)), s.now())
	} else {
		reply = store.Message{
			Role:      store.RoleAssistant,
			Content:   resp.Message,
			Timestamp: s.responseTime(resp.CreatedAt),
			Sources:   resp.Sources,
		}
		session.AppendMessage(reply)
		if route.Endpoint == focus.EndpointChat && len(resp.SummaryDocuments) > 0 {
			session.SetQueryDocuments(resp.SummaryDocuments)
			documentsChanged = true
		}
		session.SetConversationID(resp.ConversationID)
	}
	session.Loading = false
	snapshot := session.Snapshot()
	session.Unlock()

	if callErr != nil {
		s.logger.Error("CONVERSATION", "Submission failed", map[string]interface{}{
			"session_id": sessionID,
			"endpoint":   string(route.Endpoint),
			"error":      callErr.Error(),
		})
	}
	s.notifyMessage(ctx, sessionID, s.mapper.MessageToDTO(reply))
	if documentsChanged {
		s.notifyDocuments(ctx, snapshot)
	}

	return &dto.SendMessageResponse{
		Sent:      s.mapper.MessageToDTO(sent),
		Reply:     s.mapper.MessageToDTO(reply),
		Endpoint:  string(route.Endpoint),
		Failed:    callErr != nil,
		Documents: s.mapper.SnapshotToResponse(snapshot).Documents,
	}, nil
}

func (s *conversationService) send(ctx context.Context, route focus.Route, message, modelName, conversationID string) (*backend.ChatResponse, error) {
	if route.Endpoint == focus.EndpointDocumentChat {
		return s.client.DocumentQuery(ctx, backend.DocumentQueryRequest{
			Message:        message,
			DocumentID:     route.DocumentID,
			ModelName:      modelName,
			ConversationID: conversationID,
		})
	}
	return s.client.Chat(ctx, backend.ChatRequest{
		Message:        message,
		ModelName:      modelName,
		ConversationID: conversationID,
	})
}

// Focus scopes the session to one document: from the displayed list when it
// is there, otherwise through the document workflow.
func (s *conversationService) Focus(ctx context.Context, sessionID string, req *dto.FocusRequest) (*dto.FocusResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	documentID := strings.TrimSpace(req.DocumentID)

	if documentID == "" {
		session.Lock()
		msg := s.states.FocusFailed(session, "", ErrMissingDocumentID)
		resp := s.focusResponse(session, msg, false)
		session.Unlock()
		s.notifyMessage(ctx, sessionID, resp.Message)
		return resp, ErrMissingDocumentID
	}

	session.Lock()
	if doc, ok := session.FindDisplayed(documentID); ok {
		msg := s.states.TransitionToFocused(session, documentID, doc)
		resp := s.focusResponse(session, msg, true)
		session.Unlock()
		s.notifyFocus(ctx, sessionID, resp)
		return resp, nil
	}
	session.Unlock()

	doc, lookupErr := s.lookupDocument(ctx, sessionID, documentID)

	session.Lock()
	var resp *dto.FocusResponse
	if lookupErr != nil {
		msg := s.states.FocusFailed(session, documentID, lookupErr)
		resp = s.focusResponse(session, msg, false)
	} else {
		msg := s.states.TransitionToFocused(session, documentID, doc)
		resp = s.focusResponse(session, msg, true)
	}
	session.Unlock()

	if resp.Activated {
		s.notifyFocus(ctx, sessionID, resp)
	} else {
		s.notifyMessage(ctx, sessionID, resp.Message)
	}
	return resp, nil
}

// lookupDocument asks the workflow for a document that is not displayed.
// Concurrent requests for the same session and document share one call.
func (s *conversationService) lookupDocument(ctx context.Context, sessionID, documentID string) (document.SourceDocument, error) {
	v, err, shared := s.lookups.Do(sessionID+"\x00"+documentID, func() (interface{}, error) {
		resp, err := s.client.CreateDirectDocumentWorkflow(context.WithoutCancel(ctx), documentID)
		if err != nil {
			return nil, err
		}
		if resp.Document == nil {
			return nil, fmt.Errorf("document %s: %w", documentID, ErrNoDocument)
		}
		doc := resp.Document.Clone()
		document.EnsureTitle(&doc)
		if doc.Source() == "" {
			doc.Set(document.MetaSource, document.SourceWorkflow)
		}
		return doc, nil
	})
	if err != nil {
		return document.SourceDocument{}, err
	}
	if shared {
		s.logger.Debug("CONVERSATION", "Workflow lookup shared", map[string]interface{}{"document_id": documentID})
	}
	return v.(document.SourceDocument), nil
}

// ClearFocus always succeeds and always appends one system message.
func (s *conversationService) ClearFocus(ctx context.Context, sessionID string) (*dto.FocusResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	msg := s.states.TransitionToUnfocused(session)
	resp := s.focusResponse(session, msg, false)
	session.Unlock()

	s.notifyFocus(ctx, sessionID, resp)
	return resp, nil
}

func (s *conversationService) Documents(ctx context.Context, sessionID string) (*dto.DocumentsResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.Lock()
	snapshot := session.Snapshot()
	session.Unlock()
	return s.documentsResponse(snapshot, false), nil
}

// RefreshDocuments reloads recent projects now, optionally switching the city
// filter. On failure the current list is kept and reported stale.
func (s *conversationService) RefreshDocuments(ctx context.Context, sessionID string, req *dto.RefreshDocumentsRequest) (*dto.DocumentsResponse, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	if req.City != "" {
		session.City = req.City
	}
	city := session.City
	session.Unlock()

	stale, refreshErr := s.applyRefresh(ctx, session, city)

	session.Lock()
	snapshot := session.Snapshot()
	session.Unlock()
	return s.documentsResponse(snapshot, stale || refreshErr != nil), nil
}

// RefreshBackground is the consumer side of scheduleRefresh.
func (s *conversationService) RefreshBackground(ctx context.Context, sessionID, city string) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	_, err = s.applyRefresh(ctx, session, city)
	return err
}

// applyRefresh replaces the background set with whatever the fetch returned,
// a cached copy included. Refreshes race with submissions and the last one to
// finish wins.
func (s *conversationService) applyRefresh(ctx context.Context, session *store.Session, city string) (bool, error) {
	docs, stale, err := s.projects.RecentDocuments(ctx, city)
	if err != nil {
		s.logger.Warn("CONVERSATION", "Recent projects refresh failed", map[string]interface{}{
			"session_id": session.ID,
			"city":       city,
			"error":      err.Error(),
		})
		return false, err
	}

	session.Lock()
	session.SetBackgroundDocuments(docs)
	snapshot := session.Snapshot()
	session.Unlock()

	s.notifyDocuments(ctx, snapshot)
	return stale, nil
}

func (s *conversationService) scheduleRefresh(ctx context.Context, sessionID, city string) {
	payload, _ := json.Marshal(dto.RefreshDocumentsMessage{SessionId: sessionID, City: city})
	if s.publisher != nil {
		err := s.publisher.Publish(ctx, payload)
		if err == nil {
			return
		}
		s.logger.Warn("CONVERSATION", "Refresh publish failed, refreshing inline", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
	go func() {
		_ = s.RefreshBackground(context.WithoutCancel(ctx), sessionID, city)
	}()
}

func (s *conversationService) session(sessionID string) (*store.Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// responseTime uses the backend's created_at when it parses.
func (s *conversationService) responseTime(createdAt string) time.Time {
	if t, ok := document.ParseDate(createdAt); ok {
		return t
	}
	return s.now()
}

// focusResponse must be called with the session lock held.
func (s *conversationService) focusResponse(session *store.Session, msg store.Message, activated bool) *dto.FocusResponse {
	return &dto.FocusResponse{
		Activated: activated,
		Focus:     s.mapper.FocusToDTO(session.Focus),
		Message:   s.mapper.MessageToDTO(msg),
	}
}

func (s *conversationService) documentsResponse(snapshot store.Snapshot, stale bool) *dto.DocumentsResponse {
	return &dto.DocumentsResponse{
		Documents: s.mapper.SnapshotToResponse(snapshot).Documents,
		City:      snapshot.City,
		Stale:     stale,
	}
}

func (s *conversationService) notifyMessage(ctx context.Context, sessionID string, msg dto.MessageDTO) {
	s.notifier.Notify(ctx, events.NewSessionEvent(events.MessageAppended, sessionID, map[string]interface{}{
		"message": msg,
	}))
}

func (s *conversationService) notifyFocus(ctx context.Context, sessionID string, resp *dto.FocusResponse) {
	s.notifier.Notify(ctx, events.NewSessionEvent(events.FocusChanged, sessionID, map[string]interface{}{
		"focus": resp.Focus,
	}))
	s.notifyMessage(ctx, sessionID, resp.Message)
}

func (s *conversationService) notifyDocuments(ctx context.Context, snapshot store.Snapshot) {
	s.notifier.Notify(ctx, events.NewSessionEvent(events.DocumentsUpdated, snapshot.ID, map[string]interface{}{
		"count": len(snapshot.DisplayedDocuments),
		"city":  snapshot.City,
	}))
}

// submissionErrorText is what the user sees after "Error:".
func submissionErrorText(err error) string {
	if apiErr, ok := backend.AsAPIError(err); ok {
		return fmt.Sprintf("Request failed with status code %d: %s", apiErr.StatusCode, apiErr.Detail)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	return err.Error()
}
