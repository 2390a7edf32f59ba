package store

import (
	"sync"
	"time"

	"asistentas-gateway/pkg/document"
	"asistentas-gateway/pkg/focus"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one entry of the chat transcript.
type Message struct {
	Role      string                    `json:"role"`
	Content   string                    `json:"content"`
	Timestamp time.Time                 `json:"timestamp"`
	Sources   []document.SourceDocument `json:"sources,omitempty"`
}

// Session is the conversation state of one open chat page, from mount to
// unmount. All fields are guarded by the embedded mutex.
type Session struct {
	sync.Mutex

	ID        string
	Brand     string
	ModelName string
	CreatedAt time.Time

	// Set once from the first backend response, then sent on every request.
	ConversationID string

	// Append-only transcript
	Messages []Message

	Focus focus.State

	// THE SIDEBAR: latest query results, the recent-projects feed, and what
	// the merger made of them
	QueryDocuments      []document.SourceDocument
	BackgroundDocuments []document.SourceDocument
	DisplayedDocuments  []document.SourceDocument
	City                string

	// Single-flight guard for chat submission
	Loading bool
}

func NewSession(id, brand, modelName string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Brand:     brand,
		ModelName: modelName,
		CreatedAt: now,
		Focus:     focus.Unfocused(),
	}
}

func (s *Session) Append(role, content string, now time.Time) Message {
	msg := Message{Role: role, Content: content, Timestamp: now}
	s.Messages = append(s.Messages, msg)
	return msg
}

func (s *Session) AppendMessage(msg Message) {
	s.Messages = append(s.Messages, msg)
}

// SetConversationID only takes the first non-empty id.
func (s *Session) SetConversationID(id string) {
	if s.ConversationID == "" && id != "" {
		s.ConversationID = id
	}
}

func (s *Session) SetQueryDocuments(docs []document.SourceDocument) {
	s.QueryDocuments = docs
	s.DisplayedDocuments = document.Merge(s.QueryDocuments, s.BackgroundDocuments)
}

func (s *Session) SetBackgroundDocuments(docs []document.SourceDocument) {
	s.BackgroundDocuments = docs
	s.DisplayedDocuments = document.Merge(s.QueryDocuments, s.BackgroundDocuments)
}

// FindDisplayed looks a document up in the displayed list by id.
func (s *Session) FindDisplayed(id string) (document.SourceDocument, bool) {
	for _, doc := range s.DisplayedDocuments {
		if document.MatchesID(doc, id) {
			return doc, true
		}
	}
	return document.SourceDocument{}, false
}

// Snapshot is a copy of the session safe to read without the lock.
type Snapshot struct {
	ID                 string
	Brand              string
	ModelName          string
	ConversationID     string
	Messages           []Message
	Focus              focus.State
	DisplayedDocuments []document.SourceDocument
	City               string
	Loading            bool
	CreatedAt          time.Time
}

// Snapshot must be called with the lock held.
func (s *Session) Snapshot() Snapshot {
	messages := make([]Message, len(s.Messages))
	copy(messages, s.Messages)
	docs := make([]document.SourceDocument, len(s.DisplayedDocuments))
	copy(docs, s.DisplayedDocuments)
	return Snapshot{
		ID:                 s.ID,
		Brand:              s.Brand,
		ModelName:          s.ModelName,
		ConversationID:     s.ConversationID,
		Messages:           messages,
		Focus:              s.Focus,
		DisplayedDocuments: docs,
		City:               s.City,
		Loading:            s.Loading,
		CreatedAt:          s.CreatedAt,
	}
}
