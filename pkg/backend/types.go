package backend

import (
	"encoding/json"

	"asistentas-gateway/pkg/document"
)

type ChatRequest struct {
	Message        string `json:"message"`
	ModelName      string `json:"model_name"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type DocumentQueryRequest struct {
	Message        string `json:"message"`
	DocumentID     string `json:"document_id"`
	ModelName      string `json:"model_name"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is returned by both /api/chat and /api/document_query.
type ChatResponse struct {
	Message          string                    `json:"message"`
	ConversationID   string                    `json:"conversation_id"`
	CreatedAt        string                    `json:"created_at"`
	Sources          []document.SourceDocument `json:"sources,omitempty"`
	SummaryDocuments []document.SourceDocument `json:"summary_documents,omitempty"`
}

// Project is one raw recent-project record. Keys vary between deployments.
type Project map[string]interface{}

type RecentProjectsResponse struct {
	Projects []Project `json:"projects"`
}

type CitiesResponse struct {
	Cities []string `json:"cities"`
}

type WorkflowRequest struct {
	DocumentID string `json:"document_id"`
}

type WorkflowResponse struct {
	Document   *document.SourceDocument `json:"document"`
	WorkflowID string                   `json:"workflow_id,omitempty"`
	Message    string                   `json:"message,omitempty"`
	Success    *bool                    `json:"success,omitempty"`
}

type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ModelsResponse struct {
	Models []Model `json:"models"`
}

// HealthResponse carries whatever the backend root answers with.
type HealthResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body,omitempty"`
}
