package dto

import "asistentas-gateway/pkg/backend"

type ChatProxyRequest struct {
	Message        string `json:"message" validate:"required"`
	ModelName      string `json:"model_name"`
	ConversationID string `json:"conversation_id"`
}

type DocumentChatRequest struct {
	Message        string `json:"message" validate:"required"`
	DocumentID     string `json:"document_id" validate:"required"`
	ModelName      string `json:"model_name"`
	ConversationID string `json:"conversation_id"`
}

type DocumentWorkflowRequest struct {
	DocumentID string `json:"document_id" validate:"required"`
}

// ProxyErrorResponse mirrors what the browser already knows how to read from
// the backend proxies.
type ProxyErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

type RecentProjectsResponse struct {
	Projects []backend.Project `json:"projects"`
	Stale    bool              `json:"stale,omitempty"`
	Error    string            `json:"error,omitempty"`
}

type CitiesResponse struct {
	Cities []string `json:"cities"`
	Stale  bool     `json:"stale,omitempty"`
	Error  string   `json:"error,omitempty"`
}

type ModelsResponse struct {
	Models   []backend.Model `json:"models"`
	Fallback bool            `json:"fallback,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Detail  string `json:"detail,omitempty"`
}
