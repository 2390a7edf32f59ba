package dto

import (
	"time"

	"asistentas-gateway/pkg/document"
)

type CreateSessionRequest struct {
	Brand     string `json:"brand" validate:"omitempty,oneof=darbo-asistentas mano-bustas projektu-zvalgas"`
	ModelName string `json:"model_name" validate:"omitempty,max=200"`
	City      string `json:"city" validate:"omitempty,max=100"`
}

type BrandDTO struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type FocusDTO struct {
	State      string `json:"state"` // FOCUSED | UNFOCUSED
	DocumentID string `json:"document_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Endpoint   string `json:"endpoint"` // chat | document_chat
}

type MessageDTO struct {
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
	Sources   []document.View `json:"sources,omitempty"`
}

type SessionResponse struct {
	Id             string          `json:"id"`
	Brand          BrandDTO        `json:"brand"`
	ModelName      string          `json:"model_name"`
	ConversationId string          `json:"conversation_id,omitempty"`
	Focus          FocusDTO        `json:"focus"`
	Messages       []MessageDTO    `json:"messages"`
	Documents      []document.View `json:"documents"`
	City           string          `json:"city,omitempty"`
	Loading        bool            `json:"loading"`
	Placeholder    string          `json:"placeholder"`
	CreatedAt      time.Time       `json:"created_at"`
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type SendMessageResponse struct {
	Sent      MessageDTO      `json:"sent"`
	Reply     MessageDTO      `json:"reply"`
	Endpoint  string          `json:"endpoint"`
	Failed    bool            `json:"failed,omitempty"`
	Documents []document.View `json:"documents"`
}

// FocusRequest has no required tag: an empty id is reported to the user as a
// system message before the 400.
type FocusRequest struct {
	DocumentID string `json:"document_id"`
}

type FocusResponse struct {
	Activated bool       `json:"activated"`
	Focus     FocusDTO   `json:"focus"`
	Message   MessageDTO `json:"message"`
}

type RefreshDocumentsRequest struct {
	City string `json:"city" validate:"omitempty,max=100"`
}

type DocumentsResponse struct {
	Documents []document.View `json:"documents"`
	City      string          `json:"city,omitempty"`
	// Set when a refresh failed and the previous list was kept
	Stale bool `json:"stale,omitempty"`
}
