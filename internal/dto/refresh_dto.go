package dto

// RefreshDocumentsMessage asks the consumer to reload a session's recent
// projects in the background.
type RefreshDocumentsMessage struct {
	SessionId string `json:"session_id"`
	City      string `json:"city,omitempty"`
}
