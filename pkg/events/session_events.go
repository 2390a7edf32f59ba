package events

import "time"

const (
	SessionCreated    = "session.created"
	SessionClosed     = "session.closed"
	MessageAppended   = "session.message_appended"
	FocusChanged      = "session.focus_changed"
	DocumentsUpdated  = "session.documents_updated"
	SubmissionStarted = "session.submission_started"

	KeySessionID  = "session_id"
	KeyOccurredAt = "occurred_at"
)

// NewSessionEvent stamps the session id and time into the payload so the
// event survives a round trip through the bus.
func NewSessionEvent(eventType, sessionID string, data map[string]interface{}) BaseEvent {
	now := time.Now().UTC()
	payload := make(map[string]interface{}, len(data)+2)
	for k, v := range data {
		payload[k] = v
	}
	payload[KeySessionID] = sessionID
	payload[KeyOccurredAt] = now.Format(time.RFC3339Nano)
	return BaseEvent{Type: eventType, Data: payload, OccurredAt: now}
}

// SessionID reads the target session out of an event payload.
func SessionID(e Event) (string, bool) {
	id, ok := e.Payload()[KeySessionID].(string)
	return id, ok && id != ""
}

// OccurredAt recovers the original timestamp from a decoded payload.
func OccurredAt(payload map[string]interface{}) (time.Time, bool) {
	s, ok := payload[KeyOccurredAt].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	return t, err == nil
}
