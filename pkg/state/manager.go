package state

import (
	"fmt"
	"time"

	"asistentas-gateway/internal/constant"
	"asistentas-gateway/internal/pkg/logger"
	"asistentas-gateway/pkg/document"
	"asistentas-gateway/pkg/focus"
	"asistentas-gateway/pkg/store"
)

// Manager applies focus transitions to a session and records them in the
// transcript. Callers hold the session lock.
type Manager struct {
	logger logger.ILogger
	now    func() time.Time
}

func NewManager(logger logger.ILogger) *Manager {
	return &Manager{logger: logger, now: time.Now}
}

// TransitionToFocused focuses the session on doc under the requested id and
// appends the activation message. Re-focusing the same id appends it again.
func (m *Manager) TransitionToFocused(session *store.Session, documentID string, doc document.SourceDocument) store.Message {
	session.Focus = focus.Focused(documentID, doc)
	title := session.Focus.Title()
	m.logger.Info("STATE", "Transitioned to FOCUSED", map[string]interface{}{
		"session_id":  session.ID,
		"document_id": documentID,
		"title":       title,
	})
	return session.Append(store.RoleSystem, fmt.Sprintf(constant.FocusActivatedMessageFormat, title), m.now())
}

// TransitionToUnfocused always succeeds and always appends exactly one
// message, even when the session was not focused.
func (m *Manager) TransitionToUnfocused(session *store.Session) store.Message {
	previous := session.Focus
	session.Focus = focus.Unfocused()
	m.logger.Info("STATE", "Transitioned to UNFOCUSED", map[string]interface{}{
		"session_id": session.ID,
		"previous":   previous.String(),
	})
	return session.Append(store.RoleSystem, constant.FocusClearedMessage, m.now())
}

// FocusFailed leaves the focus untouched and tells the user.
func (m *Manager) FocusFailed(session *store.Session, documentID string, cause error) store.Message {
	details := map[string]interface{}{
		"session_id":  session.ID,
		"document_id": documentID,
		"focus":       session.Focus.String(),
	}
	if cause != nil {
		details["error"] = cause.Error()
	}
	m.logger.Warn("STATE", "Focus transition failed", details)

	content := constant.FocusFailedMessage
	if documentID == "" {
		content = constant.FocusMissingIDMessage
	}
	return session.Append(store.RoleSystem, content, m.now())
}
