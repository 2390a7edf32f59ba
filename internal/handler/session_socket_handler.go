package handler

import (
	"errors"

	"asistentas-gateway/internal/pkg/logger"
	"asistentas-gateway/internal/pkg/serverutils"
	"asistentas-gateway/internal/service"
	internalWS "asistentas-gateway/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SessionSocketHandler pushes session events to the chat page that owns the
// session.
type SessionSocketHandler struct {
	service service.IConversationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewSessionSocketHandler(service service.IConversationService, hub *internalWS.Hub, log logger.ILogger) *SessionSocketHandler {
	return &SessionSocketHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs upgrades only for sessions that exist. The session id is the only
// credential.
func (h *SessionSocketHandler) ServeWs(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if _, err := h.service.Get(c.UserContext(), sessionID); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, err.Error()))
		}
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("SessionSocketHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(h.hub, conn, sessionID)
		h.logger.Info("SessionSocketHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
	})(c)
}

func (h *SessionSocketHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/sessions/:id/ws", h.ServeWs)
}
