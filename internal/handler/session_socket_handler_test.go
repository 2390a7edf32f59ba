package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"asistentas-gateway/internal/dto"
	"asistentas-gateway/internal/pkg/logger"
	"asistentas-gateway/internal/service"
	internalWS "asistentas-gateway/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// knownSessions answers Get for a fixed set of ids.
type knownSessions struct {
	service.IConversationService
	ids map[string]bool
}

func (k knownSessions) Get(_ context.Context, id string) (*dto.SessionResponse, error) {
	if !k.ids[id] {
		return nil, service.ErrSessionNotFound
	}
	return &dto.SessionResponse{Id: id}, nil
}

func newSocketApp() *fiber.App {
	log := logger.NewNopLogger()
	h := NewSessionSocketHandler(knownSessions{ids: map[string]bool{"s-1": true}}, internalWS.NewHub(nil, log), log)
	app := fiber.New()
	h.RegisterRoutes(app.Group("/api"))
	return app
}

func TestServeWsUnknownSession(t *testing.T) {
	resp, err := newSocketApp().Test(httptest.NewRequest(http.MethodGet, "/api/sessions/nope/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeWsRequiresUpgrade(t *testing.T) {
	resp, err := newSocketApp().Test(httptest.NewRequest(http.MethodGet, "/api/sessions/s-1/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
