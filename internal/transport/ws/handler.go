package ws

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"undercover/internal/app"
	"undercover/internal/domain"
)

// Handler upgrades lobby members to a live feed connection
type Handler struct {
	manager  *app.Manager
	feed     *app.Feed
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(manager *app.Manager, feed *app.Feed, logger *slog.Logger) *Handler {
	return &Handler{
		manager: manager,
		feed:    feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The lobby code and player ID are the only credentials; origin adds nothing.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP handles GET /ws?code=...&playerId=...
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	playerID := r.URL.Query().Get("playerId")
	if code == "" || playerID == "" {
		http.Error(w, "code and playerId are required", http.StatusBadRequest)
		return
	}

	lobby, err := h.manager.GetLobby(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Lobby not found", http.StatusNotFound)
		} else {
			http.Error(w, "Storage unavailable", http.StatusServiceUnavailable)
		}
		return
	}

	state, err := h.manager.GetPlayerState(r.Context(), code, playerID)
	if err != nil {
		http.Error(w, "Player not in lobby", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, h.manager, h.feed, lobby.Code, playerID, h.logger)

	h.logger.Info("websocket connected", "code", lobby.Code, "playerID", playerID)

	client.sendConnected(lobby, state)
	client.Run()
}
