package ws

import (
	"encoding/json"
	"errors"
	"time"

	"undercover/internal/domain"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgPing           MessageType = "ping"
	MsgHeartbeat      MessageType = "heartbeat"
	MsgGetState       MessageType = "get_state"
	MsgStartGame      MessageType = "start_game"
	MsgKickPlayer     MessageType = "kick_player"
	MsgUpdateSettings MessageType = "update_settings"
	MsgEliminate      MessageType = "eliminate"
	MsgSubmitGuess    MessageType = "submit_guess"
	MsgResetLobby     MessageType = "reset_lobby"
)

// Server → Client message types
const (
	MsgConnected   MessageType = "connected"
	MsgError       MessageType = "error"
	MsgLobbyUpdate MessageType = "lobby_update"
	MsgPlayerState MessageType = "player_state"
	MsgGuessResult MessageType = "guess_result"
	MsgPong        MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload any) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// TargetPayload is the payload for kick_player and eliminate
type TargetPayload struct {
	TargetID string `json:"targetId"`
}

// SettingsPayload is the payload for update_settings
type SettingsPayload struct {
	Settings domain.RoleCounts `json:"settings"`
}

// GuessPayload is the payload for submit_guess
type GuessPayload struct {
	Guess string `json:"guess"`
}

// Server message payloads

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	PlayerID string              `json:"playerId"`
	Lobby    domain.LobbyView    `json:"lobby"`
	State    *domain.PlayerState `json:"state"`
}

// LobbyUpdatePayload is the payload for lobby_update message
type LobbyUpdatePayload struct {
	Event domain.EventType `json:"event"`
	Lobby domain.LobbyView `json:"lobby"`
}

// GuessResultPayload is the payload for guess_result message
type GuessResultPayload struct {
	Correct bool `json:"correct"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeNotHost        = "NOT_HOST"
	ErrCodeInvalidPhase   = "INVALID_PHASE"
	ErrCodeValidation     = "VALIDATION_FAILED"
	ErrCodeCountMismatch  = "PLAYER_COUNT_MISMATCH"
	ErrCodeExhausted      = "CATALOG_EXHAUSTED"
	ErrCodeBusy           = "LOBBY_BUSY"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// errorCode maps an engine error to its wire code
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, domain.ErrForbidden):
		return ErrCodeNotHost
	case errors.Is(err, domain.ErrInvalidPhase):
		return ErrCodeInvalidPhase
	case errors.Is(err, domain.ErrValidation):
		return ErrCodeValidation
	case errors.Is(err, domain.ErrPlayerCountMismatch):
		return ErrCodeCountMismatch
	case errors.Is(err, domain.ErrCatalogExhausted):
		return ErrCodeExhausted
	case errors.Is(err, domain.ErrBusy):
		return ErrCodeBusy
	}
	return ErrCodeInternalError
}
