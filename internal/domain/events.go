package domain

import "time"

// EventType represents the type of lobby event
type EventType string

const (
	EventLobbyCreated     EventType = "LOBBY_CREATED"
	EventPlayerJoined     EventType = "PLAYER_JOINED"
	EventPlayerKicked     EventType = "PLAYER_KICKED"
	EventPlayersPruned    EventType = "PLAYERS_PRUNED"
	EventSettingsUpdated  EventType = "SETTINGS_UPDATED"
	EventRoundStarted     EventType = "ROUND_STARTED"
	EventPlayerEliminated EventType = "PLAYER_ELIMINATED"
	EventGuessSubmitted   EventType = "GUESS_SUBMITTED"
	EventLobbyReset       EventType = "LOBBY_RESET"
)

// LobbyEvent is published after a change to a lobby has been committed
type LobbyEvent struct {
	Type      EventType `json:"type"`
	Code      string    `json:"code"`
	Lobby     LobbyView `json:"lobby"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates a new lobby event
func NewEvent(eventType EventType, view LobbyView) *LobbyEvent {
	return &LobbyEvent{
		Type:      eventType,
		Code:      view.Code,
		Lobby:     view,
		Timestamp: time.Now(),
	}
}
