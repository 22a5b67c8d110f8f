package domain

import (
	"strings"
	"time"
)

// Player represents a player in a lobby
type Player struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Role         Role      `json:"role,omitempty"`
	Word         string    `json:"word,omitempty"`
	IsHost       bool      `json:"isHost"` // Original creator, not the current host
	IsEliminated bool      `json:"isEliminated"`
	LastSeen     time.Time `json:"lastSeen"`
	TalkOrder    int       `json:"talkOrder,omitempty"` // 1-based among alive players, 0 when unranked
}

// NewPlayer creates a new player with the given ID and name
func NewPlayer(id, name string, now time.Time) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		LastSeen: now,
	}
}

// NormalizeName trims a display name and substitutes fallback when it is blank
func NormalizeName(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	return name
}

// ResetForLobby clears round state when the lobby returns to waiting.
// TalkOrder is left as is; it is meaningless until the next start.
func (p *Player) ResetForLobby() {
	p.Role = RoleNone
	p.Word = ""
	p.IsEliminated = false
}

// IsAlive returns true if the player has not been eliminated
func (p *Player) IsAlive() bool {
	return !p.IsEliminated
}

// Touch records a heartbeat
func (p *Player) Touch(now time.Time) {
	p.LastSeen = now
}

// PlayerInfo is a safe view of player data (hides role and word from other players)
type PlayerInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsHost        bool   `json:"isHost"`
	IsCurrentHost bool   `json:"isCurrentHost"`
	IsEliminated  bool   `json:"isEliminated"`
	TalkOrder     int    `json:"talkOrder,omitempty"`
}

// ToInfo converts a Player to PlayerInfo (without role or word)
func (p *Player) ToInfo(hostID string) PlayerInfo {
	return PlayerInfo{
		ID:            p.ID,
		Name:          p.Name,
		IsHost:        p.IsHost,
		IsCurrentHost: p.ID == hostID,
		IsEliminated:  p.IsEliminated,
		TalkOrder:     p.TalkOrder,
	}
}
