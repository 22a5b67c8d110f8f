package domain

// LobbyView is what every participant may see: no host secret, roles or words
type LobbyView struct {
	Code             string       `json:"code"`
	HostID           string       `json:"hostId"`
	Status           Status       `json:"status"`
	Winner           Faction      `json:"winner,omitempty"`
	WinnerLabel      string       `json:"winnerLabel,omitempty"`
	Settings         RoleCounts   `json:"settings"`
	Players          []PlayerInfo `json:"players"`
	SpeakingOrder    []string     `json:"speakingOrder,omitempty"`
	PendingGuesserID string       `json:"pendingGuesserId,omitempty"`
	Round            int          `json:"round"`
	CanStart         bool         `json:"canStart"`
}

// View builds the public view of the lobby
func (l *Lobby) View(vocab Vocabulary) LobbyView {
	players := make([]PlayerInfo, 0, len(l.Players))
	for _, p := range l.Players {
		players = append(players, p.ToInfo(l.HostID))
	}

	v := LobbyView{
		Code:             l.Code,
		HostID:           l.HostID,
		Status:           l.Status,
		Winner:           l.Winner,
		WinnerLabel:      vocab.FactionLabel(l.Winner),
		Settings:         l.Settings,
		Players:          players,
		PendingGuesserID: l.PendingGuesserID,
		Round:            l.Round,
		CanStart:         l.CheckStartable() == nil,
	}

	if l.Status.InRound() {
		for _, p := range SpeakingOrder(l.Players) {
			v.SpeakingOrder = append(v.SpeakingOrder, p.ID)
		}
	}

	return v
}

// PlayerSelf is a player's own view of themselves, including the secret word
type PlayerSelf struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Role          Role   `json:"role,omitempty"`
	RoleLabel     string `json:"roleLabel,omitempty"`
	Word          string `json:"word,omitempty"`
	IsHost        bool   `json:"isHost"`
	IsCurrentHost bool   `json:"isCurrentHost"`
	IsEliminated  bool   `json:"isEliminated"`
	TalkOrder     int    `json:"talkOrder,omitempty"`
}

// PlayerState is returned to a single player polling their own state
type PlayerState struct {
	LobbyStatus Status     `json:"lobbyStatus"`
	Winner      Faction    `json:"winner,omitempty"`
	Player      PlayerSelf `json:"player"`
}

// StateFor returns the private state of one player
func (l *Lobby) StateFor(playerID string, vocab Vocabulary) (*PlayerState, error) {
	p, err := l.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}

	return &PlayerState{
		LobbyStatus: l.Status,
		Winner:      l.Winner,
		Player: PlayerSelf{
			ID:            p.ID,
			Name:          p.Name,
			Role:          p.Role,
			RoleLabel:     vocab.Label(p.Role),
			Word:          p.Word,
			IsHost:        p.IsHost,
			IsCurrentHost: l.IsHost(p.ID),
			IsEliminated:  p.IsEliminated,
			TalkOrder:     p.TalkOrder,
		},
	}, nil
}
