package domain

import (
	"fmt"
	"strings"
	"time"
)

// PairPicker hands out word pairs a lobby has not used yet
type PairPicker interface {
	PickUnused(used []int, rng Rand) (WordPair, int, error)
}

// Lobby is the aggregate root of one game session. Every operation is a
// read-modify-write of one Lobby; methods mutate in place and leave the
// lobby untouched when they return an error.
type Lobby struct {
	Code             string     `json:"code"`
	HostID           string     `json:"hostId"`
	HostSecret       string     `json:"hostSecret"`
	Players          []*Player  `json:"players"`
	Settings         RoleCounts `json:"settings"`
	Status           Status     `json:"status"`
	Winner           Faction    `json:"winner,omitempty"`
	PrimaryWord      string     `json:"primaryWord,omitempty"`
	DecoyWord        string     `json:"decoyWord,omitempty"`
	PendingGuesserID string     `json:"pendingGuesserId,omitempty"`
	UsedWordIndices  []int      `json:"usedWordIndices"`
	Round            int        `json:"round"`
	CreatedAt        time.Time  `json:"createdAt"`

	// Version is owned by the store and bumped on every committed write
	Version int64 `json:"version"`
}

// NewLobby creates a waiting lobby hosted by host
func NewLobby(code, hostSecret string, host *Player, settings RoleCounts, now time.Time) *Lobby {
	host.IsHost = true
	host.IsEliminated = false

	return &Lobby{
		Code:            code,
		HostID:          host.ID,
		HostSecret:      hostSecret,
		Players:         []*Player{host},
		Settings:        settings.Normalize(),
		Status:          StatusWaiting,
		UsedWordIndices: make([]int, 0),
		CreatedAt:       now,
	}
}

// Clone returns a deep copy, so a failed operation can be discarded
func (l *Lobby) Clone() *Lobby {
	c := *l
	c.Players = make([]*Player, len(l.Players))
	for i, p := range l.Players {
		cp := *p
		c.Players[i] = &cp
	}
	c.UsedWordIndices = append(make([]int, 0, len(l.UsedWordIndices)), l.UsedWordIndices...)
	return &c
}

// GetPlayer returns a player by ID
func (l *Lobby) GetPlayer(playerID string) (*Player, error) {
	for _, p := range l.Players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// IsHost checks if the given player currently holds host privileges
func (l *Lobby) IsHost(playerID string) bool {
	return playerID != "" && l.HostID == playerID
}

// AlivePlayers returns the players not yet eliminated, in join order
func (l *Lobby) AlivePlayers() []*Player {
	alive := make([]*Player, 0, len(l.Players))
	for _, p := range l.Players {
		if p.IsAlive() {
			alive = append(alive, p)
		}
	}
	return alive
}

func (l *Lobby) transition(target Status) error {
	if !l.Status.CanTransitionTo(target) {
		return newError(ErrInvalidPhase, fmt.Sprintf("cannot move from %s to %s", l.Status, target))
	}
	l.Status = target
	return nil
}

// AddPlayer appends a player. A secret matching HostSecret hands host
// privileges to the new player; repeated reclaims simply move the host again.
func (l *Lobby) AddPlayer(p *Player, secret string) error {
	if l.Status != StatusWaiting {
		return ErrLobbyNotJoinable
	}
	if len(l.Players) >= MaxPlayers {
		return ErrLobbyFull
	}

	p.IsHost = false
	p.IsEliminated = false
	l.Players = append(l.Players, p)

	if secret != "" && secret == l.HostSecret {
		l.HostID = p.ID
	}

	return nil
}

// RemovePlayer removes a player from the lobby (host only, waiting only)
func (l *Lobby) RemovePlayer(hostID, targetID string) error {
	if !l.IsHost(hostID) {
		return ErrNotHost
	}
	if l.Status != StatusWaiting {
		return ErrNotWaiting
	}
	if targetID == l.HostID {
		return ErrCannotKickHost
	}

	for i, p := range l.Players {
		if p.ID == targetID {
			l.Players = append(l.Players[:i], l.Players[i+1:]...)
			return nil
		}
	}
	return ErrPlayerNotFound
}

// UpdateSettings replaces the role counts (host only, waiting only).
// The total is only checked against the player count at start.
func (l *Lobby) UpdateSettings(hostID string, counts RoleCounts) error {
	if !l.IsHost(hostID) {
		return ErrNotHost
	}
	if l.Status != StatusWaiting {
		return ErrNotWaiting
	}

	counts = counts.Normalize()
	if err := counts.Validate(); err != nil {
		return err
	}

	l.Settings = counts
	return nil
}

// CheckStartable reports why the lobby cannot start a round, if anything
func (l *Lobby) CheckStartable() error {
	if l.Status != StatusWaiting {
		return ErrNotWaiting
	}
	if err := l.Settings.Validate(); err != nil {
		return err
	}
	if total := l.Settings.Total(); total != len(l.Players) {
		return newError(ErrPlayerCountMismatch,
			fmt.Sprintf("player count (%d) must equal total roles (%d)", len(l.Players), total))
	}
	return nil
}

// StartRound deals a fresh word pair and roles, and a random speaking order
func (l *Lobby) StartRound(rng Rand, picker PairPicker) error {
	if err := l.CheckStartable(); err != nil {
		return err
	}

	pair, index, err := picker.PickUnused(l.UsedWordIndices, rng)
	if err != nil {
		return err
	}

	assignments := AssignRoles(rng, l.Settings, pair)
	for i, p := range l.Players {
		p.Role = assignments[i].Role
		p.Word = assignments[i].Word
		p.IsEliminated = false
	}
	DealTalkOrder(rng, l.Players)

	if err := l.transition(StatusStarted); err != nil {
		return err
	}
	l.UsedWordIndices = append(l.UsedWordIndices, index)
	l.PrimaryWord = pair.Primary
	l.DecoyWord = pair.Decoy
	l.Winner = FactionNone
	l.PendingGuesserID = ""
	l.Round++

	return nil
}

// Reset returns the lobby to waiting, keeping players and used word pairs
func (l *Lobby) Reset(hostID string) error {
	if !l.IsHost(hostID) {
		return ErrNotHost
	}

	l.Status = StatusWaiting
	l.Winner = FactionNone
	l.PendingGuesserID = ""
	l.PrimaryWord = ""
	l.DecoyWord = ""

	for _, p := range l.Players {
		p.ResetForLobby()
	}

	return nil
}

// Eliminate marks a player out. It reports whether the round is now paused
// for a guess and whether anything changed; eliminating an already eliminated
// player is a successful no-op.
func (l *Lobby) Eliminate(hostID, targetID string) (guessTriggered, changed bool, err error) {
	if !l.IsHost(hostID) {
		return false, false, ErrNotHost
	}
	if !l.Status.InRound() {
		return false, false, ErrNotInRound
	}

	target, err := l.GetPlayer(targetID)
	if err != nil {
		return false, false, err
	}
	if target.IsEliminated {
		return false, false, nil
	}

	target.IsEliminated = true
	RerankTalkOrder(l.Players)

	if target.Role.IsWordless() {
		l.Status = StatusPendingGuess
		l.PendingGuesserID = target.ID
		return true, true, nil
	}

	l.PendingGuesserID = ""
	l.Status = StatusStarted
	l.checkWin()

	return l.Status == StatusPendingGuess, true, nil
}

// SubmitGuess resolves the pending wordless guess. A correct guess ends the
// game for the wordless faction; a wrong one resumes play.
func (l *Lobby) SubmitGuess(playerID, guess string) (bool, error) {
	if l.Status != StatusPendingGuess || playerID == "" || playerID != l.PendingGuesserID {
		return false, ErrGuessNotApplicable
	}

	guesser, err := l.GetPlayer(playerID)
	if err != nil {
		return false, ErrGuessNotApplicable
	}

	l.PendingGuesserID = ""

	if normalizeGuess(guess) == normalizeGuess(l.PrimaryWord) {
		l.Status = StatusFinished
		l.Winner = FactionWordless
		return true, nil
	}

	// A last stand from an alive player is spent once it misses.
	guesser.IsEliminated = true
	l.Status = StatusStarted
	RerankTalkOrder(l.Players)
	l.checkWin()

	return false, nil
}

func normalizeGuess(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// checkWin settles the round after an elimination or a missed guess.
// With nobody alive at all the status is left untouched.
func (l *Lobby) checkWin() {
	if !l.Status.InRound() {
		return
	}

	alive := l.AlivePlayers()
	factions := make(map[Faction]int, 3)
	var wordless []*Player
	for _, p := range alive {
		factions[p.Role.Faction()]++
		if p.Role.IsWordless() {
			wordless = append(wordless, p)
		}
	}

	// Last stand: a lone wordless player facing at most one opponent guesses
	// before the round can end.
	if len(wordless) == 1 && len(alive) <= 2 {
		l.Status = StatusPendingGuess
		l.PendingGuesserID = wordless[0].ID
		return
	}

	if len(factions) != 1 {
		return
	}
	for f := range factions {
		l.Status = StatusFinished
		l.Winner = f
		l.PendingGuesserID = ""
	}
}

// Touch refreshes a player's heartbeat
func (l *Lobby) Touch(playerID string, now time.Time) error {
	p, err := l.GetPlayer(playerID)
	if err != nil {
		return err
	}
	p.Touch(now)
	return nil
}

// PruneInactive removes players whose last heartbeat is older than timeout.
// Only applies while waiting; the current host is never pruned.
func (l *Lobby) PruneInactive(now time.Time, timeout time.Duration) []string {
	if l.Status != StatusWaiting || timeout <= 0 {
		return nil
	}

	var removed []string
	kept := l.Players[:0]
	for _, p := range l.Players {
		if p.ID != l.HostID && now.Sub(p.LastSeen) > timeout {
			removed = append(removed, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	l.Players = kept

	return removed
}
