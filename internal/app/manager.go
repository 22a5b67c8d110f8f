package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"undercover/internal/domain"
	"undercover/internal/store"
)

// DefaultMaxRetries bounds how often a write is retried after losing a
// compare-and-swap race against another process
const DefaultMaxRetries = 5

// touchInterval is the minimum gap between two stored heartbeats of a player
const touchInterval = time.Second

// errUnchanged lets an update function report a successful no-op
var errUnchanged = errors.New("unchanged")

// CreateResult is returned by CreateLobby
type CreateResult struct {
	Lobby      *domain.Lobby
	Host       *domain.Player
	HostSecret string
}

// JoinResult is returned by JoinLobby
type JoinResult struct {
	Lobby  *domain.Lobby
	Player *domain.Player
}

// EliminateResult is returned by Eliminate
type EliminateResult struct {
	Lobby          *domain.Lobby
	GuessTriggered bool
}

// GuessResult is returned by SubmitGuess
type GuessResult struct {
	Lobby   *domain.Lobby
	Correct bool
}

// Manager runs lobby lifecycle operations against a Store. Each operation
// loads one lobby, mutates a copy and commits it with compare-and-swap;
// operations on the same code are also serialized in-process.
type Manager struct {
	store   store.Store
	catalog *Catalog
	feed    *Feed
	vocab   domain.Vocabulary
	logger  *slog.Logger

	rng        domain.Rand
	now        func() time.Time
	newCode    func() (string, error)
	maxRetries int

	locks lockTable
}

// Option configures a Manager
type Option func(*Manager)

// WithFeed publishes committed changes to feed
func WithFeed(feed *Feed) Option {
	return func(m *Manager) { m.feed = feed }
}

// WithVocabulary sets the faction names used in views
func WithVocabulary(v domain.Vocabulary) Option {
	return func(m *Manager) { m.vocab = v }
}

// WithRand sets the random source for shuffles and word picks. Rounds of
// different lobbies may start concurrently, so rng must be goroutine-safe
// unless starts are serialized by the caller.
func WithRand(rng domain.Rand) Option {
	return func(m *Manager) { m.rng = rng }
}

// WithClock sets the time source
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithCodeGenerator replaces the lobby code generator
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(m *Manager) { m.newCode = gen }
}

// WithMaxRetries sets how many compare-and-swap conflicts are retried
func WithMaxRetries(n int) Option {
	return func(m *Manager) { m.maxRetries = n }
}

// NewManager creates a lifecycle manager
func NewManager(st store.Store, catalog *Catalog, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:      st,
		catalog:    catalog,
		vocab:      domain.VocabularyUndercover,
		logger:     logger,
		rng:        domain.DefaultRand,
		now:        time.Now,
		newCode:    NewLobbyCode,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Vocabulary returns the configured faction names
func (m *Manager) Vocabulary() domain.Vocabulary {
	return m.vocab
}

// View returns the public view of a lobby
func (m *Manager) View(l *domain.Lobby) domain.LobbyView {
	return l.View(m.vocab)
}

// CreateLobby creates a lobby hosted by a new player
func (m *Manager) CreateLobby(ctx context.Context, hostName string, settings domain.RoleCounts) (*CreateResult, error) {
	settings = settings.Normalize()
	if settings.Total() <= 0 {
		return nil, domain.ErrNoRoles
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	secret, err := NewHostSecret()
	if err != nil {
		return nil, err
	}

	for attempts := 0; attempts < MaxCodeAttempts; attempts++ {
		code, err := m.newCode()
		if err != nil {
			return nil, err
		}

		host := domain.NewPlayer(NewPlayerID(), domain.NormalizeName(hostName, "Host"), m.now())
		lobby := domain.NewLobby(code, secret, host, settings, m.now())

		err = m.store.Create(ctx, lobby)
		if errors.Is(err, store.ErrExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStorage, err)
		}

		m.logger.Info("lobby created", "code", code, "hostID", host.ID)
		m.publish(domain.EventLobbyCreated, lobby)

		return &CreateResult{Lobby: lobby, Host: host, HostSecret: secret}, nil
	}

	return nil, fmt.Errorf("%w: no free lobby code after %d attempts", domain.ErrStorage, MaxCodeAttempts)
}

// JoinLobby adds a player to a waiting lobby. A matching host secret makes
// the new player the host.
func (m *Manager) JoinLobby(ctx context.Context, code, name, hostSecret string) (*JoinResult, error) {
	var joined *domain.Player

	lobby, err := m.update(ctx, code, domain.EventPlayerJoined, func(l *domain.Lobby) error {
		joined = domain.NewPlayer(NewPlayerID(), domain.NormalizeName(name, "Player"), m.now())
		return l.AddPlayer(joined, hostSecret)
	})
	if err != nil {
		return nil, err
	}

	if lobby.IsHost(joined.ID) {
		m.logger.Info("host reclaimed", "code", lobby.Code, "playerID", joined.ID)
	}

	return &JoinResult{Lobby: lobby, Player: joined}, nil
}

// GetLobby returns the full lobby
func (m *Manager) GetLobby(ctx context.Context, code string) (*domain.Lobby, error) {
	return m.load(ctx, store.NormalizeCode(code))
}

// GetPlayerState returns a player's private state and refreshes their heartbeat
func (m *Manager) GetPlayerState(ctx context.Context, code, playerID string) (*domain.PlayerState, error) {
	lobby, err := m.load(ctx, store.NormalizeCode(code))
	if err != nil {
		return nil, err
	}

	state, err := lobby.StateFor(playerID, m.vocab)
	if err != nil {
		return nil, err
	}

	m.touch(ctx, lobby, playerID)

	return state, nil
}

// Heartbeat records that a player is still around
func (m *Manager) Heartbeat(ctx context.Context, code, playerID string) error {
	lobby, err := m.load(ctx, store.NormalizeCode(code))
	if err != nil {
		return err
	}
	if _, err := lobby.GetPlayer(playerID); err != nil {
		return err
	}

	m.touch(ctx, lobby, playerID)
	return nil
}

// touch is a single best-effort write; losing a race just drops the heartbeat.
// It holds the lobby lock so heartbeats never make in-process updates retry.
func (m *Manager) touch(ctx context.Context, lobby *domain.Lobby, playerID string) {
	now := m.now()
	if p, err := lobby.GetPlayer(playerID); err != nil || now.Sub(p.LastSeen) < touchInterval {
		return
	}

	unlock := m.locks.lock(lobby.Code)
	defer unlock()

	current, err := m.store.Get(ctx, lobby.Code)
	if err != nil {
		return
	}
	if err := current.Touch(playerID, now); err != nil {
		return
	}
	if err := m.store.CompareAndSwap(ctx, current); err != nil {
		m.logger.Debug("heartbeat dropped", "code", lobby.Code, "playerID", playerID, "error", err)
	}
}

// KickFromLobby removes a player before the game starts (host only)
func (m *Manager) KickFromLobby(ctx context.Context, code, hostID, targetID string) (*domain.Lobby, error) {
	return m.update(ctx, code, domain.EventPlayerKicked, func(l *domain.Lobby) error {
		return l.RemovePlayer(hostID, targetID)
	})
}

// UpdateSettings replaces the role counts (host only, waiting only)
func (m *Manager) UpdateSettings(ctx context.Context, code, hostID string, settings domain.RoleCounts) (*domain.Lobby, error) {
	return m.update(ctx, code, domain.EventSettingsUpdated, func(l *domain.Lobby) error {
		return l.UpdateSettings(hostID, settings)
	})
}

// StartGame deals roles and words. Starting a lobby that is not waiting
// returns it unchanged, so a double submission is harmless.
func (m *Manager) StartGame(ctx context.Context, code string) (*domain.Lobby, error) {
	lobby, err := m.update(ctx, code, domain.EventRoundStarted, func(l *domain.Lobby) error {
		if l.Status != domain.StatusWaiting {
			return errUnchanged
		}
		return l.StartRound(m.rng, m.catalog)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("round started", "code", lobby.Code, "round", lobby.Round, "players", len(lobby.Players))
	return lobby, nil
}

// Eliminate marks a player out (host only)
func (m *Manager) Eliminate(ctx context.Context, code, hostID, targetID string) (*EliminateResult, error) {
	var triggered bool

	lobby, err := m.update(ctx, code, domain.EventPlayerEliminated, func(l *domain.Lobby) error {
		guess, changed, err := l.Eliminate(hostID, targetID)
		if err != nil {
			return err
		}
		triggered = guess
		if !changed {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if lobby.Status == domain.StatusFinished {
		m.logger.Info("game finished", "code", lobby.Code, "winner", lobby.Winner)
	}

	return &EliminateResult{Lobby: lobby, GuessTriggered: triggered}, nil
}

// SubmitGuess resolves the wordless player's guess
func (m *Manager) SubmitGuess(ctx context.Context, code, playerID, guess string) (*GuessResult, error) {
	var correct bool

	lobby, err := m.update(ctx, code, domain.EventGuessSubmitted, func(l *domain.Lobby) error {
		ok, err := l.SubmitGuess(playerID, guess)
		correct = ok
		return err
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("guess submitted", "code", lobby.Code, "playerID", playerID, "correct", correct)
	return &GuessResult{Lobby: lobby, Correct: correct}, nil
}

// ResetLobby returns the lobby to waiting (host only, any phase)
func (m *Manager) ResetLobby(ctx context.Context, code, hostID string) (*domain.Lobby, error) {
	return m.update(ctx, code, domain.EventLobbyReset, func(l *domain.Lobby) error {
		return l.Reset(hostID)
	})
}

// CountLobbies returns the number of stored lobbies
func (m *Manager) CountLobbies(ctx context.Context) (int, error) {
	codes, err := m.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	return len(codes), nil
}

// update runs fn against a copy of the lobby and commits it. fn must not
// keep references into the lobby beyond the call; it may run more than once.
func (m *Manager) update(ctx context.Context, code string, event domain.EventType, fn func(*domain.Lobby) error) (*domain.Lobby, error) {
	code = store.NormalizeCode(code)

	unlock := m.locks.lock(code)
	defer unlock()

	for attempt := 0; ; attempt++ {
		current, err := m.load(ctx, code)
		if err != nil {
			return nil, err
		}

		next := current.Clone()
		if err := fn(next); err != nil {
			if errors.Is(err, errUnchanged) {
				return current, nil
			}
			return nil, err
		}

		err = m.store.CompareAndSwap(ctx, next)
		if err == nil {
			m.publish(event, next)
			return next, nil
		}
		if errors.Is(err, store.ErrConflict) {
			if attempt < m.maxRetries {
				m.logger.Debug("lobby write conflict, retrying", "code", code, "attempt", attempt+1)
				continue
			}
			m.logger.Warn("lobby write kept conflicting", "code", code, "attempts", attempt+1)
			return nil, domain.ErrLobbyBusy
		}
		return nil, m.storageError(err)
	}
}

func (m *Manager) load(ctx context.Context, code string) (*domain.Lobby, error) {
	if code == "" {
		return nil, domain.ErrLobbyNotFound
	}
	lobby, err := m.store.Get(ctx, code)
	if err != nil {
		return nil, m.storageError(err)
	}
	return lobby, nil
}

func (m *Manager) storageError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrLobbyNotFound
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}

func (m *Manager) publish(event domain.EventType, l *domain.Lobby) {
	if m.feed == nil {
		return
	}
	m.feed.Publish(domain.NewEvent(event, m.View(l)))
}

// lockTable hands out one mutex per lobby code, dropping it when unused
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (t *lockTable) lock(key string) func() {
	t.mu.Lock()
	if t.locks == nil {
		t.locks = make(map[string]*lockEntry)
	}
	e, ok := t.locks[key]
	if !ok {
		e = &lockEntry{}
		t.locks[key] = e
	}
	e.refs++
	t.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		t.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(t.locks, key)
		}
		t.mu.Unlock()
	}
}
