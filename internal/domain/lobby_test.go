package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// stubPicker hands out its pairs in index order
type stubPicker struct {
	pairs []WordPair
}

func (s stubPicker) PickUnused(used []int, _ Rand) (WordPair, int, error) {
	for i, p := range s.pairs {
		if !slices.Contains(used, i) {
			return p, i, nil
		}
	}
	return WordPair{}, 0, ErrPairsExhausted
}

func testPicker(n int) stubPicker {
	pairs := make([]WordPair, n)
	for i := range pairs {
		pairs[i] = WordPair{Primary: fmt.Sprintf("Primary%d", i), Decoy: fmt.Sprintf("Decoy%d", i)}
	}
	return stubPicker{pairs: pairs}
}

func testRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// newTestLobby creates a waiting lobby with players p0..p(n-1); p0 hosts
func newTestLobby(t *testing.T, n int, counts RoleCounts) *Lobby {
	t.Helper()

	l := NewLobby("ABCDE", "9876", NewPlayer("p0", "Host", testNow), counts, testNow)
	for i := 1; i < n; i++ {
		require.NoError(t, l.AddPlayer(NewPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i), testNow), ""))
	}
	return l
}

// inRound deals roles in join order with the pair Cat/Dog and starts the round
func inRound(t *testing.T, roles ...Role) *Lobby {
	t.Helper()

	l := newTestLobby(t, len(roles), RoleCounts{})
	pair := WordPair{Primary: "Cat", Decoy: "Dog"}
	for i, r := range roles {
		l.Players[i].Role = r
		l.Players[i].Word = pair.WordFor(r)
		l.Players[i].TalkOrder = i + 1
	}
	l.Status = StatusStarted
	l.PrimaryWord = pair.Primary
	l.DecoyWord = pair.Decoy
	l.Round = 1
	return l
}

func countRoles(l *Lobby) map[Role]int {
	out := make(map[Role]int)
	for _, p := range l.Players {
		out[p.Role]++
	}
	return out
}

func TestStartRoundDealsRoles(t *testing.T) {
	tests := []struct {
		name   string
		counts RoleCounts
	}{
		{"primary only", RoleCounts{Primary: 3}},
		{"classic", RoleCounts{Primary: 4, Decoy: 1, Wordless: 1}},
		{"many decoys", RoleCounts{Primary: 2, Decoy: 3}},
		{"wordless only", RoleCounts{Wordless: 2}},
		{"single player", RoleCounts{Decoy: 1}},
	}

	for _, tt := range tests {
		for seed := uint64(0); seed < 20; seed++ {
			t.Run(fmt.Sprintf("%s/seed%d", tt.name, seed), func(t *testing.T) {
				l := newTestLobby(t, tt.counts.Total(), tt.counts)
				ids := make([]string, len(l.Players))
				for i, p := range l.Players {
					ids[i] = p.ID
				}

				require.NoError(t, l.StartRound(testRand(seed), testPicker(3)))

				assert.Equal(t, StatusStarted, l.Status)
				assert.Equal(t, 1, l.Round)
				assert.Equal(t, []int{0}, l.UsedWordIndices)
				assert.Equal(t, FactionNone, l.Winner)
				assert.Empty(t, l.PendingGuesserID)

				roles := countRoles(l)
				assert.Equal(t, tt.counts.Primary, roles[RolePrimary])
				assert.Equal(t, tt.counts.Decoy, roles[RoleDecoy])
				assert.Equal(t, tt.counts.Wordless, roles[RoleWordless])

				orders := make([]int, 0, len(l.Players))
				for i, p := range l.Players {
					assert.Equal(t, ids[i], p.ID, "players are never reordered")
					assert.False(t, p.IsEliminated)
					assert.Equal(t, WordPair{Primary: "Primary0", Decoy: "Decoy0"}.WordFor(p.Role), p.Word)
					orders = append(orders, p.TalkOrder)
				}
				slices.Sort(orders)
				for i, o := range orders {
					assert.Equal(t, i+1, o, "talk order is a permutation of 1..N")
				}
			})
		}
	}
}

func TestStartRoundPlayerCountMismatch(t *testing.T) {
	tests := []struct {
		name    string
		players int
		counts  RoleCounts
	}{
		{"too few roles", 4, RoleCounts{Primary: 2, Decoy: 1}},
		{"too many roles", 2, RoleCounts{Primary: 2, Decoy: 1}},
		{"no roles", 3, RoleCounts{}},
		{"no players", 0, RoleCounts{Primary: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLobby(t, max(tt.players, 1), tt.counts)
			if tt.players == 0 {
				l.Players = nil
			}

			err := l.StartRound(testRand(1), testPicker(3))
			require.ErrorIs(t, err, ErrPlayerCountMismatch)

			assert.Equal(t, StatusWaiting, l.Status)
			assert.Empty(t, l.UsedWordIndices)
			for _, p := range l.Players {
				assert.Equal(t, RoleNone, p.Role)
			}
		})
	}
}

func TestStartRoundNotWaiting(t *testing.T) {
	for _, status := range []Status{StatusStarted, StatusPendingGuess, StatusFinished} {
		t.Run(string(status), func(t *testing.T) {
			l := newTestLobby(t, 3, RoleCounts{Primary: 3})
			l.Status = status

			assert.ErrorIs(t, l.StartRound(testRand(1), testPicker(3)), ErrInvalidPhase)
		})
	}
}

func TestUsedWordIndicesNeverRepeat(t *testing.T) {
	l := newTestLobby(t, 3, RoleCounts{Primary: 2, Decoy: 1})
	picker := testPicker(4)

	for round := 1; round <= 4; round++ {
		require.NoError(t, l.StartRound(testRand(uint64(round)), picker))
		require.Len(t, l.UsedWordIndices, round)
		require.NoError(t, l.Reset("p0"))
		assert.Len(t, l.UsedWordIndices, round, "reset keeps used pairs")
	}

	seen := make(map[int]bool)
	for _, i := range l.UsedWordIndices {
		assert.False(t, seen[i], "pair %d dealt twice", i)
		seen[i] = true
	}

	err := l.StartRound(testRand(9), picker)
	require.ErrorIs(t, err, ErrCatalogExhausted)
	assert.Equal(t, StatusWaiting, l.Status)
	assert.Len(t, l.UsedWordIndices, 4)
}

func TestResetThenStartRoundTrip(t *testing.T) {
	l := newTestLobby(t, 4, RoleCounts{Primary: 2, Decoy: 1, Wordless: 1})
	require.NoError(t, l.StartRound(testRand(3), testPicker(5)))

	_, _, err := l.Eliminate("p0", "p1")
	require.NoError(t, err)

	require.NoError(t, l.Reset("p0"))
	assert.Equal(t, StatusWaiting, l.Status)
	assert.Equal(t, FactionNone, l.Winner)
	assert.Empty(t, l.PrimaryWord)
	assert.Empty(t, l.DecoyWord)
	for _, p := range l.Players {
		assert.Equal(t, RoleNone, p.Role)
		assert.Empty(t, p.Word)
		assert.False(t, p.IsEliminated)
	}

	require.NoError(t, l.StartRound(testRand(4), testPicker(5)))
	assert.Equal(t, StatusStarted, l.Status)
	assert.Equal(t, 2, l.Round)
	assert.Equal(t, []int{0, 1}, l.UsedWordIndices)
	assert.Equal(t, "Primary1", l.PrimaryWord)
	for _, p := range l.Players {
		assert.False(t, p.IsEliminated)
		assert.NotEqual(t, RoleNone, p.Role)
	}
}

func TestResetHostOnlyFromAnyPhase(t *testing.T) {
	for _, status := range []Status{StatusWaiting, StatusStarted, StatusPendingGuess, StatusFinished} {
		t.Run(string(status), func(t *testing.T) {
			l := inRound(t, RolePrimary, RoleDecoy, RoleWordless)
			l.Status = status

			assert.ErrorIs(t, l.Reset("p1"), ErrForbidden)
			require.NoError(t, l.Reset("p0"))
			assert.Equal(t, StatusWaiting, l.Status)
		})
	}
}

func TestEliminate(t *testing.T) {
	tests := []struct {
		name          string
		roles         []Role
		target        string
		wantStatus    Status
		wantWinner    Faction
		wantTriggered bool
		wantGuesser   string
	}{
		{
			name:       "primary faction wins",
			roles:      []Role{RolePrimary, RolePrimary, RoleDecoy},
			target:     "p2",
			wantStatus: StatusFinished,
			wantWinner: FactionPrimary,
		},
		{
			name:       "decoy faction wins",
			roles:      []Role{RolePrimary, RoleDecoy, RoleDecoy},
			target:     "p0",
			wantStatus: StatusFinished,
			wantWinner: FactionDecoy,
		},
		{
			name:       "round continues",
			roles:      []Role{RolePrimary, RolePrimary, RolePrimary, RoleDecoy},
			target:     "p0",
			wantStatus: StatusStarted,
		},
		{
			name:          "wordless caught",
			roles:         []Role{RolePrimary, RolePrimary, RolePrimary, RoleWordless},
			target:        "p3",
			wantStatus:    StatusPendingGuess,
			wantTriggered: true,
			wantGuesser:   "p3",
		},
		{
			name:          "last stand with two alive",
			roles:         []Role{RolePrimary, RoleDecoy, RoleWordless},
			target:        "p0",
			wantStatus:    StatusPendingGuess,
			wantTriggered: true,
			wantGuesser:   "p2",
		},
		{
			name:          "last stand against own faction",
			roles:         []Role{RolePrimary, RolePrimary, RoleWordless},
			target:        "p1",
			wantStatus:    StatusPendingGuess,
			wantTriggered: true,
			wantGuesser:   "p2",
		},
		{
			name:       "two wordless left",
			roles:      []Role{RolePrimary, RoleWordless, RoleWordless},
			target:     "p0",
			wantStatus: StatusFinished,
			wantWinner: FactionWordless,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := inRound(t, tt.roles...)

			triggered, changed, err := l.Eliminate("p0", tt.target)
			require.NoError(t, err)

			assert.True(t, changed)
			assert.Equal(t, tt.wantTriggered, triggered)
			assert.Equal(t, tt.wantStatus, l.Status)
			assert.Equal(t, tt.wantWinner, l.Winner)
			assert.Equal(t, tt.wantGuesser, l.PendingGuesserID)

			target, err := l.GetPlayer(tt.target)
			require.NoError(t, err)
			assert.True(t, target.IsEliminated)
			assert.Zero(t, target.TalkOrder)
		})
	}
}

func TestEliminateIsIdempotent(t *testing.T) {
	l := inRound(t, RolePrimary, RolePrimary, RolePrimary, RoleDecoy)

	_, changed, err := l.Eliminate("p0", "p1")
	require.NoError(t, err)
	require.True(t, changed)
	before := l.Clone()

	triggered, changed, err := l.Eliminate("p0", "p1")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.False(t, triggered)
	assert.Equal(t, before, l)
}

func TestEliminateErrors(t *testing.T) {
	t.Run("not host", func(t *testing.T) {
		l := inRound(t, RolePrimary, RolePrimary, RoleDecoy)
		_, _, err := l.Eliminate("p1", "p2")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown target", func(t *testing.T) {
		l := inRound(t, RolePrimary, RolePrimary, RoleDecoy)
		_, _, err := l.Eliminate("p0", "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	for _, status := range []Status{StatusWaiting, StatusFinished} {
		t.Run(string(status), func(t *testing.T) {
			l := inRound(t, RolePrimary, RolePrimary, RoleDecoy)
			l.Status = status
			_, _, err := l.Eliminate("p0", "p1")
			assert.ErrorIs(t, err, ErrInvalidPhase)
			assert.False(t, l.Players[1].IsEliminated)
		})
	}
}

func TestEliminateDuringPendingGuessClearsIt(t *testing.T) {
	l := inRound(t, RolePrimary, RolePrimary, RoleDecoy, RoleWordless)

	triggered, _, err := l.Eliminate("p0", "p3")
	require.NoError(t, err)
	require.True(t, triggered)
	require.Equal(t, StatusPendingGuess, l.Status)

	triggered, _, err = l.Eliminate("p0", "p1")
	require.NoError(t, err)
	assert.False(t, triggered)
	assert.Equal(t, StatusStarted, l.Status)
	assert.Empty(t, l.PendingGuesserID)

	_, err = l.SubmitGuess("p3", "cat")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitGuess(t *testing.T) {
	tests := []struct {
		name        string
		roles       []Role
		eliminate   string
		guesser     string
		guess       string
		wantCorrect bool
		wantStatus  Status
		wantWinner  Faction
	}{
		{
			name:        "correct guess ignores case and spaces",
			roles:       []Role{RolePrimary, RolePrimary, RolePrimary, RoleWordless},
			eliminate:   "p3",
			guesser:     "p3",
			guess:       "  cAT ",
			wantCorrect: true,
			wantStatus:  StatusFinished,
			wantWinner:  FactionWordless,
		},
		{
			name:       "wrong guess hands primary the win",
			roles:      []Role{RolePrimary, RolePrimary, RolePrimary, RoleWordless},
			eliminate:  "p3",
			guesser:    "p3",
			guess:      "dog",
			wantStatus: StatusFinished,
			wantWinner: FactionPrimary,
		},
		{
			name:       "wrong guess resumes play",
			roles:      []Role{RolePrimary, RolePrimary, RoleDecoy, RoleWordless},
			eliminate:  "p3",
			guesser:    "p3",
			guess:      "mouse",
			wantStatus: StatusStarted,
		},
		{
			name:        "last stand guessed right",
			roles:       []Role{RolePrimary, RoleDecoy, RoleWordless},
			eliminate:   "p0",
			guesser:     "p2",
			guess:       "Cat",
			wantCorrect: true,
			wantStatus:  StatusFinished,
			wantWinner:  FactionWordless,
		},
		{
			name:       "last stand missed",
			roles:      []Role{RolePrimary, RoleDecoy, RoleWordless},
			eliminate:  "p0",
			guesser:    "p2",
			guess:      "Dog",
			wantStatus: StatusFinished,
			wantWinner: FactionDecoy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := inRound(t, tt.roles...)
			_, _, err := l.Eliminate("p0", tt.eliminate)
			require.NoError(t, err)
			require.Equal(t, StatusPendingGuess, l.Status)
			require.Equal(t, tt.guesser, l.PendingGuesserID)

			correct, err := l.SubmitGuess(tt.guesser, tt.guess)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCorrect, correct)
			assert.Equal(t, tt.wantStatus, l.Status)
			assert.Equal(t, tt.wantWinner, l.Winner)
			assert.Empty(t, l.PendingGuesserID)

			guesser, _ := l.GetPlayer(tt.guesser)
			assert.True(t, guesser.IsEliminated)
		})
	}
}

func TestSubmitGuessNotApplicable(t *testing.T) {
	l := inRound(t, RolePrimary, RolePrimary, RoleDecoy, RoleWordless)

	_, err := l.SubmitGuess("p3", "cat")
	assert.ErrorIs(t, err, ErrNotFound, "no pending guess yet")

	_, _, err = l.Eliminate("p0", "p3")
	require.NoError(t, err)

	_, err = l.SubmitGuess("p1", "cat")
	assert.ErrorIs(t, err, ErrNotFound, "only the pending guesser may guess")

	_, err = l.SubmitGuess("", "cat")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, StatusPendingGuess, l.Status)
}

func TestEveryoneEliminatedLeavesRoundOpen(t *testing.T) {
	l := inRound(t, RoleWordless, RoleWordless)

	_, _, err := l.Eliminate("p0", "p0")
	require.NoError(t, err)
	require.Equal(t, "p0", l.PendingGuesserID)

	_, _, err = l.Eliminate("p0", "p1")
	require.NoError(t, err)
	require.Equal(t, "p1", l.PendingGuesserID)

	_, err = l.SubmitGuess("p1", "nope")
	require.NoError(t, err)

	assert.Empty(t, l.AlivePlayers())
	assert.Equal(t, StatusStarted, l.Status)
	assert.Equal(t, FactionNone, l.Winner)
}

func TestLastStandMissAfterEliminatingEveryoneElse(t *testing.T) {
	l := inRound(t, RolePrimary, RoleDecoy, RoleWordless)

	triggered, _, err := l.Eliminate("p0", "p0")
	require.NoError(t, err)
	assert.True(t, triggered)
	assert.Equal(t, "p2", l.PendingGuesserID)

	// Eliminating the last opponent leaves the wordless player alone, still guessing.
	triggered, _, err = l.Eliminate("p0", "p1")
	require.NoError(t, err)
	assert.True(t, triggered)
	assert.Equal(t, StatusPendingGuess, l.Status)
	assert.Equal(t, "p2", l.PendingGuesserID)

	correct, err := l.SubmitGuess("p2", "Dog")
	require.NoError(t, err)
	assert.False(t, correct)

	assert.Empty(t, l.AlivePlayers())
	assert.Equal(t, StatusStarted, l.Status)
	assert.Equal(t, FactionNone, l.Winner)
	assert.Empty(t, l.PendingGuesserID)

	require.NoError(t, l.Reset("p0"))
	assert.Equal(t, StatusWaiting, l.Status)
}

func TestAddPlayer(t *testing.T) {
	t.Run("host reclaim", func(t *testing.T) {
		l := newTestLobby(t, 2, RoleCounts{})

		require.NoError(t, l.AddPlayer(NewPlayer("p2", "Phone", testNow), "9876"))
		assert.Equal(t, "p2", l.HostID)
		assert.False(t, l.Players[2].IsHost, "creator flag is not moved")
		assert.True(t, l.Players[0].IsHost)

		require.NoError(t, l.AddPlayer(NewPlayer("p3", "Tablet", testNow), "9876"))
		assert.Equal(t, "p3", l.HostID, "last reclaim wins")
	})

	t.Run("wrong secret", func(t *testing.T) {
		l := newTestLobby(t, 1, RoleCounts{})
		require.NoError(t, l.AddPlayer(NewPlayer("p1", "Guest", testNow), "0000"))
		assert.Equal(t, "p0", l.HostID)
	})

	t.Run("not waiting", func(t *testing.T) {
		l := inRound(t, RolePrimary, RoleDecoy)
		err := l.AddPlayer(NewPlayer("late", "Late", testNow), "")
		assert.ErrorIs(t, err, ErrInvalidPhase)
		assert.Len(t, l.Players, 2)
	})
}

func TestRemovePlayer(t *testing.T) {
	tests := []struct {
		name    string
		status  Status
		hostID  string
		target  string
		wantErr error
	}{
		{"removes player", StatusWaiting, "p0", "p2", nil},
		{"not host", StatusWaiting, "p1", "p2", ErrForbidden},
		{"started", StatusStarted, "p0", "p2", ErrInvalidPhase},
		{"pending guess", StatusPendingGuess, "p0", "p2", ErrInvalidPhase},
		{"finished", StatusFinished, "p0", "p2", ErrInvalidPhase},
		{"unknown player", StatusWaiting, "p0", "ghost", ErrNotFound},
		{"cannot remove host", StatusWaiting, "p0", "p0", ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLobby(t, 3, RoleCounts{})
			l.Status = tt.status

			err := l.RemovePlayer(tt.hostID, tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, l.Players, 3)
				return
			}
			require.NoError(t, err)
			assert.Len(t, l.Players, 2)
			_, err = l.GetPlayer(tt.target)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestUpdateSettings(t *testing.T) {
	l := newTestLobby(t, 2, RoleCounts{Primary: 2})

	require.NoError(t, l.UpdateSettings("p0", RoleCounts{Primary: 5, Decoy: -2, Wordless: 1}))
	assert.Equal(t, RoleCounts{Primary: 5, Decoy: 0, Wordless: 1}, l.Settings)

	assert.ErrorIs(t, l.UpdateSettings("p1", RoleCounts{}), ErrForbidden)

	err := l.UpdateSettings("p0", RoleCounts{Primary: math.MaxInt - 1023, Decoy: math.MaxInt - 1023, Wordless: 2049})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, RoleCounts{Primary: 5, Decoy: 0, Wordless: 1}, l.Settings)
}

func TestUpdateSettingsOutsideWaiting(t *testing.T) {
	for _, status := range []Status{StatusStarted, StatusPendingGuess, StatusFinished} {
		t.Run(string(status), func(t *testing.T) {
			l := newTestLobby(t, 2, RoleCounts{Primary: 2})
			l.Status = status

			assert.ErrorIs(t, l.UpdateSettings("p0", RoleCounts{Primary: 1}), ErrInvalidPhase)
			assert.Equal(t, RoleCounts{Primary: 2}, l.Settings)
		})
	}
}

func TestStartRoundRejectsOversizedSettings(t *testing.T) {
	l := newTestLobby(t, 1, RoleCounts{Primary: 1})
	// Stored documents are not trusted to have been validated.
	l.Settings = RoleCounts{Primary: math.MaxInt - 1023, Decoy: math.MaxInt - 1023, Wordless: 2049}

	err := l.StartRound(testRand(1), testPicker(3))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, StatusWaiting, l.Status)
	assert.Empty(t, l.UsedWordIndices)
}

func TestAddPlayerLobbyFull(t *testing.T) {
	l := newTestLobby(t, MaxPlayers, RoleCounts{})

	err := l.AddPlayer(NewPlayer("extra", "Extra", testNow), "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, l.Players, MaxPlayers)
}

func TestPruneInactive(t *testing.T) {
	l := newTestLobby(t, 4, RoleCounts{})
	later := testNow.Add(time.Minute)
	l.Players[2].Touch(later)

	removed := l.PruneInactive(later, 30*time.Second)
	assert.ElementsMatch(t, []string{"p1", "p3"}, removed)
	require.Len(t, l.Players, 2)
	assert.Equal(t, "p0", l.Players[0].ID, "host is never pruned")

	round := inRound(t, RolePrimary, RoleDecoy)
	assert.Empty(t, round.PruneInactive(later, time.Second), "players are kept mid-round")
}

func TestViewHidesSecrets(t *testing.T) {
	l := newTestLobby(t, 3, RoleCounts{Primary: 2, Wordless: 1})
	require.NoError(t, l.StartRound(testRand(7), stubPicker{pairs: []WordPair{{Primary: "Cat", Decoy: "Dog"}}}))

	data, err := json.Marshal(l.View(VocabularyUndercover))
	require.NoError(t, err)

	assert.NotContains(t, string(data), "9876")
	assert.NotContains(t, string(data), "Cat")
	assert.NotContains(t, string(data), "Dog")

	view := l.View(VocabularyUndercover)
	assert.Len(t, view.SpeakingOrder, 3)
	assert.False(t, view.CanStart)
}

func TestStateFor(t *testing.T) {
	l := inRound(t, RolePrimary, RoleDecoy, RoleWordless)

	state, err := l.StateFor("p1", VocabularyClones)
	require.NoError(t, err)
	assert.Equal(t, "Dog", state.Player.Word)
	assert.Equal(t, "clone", state.Player.RoleLabel)
	assert.False(t, state.Player.IsCurrentHost)

	state, err = l.StateFor("p0", VocabularyUndercover)
	require.NoError(t, err)
	assert.Equal(t, "civilian", state.Player.RoleLabel)
	assert.True(t, state.Player.IsCurrentHost)
	assert.True(t, state.Player.IsHost)

	_, err = l.StateFor("ghost", VocabularyUndercover)
	assert.ErrorIs(t, err, ErrNotFound)
}
