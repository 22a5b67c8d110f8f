package domain

// Status represents the current phase of a lobby
type Status string

const (
	StatusWaiting      Status = "waiting"       // Players may join, host edits settings
	StatusStarted      Status = "started"       // Round in progress, host eliminates players
	StatusPendingGuess Status = "pending_guess" // Round paused for the wordless player's guess
	StatusFinished     Status = "finished"      // A faction has won
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// InRound returns true while a round is being played
func (s Status) InRound() bool {
	return s == StatusStarted || s == StatusPendingGuess
}

// CanTransitionTo checks if a transition from current status to target status is valid.
// Reset to waiting is allowed from every status.
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusWaiting {
		return true
	}

	validTransitions := map[Status][]Status{
		StatusWaiting:      {StatusStarted},
		StatusStarted:      {StatusPendingGuess, StatusFinished},
		StatusPendingGuess: {StatusStarted, StatusFinished},
	}

	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}
