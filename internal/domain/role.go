package domain

import "strings"

// Role represents a player's secret role in a round
type Role string

const (
	RoleNone     Role = ""
	RolePrimary  Role = "primary"  // Receives the primary word
	RoleDecoy    Role = "decoy"    // Receives the decoy word
	RoleWordless Role = "wordless" // Receives no word, may guess the primary word when caught
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsWordless returns true if this role plays without a word
func (r Role) IsWordless() bool {
	return r == RoleWordless
}

// Faction returns the faction a role plays for. Every role is its own faction.
func (r Role) Faction() Faction {
	switch r {
	case RolePrimary:
		return FactionPrimary
	case RoleDecoy:
		return FactionDecoy
	case RoleWordless:
		return FactionWordless
	}
	return FactionNone
}

// Faction is a winning side
type Faction string

const (
	FactionNone     Faction = ""
	FactionPrimary  Faction = "primary"
	FactionDecoy    Faction = "decoy"
	FactionWordless Faction = "wordless"
)

// Vocabulary names the three factions for display. The engine itself only
// knows the generic roles; the vocabulary is applied at the edges.
type Vocabulary struct {
	Name     string `json:"name"`
	Primary  string `json:"primary"`
	Decoy    string `json:"decoy"`
	Wordless string `json:"wordless"`
}

// Built-in vocabularies
var (
	VocabularyUndercover = Vocabulary{Name: "undercover", Primary: "civilian", Decoy: "undercover", Wordless: "mr white"}
	VocabularyClones     = Vocabulary{Name: "clones", Primary: "legit", Decoy: "clone", Wordless: "blind"}
)

// LookupVocabulary returns the built-in vocabulary with the given name,
// falling back to the undercover naming.
func LookupVocabulary(name string) Vocabulary {
	if strings.EqualFold(name, VocabularyClones.Name) {
		return VocabularyClones
	}
	return VocabularyUndercover
}

// Label returns the display name of a role
func (v Vocabulary) Label(r Role) string {
	switch r {
	case RolePrimary:
		return v.Primary
	case RoleDecoy:
		return v.Decoy
	case RoleWordless:
		return v.Wordless
	}
	return ""
}

// FactionLabel returns the display name of a faction
func (v Vocabulary) FactionLabel(f Faction) string {
	switch f {
	case FactionPrimary:
		return v.Primary
	case FactionDecoy:
		return v.Decoy
	case FactionWordless:
		return v.Wordless
	}
	return ""
}
