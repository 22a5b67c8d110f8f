package domain

// WordPair is one catalog entry: the word most players get and its close decoy
type WordPair struct {
	Primary string `json:"primary"`
	Decoy   string `json:"decoy"`
}

// WordFor returns the word dealt to a role. The wordless role gets nothing.
func (wp WordPair) WordFor(r Role) string {
	switch r {
	case RolePrimary:
		return wp.Primary
	case RoleDecoy:
		return wp.Decoy
	}
	return ""
}

// Assignment is the role and word dealt to the player in the same slot
type Assignment struct {
	Role Role
	Word string
}

// AssignRoles builds the role multiset from counts, shuffles it and pairs each
// role with its word. Slot i of the result belongs to players[i]; the players
// themselves are never reordered.
func AssignRoles(rng Rand, counts RoleCounts, pair WordPair) []Assignment {
	roles := counts.Roles()
	Shuffle(rng, roles)

	out := make([]Assignment, len(roles))
	for i, r := range roles {
		out[i] = Assignment{Role: r, Word: pair.WordFor(r)}
	}
	return out
}
