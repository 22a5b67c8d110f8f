package domain

import "math"

// MaxPlayers bounds both the lobby size and every role count
const MaxPlayers = 100

// RoleCounts holds how many of each role the host wants dealt
type RoleCounts struct {
	Primary  int `json:"primary"`
	Decoy    int `json:"decoy"`
	Wordless int `json:"wordless"`
}

// Normalize clamps every count to a non-negative integer
func (c RoleCounts) Normalize() RoleCounts {
	return RoleCounts{
		Primary:  max(c.Primary, 0),
		Decoy:    max(c.Decoy, 0),
		Wordless: max(c.Wordless, 0),
	}
}

// Validate rejects counts no lobby could ever deal
func (c RoleCounts) Validate() error {
	if c.Primary > MaxPlayers || c.Decoy > MaxPlayers || c.Wordless > MaxPlayers || c.Total() > MaxPlayers {
		return ErrTooManyRoles
	}
	return nil
}

// Total returns the number of roles to deal. Negative counts add nothing
// and the sum saturates instead of wrapping.
func (c RoleCounts) Total() int {
	total := 0
	for _, n := range []int{c.Primary, c.Decoy, c.Wordless} {
		if n <= 0 {
			continue
		}
		if n > math.MaxInt-total {
			return math.MaxInt
		}
		total += n
	}
	return total
}

// Roles expands the counts into a role multiset, grouped by role
func (c RoleCounts) Roles() []Role {
	roles := make([]Role, 0, max(c.Total(), 0))
	for i := 0; i < c.Primary; i++ {
		roles = append(roles, RolePrimary)
	}
	for i := 0; i < c.Decoy; i++ {
		roles = append(roles, RoleDecoy)
	}
	for i := 0; i < c.Wordless; i++ {
		roles = append(roles, RoleWordless)
	}
	return roles
}
