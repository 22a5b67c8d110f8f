package domain

import "sort"

// DealTalkOrder gives every player a distinct random rank 1..N.
// Used at round start when everyone is alive.
func DealTalkOrder(rng Rand, players []*Player) {
	ranks := make([]int, len(players))
	for i := range ranks {
		ranks[i] = i + 1
	}
	Shuffle(rng, ranks)

	for i, p := range players {
		p.TalkOrder = ranks[i]
	}
}

// RerankTalkOrder closes the gaps left by eliminations: alive players keep
// their relative order and are renumbered 1..N, eliminated players lose their rank.
func RerankTalkOrder(players []*Player) {
	alive := make([]*Player, 0, len(players))
	for _, p := range players {
		if p.IsEliminated {
			p.TalkOrder = 0
			continue
		}
		alive = append(alive, p)
	}

	// Unranked players (should not happen mid-round) go last, in join order.
	sort.SliceStable(alive, func(i, j int) bool {
		a, b := alive[i].TalkOrder, alive[j].TalkOrder
		if a == 0 || b == 0 {
			return a != 0 && b == 0
		}
		return a < b
	})

	for i, p := range alive {
		p.TalkOrder = i + 1
	}
}

// SpeakingOrder returns the alive players sorted by talk order
func SpeakingOrder(players []*Player) []*Player {
	alive := make([]*Player, 0, len(players))
	for _, p := range players {
		if !p.IsEliminated && p.TalkOrder > 0 {
			alive = append(alive, p)
		}
	}
	sort.SliceStable(alive, func(i, j int) bool {
		return alive[i].TalkOrder < alive[j].TalkOrder
	})
	return alive
}
