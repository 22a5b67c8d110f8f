package app

import (
	"undercover/internal/domain"
)

// DefaultWordPairs is the built-in catalog. Each decoy is close enough to its
// primary word that both sides can describe them without giving themselves away.
// Order matters: lobbies remember used pairs by index.
var DefaultWordPairs = []domain.WordPair{
	{Primary: "Cat", Decoy: "Dog"},
	{Primary: "Beach", Decoy: "Pool"},
	{Primary: "Pizza", Decoy: "Burger"},
	{Primary: "Netflix", Decoy: "YouTube"},
	{Primary: "Plane", Decoy: "Train"},
	{Primary: "Apple", Decoy: "Banana"},
	{Primary: "Bird", Decoy: "Airplane"},

	// Food & Drinks
	{Primary: "Coffee", Decoy: "Tea"},
	{Primary: "Sushi", Decoy: "Ramen"},
	{Primary: "Chocolate", Decoy: "Vanilla"},
	{Primary: "Whiskey", Decoy: "Rum"},
	{Primary: "Honey", Decoy: "Syrup"},
	{Primary: "Pancake", Decoy: "Waffle"},

	// Places
	{Primary: "Casino", Decoy: "Arcade"},
	{Primary: "Subway", Decoy: "Tram"},
	{Primary: "Library", Decoy: "Bookstore"},
	{Primary: "Hospital", Decoy: "Pharmacy"},
	{Primary: "Stadium", Decoy: "Arena"},
	{Primary: "Harbor", Decoy: "Airport"},

	// Objects
	{Primary: "Mirror", Decoy: "Window"},
	{Primary: "Umbrella", Decoy: "Raincoat"},
	{Primary: "Hammer", Decoy: "Screwdriver"},
	{Primary: "Lantern", Decoy: "Flashlight"},
	{Primary: "Guitar", Decoy: "Violin"},
	{Primary: "Keyboard", Decoy: "Piano"},

	// Nature
	{Primary: "Thunder", Decoy: "Lightning"},
	{Primary: "Volcano", Decoy: "Geyser"},
	{Primary: "Glacier", Decoy: "Iceberg"},
	{Primary: "Tiger", Decoy: "Lion"},
	{Primary: "Dolphin", Decoy: "Shark"},
	{Primary: "Spider", Decoy: "Scorpion"},

	// Tech
	{Primary: "Robot", Decoy: "Cyborg"},
	{Primary: "Laptop", Decoy: "Tablet"},
	{Primary: "Instagram", Decoy: "TikTok"},
	{Primary: "Drone", Decoy: "Helicopter"},
}

// Catalog is a fixed, index-addressable list of word pairs
type Catalog struct {
	pairs []domain.WordPair
}

// NewCatalog creates a catalog over pairs
func NewCatalog(pairs []domain.WordPair) *Catalog {
	return &Catalog{pairs: pairs}
}

// DefaultCatalog returns a catalog over DefaultWordPairs
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultWordPairs)
}

// Len returns the number of pairs
func (c *Catalog) Len() int {
	return len(c.pairs)
}

// Pair returns the pair at index i
func (c *Catalog) Pair(i int) (domain.WordPair, bool) {
	if i < 0 || i >= len(c.pairs) {
		return domain.WordPair{}, false
	}
	return c.pairs[i], true
}

// PickUnused returns a uniformly random pair whose index is not in used
func (c *Catalog) PickUnused(used []int, rng domain.Rand) (domain.WordPair, int, error) {
	excluded := make(map[int]bool, len(used))
	for _, i := range used {
		excluded[i] = true
	}

	available := make([]int, 0, len(c.pairs))
	for i := range c.pairs {
		if !excluded[i] {
			available = append(available, i)
		}
	}

	if len(available) == 0 {
		return domain.WordPair{}, 0, domain.ErrPairsExhausted
	}

	index := available[rng.IntN(len(available))]
	return c.pairs[index], index, nil
}
