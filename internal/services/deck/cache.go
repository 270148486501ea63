package deck

import (
	"sync"

	"github.com/mcoot/unogame/internal/model"
)

// Cache memoises shuffled decks by seed. Entries are written once per seed and
// can be dropped at any time; the shuffle is always recomputable.
type Cache struct {
	mu    sync.RWMutex
	decks map[string][]model.Card
}

// NewCache creates an empty deck cache
func NewCache() *Cache {
	return &Cache{decks: make(map[string][]model.Card)}
}

// Get returns the shuffled deck for seed. The returned slice is shared and must not be modified.
func (c *Cache) Get(seed string) []model.Card {
	c.mu.RLock()
	cards, ok := c.decks[seed]
	c.mu.RUnlock()
	if ok {
		return cards
	}

	cards = Shuffle(seed)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.decks[seed]; ok {
		return existing
	}
	c.decks[seed] = cards
	return cards
}

// Len returns the number of cached seeds
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.decks)
}

// Clear drops every cached deck
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decks = make(map[string][]model.Card)
}
