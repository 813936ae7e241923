// Package colors assigns stable display colors to clients. The assignment
// is pure memoization: the same client id always maps to the same color
// within a process, and the palette repeats once exhausted.
package colors

import "sync"

var palette = []string{
	"#4F46E5", "#0891B2", "#059669", "#D97706",
	"#DC2626", "#7C3AED", "#DB2777", "#65A30D",
	"#0284C7", "#9333EA", "#EA580C", "#16A34A",
}

type Cache struct {
	mu       sync.RWMutex
	assigned map[uint]string
	next     int
}

func NewCache() *Cache {
	return &Cache{
		assigned: make(map[uint]string),
	}
}

func (c *Cache) For(clientID uint) string {
	c.mu.RLock()
	if color, ok := c.assigned[clientID]; ok {
		c.mu.RUnlock()
		return color
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if color, ok := c.assigned[clientID]; ok {
		return color
	}

	color := palette[c.next%len(palette)]
	c.next++
	c.assigned[clientID] = color
	return color
}

// Seed pre-binds a stored color so restarts keep prior assignments.
func (c *Cache) Seed(clientID uint, color string) {
	if color == "" {
		return
	}
	c.mu.Lock()
	c.assigned[clientID] = color
	c.mu.Unlock()
}
