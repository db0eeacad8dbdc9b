package fill

import (
	"github.com/google/uuid"

	"github.com/adnsv/go-xlformula/xl"
)

// StyleCache maps style content to one shared *xl.Style so that a large
// fill hands the sink a handful of style objects instead of one per cell.
// It is not safe for concurrent use.
type StyleCache struct {
	styles map[uuid.UUID]*xl.Style
}

func NewStyleCache() *StyleCache {
	return &StyleCache{styles: map[uuid.UUID]*xl.Style{}}
}

// Canonical returns the cached style equal in content to s, adding s on a
// miss. A nil style stays nil.
func (c *StyleCache) Canonical(s *xl.Style) *xl.Style {
	if s == nil {
		return nil
	}
	k := s.Key()
	if cached, ok := c.styles[k]; ok {
		return cached
	}
	c.styles[k] = s
	return s
}

func (c *StyleCache) Len() int {
	return len(c.styles)
}

func (c *StyleCache) Clear() {
	clear(c.styles)
}
