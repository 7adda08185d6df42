package chart

import "strings"

// Palette assigns colours to task name groups in first seen order. The same
// palette must be reused for all the renders of a session so a name keeps its colour.
type Palette struct {
	colors   []string
	assigned map[string]string
	order    []string
}

// NewPalette returns a new palette cycling the colours.
func NewPalette(colors []string) *Palette {
	if len(colors) == 0 {
		colors = DefaultPalette
	}
	return &Palette{
		colors:   colors,
		assigned: map[string]string{},
	}
}

// Color returns the colour of a task name group.
func (p *Palette) Color(name string) string {
	key := strings.TrimSpace(name)
	if c, ok := p.assigned[key]; ok {
		return c
	}

	c := p.colors[len(p.order)%len(p.colors)]
	p.assigned[key] = c
	p.order = append(p.order, key)
	return c
}

// Legend returns the assigned colours for the names, in first seen order of the names.
func (p *Palette) Legend(names []string) []LegendEntry {
	var entries []LegendEntry
	seen := map[string]struct{}{}
	for _, n := range names {
		key := strings.TrimSpace(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		entries = append(entries, LegendEntry{Label: key, Color: p.Color(key)})
	}
	return entries
}
