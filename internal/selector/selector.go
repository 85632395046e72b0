// Package selector builds the list of factories an RFQ is broadcast to.
package selector

import (
	"strings"

	"supplierhub/models"
)

// FactorySelection pairs a factory with its checkbox state.
type FactorySelection struct {
	Factory  models.Factory `json:"factory"`
	Selected bool           `json:"selected"`
}

// Selection keeps the load order of the candidate factories.
type Selection struct {
	items []FactorySelection
	index map[string]int
}

// New marks factories whose ids appear in preselected.
func New(factories []models.Factory, preselected []string) *Selection {
	pre := make(map[string]struct{}, len(preselected))
	for _, id := range preselected {
		pre[id] = struct{}{}
	}

	s := &Selection{
		items: make([]FactorySelection, 0, len(factories)),
		index: make(map[string]int, len(factories)),
	}
	for _, f := range factories {
		if _, dup := s.index[f.ID]; dup {
			continue
		}
		_, selected := pre[f.ID]
		s.index[f.ID] = len(s.items)
		s.items = append(s.items, FactorySelection{Factory: f, Selected: selected})
	}
	return s
}

// Toggle flips one factory and reports whether it was found.
func (s *Selection) Toggle(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.items[i].Selected = !s.items[i].Selected
	return true
}

// SelectAll selects every loaded factory, including ones hidden by a filter.
func (s *Selection) SelectAll() {
	for i := range s.items {
		s.items[i].Selected = true
	}
}

func (s *Selection) DeselectAll() {
	for i := range s.items {
		s.items[i].Selected = false
	}
}

// Items returns a copy of all selections.
func (s *Selection) Items() []FactorySelection {
	out := make([]FactorySelection, len(s.items))
	copy(out, s.items)
	return out
}

// Filter returns the selections matching query as a case-insensitive
// substring of any searchable field. An empty query matches everything.
func (s *Selection) Filter(query string) []FactorySelection {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.Items()
	}

	out := make([]FactorySelection, 0)
	for _, it := range s.items {
		if Matches(&it.Factory, q) {
			out = append(out, it)
		}
	}
	return out
}

// SelectedIDs lists selected factory ids in load order.
func (s *Selection) SelectedIDs() []string {
	ids := make([]string, 0)
	for _, it := range s.items {
		if it.Selected {
			ids = append(ids, it.Factory.ID)
		}
	}
	return ids
}

// Matches expects q to be lower-cased already.
func Matches(f *models.Factory, q string) bool {
	fields := [...]string{f.NameCN, f.NameEN, f.City, f.Segment, f.ContactPerson}
	for _, v := range fields {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}
