package tournament

import "strings"

// Group is one round-robin pool; Teams keeps the configured display order,
// which is also the final standings tie-break.
type Group struct {
	Name  string
	Teams []string
}

// Layout is the set of groups competing in the tournament.
type Layout struct {
	Groups []Group
}

func DefaultLayout() Layout {
	return Layout{
		Groups: []Group{
			{Name: "A", Teams: []string{"Real Madrid", "PSG", "Milan"}},
			{Name: "B", Teams: []string{"Man. City", "Barcelona", "Chelsea"}},
		},
	}
}

// Group looks up a group by name, ignoring case.
func (l Layout) Group(name string) (Group, bool) {
	name = strings.TrimSpace(name)
	for _, g := range l.Groups {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return Group{}, false
}

// Teams lists every configured team in group order.
func (l Layout) Teams() []string {
	out := make([]string, 0, 6)
	for _, g := range l.Groups {
		out = append(out, g.Teams...)
	}
	return out
}

func (l Layout) HasTeam(team string) bool {
	for _, g := range l.Groups {
		for _, t := range g.Teams {
			if t == team {
				return true
			}
		}
	}
	return false
}

// GroupOf returns the group name a team plays in.
func (l Layout) GroupOf(team string) (string, bool) {
	for _, g := range l.Groups {
		for _, t := range g.Teams {
			if t == team {
				return g.Name, true
			}
		}
	}
	return "", false
}
