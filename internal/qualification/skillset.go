package qualification

import "sort"

// SkillSet is a set of skill names.
type SkillSet map[string]struct{}

// NewSkillSet returns a set holding names.
func NewSkillSet(names ...string) SkillSet {
	s := make(SkillSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set. Lookups on a nil set return false.
func (s SkillSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the members sorted.
func (s SkillSet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Missing returns the members of required not in s, sorted and without duplicates.
func (s SkillSet) Missing(required []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(required))
	for _, n := range required {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if !s.Has(n) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
