package appstore

import "strings"

// EmptyListingSentinel is what mas prints instead of an empty listing.
const EmptyListingSentinel = "No installed apps found"

// Entry is one application of a listing.
type Entry struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
}

// Snapshot is a point-in-time listing, in mas output order. It is never
// kept in sync with the host after it was taken.
type Snapshot []Entry

// ParseListing parses "<id> <name> (<version>)" lines as printed by
// `mas list` and `mas search`. The name may contain spaces. Blank lines are
// ignored; any other line with fewer than three fields is an error.
func ParseListing(out string) (Snapshot, error) {
	if strings.Contains(out, EmptyListingSentinel) {
		return Snapshot{}, nil
	}

	snapshot := Snapshot{}
	for i, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, ok := parseLine(line)
		if !ok {
			return nil, &MalformedLineError{Line: i + 1, Text: line}
		}
		snapshot = append(snapshot, entry)
	}
	return snapshot, nil
}

func parseLine(line string) (Entry, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Entry{}, false
	}

	id := fields[0]
	version := fields[len(fields)-1]

	// the name is everything between the first and the last field, with its
	// inner spacing kept
	rest := strings.TrimSpace(line)
	rest = strings.TrimSpace(rest[len(id):])
	rest = strings.TrimSpace(rest[:strings.LastIndex(rest, version)])

	return Entry{ID: id, Name: rest, Version: stripParens(version)}, true
}

func stripParens(s string) string {
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		return s[1 : len(s)-1]
	}
	return s
}

// HasID reports whether an entry carries id.
func (s Snapshot) HasID(id string) bool {
	_, ok := s.byID(id)
	return ok
}

// HasName reports whether an entry is displayed as name.
func (s Snapshot) HasName(name string) bool {
	_, ok := s.byName(name)
	return ok
}

// IsInstalled matches identifiers against IDs only and names against
// names only.
func (s Snapshot) IsInstalled(t Target) bool {
	_, ok := s.Lookup(t)
	return ok
}

// Lookup finds the entry matching t.
func (s Snapshot) Lookup(t Target) (Entry, bool) {
	if t.IsID() {
		return s.byID(t.Value())
	}
	return s.byName(t.Value())
}

// ResolveID returns identifiers unchanged and maps names to their local
// identifier. A miss is not an error; callers decide.
func (s Snapshot) ResolveID(t Target) (string, bool) {
	if t.IsID() {
		return t.Value(), true
	}
	e, ok := s.byName(t.Value())
	return e.ID, ok
}

// ResolveName returns names unchanged and maps identifiers to their
// display name.
func (s Snapshot) ResolveName(t Target) (string, bool) {
	if !t.IsID() {
		return t.Value(), true
	}
	e, ok := s.byID(t.Value())
	return e.Name, ok
}

// CurrentVersion returns the installed version of t.
func (s Snapshot) CurrentVersion(t Target) (string, bool) {
	e, ok := s.Lookup(t)
	return e.Version, ok
}

// Names returns the display names in listing order.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for _, e := range s {
		names = append(names, e.Name)
	}
	return names
}

func (s Snapshot) byID(id string) (Entry, bool) {
	for _, e := range s {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

func (s Snapshot) byName(name string) (Entry, bool) {
	for _, e := range s {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
