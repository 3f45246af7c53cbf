package appstore

import (
	"regexp"
	"strings"
)

// Update is one line of `mas outdated`.
type Update struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Current string `yaml:"current,omitempty" json:"current,omitempty"`
	Latest  string `yaml:"latest" json:"latest"`
}

// "497799835 Xcode (14.3 -> 15.0)"
var outdatedRegex = regexp.MustCompile(`^(\d+)\s+(.+?)\s+\((\S+)\s+->\s+(\S+)\)$`)

// ParseOutdated parses `mas outdated`. Older mas releases print only the
// new version, "<id> <name> (<version>)"; those lines have no Current.
func ParseOutdated(out string) ([]Update, error) {
	var updates []Update
	for i, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := outdatedRegex.FindStringSubmatch(line); m != nil {
			updates = append(updates, Update{ID: m[1], Name: m[2], Current: m[3], Latest: m[4]})
			continue
		}

		entry, ok := parseLine(line)
		if !ok {
			return nil, &MalformedLineError{Line: i + 1, Text: line}
		}
		updates = append(updates, Update{ID: entry.ID, Name: entry.Name, Latest: entry.Version})
	}
	return updates, nil
}
