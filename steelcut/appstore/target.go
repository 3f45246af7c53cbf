package appstore

import (
	"regexp"
	"strings"
)

type TargetKind int

const (
	KindName TargetKind = iota
	KindID
)

func (k TargetKind) String() string {
	if k == KindID {
		return "id"
	}
	return "name"
}

// Target is either a numeric App Store identifier or a display name / search
// term. The kind is decided once by ParseTarget and never re-derived.
type Target struct {
	kind  TargetKind
	value string
}

// Integer literal of any width: optional sign, digits with single
// underscores between them, surrounding whitespace allowed.
var integerRegex = regexp.MustCompile(`^\s*[+-]?[0-9]+(?:_[0-9]+)*\s*$`)

// ParseTarget treats anything that reads as an integer as an identifier
// and everything else as a name. Identifiers are normalized: whitespace,
// underscores and a leading plus sign are dropped.
func ParseTarget(s string) Target {
	if integerRegex.MatchString(s) {
		id := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
		return Target{kind: KindID, value: strings.TrimPrefix(id, "+")}
	}
	return Target{kind: KindName, value: s}
}

func IDTarget(id string) Target {
	return Target{kind: KindID, value: id}
}

func NameTarget(name string) Target {
	return Target{kind: KindName, value: name}
}

func (t Target) Kind() TargetKind { return t.kind }
func (t Target) IsID() bool       { return t.kind == KindID }
func (t Target) Value() string    { return t.value }
func (t Target) String() string   { return t.value }
