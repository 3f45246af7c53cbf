package appstore

import (
	"errors"
	"fmt"
)

var (
	ErrToolNotFound   = errors.New("could not find mas executable")
	ErrNotInstalled   = errors.New("app is not installed")
	ErrNotFound       = errors.New("app not found in the App Store")
	ErrMalformedLine  = errors.New("malformed listing line")
	ErrVersionUnknown = errors.New("could not determine app version")
	ErrUnsupportedOS  = errors.New("mas is only available on macOS")
)

// MalformedLineError reports a listing line with fewer than three fields.
type MalformedLineError struct {
	Line int
	Text string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed listing line %d: %q", e.Line, e.Text)
}

func (e *MalformedLineError) Is(target error) bool {
	return target == ErrMalformedLine
}

// NotInstalledError is returned by mutations on an app missing from the
// installed listing.
type NotInstalledError struct {
	Target Target
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("could not find installation of '%s'", e.Target)
}

func (e *NotInstalledError) Is(target error) bool {
	return target == ErrNotInstalled
}

// CommandError is a mas invocation whose failure is fatal to the caller.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := e.Stderr
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", e.ExitCode)
	}
	return fmt.Sprintf("mas %v: %s", e.Args, msg)
}
