package statemanager

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/steelcutops/steelcut-mas/steelcut/appstore"
)

// State is a desired state of an app.
type State string

const (
	Installed State = "installed"
	Latest    State = "latest"
	Absent    State = "absent"
)

var ErrUnknownState = errors.New("unknown state")

func ParseState(s string) (State, error) {
	switch State(s) {
	case Installed, Latest, Absent:
		return State(s), nil
	}
	return "", fmt.Errorf("%w %q, want one of installed, latest, absent", ErrUnknownState, s)
}

// Status is the outcome of a reconciliation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	// StatusPending is reported in test mode when a change would be made.
	StatusPending Status = "pending"
)

// Result is the structured outcome of one reconciliation.
type Result struct {
	Name    string            `yaml:"name" json:"name"`
	State   State             `yaml:"state" json:"state"`
	User    string            `yaml:"user,omitempty" json:"user,omitempty"`
	Status  Status            `yaml:"result" json:"result"`
	Comment string            `yaml:"comment" json:"comment"`
	Changes map[string]string `yaml:"changes,omitempty" json:"changes,omitempty"`
}

// AppManager is the part of appstore.Manager reconciliation needs.
type AppManager interface {
	IsInstalled(ctx context.Context, t appstore.Target, user string) (bool, error)
	Install(ctx context.Context, t appstore.Target, user string) (bool, error)
	Remove(ctx context.Context, t appstore.Target, user string) (bool, error)
	Upgrade(ctx context.Context, t appstore.Target, user string) (bool, error)
}

// StateManager brings apps into a desired state. In Test mode it only
// reports what it would do.
type StateManager struct {
	Apps AppManager
	Test bool
}

const failedComment = "Something went wrong while calling mas."

// Installed makes sure the app is installed. A name installs the first
// search hit; pass the numeric ID to be precise.
func (s *StateManager) Installed(ctx context.Context, name, user string) Result {
	ret := newResult(name, Installed, user)
	target := appstore.ParseTarget(name)

	installed, err := s.Apps.IsInstalled(ctx, target, user)
	if err != nil {
		return ret.fail(err)
	}
	if installed {
		ret.Comment = "App is already installed."
		return ret
	}
	return s.install(ctx, ret, target)
}

// Latest makes sure the app is installed and upgraded. It does not compare
// versions: an installed app is always handed to mas upgrade.
func (s *StateManager) Latest(ctx context.Context, name, user string) Result {
	ret := newResult(name, Latest, user)
	target := appstore.ParseTarget(name)

	installed, err := s.Apps.IsInstalled(ctx, target, user)
	if err != nil {
		return ret.fail(err)
	}
	if !installed {
		return s.install(ctx, ret, target)
	}

	if s.Test {
		ret.Status = StatusPending
		ret.Comment = fmt.Sprintf("App '%s' would have been upgraded%s.", name, forUser(user))
		ret.Changes = map[string]string{"installed": name}
		return ret
	}

	ok, err := s.Apps.Upgrade(ctx, target, user)
	if err != nil {
		return ret.fail(err)
	}
	if !ok {
		return ret.fail(errors.New(failedComment))
	}
	ret.Comment = fmt.Sprintf("App '%s' was upgraded%s.", name, forUser(user))
	ret.Changes = map[string]string{"upgraded": name}
	return ret
}

// Absent makes sure the app is removed.
func (s *StateManager) Absent(ctx context.Context, name, user string) Result {
	ret := newResult(name, Absent, user)
	target := appstore.ParseTarget(name)

	installed, err := s.Apps.IsInstalled(ctx, target, user)
	if err != nil {
		return ret.fail(err)
	}
	if !installed {
		ret.Comment = "App is already absent."
		return ret
	}

	if s.Test {
		ret.Status = StatusPending
		ret.Comment = fmt.Sprintf("App '%s' would have been removed%s.", name, forUser(user))
		ret.Changes = map[string]string{"installed": name}
		return ret
	}

	ok, err := s.Apps.Remove(ctx, target, user)
	if err != nil {
		return ret.fail(err)
	}
	if !ok {
		return ret.fail(errors.New(failedComment))
	}
	ret.Comment = fmt.Sprintf("App '%s' was removed%s.", name, forUser(user))
	ret.Changes = map[string]string{"installed": name}
	return ret
}

// Ensure dispatches on state.
func (s *StateManager) Ensure(ctx context.Context, state State, name, user string) Result {
	switch state {
	case Installed:
		return s.Installed(ctx, name, user)
	case Latest:
		return s.Latest(ctx, name, user)
	case Absent:
		return s.Absent(ctx, name, user)
	}
	_, err := ParseState(string(state))
	return newResult(name, state, user).fail(err)
}

func (s *StateManager) install(ctx context.Context, ret Result, target appstore.Target) Result {
	if s.Test {
		ret.Status = StatusPending
		ret.Comment = fmt.Sprintf("App '%s' would have been installed%s.", ret.Name, forUser(ret.User))
		ret.Changes = map[string]string{"installed": ret.Name}
		return ret
	}

	ok, err := s.Apps.Install(ctx, target, ret.User)
	if err != nil {
		return ret.fail(err)
	}
	if !ok {
		return ret.fail(errors.New(failedComment))
	}
	ret.Comment = fmt.Sprintf("App '%s' was installed%s.", ret.Name, forUser(ret.User))
	ret.Changes = map[string]string{"installed": ret.Name}
	return ret
}

func newResult(name string, state State, user string) Result {
	return Result{
		Name:    name,
		State:   state,
		User:    user,
		Status:  StatusSuccess,
		Changes: map[string]string{},
	}
}

// fail absorbs err into the result. Reconciliation never returns errors.
func (r Result) fail(err error) Result {
	logrus.WithFields(logrus.Fields{"name": r.Name, "state": r.State, "user": r.User}).WithError(err).Error("Reconciliation failed")
	r.Status = StatusFailure
	r.Comment = err.Error()
	r.Changes = map[string]string{}
	return r
}

func forUser(user string) string {
	if user == "" {
		return ""
	}
	return fmt.Sprintf(" for user '%s'", user)
}
