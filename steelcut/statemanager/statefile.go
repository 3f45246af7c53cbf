package statemanager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Declaration is one entry of a state file.
type Declaration struct {
	Name  string `yaml:"name" toml:"name"`
	State string `yaml:"state" toml:"state"`
	User  string `yaml:"user,omitempty" toml:"user,omitempty"`
}

// StateFile lists the desired state of apps:
//
//	apps:
//	  - name: Telegram
//	    state: installed
//	  - name: "497799835"
//	    state: latest
//	    user: alice
//
// Files ending in .toml use the same layout with [[apps]] tables.
type StateFile struct {
	// User is the default for declarations without one.
	User string        `yaml:"user,omitempty" toml:"user,omitempty"`
	Apps []Declaration `yaml:"apps" toml:"apps"`
}

func LoadStateFile(path string) (*StateFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseStateFileTOML(data)
	}
	return ParseStateFile(data)
}

func ParseStateFile(data []byte) (*StateFile, error) {
	var sf StateFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing state file: %w", err)
	}
	return &sf, nil
}

func ParseStateFileTOML(data []byte) (*StateFile, error) {
	var sf StateFile
	if err := toml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing state file: %w", err)
	}
	return &sf, nil
}

// Validate reports every invalid declaration at once.
func (sf *StateFile) Validate() error {
	var result *multierror.Error
	for i, d := range sf.Apps {
		if d.Name == "" {
			result = multierror.Append(result, fmt.Errorf("apps[%d]: name is required", i))
		}
		if _, err := ParseState(d.State); err != nil {
			result = multierror.Append(result, fmt.Errorf("apps[%d] (%s): %w", i, d.Name, err))
		}
	}
	return result.ErrorOrNil()
}

// Apply reconciles every declaration in order. Invalid declarations are
// reported as failed results and collected into the returned error; they
// do not stop the others.
func (s *StateManager) Apply(ctx context.Context, sf *StateFile) ([]Result, error) {
	var errs *multierror.Error
	results := make([]Result, 0, len(sf.Apps))

	for i, d := range sf.Apps {
		user := d.User
		if user == "" {
			user = sf.User
		}

		state, err := ParseState(d.State)
		if err == nil && d.Name == "" {
			err = fmt.Errorf("name is required")
		}
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("apps[%d] (%s): %w", i, d.Name, err))
			results = append(results, newResult(d.Name, State(d.State), user).fail(err))
			continue
		}

		results = append(results, s.Ensure(ctx, state, d.Name, user))
	}

	return results, errs.ErrorOrNil()
}

// Failed reports whether any result failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFailure {
			return true
		}
	}
	return false
}
