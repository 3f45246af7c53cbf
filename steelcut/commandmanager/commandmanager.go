package commandmanager

import (
	"context"
	"time"
)

// CommandConfig describes a single command invocation.
type CommandConfig struct {
	Command string
	Args    []string
	Env     []string

	// Sudo runs the command as root, feeding the sudo password on stdin.
	Sudo bool

	// User runs the command as another OS user. Empty means the connecting user.
	User string
}

// CommandResult encapsulates the results from a command execution.
// A non-zero ExitCode is not an error on its own; callers decide.
type CommandResult struct {
	Command   string
	STDOUT    string
	STDERR    string
	ExitCode  int
	Duration  time.Duration
	Timestamp time.Time
}

// Success reports whether the command exited with status 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandManager provides methods to execute commands, both locally and remotely.
type CommandManager interface {
	// RunLocal executes a command on the local system.
	RunLocal(ctx context.Context, config CommandConfig) (CommandResult, error)

	// RunRemote executes a command on a remote system via SSH.
	RunRemote(ctx context.Context, config CommandConfig) (CommandResult, error)

	// Run picks local or remote execution based on the target host.
	Run(ctx context.Context, config CommandConfig) (CommandResult, error)
}
