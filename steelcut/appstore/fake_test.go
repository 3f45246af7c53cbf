package appstore

import (
	"context"
	"strings"

	cm "github.com/steelcutops/steelcut-mas/steelcut/commandmanager"
)

const masPath = "/opt/homebrew/bin/mas"

// fakeCommandManager answers by full command line and records every call.
// Unknown commands exit 127.
type fakeCommandManager struct {
	results map[string]cm.CommandResult
	err     error
	calls   []cm.CommandConfig
}

func newFakeCommandManager() *fakeCommandManager {
	f := &fakeCommandManager{results: map[string]cm.CommandResult{}}
	f.on(cm.CommandResult{STDOUT: masPath + "\n"}, "/bin/sh", "-c", "command -v mas")
	return f
}

func (f *fakeCommandManager) on(result cm.CommandResult, argv ...string) {
	f.results[strings.Join(argv, " ")] = result
}

func (f *fakeCommandManager) mas(result cm.CommandResult, args ...string) {
	f.on(result, append([]string{masPath}, args...)...)
}

func (f *fakeCommandManager) Run(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	f.calls = append(f.calls, config)
	if f.err != nil {
		return cm.CommandResult{}, f.err
	}
	line := strings.Join(append([]string{config.Command}, config.Args...), " ")
	if r, ok := f.results[line]; ok {
		r.Command = line
		return r, nil
	}
	return cm.CommandResult{Command: line, ExitCode: 127, STDERR: "command not found"}, nil
}

func (f *fakeCommandManager) RunLocal(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	return f.Run(ctx, config)
}

func (f *fakeCommandManager) RunRemote(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	return f.Run(ctx, config)
}

// masCalls returns the argument lists of every mas invocation.
func (f *fakeCommandManager) masCalls() [][]string {
	var calls [][]string
	for _, c := range f.calls {
		if c.Command == masPath {
			calls = append(calls, c.Args)
		}
	}
	return calls
}

type darwin bool

func (d darwin) IsDarwin() bool { return bool(d) }
