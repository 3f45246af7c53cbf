package filemanager

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	cm "github.com/steelcutops/steelcut-mas/steelcut/commandmanager"
	"github.com/steelcutops/steelcut-mas/steelcut/usermanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockCommandManager answers by command line and records every call.
type MockCommandManager struct {
	Results map[string]cm.CommandResult
	Err     error
	Calls   []cm.CommandConfig
}

func (m *MockCommandManager) Run(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	m.Calls = append(m.Calls, config)
	return m.Results[strings.Join(append([]string{config.Command}, config.Args...), " ")], m.Err
}

func (m *MockCommandManager) RunLocal(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	return m.Run(ctx, config)
}

func (m *MockCommandManager) RunRemote(ctx context.Context, config cm.CommandConfig) (cm.CommandResult, error) {
	return m.Run(ctx, config)
}

type staticUsers struct {
	user usermanager.User
	err  error
}

func (s staticUsers) GetUser(ctx context.Context, username string) (usermanager.User, error) {
	return s.user, s.err
}

func newManager(results map[string]cm.CommandResult) (*UnixFileManager, *MockCommandManager) {
	mockCmd := &MockCommandManager{Results: results}
	return &UnixFileManager{
		CommandManager: mockCmd,
		UserManager:    staticUsers{user: usermanager.User{Username: "alice", HomeDir: "/Users/alice"}},
		Now:            func() time.Time { return time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC) },
	}, mockCmd
}

func TestMoveToTrash(t *testing.T) {
	manager, mockCmd := newManager(map[string]cm.CommandResult{
		"test -e /Users/alice/.Trash/iMovie.app": {ExitCode: 1},
	})

	err := manager.MoveToTrash(context.Background(), "/Applications/iMovie.app", "alice")
	require.NoError(t, err)

	last := mockCmd.Calls[len(mockCmd.Calls)-1]
	assert.Equal(t, "mv", last.Command)
	assert.Equal(t, []string{"/Applications/iMovie.app", "/Users/alice/.Trash/iMovie.app"}, last.Args)
	assert.Equal(t, "alice", last.User)
}

func TestMoveToTrashNameCollision(t *testing.T) {
	manager, mockCmd := newManager(nil)

	err := manager.MoveToTrash(context.Background(), "/Applications/iMovie.app", "alice")
	require.NoError(t, err)

	last := mockCmd.Calls[len(mockCmd.Calls)-1]
	assert.Equal(t, []string{"/Applications/iMovie.app", "/Users/alice/.Trash/iMovie 15-04-05.app"}, last.Args)
}

func TestMoveToTrashMissingSource(t *testing.T) {
	manager, mockCmd := newManager(map[string]cm.CommandResult{
		"test -e /Applications/Gone.app": {ExitCode: 1},
	})

	err := manager.MoveToTrash(context.Background(), "/Applications/Gone.app", "alice")
	assert.EqualError(t, err, "/Applications/Gone.app: no such file or directory")
	assert.Len(t, mockCmd.Calls, 1)
}

func TestMoveToTrashCarriesCommandMessage(t *testing.T) {
	manager, _ := newManager(map[string]cm.CommandResult{
		"test -e /Users/alice/.Trash/iMovie.app": {ExitCode: 1},
		"mv /Applications/iMovie.app /Users/alice/.Trash/iMovie.app": {
			ExitCode: 1,
			STDERR:   "mv: rename /Applications/iMovie.app to /Users/alice/.Trash/iMovie.app: Operation not permitted\n",
		},
	})

	err := manager.MoveToTrash(context.Background(), "/Applications/iMovie.app", "alice")
	assert.EqualError(t, err, "mv: rename /Applications/iMovie.app to /Users/alice/.Trash/iMovie.app: Operation not permitted")
}

func TestMoveToTrashUnknownUser(t *testing.T) {
	manager, _ := newManager(nil)
	manager.UserManager = staticUsers{err: errors.New("unknown user")}

	err := manager.MoveToTrash(context.Background(), "/Applications/iMovie.app", "ghost")
	assert.EqualError(t, err, "unknown user")
}

func TestCreateDirectoryError(t *testing.T) {
	mockCmd := &MockCommandManager{Err: errors.New("mock error")}
	manager := UnixFileManager{CommandManager: mockCmd}

	err := manager.CreateDirectory(context.Background(), "/path/to/directory", "")
	assert.EqualError(t, err, "mock error")
}
