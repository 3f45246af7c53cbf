package commandmanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/steelcutops/steelcut-mas/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

type MockSSHClient struct {
	dialError error
}

func (m *MockSSHClient) Dial(network, addr string, config *ssh.ClientConfig, timeout time.Duration) (*ssh.Client, error) {
	return nil, m.dialError
}

func TestRunLocal(t *testing.T) {
	manager := UnixCommandManager{Hostname: "localhost"}

	result, err := manager.RunLocal(context.Background(), CommandConfig{
		Command: "echo",
		Args:    []string{"hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", result.STDOUT)
	assert.True(t, result.Success())
}

func TestRunLocalNonZeroExitIsNotAnError(t *testing.T) {
	manager := UnixCommandManager{Hostname: "localhost"}

	result, err := manager.RunLocal(context.Background(), CommandConfig{
		Command: "sh",
		Args:    []string{"-c", "echo oops >&2; exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "oops\n", result.STDERR)
	assert.False(t, result.Success())
}

func TestRunLocalMissingBinary(t *testing.T) {
	manager := UnixCommandManager{Hostname: "localhost"}

	_, err := manager.RunLocal(context.Background(), CommandConfig{Command: "definitely-not-a-real-binary-xyz"})
	assert.Error(t, err)
}

func TestIsLocal(t *testing.T) {
	manager := UnixCommandManager{Hostname: "localhost"}
	assert.True(t, manager.isLocal())

	manager.Hostname = "example.com"
	assert.False(t, manager.isLocal())
}

func TestRunRemoteDialError(t *testing.T) {
	manager := UnixCommandManager{
		Hostname:  "remote",
		SSHClient: &MockSSHClient{dialError: errors.New("mock dial error")},
		Credentials: common.Credentials{
			User:     "user",
			Password: "password",
		},
	}

	_, err := manager.RunRemote(context.Background(), CommandConfig{Command: "ls"})
	assert.EqualError(t, err, "mock dial error")
}

func TestRunRemoteWithoutClient(t *testing.T) {
	manager := UnixCommandManager{Hostname: "remote"}

	_, err := manager.RunRemote(context.Background(), CommandConfig{Command: "ls"})
	assert.EqualError(t, err, "SSHClient is not initialized")
}

func TestArgv(t *testing.T) {
	tests := []struct {
		name      string
		sudoPass  string
		config    CommandConfig
		wantArgv  []string
		wantStdin string
	}{
		{
			name:     "plain",
			config:   CommandConfig{Command: "mas", Args: []string{"list"}},
			wantArgv: []string{"mas", "list"},
		},
		{
			name:     "run as user without password",
			config:   CommandConfig{Command: "mas", Args: []string{"list"}, User: "alice"},
			wantArgv: []string{"sudo", "-n", "-H", "-u", "alice", "mas", "list"},
		},
		{
			name:      "run as user with password",
			sudoPass:  "secret",
			config:    CommandConfig{Command: "mas", Args: []string{"list"}, User: "alice"},
			wantArgv:  []string{"sudo", "-S", "-H", "-u", "alice", "mas", "list"},
			wantStdin: "secret\n",
		},
		{
			name:      "sudo wins over user",
			sudoPass:  "secret",
			config:    CommandConfig{Command: "mv", Args: []string{"a", "b"}, User: "alice", Sudo: true},
			wantArgv:  []string{"sudo", "-S", "mv", "a", "b"},
			wantStdin: "secret\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := UnixCommandManager{Credentials: common.Credentials{SudoPassword: tt.sudoPass}}
			argv, stdin := manager.argv(tt.config)
			assert.Equal(t, tt.wantArgv, argv)
			assert.Equal(t, tt.wantStdin, stdin)
		})
	}
}

func TestCheckSudo(t *testing.T) {
	assert.ErrorIs(t, checkSudo(CommandResult{STDERR: "Sorry, try again.\nsudo: 1 incorrect password attempt"}), ErrSudoIncorrectPassword)
	assert.ErrorIs(t, checkSudo(CommandResult{STDERR: "bob is not in the sudoers file."}), ErrSudoNotInSudoers)
	assert.NoError(t, checkSudo(CommandResult{STDOUT: "ok"}))
}

func TestCheckSudoIgnoresStdout(t *testing.T) {
	result := CommandResult{STDOUT: "1234 Recover incorrect password (1.0)\n5678 bob is not in the sudoers file (2.0)\n"}
	assert.NoError(t, checkSudo(result))
}
