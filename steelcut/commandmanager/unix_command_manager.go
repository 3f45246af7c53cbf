package commandmanager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/steelcutops/steelcut-mas/common"
	"github.com/steelcutops/steelcut-mas/steelcut"
	"golang.org/x/crypto/ssh"
)

const defaultDialTimeout = 15 * time.Minute

var (
	ErrSudoIncorrectPassword = errors.New("sudo: incorrect password provided")
	ErrSudoNotInSudoers      = errors.New("sudo: user is not in the sudoers file")
)

type SSHDialer interface {
	Dial(network, addr string, config *ssh.ClientConfig, timeout time.Duration) (*ssh.Client, error)
}

// RealSSHClient dials with golang.org/x/crypto/ssh.
type RealSSHClient struct{}

func (RealSSHClient) Dial(network, addr string, config *ssh.ClientConfig, timeout time.Duration) (*ssh.Client, error) {
	config.Timeout = timeout
	return ssh.Dial(network, addr, config)
}

type UnixCommandManager struct {
	Hostname  string
	SSHClient SSHDialer
	common.Credentials
}

// argv prefixes the command with sudo when it has to run as root or as
// another user. The second return value is what to feed on stdin.
func (u *UnixCommandManager) argv(config CommandConfig) ([]string, string) {
	argv := append([]string{config.Command}, config.Args...)

	switch {
	case config.Sudo:
		return append([]string{"sudo", "-S"}, argv...), u.SudoPassword + "\n"
	case config.User != "":
		prefix := []string{"sudo", "-n", "-H", "-u", config.User}
		stdin := ""
		if u.SudoPassword != "" {
			prefix = []string{"sudo", "-S", "-H", "-u", config.User}
			stdin = u.SudoPassword + "\n"
		}
		return append(prefix, argv...), stdin
	}
	return argv, ""
}

func (u *UnixCommandManager) RunLocal(ctx context.Context, config CommandConfig) (CommandResult, error) {
	start := time.Now()

	argv, stdin := u.argv(config)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	if len(config.Env) > 0 {
		cmd.Env = append(os.Environ(), config.Env...)
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		Command:   strings.Join(argv, " "),
		STDOUT:    stdout.String(),
		STDERR:    stderr.String(),
		ExitCode:  getExitCode(err),
		Duration:  time.Since(start),
		Timestamp: start,
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		err = nil
	}
	if err != nil {
		return result, fmt.Errorf("running %s: %w", config.Command, err)
	}

	return result, checkSudo(result)
}

func (u *UnixCommandManager) getSSHConfig() (*ssh.ClientConfig, error) {
	var authMethod ssh.AuthMethod
	log := logrus.WithField("hostname", u.Hostname)

	if u.Password != "" {
		log.Debug("Using password authentication")
		authMethod = ssh.Password(u.Password)
	} else {
		log.Debug("Using public key authentication")
		var keyManager steelcut.SSHKeyManager
		if u.KeyPassphrase != "" {
			keyManager = steelcut.FileSSHKeyManager{}
		} else {
			keyManager = steelcut.AgentSSHKeyManager{}
		}

		keys, err := keyManager.ReadPrivateKeys(u.KeyPassphrase)
		if err != nil {
			return nil, err
		}

		authMethod = ssh.PublicKeysCallback(func() ([]ssh.Signer, error) {
			return keys, nil
		})
	}

	return &ssh.ClientConfig{
		User:            u.User,
		Auth:            []ssh.AuthMethod{authMethod},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}, nil
}

func (u *UnixCommandManager) RunRemote(ctx context.Context, config CommandConfig) (CommandResult, error) {
	log := logrus.WithFields(logrus.Fields{"hostname": u.Hostname, "command": config.Command})
	log.Debug("Executing remote command")

	if u.SSHClient == nil {
		return CommandResult{}, errors.New("SSHClient is not initialized")
	}

	sshConfig, err := u.getSSHConfig()
	if err != nil {
		return CommandResult{}, err
	}

	dialTimeout := defaultDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		dialTimeout = time.Until(deadline)
	}

	client, err := u.SSHClient.Dial("tcp", u.Hostname+":22", sshConfig, dialTimeout)
	if err != nil {
		return CommandResult{}, err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return CommandResult{}, err
	}
	defer session.Close()

	argv, stdin := u.argv(config)
	cmdStr := CommandLine(argv[0], argv[1:]...)
	if len(config.Env) > 0 {
		cmdStr = "env " + CommandLine(config.Env[0], config.Env[1:]...) + " " + cmdStr
	}
	if stdin != "" {
		session.Stdin = strings.NewReader(stdin)
	}

	type outcome struct {
		result CommandResult
		err    error
	}

	start := time.Now()
	outputCh := make(chan outcome, 1)
	go func() {
		var stdout, stderr strings.Builder
		session.Stdout = &stdout
		session.Stderr = &stderr

		err := session.Run(cmdStr)
		result := CommandResult{
			STDOUT:   stdout.String(),
			STDERR:   stderr.String(),
			ExitCode: getExitCode(err),
		}

		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			err = nil
		}
		outputCh <- outcome{result: result, err: err}
	}()

	select {
	case out := <-outputCh:
		out.result.Duration = time.Since(start)
		out.result.Timestamp = start
		out.result.Command = cmdStr

		if out.err != nil {
			log.WithError(out.err).Error("Failed to execute command over SSH")
			return out.result, out.err
		}
		return out.result, checkSudo(out.result)

	case <-ctx.Done():
		log.Error("Command over SSH timed out")
		return CommandResult{}, ctx.Err()
	}
}

func (u *UnixCommandManager) Run(ctx context.Context, config CommandConfig) (CommandResult, error) {
	if u.isLocal() {
		logrus.WithFields(logrus.Fields{"hostname": u.Hostname, "command": config.Command, "args": config.Args}).Debug("Running local command")
		return u.RunLocal(ctx, config)
	}

	return u.RunRemote(ctx, config)
}

func (u *UnixCommandManager) isLocal() bool {
	return u.Hostname == "" || u.Hostname == "localhost" || u.Hostname == "127.0.0.1"
}

// checkSudo looks at stderr only; stdout belongs to the command.
func checkSudo(result CommandResult) error {
	if strings.Contains(result.STDERR, "incorrect password") {
		return ErrSudoIncorrectPassword
	}
	if strings.Contains(result.STDERR, "is not in the sudoers file") {
		return ErrSudoNotInSudoers
	}
	return nil
}

func getExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	var sshExitErr *ssh.ExitError
	if errors.As(err, &sshExitErr) {
		return sshExitErr.ExitStatus()
	}
	if err != nil {
		return -1
	}
	return 0
}
