package host

import (
	"github.com/steelcutops/steelcut-mas/steelcut/appstore"
	"github.com/steelcutops/steelcut-mas/steelcut/commandmanager"
)

type HostOption func(*Host)

// WithUser returns a HostOption that sets the SSH user for a Host.
func WithUser(user string) HostOption {
	return func(host *Host) {
		host.User = user
	}
}

// WithPassword returns a HostOption that sets the password for a Host.
func WithPassword(password string) HostOption {
	return func(host *Host) {
		host.Password = password
	}
}

// WithKeyPassphrase returns a HostOption that sets the key passphrase for a Host.
func WithKeyPassphrase(keyPassphrase string) HostOption {
	return func(host *Host) {
		host.KeyPassphrase = keyPassphrase
	}
}

// WithOS returns a HostOption that sets the OS for a Host and skips detection.
func WithOS(os OSType) HostOption {
	return func(host *Host) {
		host.OSType = os
	}
}

// WithSudoPassword returns a HostOption that sets the sudo password for a Host.
func WithSudoPassword(password string) HostOption {
	return func(host *Host) {
		host.SudoPassword = password
	}
}

func WithSSHClient(client commandmanager.SSHDialer) HostOption {
	return func(host *Host) {
		host.SSHClient = client
	}
}

// WithCommandManager replaces the UnixCommandManager NewHost would build.
func WithCommandManager(manager commandmanager.CommandManager) HostOption {
	return func(host *Host) {
		host.CommandManager = manager
	}
}

// WithAppUser sets the OS user apps are managed for by default.
func WithAppUser(user string) HostOption {
	return func(host *Host) {
		host.AppUser = user
	}
}

func WithRemoveStrategy(strategy appstore.RemoveStrategy) HostOption {
	return func(host *Host) {
		host.RemoveStrategy = strategy
	}
}

func WithApplicationsDir(dir string) HostOption {
	return func(host *Host) {
		host.ApplicationsDir = dir
	}
}

// WithInstallMas installs mas with Homebrew on first use when it is missing.
func WithInstallMas(install bool) HostOption {
	return func(host *Host) {
		host.InstallMas = install
	}
}
