package host

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/steelcutops/steelcut-mas/steelcut/appstore"
	"github.com/steelcutops/steelcut-mas/steelcut/commandmanager"
	"github.com/steelcutops/steelcut-mas/steelcut/filemanager"
	"github.com/steelcutops/steelcut-mas/steelcut/hostmanager"
	"github.com/steelcutops/steelcut-mas/steelcut/packagemanager"
	"github.com/steelcutops/steelcut-mas/steelcut/usermanager"
)

func NewHost(ctx context.Context, hostname string, options ...HostOption) (*Host, error) {
	ch := &Host{Hostname: hostname}

	for _, option := range options {
		option(ch)
	}

	// Initializing the CommandManager is required before determining the OS
	if ch.CommandManager == nil {
		ch.CommandManager = &commandmanager.UnixCommandManager{
			Hostname:    hostname,
			SSHClient:   ch.SSHClient,
			Credentials: ch.Credentials,
		}
	}
	ch.HostManager = &hostmanager.UnixHostManager{CommandManager: ch.CommandManager}

	if ch.OSType == "" {
		osName, err := ch.HostManager.OS(ctx)
		if err != nil {
			return nil, fmt.Errorf("determining OS of %s: %w", hostname, err)
		}
		ch.OSType = OSType(osName)
	}

	switch ch.OSType {
	case Darwin:
		configureMacHost(ch)
	default:
		logrus.WithFields(logrus.Fields{"host": hostname, "os": ch.OSType}).Warn("Mac App Store is not available on this host")
	}

	return ch, nil
}

func configureMacHost(ch *Host) {
	cmdManager := ch.CommandManager

	userManager := &usermanager.DarwinUserManager{CommandManager: cmdManager}
	fileManager := &filemanager.UnixFileManager{
		CommandManager: cmdManager,
		UserManager:    userManager,
	}
	brew := &packagemanager.BrewPackageManager{
		CommandManager: cmdManager,
		User:           ch.AppUser,
	}

	ch.UserManager = userManager
	ch.FileManager = fileManager
	ch.Brew = brew
	resolver := &appstore.Resolver{
		CommandManager: cmdManager,
		Platform:       ch,
		Brew:           brew,
	}
	if ch.InstallMas {
		resolver.Installer = brew
	}
	ch.appStore = &appstore.Manager{
		CommandManager:  cmdManager,
		Resolver:        resolver,
		Trasher:         fileManager,
		RemoveStrategy:  ch.RemoveStrategy,
		ApplicationsDir: ch.ApplicationsDir,
		User:            ch.AppUser,
	}
}
