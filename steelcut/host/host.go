package host

import (
	"fmt"

	"github.com/steelcutops/steelcut-mas/common"
	"github.com/steelcutops/steelcut-mas/steelcut/appstore"
	"github.com/steelcutops/steelcut-mas/steelcut/commandmanager"
	"github.com/steelcutops/steelcut-mas/steelcut/filemanager"
	"github.com/steelcutops/steelcut-mas/steelcut/hostmanager"
	"github.com/steelcutops/steelcut-mas/steelcut/packagemanager"
	"github.com/steelcutops/steelcut-mas/steelcut/usermanager"
)

type OSType string

const (
	Darwin  OSType = "Darwin"
	Linux   OSType = "Linux"
	FreeBSD OSType = "FreeBSD"
)

// Host is one machine and the managers that operate on it. Only the
// command and host managers are set for every OS; the rest are wired for
// macOS.
type Host struct {
	Hostname string
	common.Credentials
	SSHClient commandmanager.SSHDialer
	OSType    OSType

	// AppUser is the OS user apps are managed for when a call does not name one.
	AppUser         string
	RemoveStrategy  appstore.RemoveStrategy
	ApplicationsDir string
	// InstallMas lets the resolver install mas with Homebrew when it is missing.
	InstallMas bool

	CommandManager commandmanager.CommandManager
	HostManager    hostmanager.HostManager
	UserManager    usermanager.UserManager
	FileManager    filemanager.FileManager
	Brew           *packagemanager.BrewPackageManager

	appStore *appstore.Manager
}

func (h *Host) IsDarwin() bool {
	return h.OSType == Darwin
}

// AppStore returns the Mac App Store manager, or ErrUnsupportedOS on any
// other platform.
func (h *Host) AppStore() (*appstore.Manager, error) {
	if h.appStore == nil {
		return nil, fmt.Errorf("%s (%s): %w", h.Hostname, h.OSType, appstore.ErrUnsupportedOS)
	}
	return h.appStore, nil
}

func (h *Host) String() string {
	return h.Hostname
}
