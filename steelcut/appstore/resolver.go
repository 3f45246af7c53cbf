package appstore

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	cm "github.com/steelcutops/steelcut-mas/steelcut/commandmanager"
)

const masPackage = "mas"

// Executable is a resolved command path for mas.
type Executable string

// Platform tells the resolver which fallbacks are available.
type Platform interface {
	IsDarwin() bool
}

// PrefixLookup asks a package manager where it installed a package.
type PrefixLookup interface {
	Prefix(ctx context.Context, pkg, user string) (string, error)
}

// Installer installs a package through a package manager.
type Installer interface {
	EnsurePackagePresent(ctx context.Context, pkg string) error
}

// Resolver locates the mas executable. It keeps no state between calls.
type Resolver struct {
	CommandManager cm.CommandManager
	Platform       Platform
	Brew           PrefixLookup

	// Installer, when set, installs the mas formula on macOS if neither
	// PATH nor the Homebrew prefix has it.
	Installer Installer
}

// Resolve tries the PATH of user first and, on macOS, the Homebrew prefix
// of the mas formula. Failing both is ErrToolNotFound.
func (r *Resolver) Resolve(ctx context.Context, user string) (Executable, error) {
	log := logrus.WithField("user", user)

	result, err := r.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "/bin/sh",
		Args:    []string{"-c", "command -v " + masPackage},
		User:    user,
	})
	if err != nil {
		return "", err
	}
	if p := strings.TrimSpace(result.STDOUT); result.Success() && p != "" {
		log.WithField("path", p).Debug("Found mas on PATH")
		return Executable(p), nil
	}

	if r.Platform == nil || !r.Platform.IsDarwin() || r.Brew == nil {
		return "", ErrToolNotFound
	}

	exe, err := r.brewExecutable(ctx, user)
	if err != nil || exe != "" || r.Installer == nil {
		return exe, err
	}

	log.Info("Installing mas with Homebrew")
	if err := r.Installer.EnsurePackagePresent(ctx, masPackage); err != nil {
		return "", fmt.Errorf("installing %s: %w", masPackage, err)
	}
	return r.brewExecutable(ctx, user)
}

// brewExecutable returns "" with ErrToolNotFound when brew has no prefix
// for mas.
func (r *Resolver) brewExecutable(ctx context.Context, user string) (Executable, error) {
	prefix, err := r.Brew.Prefix(ctx, masPackage, user)
	if err != nil {
		return "", err
	}
	if prefix == "" {
		return "", ErrToolNotFound
	}
	p := path.Join(prefix, "bin", masPackage)
	logrus.WithFields(logrus.Fields{"user": user, "path": p}).Debug("Found mas in Homebrew prefix")
	return Executable(p), nil
}
