package packagemanager

import (
	"context"
	"fmt"
	"strings"

	cm "github.com/steelcutops/steelcut-mas/steelcut/commandmanager"
)

// BrewPackageManager drives Homebrew for what mas itself needs: locating,
// installing and upgrading the mas formula.
type BrewPackageManager struct {
	CommandManager cm.CommandManager

	// User runs brew as this OS user; Homebrew refuses to run as root.
	User string
}

func (bpm *BrewPackageManager) run(ctx context.Context, args ...string) (cm.CommandResult, error) {
	result, err := bpm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "brew",
		Args:    args,
		User:    bpm.User,
	})
	if err != nil {
		return result, err
	}
	if !result.Success() {
		return result, fmt.Errorf("%w: brew %s: %s", ErrCommandFailed, strings.Join(args, " "), strings.TrimSpace(result.STDERR))
	}
	return result, nil
}

// Prefix returns the installation prefix of pkg, or "" when brew does not
// know it. A non-empty user overrides bpm.User.
func (bpm *BrewPackageManager) Prefix(ctx context.Context, pkg, user string) (string, error) {
	if user == "" {
		user = bpm.User
	}
	result, err := bpm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "brew",
		Args:    []string{"--prefix", pkg},
		User:    user,
	})
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", nil
	}
	return strings.TrimSpace(result.STDOUT), nil
}

func (bpm *BrewPackageManager) ListPackages(ctx context.Context) ([]string, error) {
	output, err := bpm.run(ctx, "list", "--formula", "-1")
	if err != nil {
		return nil, err
	}
	return splitLines(output.STDOUT), nil
}

func (bpm *BrewPackageManager) AddPackage(ctx context.Context, pkg string) error {
	_, err := bpm.run(ctx, "install", pkg)
	return err
}

func (bpm *BrewPackageManager) UpgradePackage(ctx context.Context, pkg string) error {
	_, err := bpm.run(ctx, "upgrade", pkg)
	return err
}

// EnsurePackagePresent installs pkg unless it is already installed.
func (bpm *BrewPackageManager) EnsurePackagePresent(ctx context.Context, pkg string) error {
	packages, err := bpm.ListPackages(ctx)
	if err != nil {
		return err
	}
	if contains(packages, pkg) {
		return nil
	}
	return bpm.AddPackage(ctx, pkg)
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
