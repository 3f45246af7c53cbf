package appstore

import (
	"context"
	"fmt"

	"github.com/steelcutops/steelcut-mas/steelcut/packagemanager"
)

var _ packagemanager.PackageManager = (*Manager)(nil)

// The methods below expose the manager as a generic package manager, with
// packages given as names or identifiers and run as m.User.

func (m *Manager) ListPackages(ctx context.Context) ([]string, error) {
	snapshot, err := m.List(ctx, m.User)
	if err != nil {
		return nil, err
	}
	return snapshot.Names(), nil
}

func (m *Manager) AddPackage(ctx context.Context, pkg string) error {
	return check(m.Install(ctx, ParseTarget(pkg), m.User))("install", pkg)
}

func (m *Manager) RemovePackage(ctx context.Context, pkg string) error {
	return check(m.Remove(ctx, ParseTarget(pkg), m.User))("remove", pkg)
}

func (m *Manager) UpgradePackage(ctx context.Context, pkg string) error {
	return check(m.Upgrade(ctx, ParseTarget(pkg), m.User))("upgrade", pkg)
}

func (m *Manager) CheckOSUpdates(ctx context.Context) ([]string, error) {
	updates, err := m.Outdated(ctx, m.User)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(updates))
	for _, u := range updates {
		names = append(names, u.Name)
	}
	return names, nil
}

// UpgradeAll upgrades everything and returns what is still outdated.
func (m *Manager) UpgradeAll(ctx context.Context) ([]string, error) {
	if err := check(m.UpgradeAllApps(ctx, m.User))("upgrade", "all apps"); err != nil {
		return nil, err
	}
	return m.CheckOSUpdates(ctx)
}

func (m *Manager) EnsurePackagePresent(ctx context.Context, pkg string) error {
	ok, err := m.IsInstalled(ctx, ParseTarget(pkg), m.User)
	if err != nil || ok {
		return err
	}
	return m.AddPackage(ctx, pkg)
}

func (m *Manager) EnsurePackageAbsent(ctx context.Context, pkg string) error {
	ok, err := m.IsInstalled(ctx, ParseTarget(pkg), m.User)
	if err != nil || !ok {
		return err
	}
	return m.RemovePackage(ctx, pkg)
}

func check(ok bool, err error) func(op, pkg string) error {
	return func(op, pkg string) error {
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: mas %s '%s'", packagemanager.ErrCommandFailed, op, pkg)
		}
		return nil
	}
}
