package appstore

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	cm "github.com/steelcutops/steelcut-mas/steelcut/commandmanager"
	"github.com/steelcutops/steelcut-mas/steelcut/filemanager"
)

// DefaultApplicationsDir is where the App Store installs bundles.
const DefaultApplicationsDir = "/Applications"

// RemoveStrategy selects how Remove gets rid of an app.
type RemoveStrategy int

const (
	// RemoveUninstall runs `mas uninstall`.
	RemoveUninstall RemoveStrategy = iota

	// RemoveToTrash moves <ApplicationsDir>/<name>.app to the user's trash.
	// mas refuses to uninstall when it runs as root, this path does not.
	RemoveToTrash
)

func (s RemoveStrategy) String() string {
	if s == RemoveToTrash {
		return "trash"
	}
	return "uninstall"
}

type Manager struct {
	CommandManager cm.CommandManager
	Resolver       *Resolver
	Trasher        filemanager.Trasher

	RemoveStrategy  RemoveStrategy
	ApplicationsDir string

	// User is the default OS user for the packagemanager.PackageManager methods.
	User string
}

func (m *Manager) run(ctx context.Context, user string, args ...string) (cm.CommandResult, error) {
	exe, err := m.Resolver.Resolve(ctx, user)
	if err != nil {
		return cm.CommandResult{}, err
	}

	logrus.WithFields(logrus.Fields{"exe": exe, "args": args, "user": user}).Debug("Running mas")
	return m.CommandManager.Run(ctx, cm.CommandConfig{
		Command: string(exe),
		Args:    args,
		User:    user,
	})
}

// output runs a subcommand whose failure is fatal and returns its stdout.
func (m *Manager) output(ctx context.Context, user string, args ...string) (string, error) {
	result, err := m.run(ctx, user, args...)
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", &CommandError{Args: args, ExitCode: result.ExitCode, Stderr: strings.TrimSpace(result.STDERR)}
	}
	return result.STDOUT, nil
}

// succeeded runs a mutating subcommand; its exit status becomes the result.
func (m *Manager) succeeded(ctx context.Context, user string, args ...string) (bool, error) {
	result, err := m.run(ctx, user, args...)
	if err != nil {
		return false, err
	}
	if !result.Success() {
		logrus.WithFields(logrus.Fields{"args": args, "exit": result.ExitCode, "stderr": strings.TrimSpace(result.STDERR)}).Warn("mas failed")
	}
	return result.Success(), nil
}

// List takes a snapshot of the apps installed for user.
func (m *Manager) List(ctx context.Context, user string) (Snapshot, error) {
	out, err := m.output(ctx, user, "list")
	if err != nil {
		return nil, err
	}
	return ParseListing(out)
}

// Search returns the App Store hits for term, best match first.
func (m *Manager) Search(ctx context.Context, term, user string) (Snapshot, error) {
	result, err := m.run(ctx, user, "search", term)
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		if strings.Contains(result.STDOUT+result.STDERR, "No results found") {
			return Snapshot{}, nil
		}
		return nil, &CommandError{Args: []string{"search", term}, ExitCode: result.ExitCode, Stderr: strings.TrimSpace(result.STDERR)}
	}
	return ParseListing(result.STDOUT)
}

// FindID resolves t to a store identifier: identifiers as-is, names through
// the installed apps first and the first search hit second.
func (m *Manager) FindID(ctx context.Context, t Target, user string) (string, error) {
	if t.IsID() {
		return t.Value(), nil
	}

	snapshot, err := m.List(ctx, user)
	if err != nil {
		return "", err
	}
	if id, ok := snapshot.ResolveID(t); ok {
		return id, nil
	}

	hits, err := m.Search(ctx, t.Value(), user)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "", fmt.Errorf("%w: '%s'", ErrNotFound, t)
	}
	return hits[0].ID, nil
}

func (m *Manager) IsInstalled(ctx context.Context, t Target, user string) (bool, error) {
	snapshot, err := m.List(ctx, user)
	if err != nil {
		return false, err
	}
	return snapshot.IsInstalled(t), nil
}

// LocalID maps t to the identifier of its installation.
func (m *Manager) LocalID(ctx context.Context, t Target, user string) (string, bool, error) {
	snapshot, err := m.List(ctx, user)
	if err != nil {
		return "", false, err
	}
	id, ok := snapshot.ResolveID(t)
	return id, ok, nil
}

// LocalName maps t to the display name of its installation.
func (m *Manager) LocalName(ctx context.Context, t Target, user string) (string, bool, error) {
	snapshot, err := m.List(ctx, user)
	if err != nil {
		return "", false, err
	}
	name, ok := snapshot.ResolveName(t)
	return name, ok, nil
}

func (m *Manager) CurrentVersion(ctx context.Context, t Target, user string) (string, error) {
	snapshot, err := m.List(ctx, user)
	if err != nil {
		return "", err
	}
	v, ok := snapshot.CurrentVersion(t)
	if !ok {
		return "", &NotInstalledError{Target: t}
	}
	return v, nil
}

// LatestVersion reads the store version from `mas info`. This is best
// effort, see parseInfoVersion.
func (m *Manager) LatestVersion(ctx context.Context, t Target, user string) (string, error) {
	id, err := m.FindID(ctx, t, user)
	if err != nil {
		return "", err
	}
	return m.latestByID(ctx, id, user)
}

func (m *Manager) latestByID(ctx context.Context, id, user string) (string, error) {
	out, err := m.output(ctx, user, "info", id)
	if err != nil {
		return "", err
	}
	v, ok := parseInfoVersion(out)
	if !ok {
		return "", fmt.Errorf("%w: mas info %s", ErrVersionUnknown, id)
	}
	return v, nil
}

// IsOutdated reports whether t is installed and the store has a newer
// version. Apps that are not installed are never outdated.
func (m *Manager) IsOutdated(ctx context.Context, t Target, user string) (bool, error) {
	snapshot, err := m.List(ctx, user)
	if err != nil {
		return false, err
	}
	entry, ok := snapshot.Lookup(t)
	if !ok {
		return false, nil
	}

	latest, err := m.latestByID(ctx, entry.ID, user)
	if err != nil {
		return false, err
	}
	return isNewer(entry.Version, latest), nil
}

// Install installs names through the first search hit (`mas lucky`) and
// identifiers directly.
func (m *Manager) Install(ctx context.Context, t Target, user string) (bool, error) {
	if !t.IsID() {
		return m.succeeded(ctx, user, "lucky", t.Value())
	}
	return m.succeeded(ctx, user, "install", t.Value())
}

// installed lists and fails with NotInstalledError before any mutation
// when t is missing.
func (m *Manager) installed(ctx context.Context, t Target, user string) (Entry, error) {
	snapshot, err := m.List(ctx, user)
	if err != nil {
		return Entry{}, err
	}
	entry, ok := snapshot.Lookup(t)
	if !ok {
		return Entry{}, &NotInstalledError{Target: t}
	}
	return entry, nil
}

func (m *Manager) Remove(ctx context.Context, t Target, user string) (bool, error) {
	entry, err := m.installed(ctx, t, user)
	if err != nil {
		return false, err
	}

	if m.RemoveStrategy == RemoveToTrash {
		if err := m.trash(ctx, entry, user); err != nil {
			return false, err
		}
		return true, nil
	}
	return m.succeeded(ctx, user, "uninstall", entry.ID)
}

func (m *Manager) trash(ctx context.Context, entry Entry, user string) error {
	if m.Trasher == nil {
		return fmt.Errorf("no trash available to remove '%s'", entry.Name)
	}

	dir := m.ApplicationsDir
	if dir == "" {
		dir = DefaultApplicationsDir
	}
	bundle := path.Join(dir, entry.Name+".app")

	if err := m.Trasher.MoveToTrash(ctx, bundle, user); err != nil {
		return fmt.Errorf("could not move %s to the trash: %w", bundle, err)
	}
	return nil
}

func (m *Manager) Upgrade(ctx context.Context, t Target, user string) (bool, error) {
	entry, err := m.installed(ctx, t, user)
	if err != nil {
		return false, err
	}
	return m.succeeded(ctx, user, "upgrade", entry.ID)
}

// Outdated lists the installed apps with a pending store update.
func (m *Manager) Outdated(ctx context.Context, user string) ([]Update, error) {
	out, err := m.output(ctx, user, "outdated")
	if err != nil {
		return nil, err
	}
	return ParseOutdated(out)
}

// UpgradeAllApps upgrades every outdated app.
func (m *Manager) UpgradeAllApps(ctx context.Context, user string) (bool, error) {
	return m.succeeded(ctx, user, "upgrade")
}
