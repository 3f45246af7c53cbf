package packagemanager

import (
	"context"
	"errors"
)

// ErrCommandFailed is returned when the package tool exits non-zero.
var ErrCommandFailed = errors.New("package command failed")

type PackageManager interface {
	ListPackages(ctx context.Context) ([]string, error)
	AddPackage(ctx context.Context, pkg string) error
	RemovePackage(ctx context.Context, pkg string) error
	UpgradePackage(ctx context.Context, pkg string) error
	CheckOSUpdates(ctx context.Context) ([]string, error)
	UpgradeAll(ctx context.Context) ([]string, error)

	// Idempotent package management
	EnsurePackagePresent(ctx context.Context, pkg string) error
	EnsurePackageAbsent(ctx context.Context, pkg string) error
}

func contains(packages []string, pkg string) bool {
	for _, p := range packages {
		if p == pkg {
			return true
		}
	}
	return false
}
