package hostmanager

import "context"

type HostInfo struct {
	Hostname      string `yaml:"hostname"`
	OS            string `yaml:"os"`
	OSVersion     string `yaml:"os_version,omitempty"`
	KernelVersion string `yaml:"kernel_version"`
}

// HostManager reports facts about a host.
type HostManager interface {
	Info(ctx context.Context) (HostInfo, error)
	Hostname(ctx context.Context) (string, error)
	// OS returns the kernel name as printed by `uname -s`, e.g. Darwin.
	OS(ctx context.Context) (string, error)
}
