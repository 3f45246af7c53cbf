package hostmanager

import (
	"context"
	"fmt"
	"strings"

	cm "github.com/steelcutops/steelcut-mas/steelcut/commandmanager"
)

type UnixHostManager struct {
	CommandManager cm.CommandManager
}

// Info gathers what the host reports about itself. OSVersion is only
// filled in on macOS, where sw_vers exists.
func (uhm *UnixHostManager) Info(ctx context.Context) (HostInfo, error) {
	hostname, err := uhm.Hostname(ctx)
	if err != nil {
		return HostInfo{}, err
	}

	osName, err := uhm.OS(ctx)
	if err != nil {
		return HostInfo{}, err
	}

	kernelVersion, err := uhm.output(ctx, "uname", "-r")
	if err != nil {
		return HostInfo{}, err
	}

	info := HostInfo{
		Hostname:      hostname,
		OS:            osName,
		KernelVersion: kernelVersion,
	}

	if osName == "Darwin" {
		info.OSVersion, err = uhm.output(ctx, "sw_vers", "-productVersion")
		if err != nil {
			return HostInfo{}, err
		}
	}

	return info, nil
}

func (uhm *UnixHostManager) Hostname(ctx context.Context) (string, error) {
	return uhm.output(ctx, "hostname")
}

func (uhm *UnixHostManager) OS(ctx context.Context) (string, error) {
	return uhm.output(ctx, "uname", "-s")
}

func (uhm *UnixHostManager) output(ctx context.Context, command string, args ...string) (string, error) {
	result, err := uhm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: command,
		Args:    args,
	})
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", fmt.Errorf("%s failed: %s", cm.CommandLine(command, args...), strings.TrimSpace(result.STDERR))
	}

	return strings.TrimSpace(result.STDOUT), nil
}
