package usermanager

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	cm "github.com/steelcutops/steelcut-mas/steelcut/commandmanager"
)

var ErrUnknownUser = errors.New("unknown user")

// DarwinUserManager reads accounts from the local directory service.
type DarwinUserManager struct {
	CommandManager cm.CommandManager
}

func (d *DarwinUserManager) GetUser(ctx context.Context, username string) (User, error) {
	if username == "" {
		current, err := d.currentUsername(ctx)
		if err != nil {
			return User{}, err
		}
		username = current
	}

	output, err := d.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "dscl",
		Args:    []string{".", "-read", "/Users/" + username, "NFSHomeDirectory", "UniqueID", "PrimaryGroupID", "UserShell", "RealName"},
	})
	if err != nil {
		return User{}, err
	}
	if !output.Success() {
		return User{}, fmt.Errorf("%w %q: %s", ErrUnknownUser, username, strings.TrimSpace(output.STDERR))
	}

	attrs := parseDSCL(output.STDOUT)
	if attrs["NFSHomeDirectory"] == "" {
		return User{}, fmt.Errorf("%w %q: no home directory", ErrUnknownUser, username)
	}

	uid, _ := strconv.Atoi(attrs["UniqueID"])
	gid, _ := strconv.Atoi(attrs["PrimaryGroupID"])

	return User{
		Username: username,
		UID:      uid,
		GID:      gid,
		Comment:  attrs["RealName"],
		HomeDir:  attrs["NFSHomeDirectory"],
		Shell:    attrs["UserShell"],
	}, nil
}

func (d *DarwinUserManager) currentUsername(ctx context.Context) (string, error) {
	output, err := d.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "id",
		Args:    []string{"-un"},
	})
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(output.STDOUT)
	if !output.Success() || name == "" {
		return "", fmt.Errorf("could not determine current user: %s", strings.TrimSpace(output.STDERR))
	}
	return name, nil
}

// parseDSCL parses "Key: value" records. dscl puts long values on the
// following, space-indented line after a bare "Key:".
func parseDSCL(out string) map[string]string {
	attrs := make(map[string]string)
	var pending string

	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		if pending != "" && strings.HasPrefix(line, " ") {
			attrs[pending] = strings.TrimSpace(line)
			pending = ""
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			pending = key
			continue
		}
		attrs[key] = value
		pending = ""
	}

	return attrs
}
