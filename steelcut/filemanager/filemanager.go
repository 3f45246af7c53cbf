package filemanager

import (
	"context"
	"errors"
	"strings"

	cm "github.com/steelcutops/steelcut-mas/steelcut/commandmanager"
)

// FileManager encompasses the file operations the app store manager needs.
type FileManager interface {
	Exists(ctx context.Context, path, user string) (bool, error)
	CreateDirectory(ctx context.Context, path, user string) error
	MoveFile(ctx context.Context, sourcePath, destPath, user string) error
	Trasher
}

// Trasher moves a file or bundle into a user's trash.
type Trasher interface {
	MoveToTrash(ctx context.Context, path, user string) error
}

// handleCommandResult turns a failed command into an error carrying the
// command's own message.
func handleCommandResult(result cm.CommandResult, err error) error {
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		msg := strings.TrimSpace(result.STDERR)
		if msg == "" {
			msg = strings.TrimSpace(result.STDOUT)
		}
		if msg == "" {
			msg = "command failed: " + result.Command
		}
		return errors.New(msg)
	}
	return nil
}
