package filemanager

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	cm "github.com/steelcutops/steelcut-mas/steelcut/commandmanager"
	"github.com/steelcutops/steelcut-mas/steelcut/usermanager"
)

type UnixFileManager struct {
	CommandManager cm.CommandManager
	UserManager    usermanager.UserManager

	// Now stamps trash names on collision. Defaults to time.Now.
	Now func() time.Time
}

func (ufm *UnixFileManager) Exists(ctx context.Context, p, user string) (bool, error) {
	result, err := ufm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "test",
		Args:    []string{"-e", p},
		User:    user,
	})
	if err != nil {
		return false, err
	}
	return result.Success(), nil
}

func (ufm *UnixFileManager) CreateDirectory(ctx context.Context, p, user string) error {
	result, err := ufm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "mkdir",
		Args:    []string{"-p", p},
		User:    user,
	})
	return handleCommandResult(result, err)
}

func (ufm *UnixFileManager) MoveFile(ctx context.Context, sourcePath, destPath, user string) error {
	result, err := ufm.CommandManager.Run(ctx, cm.CommandConfig{
		Command: "mv",
		Args:    []string{sourcePath, destPath},
		User:    user,
	})
	return handleCommandResult(result, err)
}

// MoveToTrash moves p into the user's ~/.Trash, the way Finder does, adding
// a time suffix when an item with the same name is already there.
func (ufm *UnixFileManager) MoveToTrash(ctx context.Context, p, user string) error {
	if ok, err := ufm.Exists(ctx, p, user); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%s: no such file or directory", p)
	}

	account, err := ufm.UserManager.GetUser(ctx, user)
	if err != nil {
		return err
	}

	trashDir := path.Join(account.HomeDir, ".Trash")
	if err := ufm.CreateDirectory(ctx, trashDir, user); err != nil {
		return err
	}

	dest := path.Join(trashDir, path.Base(p))
	if taken, err := ufm.Exists(ctx, dest, user); err != nil {
		return err
	} else if taken {
		dest = path.Join(trashDir, ufm.collisionName(path.Base(p)))
	}

	logrus.WithFields(logrus.Fields{"source": p, "dest": dest, "user": user}).Info("Moving to trash")
	return ufm.MoveFile(ctx, p, dest, user)
}

// collisionName turns "Name.app" into "Name 15-04-05.app".
func (ufm *UnixFileManager) collisionName(base string) string {
	now := time.Now
	if ufm.Now != nil {
		now = ufm.Now
	}

	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return stem + " " + now().Format("15-04-05") + ext
}
