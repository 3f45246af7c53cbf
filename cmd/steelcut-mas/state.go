package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/steelcutops/steelcut-mas/steelcut/appstore"
	"github.com/steelcutops/steelcut-mas/steelcut/statemanager"
)

func (a *App) stateManager(apps *appstore.Manager) *statemanager.StateManager {
	return &statemanager.StateManager{Apps: apps, Test: a.opts.Test}
}

func (a *App) newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <installed|latest|absent> APP",
		Short: "Bring an app into the given state",
		Long: `Bring an app into the given state.

  installed  install the app unless it is installed
  latest     install the app, or upgrade it when it is installed
  absent     remove the app when it is installed

With --test nothing is changed and the result is pending where a change
would be made.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := statemanager.ParseState(args[0])
			if err != nil {
				return err
			}

			return a.forEachHost(cmd, a.withAppStore(func(ctx context.Context, apps *appstore.Manager, user string) (any, error) {
				result := a.stateManager(apps).Ensure(ctx, state, args[1], user)
				if result.Status == statemanager.StatusFailure {
					return nil, &hostFailure{output: result, msg: fmt.Sprintf("%s %s: %s", state, args[1], result.Comment)}
				}
				return result, nil
			}))
		},
	}
}

type applyOptions struct {
	file  string
	watch bool
}

func (a *App) newApplyCmd() *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Bring every app of a state file into its declared state",
		Long: `Bring every app of a state file into its declared state.

Example state file:

  user: alice
  apps:
    - name: Telegram
      state: installed
    - name: "497799835"
      state: latest
    - name: iMovie
      state: absent
      user: bob

Files ending in .toml are read as TOML with the same layout.
Declarations are applied in order. A user set on a declaration wins over
the file default, which wins over --user.

With --watch the file is applied again every time it changes, until
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Path to the YAML or TOML state file")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Apply again whenever the state file changes")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *App) apply(cmd *cobra.Command, opts *applyOptions) error {
	ctx := cmd.Context()

	hostGroup, initErrs, err := a.initializeHosts(ctx)
	if err != nil {
		return err
	}

	run := func() error {
		sf, err := statemanager.LoadStateFile(opts.file)
		if err != nil {
			return err
		}
		if sf.User == "" {
			sf.User = a.opts.RunAs
		}
		err = a.process(ctx, cmd.Name(), hostGroup, a.withAppStore(func(ctx context.Context, apps *appstore.Manager, user string) (any, error) {
			results, err := a.stateManager(apps).Apply(ctx, sf)
			if err != nil || statemanager.Failed(results) {
				msg := fmt.Sprintf("%d of %d apps failed: %s", countFailed(results), len(results), failedComments(results))
				return nil, &hostFailure{output: results, msg: msg}
			}
			return results, nil
		}))
		return joinErrors(initErrs, err)
	}

	err = run()
	if !opts.watch {
		return err
	}
	if err != nil {
		logrus.WithError(err).Error("Apply failed")
	}

	logrus.WithField("file", opts.file).Info("Watching state file")
	return watchFile(ctx, opts.file, func() {
		if err := run(); err != nil {
			logrus.WithError(err).Error("Apply failed")
		}
	})
}

func countFailed(results []statemanager.Result) int {
	n := 0
	for _, r := range results {
		if r.Status == statemanager.StatusFailure {
			n++
		}
	}
	return n
}

func failedComments(results []statemanager.Result) string {
	s := ""
	for _, r := range results {
		if r.Status != statemanager.StatusFailure {
			continue
		}
		if s != "" {
			s += "; "
		}
		s += fmt.Sprintf("%s (%s): %s", r.Name, r.State, r.Comment)
	}
	return s
}
