package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/steelcutops/steelcut-mas/steelcut/appstore"
	"github.com/steelcutops/steelcut-mas/steelcut/host"
)

const masFormula = "mas"

func (a *App) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed apps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.forEachHost(cmd, a.withAppStore(func(ctx context.Context, apps *appstore.Manager, user string) (any, error) {
				return apps.List(ctx, user)
			}))
		},
	}
}

func (a *App) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search TERM",
		Short: "Search the App Store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.forEachHost(cmd, a.withAppStore(func(ctx context.Context, apps *appstore.Manager, user string) (any, error) {
				return apps.Search(ctx, args[0], user)
			}))
		},
	}
}

func (a *App) newIsInstalledCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "is-installed APP",
		Short: "Check whether an app is installed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.forEachHost(cmd, a.withAppStore(func(ctx context.Context, apps *appstore.Manager, user string) (any, error) {
				return apps.IsInstalled(ctx, appstore.ParseTarget(args[0]), user)
			}))
		},
	}
}

func (a *App) newIsOutdatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "is-outdated APP",
		Short: "Check whether the App Store has a newer version of an installed app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.forEachHost(cmd, a.withAppStore(func(ctx context.Context, apps *appstore.Manager, user string) (any, error) {
				return apps.IsOutdated(ctx, appstore.ParseTarget(args[0]), user)
			}))
		},
	}
}

func (a *App) newVersionCmd() *cobra.Command {
	var latest bool

	cmd := &cobra.Command{
		Use:   "version APP",
		Short: "Print the installed version of an app",
		Long: `Print the installed version of an app.

With --latest the version currently offered by the App Store is printed
instead. It is read from mas info and is best effort.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.forEachHost(cmd, a.withAppStore(func(ctx context.Context, apps *appstore.Manager, user string) (any, error) {
				t := appstore.ParseTarget(args[0])
				if latest {
					return apps.LatestVersion(ctx, t, user)
				}
				return apps.CurrentVersion(ctx, t, user)
			}))
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "Print the App Store version")
	return cmd
}

func (a *App) newInstallCmd() *cobra.Command {
	install := a.mutate("install", func(ctx context.Context, apps *appstore.Manager, t appstore.Target, user string) (bool, error) {
		return apps.Install(ctx, t, user)
	})

	return &cobra.Command{
		Use:   "install APP",
		Short: "Install an app by identifier, or the first search hit for a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.forEachHost(cmd, install(args[0]))
		},
	}
}

func (a *App) newRemoveCmd() *cobra.Command {
	var trash bool
	remove := a.mutate("remove", func(ctx context.Context, apps *appstore.Manager, t appstore.Target, user string) (bool, error) {
		return apps.Remove(ctx, t, user)
	})

	cmd := &cobra.Command{
		Use:   "remove APP",
		Short: "Remove an installed app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []host.HostOption
			if trash {
				extra = append(extra, host.WithRemoveStrategy(appstore.RemoveToTrash))
			}
			return a.forEachHost(cmd, remove(args[0]), extra...)
		},
	}

	cmd.Flags().BoolVar(&trash, "trash", false, "Move the app bundle to the user's trash instead of running mas uninstall")
	return cmd
}

func (a *App) newUpgradeCmd() *cobra.Command {
	upgrade := a.mutate("upgrade", func(ctx context.Context, apps *appstore.Manager, t appstore.Target, user string) (bool, error) {
		return apps.Upgrade(ctx, t, user)
	})

	return &cobra.Command{
		Use:   "upgrade APP",
		Short: "Upgrade an installed app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.forEachHost(cmd, upgrade(args[0]))
		},
	}
}

func (a *App) newOutdatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outdated",
		Short: "List installed apps with pending updates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.forEachHost(cmd, a.withAppStore(func(ctx context.Context, apps *appstore.Manager, user string) (any, error) {
				return apps.Outdated(ctx, user)
			}))
		},
	}
}

func (a *App) newUpgradeAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade-all",
		Short: "Upgrade every outdated app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.forEachHost(cmd, a.withAppStore(func(ctx context.Context, apps *appstore.Manager, user string) (any, error) {
				pending, err := apps.UpgradeAll(ctx)
				if err != nil {
					return nil, err
				}
				return map[string][]string{"still_outdated": pending}, nil
			}))
		},
	}
}

func (a *App) newHostInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "host-info",
		Short: "Print what each host reports about itself",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.forEachHost(cmd, func(ctx context.Context, h *host.Host) (any, error) {
				return h.HostManager.Info(ctx)
			})
		},
	}
}

func (a *App) newEnsureMasCmd() *cobra.Command {
	var upgrade bool

	cmd := &cobra.Command{
		Use:   "ensure-mas",
		Short: "Install the mas command line tool with Homebrew",
		Long: `Install the mas formula with Homebrew unless it is installed.

With --upgrade an installed mas is upgraded as well. Homebrew runs as the
--user account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.forEachHost(cmd, func(ctx context.Context, h *host.Host) (any, error) {
				if _, err := h.AppStore(); err != nil {
					return nil, err
				}
				if err := h.Brew.EnsurePackagePresent(ctx, masFormula); err != nil {
					return nil, err
				}
				action := "ensure"
				if upgrade {
					action = "upgrade"
					if err := h.Brew.UpgradePackage(ctx, masFormula); err != nil {
						return nil, err
					}
				}
				return mutation{App: masFormula, Action: action, Success: true}, nil
			})
		},
	}

	cmd.Flags().BoolVar(&upgrade, "upgrade", false, "Upgrade mas when it is already installed")
	return cmd
}
