package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/steelcutops/steelcut-mas/logger"
	"github.com/steelcutops/steelcut-mas/steelcut/host"
	"golang.org/x/term"
)

// Version information set at build time.
var Version = "dev"

type globalOptions struct {
	Concurrency        int
	Debug              bool
	Hostnames          []string
	IniFilePath        string
	InstallMas         bool
	KeyPassPrompt      bool
	LogFileName        string
	PasswordPrompt     bool
	RunAs              string
	SudoPasswordPrompt bool
	Test               bool
	Timeout            time.Duration
	Username           string
}

type hostFactory func(ctx context.Context, hostname string, options ...host.HostOption) (*host.Host, error)

type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
	opts   *globalOptions

	newHost    hostFactory
	readSecret func(prompt string) (string, error)
	logCloser  io.Closer
}

func New() *App {
	app := &App{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		opts:    &globalOptions{},
		newHost: host.NewHost,
	}
	app.readSecret = app.readPassword

	app.root = &cobra.Command{
		Use:     "steelcut-mas",
		Short:   "Manage Mac App Store apps on one or more hosts",
		Version: Version,
		Long: `steelcut-mas drives the mas command line tool on local or SSH reachable
macOS hosts to query, install, upgrade and remove Mac App Store apps, and to
bring them into a declared state.

Apps are named either by their numeric App Store identifier or by name.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  app.configureLogger,
		PersistentPostRunE: app.closeLogger,
	}

	f := app.root.PersistentFlags()
	f.StringArrayVar(&app.opts.Hostnames, "hostname", nil, "Hostname to connect to (repeatable)")
	f.StringVar(&app.opts.IniFilePath, "ini", "", "Path to INI file with host configurations")
	f.StringVar(&app.opts.Username, "username", "", "Username to use for SSH connection")
	f.BoolVar(&app.opts.PasswordPrompt, "password", false, "Prompt for the SSH password")
	f.BoolVar(&app.opts.KeyPassPrompt, "keypass", false, "Prompt for the SSH key passphrase")
	f.BoolVar(&app.opts.SudoPasswordPrompt, "sudo-password", false, "Prompt for the sudo password")
	f.StringVar(&app.opts.RunAs, "user", "", "Run mas as this OS user")
	f.BoolVar(&app.opts.InstallMas, "install-mas", false, "Install mas with Homebrew when a host does not have it")
	f.IntVar(&app.opts.Concurrency, "concurrency", 10, "Maximum number of concurrent host connections")
	f.BoolVar(&app.opts.Test, "test", false, "Report what state changes would do without doing them")
	f.BoolVar(&app.opts.Debug, "debug", false, "Enable debug log level")
	f.StringVar(&app.opts.LogFileName, "log", "", "Log file name (default stderr)")
	f.DurationVar(&app.opts.Timeout, "timeout", 10*time.Minute, "Timeout per host")

	app.root.AddCommand(
		app.newListCmd(),
		app.newSearchCmd(),
		app.newIsInstalledCmd(),
		app.newIsOutdatedCmd(),
		app.newVersionCmd(),
		app.newInstallCmd(),
		app.newRemoveCmd(),
		app.newUpgradeCmd(),
		app.newOutdatedCmd(),
		app.newUpgradeAllCmd(),
		app.newStateCmd(),
		app.newApplyCmd(),
		app.newHostInfoCmd(),
		app.newEnsureMasCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) configureLogger(cmd *cobra.Command, args []string) error {
	closer, err := logger.Configure(logger.Options{
		Debug:   a.opts.Debug,
		LogFile: a.opts.LogFileName,
		RunID:   uuid.NewString(),
	})
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	a.logCloser = closer
	return nil
}

func (a *App) closeLogger(cmd *cobra.Command, args []string) error {
	if a.logCloser == nil {
		return nil
	}
	return a.logCloser.Close()
}

func (a *App) readPassword(prompt string) (string, error) {
	fmt.Fprint(a.stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
