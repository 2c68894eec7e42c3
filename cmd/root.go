package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codex-rotate/cli/internal/auth"
	"github.com/codex-rotate/cli/internal/config"
	"github.com/codex-rotate/cli/internal/logger"
	"github.com/codex-rotate/cli/internal/pool"
)

var version = "1.0.0" // This will be set during build

var (
	// ErrUsage is returned when a command is missing a required argument
	ErrUsage = errors.New("usage")
	// ErrUnknownCommand is returned for anything that is not a command
	ErrUnknownCommand = errors.New("unknown command")
)

// rootOptions carries the global flags into every command
type rootOptions struct {
	codexHome  string
	rotateHome string
	logLevel   string
	color      string
	now        func() time.Time
}

// app is everything a command needs for one invocation
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	creds *auth.Store
	pools *pool.Repository
	out   *printer
	now   func() time.Time
}

func (o *rootOptions) open(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(config.Overrides{
		CodexHome:  o.codexHome,
		RotateHome: o.rotateHome,
		LogLevel:   o.logLevel,
		Color:      o.color,
	})
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Logging, cmd.ErrOrStderr())
	log.Debug("configuration loaded",
		"credentials", cfg.CredentialsPath(), "pool", cfg.PoolPath(), "command", cmd.Name())

	return &app{
		cfg:   cfg,
		log:   log,
		creds: auth.NewStore(cfg.CredentialsPath()),
		pools: pool.NewRepository(cfg.PoolPath(), log),
		out:   newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Color),
		now:   o.now,
	}, nil
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{now: time.Now}

	rootCmd := &cobra.Command{
		Use:   "codex-rotate",
		Short: "Rotate between stored Codex CLI logins",
		Long: `codex-rotate keeps a pool of Codex CLI logins and swaps which one is active
by rewriting $CODEX_HOME/auth.json.

Log in with 'codex login', then save the login under a label:
  codex-rotate add work

Switch between saved logins:
  codex-rotate next
  codex-rotate prev
  codex-rotate use work

Inspect the pool:
  codex-rotate list
  codex-rotate status`,
		Args:          unknownCommand,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&o.codexHome, "codex-home", "", "Codex home directory holding auth.json (overrides CODEX_HOME)")
	rootCmd.PersistentFlags().StringVar(&o.rotateHome, "home", "", "codex-rotate data directory holding pool.json (overrides CODEX_ROTATE_HOME)")
	rootCmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&o.color, "color", "", "Colored output: auto, always, never")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of codex-rotate",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "codex-rotate v%s\n", version)
		},
	}

	rootCmd.AddCommand(
		newAddCmd(o),
		newNextCmd(o),
		newPrevCmd(o),
		newUseCmd(o),
		newListCmd(o),
		newStatusCmd(o),
		newRemoveCmd(o),
		versionCmd,
	)
	return rootCmd
}

// unknownCommand rejects positional arguments on the root command
func unknownCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return fmt.Errorf("%w %q. Run '%s --help' for usage", ErrUnknownCommand, args[0], cmd.Root().Name())
}

// labelArg requires exactly one non-blank label argument
func labelArg(usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
			return fmt.Errorf("%w: codex-rotate %s", ErrUsage, usage)
		}
		return nil
	}
}

// Execute runs the command line and prints any error once.
func Execute() error {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err != nil {
		newPrinter(stderr, stderr, config.ColorAuto).Error(err)
	}
	return err
}
