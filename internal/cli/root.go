package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/tw93/motd/internal/config"
	"github.com/tw93/motd/internal/errors"
	"github.com/tw93/motd/internal/logger"
	"github.com/tw93/motd/internal/metrics"
	"github.com/tw93/motd/internal/render"
	"github.com/tw93/motd/internal/section"
)

// DefaultColumns is the default --columns value: autodetect, capped at 80.
const DefaultColumns = -FallbackColumns

type rootOptions struct {
	sections   []string
	noTitles   bool
	columns    int
	configPath string
}

// systemdPresent decides whether the systemd section is on by default.
var systemdPresent = metrics.SystemdPresent

var rootCmd = NewRootCmd()

// NewRootCmd builds the motd command and its subcommands.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	defaults := make([]string, 0, len(metrics.AllKeys()))
	for _, k := range metrics.DefaultKeys(systemdPresent()) {
		defaults = append(defaults, string(k))
	}

	cmd := &cobra.Command{
		Use:           "motd",
		Short:         "Show dynamic summary of system information",
		Long:          "Print a one-shot summary of load, memory, filesystems, temperatures, network and failed units, sized to the terminal.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.sections, "sections", "s", defaults,
		"Sections to display. "+metrics.KeyUsage())
	cmd.Flags().BoolVarP(&opts.noTitles, "no-titles", "n", false,
		"Do not display section titles")
	cmd.Flags().IntVarP(&opts.columns, "columns", "c", DefaultColumns,
		"Maximum terminal columns to use. 0 autodetects, -X uses the autodetected value or X, whichever is lower")
	cmd.Flags().StringVar(&opts.configPath, "config", "",
		"Config file (default $XDG_CONFIG_HOME/motd/config.toml)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.WrapWithCode(err, errors.ErrUsage,
			"Invalid command line",
			"Run 'motd --help' for usage")
	})

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func run(ctx context.Context, stdout, stderr io.Writer, opts *rootOptions) error {
	log := logger.NewEnvLogger("[motd]")

	keys, err := metrics.ParseKeys(opts.sections)
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return err
	}
	log.Debug("effective config:\n%s", config.Describe(cfg))

	layout := render.Layout{
		Columns: ResolveColumns(opts.columns, detectWidth),
		Profile: termenv.NewOutput(stdout).EnvColorProfile(),
	}
	log.Debug("rendering %d columns", layout.Columns)

	runner := &section.Runner{
		Layout:     layout,
		ShowTitles: !opts.noTitles,
		Stdout:     stdout,
		Stderr:     stderr,
		Log:        log,
	}
	if _, err := runner.Run(ctx, metrics.NewRegistry(cfg, log).Sections(keys)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// Execute runs the root command and exits with status 1 on a setup error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		msg := err.Error()
		if !strings.HasSuffix(msg, "\n") {
			msg += "\n"
		}
		fmt.Fprint(os.Stderr, msg)
		stop()
		os.Exit(1)
	}
}
