package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1F47E/sun-locator/pkg/config"
	"github.com/1F47E/sun-locator/pkg/logger"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// app carries what every command needs once flags and config are resolved
type app struct {
	out        io.Writer
	tty        bool
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
}

func newRootCmd(out io.Writer, tty bool) *cobra.Command {
	return (&app{out: out, tty: tty}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sunloc",
		Short: "Locate an observer from sunrise and sunset times",
		Long: `sunloc inverts the solar geometry: given the local clock times of sunrise and
sunset on a date and the UTC offset of the clock, it estimates latitude and
longitude, then forecasts sunrise and sunset for the solved location.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (default $SUNLOC_CONFIG or ./sunloc.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		newSolveCmd(a),
		newForecastCmd(a),
		newSeasonsCmd(a),
		newPlacesCmd(a),
		newSweepCmd(a),
	)
	rootCmd.SetOut(a.out)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg
	a.logger, a.closer = logger.New(cfg.Log)
	a.logger.Debug("config loaded", "engine", cfg.Forecast.Engine, "store", cfg.StoreEnabled())
	return nil
}

// teardown releases the log sink; safe to call more than once
func (a *app) teardown() {
	if a.closer != nil {
		a.closer.Close()
		a.closer = nil
	}
}

// execute runs the command tree and closes the log sink whether or not
// the command succeeded
func execute(ctx context.Context, out io.Writer, tty bool, args []string) error {
	a := &app{out: out, tty: tty}
	defer a.teardown()

	cmd := a.rootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil && a.logger != nil {
		a.logger.Error("command failed", "error", err)
	}
	return err
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Stdout, isTerminal(os.Stdout), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
