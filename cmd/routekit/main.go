package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/internal/config"
	"github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/routes"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cli holds the global flags shared by every command.
type cli struct {
	configPath string
	verbose    bool
	noColor    bool
	logger     *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "routekit",
		Short: "Inspect route tables and render URLs from a routes file",
		Long: `routekit loads a routes file (YAML or JSON), compiles it into a
route table, and renders exact URLs from it.

Examples:
  routekit list
  routekit url user -p id=42 -q tab=posts
  routekit walk users 42 posts
  routekit check -c routes.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if c.verbose {
				level = slog.LevelDebug
			}
			c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if c.noColor {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", config.DefaultFile, "Routes file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log table construction at debug level")
	rootCmd.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		listCmd(c),
		urlCmd(c),
		patternCmd(c),
		walkCmd(c),
		checkCmd(c),
		versionCmd(),
	)

	return rootCmd
}

// load reads the routes file and builds the table.
func (c *cli) load() (*config.Config, *routes.Table, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, nil, err
	}

	table, err := cfg.Build(routes.WithLogger(c.logger))
	if err != nil {
		return nil, nil, err
	}
	return cfg, table, nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
