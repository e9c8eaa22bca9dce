package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the pkgscout CLI and returns an error if any command fails.
//
// Logging defaults to info level on stderr; --verbose (-v) switches to debug.
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute() error {
	var (
		verbose bool
		cfgPath string
	)

	root := &cobra.Command{
		Use:          "pkgscout",
		Short:        "pkgscout catalogs and scores open-source packages",
		Long:         `pkgscout tracks open-source packages across a package index and their repository hosts, aggregates release and commit metadata, and ranks each package by activity and compatibility.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("pkgscout %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	root.AddCommand(newServeCmd(&cfgPath))
	root.AddCommand(newAddCmd(&cfgPath))
	root.AddCommand(newRefreshCmd(&cfgPath))
	root.AddCommand(newScoreCmd(&cfgPath))
	root.AddCommand(newCacheCmd(&cfgPath))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return root.ExecuteContext(ctx)
}
