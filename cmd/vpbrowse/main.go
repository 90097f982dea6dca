// Command vpbrowse serves the video browser and offers a few helpers for
// working with the Video Promotion API from a terminal.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vpbrowse/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type globalFlags struct {
	dir       string
	logFormat string
	verbose   bool
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "vpbrowse",
		Short: "Browse promoted videos in a single-page web app",
		Long: `vpbrowse serves a single-page video browser backed by the
Video Promotion API.

The server delivers the application shell, the WebAssembly client and
its assets, and proxies API calls so credentials never reach browsers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", ".", "Directory containing vpbrowse.json")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug messages")

	rootCmd.AddCommand(
		serveCmd(&flags),
		buildCmd(&flags),
		initCmd(&flags),
		resolveCmd(&flags),
		tagsCmd(&flags),
		videosCmd(&flags),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger from the global flags.
func newLogger(flags *globalFlags) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if flags.verbose {
		opts.Level = slog.LevelDebug
	}

	switch strings.ToLower(flags.logFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, errors.New("E122").WithDetailf("unknown log format %q", flags.logFormat)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an indented message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
