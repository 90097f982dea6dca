package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vpbrowse/internal/config"
	"github.com/vango-dev/vpbrowse/internal/errors"
	"github.com/vango-dev/vpbrowse/pkg/components"
	"github.com/vango-dev/vpbrowse/pkg/router"
	"github.com/vango-dev/vpbrowse/pkg/site"
	"github.com/vango-dev/vpbrowse/pkg/vpapi"
)

// loadConfig loads the config in the --dir directory, falling back to
// defaults.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	return config.LoadOptional(flags.dir)
}

func newClient(cfg *config.Config, logger *slog.Logger) *vpapi.Client {
	return vpapi.New(vpapi.Config{
		BaseURL:     cfg.API.BaseURL,
		PSID:        cfg.API.PSID,
		AccessKey:   cfg.API.AccessKey,
		Timeout:     cfg.APITimeout(),
		TagCacheTTL: cfg.TagCacheTTL(),
		Logger:      logger,
	})
}

// setup loads and validates the config and builds a logger.
func setup(flags *globalFlags) (*config.Config, *slog.Logger, error) {
	logger, err := newLogger(flags)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func initCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default vpbrowse.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(flags.dir, config.ConfigFileName)
			if config.Exists(flags.dir) && !force {
				return errors.Newf(errors.CategoryConfig, "%s already exists", path).
					WithSuggestion("Pass --force to overwrite it")
			}
			cfg := config.New()
			cfg.Name = "vpbrowse"
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success("Wrote %s", path)
			info("Set %s and %s or edit the file to add API credentials", config.EnvPSID, config.EnvAccessKey)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func resolveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Show which page serves a path",
		Long: `Resolve paths against the app's routes, the way the browser
client does. Paths may include the base path and a query.

Examples:
  vpbrowse resolve /tag/cats
  vpbrowse resolve /app/details/abc?page=2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(flags)
			if err != nil {
				return err
			}
			return resolvePaths(cmd.OutOrStdout(), cfg, logger, args)
		},
	}
}

func resolvePaths(w io.Writer, cfg *config.Config, logger *slog.Logger, paths []string) error {
	r := router.New(router.WithBasePath(cfg.BasePath), router.WithLogger(logger))
	site.New(r, newClient(cfg, logger), nil, site.Config{Logger: logger}).Register()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tROUTE\tCAPTURES")
	for _, p := range paths {
		logical := r.BasePath().LogicalPath(p)
		route, m, ok := r.Resolve(logical)
		if !ok {
			fmt.Fprintf(tw, "%s\t-\t\n", p)
			continue
		}
		captures := make([]string, 0, len(m.Captures))
		for _, c := range m.Captures {
			captures = append(captures, fmt.Sprintf("%q", c.Value))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p, route.Label(), strings.Join(captures, " "))
	}
	return tw.Flush()
}

func tagsCmd(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tags [query]",
		Short: "List tags, or the closest matches for a query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(flags)
			if err != nil {
				return err
			}
			tags, err := newClient(cfg, logger).Tags(cmd.Context(), false)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				tags = components.RankTags(tags, args[0], limit)
			}
			for _, tag := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", components.MaxSuggestions, "Number of matches to show for a query")
	return cmd
}

func videosCmd(flags *globalFlags) *cobra.Command {
	var (
		tags    []string
		related string
		page    int
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "videos",
		Short: "List videos",
		Long: `List popular videos, videos for tags, or videos related to one.

Examples:
  vpbrowse videos
  vpbrowse videos --tag=cats --page=2
  vpbrowse videos --related=abc123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(flags)
			if err != nil {
				return err
			}
			client := newClient(cfg, logger)

			var resp *vpapi.ListResponse
			if related != "" {
				resp, err = client.Related(cmd.Context(), vpapi.RelatedParams{ID: related, Page: page, Limit: limit})
			} else {
				resp, err = client.List(cmd.Context(), vpapi.ListParams{Page: page, Limit: limit, Tags: tags})
			}
			if err != nil {
				return err
			}
			return printVideos(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Only videos with this tag (repeatable)")
	cmd.Flags().StringVar(&related, "related", "", "List videos related to this video ID")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVarP(&limit, "limit", "n", site.DefaultPageSize, "Videos per page")
	return cmd
}

func printVideos(w io.Writer, resp *vpapi.ListResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDURATION\tTITLE")
	for _, v := range resp.Videos {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", v.ID, time.Duration(v.Duration)*time.Second, v.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	p := resp.Pagination
	_, err := fmt.Fprintf(w, "\npage %d of %d\n", p.CurrentPage, p.TotalPages)
	return err
}

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version)
				return
			}
			fmt.Fprintf(out, "vpbrowse %s\n", version)
			fmt.Fprintf(out, "  Commit:     %s\n", commit)
			fmt.Fprintf(out, "  Built:      %s\n", date)
			fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	return cmd
}
