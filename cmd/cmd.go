// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/moviedb/internal/formatter"
	"github.com/urfave/cli/v3"
)

const version = "0.3.0"

// -v belongs to --verbose.
func init() {
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}
}

// newApp builds the root command with the global flags every subcommand shares.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "moviedb",
		Usage:   "Keep a movie catalog, enrich it from OMDb and publish it as a static page",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Database path (overrides database.path)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before:   r.Before,
		After:    r.After,
		Commands: r.register(),
	}
}

// addCommand creates a movie record
func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a movie by title",
		ArgsUsage: "<title>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "fetch",
				Aliases: []string{"f"},
				Usage:   "Fetch year, rating and poster from OMDb after adding",
			},
		},
		Action: r.Add,
	}
}

// listCommand prints the catalog
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List all movies",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort order: id or rating",
				Value: "id",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Only movies whose title contains this text",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format instead of a table: " + strings.Join(formatter.Formats, ", "),
			},
		},
		Action: r.List,
	}
}

func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one movie",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Show,
	}
}

func updateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Change fields of a movie (an empty value clears year, rating or poster)",
		ArgsUsage: "<id> <field=value>...",
		Action:    r.Update,
	}
}

func deleteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a movie",
		ArgsUsage: "<id>",
		Action:    r.Delete,
	}
}

// fetchCommand enriches movies from OMDb
func fetchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch year, rating and poster from OMDb",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Fetch every movie in the catalog",
			},
			&cli.BoolFlag{
				Name:  "missing",
				Usage: "With --all, skip movies that already have year, rating and poster",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "With --all, requests per second (default: fetch.rate_limit)",
			},
		},
		Action: r.Fetch,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Find movies by title, with suggestions for near misses",
		ArgsUsage: "<query>",
		Action:    r.Search,
	}
}

func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show rating statistics",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Stats,
	}
}

func randomCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "random",
		Usage:  "Pick a random movie",
		Action: r.Random,
	}
}

func histogramCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "histogram",
		Usage: "Show the rating distribution",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "width",
				Usage: "Width of the longest bar",
				Value: 40,
			},
		},
		Action: r.Histogram,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format: " + strings.Join(formatter.Formats, ", "),
				Value: formatter.FormatCSV,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort order: id or rating",
				Value: "id",
			},
		},
		Action: r.Export,
	}
}

// generateSiteCommand renders the static page
func generateSiteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "generate-site",
		Aliases:   []string{"gen"},
		Usage:     "Render the catalog into a static HTML page",
		ArgsUsage: "[templatePath] [outputPath]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "title",
				Usage: "Page title (default: site.title)",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort order: id or rating",
				Value: "id",
			},
		},
		Action: r.GenerateSite,
	}
}

func siteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "site",
		Usage: "Static site helpers",
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Write the starter template",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing template",
					},
				},
				Action: r.SiteInit,
			},
		},
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Preview the generated site over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Directory to serve (default: directory of site.output)",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: server.host:server.port)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recent migration",
				Action: r.SetupRollback,
			},
			{
				Name:   "config",
				Usage:  "Write a config file populated with defaults",
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive catalog management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Browse, fetch and delete movies interactively",
		Action:  r.TUI,
	}
}
