package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviedb/internal/repositories"
	"github.com/desertthunder/moviedb/internal/services"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/desertthunder/moviedb/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database and the metadata provider are opened on first use, so commands that only touch files never create a
// database.
type Runner struct {
	config     *shared.Config
	configPath string
	fixed      bool
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
	ownDB      bool
	movies     *repositories.MovieRepository
	enricher   services.Enricher
	engine     *tasks.CatalogEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config    // Used as-is instead of loading --config
	Logger   *log.Logger       // Defaults to stderr
	Output   io.Writer         // Defaults to stdout
	DB       *sql.DB           // Migrated database; opened from config when nil
	Enricher services.Enricher // Built from config when nil
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	r := &Runner{
		config:   opts.Config,
		fixed:    opts.Config != nil,
		logger:   opts.Logger,
		output:   opts.Output,
		db:       opts.DB,
		enricher: opts.Enricher,
	}
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	if r.logger == nil {
		r.logger = shared.NewLogger(nil)
	}
	if r.output == nil {
		r.output = os.Stdout
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		addCommand, listCommand, showCommand, updateCommand, deleteCommand, fetchCommand,
		searchCommand, statsCommand, randomCommand, histogramCommand, exportCommand,
		generateSiteCommand, siteCommand, serveCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before resolves configuration from the global flags, .env and the environment.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	r.configPath = cmd.String("config")
	if !r.fixed {
		config, err := loadConfig(r.configPath, cmd.IsSet("config"))
		if err != nil {
			return ctx, err
		}
		if config == nil {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
			config = shared.DefaultConfig()
		}
		r.config = config
	}

	if err := shared.LoadEnvFile(".env"); err != nil {
		r.logger.Warn("ignoring .env", "error", err)
	}
	r.config.ApplyEnv(os.Getenv)

	if path := cmd.String("db"); path != "" {
		r.config.Database.Path = path
	}

	return ctx, r.config.Validate()
}

// After releases the database connection, if one was opened.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	return r.Close()
}

// Close closes the database if the runner opened it.
func (r *Runner) Close() error {
	if r.db == nil || !r.ownDB {
		return nil
	}
	err := r.db.Close()
	r.db, r.ownDB, r.movies, r.engine = nil, false, nil, nil
	return err
}

// loadConfig reads path. A missing file is an error only when the user named it explicitly.
func loadConfig(path string, explicit bool) (*shared.Config, error) {
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
		return nil, nil
	}
	return shared.LoadConfig(path)
}

// store returns the movie repository, opening and migrating the database on first use.
func (r *Runner) store() (*repositories.MovieRepository, error) {
	if r.movies != nil {
		return r.movies, nil
	}

	if r.db == nil {
		r.logger.Debug("opening database", "path", r.config.Database.Path)
		db, err := shared.OpenMigrated(r.config.Database)
		if err != nil {
			return nil, err
		}
		r.db, r.ownDB = db, true
	}

	r.movies = repositories.NewMovieRepository(r.db)
	return r.movies, nil
}

// catalog returns the engine for enrichment and catalog views.
//
// Without an API key the engine still serves read-only views and enrichment fails with
// [shared.ErrMissingCredentials].
func (r *Runner) catalog() (*tasks.CatalogEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	movies, err := r.store()
	if err != nil {
		return nil, err
	}

	if r.enricher == nil {
		omdb := r.config.Credentials.OMDb
		client, err := services.NewOMDbClient(omdb.APIKey, omdb.BaseURL, omdb.Timeout())
		switch {
		case errors.Is(err, shared.ErrMissingCredentials):
			r.logger.Debug("no OMDb API key configured")
		case err != nil:
			return nil, err
		default:
			r.enricher = client
		}
	}

	r.engine = tasks.NewCatalogEngine(movies, r.enricher)
	return r.engine, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
