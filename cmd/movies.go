package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/moviedb/internal/formatter"
	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/repositories"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/desertthunder/moviedb/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Add creates a movie from the title given as arguments. With --fetch it is enriched straight away; a failed lookup
// keeps the new record and is reported as a warning.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	movies, err := r.store()
	if err != nil {
		return err
	}

	movie := models.NewMovie(title)
	if err := movies.Create(movie); err != nil {
		return err
	}
	r.logger.Debug("movie added", "id", movie.ID(), "title", movie.Title())
	r.writePlain("✓ Added %q (id %d)\n", movie.Title(), movie.ID())

	if !cmd.Bool("fetch") {
		return nil
	}

	engine, err := r.catalog()
	if err != nil {
		return err
	}
	result, err := engine.Enrich(ctx, movie.ID())
	if err != nil {
		r.logger.Warn("could not fetch movie data", "title", movie.Title(), "error", err)
		return nil
	}
	return r.writePlain("✓ %s\n", result.Movie)
}

// List prints the catalog as a table, JSON or one of the export formats.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.store()
	if err != nil {
		return err
	}

	list, err := movies.List(map[string]any{
		repositories.CriteriaSort:  cmd.String("sort"),
		repositories.CriteriaTitle: cmd.String("title"),
	})
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(records(list), true)
	case cmd.String("format") != "":
		data, err := formatter.Export(list, cmd.String("format"), r.config.Site.Title)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	case len(list) == 0:
		return r.writePlain("No movies yet. Add one with `moviedb add <title>`.\n")
	default:
		return r.writePlain("%s\n", formatter.RenderTable(list))
	}
}

// Show prints one movie.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.Args().First())
	if err != nil {
		return err
	}

	movies, err := r.store()
	if err != nil {
		return err
	}
	movie, err := movies.Get(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie.Record(), true)
	}
	r.writeMovie(movie)
	return nil
}

// Update applies field=value changes to a movie.
func (r *Runner) Update(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	id, err := parseID(args.First())
	if err != nil {
		return err
	}

	patch, err := models.ParsePatch(args.Tail())
	if err != nil {
		return err
	}

	movies, err := r.store()
	if err != nil {
		return err
	}
	movie, err := movies.Patch(id, patch)
	if err != nil {
		return err
	}

	r.logger.Debug("movie updated", "id", id)
	return r.writePlain("✓ Updated %d. %s\n", movie.ID(), movie)
}

// Delete removes a movie.
func (r *Runner) Delete(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.Args().First())
	if err != nil {
		return err
	}

	movies, err := r.store()
	if err != nil {
		return err
	}
	if err := movies.Delete(id); err != nil {
		return err
	}

	r.logger.Debug("movie deleted", "id", id)
	return r.writePlain("✓ Deleted movie %d\n", id)
}

// Fetch enriches one movie, or every movie with --all.
func (r *Runner) Fetch(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.catalog()
	if err != nil {
		return err
	}

	if cmd.Bool("all") {
		return r.fetchAll(ctx, cmd, engine)
	}

	id, err := parseID(cmd.Args().First())
	if err != nil {
		return err
	}

	result, err := engine.Enrich(ctx, id)
	if err != nil {
		return err
	}
	if !result.Changed {
		return r.writePlain("%s is already up to date\n", result.Movie)
	}
	return r.writePlain("✓ %s\n", result.Movie)
}

func (r *Runner) fetchAll(ctx context.Context, cmd *cli.Command, engine *tasks.CatalogEngine) error {
	opts := tasks.EnrichAllOpts{
		RateLimit:   r.config.Fetch.RateLimit,
		OnlyMissing: cmd.Bool("missing"),
	}
	if cmd.IsSet("rate") {
		opts.RateLimit = cmd.Float("rate")
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			// Only outcomes carry Data.
			if update.Data != nil {
				r.writePlain("%s\n", update.Message)
				continue
			}
			r.logger.Debug(update.Message, "phase", update.Phase)
		}
	}()

	result, err := engine.EnrichAll(ctx, progress, opts)
	close(progress)
	<-done

	if result != nil {
		r.writePlain("\n%d movies: %d updated, %d unchanged, %d skipped, %d failed\n",
			result.Total, result.Updated, result.Unchanged, result.Skipped, result.Failed)
	}
	return err
}

// Search lists movies whose title contains the query, or suggests close titles.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.catalog()
	if err != nil {
		return err
	}

	result, err := engine.Search(strings.Join(cmd.Args().Slice(), " "))
	if err != nil {
		return err
	}

	if len(result.Matches) > 0 {
		for _, m := range result.Matches {
			r.writePlain("%d. %s\n", m.ID(), m)
		}
		return nil
	}

	r.writePlain("No movies match %q\n", result.Query)
	if len(result.Suggestions) > 0 {
		r.writePlain("Did you mean: %s?\n", strings.Join(result.Suggestions, ", "))
	}
	return nil
}

type statsOutput struct {
	Total   int      `json:"total"`
	Rated   int      `json:"rated"`
	Average *string  `json:"average"`
	Median  *string  `json:"median"`
	Best    []string `json:"best"`
	Worst   []string `json:"worst"`
}

// Stats prints rating statistics.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.catalog()
	if err != nil {
		return err
	}

	stats, err := engine.Stats()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := statsOutput{
			Total: stats.Total,
			Rated: stats.Rated,
			Best:  titles(stats.Best),
			Worst: titles(stats.Worst),
		}
		if stats.Average != nil {
			avg, median := stats.Average.String(), stats.Median.String()
			out.Average, out.Median = &avg, &median
		}
		return r.writeJSON(out, true)
	}

	r.writePlain("Movies: %d (%d rated)\n", stats.Total, stats.Rated)
	if stats.Rated == 0 {
		return nil
	}
	r.writePlain("Average rating: %s\n", stats.Average.StringFixed(2))
	r.writePlain("Median rating: %s\n", stats.Median.StringFixed(2))
	r.writePlain("Best: %s\n", strings.Join(describe(stats.Best), ", "))
	r.writePlain("Worst: %s\n", strings.Join(describe(stats.Worst), ", "))
	return nil
}

// Random prints one movie chosen at random.
func (r *Runner) Random(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.catalog()
	if err != nil {
		return err
	}

	movie, err := engine.Random()
	if errors.Is(err, shared.ErrMovieNotFound) {
		return r.writePlain("No movies yet.\n")
	}
	if err != nil {
		return err
	}
	return r.writePlain("Your movie for tonight: %s\n", movie)
}

// Histogram prints the rating distribution.
func (r *Runner) Histogram(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.catalog()
	if err != nil {
		return err
	}

	hist, err := engine.Histogram()
	if err != nil {
		return err
	}
	return r.writePlain("%s", formatter.RenderHistogram(hist, int(cmd.Int("width"))))
}

// Export writes the catalog in the chosen format to --output, or stdout.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.store()
	if err != nil {
		return err
	}

	list, err := movies.List(map[string]any{repositories.CriteriaSort: cmd.String("sort")})
	if err != nil {
		return err
	}

	data, err := formatter.Export(list, cmd.String("format"), r.config.Site.Title)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		return r.writeBytes(data)
	}
	if err := formatter.WriteExport(data, output); err != nil {
		return err
	}
	r.logger.Info("export complete", "path", output, "movies", len(list))
	return nil
}

func (r *Runner) writeMovie(m *models.Movie) {
	r.writePlain("%d. %s\n", m.ID(), m.Title())
	r.writePlain("   Year:    %s\n", shared.FormatYear(m.Year()))
	r.writePlain("   Rating:  %s\n", shared.FormatRating(m.Rating()))
	r.writePlain("   Poster:  %s\n", shared.FormatPoster(m.Poster()))
	r.writePlain("   Added:   %s\n", m.CreatedAt().Format("2006-01-02 15:04"))
}

func parseID(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a movie id", shared.ErrInvalidArgument, s)
	}
	return id, nil
}

func records(movies []*models.Movie) []models.MovieRecord {
	out := make([]models.MovieRecord, len(movies))
	for i, m := range movies {
		out[i] = m.Record()
	}
	return out
}

func titles(movies []*models.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Title()
	}
	return out
}

func describe(movies []*models.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.String()
	}
	return out
}
