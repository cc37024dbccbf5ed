package tasks

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/services"
	"github.com/desertthunder/moviedb/internal/shared"
	"golang.org/x/time/rate"
)

const defaultRateLimit = 2.0

// Store is the subset of the movie repository used by catalog operations.
type Store interface {
	Get(id int64) (*models.Movie, error)
	Update(movie *models.Movie) error
	List(criteria map[string]any) ([]*models.Movie, error)
}

// EnrichResult reports the outcome of enriching one movie.
type EnrichResult struct {
	Movie   *models.Movie // Movie after enrichment (unchanged on failure)
	Changed bool          // Whether any stored field was updated
	Error   error         // Lookup or save failure
}

// EnrichAllOpts contains configuration for bulk enrichment.
type EnrichAllOpts struct {
	RateLimit   float64 // Provider requests per second (default: 2)
	OnlyMissing bool    // Skip movies that already have year, rating and poster
}

// EnrichAllResult contains the per-movie outcomes of a bulk enrichment.
type EnrichAllResult struct {
	Results   []EnrichResult
	Total     int // Movies considered
	Updated   int // Movies whose stored fields changed
	Unchanged int // Movies found but already up to date
	Skipped   int // Movies skipped by OnlyMissing
	Failed    int // Movies the provider had nothing for or that failed to save
}

// CatalogEngine implements catalog operations over a [Store] and an optional [services.Enricher].
type CatalogEngine struct {
	store    Store
	enricher services.Enricher
	pick     func(n int) int
}

// NewCatalogEngine creates a new CatalogEngine.
//
// enricher may be nil; enrichment then fails with [shared.ErrMissingCredentials] while read-only operations work.
func NewCatalogEngine(store Store, enricher services.Enricher) *CatalogEngine {
	return &CatalogEngine{
		store:    store,
		enricher: enricher,
		pick:     rand.IntN,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// sendOutcome delivers a per-movie result, waiting for the receiver until ctx is done.
func (e *CatalogEngine) sendOutcome(ctx context.Context, progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	case <-ctx.Done():
	}
}

// Enrich looks up the movie with the given ID and stores whatever the provider returns.
//
// When the provider has no data the stored movie is left as it is and the error wraps [shared.ErrNoData].
func (e *CatalogEngine) Enrich(ctx context.Context, id int64) (*EnrichResult, error) {
	if e.enricher == nil {
		return nil, fmt.Errorf("%w: no metadata provider configured", shared.ErrMissingCredentials)
	}

	movie, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}

	result := e.enrichMovie(ctx, movie)
	return result, result.Error
}

func (e *CatalogEngine) enrichMovie(ctx context.Context, movie *models.Movie) *EnrichResult {
	result := &EnrichResult{Movie: movie}

	enrichment, err := e.enricher.Fetch(ctx, movie.Title())
	if err != nil {
		result.Error = err
		return result
	}

	if !movie.Enrich(enrichment) {
		return result
	}

	if err := e.store.Update(movie); err != nil {
		result.Error = fmt.Errorf("failed to save %q: %w", movie.Title(), err)
		return result
	}
	result.Changed = true
	return result
}

// EnrichAll enriches every stored movie in ID order.
//
// Lookups run one at a time behind a rate limiter. A failed lookup is recorded and the run continues. Cancellation
// stops the run and returns the partial result with the context error.
//
// Per-movie outcomes (updates with Data set) are always delivered, so prog must be drained until EnrichAll returns.
// Other updates are dropped when the receiver is busy.
func (e *CatalogEngine) EnrichAll(ctx context.Context, prog chan<- ProgressUpdate, opts EnrichAllOpts) (*EnrichAllResult, error) {
	if e.enricher == nil {
		return nil, fmt.Errorf("%w: no metadata provider configured", shared.ErrMissingCredentials)
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	e.sendProgress(prog, loadingMoviesUpdate())

	movies, err := e.store.List(map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}

	total := len(movies)
	result := &EnrichAllResult{
		Total:   total,
		Results: make([]EnrichResult, 0, total),
	}
	e.sendProgress(prog, loadedMoviesUpdate(total))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	for i, movie := range movies {
		if opts.OnlyMissing && complete(movie) {
			result.Skipped++
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}

		e.sendProgress(prog, enrichingUpdate(i+1, total, movie))

		res := e.enrichMovie(ctx, movie)
		result.Results = append(result.Results, *res)

		switch {
		case res.Error != nil:
			if errors.Is(res.Error, context.Canceled) || errors.Is(res.Error, context.DeadlineExceeded) {
				return result, res.Error
			}
			result.Failed++
			e.sendOutcome(ctx, prog, enrichFailedUpdate(i+1, total, movie, res.Error))
		case res.Changed:
			result.Updated++
			e.sendOutcome(ctx, prog, enrichedUpdate(i+1, total, movie, true))
		default:
			result.Unchanged++
			e.sendOutcome(ctx, prog, enrichedUpdate(i+1, total, movie, false))
		}
	}

	return result, nil
}

func complete(m *models.Movie) bool {
	return m.Year() != nil && m.Rating() != nil && m.Poster() != ""
}
