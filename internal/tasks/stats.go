package tasks

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/repositories"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/sahilm/fuzzy"
	"github.com/shopspring/decimal"
)

const (
	histogramBuckets = 10
	maxSuggestions   = 3
	// Titles less similar than this to the query are never suggested.
	similarityCutoff = 0.6
)

// Stats summarizes the ratings in the catalog.
//
// Average and Median are nil when no movie is rated. Best and Worst hold every movie tied for the top or bottom rating.
type Stats struct {
	Total   int
	Rated   int
	Average *decimal.Decimal
	Median  *decimal.Decimal
	Best    []*models.Movie
	Worst   []*models.Movie
}

// Bucket counts movies whose rating falls in [Low, High). The last bucket includes High.
type Bucket struct {
	Low   decimal.Decimal
	High  decimal.Decimal
	Count int
}

// Histogram is the rating distribution over ten one-point buckets.
type Histogram struct {
	Buckets []Bucket
	Unrated int
}

// Max returns the largest bucket count.
func (h *Histogram) Max() int {
	largest := 0
	for _, b := range h.Buckets {
		largest = max(largest, b.Count)
	}
	return largest
}

// SearchResult holds substring matches, or fuzzy title suggestions when nothing matched.
type SearchResult struct {
	Query       string
	Matches     []*models.Movie
	Suggestions []string
}

// Stats computes rating statistics over every stored movie.
func (e *CatalogEngine) Stats() (*Stats, error) {
	movies, err := e.store.List(map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}

	stats := &Stats{Total: len(movies)}
	rated := ratedMovies(movies)
	stats.Rated = len(rated)
	if len(rated) == 0 {
		return stats, nil
	}

	ratings := make([]decimal.Decimal, len(rated))
	for i, m := range rated {
		ratings[i] = *m.Rating()
	}

	average := decimal.Avg(ratings[0], ratings[1:]...).Round(2)
	stats.Average = &average

	sorted := append([]decimal.Decimal(nil), ratings...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	var median decimal.Decimal
	if mid := len(sorted) / 2; len(sorted)%2 == 1 {
		median = sorted[mid]
	} else {
		median = sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
	}
	stats.Median = &median

	best, worst := sorted[len(sorted)-1], sorted[0]
	for _, m := range rated {
		if m.Rating().Equal(best) {
			stats.Best = append(stats.Best, m)
		}
		if m.Rating().Equal(worst) {
			stats.Worst = append(stats.Worst, m)
		}
	}

	return stats, nil
}

// Histogram buckets the rated movies by whole rating point.
func (e *CatalogEngine) Histogram() (*Histogram, error) {
	movies, err := e.store.List(map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}

	hist := &Histogram{Buckets: make([]Bucket, histogramBuckets)}
	for i := range hist.Buckets {
		hist.Buckets[i].Low = decimal.NewFromInt(int64(i))
		hist.Buckets[i].High = decimal.NewFromInt(int64(i + 1))
	}

	for _, m := range movies {
		if m.Rating() == nil {
			hist.Unrated++
			continue
		}
		idx := int(m.Rating().Floor().IntPart())
		idx = min(max(idx, 0), histogramBuckets-1)
		hist.Buckets[idx].Count++
	}

	return hist, nil
}

// Random returns one stored movie chosen uniformly.
func (e *CatalogEngine) Random() (*models.Movie, error) {
	movies, err := e.store.List(map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", shared.ErrMovieNotFound)
	}
	return movies[e.pick(len(movies))], nil
}

// Search returns movies whose title contains query, case-insensitively.
//
// When nothing contains the query the closest titles are offered instead: subsequence matches first, then titles
// within edit distance of the query, which catches transposed letters.
func (e *CatalogEngine) Search(query string) (*SearchResult, error) {
	result := &SearchResult{Query: strings.TrimSpace(query)}

	query = shared.NormalizeTitle(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	matches, err := e.store.List(map[string]any{repositories.CriteriaTitle: query})
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	result.Matches = matches
	if len(matches) > 0 {
		return result, nil
	}

	movies, err := e.store.List(map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}

	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = m.Title()
	}

	for _, match := range fuzzy.Find(query, titles) {
		result.Suggestions = append(result.Suggestions, match.Str)
		if len(result.Suggestions) == maxSuggestions {
			break
		}
	}
	if len(result.Suggestions) == 0 {
		result.Suggestions = closeTitles(query, titles)
	}

	return result, nil
}

// closeTitles returns up to maxSuggestions titles ranked by similarity to query, dropping those below
// similarityCutoff.
func closeTitles(query string, titles []string) []string {
	type scored struct {
		title string
		score float64
	}

	var candidates []scored
	for _, title := range titles {
		if score := similarity(query, shared.NormalizeTitle(title)); score >= similarityCutoff {
			candidates = append(candidates, scored{title, score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var out []string
	for _, c := range candidates[:min(len(candidates), maxSuggestions)] {
		out = append(out, c.title)
	}
	return out
}

// similarity is 1 minus the edit distance between a and b over the longer length, in runes.
func similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func ratedMovies(movies []*models.Movie) []*models.Movie {
	rated := make([]*models.Movie, 0, len(movies))
	for _, m := range movies {
		if m.Rating() != nil {
			rated = append(rated, m)
		}
	}
	return rated
}
