package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/shopspring/decimal"
)

// Bounds accepted for optional movie fields.
const (
	MinYear = 1870
	MaxYear = 2100
)

var (
	MinRating = decimal.Zero
	MaxRating = decimal.NewFromInt(10)
)

var _ Model = (*Movie)(nil)

// Movie is a single film record owned by the movie repository.
//
// Title is required. Year, rating and poster are optional and are nil (or empty, for the poster) until set by an
// update or filled by enrichment.
type Movie struct {
	id        int64
	title     string
	year      *int
	rating    *decimal.Decimal
	poster    string
	createdAt time.Time
	updatedAt time.Time
}

// NewMovie creates an unsaved [Movie] with the given title and no optional fields.
func NewMovie(title string) *Movie {
	now := time.Now().UTC().Truncate(time.Second)
	return &Movie{
		title:     strings.TrimSpace(title),
		createdAt: now,
		updatedAt: now,
	}
}

func (m *Movie) ID() int64                    { return m.id }
func (m *Movie) Title() string                { return m.title }
func (m *Movie) Year() *int                   { return m.year }
func (m *Movie) Rating() *decimal.Decimal     { return m.rating }
func (m *Movie) Poster() string               { return m.poster }
func (m *Movie) CreatedAt() time.Time         { return m.createdAt }
func (m *Movie) UpdatedAt() time.Time         { return m.updatedAt }
func (m *Movie) SetID(id int64)               { m.id = id }
func (m *Movie) SetTitle(title string)        { m.title = strings.TrimSpace(title) }
func (m *Movie) SetYear(year *int)            { m.year = year }
func (m *Movie) SetPoster(poster string)      { m.poster = strings.TrimSpace(poster) }
func (m *Movie) SetCreatedAt(t time.Time)     { m.createdAt = t }
func (m *Movie) SetUpdatedAt(t time.Time)     { m.updatedAt = t }
func (m *Movie) SetRating(r *decimal.Decimal) { m.rating = r }

// Validate checks the title is present and optional fields are within range.
func (m *Movie) Validate() error {
	if m.title == "" {
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}
	if m.year != nil && (*m.year < MinYear || *m.year > MaxYear) {
		return fmt.Errorf("%w: year %d outside %d-%d", shared.ErrInvalidInput, *m.year, MinYear, MaxYear)
	}
	if m.rating != nil && (m.rating.LessThan(MinRating) || m.rating.GreaterThan(MaxRating)) {
		return fmt.Errorf("%w: rating %s outside %s-%s", shared.ErrInvalidInput, m.rating, MinRating, MaxRating)
	}
	return nil
}

// Enrich copies the fields present in e onto the movie.
//
// Fields missing from e are left as they are, so a partial lookup never clears data. Present fields overwrite.
// Returns true when anything changed.
func (m *Movie) Enrich(e *Enrichment) bool {
	if e == nil {
		return false
	}

	changed := false
	if e.Year != nil && (m.year == nil || *m.year != *e.Year) {
		year := *e.Year
		m.year = &year
		changed = true
	}
	if e.Rating != nil && (m.rating == nil || !m.rating.Equal(*e.Rating)) {
		rating := *e.Rating
		m.rating = &rating
		changed = true
	}
	if e.Poster != "" && m.poster != e.Poster {
		m.poster = e.Poster
		changed = true
	}
	return changed
}

// Record returns the exported view of the movie.
func (m *Movie) Record() MovieRecord {
	return MovieRecord{
		ID:        m.id,
		Title:     m.title,
		Year:      m.year,
		Rating:    m.rating,
		Poster:    m.poster,
		CreatedAt: m.createdAt,
		UpdatedAt: m.updatedAt,
	}
}

// String formats the movie the way list output shows it: "Title (Year): Rating".
func (m *Movie) String() string {
	return fmt.Sprintf("%s (%s): %s", m.title, shared.FormatYear(m.year), shared.FormatRating(m.rating))
}

// MovieRecord is a plain view of a [Movie] suitable for encoding.
type MovieRecord struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	Year      *int             `json:"year"`
	Rating    *decimal.Decimal `json:"rating"`
	Poster    string           `json:"poster,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Enrichment holds the optional movie fields returned by a metadata lookup.
type Enrichment struct {
	Title  string           // Title as known by the provider
	Year   *int             // Release year, nil when unknown
	Rating *decimal.Decimal // Rating on a 0-10 scale, nil when unknown
	Poster string           // Poster URL, empty when unknown
}

// Empty reports whether the lookup produced none of the optional fields.
func (e *Enrichment) Empty() bool {
	return e == nil || (e.Year == nil && e.Rating == nil && e.Poster == "")
}
