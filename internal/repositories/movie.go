package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
)

// List criteria keys understood by [MovieRepository.List].
const (
	CriteriaSort   = "sort"  // "id" (default) or "rating"
	CriteriaTitle  = "title" // substring, matched on the case-folded title
	CriteriaLimit  = "limit" // maximum rows, int
	SortByID       = "id"
	SortByRating   = "rating"
	movieColumns   = "id, title, year, rating, poster, created_at, updated_at"
	ratingOrdering = "rating IS NULL, CAST(rating AS REAL) DESC, id ASC"
)

var _ models.Repository[*models.Movie] = (*MovieRepository)(nil)

// MovieRepository implements models.Repository[*models.Movie].
//
// It is the only writer of the movies table.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository with the given database connection
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create validates and inserts a new [models.Movie], assigning its ID
func (r *MovieRepository) Create(movie *models.Movie) error {
	if err := movie.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO movies (title, title_key, year, rating, poster, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		movie.Title(),
		shared.NormalizeTitle(movie.Title()),
		nullInt(movie.Year()),
		nullDecimal(movie.Rating()),
		nullString(movie.Poster()),
		movie.CreatedAt(),
		movie.UpdatedAt(),
	)
	if err != nil {
		return r.mapWriteError("insert", movie.Title(), err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	movie.SetID(id)

	return nil
}

// Get retrieves a movie by ID
func (r *MovieRepository) Get(id int64) (*models.Movie, error) {
	query := "SELECT " + movieColumns + " FROM movies WHERE id = ?"

	movie, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", shared.ErrMovieNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return movie, nil
}

// Update writes every field of an existing movie and bumps its update timestamp
func (r *MovieRepository) Update(movie *models.Movie) error {
	if err := movie.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)

	query := `
		UPDATE movies
		SET title = ?, title_key = ?, year = ?, rating = ?, poster = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		movie.Title(),
		shared.NormalizeTitle(movie.Title()),
		nullInt(movie.Year()),
		nullDecimal(movie.Rating()),
		nullString(movie.Poster()),
		now,
		movie.ID(),
	)
	if err != nil {
		return r.mapWriteError("update", movie.Title(), err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrMovieNotFound, movie.ID())
	}

	movie.SetUpdatedAt(now)
	return nil
}

// Patch applies a [models.MoviePatch] to the movie with the given ID and returns the updated movie.
func (r *MovieRepository) Patch(id int64, patch models.MoviePatch) (*models.Movie, error) {
	movie, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.Empty() {
		return movie, nil
	}

	patch.Apply(movie)
	if err := r.Update(movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// Delete removes a movie by ID. Missing IDs leave the table unchanged.
func (r *MovieRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrMovieNotFound, id)
	}

	return nil
}

// List retrieves all movies matching the given criteria.
//
// Results are ordered by ID unless criteria["sort"] is "rating", which orders by rating descending with unrated
// movies last.
func (r *MovieRepository) List(criteria map[string]any) ([]*models.Movie, error) {
	query := "SELECT " + movieColumns + " FROM movies WHERE 1 = 1"
	args := []any{}

	if title, ok := criteria[CriteriaTitle].(string); ok && strings.TrimSpace(title) != "" {
		query += ` AND title_key LIKE ? ESCAPE '\'`
		args = append(args, likePattern(shared.NormalizeTitle(title)))
	}

	switch sortBy, _ := criteria[CriteriaSort].(string); sortBy {
	case "", SortByID:
		query += " ORDER BY id ASC"
	case SortByRating:
		query += " ORDER BY " + ratingOrdering
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", shared.ErrInvalidArgument, sortBy)
	}

	if limit, ok := criteria[CriteriaLimit].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	var movies []*models.Movie
	for rows.Next() {
		movie, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return movies, nil
}

// Count returns the number of stored movies
func (r *MovieRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM movies").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// scan reads one row into a [models.Movie]. [sql.ErrNoRows] is returned unwrapped.
func (r *MovieRepository) scan(row scanner) (*models.Movie, error) {
	var (
		id        int64
		title     string
		year      sql.NullInt64
		rating    sql.NullString
		poster    sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&id, &title, &year, &rating, &poster, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}

	ratingValue, err := decimalFromNull(rating)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rating %q for movie %d: %w", rating.String, id, err)
	}

	movie := models.NewMovie(title)
	movie.SetID(id)
	movie.SetYear(intFromNull(year))
	movie.SetRating(ratingValue)
	movie.SetPoster(poster.String)
	movie.SetCreatedAt(createdAt)
	movie.SetUpdatedAt(updatedAt)

	return movie, nil
}

func (r *MovieRepository) mapWriteError(op, title string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %q", shared.ErrDuplicateMovie, title)
	case isConstraintViolation(err):
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	default:
		return fmt.Errorf("failed to %s movie: %w", op, err)
	}
}
