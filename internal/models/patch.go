package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/shopspring/decimal"
)

// Updatable movie fields, as named on the command line.
const (
	FieldTitle  = "title"
	FieldYear   = "year"
	FieldRating = "rating"
	FieldPoster = "poster"
)

// Optional describes a change to one optional field.
//
// When Set is false the field is left alone. When Set is true a nil Value clears the field.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// To returns an [Optional] that sets the field to v.
func To[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Clear returns an [Optional] that clears the field.
func Clear[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// MoviePatch is the set of field changes applied by an update.
type MoviePatch struct {
	Title  *string
	Year   Optional[int]
	Rating Optional[decimal.Decimal]
	Poster Optional[string]
}

// Empty reports whether the patch changes nothing.
func (p MoviePatch) Empty() bool {
	return p.Title == nil && !p.Year.Set && !p.Rating.Set && !p.Poster.Set
}

// Apply writes the patch onto m. Call [Movie.Validate] afterwards.
func (p MoviePatch) Apply(m *Movie) {
	if p.Title != nil {
		m.SetTitle(*p.Title)
	}
	if p.Year.Set {
		m.SetYear(p.Year.Value)
	}
	if p.Rating.Set {
		m.SetRating(p.Rating.Value)
	}
	if p.Poster.Set {
		poster := ""
		if p.Poster.Value != nil {
			poster = *p.Poster.Value
		}
		m.SetPoster(poster)
	}
}

// ParsePatch builds a [MoviePatch] from "field=value" arguments.
//
// An empty value clears an optional field. The title can be changed but never cleared.
// Each field may appear once.
func ParsePatch(args []string) (MoviePatch, error) {
	var patch MoviePatch
	if len(args) == 0 {
		return patch, fmt.Errorf("%w: at least one field=value pair", shared.ErrMissingArgument)
	}

	seen := make(map[string]bool, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return patch, fmt.Errorf("%w: %q is not field=value", shared.ErrInvalidArgument, arg)
		}

		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if seen[key] {
			return patch, fmt.Errorf("%w: field %q given more than once", shared.ErrInvalidArgument, key)
		}
		seen[key] = true

		switch key {
		case FieldTitle:
			if value == "" {
				return patch, fmt.Errorf("%w: title cannot be empty", shared.ErrInvalidInput)
			}
			patch.Title = &value
		case FieldYear:
			if value == "" {
				patch.Year = Clear[int]()
				continue
			}
			year, err := strconv.Atoi(value)
			if err != nil {
				return patch, fmt.Errorf("%w: year %q is not a number", shared.ErrInvalidInput, value)
			}
			patch.Year = To(year)
		case FieldRating:
			if value == "" {
				patch.Rating = Clear[decimal.Decimal]()
				continue
			}
			rating, err := decimal.NewFromString(value)
			if err != nil {
				return patch, fmt.Errorf("%w: rating %q is not a number", shared.ErrInvalidInput, value)
			}
			patch.Rating = To(rating)
		case FieldPoster:
			if value == "" {
				patch.Poster = Clear[string]()
				continue
			}
			patch.Poster = To(value)
		default:
			return patch, fmt.Errorf("%w: unknown field %q (want title, year, rating or poster)", shared.ErrInvalidArgument, key)
		}
	}

	return patch, nil
}
