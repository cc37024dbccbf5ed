package models

import (
	"errors"
	"testing"

	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestMovie(t *testing.T) {
	t.Run("NewMovie", func(t *testing.T) {
		m := NewMovie("  Dune  ")
		if m.Title() != "Dune" {
			t.Errorf("expected trimmed title Dune, got %q", m.Title())
		}
		if m.Year() != nil || m.Rating() != nil || m.Poster() != "" {
			t.Error("expected optional fields to be unset")
		}
		if m.CreatedAt().IsZero() || !m.CreatedAt().Equal(m.UpdatedAt()) {
			t.Error("expected matching creation and update timestamps")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tt := []struct {
			name    string
			movie   func() *Movie
			wantErr bool
		}{
			{"valid title only", func() *Movie { return NewMovie("Dune") }, false},
			{"blank title", func() *Movie { return NewMovie("   ") }, true},
			{"year too small", func() *Movie { m := NewMovie("Dune"); m.SetYear(intPtr(1200)); return m }, true},
			{"year in range", func() *Movie { m := NewMovie("Dune"); m.SetYear(intPtr(2021)); return m }, false},
			{"rating too large", func() *Movie { m := NewMovie("Dune"); m.SetRating(decPtr("10.5")); return m }, true},
			{"rating negative", func() *Movie { m := NewMovie("Dune"); m.SetRating(decPtr("-1")); return m }, true},
			{"rating boundary", func() *Movie { m := NewMovie("Dune"); m.SetRating(decPtr("10")); return m }, false},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				err := tc.movie().Validate()
				if (err != nil) != tc.wantErr {
					t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
				}
				if err != nil && !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			})
		}
	})

	t.Run("Enrich", func(t *testing.T) {
		t.Run("fills missing fields", func(t *testing.T) {
			m := NewMovie("Dune")
			changed := m.Enrich(&Enrichment{Year: intPtr(2021), Rating: decPtr("8.0"), Poster: "https://img/dune.jpg"})
			if !changed {
				t.Error("expected enrichment to report a change")
			}
			if *m.Year() != 2021 || m.Rating().String() != "8" || m.Poster() != "https://img/dune.jpg" {
				t.Errorf("unexpected movie after enrichment: %s", m)
			}
		})

		t.Run("missing fields do not clear existing values", func(t *testing.T) {
			m := NewMovie("Dune")
			m.SetYear(intPtr(1984))
			m.SetRating(decPtr("6.3"))
			m.SetPoster("https://img/old.jpg")

			changed := m.Enrich(&Enrichment{Rating: decPtr("6.5")})
			if !changed {
				t.Error("expected rating change to be reported")
			}
			if *m.Year() != 1984 {
				t.Errorf("expected year to stay 1984, got %d", *m.Year())
			}
			if m.Poster() != "https://img/old.jpg" {
				t.Errorf("expected poster to stay, got %s", m.Poster())
			}
			if !m.Rating().Equal(decimal.RequireFromString("6.5")) {
				t.Errorf("expected rating to be overwritten, got %s", m.Rating())
			}
		})

		t.Run("identical data reports no change", func(t *testing.T) {
			m := NewMovie("Dune")
			m.SetYear(intPtr(2021))
			if m.Enrich(&Enrichment{Year: intPtr(2021)}) {
				t.Error("expected no change")
			}
			if m.Enrich(nil) {
				t.Error("expected nil enrichment to be a no-op")
			}
		})
	})

	t.Run("String", func(t *testing.T) {
		m := NewMovie("Dune")
		if got := m.String(); got != "Dune (N/A): N/A" {
			t.Errorf("unexpected String(): %s", got)
		}
		m.SetYear(intPtr(2021))
		m.SetRating(decPtr("8"))
		if got := m.String(); got != "Dune (2021): 8.0" {
			t.Errorf("unexpected String(): %s", got)
		}
	})

	t.Run("Enrichment Empty", func(t *testing.T) {
		var e *Enrichment
		if !e.Empty() {
			t.Error("nil enrichment should be empty")
		}
		if !(&Enrichment{Title: "Dune"}).Empty() {
			t.Error("title alone should count as empty")
		}
		if (&Enrichment{Poster: "x"}).Empty() {
			t.Error("poster should count as data")
		}
	})
}

func TestParsePatch(t *testing.T) {
	t.Run("sets fields", func(t *testing.T) {
		patch, err := ParsePatch([]string{"title=Dune: Part One", "year=2021", "rating=8.1", "poster=https://img/p.jpg"})
		if err != nil {
			t.Fatalf("ParsePatch() error = %v", err)
		}
		if patch.Title == nil || *patch.Title != "Dune: Part One" {
			t.Errorf("unexpected title %v", patch.Title)
		}
		if !patch.Year.Set || *patch.Year.Value != 2021 {
			t.Errorf("unexpected year %+v", patch.Year)
		}
		if !patch.Rating.Set || patch.Rating.Value.String() != "8.1" {
			t.Errorf("unexpected rating %+v", patch.Rating)
		}
		if !patch.Poster.Set || *patch.Poster.Value != "https://img/p.jpg" {
			t.Errorf("unexpected poster %+v", patch.Poster)
		}
	})

	t.Run("empty values clear optional fields", func(t *testing.T) {
		patch, err := ParsePatch([]string{"year=", "rating=", "poster="})
		if err != nil {
			t.Fatalf("ParsePatch() error = %v", err)
		}

		m := NewMovie("Dune")
		m.SetYear(intPtr(2021))
		m.SetRating(decPtr("8"))
		m.SetPoster("p")
		patch.Apply(m)

		if m.Year() != nil || m.Rating() != nil || m.Poster() != "" {
			t.Errorf("expected cleared fields, got %s poster=%q", m, m.Poster())
		}
	})

	t.Run("errors", func(t *testing.T) {
		tt := []struct {
			name string
			args []string
			want error
		}{
			{"no args", nil, shared.ErrMissingArgument},
			{"missing equals", []string{"year"}, shared.ErrInvalidArgument},
			{"unknown field", []string{"director=Villeneuve"}, shared.ErrInvalidArgument},
			{"duplicate field", []string{"year=1", "YEAR=2"}, shared.ErrInvalidArgument},
			{"empty title", []string{"title="}, shared.ErrInvalidInput},
			{"bad year", []string{"year=soon"}, shared.ErrInvalidInput},
			{"bad rating", []string{"rating=great"}, shared.ErrInvalidInput},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				_, err := ParsePatch(tc.args)
				if !errors.Is(err, tc.want) {
					t.Errorf("ParsePatch(%v) error = %v, want %v", tc.args, err, tc.want)
				}
			})
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if !(MoviePatch{}).Empty() {
			t.Error("zero patch should be empty")
		}
		if (MoviePatch{Year: Clear[int]()}).Empty() {
			t.Error("clearing patch should not be empty")
		}
	})
}
