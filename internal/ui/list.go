package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
)

var _ list.Item = movieItem{}

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie *models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title() }
func (i movieItem) Title() string       { return i.movie.Title() }
func (i movieItem) Description() string {
	parts := []string{
		shared.FormatYear(i.movie.Year()),
		fmt.Sprintf("★ %s", shared.FormatRating(i.movie.Rating())),
	}
	if i.movie.Poster() != "" {
		parts = append(parts, "poster")
	}
	return strings.Join(parts, " • ")
}

func movieItems(movies []*models.Movie) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m}
	}
	return items
}
