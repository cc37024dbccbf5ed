package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgMoviesLoaded MsgKind = iota
	MsgMovieEnriched
	MsgMovieDeleted
	MsgProgressUpdate
	MsgEnrichAllComplete
)

type moviesLoaded struct {
	movies []*models.Movie
	err    error
}

type movieEnriched struct {
	result *tasks.EnrichResult
	err    error
}

type movieDeleted struct {
	movie *models.Movie
	err   error
}

type enrichAllComplete struct {
	result *tasks.EnrichAllResult
	err    error
}

// moviesLoadedMsg is the constructor for [MsgMoviesLoaded]
func moviesLoadedMsg(movies []*models.Movie, err error) Msg {
	return Msg{kind: MsgMoviesLoaded, data: moviesLoaded{movies, err}}
}

// movieEnrichedMsg is the constructor for [MsgMovieEnriched]
func movieEnrichedMsg(result *tasks.EnrichResult, err error) Msg {
	return Msg{kind: MsgMovieEnriched, data: movieEnriched{result, err}}
}

// movieDeletedMsg is the constructor for [MsgMovieDeleted]
func movieDeletedMsg(movie *models.Movie, err error) Msg {
	return Msg{kind: MsgMovieDeleted, data: movieDeleted{movie, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// enrichAllCompleteMsg is the constructor for [MsgEnrichAllComplete]
func enrichAllCompleteMsg(result *tasks.EnrichAllResult, err error) Msg {
	return Msg{kind: MsgEnrichAllComplete, data: enrichAllComplete{result, err}}
}
