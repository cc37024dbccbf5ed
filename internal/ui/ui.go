package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/desertthunder/moviedb/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MovieListView ViewState = iota
	DetailView
	ConfirmDeleteView
	EnrichView
)

// Store is the subset of the movie repository the TUI reads and deletes through.
type Store interface {
	List(criteria map[string]any) ([]*models.Movie, error)
	Delete(id int64) error
}

// Engine is the subset of [tasks.CatalogEngine] used for enrichment.
type Engine interface {
	Enrich(ctx context.Context, id int64) (*tasks.EnrichResult, error)
	EnrichAll(ctx context.Context, prog chan<- tasks.ProgressUpdate, opts tasks.EnrichAllOpts) (*tasks.EnrichAllResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	store        Store
	engine       Engine
	opts         tasks.EnrichAllOpts
	width        int
	height       int
	movieList    list.Model
	movies       []*models.Movie
	selected     *models.Movie
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	status       string
	statusErr    bool
	busy         bool
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, store Store, engine Engine, opts tasks.EnrichAllOpts) *Model {
	movieList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	movieList.Title = "Movies"

	return &Model{
		ctx:       ctx,
		view:      MovieListView,
		store:     store,
		engine:    engine,
		opts:      opts,
		movieList: movieList,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by loading the catalog.
func (m *Model) Init() tea.Cmd {
	return m.loadMovies()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.movieList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MovieListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		case EnrichView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgMoviesLoaded:
		data := msg.data.(moviesLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.movies = data.movies
		cmd := m.movieList.SetItems(movieItems(data.movies))
		m.movieList.Title = fmt.Sprintf("Movies (%d)", len(data.movies))
		return m, cmd

	case MsgMovieEnriched:
		data := msg.data.(movieEnriched)
		m.busy = false
		switch {
		case errors.Is(data.err, shared.ErrNoData):
			m.setStatus(fmt.Sprintf("No data found for %q, nothing changed", m.selectedTitle()), true)
		case data.err != nil:
			m.setStatus(fmt.Sprintf("Fetch failed: %v", data.err), true)
		case data.result.Changed:
			m.selected = data.result.Movie
			m.setStatus(fmt.Sprintf("Updated %s", data.result.Movie), false)
		default:
			m.setStatus(fmt.Sprintf("%s is already up to date", data.result.Movie.Title()), false)
		}
		return m, m.loadMovies()

	case MsgMovieDeleted:
		data := msg.data.(movieDeleted)
		m.view = MovieListView
		if data.err != nil {
			m.setStatus(fmt.Sprintf("Delete failed: %v", data.err), true)
		} else {
			m.setStatus(fmt.Sprintf("Deleted %q", data.movie.Title()), false)
			m.selected = nil
		}
		return m, m.loadMovies()

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		if m.progressChan == nil {
			return m, nil
		}
		return m, waitForProgress(m.progressChan)

	case MsgEnrichAllComplete:
		data := msg.data.(enrichAllComplete)
		m.progressChan = nil
		m.busy = false
		m.view = MovieListView
		switch {
		case data.err != nil:
			m.setStatus(fmt.Sprintf("Fetch all stopped: %v", data.err), true)
		default:
			m.setStatus(fmt.Sprintf("Fetched %d movies: %d updated, %d unchanged, %d without data",
				data.result.Total, data.result.Updated, data.result.Unchanged, data.result.Failed), data.result.Failed > 0)
		}
		return m, m.loadMovies()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case MovieListView:
		return m.renderList()
	case DetailView:
		return m.renderDetail()
	case ConfirmDeleteView:
		return m.renderConfirm()
	case EnrichView:
		return m.renderEnrich()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.movieList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.movieList, cmd = m.movieList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		m.setStatus("", false)
		return m, m.loadMovies()
	case key.Matches(msg, m.keys.fetchAll):
		if m.busy {
			return m, nil
		}
		m.view = EnrichView
		m.busy = true
		m.progress = tasks.ProgressUpdate{Message: "Starting..."}
		return m, m.enrichAll()
	case key.Matches(msg, m.keys.enter):
		if movie := m.selectedMovie(); movie != nil {
			m.selected = movie
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.fetch):
		if movie := m.selectedMovie(); movie != nil && !m.busy {
			m.selected = movie
			return m, m.enrich(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if movie := m.selectedMovie(); movie != nil {
			m.selected = movie
			m.view = ConfirmDeleteView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = MovieListView
		return m, nil
	case key.Matches(msg, m.keys.fetch):
		if !m.busy {
			return m, m.enrich(m.selected)
		}
	case key.Matches(msg, m.keys.remove):
		m.view = ConfirmDeleteView
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		return m, m.deleteMovie(m.selected)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = MovieListView
		return m, nil
	}
	return m, nil
}

func (m *Model) selectedMovie() *models.Movie {
	if item, ok := m.movieList.SelectedItem().(movieItem); ok {
		return item.movie
	}
	return nil
}

func (m *Model) selectedTitle() string {
	if m.selected == nil {
		return ""
	}
	return m.selected.Title()
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) loadMovies() tea.Cmd {
	return func() tea.Msg {
		movies, err := m.store.List(map[string]any{})
		return moviesLoadedMsg(movies, err)
	}
}

func (m *Model) enrich(movie *models.Movie) tea.Cmd {
	m.busy = true
	m.setStatus(fmt.Sprintf("Fetching %q...", movie.Title()), false)
	id := movie.ID()
	return func() tea.Msg {
		result, err := m.engine.Enrich(m.ctx, id)
		return movieEnrichedMsg(result, err)
	}
}

func (m *Model) deleteMovie(movie *models.Movie) tea.Cmd {
	return func() tea.Msg {
		return movieDeletedMsg(movie, m.store.Delete(movie.ID()))
	}
}

func (m *Model) enrichAll() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	m.progressChan = progress
	opts := m.opts

	run := func() tea.Msg {
		result, err := m.engine.EnrichAll(m.ctx, progress, opts)
		close(progress)
		return enrichAllCompleteMsg(result, err)
	}
	return tea.Batch(run, waitForProgress(progress))
}

func waitForProgress(ch <-chan tasks.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.fetch, m.keys.fetchAll, m.keys.remove, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n%s", m.movieList.View(), m.renderStatus(), helpView)
}

func (m *Model) renderStatus() string {
	switch {
	case m.status == "":
		return ""
	case m.statusErr:
		return styles.warn.Render(m.status)
	default:
		return styles.ok.Render(m.status)
	}
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}
	mv := m.selected

	var b strings.Builder
	b.WriteString(styles.title.Render(mv.Title()))
	b.WriteString("\n")
	rows := [][2]string{
		{"ID", fmt.Sprintf("%d", mv.ID())},
		{"Year", shared.FormatYear(mv.Year())},
		{"Rating", shared.FormatRating(mv.Rating())},
		{"Poster", shared.FormatPoster(mv.Poster())},
		{"Added", mv.CreatedAt().Format("2006-01-02 15:04")},
		{"Updated", mv.UpdatedAt().Format("2006-01-02 15:04")},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %s\n", styles.label.Render(row[0]), row[1])
	}

	helpKeys := []key.Binding{m.keys.fetch, m.keys.remove, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n%s", b.String(), m.renderStatus(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Delete %q?", m.selectedTitle()))
	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n%s", title, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderEnrich() string {
	title := styles.title.Render("Fetching Movie Data")

	var phase string
	switch m.progress.Phase {
	case tasks.LoadMovies:
		phase = "Loading movies..."
	case tasks.EnrichMovies, tasks.SaveMovie:
		phase = fmt.Sprintf("Fetching (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, phase, m.progress.Message, styles.help.Render("q to quit"))
}
