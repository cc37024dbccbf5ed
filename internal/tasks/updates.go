package tasks

import (
	"fmt"

	"github.com/desertthunder/moviedb/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadMovies Phase = iota
	EnrichMovies
	SaveMovie
)

func (p Phase) String() string {
	switch p {
	case LoadMovies:
		return "load_movies"
	case EnrichMovies:
		return "enrich_movies"
	case SaveMovie:
		return "save_movie"
	default:
		return ""
	}
}

func loadingMoviesUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadMovies,
		Step:    0,
		Total:   1,
		Message: "Loading movies...",
	}
}

func loadedMoviesUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadMovies,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d movies", count),
	}
}

func enrichingUpdate(step, total int, m *models.Movie) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichMovies,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching: %s...", step, total, m.Title()),
	}
}

func enrichedUpdate(step, total int, m *models.Movie, changed bool) ProgressUpdate {
	status := "unchanged"
	if changed {
		status = "updated"
	}
	return ProgressUpdate{
		Phase:   SaveMovie,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, m, status),
		Data:    m,
	}
}

func enrichFailedUpdate(step, total int, m *models.Movie, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichMovies,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, m.Title(), err),
		Data:    err,
	}
}
