package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Storage errors
	ErrMovieNotFound  = fmt.Errorf("movie not found")
	ErrDuplicateMovie = fmt.Errorf("movie already exists")

	// Enrichment errors
	ErrNoData = fmt.Errorf("no movie data available")

	// Site generation errors
	ErrTemplate = fmt.Errorf("template error")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
