// Package site renders the movie catalog into a single static HTML page.
//
// A template is plain HTML with one repeatable section:
//
//	<!-- BEGIN MOVIE -->
//	<li>__MOVIE_TITLE__ (__MOVIE_YEAR__): __MOVIE_RATING__</li>
//	<!-- END MOVIE -->
//
// The section is emitted once per movie. Inside it, an optional poster section
// (<!-- BEGIN POSTER --> … [<!-- ELSE POSTER --> …] <!-- END POSTER -->) is kept only for movies that have a poster,
// with the ELSE branch used otherwise. __TEMPLATE_TITLE__ and __MOVIE_COUNT__ are replaced anywhere in the page,
// including inside the movie section.
//
// All substituted values are HTML-escaped. Output depends only on the template, title and movies, so rendering the
// same catalog twice gives byte-identical files.
package site

import (
	_ "embed"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
)

// Template markers and placeholders.
const (
	BeginMovie  = "<!-- BEGIN MOVIE -->"
	EndMovie    = "<!-- END MOVIE -->"
	BeginPoster = "<!-- BEGIN POSTER -->"
	ElsePoster  = "<!-- ELSE POSTER -->"
	EndPoster   = "<!-- END POSTER -->"

	PlaceholderID        = "__MOVIE_ID__"
	PlaceholderTitle     = "__MOVIE_TITLE__"
	PlaceholderYear      = "__MOVIE_YEAR__"
	PlaceholderRating    = "__MOVIE_RATING__"
	PlaceholderPoster    = "__MOVIE_POSTER__"
	PlaceholderPageTitle = "__TEMPLATE_TITLE__"
	PlaceholderCount     = "__MOVIE_COUNT__"
)

const DefaultTitle = "My Movie App"

//go:embed index_template.html
var defaultTemplate []byte

// DefaultTemplate returns a copy of the built-in starter template.
func DefaultTemplate() []byte {
	return append([]byte(nil), defaultTemplate...)
}

// WriteDefaultTemplate writes the starter template to path. An existing file is only replaced when force is set.
func WriteDefaultTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s already exists (use --force to overwrite)", shared.ErrInvalidArgument, path)
		}
	}
	return shared.WriteFileAtomic(path, defaultTemplate, 0o644)
}

// Template is a parsed page template.
type Template struct {
	head   string
	tail   string
	movie  string
	poster *posterSection
}

// posterSection splits the movie block around its optional poster branch.
type posterSection struct {
	before, with, without, after string
}

// Parse splits a template around its movie section.
//
// Missing, duplicated or misordered markers fail with [shared.ErrTemplate].
func Parse(src []byte) (*Template, error) {
	head, block, tail, err := splitSection(string(src), BeginMovie, EndMovie)
	if err != nil {
		return nil, err
	}

	tpl := &Template{head: head, tail: tail, movie: block}

	for _, marker := range []string{BeginPoster, ElsePoster, EndPoster} {
		if strings.Contains(head, marker) || strings.Contains(tail, marker) {
			return nil, fmt.Errorf("%w: %q outside the movie section", shared.ErrTemplate, marker)
		}
	}

	if !strings.Contains(block, BeginPoster) && !strings.Contains(block, ElsePoster) && !strings.Contains(block, EndPoster) {
		return tpl, nil
	}

	before, inner, after, err := splitSection(block, BeginPoster, EndPoster)
	if err != nil {
		return nil, err
	}

	section := &posterSection{before: before, with: inner, after: after}
	switch n := strings.Count(inner, ElsePoster); {
	case n != strings.Count(block, ElsePoster):
		return nil, fmt.Errorf("%w: %q outside the poster section", shared.ErrTemplate, ElsePoster)
	case n == 1:
		with, without, _ := strings.Cut(inner, ElsePoster)
		section.with, section.without = with, trimMarkerNewline(without)
	case n > 1:
		return nil, fmt.Errorf("%w: %q appears %d times", shared.ErrTemplate, ElsePoster, n)
	}

	tpl.poster = section
	return tpl, nil
}

// ReadTemplate reads and parses the template at path.
func ReadTemplate(path string) (*Template, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: template %s not found", shared.ErrTemplate, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return Parse(src)
}

// Execute renders the page for movies in the given order.
func (t *Template) Execute(title string, movies []*models.Movie) []byte {
	pageFields := []string{
		PlaceholderPageTitle, html.EscapeString(title),
		PlaceholderCount, strconv.Itoa(len(movies)),
	}
	page := strings.NewReplacer(pageFields...)

	var b strings.Builder
	b.WriteString(page.Replace(t.head))
	for _, m := range movies {
		b.WriteString(t.renderMovie(m, pageFields))
	}
	b.WriteString(page.Replace(t.tail))
	return []byte(b.String())
}

// renderMovie fills one movie section. Page and movie placeholders are replaced in a single pass, so substituted
// values are never expanded again.
func (t *Template) renderMovie(m *models.Movie, pageFields []string) string {
	block := t.movie
	if p := t.poster; p != nil {
		branch := p.without
		if m.Poster() != "" {
			branch = p.with
		}
		block = p.before + branch + p.after
	}

	fields := strings.NewReplacer(append([]string{
		PlaceholderID, strconv.FormatInt(m.ID(), 10),
		PlaceholderTitle, html.EscapeString(m.Title()),
		PlaceholderYear, shared.FormatYear(m.Year()),
		PlaceholderRating, shared.FormatRating(m.Rating()),
		PlaceholderPoster, html.EscapeString(m.Poster()),
	}, pageFields...)...)
	return fields.Replace(block)
}

// Generator renders catalogs to static files.
type Generator struct {
	title string
}

// NewGenerator creates a Generator that titles pages with title, or [DefaultTitle] when empty.
func NewGenerator(title string) *Generator {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	return &Generator{title: title}
}

// Title returns the page title used for rendering.
func (g *Generator) Title() string {
	return g.title
}

// Render reads the template at templatePath once, renders movies in order and writes outputPath atomically.
//
// Template errors are reported before anything is written, so a bad template never leaves a truncated or partial
// output file behind.
func (g *Generator) Render(movies []*models.Movie, templatePath, outputPath string) error {
	tpl, err := ReadTemplate(templatePath)
	if err != nil {
		return err
	}

	out := tpl.Execute(g.title, movies)
	if err := shared.WriteFileAtomic(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write site: %w", err)
	}
	return nil
}

// splitSection returns the text before begin, between the markers and after end. Each marker must appear exactly once
// and begin must precede end. A newline directly after a marker belongs to the marker.
func splitSection(s, begin, end string) (before, inner, after string, err error) {
	switch n := strings.Count(s, begin); {
	case n == 0:
		return "", "", "", fmt.Errorf("%w: missing %q", shared.ErrTemplate, begin)
	case n > 1:
		return "", "", "", fmt.Errorf("%w: %q appears %d times", shared.ErrTemplate, begin, n)
	}
	switch n := strings.Count(s, end); {
	case n == 0:
		return "", "", "", fmt.Errorf("%w: missing %q", shared.ErrTemplate, end)
	case n > 1:
		return "", "", "", fmt.Errorf("%w: %q appears %d times", shared.ErrTemplate, end, n)
	}

	before, rest, _ := strings.Cut(s, begin)
	inner, after, found := strings.Cut(rest, end)
	if !found {
		return "", "", "", fmt.Errorf("%w: %q must come before %q", shared.ErrTemplate, begin, end)
	}
	return before, trimMarkerNewline(inner), trimMarkerNewline(after), nil
}

func trimMarkerNewline(s string) string {
	if rest, ok := strings.CutPrefix(s, "\r\n"); ok {
		return rest
	}
	return strings.TrimPrefix(s, "\n")
}
