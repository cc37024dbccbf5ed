// package formatter provides functions to export movie data to various formats (CSV, Markdown, JSON, plain text)
// and to render it for the terminal
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/desertthunder/moviedb/internal/tasks"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Format names accepted by [Export].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatText     = "txt"
	FormatJSON     = "json"
)

// Formats lists every supported export format.
var Formats = []string{FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// ParseFormat normalizes a format name. "markdown" is accepted as an alias for "md".
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case FormatCSV, FormatMarkdown, FormatText, FormatJSON:
		return f, nil
	case "markdown":
		return FormatMarkdown, nil
	case "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want %s)", shared.ErrInvalidArgument, s, strings.Join(Formats, ", "))
	}
}

// Export converts movies to the named format. title is used as the Markdown heading.
func Export(movies []*models.Movie, format, title string) ([]byte, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatCSV:
		return ExportToCSV(movies)
	case FormatMarkdown:
		return ExportToMarkdown(movies, title)
	case FormatJSON:
		return ExportToJSON(movies, true)
	default:
		return ExportToText(movies)
	}
}

// ExportToCSV converts movies to CSV format with columns: ID, Title, Year, Rating, Poster
//
// Missing values are written as empty fields.
func ExportToCSV(movies []*models.Movie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Year", "Rating", "Poster"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range movies {
		record := []string{
			strconv.FormatInt(m.ID(), 10),
			m.Title(),
			optional(shared.FormatYear(m.Year())),
			optional(shared.FormatRating(m.Rating())),
			m.Poster(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts movies to a Markdown document with a heading and a table
func ExportToMarkdown(movies []*models.Movie, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Movies"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(movies)))

	if len(movies) == 0 {
		return buf.Bytes(), nil
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"ID", "Title", "Year", "Rating", "Poster"})
	for _, m := range movies {
		poster := ""
		if m.Poster() != "" {
			poster = fmt.Sprintf("![poster](%s)", m.Poster())
		}
		tw.AppendRow(table.Row{
			m.ID(),
			m.Title(),
			shared.FormatYear(m.Year()),
			shared.FormatRating(m.Rating()),
			poster,
		})
	}
	buf.WriteString(tw.RenderMarkdown())
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

// ExportToText converts movies to plain text, one "Title (Year): Rating" line each
func ExportToText(movies []*models.Movie) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%d movies in total\n\n", len(movies)))
	for _, m := range movies {
		buf.WriteString(fmt.Sprintf("%d. %s\n", m.ID(), m))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts movies to a JSON array of [models.MovieRecord]
func ExportToJSON(movies []*models.Movie, pretty bool) ([]byte, error) {
	records := make([]models.MovieRecord, len(movies))
	for i, m := range movies {
		records[i] = m.Record()
	}

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteExport writes exported data to path atomically.
func WriteExport(data []byte, path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}
	if err := shared.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// RenderTable renders movies as a rounded terminal table
func RenderTable(movies []*models.Movie) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Title", "Year", "Rating", "Poster"})

	for _, m := range movies {
		tw.AppendRow(table.Row{
			m.ID(),
			m.Title(),
			shared.FormatYear(m.Year()),
			shared.FormatRating(m.Rating()),
			shared.FormatPoster(m.Poster()),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, WidthMax: 48},
	})
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d movies", len(movies))})

	return tw.Render()
}

// RenderHistogram draws one bar per rating bucket, scaled so the largest bucket is width characters wide
func RenderHistogram(h *tasks.Histogram, width int) string {
	if width <= 0 {
		width = 40
	}

	var b strings.Builder
	largest := h.Max()
	for _, bucket := range h.Buckets {
		bar := 0
		if largest > 0 {
			bar = bucket.Count * width / largest
		}
		if bucket.Count > 0 && bar == 0 {
			bar = 1
		}
		fmt.Fprintf(&b, "%4s-%-4s │%s %d\n",
			bucket.Low.StringFixed(1), bucket.High.StringFixed(1), strings.Repeat("█", bar), bucket.Count)
	}
	if h.Unrated > 0 {
		fmt.Fprintf(&b, "%9s │ %d\n", "unrated", h.Unrated)
	}
	return b.String()
}

func optional(s string) string {
	if s == shared.NotAvailable {
		return ""
	}
	return s
}
