package site

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
	tu "github.com/desertthunder/moviedb/internal/testing"
	"github.com/shopspring/decimal"
)

const simpleTemplate = `<html><head><title>__TEMPLATE_TITLE__</title></head><body>
<p id="count">__MOVIE_COUNT__</p>
<ul>
<!-- BEGIN MOVIE -->
<li class="movie" data-id="__MOVIE_ID__"><span class="title">__MOVIE_TITLE__</span> <span class="year">__MOVIE_YEAR__</span> <span class="rating">__MOVIE_RATING__</span> <img src="__MOVIE_POSTER__"/></li>
<!-- END MOVIE -->
</ul>
</body></html>
`

func sampleMovies() []*models.Movie {
	year := 2010
	rating := decimal.RequireFromString("8.8")

	inception := models.NewMovie("Inception")
	inception.SetID(1)
	inception.SetYear(&year)
	inception.SetRating(&rating)
	inception.SetPoster("https://img/inception.jpg?a=1&b=2")

	dune := models.NewMovie("Dune")
	dune.SetID(2)

	tricky := models.NewMovie(`Tom & Jerry <"Live">`)
	tricky.SetID(3)

	return []*models.Movie{inception, dune, tricky}
}

func writeTemplate(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "index_template.html")
	tu.MustWriteFile(t, path, content)
	return path
}

func parseDoc(t *testing.T, content string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		t.Fatalf("failed to parse rendered HTML: %v", err)
	}
	return doc
}

func TestGeneratorRender(t *testing.T) {
	t.Run("Renders One Section Per Movie", func(t *testing.T) {
		dir := t.TempDir()
		tplPath := writeTemplate(t, dir, simpleTemplate)
		outPath := filepath.Join(dir, "index.html")

		if err := NewGenerator("Movies & More").Render(sampleMovies(), tplPath, outPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		doc := parseDoc(t, tu.MustReadFile(t, outPath))

		if got := doc.Find("title").Text(); got != "Movies & More" {
			t.Errorf("expected page title, got %q", got)
		}
		if got := doc.Find("#count").Text(); got != "3" {
			t.Errorf("expected movie count 3, got %q", got)
		}

		items := doc.Find("li.movie")
		if items.Length() != 3 {
			t.Fatalf("expected 3 movie items, got %d", items.Length())
		}

		first := items.Eq(0)
		if got := first.Find(".title").Text(); got != "Inception" {
			t.Errorf("expected Inception first, got %q", got)
		}
		if got := first.Find(".year").Text(); got != "2010" {
			t.Errorf("expected year 2010, got %q", got)
		}
		if got := first.Find(".rating").Text(); got != "8.8" {
			t.Errorf("expected rating 8.8, got %q", got)
		}
		if got, _ := first.Find("img").Attr("src"); got != "https://img/inception.jpg?a=1&b=2" {
			t.Errorf("expected poster src, got %q", got)
		}
		if got, _ := first.Attr("data-id"); got != "1" {
			t.Errorf("expected data-id 1, got %q", got)
		}

		second := items.Eq(1)
		if got := second.Find(".year").Text(); got != shared.NotAvailable {
			t.Errorf("expected missing year as N/A, got %q", got)
		}
		if got := second.Find(".rating").Text(); got != shared.NotAvailable {
			t.Errorf("expected missing rating as N/A, got %q", got)
		}
		if got, _ := second.Find("img").Attr("src"); got != "" {
			t.Errorf("expected empty poster, got %q", got)
		}

		if got := items.Eq(2).Find(".title").Text(); got != `Tom & Jerry <"Live">` {
			t.Errorf("expected escaped title to round trip, got %q", got)
		}
	})

	t.Run("Escapes Values", func(t *testing.T) {
		tpl, err := Parse([]byte(simpleTemplate))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := string(tpl.Execute("<b>Mine</b>", sampleMovies()))
		if strings.Contains(out, "<b>Mine</b>") || strings.Contains(out, `<"Live">`) {
			t.Error("expected raw markup in values to be escaped")
		}
		if !strings.Contains(out, "Tom &amp; Jerry &lt;&#34;Live&#34;&gt;") {
			t.Errorf("expected escaped title in output, got %s", out)
		}
	})

	t.Run("Page Placeholders Inside Movie Section", func(t *testing.T) {
		tpl, err := Parse([]byte(`<ul>
<!-- BEGIN MOVIE -->
<li data-page="__TEMPLATE_TITLE__">__MOVIE_TITLE__ of __MOVIE_COUNT__</li>
<!-- END MOVIE -->
</ul>
`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		movie := models.NewMovie("__TEMPLATE_TITLE__")
		movie.SetID(1)
		doc := parseDoc(t, string(tpl.Execute("Tom & Jerry's", []*models.Movie{movie})))

		item := doc.Find("li")
		if got, _ := item.Attr("data-page"); got != "Tom & Jerry's" {
			t.Errorf("expected page title in movie section, got %q", got)
		}
		if got := item.Text(); got != "__TEMPLATE_TITLE__ of 1" {
			t.Errorf("expected movie title left unexpanded, got %q", got)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		dir := t.TempDir()
		tplPath := writeTemplate(t, dir, simpleTemplate)
		outPath := filepath.Join(dir, "index.html")
		gen := NewGenerator("")

		if err := gen.Render(sampleMovies(), tplPath, outPath); err != nil {
			t.Fatalf("first render failed: %v", err)
		}
		first := tu.MustReadFile(t, outPath)

		if err := gen.Render(sampleMovies(), tplPath, outPath); err != nil {
			t.Fatalf("second render failed: %v", err)
		}
		second := tu.MustReadFile(t, outPath)

		if first != second {
			t.Error("expected byte-identical output across renders")
		}
		if !strings.Contains(first, DefaultTitle) {
			t.Errorf("expected default title %q in output", DefaultTitle)
		}
	})

	t.Run("Empty Catalog", func(t *testing.T) {
		dir := t.TempDir()
		tplPath := writeTemplate(t, dir, simpleTemplate)
		outPath := filepath.Join(dir, "index.html")

		if err := NewGenerator("Empty").Render(nil, tplPath, outPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		doc := parseDoc(t, tu.MustReadFile(t, outPath))
		if n := doc.Find("li.movie").Length(); n != 0 {
			t.Errorf("expected no movie items, got %d", n)
		}
		if got := doc.Find("#count").Text(); got != "0" {
			t.Errorf("expected count 0, got %q", got)
		}
	})

	t.Run("Creates Output Directory", func(t *testing.T) {
		dir := t.TempDir()
		tplPath := writeTemplate(t, dir, simpleTemplate)
		outPath := filepath.Join(dir, "public", "site", "index.html")

		if err := NewGenerator("").Render(sampleMovies(), tplPath, outPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, outPath)
	})
}

func TestGeneratorRenderErrors(t *testing.T) {
	broken := map[string]string{
		"Missing Markers":   `<html><body><ul><li>__MOVIE_TITLE__</li></ul></body></html>`,
		"Missing End":       "<ul>\n<!-- BEGIN MOVIE -->\n<li>__MOVIE_TITLE__</li>\n</ul>",
		"Missing Begin":     "<ul>\n<li>__MOVIE_TITLE__</li>\n<!-- END MOVIE -->\n</ul>",
		"Misordered":        "<!-- END MOVIE -->\n<li>__MOVIE_TITLE__</li>\n<!-- BEGIN MOVIE -->\n",
		"Duplicate Section": "<!-- BEGIN MOVIE -->a<!-- END MOVIE --><!-- BEGIN MOVIE -->b<!-- END MOVIE -->",
		"Poster Unclosed":   "<!-- BEGIN MOVIE -->\n<!-- BEGIN POSTER -->\n<img/>\n<!-- END MOVIE -->\n",
		"Poster Outside":    "<!-- BEGIN POSTER --><!-- END POSTER -->\n<!-- BEGIN MOVIE -->\nx\n<!-- END MOVIE -->\n",
		"Else Outside":      "<!-- BEGIN MOVIE -->\n<!-- BEGIN POSTER -->a<!-- END POSTER --><!-- ELSE POSTER -->\n<!-- END MOVIE -->\n",
	}

	for name, content := range broken {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tplPath := writeTemplate(t, dir, content)
			outPath := filepath.Join(dir, "index.html")

			err := NewGenerator("").Render(sampleMovies(), tplPath, outPath)
			if !errors.Is(err, shared.ErrTemplate) {
				t.Fatalf("expected ErrTemplate, got %v", err)
			}
			tu.AssertFileNotExists(t, outPath)
		})
	}

	t.Run("Existing Output Untouched", func(t *testing.T) {
		dir := t.TempDir()
		tplPath := writeTemplate(t, dir, "<html>no markers</html>")
		outPath := filepath.Join(dir, "index.html")
		tu.MustWriteFile(t, outPath, "previous build")

		if err := NewGenerator("").Render(sampleMovies(), tplPath, outPath); !errors.Is(err, shared.ErrTemplate) {
			t.Fatalf("expected ErrTemplate, got %v", err)
		}
		if got := tu.MustReadFile(t, outPath); got != "previous build" {
			t.Errorf("expected previous output to survive, got %q", got)
		}

		entries, _ := os.ReadDir(dir)
		if len(entries) != 2 {
			t.Errorf("expected no temporary files left behind, got %d entries", len(entries))
		}
	})

	t.Run("Missing Template", func(t *testing.T) {
		dir := t.TempDir()
		outPath := filepath.Join(dir, "index.html")

		err := NewGenerator("").Render(sampleMovies(), filepath.Join(dir, "nope.html"), outPath)
		if !errors.Is(err, shared.ErrTemplate) {
			t.Fatalf("expected ErrTemplate, got %v", err)
		}
		tu.AssertFileNotExists(t, outPath)
	})
}

func TestPosterSection(t *testing.T) {
	tpl, err := Parse(DefaultTemplate())
	if err != nil {
		t.Fatalf("default template should parse: %v", err)
	}

	doc := parseDoc(t, string(tpl.Execute("Catalog", sampleMovies())))

	items := doc.Find("li.movie")
	if items.Length() != 3 {
		t.Fatalf("expected 3 movie items, got %d", items.Length())
	}
	if n := items.Eq(0).Find("img.movie-poster").Length(); n != 1 {
		t.Errorf("expected poster image for Inception, got %d", n)
	}
	if got := strings.TrimSpace(items.Eq(1).Find("div.movie-poster").Text()); got != "No poster" {
		t.Errorf("expected placeholder for Dune, got %q", got)
	}
	if n := items.Eq(1).Find("img").Length(); n != 0 {
		t.Errorf("expected no image for Dune, got %d", n)
	}
	if got, _ := items.Eq(1).Attr("id"); got != "movie-2" {
		t.Errorf("expected id movie-2, got %q", got)
	}

	out := string(tpl.Execute("Catalog", sampleMovies()))
	for _, marker := range []string{BeginMovie, EndMovie, BeginPoster, ElsePoster, EndPoster} {
		if strings.Contains(out, marker) {
			t.Errorf("expected marker %q to be stripped from output", marker)
		}
	}
}

func TestWriteDefaultTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "_static", "index_template.html")

	if err := WriteDefaultTemplate(path, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := tu.MustReadFile(t, path); !bytes.Equal([]byte(got), DefaultTemplate()) {
		t.Error("expected written template to match the built-in one")
	}

	if err := WriteDefaultTemplate(path, false); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for existing file, got %v", err)
	}
	if err := WriteDefaultTemplate(path, true); err != nil {
		t.Errorf("expected force to overwrite, got %v", err)
	}
}
