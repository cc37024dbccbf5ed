package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/moviedb/internal/shared"
	tu "github.com/desertthunder/moviedb/internal/testing"
)

func siteDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	tu.MustWriteFile(t, filepath.Join(dir, "index.html"), "<h1>My Movies</h1>")
	tu.MustWriteFile(t, filepath.Join(dir, "style.css"), "body{}")
	return dir
}

func get(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestServer(t *testing.T) {
	t.Run("Serves Index", func(t *testing.T) {
		var logs bytes.Buffer
		srv := New("127.0.0.1:0", siteDir(t), shared.NewLogger(&logs))

		rec := get(t, srv.Handler(), http.MethodGet, "/")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "My Movies") {
			t.Errorf("expected index content, got %q", rec.Body.String())
		}
		if rec.Header().Get("Cache-Control") != "no-store" {
			t.Error("expected no-store cache header")
		}
		if !strings.Contains(logs.String(), "status=200") {
			t.Errorf("expected request to be logged, got %q", logs.String())
		}
	})

	t.Run("Serves Assets", func(t *testing.T) {
		srv := New("127.0.0.1:0", siteDir(t), shared.NewLogger(io.Discard))

		rec := get(t, srv.Handler(), http.MethodGet, "/style.css")
		if rec.Code != http.StatusOK || rec.Body.String() != "body{}" {
			t.Errorf("expected stylesheet, got %d %q", rec.Code, rec.Body.String())
		}

		if rec := get(t, srv.Handler(), http.MethodGet, "/missing.png"); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 for missing file, got %d", rec.Code)
		}
	})

	t.Run("Missing Site", func(t *testing.T) {
		srv := New("127.0.0.1:0", t.TempDir(), shared.NewLogger(io.Discard))

		rec := get(t, srv.Handler(), http.MethodGet, "/")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "generate-site") {
			t.Errorf("expected hint in body, got %q", rec.Body.String())
		}
	})

	t.Run("Rejects Other Methods", func(t *testing.T) {
		srv := New("127.0.0.1:0", siteDir(t), shared.NewLogger(io.Discard))

		rec := get(t, srv.Handler(), http.MethodPost, "/")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
		if rec.Header().Get("Allow") != "GET, HEAD" {
			t.Errorf("expected Allow header, got %q", rec.Header().Get("Allow"))
		}

		if rec := get(t, srv.Handler(), http.MethodHead, "/"); rec.Code != http.StatusOK {
			t.Errorf("expected HEAD to be allowed, got %d", rec.Code)
		}
	})

	t.Run("Shuts Down On Cancel", func(t *testing.T) {
		srv := New("127.0.0.1:0", siteDir(t), shared.NewLogger(io.Discard))
		ctx, cancel := context.WithCancel(context.Background())

		addrs := make(chan string, 1)
		done := make(chan error, 1)
		go func() {
			done <- srv.ListenAndServe(ctx, func(addr string) { addrs <- addr })
		}()

		addr := <-addrs
		resp, err := http.Get("http://" + addr + "/")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}

		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("expected clean shutdown, got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	})

	t.Run("Listen Error", func(t *testing.T) {
		srv := New("256.0.0.1:99999", siteDir(t), shared.NewLogger(io.Discard))
		if err := srv.ListenAndServe(context.Background(), nil); err == nil {
			t.Error("expected listen error")
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("Order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.Handle("get", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		get(t, router, http.MethodGet, "/ping")
		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected middleware order: %v", order)
		}
	})

	t.Run("Recover", func(t *testing.T) {
		var logs bytes.Buffer
		router := NewBasicRouter()
		router.Use(Recover(shared.NewLogger(&logs)))
		router.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := get(t, router, http.MethodGet, "/boom")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if !strings.Contains(logs.String(), "handler panic") {
			t.Errorf("expected panic to be logged, got %q", logs.String())
		}
	})
}
