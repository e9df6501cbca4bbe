package fetch_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"legisync/internal/catalog"
	"legisync/internal/config"
	"legisync/internal/fetch"
	"legisync/internal/logging"
	"legisync/internal/services"
)

func houseItem(url string) catalog.Item {
	return catalog.Item{
		Source:        catalog.SourceHouse,
		Committee:     "Appropriations",
		RecordingDate: "2025-07-17",
		Filename:      "APPROP-071725.mp4",
		URL:           url,
	}
}

func TestHTTPFetchStreamsToDestination(t *testing.T) {
	payload := bytes.Repeat([]byte("video-bytes "), 4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	cfg := config.Default()
	fetcher := fetch.NewHTTPFetcher(&cfg, logging.NewNop())
	dest := filepath.Join(t.TempDir(), "APPROP-071725.mp4")

	if err := fetcher.Fetch(context.Background(), houseItem(server.URL), dest); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("destination content mismatch: %d bytes vs %d", len(got), len(payload))
	}

	// No stray temp files left beside the destination.
	entries, err := os.ReadDir(filepath.Dir(dest))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the media file, found %d entries", len(entries))
	}
}

func TestHTTPFetchSkipsExistingMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be contacted when media exists")
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "APPROP-071725.mp4")
	if err := os.WriteFile(dest, []byte("already downloaded"), 0o644); err != nil {
		t.Fatalf("seed destination: %v", err)
	}

	cfg := config.Default()
	fetcher := fetch.NewHTTPFetcher(&cfg, logging.NewNop())
	if err := fetcher.Fetch(context.Background(), houseItem(server.URL), dest); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
}

func TestHTTPFetchClassifiesMissingMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	cfg := config.Default()
	fetcher := fetch.NewHTTPFetcher(&cfg, logging.NewNop())
	dest := filepath.Join(t.TempDir(), "APPROP-071725.mp4")

	err := fetcher.Fetch(context.Background(), houseItem(server.URL), dest)
	if err == nil {
		t.Fatal("expected error on 404")
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatal("failed download should leave no destination file")
	}
}
