package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"legisync/internal/catalog"
	"legisync/internal/config"
	"legisync/internal/fetch"
	"legisync/internal/logging"
	"legisync/internal/services"
)

func senateItem() catalog.Item {
	return catalog.Item{
		Source:        catalog.SourceSenate,
		Committee:     "SenateSession",
		RecordingDate: "2025-07-17",
		Filename:      "SenateSession 25-07-17.mp4",
		RemoteID:      "abc123",
	}
}

func newStreamFetcher(t *testing.T, templates []string, runner func(ctx context.Context, name string, args ...string) error) *fetch.StreamFetcher {
	t.Helper()
	cfg := config.Default()
	cfg.Fetch.ProbeTimeout = 2
	fetcher := fetch.NewStreamFetcher(&cfg, logging.NewNop())
	fetcher.WithManifestTemplates(templates)
	fetcher.WithCommandRunner(runner)
	return fetcher
}

func TestStreamFetchUsesFirstReachableManifest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/play/") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("#EXTM3U\n"))
	}))
	defer server.Close()

	var gotName string
	var gotArgs []string
	runner := func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		// ffmpeg writes its output to the last argument.
		return os.WriteFile(args[len(args)-1], []byte("remuxed"), 0o644)
	}

	fetcher := newStreamFetcher(t, []string{
		server.URL + "/play/%s.m3u8",
		server.URL + "/vod/%s.m3u8",
	}, runner)

	dest := filepath.Join(t.TempDir(), "SenateSession 25-07-17.mp4")
	if err := fetcher.Fetch(context.Background(), senateItem(), dest); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if gotName != "ffmpeg" {
		t.Fatalf("binary = %q", gotName)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, server.URL+"/vod/abc123.m3u8") {
		t.Fatalf("expected second candidate manifest in args, got %q", joined)
	}
	if !strings.Contains(joined, "-c copy") {
		t.Fatalf("expected stream copy, got %q", joined)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != "remuxed" {
		t.Fatalf("destination content = %q", got)
	}
}

func TestStreamFetchSkipsExistingMedia(t *testing.T) {
	runner := func(ctx context.Context, name string, args ...string) error {
		t.Error("ffmpeg should not run when media exists")
		return nil
	}
	fetcher := newStreamFetcher(t, []string{"http://127.0.0.1:1/%s.m3u8"}, runner)

	dest := filepath.Join(t.TempDir(), "SenateSession 25-07-17.mp4")
	if err := os.WriteFile(dest, []byte("already downloaded"), 0o644); err != nil {
		t.Fatalf("seed destination: %v", err)
	}
	if err := fetcher.Fetch(context.Background(), senateItem(), dest); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
}

func TestStreamFetchFailsWhenNoManifestReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	runner := func(ctx context.Context, name string, args ...string) error {
		t.Error("ffmpeg should not run without a reachable manifest")
		return nil
	}
	fetcher := newStreamFetcher(t, []string{server.URL + "/%s.m3u8"}, runner)

	err := fetcher.Fetch(context.Background(), senateItem(), filepath.Join(t.TempDir(), "out.mp4"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", err)
	}
}

func TestStreamFetchRejectsItemWithoutRemoteID(t *testing.T) {
	fetcher := newStreamFetcher(t, []string{"http://127.0.0.1:1/%s.m3u8"}, nil)
	item := senateItem()
	item.RemoteID = ""

	err := fetcher.Fetch(context.Background(), item, filepath.Join(t.TempDir(), "out.mp4"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}
