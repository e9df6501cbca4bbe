package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legisync/internal/config"
	"legisync/internal/notifications"
)

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCaptureServer(t *testing.T, sink *captured) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		sink.title = r.Header.Get("Title")
		sink.tags = r.Header.Get("Tags")
		sink.priority = r.Header.Get("Priority")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		sink.body = string(body)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifySweepCompleted(context.Background(), "abc", 3, 1, 0, time.Minute); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestSweepCompletedFormatsSummary(t *testing.T) {
	var got captured
	server := newCaptureServer(t, &got)
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	if err := svc.NotifySweepCompleted(context.Background(), "a1b2c3", 4, 2, 0, 95*time.Second); err != nil {
		t.Fatalf("notification returned error: %v", err)
	}
	if got.title != "Legisync - Sweep Complete" {
		t.Fatalf("title = %q", got.title)
	}
	if got.body != "Sweep a1b2c3: 4 processed, 2 skipped in 1m35s" {
		t.Fatalf("message = %q", got.body)
	}
	if got.tags != "legisync,sweep,completed" {
		t.Fatalf("tags = %q", got.tags)
	}

	if err := svc.NotifySweepCompleted(context.Background(), "a1b2c3", 4, 2, 1, 95*time.Second); err != nil {
		t.Fatalf("notification returned error: %v", err)
	}
	if got.title != "Legisync - Sweep Complete (with errors)" {
		t.Fatalf("title = %q", got.title)
	}
	if got.body != "Sweep a1b2c3: 4 processed, 2 skipped, 1 failed in 1m35s" {
		t.Fatalf("message = %q", got.body)
	}
}

func TestItemFailedCarriesHighPriority(t *testing.T) {
	var got captured
	server := newCaptureServer(t, &got)
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	err := svc.NotifyItemFailed(context.Background(), "house", "Appropriations", "APPROP-071725.mp4", "fetch", errors.New("connection reset"))
	if err != nil {
		t.Fatalf("notification returned error: %v", err)
	}
	if got.priority != "high" {
		t.Fatalf("priority = %q", got.priority)
	}
	want := "Failed during fetch: house/Appropriations/APPROP-071725.mp4\nconnection reset"
	if got.body != want {
		t.Fatalf("message = %q, want %q", got.body, want)
	}
}

func TestDisabledCategoriesAreSuppressed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for suppressed event: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Sweep = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	ctx := context.Background()
	if err := svc.NotifySweepStarted(ctx, "abc"); err != nil {
		t.Fatalf("suppressed sweep event returned error: %v", err)
	}
	if err := svc.NotifySweepCompleted(ctx, "abc", 1, 0, 0, time.Second); err != nil {
		t.Fatalf("suppressed sweep event returned error: %v", err)
	}
	if err := svc.NotifyItemFailed(ctx, "senate", "Judiciary", "x.mp4", "upload", errors.New("boom")); err != nil {
		t.Fatalf("suppressed error event returned error: %v", err)
	}
}
