package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"legisync/internal/config"
)

const userAgent = "Legisync-Go/0.1.0"

// Service defines the notification surface exposed to sweep components.
type Service interface {
	NotifySweepStarted(ctx context.Context, sweepID string) error
	NotifySweepCompleted(ctx context.Context, sweepID string, processed, skipped, failed int, duration time.Duration) error
	NotifyItemFailed(ctx context.Context, source, committee, filename, stage string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:    topic,
		client:      &http.Client{Timeout: timeout},
		sweepEvents: cfg.Notifications.Sweep,
		errorEvents: cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	sweepEvents bool
	errorEvents bool
}

func (n *ntfyService) NotifySweepStarted(ctx context.Context, sweepID string) error {
	if !n.sweepEvents {
		return nil
	}
	data := payload{
		title:   "Legisync - Sweep Started",
		message: fmt.Sprintf("Started sweep %s", strings.TrimSpace(sweepID)),
		tags:    []string{"legisync", "sweep", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySweepCompleted(ctx context.Context, sweepID string, processed, skipped, failed int, duration time.Duration) error {
	if !n.sweepEvents {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title, message string
	if failed == 0 {
		title = "Legisync - Sweep Complete"
		message = fmt.Sprintf("Sweep %s: %d processed, %d skipped in %s", sweepID, processed, skipped, durationText)
	} else {
		title = "Legisync - Sweep Complete (with errors)"
		message = fmt.Sprintf("Sweep %s: %d processed, %d skipped, %d failed in %s", sweepID, processed, skipped, failed, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"legisync", "sweep", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyItemFailed(ctx context.Context, source, committee, filename, stage string, err error) error {
	if !n.errorEvents {
		return nil
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "Failed during %s: %s/%s/%s", strings.TrimSpace(stage), source, strings.TrimSpace(committee), strings.TrimSpace(filename))
	if err != nil {
		builder.WriteString("\n")
		builder.WriteString(strings.TrimSpace(err.Error()))
	}

	data := payload{
		title:    "Legisync - Item Failed",
		message:  builder.String(),
		tags:     []string{"legisync", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Legisync - Test",
		message:  "Notification system test",
		tags:     []string{"legisync", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifySweepStarted(context.Context, string) error { return nil }
func (noopService) NotifySweepCompleted(context.Context, string, int, int, int, time.Duration) error {
	return nil
}
func (noopService) NotifyItemFailed(context.Context, string, string, string, string, error) error {
	return nil
}
func (noopService) TestNotification(context.Context) error { return nil }
