package senate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"legisync/internal/catalog"
	"legisync/internal/config"
	"legisync/internal/logging"
	"legisync/internal/services"
)

// Client lists Senate videos from the media search endpoint. The endpoint
// is paginated; page size and max page count are configured bounds so a
// sweep never crawls the full archive.
type Client struct {
	endpoint     string
	collectionID string
	pageSize     int
	maxPages     int
	client       *http.Client
	logger       *slog.Logger
}

// NewClient constructs a Senate catalog client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		endpoint:     cfg.Senate.Endpoint,
		collectionID: cfg.Senate.CollectionID,
		pageSize:     cfg.Senate.PageSize,
		maxPages:     cfg.Senate.MaxPages,
		client:       &http.Client{Timeout: time.Duration(cfg.Senate.RequestTimeout) * time.Second},
		logger:       logging.NewComponentLogger(logger, "senate-catalog"),
	}
}

func (c *Client) Source() catalog.Source { return catalog.SourceSenate }

type searchRequest struct {
	ID      string `json:"_id"`
	Page    int    `json:"page"`
	Results int    `json:"results"`
}

type searchResponse struct {
	AllFiles []fileEntry `json:"allFiles"`
}

type fileEntry struct {
	ID       string `json:"_id"`
	Date     string `json:"date"`
	Metadata struct {
		Filename string `json:"filename"`
	} `json:"metadata"`
}

// List pages through the search endpoint until it runs out of results,
// hits the configured page bound, or a page fails. A failed page stops
// pagination early and returns the items collected so far; it never
// surfaces as an error to the caller.
func (c *Client) List(ctx context.Context) ([]catalog.Item, error) {
	var items []catalog.Item
	for page := 1; ; page++ {
		entries, err := c.fetchPage(ctx, page)
		if err != nil {
			c.logger.Warn("senate page fetch failed; returning partial results",
				logging.Int("page", page),
				logging.Error(err),
			)
			break
		}
		if len(entries) == 0 {
			break
		}
		for _, entry := range entries {
			items = append(items, c.toItem(entry))
		}
		if page >= c.maxPages {
			break
		}
	}
	c.logger.Info("senate listing fetched", logging.Int("items", len(items)))
	return items, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]fileEntry, error) {
	body, err := json.Marshal(searchRequest{ID: c.collectionID, Page: page, Results: c.pageSize})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "catalog", "fetch page", c.endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrTransient, "catalog", "fetch page", fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, services.Wrap(services.ErrTransient, "catalog", "decode page", c.endpoint, err)
	}
	return decoded.AllFiles, nil
}

func (c *Client) toItem(entry fileEntry) catalog.Item {
	title := strings.TrimSpace(entry.Metadata.Filename)
	if title == "" {
		title = "Untitled"
	}
	return catalog.Item{
		Source:        catalog.SourceSenate,
		Committee:     committeeFromTitle(title),
		RecordingDate: catalog.RecordingDateFromFilename(title),
		Filename:      catalog.EnsureVideoExtension(title),
		RemoteID:      entry.ID,
		UploadedAt:    catalog.NormalizeUploadTimestamp(entry.Date),
	}
}

// committeeFromTitle derives the committee name by dropping the trailing
// token of the display title, which carries the date. Single-token titles
// are used as-is.
func committeeFromTitle(title string) string {
	if idx := strings.LastIndex(title, " "); idx > 0 {
		return strings.TrimSpace(title[:idx])
	}
	return title
}
