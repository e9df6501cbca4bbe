package house

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"legisync/internal/catalog"
	"legisync/internal/config"
	"legisync/internal/logging"
	"legisync/internal/services"
)

// Scraper lists House videos from the archive page. The page groups video
// links under committee headings; each link's text is a free-form date and
// its href carries the real filename in a "video" query parameter.
type Scraper struct {
	listingURL     string
	archiveBaseURL string
	client         *http.Client
	logger         *slog.Logger
}

// NewScraper constructs a House catalog scraper from configuration.
func NewScraper(cfg *config.Config, logger *slog.Logger) *Scraper {
	return &Scraper{
		listingURL:     cfg.House.ListingURL,
		archiveBaseURL: cfg.House.ArchiveBaseURL,
		client:         &http.Client{Timeout: time.Duration(cfg.House.RequestTimeout) * time.Second},
		logger:         logging.NewComponentLogger(logger, "house-catalog"),
	}
}

func (s *Scraper) Source() catalog.Source { return catalog.SourceHouse }

// List fetches the archive listing page and extracts one item per video
// link. Entries without a recognized video extension are skipped; malformed
// entries degrade rather than abort the listing.
func (s *Scraper) List(ctx context.Context) ([]catalog.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.listingURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "build request", s.listingURL, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "catalog", "fetch listing", s.listingURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrTransient, "catalog", "fetch listing", fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "catalog", "parse listing", s.listingURL, err)
	}

	var items []catalog.Item
	doc.Find("li.page-search-container").Each(func(_ int, section *goquery.Selection) {
		committee := "Unknown Committee"
		if header := section.Find("div.text-clickable strong").First(); header.Length() > 0 {
			heading := header.Text()
			if idx := strings.Index(heading, "|"); idx >= 0 {
				heading = heading[:idx]
			}
			committee = catalog.NormalizeCommittee(heading)
		}

		section.Find("div.page-search-object a").Each(func(_ int, link *goquery.Selection) {
			href, _ := link.Attr("href")
			if !catalog.HasVideoExtension(href) {
				return
			}
			filename := filenameFromHref(href)
			if filename == "" {
				s.logger.Warn("listing entry without filename", logging.String("href", href))
				return
			}
			items = append(items, catalog.Item{
				Source:        catalog.SourceHouse,
				Committee:     committee,
				RecordingDate: catalog.NormalizeHouseDate(link.Text()),
				Filename:      filename,
				URL:           s.archiveBaseURL + "/" + filename,
			})
		})
	})

	s.logger.Info("house listing scraped", logging.Int("items", len(items)))
	return items, nil
}

// filenameFromHref extracts the artifact filename from a listing href. The
// archive links look like "/VideoArchivePlayer?video=FOO-071725.mp4"; older
// pages linked the file directly.
func filenameFromHref(href string) string {
	if parsed, err := url.Parse(href); err == nil {
		if video := parsed.Query().Get("video"); video != "" {
			return video
		}
		href = parsed.Path
	}
	if idx := strings.LastIndex(href, "/"); idx >= 0 {
		href = href[idx+1:]
	}
	if !catalog.HasVideoExtension(href) {
		return ""
	}
	return href
}
