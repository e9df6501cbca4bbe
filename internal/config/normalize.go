package config

import "strings"

func (c *Config) normalize() error {
	for _, field := range []*string{&c.Paths.StagingDir, &c.Paths.LogDir, &c.Paths.LedgerPath} {
		trimmed := strings.TrimSpace(*field)
		if trimmed == "" {
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Storage.Bucket = strings.TrimSpace(c.Storage.Bucket)
	c.House.ListingURL = strings.TrimSpace(c.House.ListingURL)
	c.House.ArchiveBaseURL = strings.TrimRight(strings.TrimSpace(c.House.ArchiveBaseURL), "/")
	c.Senate.Endpoint = strings.TrimSpace(c.Senate.Endpoint)
	c.Senate.CollectionID = strings.TrimSpace(c.Senate.CollectionID)
	c.Transcriber.Binary = strings.TrimSpace(c.Transcriber.Binary)
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)

	if c.House.RequestTimeout <= 0 {
		c.House.RequestTimeout = defaultRequestTimeout
	}
	if c.Senate.RequestTimeout <= 0 {
		c.Senate.RequestTimeout = defaultRequestTimeout
	}
	if c.Senate.PageSize <= 0 {
		c.Senate.PageSize = defaultSenatePageSize
	}
	if c.Senate.MaxPages <= 0 {
		c.Senate.MaxPages = defaultSenateMaxPages
	}
	if c.Fetch.ProbeTimeout <= 0 {
		c.Fetch.ProbeTimeout = defaultProbeTimeout
	}
	return nil
}
