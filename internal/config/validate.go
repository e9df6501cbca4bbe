package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateTranscriber(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StagingDir == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.LedgerPath == "" {
		return errors.New("paths.ledger_path must be set")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.Bucket == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/legisync/config.toml"
		}
		return fmt.Errorf("storage.bucket is required. Edit %s (create with 'legisync config new')", defaultPath)
	}
	return nil
}

func (c *Config) validateSources() error {
	if c.House.ListingURL == "" {
		return errors.New("house.listing_url must be set")
	}
	if c.House.ArchiveBaseURL == "" {
		return errors.New("house.archive_base_url must be set")
	}
	if c.Senate.Endpoint == "" {
		return errors.New("senate.endpoint must be set")
	}
	if c.Senate.CollectionID == "" {
		return errors.New("senate.collection_id must be set")
	}
	if c.Senate.PageSize > 100 {
		return errors.New("senate.page_size must not exceed 100")
	}
	return nil
}

func (c *Config) validateTranscriber() error {
	if c.Transcriber.Binary == "" {
		return errors.New("transcriber.binary must be set")
	}
	switch c.Transcriber.ComputeType {
	case "", "int8", "int8_float16", "float16", "float32", "auto":
	default:
		return fmt.Errorf("transcriber.compute_type: unsupported value %q", c.Transcriber.ComputeType)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.SweepInterval <= 0 {
		return errors.New("workflow.sweep_interval must be positive")
	}
	if c.Workflow.PerSourceLimit <= 0 {
		return errors.New("workflow.per_source_limit must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
