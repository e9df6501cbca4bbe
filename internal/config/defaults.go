package config

const (
	defaultStagingDir     = "~/.local/share/legisync/staging"
	defaultLogDir         = "~/.local/share/legisync/logs"
	defaultLedgerPath     = "~/.local/share/legisync/state.json"
	defaultHouseListing   = "https://www.house.mi.gov/VideoArchive"
	defaultHouseArchive   = "https://www.house.mi.gov/ArchiveVideoFiles"
	defaultSenateEndpoint = "https://tf4pr3wftk.execute-api.us-west-2.amazonaws.com/default/api/all"
	defaultSenateID       = "61b3adc8124d7d000891ca5c"
	defaultSenatePageSize = 30
	defaultSenateMaxPages = 1
	defaultRequestTimeout = 30
	defaultProbeTimeout   = 10
	defaultWhisperBinary  = "whisper-ctranslate2"
	defaultWhisperModel   = "base"
	defaultComputeType    = "float32"
	defaultSweepInterval  = 300
	defaultPerSourceLimit = 2
	defaultNtfyTimeout    = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			LedgerPath: defaultLedgerPath,
		},
		House: House{
			ListingURL:     defaultHouseListing,
			ArchiveBaseURL: defaultHouseArchive,
			RequestTimeout: defaultRequestTimeout,
		},
		Senate: Senate{
			Endpoint:       defaultSenateEndpoint,
			CollectionID:   defaultSenateID,
			PageSize:       defaultSenatePageSize,
			MaxPages:       defaultSenateMaxPages,
			RequestTimeout: defaultRequestTimeout,
		},
		Fetch: Fetch{
			ProbeTimeout: defaultProbeTimeout,
		},
		Transcriber: Transcriber{
			Binary:      defaultWhisperBinary,
			Model:       defaultWhisperModel,
			ComputeType: defaultComputeType,
		},
		Workflow: Workflow{
			SweepInterval:  defaultSweepInterval,
			PerSourceLimit: defaultPerSourceLimit,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
			Sweep:          true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
