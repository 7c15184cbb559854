package configflags

import (
	"github.com/bacalhau-project/cortex/pkg/config/types"
)

// Default supplies the default values shown in flag help.
var Default = types.Default("")

var LoggingFlags = []Definition{
	{
		FlagName:     "log-mode",
		ConfigPath:   types.LoggingMode,
		DefaultValue: Default.Logging.Mode,
		Description:  `Log format: 'default','json','combined'`,
	},
	{
		FlagName:     "log-level",
		ConfigPath:   types.LoggingLevel,
		DefaultValue: Default.Logging.Level,
		Description:  `Log level: 'trace','debug','info','warn','error','fatal'`,
	},
}

var FetchFlags = []Definition{
	{
		FlagName:     "timeout",
		ConfigPath:   types.FetchTimeout,
		DefaultValue: Default.Fetch.Timeout,
		Description:  `Upper bound on a whole retrieval (e.g. 30s, 10m). 0 disables it.`,
	},
	{
		FlagName:     "keep-corrupted",
		ConfigPath:   types.FetchKeepCorrupted,
		DefaultValue: Default.Fetch.KeepCorrupted,
		Description:  `Leave files that fail checksum verification on disk.`,
	},
	{
		FlagName:     "max-extract-size",
		ConfigPath:   types.FetchMaxExtractSize,
		DefaultValue: Default.Fetch.MaxExtractSize,
		Description:  `Largest single archive entry to extract (e.g. 500MB, 2GB).`,
	},
	{
		FlagName:     "disable-downloader",
		ConfigPath:   types.DownloadersDisabled,
		DefaultValue: Default.Downloaders.Disabled,
		Description:  `Locator kinds that may not be fetched: local, url, s3.`,
	},
}

var S3Flags = []Definition{
	{
		FlagName:     "s3-endpoint",
		ConfigPath:   types.S3Endpoint,
		DefaultValue: Default.S3.Endpoint,
		Description:  `Object store endpoint, for S3 compatible stores such as MinIO.`,
	},
	{
		FlagName:     "s3-region",
		ConfigPath:   types.S3Region,
		DefaultValue: Default.S3.Region,
		Description:  `Object store region.`,
	},
	{
		FlagName:     "s3-anonymous",
		ConfigPath:   types.S3Anonymous,
		DefaultValue: Default.S3.Anonymous,
		Description:  `Send unsigned requests, for public buckets.`,
	},
}
