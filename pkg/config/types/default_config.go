package types

import (
	"time"

	"github.com/c2h5oh/datasize"
)

const (
	DefaultFetchTimeout       = 30 * time.Minute
	DefaultMaxExtractSize     = 100 * datasize.GB
	DefaultHTTPRequestTimeout = 0
	DefaultS3Region           = "us-east-1"
	DefaultS3Concurrency      = 5
)

// Default returns the configuration used when nothing is overridden.
func Default(userAgent string) CortexConfig {
	return CortexConfig{
		Fetch: FetchConfig{
			Timeout:        Duration(DefaultFetchTimeout),
			KeepCorrupted:  false,
			MaxExtractSize: DefaultMaxExtractSize,
			UserAgent:      userAgent,
		},
		Downloaders: DownloadersConfig{
			HTTPRequestTimeout: DefaultHTTPRequestTimeout,
		},
		S3: S3Config{
			Region:      DefaultS3Region,
			Concurrency: DefaultS3Concurrency,
		},
		Logging: LoggingConfig{
			Level: "info",
			Mode:  "default",
		},
	}
}
