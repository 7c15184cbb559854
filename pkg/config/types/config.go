package types

import (
	"github.com/c2h5oh/datasize"
)

type CortexConfig struct {
	Fetch       FetchConfig       `yaml:"Fetch"`
	Downloaders DownloadersConfig `yaml:"Downloaders"`
	S3          S3Config          `yaml:"S3"`
	Logging     LoggingConfig     `yaml:"Logging"`
}

type FetchConfig struct {
	// Timeout bounds a whole retrieval. Zero means no bound.
	Timeout Duration `yaml:"Timeout"`
	// KeepCorrupted leaves files that fail checksum verification on disk.
	KeepCorrupted bool `yaml:"KeepCorrupted"`
	// MaxExtractSize caps the decompressed size of a single archive entry.
	MaxExtractSize datasize.ByteSize `yaml:"MaxExtractSize"`
	UserAgent      string            `yaml:"UserAgent"`
}

type DownloadersConfig struct {
	// Disabled lists locator kinds (local, url, s3) that may not be fetched.
	Disabled []string `yaml:"Disabled,omitempty"`
	// HTTPRequestTimeout bounds a single HTTP request. Zero means no bound.
	HTTPRequestTimeout Duration `yaml:"HTTPRequestTimeout"`
}

type S3Config struct {
	// Endpoint overrides the AWS endpoint, e.g. for MinIO or GCS.
	Endpoint string `yaml:"Endpoint,omitempty"`
	Region   string `yaml:"Region,omitempty"`
	// Anonymous sends unsigned requests, for public buckets.
	Anonymous bool `yaml:"Anonymous"`
	// Concurrency is the number of parts downloaded in parallel.
	Concurrency int `yaml:"Concurrency"`
}

type LoggingConfig struct {
	// Level sets the logging level. One of: trace, debug, info, warn, error, fatal.
	Level string `yaml:"Level,omitempty"`
	// Mode specifies the logging mode. One of: default, json, combined.
	Mode string `yaml:"Mode,omitempty"`
}
