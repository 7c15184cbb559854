package types

// Keys of the configuration tree, as used with viper and as environment
// variables after the CORTEX_ prefix, e.g. CORTEX_FETCH_TIMEOUT.
const (
	Fetch               = "Fetch"
	FetchTimeout        = "Fetch.Timeout"
	FetchKeepCorrupted  = "Fetch.KeepCorrupted"
	FetchMaxExtractSize = "Fetch.MaxExtractSize"
	FetchUserAgent      = "Fetch.UserAgent"

	Downloaders                   = "Downloaders"
	DownloadersDisabled           = "Downloaders.Disabled"
	DownloadersHTTPRequestTimeout = "Downloaders.HTTPRequestTimeout"

	S3            = "S3"
	S3Endpoint    = "S3.Endpoint"
	S3Region      = "S3.Region"
	S3Anonymous   = "S3.Anonymous"
	S3Concurrency = "S3.Concurrency"

	Logging      = "Logging"
	LoggingLevel = "Logging.Level"
	LoggingMode  = "Logging.Mode"
)
