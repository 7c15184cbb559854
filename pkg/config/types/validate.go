package types

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/slices"
)

// DownloaderKinds are the keys accepted in Downloaders.Disabled.
var DownloaderKinds = []string{"local", "url", "s3"}

var logModes = []string{"default", "json", "combined"}

var logLevels = []string{"trace", "debug", "info", "warn", "error", "fatal"}

// Validate reports every invalid setting at once.
func (c CortexConfig) Validate() error {
	var errs *multierror.Error

	if c.Fetch.Timeout < 0 {
		errs = multierror.Append(errs, fmt.Errorf("%s must not be negative, got %s", FetchTimeout, c.Fetch.Timeout))
	}
	if c.Fetch.MaxExtractSize == 0 {
		errs = multierror.Append(errs, fmt.Errorf("%s must be greater than zero", FetchMaxExtractSize))
	}
	if c.Downloaders.HTTPRequestTimeout < 0 {
		errs = multierror.Append(errs, fmt.Errorf("%s must not be negative", DownloadersHTTPRequestTimeout))
	}
	for _, kind := range c.Downloaders.Disabled {
		if !slices.Contains(DownloaderKinds, strings.ToLower(strings.TrimSpace(kind))) {
			errs = multierror.Append(errs, fmt.Errorf("%s: unknown downloader %q (known: %s)",
				DownloadersDisabled, kind, strings.Join(DownloaderKinds, ", ")))
		}
	}
	if c.S3.Endpoint != "" {
		if u, err := url.Parse(c.S3.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			errs = multierror.Append(errs, fmt.Errorf("%s must be an absolute URL, got %q", S3Endpoint, c.S3.Endpoint))
		}
	}
	if c.S3.Concurrency < 0 {
		errs = multierror.Append(errs, fmt.Errorf("%s must not be negative", S3Concurrency))
	}
	if c.Logging.Mode != "" && !slices.Contains(logModes, strings.ToLower(c.Logging.Mode)) {
		errs = multierror.Append(errs, fmt.Errorf("%s: unknown mode %q", LoggingMode, c.Logging.Mode))
	}
	if c.Logging.Level != "" && !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		errs = multierror.Append(errs, fmt.Errorf("%s: unknown level %q", LoggingLevel, c.Logging.Level))
	}

	return errs.ErrorOrNil()
}
