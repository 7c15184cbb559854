package fetch

import (
	"context"
	"io"

	"github.com/bacalhau-project/cortex/pkg/config/types"
	"github.com/bacalhau-project/cortex/pkg/downloader/util"
)

// NewFetcherFromConfig builds a Fetcher with the standard downloaders and
// the fetch settings in cfg.
func NewFetcherFromConfig(ctx context.Context, cfg types.CortexConfig, progress io.Writer) (*Fetcher, error) {
	return NewFetcher(Params{
		Downloaders:    util.NewStandardDownloaders(ctx, cfg),
		Timeout:        cfg.Fetch.Timeout.AsTimeDuration(),
		KeepCorrupted:  cfg.Fetch.KeepCorrupted,
		MaxExtractSize: cfg.Fetch.MaxExtractSize,
		Progress:       progress,
	})
}
