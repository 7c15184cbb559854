package downloader

import (
	"context"
	"io"

	"github.com/bacalhau-project/cortex/pkg/lib/provider"
	"github.com/bacalhau-project/cortex/pkg/locator"
)

// Target is where a Downloader writes the resource. Streaming transports use
// Write; transports that fetch ranges concurrently use WriteAt.
type Target interface {
	io.Writer
	io.WriterAt
}

// Downloader transfers the bytes behind a locator of one kind into a Target.
// It does not retry and does not create or rename files; callers own the
// target's lifecycle.
type Downloader interface {
	provider.Providable
	// Fetch writes the resource to w and returns the number of bytes written.
	Fetch(ctx context.Context, loc locator.Locator, w Target) (int64, error)
}

// DownloaderProvider resolves downloaders by locator kind, e.g. "s3".
type DownloaderProvider = provider.Provider[Downloader]
