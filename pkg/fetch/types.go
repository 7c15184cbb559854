package fetch

import (
	"io"
	"time"

	"github.com/c2h5oh/datasize"

	"github.com/bacalhau-project/cortex/pkg/archive"
	"github.com/bacalhau-project/cortex/pkg/checksum"
	"github.com/bacalhau-project/cortex/pkg/downloader"
	"github.com/bacalhau-project/cortex/pkg/locator"
)

type Params struct {
	Downloaders downloader.DownloaderProvider
	// Timeout bounds each retrieval. Zero means no bound.
	Timeout time.Duration
	// KeepCorrupted leaves files that fail verification on disk.
	KeepCorrupted bool
	// MaxExtractSize caps each extracted entry. Zero keeps the archive
	// package default.
	MaxExtractSize datasize.ByteSize
	// Progress, when set, receives a copy of every byte written to disk.
	Progress io.Writer
}

// Request describes one VerifyIntegrity call.
type Request struct {
	Locator     locator.Locator
	Destination string
	// Checksum is the expected digest of the retrieved file. When
	// extracting, it is the digest of the archive.
	Checksum checksum.Spec
	// ExtractDir, when set, makes the retrieved file an archive that is
	// unpacked there after it verifies.
	ExtractDir string
	// Format is the archive format hint; empty detects it.
	Format archive.Format
	// SkipIfPresent reuses an existing destination whose checksum matches.
	SkipIfPresent bool
	// Timeout overrides Params.Timeout when positive.
	Timeout time.Duration
}

// Result is owned by the caller; the Fetcher keeps nothing about it.
type Result struct {
	Path string
	Size int64
	// ExtractDir is set when the file was extracted.
	ExtractDir string
	// Skipped is true when an existing verified file was reused.
	Skipped bool
}
