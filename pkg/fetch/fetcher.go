package fetch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/rs/zerolog/log"

	"github.com/bacalhau-project/cortex/pkg/archive"
	"github.com/bacalhau-project/cortex/pkg/checksum"
	"github.com/bacalhau-project/cortex/pkg/downloader"
	"github.com/bacalhau-project/cortex/pkg/locator"
	"github.com/bacalhau-project/cortex/pkg/models"
	"github.com/bacalhau-project/cortex/pkg/telemetry"
	"github.com/bacalhau-project/cortex/pkg/util/closer"
)

const component = "Fetcher"

// Fetcher retrieves resources named by locators to local paths, optionally
// unpacking archives and verifying checksums. It holds configuration only,
// so one Fetcher can serve concurrent calls.
type Fetcher struct {
	downloaders    downloader.DownloaderProvider
	timeout        time.Duration
	keepCorrupted  bool
	maxExtractSize datasize.ByteSize
	progress       *progressWriter
}

func NewFetcher(params Params) (*Fetcher, error) {
	if params.Downloaders == nil {
		return nil, models.NewBaseError("fetcher requires a downloader provider").
			WithCode(models.BadRequestError).
			WithComponent(component)
	}
	if params.Timeout < 0 {
		return nil, models.NewBaseError("timeout must not be negative, got %s", params.Timeout).
			WithCode(models.BadRequestError).
			WithComponent(component)
	}
	return &Fetcher{
		downloaders:    params.Downloaders,
		timeout:        params.Timeout,
		keepCorrupted:  params.KeepCorrupted,
		maxExtractSize: params.MaxExtractSize,
		progress:       &progressWriter{w: params.Progress},
	}, nil
}

// Download retrieves loc into dest. Bytes land in a temporary file next to
// dest which is synced and renamed into place only after the transfer
// completes, so dest is either the previous content or the full new
// content, never a partial file.
func (f *Fetcher) Download(ctx context.Context, loc locator.Locator, dest string) (Result, error) {
	return f.download(ctx, loc, dest, f.timeout)
}

func (f *Fetcher) download(ctx context.Context, loc locator.Locator, dest string, timeout time.Duration) (res Result, err error) {
	ctx, span := telemetry.NewSpan(ctx, telemetry.GetTracer(), "pkg/fetch.Download",
		telemetry.WithAttributes("Locator", loc.String(), "Destination", dest))
	defer telemetry.EndSpan(span, &err)

	if loc.IsZero() {
		return Result{}, models.NewBaseError("no locator given").
			WithCode(models.BadRequestError).
			WithComponent(component)
	}
	if dest == "" {
		return Result{}, newDestinationError(dest, "no destination given", nil)
	}

	d, err := f.downloaders.Get(ctx, loc.Kind().String())
	if err != nil {
		return Result{}, err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	dir := filepath.Dir(dest)
	if err = os.MkdirAll(dir, downloader.DownloadFolderPerm); err != nil {
		return Result{}, newDestinationError(dir, "failed to create destination directory", err)
	}

	// same directory as dest so the final rename cannot cross filesystems
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*"+downloader.PartialSuffix)
	if err != nil {
		return Result{}, newDestinationError(dest, "failed to create temporary file", err)
	}
	committed := false
	defer func() {
		if !committed {
			closer.CloseAndRemove("partial download", tmp)
		}
	}()

	log.Ctx(ctx).Debug().Msgf("Fetching %s to %s", loc, dest)

	n, err := d.Fetch(ctx, loc, f.progress.wrap(tmp))
	if err != nil {
		if !models.IsBaseError(err) {
			err = downloader.NewTransferError(component, loc, nil, err)
		}
		return Result{}, err
	}

	if err = tmp.Sync(); err != nil {
		return Result{}, newDestinationError(tmp.Name(), "failed to sync downloaded file", err)
	}
	if err = tmp.Close(); err != nil {
		return Result{}, newDestinationError(tmp.Name(), "failed to close downloaded file", err)
	}
	if err = os.Chmod(tmp.Name(), downloader.DownloadFilePerm); err != nil {
		return Result{}, newDestinationError(tmp.Name(), "failed to set file mode", err)
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return Result{}, newDestinationError(dest, "failed to move download into place", err)
	}
	committed = true

	log.Ctx(ctx).Info().Msgf("Fetched %s to %s (%s)", loc, dest, datasize.ByteSize(n).HR())
	return Result{Path: dest, Size: n}, nil
}

// DownloadAndExtract downloads loc to archivePath and unpacks it into
// extractDir. An empty format is inferred from archivePath. If extraction
// fails the archive is left in place so it can be inspected or extracted
// again without another download.
func (f *Fetcher) DownloadAndExtract(
	ctx context.Context,
	loc locator.Locator,
	archivePath, extractDir string,
	format archive.Format,
) (res Result, err error) {
	ctx, span := telemetry.NewSpan(ctx, telemetry.GetTracer(), "pkg/fetch.DownloadAndExtract")
	defer telemetry.EndSpan(span, &err)

	res, err = f.Download(ctx, loc, archivePath)
	if err != nil {
		return Result{}, err
	}
	if err = f.extract(ctx, res.Path, extractDir, format); err != nil {
		return res, err
	}
	res.ExtractDir = extractDir
	return res, nil
}

func (f *Fetcher) extract(ctx context.Context, archivePath, extractDir string, format archive.Format) error {
	if extractDir == "" {
		return newDestinationError(extractDir, "no extraction directory given", nil)
	}
	return archive.Extract(ctx, archivePath, extractDir, format, archive.WithMaxEntrySize(f.maxExtractSize))
}

// VerifyIntegrity retrieves req.Locator to req.Destination and checks it
// against req.Checksum. A mismatch fails with IntegrityError and, unless
// the fetcher keeps corrupted files, removes the retrieved file. When
// req.ExtractDir is set the archive is verified first and only unpacked
// once it matches.
func (f *Fetcher) VerifyIntegrity(ctx context.Context, req Request) (res Result, err error) {
	ctx, span := telemetry.NewSpan(ctx, telemetry.GetTracer(), "pkg/fetch.VerifyIntegrity",
		telemetry.WithAttributes("Locator", req.Locator.String(), "Algorithm", string(req.Checksum.Algorithm)))
	defer telemetry.EndSpan(span, &err)

	// fail on a bad spec before any I/O
	if err = req.Checksum.Validate(); err != nil {
		return Result{}, err
	}

	timeout := f.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	res, err = f.reusable(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if !res.Skipped {
		if res, err = f.download(ctx, req.Locator, req.Destination, timeout); err != nil {
			return Result{}, err
		}
		if err = f.verify(ctx, req); err != nil {
			return Result{}, err
		}
	}

	if req.ExtractDir != "" {
		if err = f.extract(ctx, res.Path, req.ExtractDir, req.Format); err != nil {
			return res, err
		}
		res.ExtractDir = req.ExtractDir
	}
	return res, nil
}

// reusable reports a skipped result when SkipIfPresent is set and the
// destination already holds the expected bytes.
func (f *Fetcher) reusable(ctx context.Context, req Request) (Result, error) {
	if !req.SkipIfPresent {
		return Result{}, nil
	}
	info, err := os.Stat(req.Destination)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.Mode().IsRegular()) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, newDestinationError(req.Destination, "failed to inspect destination", err)
	}

	ok, err := checksum.Verify(req.Destination, req.Checksum)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		log.Ctx(ctx).Debug().Msgf("Existing %s does not match %s, fetching again", req.Destination, req.Checksum)
		return Result{}, nil
	}

	log.Ctx(ctx).Info().Msgf("Reusing verified %s", req.Destination)
	return Result{Path: req.Destination, Size: info.Size(), Skipped: true}, nil
}

func (f *Fetcher) verify(ctx context.Context, req Request) error {
	actual, err := checksum.Compute(req.Destination, req.Checksum.Algorithm)
	if err != nil {
		return err
	}
	if req.Checksum.Matches(actual) {
		log.Ctx(ctx).Debug().Msgf("Verified %s digest of %s", req.Checksum.Algorithm, req.Destination)
		return nil
	}

	integrityErr := models.NewBaseError("%s digest mismatch for %s", req.Checksum.Algorithm, req.Locator).
		WithCode(models.IntegrityError).
		WithComponent(component).
		WithDetail(models.DetailsKeyLocator, req.Locator.String()).
		WithDetail(models.DetailsKeyPath, req.Destination).
		WithDetail(models.DetailsKeyAlgorithm, string(req.Checksum.Algorithm)).
		WithDetail(models.DetailsKeyExpected, req.Checksum.Digest).
		WithDetail(models.DetailsKeyActual, actual)

	if f.keepCorrupted {
		log.Ctx(ctx).Warn().Msgf("Keeping corrupted %s for inspection", req.Destination)
		return integrityErr.WithHint("the corrupted file was kept at " + req.Destination)
	}
	if err = os.Remove(req.Destination); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Ctx(ctx).Error().Err(err).Msgf("Failed to remove corrupted %s", req.Destination)
		return integrityErr.WithHint("removing the corrupted file failed: " + err.Error())
	}
	return integrityErr
}

func newDestinationError(path, message string, err error) *models.BaseError {
	return models.NewBaseError("%s", message).
		WithCode(models.DestinationError).
		WithComponent(component).
		WithDetail(models.DetailsKeyPath, path).
		WithCause(err)
}
