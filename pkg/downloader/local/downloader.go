package local

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/bacalhau-project/cortex/pkg/downloader"
	"github.com/bacalhau-project/cortex/pkg/locator"
	"github.com/bacalhau-project/cortex/pkg/models"
	"github.com/bacalhau-project/cortex/pkg/telemetry"
	"github.com/bacalhau-project/cortex/pkg/util/closer"
)

const component = "LocalDownloader"

// Downloader copies files that are already on the local filesystem.
type Downloader struct{}

func NewDownloader() *Downloader {
	return &Downloader{}
}

func (d *Downloader) IsInstalled(context.Context) (bool, error) {
	return true, nil
}

func (d *Downloader) Fetch(ctx context.Context, loc locator.Locator, w downloader.Target) (n int64, err error) {
	ctx, span := telemetry.NewSpan(ctx, telemetry.GetTracer(), "pkg/downloader/local.Fetch",
		telemetry.WithAttributes("Locator", loc.String()))
	defer telemetry.EndSpan(span, &err)

	if loc.Kind() != locator.KindLocal {
		return 0, models.NewBaseError("local downloader cannot fetch %s locators", loc.Kind()).
			WithCode(models.BadRequestError).
			WithComponent(component)
	}

	source, err := os.Open(loc.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, downloader.NewNotFoundError(component, loc, err)
		}
		return 0, models.NewBaseError("failed to open %s", loc.Path()).
			WithCode(models.InternalError).
			WithComponent(component).
			WithDetail(models.DetailsKeyPath, loc.Path()).
			WithCause(err)
	}
	defer closer.CloseWithLogOnError("local source", source)

	if info, statErr := source.Stat(); statErr == nil && info.IsDir() {
		return 0, models.NewBaseError("%s is a directory", loc.Path()).
			WithCode(models.BadRequestError).
			WithComponent(component).
			WithDetail(models.DetailsKeyPath, loc.Path())
	}

	target := downloader.NewTrackingTarget(w)
	n, err = io.Copy(target, &contextReader{ctx: ctx, r: source})
	if err != nil {
		return n, downloader.NewTransferError(component, loc, target, err)
	}

	log.Ctx(ctx).Debug().Msgf("Copied %d bytes from %s", n, loc.Path())
	return n, nil
}

// contextReader stops a long copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// compile time check that we implement the interface
var _ downloader.Downloader = (*Downloader)(nil)
