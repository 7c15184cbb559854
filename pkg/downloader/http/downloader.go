package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/bacalhau-project/cortex/pkg/downloader"
	"github.com/bacalhau-project/cortex/pkg/locator"
	"github.com/bacalhau-project/cortex/pkg/models"
	"github.com/bacalhau-project/cortex/pkg/telemetry"
	"github.com/bacalhau-project/cortex/pkg/util/closer"
)

const component = "HTTPDownloader"

type DownloaderParams struct {
	// Client is used as is when set; tests point it at an httptest server.
	Client    *resty.Client
	UserAgent string
	// RequestTimeout bounds a single request. The caller's context still
	// applies on top of it.
	RequestTimeout time.Duration
}

// Downloader streams http(s) resources with resty.
type Downloader struct {
	client *resty.Client
}

func NewDownloader(params DownloaderParams) *Downloader {
	client := params.Client
	if client == nil {
		client = resty.New()
	}
	client.SetLogger(restyLogger{})
	// redirects are common for dataset mirrors
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	if params.UserAgent != "" {
		client.SetHeader("User-Agent", params.UserAgent)
	}
	if params.RequestTimeout > 0 {
		client.SetTimeout(params.RequestTimeout)
	}
	return &Downloader{client: client}
}

func (d *Downloader) IsInstalled(context.Context) (bool, error) {
	return true, nil
}

func (d *Downloader) Fetch(ctx context.Context, loc locator.Locator, w downloader.Target) (n int64, err error) {
	ctx, span := telemetry.NewSpan(ctx, telemetry.GetTracer(), "pkg/downloader/http.Fetch",
		telemetry.WithAttributes("Locator", loc.String()))
	defer telemetry.EndSpan(span, &err)

	if loc.Kind() != locator.KindURL {
		return 0, models.NewBaseError("http downloader cannot fetch %s locators", loc.Kind()).
			WithCode(models.BadRequestError).
			WithComponent(component)
	}

	log.Ctx(ctx).Debug().Msgf("Beginning get %s", loc.URL())

	// stream the body instead of buffering it in memory
	resp, err := d.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(loc.URL())
	if err != nil {
		return 0, downloader.NewTransferError(component, loc, nil, err)
	}
	body := resp.RawBody()
	defer closer.CloseWithLogOnError("response body", body)

	if resp.StatusCode() != http.StatusOK {
		return 0, newStatusError(loc, resp)
	}

	target := downloader.NewTrackingTarget(w)
	n, err = io.Copy(target, body)
	if err != nil {
		return n, downloader.NewTransferError(component, loc, target, err)
	}

	if expected := resp.RawResponse.ContentLength; expected >= 0 && n != expected {
		return n, downloader.NewNetworkError(component, loc,
			fmt.Errorf("transfer ended after %d of %d bytes", n, expected))
	}

	log.Ctx(ctx).Debug().Msgf("Wrote %d bytes from %s", n, loc.URL())
	return n, nil
}

func newStatusError(loc locator.Locator, resp *resty.Response) error {
	code := models.NetworkFailure
	if resp.StatusCode() == http.StatusNotFound || resp.StatusCode() == http.StatusGone {
		code = models.NotFoundError
	}
	err := models.NewBaseError("non-200 response from %s: %s", loc, resp.Status()).
		WithCode(code).
		WithComponent(component).
		WithDetail(models.DetailsKeyLocator, loc.String()).
		WithDetail(models.DetailsKeyStatus, resp.Status())
	if resp.StatusCode() >= http.StatusInternalServerError || resp.StatusCode() == http.StatusTooManyRequests {
		err = err.WithRetryable()
	}
	return err
}

// restyLogger forwards resty's internal messages to zerolog
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) {
	log.Error().Msgf(format, v...)
}

func (restyLogger) Warnf(format string, v ...interface{}) {
	log.Warn().Msgf(format, v...)
}

func (restyLogger) Debugf(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

// compile time check that we implement the interface
var _ downloader.Downloader = (*Downloader)(nil)
