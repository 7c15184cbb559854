package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/bacalhau-project/cortex/pkg/downloader"
	"github.com/bacalhau-project/cortex/pkg/locator"
	"github.com/bacalhau-project/cortex/pkg/models"
	s3helper "github.com/bacalhau-project/cortex/pkg/s3"
	"github.com/bacalhau-project/cortex/pkg/telemetry"
)

// ClientResolver hands out S3 clients per endpoint and region.
// *s3helper.ClientProvider is the production implementation.
type ClientResolver interface {
	IsInstalled(ctx context.Context) bool
	GetClient(endpoint, region string) *s3helper.ClientWrapper
}

type DownloaderParams struct {
	ClientProvider ClientResolver
	// Endpoint overrides the AWS endpoint, e.g. for MinIO. Empty uses AWS.
	Endpoint string
	Region   string
}

// Downloader fetches objects with the SDK's concurrent range downloader.
type Downloader struct {
	clients  ClientResolver
	endpoint string
	region   string
}

func NewDownloader(params DownloaderParams) *Downloader {
	return &Downloader{
		clients:  params.ClientProvider,
		endpoint: params.Endpoint,
		region:   params.Region,
	}
}

func (d *Downloader) IsInstalled(ctx context.Context) (bool, error) {
	return d.clients.IsInstalled(ctx), nil
}

func (d *Downloader) Fetch(ctx context.Context, loc locator.Locator, w downloader.Target) (n int64, err error) {
	ctx, span := telemetry.NewSpan(ctx, telemetry.GetTracer(), "pkg/downloader/s3.Fetch",
		telemetry.WithAttributes("Bucket", loc.Bucket(), "Key", loc.Key()))
	defer telemetry.EndSpan(span, &err)

	if loc.Kind() != locator.KindS3 {
		return 0, s3helper.NewS3DownloaderError(models.BadRequestError,
			"s3 downloader cannot fetch "+loc.Kind().String()+" locators")
	}

	client := d.clients.GetClient(d.endpoint, d.region)
	log.Ctx(ctx).Debug().Msgf("Downloading s3 object %s from bucket %s", loc.Key(), loc.Bucket())

	target := downloader.NewTrackingTarget(w)
	n, err = client.Downloader.Download(ctx, target, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket()),
		Key:    aws.String(loc.Key()),
	})
	if err != nil {
		return n, d.classify(loc, target, err)
	}

	log.Ctx(ctx).Debug().Msgf("Downloaded %d bytes from %s", n, loc)
	return n, nil
}

func (d *Downloader) classify(loc locator.Locator, target *downloader.TrackingTarget, err error) error {
	if target.Err() == nil {
		switch {
		case s3helper.IsNotFound(err):
			return downloader.NewNotFoundError(s3helper.S3_DOWNLOADER, loc, err)
		case s3helper.IsAccessDenied(err):
			return models.NewBaseError("access denied to %s", loc).
				WithCode(models.NetworkFailure).
				WithComponent(s3helper.S3_DOWNLOADER).
				WithHint("check the AWS credentials, or set S3.Anonymous for public buckets").
				WithDetail(models.DetailsKeyLocator, loc.String()).
				WithCause(err)
		}
	}
	return downloader.NewTransferError(s3helper.S3_DOWNLOADER, loc, target, err)
}

// compile time check that we implement the interface
var _ downloader.Downloader = (*Downloader)(nil)
