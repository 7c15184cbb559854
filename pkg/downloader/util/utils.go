package util

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/bacalhau-project/cortex/pkg/config/types"
	"github.com/bacalhau-project/cortex/pkg/downloader"
	"github.com/bacalhau-project/cortex/pkg/downloader/http"
	"github.com/bacalhau-project/cortex/pkg/downloader/local"
	s3downloader "github.com/bacalhau-project/cortex/pkg/downloader/s3"
	"github.com/bacalhau-project/cortex/pkg/lib/provider"
	"github.com/bacalhau-project/cortex/pkg/locator"
	"github.com/bacalhau-project/cortex/pkg/s3"
)

// NewStandardDownloaders wires a downloader for every locator kind, minus
// the kinds disabled in cfg. The AWS config is loaded once up front; a
// failure there leaves the s3 downloader uninstalled rather than failing
// local and URL fetches.
func NewStandardDownloaders(ctx context.Context, cfg types.CortexConfig) downloader.DownloaderProvider {
	return NewDownloaders(cfg, newS3ClientProvider(ctx, cfg.S3))
}

// NewDownloaders is NewStandardDownloaders with the S3 client source
// supplied by the caller.
func NewDownloaders(cfg types.CortexConfig, clients s3downloader.ClientResolver) downloader.DownloaderProvider {
	downloaders := map[string]downloader.Downloader{
		locator.KindLocal.String(): local.NewDownloader(),
		locator.KindURL.String(): http.NewDownloader(http.DownloaderParams{
			UserAgent:      cfg.Fetch.UserAgent,
			RequestTimeout: cfg.Downloaders.HTTPRequestTimeout.AsTimeDuration(),
		}),
		locator.KindS3.String(): s3downloader.NewDownloader(s3downloader.DownloaderParams{
			ClientProvider: clients,
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
		}),
	}

	return provider.NewConfiguredProvider[downloader.Downloader](
		provider.NewMappedProvider(downloaders),
		cfg.Downloaders.Disabled,
	)
}

func newS3ClientProvider(ctx context.Context, cfg types.S3Config) s3downloader.ClientResolver {
	awsConfig, err := s3.DefaultAWSConfig(ctx, s3.AWSConfigParams{
		Region:    cfg.Region,
		Anonymous: cfg.Anonymous,
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Failed to load AWS configuration, s3 locators will not be available")
		return unavailableS3{}
	}
	return s3.NewClientProvider(s3.ClientProviderParams{
		AWSConfig:           awsConfig,
		Anonymous:           cfg.Anonymous,
		DownloadConcurrency: cfg.Concurrency,
	})
}

// unavailableS3 reports the s3 downloader as not installed when the AWS
// configuration could not be loaded.
type unavailableS3 struct{}

func (unavailableS3) IsInstalled(context.Context) bool {
	return false
}

func (unavailableS3) GetClient(string, string) *s3.ClientWrapper {
	return nil
}
