//go:build unit || !integration

package s3

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/suite"

	"github.com/bacalhau-project/cortex/pkg/locator"
	"github.com/bacalhau-project/cortex/pkg/logger"
	"github.com/bacalhau-project/cortex/pkg/models"
	"github.com/bacalhau-project/cortex/pkg/s3/s3test"
)

type S3DownloaderSuite struct {
	suite.Suite
	store      *s3test.FakeStore
	resolver   *s3test.Resolver
	downloader *Downloader
	dir        string
}

func TestS3DownloaderSuite(t *testing.T) {
	suite.Run(t, new(S3DownloaderSuite))
}

func (s *S3DownloaderSuite) SetupSuite() {
	logger.ConfigureTestLogging(s.T())
}

func (s *S3DownloaderSuite) SetupTest() {
	s.store = s3test.NewFakeStore()
	s.store.Put("my-bucket", "models/weights.bin", []byte("pretend these are model weights"))
	s.resolver = s3test.NewResolver(s.store)
	s.downloader = NewDownloader(DownloaderParams{ClientProvider: s.resolver, Region: "us-east-1"})
	s.dir = s.T().TempDir()
}

func (s *S3DownloaderSuite) tempFile() *os.File {
	f, err := os.Create(filepath.Join(s.dir, "target"))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = f.Close() })
	return f
}

func (s *S3DownloaderSuite) TestFetch() {
	for _, raw := range []string{"my-bucket/models/weights.bin", "s3://my-bucket/models/weights.bin"} {
		f := s.tempFile()
		n, err := s.downloader.Fetch(context.Background(), locator.MustParse(raw), f)
		s.Require().NoError(err, raw)
		s.Equal(int64(31), n)

		content, err := os.ReadFile(f.Name())
		s.Require().NoError(err)
		s.Equal("pretend these are model weights", string(content))
	}
}

func (s *S3DownloaderSuite) TestIsInstalled() {
	installed, err := s.downloader.IsInstalled(context.Background())
	s.Require().NoError(err)
	s.True(installed)

	s.resolver.Installed = false
	installed, err = s.downloader.IsInstalled(context.Background())
	s.Require().NoError(err)
	s.False(installed)
}

func (s *S3DownloaderSuite) TestFetchMissingKey() {
	_, err := s.downloader.Fetch(context.Background(), locator.MustParse("my-bucket/models/missing.bin"), s.tempFile())
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.NotFoundError), "got %v", err)
}

func (s *S3DownloaderSuite) TestFetchAccessDenied() {
	s.store.Err = &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"}
	_, err := s.downloader.Fetch(context.Background(), locator.MustParse("my-bucket/models/weights.bin"), s.tempFile())
	s.Require().Error(err)

	var baseErr *models.BaseError
	s.Require().True(errors.As(err, &baseErr))
	s.Equal(models.NetworkFailure, baseErr.Code())
	s.NotEmpty(baseErr.Hint())
}

func (s *S3DownloaderSuite) TestFetchTransportFailure() {
	s.store.Err = errors.New("connection reset by peer")
	_, err := s.downloader.Fetch(context.Background(), locator.MustParse("my-bucket/models/weights.bin"), s.tempFile())
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.NetworkFailure))
}

func (s *S3DownloaderSuite) TestFetchTimeout() {
	s.store.Delay = 2 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.downloader.Fetch(ctx, locator.MustParse("my-bucket/models/weights.bin"), s.tempFile())
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.TimeoutError), "got %v", err)
}

func (s *S3DownloaderSuite) TestFetchWrongKind() {
	_, err := s.downloader.Fetch(context.Background(), locator.MustParse("https://example.com/x"), s.tempFile())
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.BadRequestError))
}
