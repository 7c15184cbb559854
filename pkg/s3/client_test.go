//go:build unit || !integration

package s3

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClientCachesPerEndpointAndRegion(t *testing.T) {
	provider := NewClientProvider(ClientProviderParams{
		AWSConfig: aws.Config{Region: "us-east-1"},
	})

	first := provider.GetClient("http://localhost:9000", "eu-west-1")
	require.NotNil(t, first.S3)
	require.NotNil(t, first.Downloader)
	assert.Equal(t, "http://localhost:9000", first.Endpoint)
	assert.Equal(t, "eu-west-1", first.Region)

	assert.Same(t, first, provider.GetClient("http://localhost:9000", "eu-west-1"))
	assert.NotSame(t, first, provider.GetClient("", "eu-west-1"))
}

func TestDownloaderConcurrency(t *testing.T) {
	provider := NewClientProvider(ClientProviderParams{
		AWSConfig:           aws.Config{Region: "us-east-1"},
		DownloadConcurrency: 2,
	})
	assert.Equal(t, 2, provider.GetClient("", "").Downloader.Concurrency)
}

func TestIsInstalled(t *testing.T) {
	ctx := context.Background()

	withKeys := NewClientProvider(ClientProviderParams{AWSConfig: aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider("key", "secret", ""),
	}})
	assert.True(t, withKeys.IsInstalled(ctx))

	noCreds := NewClientProvider(ClientProviderParams{AWSConfig: aws.Config{}})
	assert.False(t, noCreds.IsInstalled(ctx))

	anonymous := NewClientProvider(ClientProviderParams{
		AWSConfig: aws.Config{Credentials: aws.AnonymousCredentials{}},
		Anonymous: true,
	})
	assert.True(t, anonymous.IsInstalled(ctx))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&types.NoSuchKey{}))
	assert.True(t, IsNotFound(fmt.Errorf("get object: %w", &types.NoSuchBucket{})))
	assert.True(t, IsNotFound(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.False(t, IsNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, IsNotFound(errors.New("connection reset")))
}

func TestIsAccessDenied(t *testing.T) {
	assert.True(t, IsAccessDenied(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, IsAccessDenied(&types.NoSuchKey{}))
}
