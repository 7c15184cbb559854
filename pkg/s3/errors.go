package s3

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/bacalhau-project/cortex/pkg/models"
)

const S3_DOWNLOADER = "S3Downloader"

func NewS3DownloaderError(code models.ErrorCode, message string) *models.BaseError {
	return models.NewBaseError("%s", message).
		WithCode(code).
		WithComponent(S3_DOWNLOADER)
}

// IsNotFound reports whether err is the service saying the bucket or key
// does not exist.
func IsNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return true
		}
	}
	return false
}

// IsAccessDenied reports whether the service rejected the credentials.
func IsAccessDenied(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "Forbidden":
			return true
		}
	}
	return false
}
