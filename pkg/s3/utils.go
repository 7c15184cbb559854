package s3

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog/log"
)

type AWSConfigParams struct {
	// Region overrides the region from the environment and shared config.
	Region string
	// Anonymous sends unsigned requests, for public buckets.
	Anonymous bool
}

// DefaultAWSConfig loads the SDK's default credential chain and shared
// config, with the overrides in params applied.
func DefaultAWSConfig(ctx context.Context, params AWSConfigParams) (aws.Config, error) {
	// a long IMDS TTL avoids querying the metadata service on every run
	if _, ok := os.LookupEnv("AWS_EC2_METADATA_TTL"); !ok {
		if err := os.Setenv("AWS_EC2_METADATA_TTL", "3600"); err != nil {
			return aws.Config{}, err
		}
	}

	var optFns []func(*config.LoadOptions) error
	if params.Region != "" {
		optFns = append(optFns, config.WithRegion(params.Region))
	}
	if params.Anonymous {
		optFns = append(optFns, config.WithCredentialsProvider(aws.AnonymousCredentials{}))
	}
	return config.LoadDefaultConfig(ctx, optFns...)
}

// HasValidCredentials returns true if the AWS config has valid credentials.
func HasValidCredentials(ctx context.Context, config aws.Config) bool {
	if config.Credentials == nil {
		return false
	}
	credentials, err := config.Credentials.Retrieve(ctx)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("Failed to check if we have valid AWS credentials")
		return false
	}
	return credentials.HasKeys()
}
