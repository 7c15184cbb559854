package s3

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const gcsEndpoint = "https://storage.googleapis.com"

// ClientWrapper bundles the S3 client for one endpoint/region pair with the
// concurrent downloader built on it.
type ClientWrapper struct {
	S3         *s3.Client
	Downloader *manager.Downloader
	Endpoint   string
	Region     string
}

// recalculateV4Signature re-signs requests without Accept-Encoding, which
// GCS's S3 interoperability layer excludes from the signature.
type recalculateV4Signature struct {
	next   http.RoundTripper
	signer *v4.Signer
	cfg    aws.Config
}

func (lt *recalculateV4Signature) RoundTrip(req *http.Request) (*http.Response, error) {
	val := req.Header.Get("Accept-Encoding")
	req.Header.Del("Accept-Encoding")

	// sign with the same date as the original signature
	timeDate, _ := time.Parse("20060102T150405Z", req.Header.Get("X-Amz-Date"))

	creds, err := lt.cfg.Credentials.Retrieve(req.Context())
	if err != nil {
		return nil, err
	}
	err = lt.signer.SignHTTP(req.Context(), creds, req, v4.GetPayloadHash(req.Context()), "s3", lt.cfg.Region, timeDate)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept-Encoding", val)
	return lt.next.RoundTrip(req)
}

type ClientProviderParams struct {
	AWSConfig aws.Config
	// Anonymous marks the config as using unsigned requests, which counts as
	// installed even though no keys can be retrieved.
	Anonymous bool
	// DownloadConcurrency is the number of parts fetched in parallel. Zero
	// keeps the SDK default.
	DownloadConcurrency int
}

// ClientProvider caches one ClientWrapper per endpoint/region pair.
type ClientProvider struct {
	awsConfig   aws.Config
	anonymous   bool
	concurrency int
	clients     map[string]*ClientWrapper
	clientsMu   sync.RWMutex
}

func NewClientProvider(params ClientProviderParams) *ClientProvider {
	return &ClientProvider{
		awsConfig:   params.AWSConfig,
		anonymous:   params.Anonymous,
		concurrency: params.DownloadConcurrency,
		clients:     make(map[string]*ClientWrapper),
	}
}

// IsInstalled reports whether requests can be made: either credentials
// resolve or the provider is configured for anonymous access.
func (s *ClientProvider) IsInstalled(ctx context.Context) bool {
	return s.anonymous || HasValidCredentials(ctx, s.awsConfig)
}

func (s *ClientProvider) GetConfig() aws.Config {
	return s.awsConfig
}

func (s *ClientProvider) GetClient(endpoint, region string) *ClientWrapper {
	clientIdentifier := fmt.Sprintf("%s-%s", endpoint, region)
	s.clientsMu.RLock()
	client, ok := s.clients[clientIdentifier]
	s.clientsMu.RUnlock()
	if ok {
		return client
	}

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if client, ok = s.clients[clientIdentifier]; ok {
		return client
	}

	s3Config := s.awsConfig.Copy()
	if region != "" {
		s3Config.Region = region
	}
	if endpoint != "" {
		s3Config.EndpointResolverWithOptions = staticEndpoint(endpoint, region)
	}
	if strings.HasPrefix(endpoint, gcsEndpoint) {
		s3Config.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
			func(service, resolvedRegion string, options ...any) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               endpoint,
					SigningRegion:     "auto",
					Source:            aws.EndpointSourceCustom,
					HostnameImmutable: true,
				}, nil
			})
		s3Config.Region = "auto"
		if !s.anonymous {
			s3Config.Credentials = credentials.NewStaticCredentialsProvider(
				os.Getenv("GCP_ACCESS_KEY_ID"), os.Getenv("GCP_SECRET_ACCESS_KEY"), "session")
		}
		s3Config.HTTPClient = &http.Client{
			Transport: &recalculateV4Signature{
				next:   http.DefaultTransport,
				signer: v4.NewSigner(),
				cfg:    s3Config,
			}}
	}

	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		// custom endpoints are usually MinIO-style servers without virtual hosts
		o.UsePathStyle = endpoint != ""
	})

	client = &ClientWrapper{
		S3: s3Client,
		Downloader: manager.NewDownloader(s3Client, func(d *manager.Downloader) {
			if s.concurrency > 0 {
				d.Concurrency = s.concurrency
			}
		}),
		Endpoint: endpoint,
		Region:   region,
	}
	s.clients[clientIdentifier] = client
	return client
}

func staticEndpoint(endpoint, region string) aws.EndpointResolverWithOptions {
	return aws.EndpointResolverWithOptionsFunc(
		func(service, resolvedRegion string, options ...any) (aws.Endpoint, error) {
			if region != "" {
				resolvedRegion = region
			}
			return aws.Endpoint{
				PartitionID:       "aws",
				URL:               endpoint,
				SigningRegion:     resolvedRegion,
				HostnameImmutable: true,
			}, nil
		})
}
