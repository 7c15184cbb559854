// Package s3test provides an in-memory object store that speaks the subset
// of the S3 GetObject API used by the SDK's download manager.
package s3test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	s3helper "github.com/bacalhau-project/cortex/pkg/s3"
)

// FakeStore holds objects keyed by bucket and key.
type FakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	calls   int

	// Delay postpones every response, honouring context cancellation.
	Delay time.Duration
	// Err, when set, is returned by every GetObject call.
	Err error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{objects: make(map[string][]byte)}
}

func (f *FakeStore) Put(bucket, key string, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[bucket+"/"+key] = append([]byte(nil), content...)
}

// Calls is the number of GetObject requests served so far.
func (f *FakeStore) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeStore) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	f.calls++
	content, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	f.mu.Unlock()

	if f.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.Delay):
		}
	}
	if f.Err != nil {
		return nil, f.Err
	}
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}

	total := int64(len(content))
	start, end := int64(0), total-1
	if in.Range != nil {
		if _, err := fmt.Sscanf(aws.ToString(in.Range), "bytes=%d-%d", &start, &end); err != nil {
			return nil, fmt.Errorf("unsupported range %q: %w", aws.ToString(in.Range), err)
		}
		if end > total-1 {
			end = total - 1
		}
	}
	if start > end {
		return nil, fmt.Errorf("range %q not satisfiable for %d bytes", aws.ToString(in.Range), total)
	}

	part := content[start : end+1]
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(part)),
		ContentLength: int64(len(part)),
		ContentRange:  aws.String(fmt.Sprintf("bytes %d-%d/%d", start, end, total)),
	}, nil
}

// Resolver serves every endpoint/region from the same FakeStore.
type Resolver struct {
	Store     *FakeStore
	Installed bool
}

func NewResolver(store *FakeStore) *Resolver {
	return &Resolver{Store: store, Installed: true}
}

func (r *Resolver) IsInstalled(context.Context) bool {
	return r.Installed
}

func (r *Resolver) GetClient(endpoint, region string) *s3helper.ClientWrapper {
	return &s3helper.ClientWrapper{
		Downloader: manager.NewDownloader(r.Store),
		Endpoint:   endpoint,
		Region:     region,
	}
}

var _ manager.DownloadAPIClient = (*FakeStore)(nil)
