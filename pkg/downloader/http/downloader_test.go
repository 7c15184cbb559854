//go:build unit || !integration

package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/bacalhau-project/cortex/pkg/locator"
	"github.com/bacalhau-project/cortex/pkg/logger"
	"github.com/bacalhau-project/cortex/pkg/models"
)

const payload = "EVQLVESGGGLVQPGGSLRLSCAASGFTFS"

type memTarget struct {
	buf []byte
	err error
}

func (m *memTarget) Write(p []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.buf = append(m.buf, p...)
	return len(p), nil
}

func (m *memTarget) WriteAt(p []byte, off int64) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if end := int(off) + len(p); end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	copy(m.buf[off:], p)
	return len(p), nil
}

type HTTPDownloaderSuite struct {
	suite.Suite
	server    *httptest.Server
	userAgent string
}

func TestHTTPDownloaderSuite(t *testing.T) {
	suite.Run(t, new(HTTPDownloaderSuite))
}

func (s *HTTPDownloaderSuite) SetupSuite() {
	logger.ConfigureTestLogging(s.T())
}

func (s *HTTPDownloaderSuite) SetupTest() {
	mux := http.NewServeMux()
	mux.HandleFunc("/data.bin", func(w http.ResponseWriter, r *http.Request) {
		s.userAgent = r.UserAgent()
		_, _ = w.Write([]byte(payload))
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/data.bin", http.StatusFound)
	})
	mux.HandleFunc("/truncated", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)*2))
		_, _ = w.Write([]byte(payload))
	})
	mux.HandleFunc("/unavailable", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "try later", http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/forbidden", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusForbidden)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	s.server = httptest.NewServer(mux)
	s.T().Cleanup(s.server.Close)
}

func (s *HTTPDownloaderSuite) loc(path string) locator.Locator {
	return locator.MustParse(s.server.URL + path)
}

func (s *HTTPDownloaderSuite) TestFetch() {
	target := &memTarget{}
	d := NewDownloader(DownloaderParams{UserAgent: "cortex-test"})

	n, err := d.Fetch(context.Background(), s.loc("/data.bin"), target)
	s.Require().NoError(err)
	s.Equal(int64(len(payload)), n)
	s.Equal(payload, string(target.buf))
	s.Equal("cortex-test", s.userAgent)
}

func (s *HTTPDownloaderSuite) TestFetchFollowsRedirect() {
	target := &memTarget{}
	_, err := NewDownloader(DownloaderParams{}).Fetch(context.Background(), s.loc("/moved"), target)
	s.Require().NoError(err)
	s.Equal(payload, string(target.buf))
}

func (s *HTTPDownloaderSuite) TestFetchNotFound() {
	_, err := NewDownloader(DownloaderParams{}).Fetch(context.Background(), s.loc("/missing"), &memTarget{})
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.NotFoundError))
}

func (s *HTTPDownloaderSuite) TestFetchServerError() {
	_, err := NewDownloader(DownloaderParams{}).Fetch(context.Background(), s.loc("/unavailable"), &memTarget{})
	s.Require().Error(err)

	var baseErr *models.BaseError
	s.Require().True(errors.As(err, &baseErr))
	s.Equal(models.NetworkFailure, baseErr.Code())
	s.True(baseErr.Retryable())
	s.Equal("503 Service Unavailable", baseErr.Details()[models.DetailsKeyStatus])
}

func (s *HTTPDownloaderSuite) TestFetchClientErrorIsNotRetryable() {
	_, err := NewDownloader(DownloaderParams{}).Fetch(context.Background(), s.loc("/forbidden"), &memTarget{})

	var baseErr *models.BaseError
	s.Require().True(errors.As(err, &baseErr))
	s.Equal(models.NetworkFailure, baseErr.Code())
	s.False(baseErr.Retryable())
}

func (s *HTTPDownloaderSuite) TestFetchTruncated() {
	_, err := NewDownloader(DownloaderParams{}).Fetch(context.Background(), s.loc("/truncated"), &memTarget{})
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.NetworkFailure), "got %v", err)
}

func (s *HTTPDownloaderSuite) TestFetchTimeout() {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewDownloader(DownloaderParams{}).Fetch(ctx, s.loc("/slow"), &memTarget{})
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.TimeoutError), "got %v", err)
}

func (s *HTTPDownloaderSuite) TestFetchWriteFailure() {
	_, err := NewDownloader(DownloaderParams{}).Fetch(context.Background(), s.loc("/data.bin"),
		&memTarget{err: errors.New("read-only file system")})
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.DestinationError))
}

func (s *HTTPDownloaderSuite) TestFetchConnectionRefused() {
	url := s.server.URL
	s.server.Close()

	_, err := NewDownloader(DownloaderParams{}).Fetch(context.Background(), locator.MustParse(url+"/data.bin"), &memTarget{})
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.NetworkFailure))
}
