//go:build unit || !integration

package cli

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/bacalhau-project/cortex/pkg/config"
	"github.com/bacalhau-project/cortex/pkg/logger"
	"github.com/bacalhau-project/cortex/pkg/models"
)

const content = "id,sequence\n1,EVQLVESGG\n"

type RootSuite struct {
	suite.Suite
	dir    string
	source string
	digest string
}

func TestRootSuite(t *testing.T) {
	suite.Run(t, new(RootSuite))
}

func (s *RootSuite) SetupSuite() {
	logger.ConfigureTestLogging(s.T())
}

func (s *RootSuite) SetupTest() {
	config.Reset()
	s.dir = s.T().TempDir()
	s.source = filepath.Join(s.dir, "train.csv")
	s.Require().NoError(os.WriteFile(s.source, []byte(content), 0644))
	sum := sha256.Sum256([]byte(content))
	s.digest = hex.EncodeToString(sum[:])
}

func (s *RootSuite) TearDownTest() {
	config.Reset()
}

func (s *RootSuite) execute(args ...string) (string, error) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config-dir", s.dir}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (s *RootSuite) TestVersion() {
	out, err := s.execute("version", "--output", "json")
	s.Require().NoError(err)

	var info map[string]interface{}
	s.Require().NoError(json.Unmarshal([]byte(out), &info))
	s.NotEmpty(info["GitVersion"])
	s.NotEmpty(info["GOOS"])
}

func (s *RootSuite) TestLocate() {
	out, err := s.execute("locate", "my-bucket/models/weights.bin", "--output", "yaml")
	s.Require().NoError(err)
	s.Contains(out, "Kind: s3\n")
	s.Contains(out, "Bucket: my-bucket\n")
	s.Contains(out, "Key: models/weights.bin\n")

	out, err = s.execute("locate", "https://example.com/data.tar.gz")
	s.Require().NoError(err)
	s.Contains(out, "https://example.com/data.tar.gz")
}

func (s *RootSuite) TestLocateMalformed() {
	_, err := s.execute("locate", "ftp://example.com/file")
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.MalformedLocator))
}

func (s *RootSuite) TestVerify() {
	out, err := s.execute("verify", s.source, "--checksum", "sha256:"+s.digest)
	s.Require().NoError(err)
	s.Contains(out, "OK")
}

func (s *RootSuite) TestVerifyMismatch() {
	sum := sha256.Sum256([]byte("something else"))
	_, err := s.execute("verify", s.source, "--algo", "sha256", "--digest", hex.EncodeToString(sum[:]))
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.IntegrityError))
}

func (s *RootSuite) TestVerifyPrintsDigest() {
	out, err := s.execute("verify", s.source, "--algo", "SHA-256")
	s.Require().NoError(err)
	s.Contains(out, "sha256:"+s.digest)
}

func (s *RootSuite) TestVerifyUnsupportedAlgorithm() {
	_, err := s.execute("verify", s.source, "--algo", "crc32", "--digest", "abcd")
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.UnsupportedAlgorithm))
}

func (s *RootSuite) TestFetchLocal() {
	dest := filepath.Join(s.dir, "out", "train.csv")
	out, err := s.execute("fetch", s.source, dest, "--checksum", "sha256:"+s.digest)
	s.Require().NoError(err)
	s.Contains(out, dest)

	got, err := os.ReadFile(dest)
	s.Require().NoError(err)
	s.Equal(content, string(got))
}

func (s *RootSuite) TestFetchDisabledKind() {
	_, err := s.execute("fetch", s.source, filepath.Join(s.dir, "copy.csv"), "--disable-downloader", "local")
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.ConfigurationError))
}

func (s *RootSuite) TestFetchInvalidTimeout() {
	_, err := s.execute("fetch", s.source, filepath.Join(s.dir, "copy.csv"), "--timeout", "soon")
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.ConfigurationError))
}

func (s *RootSuite) TestFetchSkipNeedsChecksum() {
	_, err := s.execute("fetch", s.source, filepath.Join(s.dir, "copy.csv"), "--skip-if-present")
	s.Require().Error(err)
}

func (s *RootSuite) TestFetchMismatchLeavesCleanProgressLine() {
	wrong := strings.Repeat("0", len(s.digest))
	out, err := s.execute("fetch", s.source, filepath.Join(s.dir, "copy.csv"),
		"--checksum", "sha256:"+wrong, "--progress")
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.IntegrityError))
	if out != "" {
		s.True(strings.HasSuffix(out, "\r"), "progress line left behind: %q", out)
	}
}
