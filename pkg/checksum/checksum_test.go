//go:build unit || !integration

package checksum

import (
	"crypto/md5" //nolint:gosec
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/bacalhau-project/cortex/pkg/models"
)

type ChecksumTestSuite struct {
	suite.Suite
	dir     string
	file    string
	content []byte
}

func TestChecksumTestSuite(t *testing.T) {
	suite.Run(t, new(ChecksumTestSuite))
}

func (s *ChecksumTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.file = filepath.Join(s.dir, "weights.bin")
	s.content = []byte("the quick brown fox jumps over the lazy dog\n")
	s.Require().NoError(os.WriteFile(s.file, s.content, 0644))
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func (s *ChecksumTestSuite) TestComputeMatchesReference() {
	md5Sum := md5.Sum(s.content) //nolint:gosec
	sha512Sum := sha512.Sum512(s.content)

	for algo, expected := range map[Algorithm]string{
		SHA256: sha256Hex(s.content),
		MD5:    hex.EncodeToString(md5Sum[:]),
		SHA512: hex.EncodeToString(sha512Sum[:]),
	} {
		actual, err := Compute(s.file, algo)
		s.Require().NoError(err)
		s.Equal(expected, actual, algo)
	}
}

func (s *ChecksumTestSuite) TestComputeIsDeterministic() {
	for _, name := range Algorithms() {
		algo := Algorithm(name)
		first, err := Compute(s.file, algo)
		s.Require().NoError(err)
		second, err := Compute(s.file, algo)
		s.Require().NoError(err)
		s.Equal(first, second, name)
		s.Len(first, algo.Size()*2, name)
	}
}

func (s *ChecksumTestSuite) TestSumAgreesWithCompute() {
	fromFile, err := Compute(s.file, SHA3_256)
	s.Require().NoError(err)

	fromReader, n, err := Sum(strings.NewReader(string(s.content)), SHA3_256)
	s.Require().NoError(err)
	s.Equal(int64(len(s.content)), n)
	s.Equal(fromFile, fromReader)
}

func (s *ChecksumTestSuite) TestVerify() {
	spec, err := NewSpec("sha256", sha256Hex(s.content))
	s.Require().NoError(err)

	ok, err := Verify(s.file, spec)
	s.Require().NoError(err)
	s.True(ok)

	// digests compare case-insensitively
	spec.Digest = strings.ToUpper(spec.Digest)
	ok, err = Verify(s.file, spec)
	s.Require().NoError(err)
	s.True(ok)

	// any spelling ParseAlgorithm accepts works in a hand-built spec
	for _, name := range []Algorithm{"SHA256", "SHA-256", "sha_256"} {
		ok, err = Verify(s.file, Spec{Algorithm: name, Digest: sha256Hex(s.content)})
		s.Require().NoError(err, name)
		s.True(ok, name)
	}
}

func (s *ChecksumTestSuite) TestVerifyDetectsSingleByteChange() {
	spec, err := NewSpec("sha256", sha256Hex(s.content))
	s.Require().NoError(err)

	mutated := append([]byte{}, s.content...)
	mutated[0] ^= 0x01
	s.Require().NoError(os.WriteFile(s.file, mutated, 0644))

	ok, err := Verify(s.file, spec)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ChecksumTestSuite) TestVerifyMissingFile() {
	spec, err := NewSpec("sha256", sha256Hex(s.content))
	s.Require().NoError(err)

	_, err = Verify(filepath.Join(s.dir, "missing.bin"), spec)
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.NotFoundError))
}

func (s *ChecksumTestSuite) TestUnsupportedAlgorithm() {
	_, err := Compute(s.file, Algorithm("crc32"))
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.UnsupportedAlgorithm))

	_, err = NewSpec("whirlpool", "00")
	s.Require().Error(err)
	s.True(models.IsErrorWithCode(err, models.UnsupportedAlgorithm))
}

func TestParseAlgorithm(t *testing.T) {
	for input, expected := range map[string]Algorithm{
		"sha256":      SHA256,
		"SHA-256":     SHA256,
		"sha_256":     SHA256,
		" md5 ":       MD5,
		"sha3-512":    SHA3_512,
		"SHA3_256":    SHA3_256,
		"blake2b":     BLAKE2b512,
		"blake2b-256": BLAKE2b256,
	} {
		actual, err := ParseAlgorithm(input)
		require.NoError(t, err, input)
		require.Equal(t, expected, actual, input)
	}
}

func TestSpecValidate(t *testing.T) {
	valid := sha256Hex([]byte("x"))

	for name, tc := range map[string]struct {
		spec Spec
		code models.ErrorCode
	}{
		"too short":      {Spec{Algorithm: SHA256, Digest: valid[:10]}, models.InvalidDigest},
		"not hex":        {Spec{Algorithm: SHA256, Digest: strings.Repeat("z", 64)}, models.InvalidDigest},
		"wrong algo len": {Spec{Algorithm: MD5, Digest: valid}, models.InvalidDigest},
		"unknown algo":   {Spec{Algorithm: "rot13", Digest: valid}, models.UnsupportedAlgorithm},
		"empty":          {Spec{}, models.UnsupportedAlgorithm},
	} {
		t.Run(name, func(t *testing.T) {
			err := tc.spec.Validate()
			require.Error(t, err)
			require.True(t, models.IsErrorWithCode(err, tc.code), "got %v", err)
		})
	}

	require.NoError(t, Spec{Algorithm: SHA256, Digest: valid}.Validate())
	require.NoError(t, Spec{Algorithm: "SHA-256", Digest: valid}.Validate())
}

func TestParseSpec(t *testing.T) {
	digest := sha256Hex([]byte("x"))

	spec, err := ParseSpec("SHA-256:" + strings.ToUpper(digest))
	require.NoError(t, err)
	require.Equal(t, SHA256, spec.Algorithm)
	require.Equal(t, "sha256:"+digest, spec.String())
	require.True(t, spec.Matches(digest))

	_, err = ParseSpec(digest)
	require.True(t, models.IsErrorWithCode(err, models.BadRequestError))
}
