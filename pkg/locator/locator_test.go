//go:build unit || !integration

package locator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/bacalhau-project/cortex/pkg/models"
)

type LocatorTestSuite struct {
	suite.Suite
}

func TestLocatorTestSuite(t *testing.T) {
	suite.Run(t, new(LocatorTestSuite))
}

func (s *LocatorTestSuite) TestParseKinds() {
	for _, tc := range []struct {
		raw    string
		kind   Kind
		path   string
		url    string
		bucket string
		key    string
	}{
		{raw: "s3://my-bucket/models/weights.bin", kind: KindS3, bucket: "my-bucket", key: "models/weights.bin"},
		{raw: "my-bucket/models/weights.bin", kind: KindS3, bucket: "my-bucket", key: "models/weights.bin"},
		{raw: "S3://bucket/key", kind: KindS3, bucket: "bucket", key: "key"},
		{raw: "s3://bucket/dir/", kind: KindS3, bucket: "bucket", key: "dir/"},
		{raw: "https://example.com/data/archive.tar.gz", kind: KindURL, url: "https://example.com/data/archive.tar.gz"},
		{raw: "http://localhost:8080/x?y=z", kind: KindURL, url: "http://localhost:8080/x?y=z"},
		{raw: "file:///tmp/data.bin", kind: KindLocal, path: "/tmp/data.bin"},
		{raw: "/var/lib/data.bin", kind: KindLocal, path: "/var/lib/data.bin"},
		{raw: "./data.bin", kind: KindLocal, path: "./data.bin"},
		{raw: "../data.bin", kind: KindLocal, path: "../data.bin"},
	} {
		s.Run(tc.raw, func() {
			l, err := Parse(tc.raw)
			s.Require().NoError(err)
			s.Equal(tc.kind, l.Kind())
			s.Equal(tc.path, l.Path())
			s.Equal(tc.url, l.URL())
			s.Equal(tc.bucket, l.Bucket())
			s.Equal(tc.key, l.Key())
			s.False(l.IsZero())
		})
	}
}

func (s *LocatorTestSuite) TestRoundTrip() {
	for _, raw := range []string{
		"s3://my-bucket/models/weights.bin",
		"my-bucket/models/weights.bin",
		"bucket/a/b/c/d.txt",
		"s3://bucket/key with spaces",
		"s3://bucket/nested//double",
		"https://example.com/data.zip",
		"file:///tmp/data.bin",
		"/tmp/data.bin",
		"./relative/data.bin",
		"S3://my-bucket/models/weights.bin",
		"FILE:///tmp/data.bin",
		"my-bucket/a://b",
		"s3://my-bucket/a://b",
	} {
		l, err := Parse(raw)
		s.Require().NoError(err, raw)
		s.Equal(raw, l.String())
	}
}

func (s *LocatorTestSuite) TestSchemeSeparatorInKey() {
	l, err := Parse("my-bucket/a://b")
	s.Require().NoError(err)
	s.Equal(KindS3, l.Kind())
	s.Equal("my-bucket", l.Bucket())
	s.Equal("a://b", l.Key())

	l, err = Parse("S3://my-bucket/models/weights.bin")
	s.Require().NoError(err)
	s.Equal(KindS3, l.Kind())
	s.Equal("models/weights.bin", l.Key())
}

func (s *LocatorTestSuite) TestS3PathRoundTrip() {
	for _, raw := range []string{
		"s3://bucket/key",
		"s3://my-bucket/models/weights.bin",
		"s3://b/k/",
	} {
		bucket, key, err := ParseS3Path(raw)
		s.Require().NoError(err)
		s.Equal(raw, FormatS3Path(bucket, key))
	}
}

func (s *LocatorTestSuite) TestMalformed() {
	for _, raw := range []string{
		"",
		"s3://",
		"s3://bucket",
		"s3://bucket/",
		"s3:///key",
		"bucket-only",
		"gs://bucket/key",
		"ftp://host/file",
		"https:///no-host",
		"file://",
		"bad bucket/key",
	} {
		_, err := Parse(raw)
		s.Require().Error(err, raw)
		s.True(models.IsErrorWithCode(err, models.MalformedLocator), "%q: %v", raw, err)
	}
}

func (s *LocatorTestSuite) TestParseS3PathRejectsNonBucketForms() {
	for _, raw := range []string{"https://bucket/key", "/absolute/path"} {
		_, _, err := ParseS3Path(raw)
		s.Require().Error(err, raw)
		s.True(models.IsErrorWithCode(err, models.MalformedLocator))
	}
}

func (s *LocatorTestSuite) TestMalformedErrorCarriesLocator() {
	_, err := Parse("s3://bucket")
	s.Require().Error(err)

	var baseErr *models.BaseError
	s.Require().ErrorAs(err, &baseErr)
	s.Equal("Locator", baseErr.Component())
	s.Equal("s3://bucket", baseErr.Details()[models.DetailsKeyLocator])
}

func (s *LocatorTestSuite) TestBaseName() {
	s.Equal("weights.bin", MustParse("s3://b/models/weights.bin").BaseName())
	s.Equal("dir", MustParse("s3://b/models/dir/").BaseName())
	s.Equal("archive.tar.gz", MustParse("https://example.com/x/archive.tar.gz?sig=1").BaseName())
	s.Equal("data.bin", MustParse("./a/data.bin").BaseName())
}

func (s *LocatorTestSuite) TestNewS3() {
	l, err := NewS3("bucket", "key")
	s.Require().NoError(err)
	s.Equal("s3://bucket/key", l.String())

	_, err = NewS3("", "key")
	s.True(models.IsErrorWithCode(err, models.MalformedLocator))
	_, err = NewS3("bucket", "")
	s.True(models.IsErrorWithCode(err, models.MalformedLocator))
}

func (s *LocatorTestSuite) TestSourceRoundTrip() {
	for _, raw := range []string{
		"s3://bucket/models/weights.bin",
		"https://example.com/a.zip",
		"/tmp/a.bin",
	} {
		l := MustParse(raw)
		decoded, err := DecodeSource(l.Source().ToMap())
		s.Require().NoError(err)
		s.Equal(l.Kind(), decoded.Kind())
		s.Equal(l.Path(), decoded.Path())
		s.Equal(l.URL(), decoded.URL())
		s.Equal(l.Bucket(), decoded.Bucket())
		s.Equal(l.Key(), decoded.Key())
	}

	_, err := DecodeSource(nil)
	s.True(models.IsErrorWithCode(err, models.BadRequestError))
	_, err = DecodeSource(map[string]interface{}{"Kind": "ipfs"})
	s.True(models.IsErrorWithCode(err, models.MalformedLocator))
}
