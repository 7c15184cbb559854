package locator

import (
	"net/url"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/bacalhau-project/cortex/pkg/models"
)

const (
	SchemeS3    = "s3"
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
	SchemeFile  = "file"

	schemeSeparator = "://"
	keySeparator    = "/"
)

const component = "Locator"

// Kind identifies which transport a Locator resolves to.
type Kind int

const (
	KindUnknown Kind = iota
	KindLocal
	KindURL
	KindS3
)

func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindURL:
		return "url"
	case KindS3:
		return "s3"
	default:
		return "unknown"
	}
}

// Locator identifies where a resource lives. It is one of a local path, an
// http(s) URL or an object-store bucket/key pair, decided once by Parse.
type Locator struct {
	kind Kind

	// KindLocal
	path string

	// KindURL
	url string

	// KindS3
	bucket string
	key    string

	// scheme as written in the original string, empty when it had none, so
	// String can reproduce it
	scheme string
}

// Parse resolves a locator string:
//   - s3://bucket/key is an object-store locator
//   - http:// and https:// are URLs
//   - file://path, absolute paths and ./ or ../ relative paths are local
//   - any other scheme-less string is a bucket/key locator
//
// Parse performs no I/O.
func Parse(raw string) (Locator, error) {
	if raw == "" {
		return Locator{}, newMalformedError(raw, "locator cannot be empty")
	}

	if scheme, rest, ok := cutScheme(raw); ok {
		switch strings.ToLower(scheme) {
		case SchemeS3:
			return parseS3(raw)
		case SchemeHTTP, SchemeHTTPS:
			return parseURL(raw)
		case SchemeFile:
			if rest == "" {
				return Locator{}, newMalformedError(raw, "file locator has no path")
			}
			return Locator{kind: KindLocal, path: rest, scheme: scheme}, nil
		default:
			return Locator{}, newMalformedError(raw, "unsupported scheme %q", scheme)
		}
	}

	if isLocalPath(raw) {
		return Locator{kind: KindLocal, path: raw}, nil
	}
	return parseS3(raw)
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(raw string) Locator {
	l, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return l
}

// NewLocal returns a locator for a path on the local filesystem.
func NewLocal(path string) (Locator, error) {
	if path == "" {
		return Locator{}, newMalformedError(path, "local path cannot be empty")
	}
	return Locator{kind: KindLocal, path: path}, nil
}

// NewS3 returns an s3:// locator for the given bucket and key.
func NewS3(bucket, key string) (Locator, error) {
	if err := validateBucketKey(FormatS3Path(bucket, key), bucket, key); err != nil {
		return Locator{}, err
	}
	return Locator{kind: KindS3, bucket: bucket, key: key, scheme: SchemeS3}, nil
}

// ParseS3Path splits a bucket/key locator, with or without the s3:// prefix,
// into its bucket and key. The key is everything after the first separator.
func ParseS3Path(raw string) (bucket, key string, err error) {
	l, err := parseS3(raw)
	if err != nil {
		return "", "", err
	}
	return l.bucket, l.key, nil
}

// FormatS3Path is the inverse of ParseS3Path for the prefixed form.
func FormatS3Path(bucket, key string) string {
	return SchemeS3 + schemeSeparator + bucket + keySeparator + key
}

func parseS3(raw string) (Locator, error) {
	rest := raw
	scheme := ""
	if s, r, ok := cutScheme(raw); ok {
		if !strings.EqualFold(s, SchemeS3) {
			return Locator{}, newMalformedError(raw, "expected %s%s scheme, got %q", SchemeS3, schemeSeparator, s)
		}
		rest = r
		scheme = s
	}

	bucket, key, ok := strings.Cut(rest, keySeparator)
	if !ok {
		return Locator{}, newMalformedError(raw, "missing %q separator between bucket and key", keySeparator)
	}
	if err := validateBucketKey(raw, bucket, key); err != nil {
		return Locator{}, err
	}
	return Locator{kind: KindS3, bucket: bucket, key: key, scheme: scheme}, nil
}

func validateBucketKey(raw, bucket, key string) error {
	if bucket == "" {
		return newMalformedError(raw, "bucket cannot be empty")
	}
	if strings.IndexFunc(bucket, unicode.IsSpace) >= 0 || strings.Contains(bucket, keySeparator) {
		return newMalformedError(raw, "invalid bucket name %q", bucket)
	}
	if key == "" {
		return newMalformedError(raw, "key cannot be empty")
	}
	return nil
}

func parseURL(raw string) (Locator, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Locator{}, newMalformedError(raw, "invalid URL").WithCause(err)
	}
	if u.Host == "" {
		return Locator{}, newMalformedError(raw, "URL has no host")
	}
	return Locator{kind: KindURL, url: raw, scheme: u.Scheme}, nil
}

// cutScheme splits off a leading "<scheme>://". A prefix containing the key
// separator is part of a bucket/key or path, not a scheme.
func cutScheme(raw string) (scheme, rest string, ok bool) {
	scheme, rest, ok = strings.Cut(raw, schemeSeparator)
	if !ok || strings.Contains(scheme, keySeparator) {
		return "", raw, false
	}
	return scheme, rest, true
}

func isLocalPath(raw string) bool {
	if filepath.IsAbs(raw) || strings.HasPrefix(raw, "/") {
		return true
	}
	for _, prefix := range []string{"./", "../", "." + string(filepath.Separator), ".." + string(filepath.Separator)} {
		if strings.HasPrefix(raw, prefix) {
			return true
		}
	}
	return raw == "." || raw == ".."
}

func newMalformedError(raw string, format string, a ...any) *models.BaseError {
	return models.NewBaseError("malformed locator %q: "+format, append([]any{raw}, a...)...).
		WithCode(models.MalformedLocator).
		WithComponent(component).
		WithDetail(models.DetailsKeyLocator, raw)
}

func (l Locator) Kind() Kind { return l.kind }

// Path is the filesystem path of a local locator.
func (l Locator) Path() string { return l.path }

// URL is the http(s) URL of a URL locator.
func (l Locator) URL() string { return l.url }

func (l Locator) Bucket() string { return l.bucket }

func (l Locator) Key() string { return l.key }

// IsZero reports whether l was never parsed.
func (l Locator) IsZero() bool { return l.kind == KindUnknown }

// String reconstructs the locator in the form it was parsed from.
func (l Locator) String() string {
	switch l.kind {
	case KindLocal:
		if l.scheme != "" {
			return l.scheme + schemeSeparator + l.path
		}
		return l.path
	case KindURL:
		return l.url
	case KindS3:
		if l.scheme != "" {
			return l.scheme + schemeSeparator + l.bucket + keySeparator + l.key
		}
		return l.bucket + keySeparator + l.key
	default:
		return ""
	}
}

// BaseName is the last element of the resource's path, usable as a default
// local file name.
func (l Locator) BaseName() string {
	switch l.kind {
	case KindLocal:
		return filepath.Base(l.path)
	case KindS3:
		return baseOf(l.key)
	case KindURL:
		if u, err := url.Parse(l.url); err == nil {
			return baseOf(u.Path)
		}
	}
	return ""
}

func baseOf(p string) string {
	p = strings.TrimRight(p, keySeparator)
	if i := strings.LastIndex(p, keySeparator); i >= 0 {
		p = p[i+1:]
	}
	return p
}
