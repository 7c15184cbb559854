package checksum

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/bacalhau-project/cortex/pkg/models"
)

// Spec is an expected digest together with the algorithm that produced it.
type Spec struct {
	Algorithm Algorithm
	Digest    string
}

// NewSpec parses the algorithm name and validates the digest against it.
func NewSpec(algorithm, digest string) (Spec, error) {
	algo, err := ParseAlgorithm(algorithm)
	if err != nil {
		return Spec{}, err
	}
	s := Spec{Algorithm: algo, Digest: strings.TrimSpace(digest)}
	return s, s.Validate()
}

// ParseSpec accepts the "<algorithm>:<digest>" shorthand, e.g.
// "sha256:e3b0c442...".
func ParseSpec(s string) (Spec, error) {
	algo, digest, ok := strings.Cut(s, ":")
	if !ok {
		return Spec{}, models.NewBaseError("checksum %q is not in <algorithm>:<digest> form", s).
			WithCode(models.BadRequestError).
			WithComponent(component)
	}
	return NewSpec(algo, digest)
}

// IsZero reports whether no checksum was requested.
func (s Spec) IsZero() bool {
	return s.Algorithm == "" && s.Digest == ""
}

// Validate checks that the algorithm is known, under any spelling
// ParseAlgorithm accepts, and that the digest is hex of the algorithm's
// output length.
func (s Spec) Validate() error {
	algo, err := ParseAlgorithm(string(s.Algorithm))
	if err != nil {
		return err
	}

	size := algo.Size()
	if len(s.Digest) != hex.EncodedLen(size) {
		return s.invalidDigest(fmt.Sprintf("expected %d hex characters for %s, got %d",
			hex.EncodedLen(size), algo, len(s.Digest)))
	}
	if _, err := hex.DecodeString(s.Digest); err != nil {
		return s.invalidDigest("digest is not hexadecimal")
	}
	return nil
}

func (s Spec) invalidDigest(reason string) error {
	return models.NewBaseError("invalid %s digest %q: %s", s.Algorithm, s.Digest, reason).
		WithCode(models.InvalidDigest).
		WithComponent(component).
		WithDetail(models.DetailsKeyAlgorithm, string(s.Algorithm)).
		WithDetail(models.DetailsKeyExpected, s.Digest)
}

// Matches compares a computed hex digest with the expected one, ignoring case.
func (s Spec) Matches(actual string) bool {
	return strings.EqualFold(strings.TrimSpace(actual), s.Digest)
}

func (s Spec) String() string {
	return string(s.Algorithm) + ":" + strings.ToLower(s.Digest)
}
