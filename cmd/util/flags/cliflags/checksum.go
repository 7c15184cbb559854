package cliflags

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/bacalhau-project/cortex/pkg/checksum"
)

// ChecksumOptions collects an expected digest given either as --algo and
// --digest or as a single --checksum algo:digest.
type ChecksumOptions struct {
	Algorithm string
	Digest    string
	Checksum  string
}

func NewChecksumOptions() *ChecksumOptions {
	return &ChecksumOptions{Algorithm: string(checksum.SHA256)}
}

func ChecksumFlags(opts *ChecksumOptions) *pflag.FlagSet {
	flags := pflag.NewFlagSet("Checksum", pflag.ContinueOnError)
	flags.StringVar(&opts.Algorithm, "algo", opts.Algorithm,
		"Digest algorithm, one of: "+strings.Join(checksum.Algorithms(), ", "))
	flags.StringVar(&opts.Digest, "digest", opts.Digest, "Expected hex digest")
	flags.StringVar(&opts.Checksum, "checksum", opts.Checksum,
		`Expected digest as "<algo>:<hex>", instead of --algo and --digest`)
	return flags
}

// Spec returns the requested checksum, or a zero Spec when no digest was
// given.
func (o *ChecksumOptions) Spec() (checksum.Spec, error) {
	if o.Checksum != "" {
		if o.Digest != "" {
			return checksum.Spec{}, errors.New("--checksum and --digest are mutually exclusive")
		}
		spec, err := checksum.ParseSpec(o.Checksum)
		return spec, errors.Wrap(err, "invalid --checksum")
	}
	if o.Digest == "" {
		return checksum.Spec{}, nil
	}
	spec, err := checksum.NewSpec(o.Algorithm, o.Digest)
	return spec, errors.Wrap(err, "invalid --digest")
}

// ParsedAlgorithm parses --algo on its own, for commands that only compute.
func (o *ChecksumOptions) ParsedAlgorithm() (checksum.Algorithm, error) {
	algo, err := checksum.ParseAlgorithm(o.Algorithm)
	return algo, errors.Wrap(err, "invalid --algo")
}
