package verify

import (
	"github.com/spf13/cobra"

	"github.com/bacalhau-project/cortex/cmd/util/flags/cliflags"
	"github.com/bacalhau-project/cortex/pkg/checksum"
	"github.com/bacalhau-project/cortex/pkg/models"
)

type VerifyOptions struct {
	Checksum *cliflags.ChecksumOptions
}

func NewVerifyOptions() *VerifyOptions {
	return &VerifyOptions{Checksum: cliflags.NewChecksumOptions()}
}

func NewCmd() *cobra.Command {
	o := NewVerifyOptions()

	verifyCmd := &cobra.Command{
		Use:   "verify <path>",
		Short: "Check a local file against an expected digest, or print its digest",
		Long: `Check a local file against an expected digest given with --digest or
--checksum. Exits with status 1 when the file does not match. Without an
expected digest the file's digest is printed instead.`,
		Example: `  cortex verify weights.bin --algo sha256 --digest <hex>
  cortex verify weights.bin --algo blake2b-256`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, args[0])
		},
	}
	verifyCmd.Flags().AddFlagSet(cliflags.ChecksumFlags(o.Checksum))
	return verifyCmd
}

func (o *VerifyOptions) Run(cmd *cobra.Command, path string) error {
	spec, err := o.Checksum.Spec()
	if err != nil {
		return err
	}

	if spec.IsZero() {
		algo, err := o.Checksum.ParsedAlgorithm()
		if err != nil {
			return err
		}
		digest, err := checksum.Compute(path, algo)
		if err != nil {
			return err
		}
		cmd.Printf("%s:%s  %s\n", algo, digest, path)
		return nil
	}

	actual, err := checksum.Compute(path, spec.Algorithm)
	if err != nil {
		return err
	}
	if !spec.Matches(actual) {
		return models.NewBaseError("%s: %s digest mismatch", path, spec.Algorithm).
			WithCode(models.IntegrityError).
			WithComponent("CLI").
			WithDetail(models.DetailsKeyPath, path).
			WithDetail(models.DetailsKeyAlgorithm, string(spec.Algorithm)).
			WithDetail(models.DetailsKeyExpected, spec.Digest).
			WithDetail(models.DetailsKeyActual, actual)
	}
	cmd.Printf("%s: OK\n", path)
	return nil
}
