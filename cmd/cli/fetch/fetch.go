package fetch

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bacalhau-project/cortex/cmd/util"
	"github.com/bacalhau-project/cortex/cmd/util/flags/cliflags"
	"github.com/bacalhau-project/cortex/cmd/util/flags/configflags"
	"github.com/bacalhau-project/cortex/pkg/archive"
	"github.com/bacalhau-project/cortex/pkg/fetch"
	"github.com/bacalhau-project/cortex/pkg/locator"
)

type FetchOptions struct {
	Checksum      *cliflags.ChecksumOptions
	ExtractDir    string
	Format        string
	SkipIfPresent bool
	Progress      bool
}

func NewFetchOptions() *FetchOptions {
	return &FetchOptions{Checksum: cliflags.NewChecksumOptions()}
}

func NewCmd() *cobra.Command {
	o := NewFetchOptions()

	fetchCmd := &cobra.Command{
		Use:   "fetch <locator> <dest>",
		Short: "Download a local path, URL or s3 object, optionally verifying and extracting it",
		Example: `  cortex fetch s3://my-bucket/models/weights.bin ./weights.bin --checksum sha256:<hex>
  cortex fetch https://example.com/data.tar.gz ./data.tar.gz --extract-dir ./data`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd, args[0], args[1])
		},
	}

	fset := pflag.NewFlagSet("Fetch", pflag.ContinueOnError)
	fset.StringVar(&o.ExtractDir, "extract-dir", o.ExtractDir,
		"Unpack the downloaded archive into this directory")
	fset.StringVar(&o.Format, "format", o.Format,
		"Archive format, inferred from the name or content when empty. One of: "+formatList())
	fset.BoolVar(&o.SkipIfPresent, "skip-if-present", o.SkipIfPresent,
		"Reuse an existing destination whose checksum matches")
	fset.BoolVar(&o.Progress, "progress", o.Progress,
		"Show download progress even when stderr is not a terminal")
	fetchCmd.Flags().AddFlagSet(fset)
	fetchCmd.Flags().AddFlagSet(cliflags.ChecksumFlags(o.Checksum))

	if err := configflags.RegisterFlags(fetchCmd.Flags(), map[string][]configflags.Definition{
		"fetch": configflags.FetchFlags,
		"s3":    configflags.S3Flags,
	}); err != nil {
		panic(err)
	}
	return fetchCmd
}

func (o *FetchOptions) Run(cmd *cobra.Command, rawLocator, dest string) error {
	ctx := cmd.Context()

	loc, err := locator.Parse(rawLocator)
	if err != nil {
		return err
	}
	spec, err := o.Checksum.Spec()
	if err != nil {
		return err
	}
	var format archive.Format
	if o.Format != "" {
		if format, err = archive.ParseFormat(o.Format); err != nil {
			return errors.Wrap(err, "invalid --format")
		}
	}
	if o.SkipIfPresent && spec.IsZero() {
		return errors.New("--skip-if-present needs a checksum to compare against")
	}

	cfg, err := util.GetConfig(cmd)
	if err != nil {
		return err
	}

	var progress io.Writer
	bar := util.NewProgressBar(cmd, loc.BaseName(), o.Progress)
	if bar != nil {
		progress = bar
	}

	fetcher, err := fetch.NewFetcherFromConfig(ctx, cfg, progress)
	if err != nil {
		return err
	}

	var res fetch.Result
	switch {
	case !spec.IsZero():
		res, err = fetcher.VerifyIntegrity(ctx, fetch.Request{
			Locator:       loc,
			Destination:   dest,
			Checksum:      spec,
			ExtractDir:    o.ExtractDir,
			Format:        format,
			SkipIfPresent: o.SkipIfPresent,
		})
	case o.ExtractDir != "":
		res, err = fetcher.DownloadAndExtract(ctx, loc, dest, o.ExtractDir, format)
	default:
		res, err = fetcher.Download(ctx, loc, dest)
	}
	util.StopProgressBar(bar, err)
	if err != nil {
		return err
	}

	cmd.Println(res.Path)
	if res.ExtractDir != "" {
		cmd.Println(res.ExtractDir)
	}
	return nil
}

func formatList() string {
	formats := archive.Formats()
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
