package locate

import (
	"github.com/spf13/cobra"

	"github.com/bacalhau-project/cortex/cmd/util"
	"github.com/bacalhau-project/cortex/pkg/locator"
)

type LocateOptions struct {
	Output string
}

func NewCmd() *cobra.Command {
	o := &LocateOptions{Output: string(util.TableFormat)}

	locateCmd := &cobra.Command{
		Use:   "locate <locator>",
		Short: "Show how a locator string resolves, without fetching it",
		Example: `  cortex locate my-bucket/models/weights.bin
  cortex locate https://example.com/data.tar.gz --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locator.Parse(args[0])
			if err != nil {
				return err
			}
			fields := loc.Source().ToMap()
			fields["Locator"] = loc.String()
			return util.PrintFields(cmd, util.OutputFormat(o.Output), fields)
		},
	}
	locateCmd.Flags().StringVar(&o.Output, "output", o.Output, "Output format: table, json or yaml")
	return locateCmd
}
