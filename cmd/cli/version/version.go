package version

import (
	"github.com/fatih/structs"
	"github.com/spf13/cobra"

	"github.com/bacalhau-project/cortex/cmd/util"
	"github.com/bacalhau-project/cortex/pkg/version"
)

func NewCmd() *cobra.Command {
	output := string(util.TableFormat)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return util.PrintFields(cmd, util.OutputFormat(output), structs.Map(version.Get()))
		},
	}
	versionCmd.Flags().StringVar(&output, "output", output, "Output format: table, json or yaml")
	return versionCmd
}
