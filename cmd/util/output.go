package util

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

type OutputFormat string

const (
	TableFormat OutputFormat = "table"
	JSONFormat  OutputFormat = "json"
	YAMLFormat  OutputFormat = "yaml"
)

var AllFormats = []OutputFormat{TableFormat, JSONFormat, YAMLFormat}

var noStyle = table.Style{
	Name:   "StyleDefault",
	Box:    table.StyleBoxDefault,
	Color:  table.ColorOptionsDefault,
	Format: table.FormatOptionsDefault,
	HTML:   table.DefaultHTMLOptions,
	Options: table.Options{
		DrawBorder:      false,
		SeparateColumns: false,
		SeparateFooter:  false,
		SeparateHeader:  false,
		SeparateRows:    false,
	},
	Title: table.TitleOptionsDefault,
}

// PrintFields writes fields to the command's stdout: as a two column
// key/value table sorted by key, or as a JSON or YAML object.
func PrintFields(cmd *cobra.Command, format OutputFormat, fields map[string]interface{}) error {
	switch format {
	case TableFormat, "":
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		tw := table.NewWriter()
		tw.SetOutputMirror(cmd.OutOrStdout())
		tw.SetStyle(noStyle)
		for _, k := range keys {
			tw.AppendRow(table.Row{k, fields[k]})
		}
		tw.Render()
		return nil
	case JSONFormat:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(fields)
	case YAMLFormat:
		out, err := yaml.Marshal(fields)
		if err != nil {
			return err
		}
		cmd.Print(string(out))
		return nil
	default:
		return fmt.Errorf("invalid format %q, expected one of %q", format, AllFormats)
	}
}
