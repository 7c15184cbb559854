package configflags

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bacalhau-project/cortex/pkg/config/types"
)

// configPathAnnotation marks a flag with the config key it overrides.
const configPathAnnotation = "cortex_config_path"

// Definition is a flag that overrides a configuration key.
type Definition struct {
	FlagName     string
	ConfigPath   string
	DefaultValue interface{}
	Description  string
}

// RegisterFlags adds the definitions to flags, one named flag set per map
// key. Text types (durations, sizes) are registered as string flags so
// they pass through the same decode hook as file and environment values.
func RegisterFlags(flags *pflag.FlagSet, register map[string][]Definition) error {
	for name, defs := range register {
		fset := pflag.NewFlagSet(name, pflag.ContinueOnError)
		for _, def := range defs {
			switch v := def.DefaultValue.(type) {
			case int:
				fset.Int(def.FlagName, v, def.Description)
			case bool:
				fset.Bool(def.FlagName, v, def.Description)
			case string:
				fset.String(def.FlagName, v, def.Description)
			case []string:
				fset.StringSlice(def.FlagName, v, def.Description)
			case types.Duration:
				fset.String(def.FlagName, v.String(), def.Description)
			case datasize.ByteSize:
				fset.String(def.FlagName, v.String(), def.Description)
			default:
				return fmt.Errorf("unhandled type %T for flag %s", v, def.FlagName)
			}
			if err := fset.SetAnnotation(def.FlagName, configPathAnnotation, []string{def.ConfigPath}); err != nil {
				return err
			}
		}
		flags.AddFlagSet(fset)
	}
	return nil
}

// BindFlags binds every annotated flag of the command being executed to its
// config key. It runs at execution time so that only the invoked command's
// flags take part in configuration.
func BindFlags(cmd *cobra.Command) error {
	var bindErr error
	bind := func(flag *pflag.Flag) {
		paths, ok := flag.Annotations[configPathAnnotation]
		if !ok || bindErr != nil {
			return
		}
		for _, path := range paths {
			if err := viper.BindPFlag(path, flag); err != nil {
				bindErr = fmt.Errorf("binding flag %s to %s: %w", flag.Name, path, err)
				return
			}
		}
	}
	// after parsing, Flags includes the persistent flags of every parent
	cmd.Flags().VisitAll(bind)
	return bindErr
}
