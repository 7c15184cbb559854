package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/bacalhau-project/cortex/cmd/cli/fetch"
	"github.com/bacalhau-project/cortex/cmd/cli/locate"
	"github.com/bacalhau-project/cortex/cmd/cli/verify"
	"github.com/bacalhau-project/cortex/cmd/cli/version"
	"github.com/bacalhau-project/cortex/cmd/util"
	"github.com/bacalhau-project/cortex/cmd/util/flags/configflags"
	"github.com/bacalhau-project/cortex/pkg/config"
	"github.com/bacalhau-project/cortex/pkg/logger"
	"github.com/bacalhau-project/cortex/pkg/telemetry"
)

func NewRootCmd() *cobra.Command {
	var configDir string

	rootCmd := &cobra.Command{
		Use:           "cortex",
		Short:         "Fetch, verify and unpack datasets and model weights",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd, configDir)
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if span, ok := cmd.Context().Value(spanKey).(trace.Span); ok {
				span.End()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", config.DefaultDir(),
		"Directory holding config.yaml. Defaults to $"+config.DirEnvVar+" or ~/.cortex")
	if err := configflags.RegisterFlags(rootCmd.PersistentFlags(), map[string][]configflags.Definition{
		"logging": configflags.LoggingFlags,
	}); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(fetch.NewCmd())
	rootCmd.AddCommand(verify.NewCmd())
	rootCmd.AddCommand(locate.NewCmd())
	rootCmd.AddCommand(version.NewCmd())
	return rootCmd
}

// setup loads .env and configuration for the invoked command and configures
// logging from it.
func setup(cmd *cobra.Command, configDir string) error {
	ctx := cmd.Context()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := configflags.BindFlags(cmd); err != nil {
		return err
	}
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}

	mode, err := logger.ParseLogMode(cfg.Logging.Mode)
	if err != nil {
		return err
	}
	logger.ConfigureLogging(mode, cfg.Logging.Level)

	var names []string
	for c := cmd; c.HasParent(); c = c.Parent() {
		names = append([]string{c.Name()}, names...)
	}
	ctx, span := telemetry.NewSpan(ctx, telemetry.GetTracer(), "cortex."+strings.Join(names, "."))
	ctx = context.WithValue(ctx, spanKey, span)

	cmd.SetContext(util.WithConfig(ctx, cfg))
	return nil
}

func Execute() {
	rootCmd := NewRootCmd()

	// let commands stop cleanly on ctrl+c
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	rootCmd.SetContext(ctx)

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		util.Fatal(rootCmd, err, util.ExitError)
	}
}

type contextKey struct {
	name string
}

var spanKey = contextKey{name: "context key for storing the root span"}
