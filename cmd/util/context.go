package util

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bacalhau-project/cortex/pkg/config/types"
)

type contextKey struct {
	name string
}

var configKey = contextKey{name: "context key for the loaded configuration"}

// WithConfig stores the configuration loaded for this invocation.
func WithConfig(ctx context.Context, cfg types.CortexConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// GetConfig returns the configuration loaded by the root command.
func GetConfig(cmd *cobra.Command) (types.CortexConfig, error) {
	cfg, ok := cmd.Context().Value(configKey).(types.CortexConfig)
	if !ok {
		return types.CortexConfig{}, errors.New("configuration was not loaded for " + cmd.CommandPath())
	}
	return cfg, nil
}
