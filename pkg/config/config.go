package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/bacalhau-project/cortex/pkg/config/types"
	"github.com/bacalhau-project/cortex/pkg/models"
	"github.com/bacalhau-project/cortex/pkg/version"
)

const (
	environmentVariablePrefix = "CORTEX"
	automaticEnvVar           = true

	// DirEnvVar points at the directory holding config.yaml.
	DirEnvVar = "CORTEX_DIR"
)

var (
	environmentVariableReplace = strings.NewReplacer(".", "_")
	configDecoderHook          = viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
)

const (
	configType = "yaml"
	configName = "config"
)

// DefaultDir is $CORTEX_DIR, or ~/.cortex when unset.
func DefaultDir() string {
	if dir := os.Getenv(DirEnvVar); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cortex"
	}
	return filepath.Join(home, ".cortex")
}

// Load reads configuration from defaults, then path/config.yaml when it
// exists, then CORTEX_* environment variables, and validates the result.
func Load(path string, opts ...Option) (types.CortexConfig, error) {
	opts = append([]Option{
		WithDefaultConfig(types.Default(version.UserAgent())),
		WithFileHandler(ReadConfigHandler),
	}, opts...)
	return initConfig(path, opts...)
}

type Params struct {
	FileName      string
	FileType      string
	FileHandler   func(fileName string) error
	DefaultConfig types.CortexConfig
}

func initConfig(path string, opts ...Option) (types.CortexConfig, error) {
	params := &Params{
		FileName:      configName,
		FileType:      configType,
		FileHandler:   NoopConfigHandler,
		DefaultConfig: types.Default(version.UserAgent()),
	}

	for _, opt := range opts {
		opt(params)
	}

	viper.AddConfigPath(path)
	viper.SetConfigName(params.FileName)
	viper.SetConfigType(params.FileType)
	viper.SetEnvPrefix(environmentVariablePrefix)
	viper.SetEnvKeyReplacer(environmentVariableReplace)
	SetDefault(params.DefaultConfig)

	if err := params.FileHandler(filepath.Join(path, fmt.Sprintf("%s.%s", params.FileName, params.FileType))); err != nil {
		return types.CortexConfig{}, newConfigError("failed to read config file", err)
	}

	if automaticEnvVar {
		viper.AutomaticEnv()
	}

	var out types.CortexConfig
	if err := viper.Unmarshal(&out, configDecoderHook); err != nil {
		return types.CortexConfig{}, newConfigError("failed to decode config", err)
	}

	if err := out.Validate(); err != nil {
		return types.CortexConfig{}, newConfigError("invalid config", err)
	}
	return out, nil
}

// SetDefault registers every key of cfg as a viper default. Text types are
// stored in their text form so that file, env and default values all pass
// through the same decode hook.
func SetDefault(cfg types.CortexConfig) {
	viper.SetDefault(types.FetchTimeout, cfg.Fetch.Timeout.String())
	viper.SetDefault(types.FetchKeepCorrupted, cfg.Fetch.KeepCorrupted)
	viper.SetDefault(types.FetchMaxExtractSize, cfg.Fetch.MaxExtractSize.String())
	viper.SetDefault(types.FetchUserAgent, cfg.Fetch.UserAgent)
	viper.SetDefault(types.DownloadersDisabled, cfg.Downloaders.Disabled)
	viper.SetDefault(types.DownloadersHTTPRequestTimeout, cfg.Downloaders.HTTPRequestTimeout.String())
	viper.SetDefault(types.S3Endpoint, cfg.S3.Endpoint)
	viper.SetDefault(types.S3Region, cfg.S3.Region)
	viper.SetDefault(types.S3Anonymous, cfg.S3.Anonymous)
	viper.SetDefault(types.S3Concurrency, cfg.S3.Concurrency)
	viper.SetDefault(types.LoggingLevel, cfg.Logging.Level)
	viper.SetDefault(types.LoggingMode, cfg.Logging.Mode)
}

// Reset clears all configuration, useful for testing.
func Reset() {
	viper.Reset()
}

func newConfigError(message string, err error) error {
	return models.NewBaseError("%s", message).
		WithCode(models.ConfigurationError).
		WithComponent("Config").
		WithCause(err)
}
