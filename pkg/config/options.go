package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/bacalhau-project/cortex/pkg/config/types"
)

type Option func(options *Params)

func WithFileName(name string) Option {
	return func(options *Params) {
		options.FileName = name
	}
}

func WithFileType(ftype string) Option {
	return func(options *Params) {
		options.FileType = ftype
	}
}

func WithDefaultConfig(cfg types.CortexConfig) Option {
	return func(options *Params) {
		options.DefaultConfig = cfg
	}
}

func WithFileHandler(handler func(name string) error) Option {
	return func(options *Params) {
		options.FileHandler = handler
	}
}

func NoopConfigHandler(string) error {
	return nil
}

func ReadConfigHandler(fileName string) error {
	if _, err := os.Stat(fileName); os.IsNotExist(err) {
		// a missing file is fine, defaults and env apply
		return nil
	} else if err != nil {
		return err
	}
	return viper.ReadInConfig()
}
