//go:build unit || !integration

package logger

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLogging(t *testing.T) {
	oldLogger := log.Logger
	oldContextLogger := zerolog.DefaultContextLogger
	oldLevel := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = oldLogger
		zerolog.DefaultContextLogger = oldContextLogger
		zerolog.SetGlobalLevel(oldLevel)
	})

	var logging strings.Builder
	configureLogging(LogModeDefault, "info", func(w *zerolog.ConsoleWriter) {
		w.Out = &logging
		w.NoColor = true
	})

	log.Info().Str("Locator", "s3://bucket/key").Msg("testing message")
	log.Debug().Msg("hidden at info level")

	actual := logging.String()
	t.Log(actual)

	assert.Contains(t, actual, "testing message")
	assert.Contains(t, actual, "[Locator:s3://bucket/key]")
	assert.Contains(t, actual, "logger/logger_test.go", "caller should keep the package directory")
	assert.NotContains(t, actual, "hidden at info level")
}

func TestParseLogMode(t *testing.T) {
	for _, mode := range []LogMode{LogModeDefault, LogModeJSON, LogModeCombined} {
		parsed, err := ParseLogMode(string(mode))
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	_, err := ParseLogMode("station")
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("nonsense"))
}

func TestMarshalCaller(t *testing.T) {
	assert.Equal(t, "fetch/fetcher.go:42", marshalCaller(0, "/src/cortex/pkg/fetch/fetcher.go", 42))
	assert.Equal(t, "main.go:7", marshalCaller(0, "main.go", 7))
}
