package logger

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LogMode string

// Available logging modes
const (
	LogModeDefault  LogMode = "default"
	LogModeJSON     LogMode = "json"
	LogModeCombined LogMode = "combined"
)

func ParseLogMode(s string) (LogMode, error) {
	lm := []LogMode{LogModeDefault, LogModeJSON, LogModeCombined}
	for _, logMode := range lm {
		if s == string(logMode) {
			return logMode, nil
		}
	}
	return "", fmt.Errorf("%q is an invalid log-mode (valid modes: %q)", s, lm)
}

var stderr = struct{ io.Writer }{os.Stderr}

func init() { //nolint:gochecknoinits // init with zerolog is idiomatic
	mode := LogModeDefault
	if m, err := ParseLogMode(strings.ToLower(os.Getenv("LOG_TYPE"))); err == nil {
		mode = m
	}
	configureLogging(mode, os.Getenv("LOG_LEVEL"))
}

type tTesting interface {
	zerolog.TestingLog
	Cleanup(f func())
}

// ConfigureTestLogging allows logs to be associated with individual tests
func ConfigureTestLogging(t tTesting) {
	oldLogger := log.Logger
	oldContextLogger := zerolog.DefaultContextLogger
	configureLogging(LogModeDefault, "debug", zerolog.ConsoleTestWriter(t))
	t.Cleanup(func() {
		log.Logger = oldLogger
		zerolog.DefaultContextLogger = oldContextLogger
	})
}

// ConfigureLogging sets up the global logger for the given mode and level.
// An empty level falls back to LOG_LEVEL, and then to info.
func ConfigureLogging(mode LogMode, level string) {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	configureLogging(mode, level)
}

func configureLogging(mode LogMode, level string, loggingOptions ...func(w *zerolog.ConsoleWriter)) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(parseLevel(level))

	isTerminal := isatty.IsTerminal(os.Stderr.Fd())

	defaultLogging := func(w *zerolog.ConsoleWriter) {
		w.Out = stderr
		w.NoColor = !isTerminal
		w.TimeFormat = "15:04:05.999 |"
		w.PartsOrder = []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		}

		w.FormatFieldName = func(i interface{}) string {
			return fmt.Sprintf("[%s:", i)
		}

		w.FormatFieldValue = func(i interface{}) string {
			if i == nil {
				i = ""
			}
			return fmt.Sprintf("%s]", i)
		}
	}

	loggingOptions = append([]func(w *zerolog.ConsoleWriter){defaultLogging}, loggingOptions...)

	textWriter := zerolog.NewConsoleWriter(loggingOptions...)

	zerolog.CallerMarshalFunc = marshalCaller

	var useLogWriter io.Writer
	switch mode {
	case LogModeJSON:
		useLogWriter = stderr
	case LogModeCombined:
		useLogWriter = zerolog.MultiLevelWriter(textWriter, stderr)
	default:
		useLogWriter = textWriter
	}

	log.Logger = zerolog.New(useLogWriter).With().Timestamp().Caller().Logger()
	// log.Ctx falls back to this logger when the context carries none
	zerolog.DefaultContextLogger = &log.Logger
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// marshalCaller keeps the last two path segments of the caller's file.
func marshalCaller(_ uintptr, file string, line int) string {
	short := file

	separatorCount := 2
	countedSeparators := 0

	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			countedSeparators += 1
			if countedSeparators >= separatorCount {
				short = file[i+1:]
				break
			}
		}
	}
	return short + ":" + strconv.Itoa(line)
}
