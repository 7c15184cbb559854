package closer

import (
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// CloseWithLogOnError will close the given resource and log any relevant failure
func CloseWithLogOnError(name string, c io.Closer) {
	err := c.Close()
	if err == nil || errors.Is(err, os.ErrClosed) {
		return
	}

	l := log.With().CallerWithSkipFrameCount(3).Logger()
	l.Err(err).Msgf("Failed to close %s", name)
}

// CloseAndRemove closes f and deletes it from disk. Used to discard
// partially-written files; failures are logged, not returned.
func CloseAndRemove(name string, f *os.File) {
	CloseWithLogOnError(name, f)
	if err := os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msgf("Failed to remove %s at %s", name, f.Name())
	}
}
