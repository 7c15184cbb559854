package util

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const progressThrottle = 80 * time.Millisecond

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewProgressBar returns a byte counter drawn on the command's stderr, or
// nil when stderr is not a terminal and progress was not forced.
func NewProgressBar(cmd *cobra.Command, description string, force bool) *progressbar.ProgressBar {
	out := cmd.ErrOrStderr()
	if !force && !IsTerminal(out) {
		return nil
	}
	return progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(progressThrottle),
		progressbar.OptionClearOnFinish(),
	)
}

// StopProgressBar ends the bar once the transfer is over. On failure the
// partial line is wiped so the error is printed on a clean line.
func StopProgressBar(bar *progressbar.ProgressBar, err error) {
	if bar == nil {
		return
	}
	if err == nil {
		_ = bar.Finish()
		return
	}
	_ = bar.Clear()
	_ = bar.Exit()
}
