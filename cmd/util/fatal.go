package util

import (
	"math"
	"os"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ExitError is the exit status for any failed command, including a
// checksum mismatch.
const ExitError = 1

const errorPrefix = "Error: "

// Fatal prints err and exits with code. Tests replace it to observe exits.
var Fatal = fatalError

func fatalError(cmd *cobra.Command, err error, code int) {
	PrintErr(cmd, err)
	os.Exit(code)
}

// PrintErr writes err with a prefix, wrapped to the terminal width and
// indented under the prefix.
func PrintErr(cmd *cobra.Command, err error) {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return
	}

	width := math.MaxInt32
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		if w, _, sizeErr := term.GetSize(int(f.Fd())); sizeErr == nil && w > len(errorPrefix) {
			width = w
		}
	}

	indent := strings.Repeat(" ", len(errorPrefix))
	for i, line := range strings.Split(wordwrap.WrapString(msg, uint(width-len(errorPrefix))), "\n") {
		if i == 0 {
			cmd.PrintErrln(errorPrefix + line)
			continue
		}
		cmd.PrintErrln(indent + line)
	}
}
