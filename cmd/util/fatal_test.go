//go:build unit || !integration

package util

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestPrintErr(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetErr(&out)

	PrintErr(cmd, errors.New("sha256 digest mismatch for my-bucket/models/weights.bin"))
	assert.Equal(t, "Error: sha256 digest mismatch for my-bucket/models/weights.bin\n", out.String())

	out.Reset()
	PrintErr(cmd, errors.New(""))
	assert.Empty(t, out.String())
}
