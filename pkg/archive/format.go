package archive

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/bacalhau-project/cortex/pkg/models"
	"github.com/bacalhau-project/cortex/pkg/util/closer"
)

type Format string

const (
	FormatUnknown Format = ""
	FormatTar     Format = "tar"
	FormatTarGz   Format = "tar.gz"
	FormatTarLz4  Format = "tar.lz4"
	FormatTarZst  Format = "tar.zst"
	FormatZip     Format = "zip"
)

// Formats lists the supported archive formats.
func Formats() []Format {
	return []Format{FormatTar, FormatTarGz, FormatTarLz4, FormatTarZst, FormatZip}
}

// name suffix -> format, longest suffixes first
var suffixes = []struct {
	suffix string
	format Format
}{
	{".tar.gz", FormatTarGz},
	{".tar.lz4", FormatTarLz4},
	{".tar.zst", FormatTarZst},
	{".tar.zstd", FormatTarZst},
	{".tgz", FormatTarGz},
	{".tlz4", FormatTarLz4},
	{".tzst", FormatTarZst},
	{".tar", FormatTar},
	{".zip", FormatZip},
}

// ParseFormat resolves a user-supplied format hint such as "tgz", "tar.gz"
// or "zip".
func ParseFormat(s string) (Format, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	switch name {
	case "gztar", "tgz":
		return FormatTarGz, nil
	case "tzst", "tar.zstd":
		return FormatTarZst, nil
	case "tlz4":
		return FormatTarLz4, nil
	}
	for _, f := range Formats() {
		if name == string(f) {
			return f, nil
		}
	}
	return FormatUnknown, models.NewBaseError("unsupported archive format %q", s).
		WithCode(models.BadRequestError).
		WithComponent(component)
}

// FormatFromName infers the format from a file name's extension.
func FormatFromName(name string) (Format, bool) {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return s.format, true
		}
	}
	return FormatUnknown, false
}

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZip  = []byte("PK\x03\x04")
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLz4  = []byte{0x04, 0x22, 0x4d, 0x18}
	magicTar  = []byte("ustar")
)

const (
	tarMagicOffset = 257
	sniffLen       = tarMagicOffset + 8
)

// Detect picks a format for the file at path: the extension decides when it
// is known, otherwise the leading bytes are sniffed.
func Detect(path string) (Format, error) {
	if f, ok := FormatFromName(path); ok {
		return f, nil
	}
	return Sniff(path)
}

// Sniff identifies the format from the file's magic bytes alone.
func Sniff(path string) (Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return FormatUnknown, newExtractionError(path, "failed to open archive").WithCause(err)
	}
	defer closer.CloseWithLogOnError("archive", file)

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, newExtractionError(path, "failed to read archive header").WithCause(err)
	}
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, magicGzip):
		return FormatTarGz, nil
	case bytes.HasPrefix(head, magicZip):
		return FormatZip, nil
	case bytes.HasPrefix(head, magicZstd):
		return FormatTarZst, nil
	case bytes.HasPrefix(head, magicLz4):
		return FormatTarLz4, nil
	case len(head) >= tarMagicOffset+len(magicTar) &&
		bytes.Equal(head[tarMagicOffset:tarMagicOffset+len(magicTar)], magicTar):
		return FormatTar, nil
	}
	return FormatUnknown, newExtractionError(path, "unrecognised archive format").
		WithHint("pass the format explicitly, one of tar, tar.gz, tar.lz4, tar.zst, zip")
}
