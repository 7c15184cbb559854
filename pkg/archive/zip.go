package archive

import (
	"archive/zip"
	"io"
	"math"
	"os"
	"strings"

	"github.com/bacalhau-project/cortex/pkg/util/closer"
)

// maximum length of a symlink target stored as zip entry content
const maxLinkTarget = 4096

func (x *extractor) extractZip() error {
	zr, err := zip.OpenReader(x.archive)
	if err != nil {
		return newExtractionError(x.archive, "failed to open zip archive").WithCause(err)
	}
	defer closer.CloseWithLogOnError("archive", zr)

	for _, f := range zr.File {
		if err = x.canceled(); err != nil {
			return err
		}
		if err = x.zipEntry(f); err != nil {
			return err
		}
	}
	return nil
}

func (x *extractor) zipEntry(f *zip.File) error {
	target, err := x.target(f.Name)
	if err != nil {
		return err
	}

	mode := f.Mode()
	switch {
	case mode.IsDir() || strings.HasSuffix(f.Name, "/"):
		return x.mkdir(target)
	case mode&os.ModeSymlink != 0:
		dest, err := x.readZipLink(f)
		if err != nil {
			return err
		}
		return x.symlink(target, dest)
	case mode.IsRegular():
		if f.UncompressedSize64 > math.MaxInt64 {
			return newExtractionError(x.archive, "entry %q has an invalid size", f.Name)
		}
		size := int64(f.UncompressedSize64)
		if err = x.checkSize(f.Name, size); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return newExtractionError(x.archive, "failed to open entry %q", f.Name).WithCause(err)
		}
		defer closer.CloseWithLogOnError("zip entry", rc)
		return x.writeFile(target, rc, size, mode, f.Modified)
	default:
		return nil
	}
}

func (x *extractor) readZipLink(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", newExtractionError(x.archive, "failed to open entry %q", f.Name).WithCause(err)
	}
	defer closer.CloseWithLogOnError("zip entry", rc)

	dest, err := io.ReadAll(io.LimitReader(rc, maxLinkTarget))
	if err != nil {
		return "", newExtractionError(x.archive, "failed to read symlink %q", f.Name).WithCause(err)
	}
	return string(dest), nil
}
