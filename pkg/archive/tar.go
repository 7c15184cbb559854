package archive

import (
	"archive/tar"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/bacalhau-project/cortex/pkg/util/closer"
)

func (x *extractor) extractTar(format Format) error {
	file, err := os.Open(x.archive)
	if err != nil {
		return newExtractionError(x.archive, "failed to open archive").WithCause(err)
	}
	defer closer.CloseWithLogOnError("archive", file)

	stream, release, err := decompressor(file, format)
	if err != nil {
		return newExtractionError(x.archive, "failed to open %s stream", format).WithCause(err)
	}
	defer release()

	tr := tar.NewReader(stream)
	for {
		if err = x.canceled(); err != nil {
			return err
		}

		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return newExtractionError(x.archive, "failed to read tar header").WithCause(err)
		}

		if err = x.tarEntry(tr, header); err != nil {
			return err
		}
	}
}

func (x *extractor) tarEntry(tr *tar.Reader, header *tar.Header) error {
	target, err := x.target(header.Name)
	if err != nil {
		return err
	}

	switch header.Typeflag {
	case tar.TypeDir:
		return x.mkdir(target)
	case tar.TypeReg, tar.TypeRegA: //nolint:staticcheck // old archives still use TypeRegA
		if err = x.checkSize(header.Name, header.Size); err != nil {
			return err
		}
		return x.writeFile(target, tr, header.Size, header.FileInfo().Mode(), header.ModTime)
	case tar.TypeSymlink:
		return x.symlink(target, header.Linkname)
	case tar.TypeLink:
		source, err := x.target(header.Linkname)
		if err != nil {
			return err
		}
		return x.hardlink(target, source)
	default:
		// pax/GNU metadata entries are consumed by the reader; device nodes
		// and fifos have no place in a dataset
		return nil
	}
}

func (x *extractor) hardlink(path, source string) error {
	if err := x.contained(source); err != nil {
		return err
	}
	if err := x.replace(path); err != nil {
		return err
	}
	if err := os.Link(source, path); err != nil {
		return newDestinationError(path, "failed to create hard link").WithCause(err)
	}
	x.entries++
	return nil
}

// decompressor wraps r according to the tar compression in format.
func decompressor(r io.Reader, format Format) (io.Reader, func(), error) {
	switch format {
	case FormatTarGz:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gzr, func() { _ = gzr.Close() }, nil
	case FormatTarZst:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	case FormatTarLz4:
		return lz4.NewReader(r), func() {}, nil
	default:
		return r, func() {}, nil
	}
}
