package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/rs/zerolog/log"

	"github.com/bacalhau-project/cortex/pkg/models"
	"github.com/bacalhau-project/cortex/pkg/telemetry"
)

const component = "Archive"

const (
	DefaultMaxEntrySize = 100 * datasize.GB

	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
)

type options struct {
	maxEntrySize datasize.ByteSize
}

type Option func(*options)

// WithMaxEntrySize bounds the decompressed size of any single entry. Zero
// keeps the default.
func WithMaxEntrySize(size datasize.ByteSize) Option {
	return func(o *options) {
		if size > 0 {
			o.maxEntrySize = size
		}
	}
}

// Extract unpacks archivePath into destDir, creating destDir if needed.
// Existing files at the same paths are replaced, so extracting the same
// archive twice yields the same tree. Entries that would land outside
// destDir are rejected. An empty format is detected from the file.
//
// The archive itself is never modified or removed.
func Extract(ctx context.Context, archivePath, destDir string, format Format, opts ...Option) (err error) {
	ctx, span := telemetry.NewSpan(ctx, telemetry.GetTracer(), "pkg/archive.Extract")
	defer telemetry.EndSpan(span, &err)

	o := options{maxEntrySize: DefaultMaxEntrySize}
	for _, opt := range opts {
		opt(&o)
	}

	if format == FormatUnknown {
		if format, err = Detect(archivePath); err != nil {
			return err
		}
	}

	if err = os.MkdirAll(destDir, dirPerm); err != nil {
		return newDestinationError(destDir, "failed to create extraction directory").WithCause(err)
	}
	root, err := filepath.Abs(destDir)
	if err == nil {
		root, err = filepath.EvalSymlinks(root)
	}
	if err != nil {
		return newDestinationError(destDir, "failed to resolve extraction directory").WithCause(err)
	}

	log.Ctx(ctx).Debug().Msgf("Extracting %s archive %s to %s", format, archivePath, root)

	x := &extractor{ctx: ctx, archive: archivePath, root: root, maxEntrySize: int64(o.maxEntrySize.Bytes())}
	switch format {
	case FormatTar, FormatTarGz, FormatTarLz4, FormatTarZst:
		err = x.extractTar(format)
	case FormatZip:
		err = x.extractZip()
	default:
		return newExtractionError(archivePath, "unsupported archive format %q", format)
	}
	if err != nil {
		return err
	}

	log.Ctx(ctx).Debug().Msgf("Extracted %d entries from %s", x.entries, archivePath)
	return nil
}

type extractor struct {
	ctx          context.Context
	archive      string
	root         string
	maxEntrySize int64
	entries      int
}

// target resolves an entry name inside the extraction root.
func (x *extractor) target(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", newExtractionError(x.archive, "entry %q escapes the extraction directory", name)
	}
	return filepath.Join(x.root, clean), nil
}

// linkTarget checks that a symlink created at path pointing to dest stays
// inside the extraction root once the parent's own symlinks are followed.
func (x *extractor) linkTarget(path, dest string) error {
	if filepath.IsAbs(dest) {
		return newExtractionError(x.archive, "symlink %q has absolute target %q", path, dest)
	}
	parent, err := resolve(filepath.Dir(path))
	if err != nil {
		return newExtractionError(x.archive, "failed to resolve parent of symlink %q", path).WithCause(err)
	}
	if !x.within(filepath.Join(parent, dest)) {
		return newExtractionError(x.archive, "symlink %q points outside the extraction directory", path)
	}
	return nil
}

// contained checks that the directory path will be created in is, after
// following every symlink already on disk, still inside the extraction root.
// Entry names are cleaned lexically, but earlier symlink entries can still
// redirect a later entry elsewhere.
func (x *extractor) contained(path string) error {
	parent, err := resolve(filepath.Dir(path))
	if err != nil {
		return newExtractionError(x.archive, "failed to resolve parent of %q", path).WithCause(err)
	}
	if !x.within(parent) {
		return newExtractionError(x.archive, "entry %q escapes the extraction directory through a symlink", path)
	}
	return nil
}

func (x *extractor) within(path string) bool {
	rel, err := filepath.Rel(x.root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// resolve follows symlinks in the deepest existing ancestor of dir and
// appends the components that do not exist yet.
func resolve(dir string) (string, error) {
	existing, rest := dir, ""
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		rest = filepath.Join(filepath.Base(existing), rest)
		existing = parent
	}
	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolved, rest), nil
}

func (x *extractor) checkSize(name string, size int64) error {
	if size > x.maxEntrySize {
		return newExtractionError(x.archive, "entry %q is %s, over the %s limit",
			name, datasize.ByteSize(size).HR(), datasize.ByteSize(x.maxEntrySize).HR())
	}
	return nil
}

func (x *extractor) mkdir(path string) error {
	if path == x.root {
		return nil
	}
	if err := x.contained(path); err != nil {
		return err
	}
	if info, err := os.Lstat(path); err == nil && !info.IsDir() {
		if err = os.Remove(path); err != nil {
			return newDestinationError(path, "failed to replace file with directory").WithCause(err)
		}
	}
	if err := os.MkdirAll(path, dirPerm); err != nil {
		return newDestinationError(path, "failed to create directory").WithCause(err)
	}
	return nil
}

// writeFile replaces whatever is at path with size bytes read from r.
func (x *extractor) writeFile(path string, r io.Reader, size int64, mode os.FileMode, modTime time.Time) error {
	if err := x.replace(path); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return newDestinationError(path, "failed to create file").WithCause(err)
	}

	w := &trackingWriter{w: file}
	_, copyErr := io.CopyN(w, r, size)
	closeErr := file.Close()

	switch {
	case w.err != nil:
		return newDestinationError(path, "failed to write file").WithCause(w.err)
	case copyErr != nil:
		return newExtractionError(x.archive, "failed to read entry for %s", path).WithCause(copyErr)
	case closeErr != nil:
		return newDestinationError(path, "failed to close file").WithCause(closeErr)
	}

	if mode = mode.Perm(); mode == 0 {
		mode = filePerm
	}
	if err = os.Chmod(path, mode); err != nil {
		return newDestinationError(path, "failed to set file mode").WithCause(err)
	}
	if !modTime.IsZero() {
		if err = os.Chtimes(path, modTime, modTime); err != nil {
			return newDestinationError(path, "failed to set file times").WithCause(err)
		}
	}
	x.entries++
	return nil
}

func (x *extractor) symlink(path, dest string) error {
	if err := x.linkTarget(path, dest); err != nil {
		return err
	}
	if err := x.replace(path); err != nil {
		return err
	}
	if err := os.Symlink(dest, path); err != nil {
		return newDestinationError(path, "failed to create symlink").WithCause(err)
	}
	x.entries++
	return nil
}

// replace makes room for a new entry at path, creating parents as needed.
func (x *extractor) replace(path string) error {
	if path == x.root {
		return newExtractionError(x.archive, "entry would replace the extraction directory")
	}
	if err := x.contained(path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return newDestinationError(path, "failed to create parent directory").WithCause(err)
	}
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err == nil && info.IsDir() {
		err = os.RemoveAll(path)
	} else if err == nil {
		err = os.Remove(path)
	}
	if err != nil {
		return newDestinationError(path, "failed to replace existing entry").WithCause(err)
	}
	return nil
}

func (x *extractor) canceled() error {
	if err := x.ctx.Err(); err != nil {
		return newExtractionError(x.archive, "extraction interrupted").WithCause(err)
	}
	return nil
}

// trackingWriter remembers write failures so they can be told apart from
// read failures on the archive side of a copy.
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil {
		t.err = err
	}
	return n, err
}

func newExtractionError(archive, format string, a ...any) *models.BaseError {
	return models.NewBaseError(format, a...).
		WithCode(models.ExtractionError).
		WithComponent(component).
		WithDetail(models.DetailsKeyPath, archive)
}

func newDestinationError(path, format string, a ...any) *models.BaseError {
	return models.NewBaseError(format, a...).
		WithCode(models.DestinationError).
		WithComponent(component).
		WithDetail(models.DetailsKeyPath, path)
}
