package checksum

import (
	"crypto/md5"  //nolint:gosec // legacy digests are still published alongside datasets
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"hash"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/bacalhau-project/cortex/pkg/models"
	"github.com/bacalhau-project/cortex/pkg/util/closer"
)

const component = "Checksum"

type Algorithm string

const (
	MD5        Algorithm = "md5"
	SHA1       Algorithm = "sha1"
	SHA224     Algorithm = "sha224"
	SHA256     Algorithm = "sha256"
	SHA384     Algorithm = "sha384"
	SHA512     Algorithm = "sha512"
	SHA3_256   Algorithm = "sha3-256"
	SHA3_512   Algorithm = "sha3-512"
	BLAKE2b256 Algorithm = "blake2b-256"
	BLAKE2b512 Algorithm = "blake2b-512"
)

type algorithmInfo struct {
	size int
	new  func() hash.Hash
}

var algorithms = map[Algorithm]algorithmInfo{
	MD5:        {size: md5.Size, new: md5.New},
	SHA1:       {size: sha1.Size, new: sha1.New},
	SHA224:     {size: sha256.Size224, new: sha256.New224},
	SHA256:     {size: sha256.Size, new: sha256.New},
	SHA384:     {size: sha512.Size384, new: sha512.New384},
	SHA512:     {size: sha512.Size, new: sha512.New},
	SHA3_256:   {size: 32, new: sha3.New256},
	SHA3_512:   {size: 64, new: sha3.New512},
	BLAKE2b256: {size: blake2b.Size256, new: mustBlake2b(blake2b.New256)},
	BLAKE2b512: {size: blake2b.Size, new: mustBlake2b(blake2b.New512)},
}

// unkeyed blake2b constructors only fail for oversized keys
func mustBlake2b(fn func(key []byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, err := fn(nil)
		if err != nil {
			panic(err)
		}
		return h
	}
}

// normalized name -> canonical algorithm, so "SHA-256", "sha_256" and
// "sha256" all resolve to SHA256
var aliases = func() map[string]Algorithm {
	m := make(map[string]Algorithm, len(algorithms))
	for a := range algorithms {
		m[normalize(string(a))] = a
	}
	m["blake2b"] = BLAKE2b512
	return m
}()

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "", "_", "").Replace(name)
}

// ParseAlgorithm resolves an algorithm name. Matching ignores case, dashes
// and underscores.
func ParseAlgorithm(name string) (Algorithm, error) {
	if a, ok := aliases[normalize(name)]; ok {
		return a, nil
	}
	return "", models.NewBaseError("unsupported checksum algorithm %q", name).
		WithCode(models.UnsupportedAlgorithm).
		WithComponent(component).
		WithHint("supported algorithms: "+strings.Join(Algorithms(), ", ")).
		WithDetail(models.DetailsKeyAlgorithm, name)
}

// Algorithms lists the supported algorithm names.
func Algorithms() []string {
	out := make([]string, 0, len(algorithms))
	for a := range algorithms {
		out = append(out, string(a))
	}
	sort.Strings(out)
	return out
}

// Size is the digest length in bytes, or 0 for unknown algorithms.
func (a Algorithm) Size() int {
	return algorithms[a].size
}

// New returns a fresh hash for the algorithm.
func (a Algorithm) New() (hash.Hash, error) {
	if info, ok := algorithms[a]; ok {
		return info.new(), nil
	}
	parsed, err := ParseAlgorithm(string(a))
	if err != nil {
		return nil, err
	}
	return algorithms[parsed].new(), nil
}

// Sum digests everything read from r and returns the lowercase hex digest
// and the number of bytes read.
func Sum(r io.Reader, algo Algorithm) (string, int64, error) {
	h, err := algo.New()
	if err != nil {
		return "", 0, err
	}
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// Compute returns the lowercase hex digest of the file at path.
func Compute(path string, algo Algorithm) (string, error) {
	h, err := algo.New()
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", newFileError(path, err)
	}
	defer closer.CloseWithLogOnError("checksum input", f)

	if _, err := io.Copy(h, f); err != nil {
		return "", newFileError(path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify computes the digest of the file at path and compares it to the
// expected digest. A mismatch is reported as false with a nil error; errors
// are reserved for unreadable files and invalid specs.
func Verify(path string, spec Spec) (bool, error) {
	if err := spec.Validate(); err != nil {
		return false, err
	}
	actual, err := Compute(path, spec.Algorithm)
	if err != nil {
		return false, err
	}
	return spec.Matches(actual), nil
}

func newFileError(path string, err error) error {
	code := models.InternalError
	if errors.Is(err, fs.ErrNotExist) {
		code = models.NotFoundError
	}
	return models.NewBaseError("failed to read %s", path).
		WithCode(code).
		WithComponent(component).
		WithDetail(models.DetailsKeyPath, path).
		WithCause(err)
}
