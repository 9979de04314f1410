package gedcom

import (
	"compress/gzip"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/teranos/kin/errors"
)

// Stdin is the path naming standard input.
const Stdin = "-"

// Source is an opened GEDCOM input. Reads return decompressed content and
// feed a BLAKE3 digest, so a tree has the same digest whether it was
// read plain or compressed.
type Source struct {
	Name        string
	Compression string // "", "xz" or "gzip"

	r       io.Reader
	closers []io.Closer
	hash    *blake3.Hasher
	n       int64
}

// Open opens path for reading, decompressing .xz and .gz files. "-" reads
// standard input.
func Open(path string) (*Source, error) {
	if path == Stdin {
		return newSource("stdin", os.Stdin, nil)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	src, err := newSource(path, f, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

// NewSource wraps r, detecting compression from name's suffix.
func NewSource(name string, r io.Reader) (*Source, error) {
	return newSource(name, r, nil)
}

func newSource(name string, r io.Reader, c io.Closer) (*Source, error) {
	s := &Source{Name: name, hash: blake3.New()}
	if c != nil {
		s.closers = append(s.closers, c)
	}

	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".xz"):
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, errors.Wrapf(err, "read xz header of %s", name)
		}
		r = xr
		s.Compression = "xz"
	case strings.HasSuffix(lower, ".gz"):
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrapf(err, "read gzip header of %s", name)
		}
		r = gr
		s.closers = append([]io.Closer{gr}, s.closers...)
		s.Compression = "gzip"
	}
	s.r = io.TeeReader(r, s.hash)
	return s, nil
}

func (s *Source) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.n += int64(n)
	return n, err
}

// Bytes returns the number of decompressed bytes read so far.
func (s *Source) Bytes() int64 { return s.n }

// Digest returns the hex BLAKE3 digest of the bytes read so far.
func (s *Source) Digest() string {
	return hex.EncodeToString(s.hash.Sum(nil))
}

// Close closes the decompressor and the underlying file.
func (s *Source) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
