// Package contentcoding unwraps HTTP content codings (RFC 9110 section 8.4)
// so the payload underneath can be decoded as text.
package contentcoding

import (
	"io"
	"slices"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/hexbee-net/errors"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

const (
	ErrUnsupportedCoding = errors.Error("unsupported content coding")
	errNilReader         = errors.Error("reader is nil")
)

const (
	Identity = "identity"
	Gzip     = "gzip"
	Deflate  = "deflate"
	Brotli   = "br"
	Zstd     = "zstd"
	Snappy   = "snappy"
	LZ4      = "lz4"
)

var codings = []string{Identity, Gzip, Deflate, Brotli, Zstd, Snappy, LZ4}

// Names returns the supported content coding names.
func Names() []string {
	return slices.Clone(codings)
}

// NewReader returns a reader of the payload of r with coding removed. An
// empty coding is the same as Identity. Names are case-insensitive.
func NewReader(coding string, r io.Reader) (io.ReadCloser, error) {
	if r == nil {
		return nil, errNilReader
	}

	switch strings.ToLower(strings.TrimSpace(coding)) {
	case "", Identity:
		return io.NopCloser(r), nil
	case Gzip, "x-gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read gzip header")
		}
		return zr, nil
	case Deflate:
		return flate.NewReader(r), nil
	case Brotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create zstd decoder")
		}
		return zr.IOReadCloser(), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	}

	return nil, errors.WithFields(
		errors.WithStack(ErrUnsupportedCoding),
		errors.Fields{
			"coding":    coding,
			"supported": strings.Join(codings, ","),
		})
}
