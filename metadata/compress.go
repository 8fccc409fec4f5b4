package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionTag selects how a packed section payload is compressed.
type CompressionTag uint8

const (
	CompressionNone CompressionTag = 0
	CompressionLZ4  CompressionTag = 1
	CompressionZstd CompressionTag = 2
)

func (c CompressionTag) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("CompressionTag(%d)", uint8(c))
	}
}

// ParseCompressionTag maps a name from String back to its tag.
func ParseCompressionTag(s string) (CompressionTag, error) {
	switch s {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("metadata: unknown compression %q", s)
	}
}

// packMagic starts every packed blob.
var packMagic = []byte("MREF")

// maxUnpackedSize bounds the size claimed by a packed header.
const maxUnpackedSize = 64 << 20

var errIncompressible = errors.New("data is incompressible")

// zstdEncoder and zstdDecoder are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil)
	if err != nil {
		panic(fmt.Sprintf("metadata: zstd encoder: %v", err))
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxUnpackedSize))
	if err != nil {
		panic(fmt.Sprintf("metadata: zstd decoder: %v", err))
	}
}

// Pack frames data as magic, tag, uvarint raw size and payload. When the
// requested compression does not shrink the data it is stored with
// CompressionNone.
//
// Layout: "MREF" | tag(1) | uvarint(len(data)) | payload
func Pack(data []byte, tag CompressionTag) ([]byte, error) {
	payload, err := compress(data, tag)
	if errors.Is(err, errIncompressible) {
		tag, payload, err = CompressionNone, data, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(packMagic)+1+binary.MaxVarintLen64+len(payload))
	out = append(out, packMagic...)
	out = append(out, byte(tag))
	out = binary.AppendUvarint(out, uint64(len(data)))
	return append(out, payload...), nil
}

// Unpack reverses Pack.
func Unpack(blob []byte) ([]byte, error) {
	if !bytes.HasPrefix(blob, packMagic) {
		return nil, errors.New("metadata: missing pack header")
	}
	rest := blob[len(packMagic):]
	if len(rest) < 1 {
		return nil, errors.New("metadata: truncated pack header")
	}
	tag := CompressionTag(rest[0])
	size, n := binary.Uvarint(rest[1:])
	if n <= 0 {
		return nil, errors.New("metadata: bad size in pack header")
	}
	if size > maxUnpackedSize {
		return nil, fmt.Errorf("metadata: packed size %d exceeds limit", size)
	}
	return decompress(rest[1+n:], tag, int(size))
}

func compress(data []byte, tag CompressionTag) ([]byte, error) {
	switch tag {
	case CompressionNone:
		return data, nil

	case CompressionLZ4:
		destination := make([]byte, lz4.CompressBlockBound(len(data)))
		written, err := lz4.CompressBlock(data, destination, nil)
		if err != nil {
			return nil, fmt.Errorf("metadata: lz4 compress: %w", err)
		}
		// CompressBlock returns 0 for incompressible input.
		if written == 0 || written >= len(data) {
			return nil, errIncompressible
		}
		return destination[:written], nil

	case CompressionZstd:
		out := zstdEncoder.EncodeAll(data, nil)
		if len(out) >= len(data) {
			return nil, errIncompressible
		}
		return out, nil

	default:
		return nil, fmt.Errorf("metadata: unsupported compression tag: %d", tag)
	}
}

func decompress(payload []byte, tag CompressionTag, size int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(payload) != size {
			return nil, fmt.Errorf("metadata: stored size %d does not match expected %d", len(payload), size)
		}
		return payload, nil

	case CompressionLZ4:
		destination := make([]byte, size)
		read, err := lz4.UncompressBlock(payload, destination)
		if err != nil {
			return nil, fmt.Errorf("metadata: lz4 decompress: %w", err)
		}
		if read != size {
			return nil, fmt.Errorf("metadata: lz4 decompress: got %d bytes, expected %d", read, size)
		}
		return destination, nil

	case CompressionZstd:
		out, err := zstdDecoder.DecodeAll(payload, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("metadata: zstd decompress: %w", err)
		}
		if len(out) != size {
			return nil, fmt.Errorf("metadata: zstd decompress: got %d bytes, expected %d", len(out), size)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("metadata: unsupported compression tag: %d", tag)
	}
}
