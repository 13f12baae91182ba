package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains internal state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// Block-type flag prepended to every LZ4 payload. Small text tables are
// often incompressible, and CompressBlock signals that by writing zero
// bytes; a stored-block flag keeps the round trip lossless in that case.
const (
	lz4BlockStored     = 0x0
	lz4BlockCompressed = 0x1
)

// LZ4Compressor compresses table payloads with LZ4 block compression.
// Decompression is very fast, which suits exports that are re-read often.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using LZ4 block compression. The
// output carries a one-byte block-type prefix; incompressible input is
// stored verbatim.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, 1+lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[1:])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		stored := make([]byte, 1+len(data))
		stored[0] = lz4BlockStored
		copy(stored[1:], data)

		return stored, nil
	}

	dst[0] = lz4BlockCompressed

	return dst[:1+n], nil
}

// Decompress decompresses an LZ4 payload written by Compress.
//
// LZ4 blocks do not record the decompressed size, so the buffer starts at
// 4x the compressed size and doubles on ErrInvalidSourceShortBuffer until
// a 128MB safety limit. Delimited text tables never approach that limit;
// exceeding it indicates corrupted input.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	block := data[1:]
	if data[0] == lz4BlockStored {
		return append([]byte(nil), block...), nil
	}

	bufSize := len(block) * 4
	const maxSize = 128 * 1024 * 1024

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(block, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}

			return nil, err
		}

		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}
