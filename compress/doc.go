// Package compress provides compression codecs for exported linfit tables.
//
// Coefficient and result tables are written as flat delimited text. Text
// exports with many rows (per-observation result tables, per-group
// coefficient tables across thousands of groups) compress extremely well,
// so the export layer can route the encoded bytes through one of the codecs
// in this package before they reach disk.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Codecs operate on whole payloads: the export layer renders the complete
// table into memory, compresses it in one call, and writes the result.
// Tables are small relative to available memory (flat text, one row per
// observation or group), so streaming writers are not needed.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): pass-through, for plain .csv files.
//   - Zstd (format.CompressionZstd): best ratio for archival exports.
//   - S2 (format.CompressionS2): balanced speed and ratio.
//   - LZ4 (format.CompressionLZ4): fastest decompression.
//
// Select a codec through the factory:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(tableBytes)
//
// # Thread Safety
//
// All codecs are stateless values; internal buffer reuse goes through
// sync.Pool. They are safe for concurrent use.
package compress
