package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"github.com/arloliu/linfit/compress"
	"github.com/arloliu/linfit/dataset"
	"github.com/arloliu/linfit/format"
	"github.com/arloliu/linfit/internal/options"
)

// ErrEmptyFile indicates a table file with no header row.
var ErrEmptyFile = errors.New("table file has no header row")

// Config holds delimited-file settings shared by WriteTable and ReadTable.
type Config struct {
	Delimiter   rune
	Compression format.CompressionType
}

func defaultConfig() Config {
	return Config{
		Delimiter:   ',',
		Compression: format.CompressionNone,
	}
}

// Option is a functional option for WriteTable and ReadTable.
type Option = options.Option[*Config]

// WithDelimiter sets the field delimiter (default ',').
func WithDelimiter(d rune) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Delimiter = d
	})
}

// WithCompression compresses the rendered file with the given codec
// (default format.CompressionNone). Reads of a compressed file must pass
// the same compression type.
func WithCompression(ct format.CompressionType) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Compression = ct
	})
}

// WriteTable renders the table as a delimited file at path: one header row
// of column names followed by one record per table row.
func WriteTable(t *dataset.Table, path string, opts ...Option) error {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = cfg.Delimiter
	if err := w.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows() {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	codec, err := compress.GetCodec(cfg.Compression)
	if err != nil {
		return err
	}
	payload, err := codec.Compress(buf.Bytes())
	if err != nil {
		return fmt.Errorf("compress table: %w", err)
	}

	return os.WriteFile(path, payload, 0o644)
}

// ReadTable loads a delimited table file written by WriteTable. The first
// record is taken as the column names.
func ReadTable(path string, opts ...Option) (*dataset.Table, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.Compression)
	if err != nil {
		return nil, err
	}
	raw, err := codec.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("decompress table: %w", err)
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = cfg.Delimiter
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	table := dataset.NewTable(records[0]...)
	for i, record := range records[1:] {
		if err := table.AddRow(record...); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	return table, nil
}
