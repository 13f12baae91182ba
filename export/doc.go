// Package export writes and reads linfit tables as flat delimited files.
//
// Tables (coefficient exports, result tables) are rendered with the
// standard CSV encoder, a configurable delimiter and a single header row of
// column names, then optionally routed through one of the compression
// codecs before hitting disk. ReadTable reverses the process, so exported
// coefficient tables can be re-loaded losslessly.
//
//	table, err := m.ExportCoefficients("")
//	if err != nil {
//	    return err
//	}
//	err = export.WriteTable(table, "coeffs.csv.zst",
//	    export.WithCompression(format.CompressionZstd),
//	)
package export
