package sheets

import "github.com/fortuna/augur/internal/derive"

// CoverAnalysisHeaderOffset skips the multi-row preamble the cover
// analysis sheet carries before its header row.
const CoverAnalysisHeaderOffset = 4

// Records realigns a row-major grid into keyed records, using the row
// at headerOffset as field names. Rows shorter than the header are
// padded with empty strings. A grid with no data rows below the
// header yields an empty record set, not an error. Purely structural:
// field meaning is the derivation engine's concern.
func Records(grid [][]string, headerOffset int) []derive.RawRecord {
	if headerOffset < 0 || len(grid) <= headerOffset+1 {
		return []derive.RawRecord{}
	}

	header := grid[headerOffset]
	out := make([]derive.RawRecord, 0, len(grid)-headerOffset-1)

	for _, row := range grid[headerOffset+1:] {
		rec := make(derive.RawRecord, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}
