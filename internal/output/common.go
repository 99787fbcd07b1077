package output

// Output formats.
const (
	FormatTSV    = "tsv"
	FormatQIIME2 = "qiime2"
	FormatJSONL  = "jsonl"
)

// QIIME2Header is the header row of QIIME2 taxonomy tables.
const QIIME2Header = "Feature ID\tTaxon\tConfidence"
