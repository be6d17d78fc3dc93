package table

// Table is a parsed CSV. Every row has exactly len(Columns) values; cells
// missing from short rows are empty strings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Info describes a validated upload.
type Info struct {
	Rows    int64
	Columns []string
	Size    int64
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

//nolint:gochecknoglobals // read-only lookup table
var missingTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissing reports whether a cell holds no value: it is empty or one of the
// conventional NA markers written by spreadsheet and dataframe exports.
func IsMissing(value string) bool {
	_, ok := missingTokens[value]
	return ok
}
