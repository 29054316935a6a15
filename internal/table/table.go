// Package table holds the in-memory tabular dataset handed between pipeline
// stages, with CSV and XLSX readers and atomic writers.
package table

// Table is a header plus string rows. Every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// New builds a Table, padding or truncating rows to the header width.
func New(header []string, rows [][]string) *Table {
	t := &Table{Header: header}
	t.Rows = make([][]string, 0, len(rows))
	for _, r := range rows {
		t.Rows = append(t.Rows, fit(r, len(header)))
	}
	t.reindex()
	return t
}

func fit(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		// First occurrence wins for duplicate headers.
		if _, ok := t.index[h]; !ok {
			t.index[h] = i
		}
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of col, or -1.
func (t *Table) Index(col string) int {
	if i, ok := t.index[col]; ok {
		return i
	}
	return -1
}

// Has reports whether col is present.
func (t *Table) Has(col string) bool { return t.Index(col) >= 0 }

// Value returns the cell at row/col, or "" when the column is absent.
func (t *Table) Value(row int, col string) string {
	i := t.Index(col)
	if i < 0 {
		return ""
	}
	return t.Rows[row][i]
}

// Column returns a copy of every value in col.
func (t *Table) Column(col string) []string {
	i := t.Index(col)
	out := make([]string, len(t.Rows))
	if i < 0 {
		return out
	}
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// Missing returns the columns from cols absent from the header, in order.
func (t *Table) Missing(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Require returns a *SchemaError naming file when any of cols is absent.
func (t *Table) Require(file string, cols ...string) error {
	if missing := t.Missing(cols...); len(missing) > 0 {
		return &SchemaError{File: file, Missing: missing}
	}
	return nil
}

// SetColumn replaces col in place, or appends it when absent. values must
// have one entry per row.
func (t *Table) SetColumn(col string, values []string) {
	i := t.Index(col)
	if i < 0 {
		t.Header = append(t.Header, col)
		t.reindex()
		for r := range t.Rows {
			t.Rows[r] = append(t.Rows[r], values[r])
		}
		return
	}
	for r := range t.Rows {
		t.Rows[r][i] = values[r]
	}
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append([]string(nil), r...)
	}
	return New(append([]string(nil), t.Header...), rows)
}

// Reorder returns a table whose rows follow order (indices into t.Rows).
func (t *Table) Reorder(order []int) *Table {
	rows := make([][]string, 0, len(order))
	for _, i := range order {
		rows = append(rows, append([]string(nil), t.Rows[i]...))
	}
	return New(append([]string(nil), t.Header...), rows)
}
