package sqlites3

import (
	"database/sql"
	"fmt"

	"github.com/candrsn/sqlite-s3-query/internal/errs"
)

// CellKind identifies which field of a Cell holds the value, mirroring
// SQLite's own dynamic column typing.
type CellKind int

const (
	CellNull CellKind = iota
	CellInt
	CellFloat
	CellText
	CellBlob
)

// Cell is one typed value in a Row. Kind selects which of Int, Float,
// Text, or Blob is meaningful; for CellNull none of them is.
type Cell struct {
	Kind  CellKind
	Int   int64
	Float float64
	Text  string
	Blob  []byte
}

// Row is one result row: the column names (shared across every row of a
// QueryHandle) paired with that row's typed cells, in the engine's
// native column order.
type Row struct {
	Columns []string
	Cells   []Cell
}

// QueryHandle is a scoped, forward-only iterator over one prepared
// statement's result rows. It is not restartable.
type QueryHandle struct {
	stmt    *sql.Stmt
	rows    *sql.Rows
	columns []string
	current Row
}

// Columns returns the result set's column names.
func (q *QueryHandle) Columns() []string {
	return q.columns
}

// Next advances to the next row, returning false when the result set is
// exhausted. Call Row to read the row it just advanced to.
func (q *QueryHandle) Next() (bool, error) {
	if !q.rows.Next() {
		if err := q.rows.Err(); err != nil {
			return false, errs.RowError("iterating rows", err)
		}
		return false, nil
	}

	dest := make([]interface{}, len(q.columns))
	ptrs := make([]interface{}, len(q.columns))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := q.rows.Scan(ptrs...); err != nil {
		return false, errs.RowError("scanning row", err)
	}

	cells := make([]Cell, len(dest))
	for i, v := range dest {
		cells[i] = cellFromValue(v)
	}
	q.current = Row{Columns: q.columns, Cells: cells}
	return true, nil
}

// Row returns the row Next most recently advanced to.
func (q *QueryHandle) Row() Row {
	return q.current
}

// Close finalizes the statement unconditionally, releasing both the
// open row cursor and the compiled statement.
func (q *QueryHandle) Close() error {
	var firstErr error
	if err := q.rows.Close(); err != nil && firstErr == nil {
		firstErr = errs.Wrap(err, "closing rows")
	}
	if err := q.stmt.Close(); err != nil && firstErr == nil {
		firstErr = errs.Wrap(err, "closing statement")
	}
	return firstErr
}

func cellFromValue(v interface{}) Cell {
	switch t := v.(type) {
	case nil:
		return Cell{Kind: CellNull}
	case int64:
		return Cell{Kind: CellInt, Int: t}
	case float64:
		return Cell{Kind: CellFloat, Float: t}
	case string:
		return Cell{Kind: CellText, Text: t}
	case []byte:
		return Cell{Kind: CellBlob, Blob: t}
	default:
		return Cell{Kind: CellText, Text: fmt.Sprintf("%v", t)}
	}
}
