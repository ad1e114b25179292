package querybuilder

import (
	"fmt"
	"strings"
)

type conflictAction int

const (
	conflictNone conflictAction = iota
	conflictDoNothing
	conflictDoUpdate
)

type InsertBuilder struct {
	table           string
	columns         []string
	rows            [][]any
	conflictColumns []string
	conflictAction  conflictAction
	updateColumns   []string
	updateExtra     []string
	updateWhere     string
	returning       []string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// OnConflict names the unique key used by DoNothing / DoUpdate.
func (b *InsertBuilder) OnConflict(columns ...string) *InsertBuilder {
	b.conflictColumns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) DoNothing() *InsertBuilder {
	b.conflictAction = conflictDoNothing
	return b
}

// DoUpdate overwrites the given columns from EXCLUDED. extra is appended verbatim,
// e.g. "updated_at = NOW()".
func (b *InsertBuilder) DoUpdate(columns []string, extra ...string) *InsertBuilder {
	b.conflictAction = conflictDoUpdate
	b.updateColumns = append([]string(nil), columns...)
	b.updateExtra = append([]string(nil), extra...)
	return b
}

// UpdateWhere limits DoUpdate to conflicting rows matching expr.
func (b *InsertBuilder) UpdateWhere(expr string) *InsertBuilder {
	b.updateWhere = strings.TrimSpace(expr)
	return b
}

func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.returning = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}
	if b.conflictAction != conflictNone && len(b.conflictColumns) == 0 {
		return "", nil, fmt.Errorf("conflict columns are required")
	}
	if b.conflictAction == conflictDoUpdate && len(b.updateColumns) == 0 && len(b.updateExtra) == 0 {
		return "", nil, fmt.Errorf("update columns are required")
	}

	var buf strings.Builder
	buf.WriteString("INSERT INTO ")
	buf.WriteString(b.table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(") VALUES ")

	args := make([]any, 0, len(b.rows)*len(b.columns))
	argIndex := 1
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(bind(&args, &argIndex, value))
		}
		buf.WriteString(")")
	}

	switch b.conflictAction {
	case conflictDoNothing:
		buf.WriteString(" ON CONFLICT (")
		buf.WriteString(strings.Join(b.conflictColumns, ", "))
		buf.WriteString(") DO NOTHING")
	case conflictDoUpdate:
		sets := make([]string, 0, len(b.updateColumns)+len(b.updateExtra))
		for _, col := range b.updateColumns {
			sets = append(sets, col+" = EXCLUDED."+col)
		}
		sets = append(sets, b.updateExtra...)
		buf.WriteString(" ON CONFLICT (")
		buf.WriteString(strings.Join(b.conflictColumns, ", "))
		buf.WriteString(") DO UPDATE SET ")
		buf.WriteString(strings.Join(sets, ", "))
		if b.updateWhere != "" {
			buf.WriteString(" WHERE ")
			buf.WriteString(b.updateWhere)
		}
	}

	if len(b.returning) > 0 {
		buf.WriteString(" RETURNING ")
		buf.WriteString(strings.Join(b.returning, ", "))
	}

	return buf.String(), args, nil
}
