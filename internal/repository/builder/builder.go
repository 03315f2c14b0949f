package builder

import (
	"fmt"
	"strings"
)

// SQLBuilder helps construct SQL queries dynamically.
// Placeholders are written as "?" and rendered as $1, $2, ... which both
// PostgreSQL and SQLite accept.
type SQLBuilder struct {
	table      string
	columns    []string
	values     []interface{}
	where      []string
	whereArgs  []interface{}
	setArgs    []interface{}
	orderBy    []string
	returning  []string
	limit      int
	updateCols []string
	isInsert   bool
	isUpdate   bool
	isDelete   bool
	isSelect   bool
}

// NewSQLBuilder creates a new instance of SQLBuilder.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{}
}

// Select specifies the columns to retrieve.
func (b *SQLBuilder) Select(cols ...string) *SQLBuilder {
	b.isSelect = true
	b.columns = cols
	return b
}

// Insert specifies the table and columns for insertion.
func (b *SQLBuilder) Insert(table string, cols ...string) *SQLBuilder {
	b.isInsert = true
	b.table = table
	b.columns = cols
	return b
}

// Update specifies the table to update.
func (b *SQLBuilder) Update(table string) *SQLBuilder {
	b.isUpdate = true
	b.table = table
	return b
}

// Delete specifies the table to delete from.
func (b *SQLBuilder) Delete(table string) *SQLBuilder {
	b.isDelete = true
	b.table = table
	return b
}

// From specifies the table to select from.
func (b *SQLBuilder) From(table string) *SQLBuilder {
	b.table = table
	return b
}

// Set specifies a column and value for update.
func (b *SQLBuilder) Set(col string, val interface{}) *SQLBuilder {
	b.updateCols = append(b.updateCols, col)
	b.setArgs = append(b.setArgs, val)
	return b
}

// Values specifies the values for insertion.
func (b *SQLBuilder) Values(vals ...interface{}) *SQLBuilder {
	b.values = vals
	return b
}

// Where adds a condition; multiple conditions are joined with AND.
func (b *SQLBuilder) Where(condition string, args ...interface{}) *SQLBuilder {
	b.where = append(b.where, condition)
	b.whereArgs = append(b.whereArgs, args...)
	return b
}

// OrderBy adds an ORDER BY clause.
func (b *SQLBuilder) OrderBy(order string) *SQLBuilder {
	b.orderBy = append(b.orderBy, order)
	return b
}

// Limit adds a LIMIT clause.
func (b *SQLBuilder) Limit(limit int) *SQLBuilder {
	b.limit = limit
	return b
}

// Returning appends a RETURNING clause to INSERT, UPDATE and DELETE statements.
func (b *SQLBuilder) Returning(cols ...string) *SQLBuilder {
	b.returning = cols
	return b
}

// Build constructs the final SQL string and arguments.
func (b *SQLBuilder) Build() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}
	argIndex := 1

	switch {
	case b.isSelect:
		sb.WriteString("SELECT ")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(" FROM ")
		sb.WriteString(b.table)
	case b.isInsert:
		sb.WriteString("INSERT INTO ")
		sb.WriteString(b.table)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(") VALUES (")
		placeholders := make([]string, len(b.values))
		for i := range b.values {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			argIndex++
		}
		sb.WriteString(strings.Join(placeholders, ", "))
		sb.WriteString(")")
		args = append(args, b.values...)
		b.writeReturning(&sb)
		return sb.String(), args
	case b.isUpdate:
		sb.WriteString("UPDATE ")
		sb.WriteString(b.table)
		sb.WriteString(" SET ")
		setClauses := make([]string, len(b.updateCols))
		for i, col := range b.updateCols {
			setClauses[i] = fmt.Sprintf("%s = $%d", col, argIndex)
			argIndex++
		}
		sb.WriteString(strings.Join(setClauses, ", "))
		args = append(args, b.setArgs...)
	case b.isDelete:
		sb.WriteString("DELETE FROM ")
		sb.WriteString(b.table)
	}

	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		parts := strings.Split(strings.Join(b.where, " AND "), "?")
		for i, part := range parts {
			sb.WriteString(part)
			if i < len(parts)-1 {
				sb.WriteString(fmt.Sprintf("$%d", argIndex))
				argIndex++
			}
		}
		args = append(args, b.whereArgs...)
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	if b.limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", b.limit))
	}

	if !b.isSelect {
		b.writeReturning(&sb)
	}

	return sb.String(), args
}

func (b *SQLBuilder) writeReturning(sb *strings.Builder) {
	if len(b.returning) == 0 {
		return
	}
	sb.WriteString(" RETURNING ")
	sb.WriteString(strings.Join(b.returning, ", "))
}
