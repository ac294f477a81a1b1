package querybuilder

import "strings"

// Condition is one predicate of a WHERE clause; conditions are ANDed.
type Condition interface {
	writeSQL(w *writer)
}

type compare struct {
	column string
	op     string
	value  any
}

func Eq(column string, value any) Condition {
	return compare{column: column, op: " = ", value: value}
}

func Gte(column string, value any) Condition {
	return compare{column: column, op: " >= ", value: value}
}

func Lte(column string, value any) Condition {
	return compare{column: column, op: " <= ", value: value}
}

func (c compare) writeSQL(w *writer) {
	w.str(c.column, c.op)
	w.bind(c.value)
}

// Between is an inclusive range on column.
func Between(column string, low, high any) Condition {
	return Expr(column+" >= ? AND "+column+" <= ?", low, high)
}

type eqFold struct {
	column string
	value  string
}

// EqFold compares column and value case-insensitively.
func EqFold(column, value string) Condition {
	return eqFold{column: column, value: value}
}

func (c eqFold) writeSQL(w *writer) {
	w.str("LOWER(", c.column, ") = LOWER(")
	w.bind(c.value)
	w.str(")")
}

type rawExpr struct {
	expr string
	args []any
}

// Expr embeds raw SQL; each ? is bound to the next arg.
func Expr(expr string, args ...any) Condition {
	return rawExpr{expr: expr, args: args}
}

func (c rawExpr) writeSQL(w *writer) {
	w.expr(c.expr, c.args)
}

type literal struct {
	column string
	value  string
	fold   bool
}

// EqLiteral inlines value as a quoted literal. Only for fallbacks when the
// connection cannot bind parameters.
func EqLiteral(column, value string) Condition {
	return literal{column: column, value: value}
}

func EqFoldLiteral(column, value string) Condition {
	return literal{column: column, value: value, fold: true}
}

func (c literal) writeSQL(w *writer) {
	if c.fold {
		w.str("LOWER(", c.column, ") = LOWER(", QuoteLiteral(c.value), ")")
		return
	}
	w.str(c.column, " = ", QuoteLiteral(c.value))
}

func QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
