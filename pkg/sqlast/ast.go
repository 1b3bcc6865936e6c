// Package sqlast defines the neutral Abstract Syntax Tree for the
// translatable SQL subset: SELECT with FROM/JOIN/WHERE/ORDER BY/LIMIT/
// OFFSET, and single-table INSERT/UPDATE/DELETE.
package sqlast

import (
	"fmt"
	"strings"
)

// Position locates a node in the original source text, carried the way
// ha1tch-tsqlparser's ast.Node implementations carry their Token for
// SyntaxError(position, message) reporting.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Node is any AST node.
type Node interface {
	Pos() Position
	String() string
}

// Statement is a top-level SQL statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is any value-producing node (column reference, literal,
// parameter, predicate, ...).
type Expression interface {
	Node
	expressionNode()
}

// Identifier is a single unqualified name.
type Identifier struct {
	Position Position
	Name     string
}

func (i *Identifier) Pos() Position    { return i.Position }
func (i *Identifier) expressionNode()  {}
func (i *Identifier) String() string   { return i.Name }

// QualifiedIdentifier is a dotted name, typically table.column.
type QualifiedIdentifier struct {
	Position Position
	Parts    []string
}

func (q *QualifiedIdentifier) Pos() Position   { return q.Position }
func (q *QualifiedIdentifier) expressionNode() {}
func (q *QualifiedIdentifier) String() string  { return strings.Join(q.Parts, ".") }

// Table returns all parts but the last (the column), joined; empty if the
// identifier isn't qualified.
func (q *QualifiedIdentifier) Table() string {
	if len(q.Parts) < 2 {
		return ""
	}
	return strings.Join(q.Parts[:len(q.Parts)-1], ".")
}

// Column returns the last part.
func (q *QualifiedIdentifier) Column() string {
	if len(q.Parts) == 0 {
		return ""
	}
	return q.Parts[len(q.Parts)-1]
}

// IntLiteral is an integer literal.
type IntLiteral struct {
	Position Position
	Value    int64
}

func (l *IntLiteral) Pos() Position   { return l.Position }
func (l *IntLiteral) expressionNode() {}
func (l *IntLiteral) String() string  { return fmt.Sprintf("%d", l.Value) }

// FloatLiteral is a floating-point literal.
type FloatLiteral struct {
	Position Position
	Value    float64
}

func (l *FloatLiteral) Pos() Position   { return l.Position }
func (l *FloatLiteral) expressionNode() {}
func (l *FloatLiteral) String() string  { return fmt.Sprintf("%v", l.Value) }

// StringLiteral is a quoted string literal; Value holds the unescaped text.
type StringLiteral struct {
	Position Position
	Value    string
}

func (l *StringLiteral) Pos() Position   { return l.Position }
func (l *StringLiteral) expressionNode() {}
func (l *StringLiteral) String() string  { return "'" + strings.ReplaceAll(l.Value, "'", "''") + "'" }

// NullLiteral is the SQL NULL keyword.
type NullLiteral struct {
	Position Position
}

func (l *NullLiteral) Pos() Position   { return l.Position }
func (l *NullLiteral) expressionNode() {}
func (l *NullLiteral) String() string  { return "NULL" }

// Parameter is either a positional `?` (Index is its 1-based ordinal among
// positional parameters) or a named `:name` parameter.
type Parameter struct {
	Position   Position
	Positional bool
	Index      int
	Name       string
}

func (p *Parameter) Pos() Position   { return p.Position }
func (p *Parameter) expressionNode() {}
func (p *Parameter) String() string {
	if p.Positional {
		return fmt.Sprintf("?%d", p.Index)
	}
	return ":" + p.Name
}

// BinaryExpr covers arithmetic and comparison infix operators, and the
// logical AND/OR connectives.
type BinaryExpr struct {
	Position Position
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpr) Pos() Position   { return b.Position }
func (b *BinaryExpr) expressionNode() {}
func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// UnaryExpr covers NOT and unary minus.
type UnaryExpr struct {
	Position Position
	Operator string
	Expr     Expression
}

func (u *UnaryExpr) Pos() Position   { return u.Position }
func (u *UnaryExpr) expressionNode() {}
func (u *UnaryExpr) String() string  { return u.Operator + " " + u.Expr.String() }

// LikeExpr is `expr [NOT] LIKE pattern`.
type LikeExpr struct {
	Position Position
	Expr     Expression
	Not      bool
	Pattern  Expression
}

func (l *LikeExpr) Pos() Position   { return l.Position }
func (l *LikeExpr) expressionNode() {}
func (l *LikeExpr) String() string {
	if l.Not {
		return l.Expr.String() + " NOT LIKE " + l.Pattern.String()
	}
	return l.Expr.String() + " LIKE " + l.Pattern.String()
}

// IsNullExpr is `expr IS [NOT] NULL`.
type IsNullExpr struct {
	Position Position
	Expr     Expression
	Not      bool
}

func (e *IsNullExpr) Pos() Position   { return e.Position }
func (e *IsNullExpr) expressionNode() {}
func (e *IsNullExpr) String() string {
	if e.Not {
		return e.Expr.String() + " IS NOT NULL"
	}
	return e.Expr.String() + " IS NULL"
}

// BetweenExpr is `expr [NOT] BETWEEN low AND high`.
type BetweenExpr struct {
	Position Position
	Expr     Expression
	Not      bool
	Low      Expression
	High     Expression
}

func (b *BetweenExpr) Pos() Position   { return b.Position }
func (b *BetweenExpr) expressionNode() {}
func (b *BetweenExpr) String() string {
	not := ""
	if b.Not {
		not = "NOT "
	}
	return b.Expr.String() + " " + not + "BETWEEN " + b.Low.String() + " AND " + b.High.String()
}

// InExpr is `expr [NOT] IN (v1, v2, ...)` or `expr [NOT] IN (subquery)`.
type InExpr struct {
	Position Position
	Expr     Expression
	Not      bool
	Values   []Expression
	Subquery *SelectStatement
}

func (e *InExpr) Pos() Position   { return e.Position }
func (e *InExpr) expressionNode() {}
func (e *InExpr) String() string {
	not := ""
	if e.Not {
		not = "NOT "
	}
	if e.Subquery != nil {
		return e.Expr.String() + " " + not + "IN (" + e.Subquery.String() + ")"
	}
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = v.String()
	}
	return e.Expr.String() + " " + not + "IN (" + strings.Join(parts, ", ") + ")"
}

// SelectItem is one entry in a SELECT list: an expression, an optional
// alias, or `*`.
type SelectItem struct {
	Expression Expression
	Alias      string
	AllColumns bool
}

func (s SelectItem) String() string {
	if s.AllColumns {
		return "*"
	}
	if s.Alias != "" {
		return s.Expression.String() + " AS " + s.Alias
	}
	return s.Expression.String()
}

// TableRef names a table and its optional alias.
type TableRef struct {
	Position Position
	Name     string
	Alias    string
}

func (t TableRef) Pos() Position { return t.Position }
func (t TableRef) String() string {
	if t.Alias != "" {
		return t.Name + " " + t.Alias
	}
	return t.Name
}

// Join is one `[INNER|LEFT] JOIN table ON predicate` clause.
type Join struct {
	Position Position
	Type     string // INNER, LEFT
	Table    TableRef
	On       Expression
}

func (j Join) Pos() Position { return j.Position }
func (j Join) String() string {
	return j.Type + " JOIN " + j.Table.String() + " ON " + j.On.String()
}

// FromClause is a base table plus zero or more joins against it.
type FromClause struct {
	Position Position
	Base     TableRef
	Joins    []Join
}

func (f *FromClause) Pos() Position { return f.Position }
func (f *FromClause) String() string {
	var out strings.Builder
	out.WriteString("FROM ")
	out.WriteString(f.Base.String())
	for _, j := range f.Joins {
		out.WriteString(" ")
		out.WriteString(j.String())
	}
	return out.String()
}

// OrderByItem is one ORDER BY entry.
type OrderByItem struct {
	Expression Expression
	Descending bool
}

func (o OrderByItem) String() string {
	if o.Descending {
		return o.Expression.String() + " DESC"
	}
	return o.Expression.String() + " ASC"
}

// SelectStatement is a (possibly EXPLAIN/PROFILE-prefixed) SELECT.
type SelectStatement struct {
	Position Position
	Prefix   string // "", "EXPLAIN", or "PROFILE"
	Distinct bool
	Columns  []SelectItem
	From     *FromClause
	Where    Expression
	OrderBy  []OrderByItem
	Limit    Expression
	Offset   Expression
}

func (s *SelectStatement) Pos() Position  { return s.Position }
func (s *SelectStatement) statementNode() {}
func (s *SelectStatement) String() string {
	var out strings.Builder
	if s.Prefix != "" {
		out.WriteString(s.Prefix)
		out.WriteString(" ")
	}
	out.WriteString("SELECT ")
	if s.Distinct {
		out.WriteString("DISTINCT ")
	}
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = c.String()
	}
	out.WriteString(strings.Join(cols, ", "))
	if s.From != nil {
		out.WriteString(" ")
		out.WriteString(s.From.String())
	}
	if s.Where != nil {
		out.WriteString(" WHERE ")
		out.WriteString(s.Where.String())
	}
	if len(s.OrderBy) > 0 {
		out.WriteString(" ORDER BY ")
		items := make([]string, len(s.OrderBy))
		for i, o := range s.OrderBy {
			items[i] = o.String()
		}
		out.WriteString(strings.Join(items, ", "))
	}
	if s.Limit != nil {
		out.WriteString(" LIMIT ")
		out.WriteString(s.Limit.String())
	}
	if s.Offset != nil {
		out.WriteString(" OFFSET ")
		out.WriteString(s.Offset.String())
	}
	return out.String()
}

// InsertStatement is a single-table INSERT with one VALUES row; INSERT ...
// SELECT is not parsed.
type InsertStatement struct {
	Position Position
	Table    string
	Columns  []string
	Values   []Expression // one row; the translatable subset doesn't need multi-row batches
}

func (i *InsertStatement) Pos() Position  { return i.Position }
func (i *InsertStatement) statementNode() {}
func (i *InsertStatement) String() string {
	vals := make([]string, len(i.Values))
	for j, v := range i.Values {
		vals[j] = v.String()
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", i.Table, strings.Join(i.Columns, ", "), strings.Join(vals, ", "))
}

// SetClause is one `column = value` assignment in an UPDATE.
type SetClause struct {
	Column string
	Value  Expression
}

// UpdateStatement is a single-table UPDATE.
type UpdateStatement struct {
	Position Position
	Table    string
	Sets     []SetClause
	Where    Expression
}

func (u *UpdateStatement) Pos() Position  { return u.Position }
func (u *UpdateStatement) statementNode() {}
func (u *UpdateStatement) String() string {
	sets := make([]string, len(u.Sets))
	for i, s := range u.Sets {
		sets[i] = s.Column + " = " + s.Value.String()
	}
	out := fmt.Sprintf("UPDATE %s SET %s", u.Table, strings.Join(sets, ", "))
	if u.Where != nil {
		out += " WHERE " + u.Where.String()
	}
	return out
}

// DeleteStatement is a single-table DELETE.
type DeleteStatement struct {
	Position Position
	Table    string
	Where    Expression
}

func (d *DeleteStatement) Pos() Position  { return d.Position }
func (d *DeleteStatement) statementNode() {}
func (d *DeleteStatement) String() string {
	out := "DELETE FROM " + d.Table
	if d.Where != nil {
		out += " WHERE " + d.Where.String()
	}
	return out
}
