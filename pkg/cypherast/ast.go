// Package cypherast defines the neutral Abstract Syntax Tree for the Cypher
// subset the translator renders into: MATCH/WHERE/RETURN, CREATE, SET, and
// DELETE over node/relationship patterns.
package cypherast

import (
	"fmt"
	"strings"
)

// Node is any Cypher AST node.
type Node interface {
	String() string
}

// Expression is a value-producing Cypher node.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a top-level Cypher statement.
type Statement interface {
	Node
	statementNode()
}

// Property is `variable.name`, the Cypher rendering of a SQL column
// reference.
type Property struct {
	Variable string
	Name     string
}

func (p *Property) expressionNode() {}
func (p *Property) String() string  { return p.Variable + "." + p.Name }

// Param is a Cypher query parameter, `$name`.
type Param struct {
	Name string
}

func (p *Param) expressionNode() {}
func (p *Param) String() string  { return "$" + p.Name }

// Literal is a scalar literal rendered verbatim (already quoted/escaped by
// the caller for strings).
type Literal struct {
	Text string
}

func (l *Literal) expressionNode() {}
func (l *Literal) String() string  { return l.Text }

// BinaryExpr is an infix operator expression (comparisons, AND/OR,
// arithmetic).
type BinaryExpr struct {
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpr) expressionNode() {}
func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// UnaryExpr is NOT or unary minus.
type UnaryExpr struct {
	Operator string
	Expr     Expression
}

func (u *UnaryExpr) expressionNode() {}
func (u *UnaryExpr) String() string  { return u.Operator + " " + u.Expr.String() }

// RegexMatch renders `expr =~ pattern`, the Cypher equivalent of SQL LIKE.
type RegexMatch struct {
	Expr    Expression
	Pattern Expression
	Not     bool
}

func (r *RegexMatch) expressionNode() {}
func (r *RegexMatch) String() string {
	m := r.Expr.String() + " =~ " + r.Pattern.String()
	if r.Not {
		return "NOT (" + m + ")"
	}
	return m
}

// IsNull is `expr IS [NOT] NULL`.
type IsNull struct {
	Expr Expression
	Not  bool
}

func (e *IsNull) expressionNode() {}
func (e *IsNull) String() string {
	if e.Not {
		return e.Expr.String() + " IS NOT NULL"
	}
	return e.Expr.String() + " IS NULL"
}

// Between renders a range comparison using Cypher's chained comparisons.
type Between struct {
	Expr Expression
	Low  Expression
	High Expression
	Not  bool
}

func (b *Between) expressionNode() {}
func (b *Between) String() string {
	rng := b.Low.String() + " <= " + b.Expr.String() + " <= " + b.High.String()
	if b.Not {
		return "NOT (" + rng + ")"
	}
	return rng
}

// InList renders list membership, `expr IN [v1, v2, ...]`.
type InList struct {
	Expr   Expression
	Values []Expression
	Not    bool
}

func (i *InList) expressionNode() {}
func (i *InList) String() string {
	parts := make([]string, len(i.Values))
	for j, v := range i.Values {
		parts[j] = v.String()
	}
	m := i.Expr.String() + " IN [" + strings.Join(parts, ", ") + "]"
	if i.Not {
		return "NOT (" + m + ")"
	}
	return m
}

// InSubquery renders list/subquery membership using a pattern
// comprehension, `expr IN [pattern | projected]` — the idiomatic Cypher
// shape for `IN (subquery)`, since Cypher has no correlated scalar
// subquery operator.
type InSubquery struct {
	Expr      Expression
	Pattern   *PathPattern
	Projected Expression
	Not       bool
}

func (i *InSubquery) expressionNode() {}
func (i *InSubquery) String() string {
	m := fmt.Sprintf("%s IN [%s | %s]", i.Expr.String(), i.Pattern.String(), i.Projected.String())
	if i.Not {
		return "NOT (" + m + ")"
	}
	return m
}

// NodePattern is `(variable:Label1:Label2)`; it carries no property map
// (CreateStatement renders an INSERT's properties).
type NodePattern struct {
	Variable string
	Labels   []string
}

func (n *NodePattern) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(n.Variable)
	for _, l := range n.Labels {
		b.WriteString(":")
		b.WriteString(l)
	}
	b.WriteString(")")
	return b.String()
}

// RelationshipPattern is `-[variable:TYPE]->` (or its reverse direction).
type RelationshipPattern struct {
	Variable  string
	Type      string
	Direction Direction
}

// Direction is the arrow orientation of a RelationshipPattern.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
)

func (r *RelationshipPattern) String() string {
	mid := "[" + r.Variable + ":" + r.Type + "]"
	if r.Direction == Incoming {
		return "<-" + mid + "-"
	}
	return "-" + mid + "->"
}

// PathPattern is an alternating node/relationship chain, e.g.
// `(t:L)-[r:R]->(u:M)`.
type PathPattern struct {
	Start *NodePattern
	Steps []PathStep
}

// PathStep is one relationship hop plus the node it lands on.
type PathStep struct {
	Relationship *RelationshipPattern
	Node         *NodePattern
}

func (p *PathPattern) String() string {
	var b strings.Builder
	b.WriteString(p.Start.String())
	for _, s := range p.Steps {
		b.WriteString(s.Relationship.String())
		b.WriteString(s.Node.String())
	}
	return b.String()
}

// ReturnItem is one `expr AS alias` projection.
type ReturnItem struct {
	Expression Expression
	Alias      string
	AllOf      string // non-empty means "t.*"-style expansion for variable t
}

func (r ReturnItem) String() string {
	if r.AllOf != "" {
		return r.AllOf
	}
	if r.Alias != "" {
		return r.Expression.String() + " AS " + r.Alias
	}
	return r.Expression.String()
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
	return o.Expression.String()
}

// MatchStatement is `[EXPLAIN|PROFILE] MATCH pattern [WHERE ...] RETURN ...
// [ORDER BY ...] [SKIP ...] [LIMIT ...]`.
type MatchStatement struct {
	Prefix  string
	Pattern *PathPattern
	Where   Expression
	Return  []ReturnItem
	OrderBy []OrderByItem
	Skip    Expression
	Limit   Expression
}

func (m *MatchStatement) statementNode() {}
func (m *MatchStatement) String() string {
	var b strings.Builder
	if m.Prefix != "" {
		b.WriteString(m.Prefix)
		b.WriteString(" ")
	}
	b.WriteString("MATCH ")
	b.WriteString(m.Pattern.String())
	if m.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(m.Where.String())
	}
	b.WriteString(" RETURN ")
	items := make([]string, len(m.Return))
	for i, r := range m.Return {
		items[i] = r.String()
	}
	b.WriteString(strings.Join(items, ", "))
	if len(m.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		obs := make([]string, len(m.OrderBy))
		for i, o := range m.OrderBy {
			obs[i] = o.String()
		}
		b.WriteString(strings.Join(obs, ", "))
	}
	if m.Skip != nil {
		b.WriteString(" SKIP ")
		b.WriteString(m.Skip.String())
	}
	if m.Limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(m.Limit.String())
	}
	return b.String()
}

// PropertyAssignment is one `name: value` entry in a CREATE's
// inline property map.
type PropertyAssignment struct {
	Name  string
	Value Expression
}

// CreateStatement is `CREATE (t:L {props})`, the rendering of a single-
// table INSERT.
type CreateStatement struct {
	Node       *NodePattern
	Properties []PropertyAssignment
}

func (c *CreateStatement) statementNode() {}
func (c *CreateStatement) String() string {
	var b strings.Builder
	b.WriteString("CREATE (")
	b.WriteString(c.Node.Variable)
	for _, l := range c.Node.Labels {
		b.WriteString(":")
		b.WriteString(l)
	}
	if len(c.Properties) > 0 {
		b.WriteString(" {")
		parts := make([]string, len(c.Properties))
		for i, p := range c.Properties {
			parts[i] = p.Name + ": " + p.Value.String()
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("}")
	}
	b.WriteString(")")
	return b.String()
}

// SetAssignment is one `variable.name = value` entry in a SET clause.
type SetAssignment struct {
	Variable string
	Name     string
	Value    Expression
}

// UpdateStatement is `MATCH (t:L) [WHERE ...] SET t.a = v, ...`, the
// rendering of a single-table UPDATE.
type UpdateStatement struct {
	Node  *NodePattern
	Where Expression
	Sets  []SetAssignment
}

func (u *UpdateStatement) statementNode() {}
func (u *UpdateStatement) String() string {
	var b strings.Builder
	b.WriteString("MATCH ")
	b.WriteString(u.Node.String())
	if u.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(u.Where.String())
	}
	b.WriteString(" SET ")
	parts := make([]string, len(u.Sets))
	for i, s := range u.Sets {
		parts[i] = s.Variable + "." + s.Name + " = " + s.Value.String()
	}
	b.WriteString(strings.Join(parts, ", "))
	return b.String()
}

// DeleteStatement is `MATCH (t:L) [WHERE ...] DELETE t`, the rendering of
// a single-table DELETE.
type DeleteStatement struct {
	Node  *NodePattern
	Where Expression
}

func (d *DeleteStatement) statementNode() {}
func (d *DeleteStatement) String() string {
	var b strings.Builder
	b.WriteString("MATCH ")
	b.WriteString(d.Node.String())
	if d.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(d.Where.String())
	}
	b.WriteString(" DELETE ")
	b.WriteString(d.Node.Variable)
	return b.String()
}
