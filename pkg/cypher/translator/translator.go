// Package translator rewrites the translatable SQL subset (pkg/sqlast)
// into Cypher text (pkg/cypherast), honoring the FORCE_CYPHER bypass
// pragma and the configuration bundle from pkg/cypher/config.
package translator

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltlog"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/cypher/config"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/cypherast"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/sqlast"
)

// Translator turns SQL statement text into Cypher statement text.
type Translator struct {
	cfg   config.Config
	log   *boltlog.Logger
	cache *lru.Cache[string, string]
}

// defaultCacheSize bounds the translation cache; repeated executions of
// the same statement text (the common case for prepared-style drivers)
// skip lex/parse/rewrite entirely.
const defaultCacheSize = 256

// New creates a Translator. log receives diagnostic-level parse messages
// when cfg.DiagnosticLogging is set; pass boltlog.Noop() to discard them.
func New(cfg config.Config, log *boltlog.Logger) (*Translator, error) {
	if log == nil {
		log = boltlog.Noop()
	}
	cache, err := lru.New[string, string](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Translator{cfg: cfg, log: log, cache: cache}, nil
}

// Translate converts sql to Cypher text, or returns sql verbatim if it
// carries the FORCE_CYPHER bypass pragma.
func (t *Translator) Translate(sql string) (string, error) {
	if hasForceCypherPragma(sql) {
		if t.cfg.DiagnosticLogging {
			t.log.Infof("cypher/translator: FORCE_CYPHER pragma present, bypassing translation")
		}
		return sql, nil
	}
	if cached, ok := t.cache.Get(sql); ok {
		return cached, nil
	}

	stmt, err := sqlast.NewParser(sql).ParseStatement()
	if err != nil {
		return "", err
	}
	if t.cfg.DiagnosticLogging {
		t.log.Infof("cypher/translator: parsed statement: %s", stmt.String())
	}

	r := &rewriter{cfg: t.cfg}
	cy, err := r.rewriteStatement(stmt)
	if err != nil {
		return "", err
	}
	out := cy.String()
	t.cache.Add(sql, out)
	return out, nil
}

// rewriter carries the per-statement alias→variable bindings built while
// walking a FROM clause, consulted while translating WHERE/SELECT
// expressions against qualified column references.
type rewriter struct {
	cfg config.Config

	// aliases maps every name a SQL expression can use to reference a
	// table (its alias if any, and its bare name) to the single Cypher
	// pattern variable used for that table.
	aliases map[string]string
	// baseVariable is the FROM clause's own table, used to resolve
	// unqualified column references.
	baseVariable string
	// variableOrder lists pattern variables in the order the FROM clause
	// bound them, for deterministic `*` expansion.
	variableOrder []string
}

func (r *rewriter) rewriteStatement(stmt sqlast.Statement) (cypherast.Statement, error) {
	switch s := stmt.(type) {
	case *sqlast.SelectStatement:
		return r.rewriteSelect(s)
	case *sqlast.InsertStatement:
		return r.rewriteInsert(s)
	case *sqlast.UpdateStatement:
		return r.rewriteUpdate(s)
	case *sqlast.DeleteStatement:
		return r.rewriteDelete(s)
	default:
		return nil, untranslatable("statement type %T", stmt)
	}
}

func (r *rewriter) label(table string) string {
	if mapped, ok := r.cfg.TableToLabelMappings[table]; ok {
		return mapped
	}
	return r.cfg.RenderNameCase.Apply(table)
}

// variableFor returns the pattern variable for a TableRef: its alias if
// given, else the same lower-cased-initial default used for a bare table
// name elsewhere (patternVariable), so an unaliased FROM/JOIN table and an
// unaliased INSERT/UPDATE/DELETE table pick the same variable shape.
func variableFor(ref sqlast.TableRef) string {
	if ref.Alias != "" {
		return ref.Alias
	}
	return patternVariable(ref.Name)
}

func (r *rewriter) rewriteSelect(sel *sqlast.SelectStatement) (*cypherast.MatchStatement, error) {
	if sel.From == nil {
		return nil, untranslatable("SELECT without FROM")
	}
	pattern, err := r.buildPattern(sel.From)
	if err != nil {
		return nil, err
	}

	var where cypherast.Expression
	if sel.Where != nil {
		where, err = r.rewriteExpr(sel.Where)
		if err != nil {
			return nil, err
		}
	}

	items, err := r.rewriteSelectList(sel.Columns)
	if err != nil {
		return nil, err
	}

	var orderBy []cypherast.OrderByItem
	for _, o := range sel.OrderBy {
		expr, err := r.rewriteExpr(o.Expression)
		if err != nil {
			return nil, err
		}
		orderBy = append(orderBy, cypherast.OrderByItem{Expression: expr, Descending: o.Descending})
	}

	var limit, offset cypherast.Expression
	if sel.Limit != nil {
		if limit, err = r.rewriteExpr(sel.Limit); err != nil {
			return nil, err
		}
	}
	if sel.Offset != nil {
		if offset, err = r.rewriteExpr(sel.Offset); err != nil {
			return nil, err
		}
	}

	return &cypherast.MatchStatement{
		Prefix:  sel.Prefix,
		Pattern: pattern,
		Where:   where,
		Return:  items,
		OrderBy: orderBy,
		Skip:    offset,
		Limit:   limit,
	}, nil
}

// buildPattern translates a FROM clause into a PathPattern and populates
// r.aliases/r.baseVariable for the rest of the statement's
// expressions to consult.
func (r *rewriter) buildPattern(from *sqlast.FromClause) (*cypherast.PathPattern, error) {
	r.aliases = map[string]string{}

	baseVar := variableFor(from.Base)
	baseLabel := r.label(from.Base.Name)
	r.baseVariable = baseVar
	r.bindAlias(from.Base, baseVar)
	r.variableOrder = append(r.variableOrder, baseVar)

	pattern := &cypherast.PathPattern{Start: &cypherast.NodePattern{Variable: baseVar, Labels: []string{baseLabel}}}
	prevVar := baseVar

	for _, j := range from.Joins {
		joinVar := variableFor(j.Table)
		joinLabel := r.label(j.Table.Name)
		r.bindAlias(j.Table, joinVar)
		r.variableOrder = append(r.variableOrder, joinVar)

		fkCol, pkCol, err := r.joinColumns(j.On, prevVar, joinVar)
		if err != nil {
			return nil, err
		}
		relType, ok := r.cfg.JoinColumnsToTypeMappings[fkCol+","+pkCol]
		if !ok {
			relType = defaultRelationshipType(fkCol)
		}

		pattern.Steps = append(pattern.Steps, cypherast.PathStep{
			Relationship: &cypherast.RelationshipPattern{
				Variable:  "r" + strconv.Itoa(len(pattern.Steps)+1),
				Type:      relType,
				Direction: cypherast.Outgoing,
			},
			Node: &cypherast.NodePattern{Variable: joinVar, Labels: []string{joinLabel}},
		})
		prevVar = joinVar
	}
	return pattern, nil
}

func (r *rewriter) bindAlias(ref sqlast.TableRef, variable string) {
	r.aliases[ref.Name] = variable
	if ref.Alias != "" {
		r.aliases[ref.Alias] = variable
	}
}

// defaultRelationshipType strips a trailing "_ID" (case-insensitively)
// from the foreign-key column and upper-cases the remainder, the fallback
// used when no explicit join-column-to-type mapping applies.
func defaultRelationshipType(fkColumn string) string {
	trimmed := fkColumn
	if len(trimmed) > 3 && strings.EqualFold(trimmed[len(trimmed)-3:], "_ID") {
		trimmed = trimmed[:len(trimmed)-3]
	}
	return strings.ToUpper(trimmed)
}

// joinColumns extracts the (fk, pk) column pair from a `T.fk = U.pk`-shaped
// join predicate, identifying the fk side by matching its table qualifier
// against leftVar (the pattern built so far) and the pk side against
// rightVar (the table being joined in).
func (r *rewriter) joinColumns(on sqlast.Expression, leftVar, rightVar string) (fk, pk string, err error) {
	bin, ok := on.(*sqlast.BinaryExpr)
	if !ok || bin.Operator != "=" {
		return "", "", untranslatable("JOIN ON clause must be a single column equality")
	}
	leftCol, leftTab, err := r.qualifiedColumn(bin.Left)
	if err != nil {
		return "", "", err
	}
	rightCol, rightTab, err := r.qualifiedColumn(bin.Right)
	if err != nil {
		return "", "", err
	}
	leftVariable := r.aliases[leftTab]
	rightVariable := r.aliases[rightTab]
	switch {
	case leftVariable == leftVar && rightVariable == rightVar:
		return leftCol, rightCol, nil
	case rightVariable == leftVar && leftVariable == rightVar:
		return rightCol, leftCol, nil
	default:
		return "", "", untranslatable("JOIN ON clause must equate the joined tables' own columns")
	}
}

func (r *rewriter) qualifiedColumn(e sqlast.Expression) (column, table string, err error) {
	q, ok := e.(*sqlast.QualifiedIdentifier)
	if !ok {
		return "", "", untranslatable("JOIN ON operand must be a qualified column reference")
	}
	return q.Column(), q.Table(), nil
}

func (r *rewriter) rewriteSelectList(cols []sqlast.SelectItem) ([]cypherast.ReturnItem, error) {
	var items []cypherast.ReturnItem
	for _, c := range cols {
		if c.AllColumns {
			for _, v := range r.orderedVariables() {
				items = append(items, cypherast.ReturnItem{AllOf: v})
			}
			continue
		}
		expr, err := r.rewriteExpr(c.Expression)
		if err != nil {
			return nil, err
		}
		alias := c.Alias
		if alias == "" {
			alias = defaultAlias(c.Expression)
		}
		items = append(items, cypherast.ReturnItem{Expression: expr, Alias: alias})
	}
	return items, nil
}

// orderedVariables returns the pattern variables in the stable order they
// were bound (base table, then each join in order), for `*` expansion.
func (r *rewriter) orderedVariables() []string {
	return r.variableOrder
}

func defaultAlias(e sqlast.Expression) string {
	switch v := e.(type) {
	case *sqlast.QualifiedIdentifier:
		return v.Column()
	case *sqlast.Identifier:
		return v.Name
	default:
		return ""
	}
}

// rewriteExpr translates one SQL expression node into its Cypher
// equivalent.
func (r *rewriter) rewriteExpr(e sqlast.Expression) (cypherast.Expression, error) {
	switch v := e.(type) {
	case *sqlast.Identifier:
		return &cypherast.Property{Variable: r.baseVariable, Name: v.Name}, nil
	case *sqlast.QualifiedIdentifier:
		variable, ok := r.aliases[v.Table()]
		if !ok {
			return nil, untranslatable("column reference to unknown table %q", v.Table())
		}
		return &cypherast.Property{Variable: variable, Name: v.Column()}, nil
	case *sqlast.IntLiteral:
		return &cypherast.Literal{Text: v.String()}, nil
	case *sqlast.FloatLiteral:
		return &cypherast.Literal{Text: v.String()}, nil
	case *sqlast.StringLiteral:
		return &cypherast.Literal{Text: v.String()}, nil
	case *sqlast.NullLiteral:
		return &cypherast.Literal{Text: "null"}, nil
	case *sqlast.Parameter:
		if v.Positional {
			return &cypherast.Param{Name: strconv.Itoa(v.Index)}, nil
		}
		return &cypherast.Param{Name: v.Name}, nil
	case *sqlast.BinaryExpr:
		left, err := r.rewriteExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := r.rewriteExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return &cypherast.BinaryExpr{Left: left, Operator: v.Operator, Right: right}, nil
	case *sqlast.UnaryExpr:
		expr, err := r.rewriteExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return &cypherast.UnaryExpr{Operator: v.Operator, Expr: expr}, nil
	case *sqlast.LikeExpr:
		return r.rewriteLike(v)
	case *sqlast.IsNullExpr:
		expr, err := r.rewriteExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return &cypherast.IsNull{Expr: expr, Not: v.Not}, nil
	case *sqlast.BetweenExpr:
		expr, err := r.rewriteExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		low, err := r.rewriteExpr(v.Low)
		if err != nil {
			return nil, err
		}
		high, err := r.rewriteExpr(v.High)
		if err != nil {
			return nil, err
		}
		return &cypherast.Between{Expr: expr, Low: low, High: high, Not: v.Not}, nil
	case *sqlast.InExpr:
		return r.rewriteIn(v)
	case *sqlast.SubqueryExpr:
		return nil, untranslatable("scalar subquery outside IN(...)")
	default:
		return nil, untranslatable("expression type %T", e)
	}
}

// rewriteLike maps SQL LIKE to Cypher's `=~` anchored regex: `%` becomes
// `.*`, `_` becomes `.`, and any other regex metacharacter in a literal
// pattern is escaped so it matches literally.
func (r *rewriter) rewriteLike(l *sqlast.LikeExpr) (cypherast.Expression, error) {
	expr, err := r.rewriteExpr(l.Expr)
	if err != nil {
		return nil, err
	}
	pattern, err := r.rewriteLikePattern(l.Pattern)
	if err != nil {
		return nil, err
	}
	return &cypherast.RegexMatch{Expr: expr, Pattern: pattern, Not: l.Not}, nil
}

func (r *rewriter) rewriteLikePattern(e sqlast.Expression) (cypherast.Expression, error) {
	lit, ok := e.(*sqlast.StringLiteral)
	if !ok {
		// A parameterised LIKE pattern can't be precompiled to a regex at
		// translate time; pass the parameter through and let the caller
		// supply an already-regex-shaped value.
		return r.rewriteExpr(e)
	}
	return &cypherast.Literal{Text: "'" + strings.ReplaceAll(likeToRegex(lit.Value), "'", "\\'") + "'"}, nil
}

func likeToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, c := range pattern {
		switch c {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		case '.', '*', '+', '?', '(', ')', '[', ']', '{', '}', '^', '$', '|', '\\':
			b.WriteString("\\")
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteString("$")
	return b.String()
}

// rewriteIn maps `IN (v1, v2, ...)` to InList and `IN (subquery)` to a
// pattern comprehension. Only a single-table, unfiltered, single-column
// subquery is supported — anything
// richer needs its own JOIN/WHERE resolved against a different pattern
// than the outer query's, which is out of scope for this mapping.
func (r *rewriter) rewriteIn(in *sqlast.InExpr) (cypherast.Expression, error) {
	expr, err := r.rewriteExpr(in.Expr)
	if err != nil {
		return nil, err
	}
	if in.Subquery == nil {
		values := make([]cypherast.Expression, len(in.Values))
		for i, v := range in.Values {
			values[i], err = r.rewriteExpr(v)
			if err != nil {
				return nil, err
			}
		}
		return &cypherast.InList{Expr: expr, Values: values, Not: in.Not}, nil
	}

	sub := in.Subquery
	if sub.From == nil || len(sub.From.Joins) != 0 || sub.Where != nil || len(sub.Columns) != 1 || sub.Columns[0].AllColumns {
		return nil, untranslatable("IN (subquery) only supports a single unfiltered single-table, single-column SELECT")
	}
	subR := &rewriter{cfg: r.cfg}
	pattern, err := subR.buildPattern(sub.From)
	if err != nil {
		return nil, err
	}
	projected, err := subR.rewriteExpr(sub.Columns[0].Expression)
	if err != nil {
		return nil, err
	}
	return &cypherast.InSubquery{Expr: expr, Pattern: pattern, Projected: projected, Not: in.Not}, nil
}

// rewriteInsert maps a single-table INSERT to CREATE.
func (r *rewriter) rewriteInsert(ins *sqlast.InsertStatement) (*cypherast.CreateStatement, error) {
	r.aliases = map[string]string{ins.Table: patternVariable(ins.Table)}
	r.baseVariable = patternVariable(ins.Table)

	if len(ins.Columns) != len(ins.Values) {
		return nil, untranslatable("INSERT column/value count mismatch")
	}
	props := make([]cypherast.PropertyAssignment, len(ins.Columns))
	for i, col := range ins.Columns {
		val, err := r.rewriteExpr(ins.Values[i])
		if err != nil {
			return nil, err
		}
		props[i] = cypherast.PropertyAssignment{Name: col, Value: val}
	}
	return &cypherast.CreateStatement{
		Node:       &cypherast.NodePattern{Variable: r.baseVariable, Labels: []string{r.label(ins.Table)}},
		Properties: props,
	}, nil
}

// rewriteUpdate maps a single-table UPDATE to MATCH ... SET.
func (r *rewriter) rewriteUpdate(upd *sqlast.UpdateStatement) (*cypherast.UpdateStatement, error) {
	r.aliases = map[string]string{upd.Table: patternVariable(upd.Table)}
	r.baseVariable = patternVariable(upd.Table)

	var where cypherast.Expression
	var err error
	if upd.Where != nil {
		where, err = r.rewriteExpr(upd.Where)
		if err != nil {
			return nil, err
		}
	}
	sets := make([]cypherast.SetAssignment, len(upd.Sets))
	for i, s := range upd.Sets {
		val, err := r.rewriteExpr(s.Value)
		if err != nil {
			return nil, err
		}
		sets[i] = cypherast.SetAssignment{Variable: r.baseVariable, Name: s.Column, Value: val}
	}
	return &cypherast.UpdateStatement{
		Node:  &cypherast.NodePattern{Variable: r.baseVariable, Labels: []string{r.label(upd.Table)}},
		Where: where,
		Sets:  sets,
	}, nil
}

// rewriteDelete maps a single-table DELETE to MATCH ... DELETE.
func (r *rewriter) rewriteDelete(del *sqlast.DeleteStatement) (*cypherast.DeleteStatement, error) {
	r.aliases = map[string]string{del.Table: patternVariable(del.Table)}
	r.baseVariable = patternVariable(del.Table)

	var where cypherast.Expression
	var err error
	if del.Where != nil {
		where, err = r.rewriteExpr(del.Where)
		if err != nil {
			return nil, err
		}
	}
	return &cypherast.DeleteStatement{
		Node:  &cypherast.NodePattern{Variable: r.baseVariable, Labels: []string{r.label(del.Table)}},
		Where: where,
	}, nil
}

// patternVariable derives a default pattern variable for a bare table name
// (no SQL alias available, as with INSERT/UPDATE/DELETE's single table):
// the lower-cased first letter of the table name (e.g. `Person` -> `p`).
func patternVariable(table string) string {
	if table == "" {
		return "t"
	}
	return strings.ToLower(table[:1])
}
