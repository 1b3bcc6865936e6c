package sqlast

import "testing"

func TestLexerTokensCoverOperatorsAndLiterals(t *testing.T) {
	src := "SELECT a.b, 'x''y', 3.14, ?, :name FROM t WHERE a <> 1 AND b >= 2"
	l := NewLexer(src)
	var got []TokenType
	for {
		tok := l.NextToken()
		got = append(got, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	want := []TokenType{
		SELECT, IDENT, DOT, IDENT, COMMA, STRING, COMMA, FLOAT, COMMA,
		PARAM_POSITIONAL, COMMA, PARAM_NAMED, FROM, IDENT, WHERE,
		IDENT, NEQ, INT, AND, IDENT, GTE, INT, EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexerEscapedQuoteInString(t *testing.T) {
	l := NewLexer("'it''s'")
	tok := l.NextToken()
	if tok.Type != STRING || tok.Literal != "it's" {
		t.Fatalf("got %+v, want STRING \"it's\"", tok)
	}
}

func TestParseSelectWithJoinWhereOrderLimit(t *testing.T) {
	src := `SELECT t.id, u.name AS uname
		FROM orders t
		INNER JOIN customers u ON t.customer_id = u.id
		WHERE t.status = 'open' AND t.total > 100
		ORDER BY t.id DESC
		LIMIT 10 OFFSET 5`
	stmt, err := NewParser(src).ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	sel, ok := stmt.(*SelectStatement)
	if !ok {
		t.Fatalf("got %T, want *SelectStatement", stmt)
	}
	if len(sel.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(sel.Columns))
	}
	if sel.Columns[1].Alias != "uname" {
		t.Fatalf("alias = %q, want uname", sel.Columns[1].Alias)
	}
	if sel.From == nil || sel.From.Base.Name != "orders" || sel.From.Base.Alias != "t" {
		t.Fatalf("from = %+v", sel.From)
	}
	if len(sel.From.Joins) != 1 || sel.From.Joins[0].Type != "INNER" || sel.From.Joins[0].Table.Name != "customers" {
		t.Fatalf("joins = %+v", sel.From.Joins)
	}
	if sel.Where == nil {
		t.Fatalf("expected WHERE clause")
	}
	and, ok := sel.Where.(*BinaryExpr)
	if !ok || and.Operator != "AND" {
		t.Fatalf("where root = %+v, want top-level AND", sel.Where)
	}
	if len(sel.OrderBy) != 1 || !sel.OrderBy[0].Descending {
		t.Fatalf("order by = %+v", sel.OrderBy)
	}
	if lim, ok := sel.Limit.(*IntLiteral); !ok || lim.Value != 10 {
		t.Fatalf("limit = %+v", sel.Limit)
	}
	if off, ok := sel.Offset.(*IntLiteral); !ok || off.Value != 5 {
		t.Fatalf("offset = %+v", sel.Offset)
	}
}

func TestParseExplainAndProfilePrefix(t *testing.T) {
	for _, prefix := range []string{"EXPLAIN", "PROFILE"} {
		stmt, err := NewParser(prefix + " SELECT * FROM t").ParseStatement()
		if err != nil {
			t.Fatalf("%s: ParseStatement: %v", prefix, err)
		}
		sel := stmt.(*SelectStatement)
		if sel.Prefix != prefix {
			t.Fatalf("prefix = %q, want %q", sel.Prefix, prefix)
		}
		if len(sel.Columns) != 1 || !sel.Columns[0].AllColumns {
			t.Fatalf("columns = %+v, want single * item", sel.Columns)
		}
	}
}

func TestParseLikeNotLike(t *testing.T) {
	stmt, err := NewParser("SELECT * FROM t WHERE name LIKE 'a%'").ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	like, ok := stmt.(*SelectStatement).Where.(*LikeExpr)
	if !ok || like.Not {
		t.Fatalf("where = %+v, want non-negated LikeExpr", stmt.(*SelectStatement).Where)
	}

	stmt, err = NewParser("SELECT * FROM t WHERE name NOT LIKE 'a%'").ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	like, ok = stmt.(*SelectStatement).Where.(*LikeExpr)
	if !ok || !like.Not {
		t.Fatalf("where = %+v, want negated LikeExpr", stmt.(*SelectStatement).Where)
	}
}

func TestParseIsNullAndIsNotNull(t *testing.T) {
	stmt, err := NewParser("SELECT * FROM t WHERE deleted_at IS NOT NULL").ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	isn, ok := stmt.(*SelectStatement).Where.(*IsNullExpr)
	if !ok || !isn.Not {
		t.Fatalf("where = %+v, want negated IsNullExpr", stmt.(*SelectStatement).Where)
	}
}

func TestParseBetweenAndNotBetween(t *testing.T) {
	stmt, err := NewParser("SELECT * FROM t WHERE age BETWEEN 18 AND 65").ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	bt, ok := stmt.(*SelectStatement).Where.(*BetweenExpr)
	if !ok || bt.Not {
		t.Fatalf("where = %+v, want non-negated BetweenExpr", stmt.(*SelectStatement).Where)
	}

	stmt, err = NewParser("SELECT * FROM t WHERE age NOT BETWEEN 18 AND 65").ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	bt, ok = stmt.(*SelectStatement).Where.(*BetweenExpr)
	if !ok || !bt.Not {
		t.Fatalf("where = %+v, want negated BetweenExpr", stmt.(*SelectStatement).Where)
	}
}

func TestParseInValueListAndSubqueryAndNotIn(t *testing.T) {
	stmt, err := NewParser("SELECT * FROM t WHERE id IN (1, 2, 3)").ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	in, ok := stmt.(*SelectStatement).Where.(*InExpr)
	if !ok || in.Not || len(in.Values) != 3 {
		t.Fatalf("where = %+v, want 3-value InExpr", stmt.(*SelectStatement).Where)
	}

	stmt, err = NewParser("SELECT * FROM t WHERE id NOT IN (SELECT customer_id FROM orders)").ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	in, ok = stmt.(*SelectStatement).Where.(*InExpr)
	if !ok || !in.Not || in.Subquery == nil {
		t.Fatalf("where = %+v, want negated InExpr with subquery", stmt.(*SelectStatement).Where)
	}
}

func TestParsePositionalAndNamedParameters(t *testing.T) {
	stmt, err := NewParser("SELECT * FROM t WHERE a = ? AND b = ?").ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	and := stmt.(*SelectStatement).Where.(*BinaryExpr)
	left := and.Left.(*BinaryExpr).Right.(*Parameter)
	right := and.Right.(*BinaryExpr).Right.(*Parameter)
	if !left.Positional || left.Index != 1 {
		t.Fatalf("left param = %+v, want positional index 1", left)
	}
	if !right.Positional || right.Index != 2 {
		t.Fatalf("right param = %+v, want positional index 2", right)
	}

	stmt, err = NewParser("SELECT * FROM t WHERE a = :name").ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	named := stmt.(*SelectStatement).Where.(*BinaryExpr).Right.(*Parameter)
	if named.Positional || named.Name != "name" {
		t.Fatalf("named param = %+v", named)
	}
}

func TestParseInsertUpdateDelete(t *testing.T) {
	ins, err := NewParser("INSERT INTO customers (id, name) VALUES (?, ?)").ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement(INSERT): %v", err)
	}
	is := ins.(*InsertStatement)
	if is.Table != "customers" || len(is.Columns) != 2 || len(is.Values) != 2 {
		t.Fatalf("insert = %+v", is)
	}

	upd, err := NewParser("UPDATE customers SET name = ?, active = 1 WHERE id = ?").ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement(UPDATE): %v", err)
	}
	us := upd.(*UpdateStatement)
	if us.Table != "customers" || len(us.Sets) != 2 || us.Where == nil {
		t.Fatalf("update = %+v", us)
	}

	del, err := NewParser("DELETE FROM customers WHERE id = ?").ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement(DELETE): %v", err)
	}
	ds := del.(*DeleteStatement)
	if ds.Table != "customers" || ds.Where == nil {
		t.Fatalf("delete = %+v", ds)
	}
}

func TestParseSyntaxErrorReportsPosition(t *testing.T) {
	_, err := NewParser("SELECT FROM").ParseStatement()
	if err == nil {
		t.Fatalf("expected syntax error")
	}
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("got %T, want *SyntaxError", err)
	}
	if se.Position.Line == 0 {
		t.Fatalf("syntax error missing position: %+v", se)
	}
}
