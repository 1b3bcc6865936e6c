package translator

import (
	"testing"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/cypher/config"
)

func newTestTranslator(t *testing.T, build func(*config.Builder)) *Translator {
	t.Helper()
	b := config.NewBuilder(nil)
	if build != nil {
		build(b)
	}
	tr, err := New(b.Build(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr
}

func TestForceCypherPragmaBypassesTranslation(t *testing.T) {
	input := "/*+ NEO4J FORCE_CYPHER */ MATCH (n) RETURN n"
	tr := newTestTranslator(t, nil)
	out, err := tr.Translate(input)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != input {
		t.Fatalf("Translate() = %q, want verbatim input", out)
	}
}

func TestForceCypherPragmaInsideQuotesDoesNotBypass(t *testing.T) {
	if hasForceCypherPragma("SELECT '/*+ NEO4J FORCE_CYPHER */' FROM t") {
		t.Fatalf("hasForceCypherPragma should not fire for a quoted occurrence")
	}
}

func TestForceCypherPragmaOutsideQuotesDetected(t *testing.T) {
	if !hasForceCypherPragma("SELECT 1 FROM t -- /*+ NEO4J FORCE_CYPHER */") {
		t.Fatalf("hasForceCypherPragma should fire for an unquoted occurrence")
	}
}

func TestTranslateSimpleSelect(t *testing.T) {
	tr := newTestTranslator(t, nil)
	out, err := tr.Translate("SELECT p.name FROM Person p")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := "MATCH (p:Person) RETURN p.name AS name"
	if out != want {
		t.Fatalf("Translate() = %q, want %q", out, want)
	}
}

func TestTranslateJoinWithMapping(t *testing.T) {
	tr := newTestTranslator(t, func(b *config.Builder) {
		b.JoinColumnsToTypeMapping("movie_id", "id", "ACTED_IN")
	})
	out, err := tr.Translate("SELECT p.name FROM Person p JOIN Movie m ON p.movie_id = m.id")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := "MATCH (p:Person)-[r1:ACTED_IN]->(m:Movie) RETURN p.name AS name"
	if out != want {
		t.Fatalf("Translate() = %q, want %q", out, want)
	}
}

func TestTranslateJoinDefaultRelationshipType(t *testing.T) {
	tr := newTestTranslator(t, nil)
	out, err := tr.Translate("SELECT p.name FROM Person p JOIN Movie m ON p.movie_id = m.id")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := "MATCH (p:Person)-[r1:MOVIE]->(m:Movie) RETURN p.name AS name"
	if out != want {
		t.Fatalf("Translate() = %q, want %q", out, want)
	}
}

func TestTranslateInsert(t *testing.T) {
	tr := newTestTranslator(t, nil)
	out, err := tr.Translate("INSERT INTO Person (name) VALUES ('Ada')")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := "CREATE (p:Person {name: 'Ada'})"
	if out != want {
		t.Fatalf("Translate() = %q, want %q", out, want)
	}
}

func TestTranslateStarExpandsToPatternVariables(t *testing.T) {
	tr := newTestTranslator(t, nil)
	out, err := tr.Translate("SELECT * FROM Person p")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := "MATCH (p:Person) RETURN p"
	if out != want {
		t.Fatalf("Translate() = %q, want %q", out, want)
	}
}

func TestTranslateLikeBecomesRegexMatch(t *testing.T) {
	tr := newTestTranslator(t, nil)
	out, err := tr.Translate("SELECT p.name FROM Person p WHERE p.name LIKE 'A%'")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := "MATCH (p:Person) WHERE p.name =~ '^A.*$' RETURN p.name AS name"
	if out != want {
		t.Fatalf("Translate() = %q, want %q", out, want)
	}
}

func TestTranslateIsNullBetweenPassThrough(t *testing.T) {
	tr := newTestTranslator(t, nil)
	out, err := tr.Translate("SELECT p.name FROM Person p WHERE p.age BETWEEN 18 AND 65 AND p.bio IS NOT NULL")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := "MATCH (p:Person) WHERE (18 <= p.age <= 65 AND p.bio IS NOT NULL) RETURN p.name AS name"
	if out != want {
		t.Fatalf("Translate() = %q, want %q", out, want)
	}
}

func TestTranslateInSubqueryPatternComprehension(t *testing.T) {
	tr := newTestTranslator(t, nil)
	out, err := tr.Translate("SELECT p.name FROM Person p WHERE p.id NOT IN (SELECT customer_id FROM Orders)")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := "MATCH (p:Person) WHERE NOT (p.id IN [(o:Orders) | o.customer_id]) RETURN p.name AS name"
	if out != want {
		t.Fatalf("Translate() = %q, want %q", out, want)
	}
}

func TestTranslateLimitOffsetBecomeLimitSkip(t *testing.T) {
	tr := newTestTranslator(t, nil)
	out, err := tr.Translate("SELECT p.name FROM Person p ORDER BY p.name LIMIT 10 OFFSET 5")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := "MATCH (p:Person) RETURN p.name AS name ORDER BY p.name SKIP 5 LIMIT 10"
	if out != want {
		t.Fatalf("Translate() = %q, want %q", out, want)
	}
}

func TestTranslatePositionalParameters(t *testing.T) {
	tr := newTestTranslator(t, nil)
	out, err := tr.Translate("SELECT p.name FROM Person p WHERE p.id = ?")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := "MATCH (p:Person) WHERE (p.id = $1) RETURN p.name AS name"
	if out != want {
		t.Fatalf("Translate() = %q, want %q", out, want)
	}
}

func TestTranslateCachesRepeatedStatement(t *testing.T) {
	tr := newTestTranslator(t, nil)
	first, err := tr.Translate("SELECT p.name FROM Person p")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	second, err := tr.Translate("SELECT p.name FROM Person p")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if first != second {
		t.Fatalf("cached translation diverged: %q vs %q", first, second)
	}
}

func TestTranslateRejectsJoinWithoutEqualityPredicate(t *testing.T) {
	tr := newTestTranslator(t, nil)
	_, err := tr.Translate("SELECT p.name FROM Person p JOIN Movie m ON p.id <> m.id")
	if _, ok := err.(*UntranslatableError); !ok {
		t.Fatalf("err = %v (%T), want *UntranslatableError", err, err)
	}
}

func TestTranslateSyntaxErrorPropagates(t *testing.T) {
	tr := newTestTranslator(t, nil)
	_, err := tr.Translate("SELECT FROM")
	if err == nil {
		t.Fatalf("expected a syntax error")
	}
}
