package translator

// forceCypherPragma is the literal marker that bypasses translation
// entirely.
const forceCypherPragma = "/*+ NEO4J FORCE_CYPHER */"

// hasForceCypherPragma reports whether sql contains the FORCE_CYPHER
// pragma outside any matched single, double, or backtick quoted span. An
// unterminated quote is treated as open through the rest of the string, so
// a pragma that appears after it falls inside that span and is not
// detected.
func hasForceCypherPragma(sql string) bool {
	var quote byte
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if quote != 0 {
			if c == quote {
				if i+1 < len(sql) && sql[i+1] == quote {
					i++ // doubled quote: escaped literal, stays inside the span
					continue
				}
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
			continue
		}
		if i+len(forceCypherPragma) <= len(sql) && sql[i:i+len(forceCypherPragma)] == forceCypherPragma {
			return true
		}
	}
	return false
}
