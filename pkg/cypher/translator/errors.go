package translator

import "fmt"

// UntranslatableError reports a syntactically valid SQL construct that
// falls outside the translatable subset — e.g. a JOIN predicate that
// isn't a simple column equality, or a subquery with its own JOIN/WHERE.
type UntranslatableError struct {
	Construct string
}

func (e *UntranslatableError) Error() string {
	return fmt.Sprintf("cypher/translator: untranslatable: %s", e.Construct)
}

func untranslatable(format string, args ...any) error {
	return &UntranslatableError{Construct: fmt.Sprintf(format, args...)}
}
