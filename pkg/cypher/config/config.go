// Package config builds the immutable translator configuration bundle:
// exactly nine recognised options, constructed via a builder and shared
// read-only once built.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltlog"
)

// NameCase selects how identifiers are canonicalised during parse or
// render.
type NameCase int

const (
	AsIs NameCase = iota
	Upper
	Lower
)

func parseNameCase(s string) (NameCase, error) {
	switch strings.ToLower(s) {
	case "asis", "as_is", "":
		return AsIs, nil
	case "upper":
		return Upper, nil
	case "lower":
		return Lower, nil
	default:
		return AsIs, fmt.Errorf("cypher/config: unrecognised name case %q", s)
	}
}

// Apply returns s converted by the golang.org/x/text/cases.Caser for n, or
// s unchanged for AsIs.
func (n NameCase) Apply(s string) string {
	switch n {
	case Upper:
		return cases.Upper(language.Und).String(s)
	case Lower:
		return cases.Lower(language.Und).String(s)
	default:
		return s
	}
}

// EscapeMode is the tri-state resolution of `always_escape_names`: an
// explicit true/false, or Auto which AlwaysEscapeNames resolves to the
// inverse of PrettyPrint each time it is read.
type EscapeMode int

const (
	EscapeAuto EscapeMode = iota
	EscapeAlways
	EscapeNever
)

// Config is the immutable translator configuration bundle. The
// all-defaults configuration is the one NewBuilder(...).Build() returns;
// the zero value differs from it by an empty ParseNamedParamPrefix.
type Config struct {
	ParseNameCase              NameCase
	RenderNameCase              NameCase
	DiagnosticLogging          bool
	TableToLabelMappings       map[string]string
	JoinColumnsToTypeMappings  map[string]string
	SQLDialect                 string
	PrettyPrint                bool
	escapeMode                 EscapeMode
	ParseNamedParamPrefix      string
}

// AlwaysEscapeNames resolves the tri-state escape policy: when unset, it
// defaults to the inverse of PrettyPrint.
func (c Config) AlwaysEscapeNames() bool {
	switch c.escapeMode {
	case EscapeAlways:
		return true
	case EscapeNever:
		return false
	default:
		return !c.PrettyPrint
	}
}

// Builder constructs a Config. Create it with NewBuilder, which seeds the
// defaults; the zero value has nil mapping maps and no logger, and Build
// applies no defaults of its own.
type Builder struct {
	cfg Config
	log *boltlog.Logger
}

// NewBuilder creates a Builder. log receives a warning for every
// unrecognised property key seen by FromProperties; pass boltlog.Noop()
// to silence it.
func NewBuilder(log *boltlog.Logger) *Builder {
	if log == nil {
		log = boltlog.Noop()
	}
	return &Builder{
		cfg: Config{
			TableToLabelMappings:      map[string]string{},
			JoinColumnsToTypeMappings: map[string]string{},
			ParseNamedParamPrefix:     ":",
		},
		log: log,
	}
}

func (b *Builder) ParseNameCase(c NameCase) *Builder { b.cfg.ParseNameCase = c; return b }
func (b *Builder) RenderNameCase(c NameCase) *Builder { b.cfg.RenderNameCase = c; return b }
func (b *Builder) DiagnosticLogging(v bool) *Builder { b.cfg.DiagnosticLogging = v; return b }
func (b *Builder) SQLDialect(d string) *Builder { b.cfg.SQLDialect = d; return b }
func (b *Builder) PrettyPrint(v bool) *Builder { b.cfg.PrettyPrint = v; return b }
func (b *Builder) AlwaysEscapeNames(m EscapeMode) *Builder { b.cfg.escapeMode = m; return b }
func (b *Builder) ParseNamedParamPrefix(prefix string) *Builder {
	b.cfg.ParseNamedParamPrefix = prefix
	return b
}

// TableToLabelMapping records one table→label override.
func (b *Builder) TableToLabelMapping(table, label string) *Builder {
	b.cfg.TableToLabelMappings[table] = label
	return b
}

// JoinColumnsToTypeMapping records one "fk,pk"→relationship-type override.
func (b *Builder) JoinColumnsToTypeMapping(fk, pk, relType string) *Builder {
	b.cfg.JoinColumnsToTypeMappings[fk+","+pk] = relType
	return b
}

// Build returns the immutable Config, copying the mutable maps so further
// use of the Builder cannot mutate an already-built Config.
func (b *Builder) Build() Config {
	out := b.cfg
	out.TableToLabelMappings = cloneMap(b.cfg.TableToLabelMappings)
	out.JoinColumnsToTypeMappings = cloneMap(b.cfg.JoinColumnsToTypeMappings)
	return out
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// propertySetters maps the camelCased suffix of an `s2c.`-prefixed
// property key to the Builder method that applies it.
var propertySetters = map[string]func(b *Builder, value string) error{
	"parseNameCase": func(b *Builder, v string) error {
		c, err := parseNameCase(v)
		if err != nil {
			return err
		}
		b.ParseNameCase(c)
		return nil
	},
	"renderNameCase": func(b *Builder, v string) error {
		c, err := parseNameCase(v)
		if err != nil {
			return err
		}
		b.RenderNameCase(c)
		return nil
	},
	"diagnosticLogging": func(b *Builder, v string) error {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		b.DiagnosticLogging(parsed)
		return nil
	},
	"tableToLabelMappings": func(b *Builder, v string) error {
		for k, val := range parsePairList(v) {
			b.TableToLabelMapping(k, val)
		}
		return nil
	},
	"joinColumnsToTypeMappings": func(b *Builder, v string) error {
		for k, val := range parsePairList(v) {
			fk, pk, ok := strings.Cut(k, ",")
			if !ok {
				return fmt.Errorf("cypher/config: malformed join-columns key %q, want \"fk,pk\"", k)
			}
			b.JoinColumnsToTypeMapping(fk, pk, val)
		}
		return nil
	},
	"sqlDialect": func(b *Builder, v string) error {
		b.SQLDialect(v)
		return nil
	},
	"prettyPrint": func(b *Builder, v string) error {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		b.PrettyPrint(parsed)
		return nil
	},
	"alwaysEscapeNames": func(b *Builder, v string) error {
		switch strings.ToLower(v) {
		case "auto", "":
			b.AlwaysEscapeNames(EscapeAuto)
		case "true":
			b.AlwaysEscapeNames(EscapeAlways)
		case "false":
			b.AlwaysEscapeNames(EscapeNever)
		default:
			return fmt.Errorf("cypher/config: unrecognised alwaysEscapeNames value %q", v)
		}
		return nil
	},
	"parseNamedParamPrefix": func(b *Builder, v string) error {
		b.ParseNamedParamPrefix(v)
		return nil
	},
}

// parsePairList parses a `k1:v1;k2:v2` property value, the shared syntax
// for the two mapping options.
func parsePairList(v string) map[string]string {
	out := map[string]string{}
	for _, entry := range strings.Split(v, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		k, val, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(val)
	}
	return out
}

// FromProperties ingests a string-keyed property map: keys matching the
// `s2c.` prefix are converted from dash-delimited to camelCase and
// dispatched to the matching setter; unrecognised keys are logged at Warn
// and otherwise ignored.
func (b *Builder) FromProperties(props map[string]string) *Builder {
	const prefix = "s2c."
	for key, value := range props {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		camel := dashToCamel(strings.TrimPrefix(key, prefix))
		setter, ok := propertySetters[camel]
		if !ok {
			b.log.Warnf("cypher/config: ignoring unrecognised property %q", key)
			continue
		}
		if err := setter(b, value); err != nil {
			b.log.Warnf("cypher/config: ignoring invalid value for %q: %v", key, err)
		}
	}
	return b
}

// dashToCamel converts "table-to-label-mappings" to "tableToLabelMappings".
func dashToCamel(s string) string {
	parts := strings.Split(s, "-")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
