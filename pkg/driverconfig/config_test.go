package driverconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/cypher/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "driver.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsForOmittedFields(t *testing.T) {
	path := writeConfig(t, "bolt:\n  database: neo4j\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Bolt.URI != "bolt://localhost:7687" {
		t.Fatalf("Bolt.URI = %q, want default", cfg.Bolt.URI)
	}
	if cfg.Bolt.Database != "neo4j" {
		t.Fatalf("Bolt.Database = %q, want neo4j", cfg.Bolt.Database)
	}
	if cfg.Bolt.FetchSize != 1000 {
		t.Fatalf("Bolt.FetchSize = %d, want 1000", cfg.Bolt.FetchSize)
	}
	if cfg.Translator.ParseNameCase != "as_is" {
		t.Fatalf("Translator.ParseNameCase = %q, want as_is", cfg.Translator.ParseNameCase)
	}
}

func TestLoadReadsNestedValues(t *testing.T) {
	path := writeConfig(t, `
bolt:
  uri: bolt://db.internal:7688
  user_agent: test-client/1.0
  fetch_size: 500
  auth:
    scheme: basic
    principal: neo4j
    credentials: secret
translator:
  render_name_case: upper
  table_to_label_mappings:
    person: Human
logging:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Bolt.URI != "bolt://db.internal:7688" {
		t.Fatalf("Bolt.URI = %q", cfg.Bolt.URI)
	}
	if cfg.Bolt.FetchSize != 500 {
		t.Fatalf("Bolt.FetchSize = %d, want 500", cfg.Bolt.FetchSize)
	}
	if cfg.Bolt.Auth["principal"] != "neo4j" {
		t.Fatalf("Bolt.Auth[principal] = %q, want neo4j", cfg.Bolt.Auth["principal"])
	}
	if cfg.Translator.TableToLabelMappings["person"] != "Human" {
		t.Fatalf("Translator.TableToLabelMappings[person] = %q, want Human", cfg.Translator.TableToLabelMappings["person"])
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("BOLT_BOLT_URI", "bolt://envhost:7687")
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Bolt.URI != "bolt://envhost:7687" {
		t.Fatalf("Bolt.URI = %q, want env override", cfg.Bolt.URI)
	}
}

func TestConnConfigCarriesFetchSizeAndTimeouts(t *testing.T) {
	path := writeConfig(t, `
bolt:
  fetch_size: 250
  connect_timeout_ms: 1500
  query_timeout_ms: 9000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cc := cfg.ConnConfig(nil)
	if cc.FetchSize != 250 {
		t.Fatalf("FetchSize = %d, want 250", cc.FetchSize)
	}
	if cc.ConnectTimeout.Milliseconds() != 1500 {
		t.Fatalf("ConnectTimeout = %v, want 1500ms", cc.ConnectTimeout)
	}
	if cc.QueryTimeout.Milliseconds() != 9000 {
		t.Fatalf("QueryTimeout = %v, want 9000ms", cc.QueryTimeout)
	}
}

func TestTranslatorConfigRoutesThroughFromProperties(t *testing.T) {
	path := writeConfig(t, `
translator:
  render_name_case: upper
  table_to_label_mappings:
    movie: Film
  pretty_print: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	tc := cfg.TranslatorConfig(config.NewBuilder(nil))
	if tc.RenderNameCase != config.Upper {
		t.Fatalf("RenderNameCase = %v, want Upper", tc.RenderNameCase)
	}
	if tc.TableToLabelMappings["movie"] != "Film" {
		t.Fatalf("TableToLabelMappings[movie] = %q, want Film", tc.TableToLabelMappings["movie"])
	}
	if !tc.PrettyPrint {
		t.Fatalf("PrettyPrint = false, want true")
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "driver.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(WriteDefault output) error = %v", err)
	}
	if cfg.Bolt.URI != "bolt://localhost:7687" {
		t.Fatalf("Bolt.URI = %q, want default", cfg.Bolt.URI)
	}
	if cfg.Bolt.FetchSize != 1000 {
		t.Fatalf("Bolt.FetchSize = %d, want 1000", cfg.Bolt.FetchSize)
	}
	if cfg.Translator.ParseNamedParamPrefix != ":" {
		t.Fatalf("Translator.ParseNamedParamPrefix = %q, want \":\"", cfg.Translator.ParseNamedParamPrefix)
	}
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri      string
		wantAddr string
		wantErr  bool
	}{
		{"bolt://localhost:7687", "localhost:7687", false},
		{"bolt://db.internal", "db.internal:7687", false},
		{"http://localhost:7687", "", true},
		{"bolt://", "", true},
	}
	for _, tt := range tests {
		addr, err := ParseURI(tt.uri)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseURI(%q) error = nil, want error", tt.uri)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseURI(%q) error = %v", tt.uri, err)
			continue
		}
		if addr.String() != tt.wantAddr {
			t.Errorf("ParseURI(%q) = %q, want %q", tt.uri, addr.String(), tt.wantAddr)
		}
	}
}
