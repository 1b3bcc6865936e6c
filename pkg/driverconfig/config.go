// Package driverconfig loads the driver's YAML + environment configuration
// into a typed bundle and turns it into the boltconn/translator config
// values the rest of the driver consumes, the way a viper+mapstructure
// config package loads a node's settings into a typed struct.
package driverconfig

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltconn"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltlog"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/cypher/config"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/utils"
)

// BoltSection is the `bolt:` block: connection address, auth, and the
// per-connection defaults boltconn.Config carries.
type BoltSection struct {
	URI              string            `mapstructure:"uri" yaml:"uri"`
	UserAgent        string            `mapstructure:"user_agent" yaml:"user_agent"`
	Database         string            `mapstructure:"database" yaml:"database"`
	Auth             map[string]string `mapstructure:"auth" yaml:"auth"`
	FetchSize        int64             `mapstructure:"fetch_size" yaml:"fetch_size"`
	MaxRows          int64             `mapstructure:"max_rows" yaml:"max_rows"`
	ConnectTimeoutMS int64             `mapstructure:"connect_timeout_ms" yaml:"connect_timeout_ms"`
	QueryTimeoutMS   int64             `mapstructure:"query_timeout_ms" yaml:"query_timeout_ms"`
}

// TranslatorSection is the `translator:` block, one field per s2c.* option
// in pkg/cypher/config, expressed in YAML/env-friendly snake_case instead
// of the wire property list's dash-delimited keys.
type TranslatorSection struct {
	ParseNameCase             string            `mapstructure:"parse_name_case" yaml:"parse_name_case"`
	RenderNameCase            string            `mapstructure:"render_name_case" yaml:"render_name_case"`
	DiagnosticLogging         bool              `mapstructure:"diagnostic_logging" yaml:"diagnostic_logging"`
	SQLDialect                string            `mapstructure:"sql_dialect" yaml:"sql_dialect"`
	PrettyPrint               bool              `mapstructure:"pretty_print" yaml:"pretty_print"`
	AlwaysEscapeNames         string            `mapstructure:"always_escape_names" yaml:"always_escape_names"`
	ParseNamedParamPrefix     string            `mapstructure:"parse_named_param_prefix" yaml:"parse_named_param_prefix"`
	TableToLabelMappings      map[string]string `mapstructure:"table_to_label_mappings" yaml:"table_to_label_mappings"`
	JoinColumnsToTypeMappings map[string]string `mapstructure:"join_columns_to_type_mappings" yaml:"join_columns_to_type_mappings"`
}

// LoggingSection is the `logging:` block.
type LoggingSection struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// DriverConfig is the full configuration bundle, loaded from a YAML file
// and overlaid with environment variables.
type DriverConfig struct {
	Bolt       BoltSection       `mapstructure:"bolt" yaml:"bolt"`
	Translator TranslatorSection `mapstructure:"translator" yaml:"translator"`
	Logging    LoggingSection    `mapstructure:"logging" yaml:"logging"`
}

// Load reads path (a YAML file) into a DriverConfig, applying defaults for
// any field the file omits and then environment overrides on top, the way
// pkg/config.Load reads a named YAML file and merges an environment-specific
// overlay.
func Load(path string) (*DriverConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "driverconfig: load config")
	}
	return unmarshal(v)
}

// LoadFromEnv builds a DriverConfig from defaults and environment variables
// alone, reading a config file only if BOLT_CONFIG_FILE names one. This is
// the entry point cmd/boltcli uses when no --config flag is given.
func LoadFromEnv() (*DriverConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	if path := utils.EnvOrDefault("BOLT_CONFIG_FILE", ""); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, utils.Wrap(err, "driverconfig: load config")
		}
	}
	return unmarshal(v)
}

// Default returns the all-defaults DriverConfig, the starting point
// WriteDefault serialises for a new config file.
func Default() (*DriverConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	return unmarshal(v)
}

// WriteDefault writes the all-defaults DriverConfig to path as YAML, for
// bootstrapping a config file a caller then edits by hand.
func WriteDefault(path string) error {
	cfg, err := Default()
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return utils.Wrap(err, "driverconfig: marshal default config")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return utils.Wrap(err, "driverconfig: write default config")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bolt.uri", "bolt://localhost:7687")
	v.SetDefault("bolt.user_agent", "neo4j-jdbc-go/0.1")
	v.SetDefault("bolt.fetch_size", int64(1000))
	v.SetDefault("bolt.connect_timeout_ms", int64(5000))
	v.SetDefault("bolt.query_timeout_ms", int64(30000))
	v.SetDefault("translator.parse_name_case", "as_is")
	v.SetDefault("translator.render_name_case", "as_is")
	v.SetDefault("translator.always_escape_names", "auto")
	v.SetDefault("translator.parse_named_param_prefix", ":")
	v.SetDefault("logging.level", "info")
}

func unmarshal(v *viper.Viper) (*DriverConfig, error) {
	v.SetEnvPrefix("bolt")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	var cfg DriverConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, utils.Wrap(err, "driverconfig: unmarshal config")
	}
	return &cfg, nil
}

// ConnConfig builds the boltconn.Config this bundle describes. log is
// attached directly rather than resolved from a package-level default, so
// callers keep control of where connection-lifecycle lines go.
func (d *DriverConfig) ConnConfig(log *boltlog.Logger) boltconn.Config {
	auth := make(map[string]any, len(d.Bolt.Auth))
	for k, v := range d.Bolt.Auth {
		auth[k] = v
	}
	return boltconn.Config{
		UserAgent:      d.Bolt.UserAgent,
		Auth:           auth,
		Database:       d.Bolt.Database,
		FetchSize:      d.Bolt.FetchSize,
		MaxRows:        d.Bolt.MaxRows,
		ConnectTimeout: time.Duration(d.Bolt.ConnectTimeoutMS) * time.Millisecond,
		QueryTimeout:   time.Duration(d.Bolt.QueryTimeoutMS) * time.Millisecond,
		Logger:         log,
	}
}

// TranslatorConfig builds the cypher/config.Config this bundle describes by
// routing each section field through the same setters FromProperties uses,
// so a YAML file and an s2c.* property map can never disagree about what a
// given value means.
func (d *DriverConfig) TranslatorConfig(builder *config.Builder) config.Config {
	props := map[string]string{
		"s2c.parse-name-case":          d.Translator.ParseNameCase,
		"s2c.render-name-case":         d.Translator.RenderNameCase,
		"s2c.diagnostic-logging":       boolString(d.Translator.DiagnosticLogging),
		"s2c.sql-dialect":              d.Translator.SQLDialect,
		"s2c.pretty-print":             boolString(d.Translator.PrettyPrint),
		"s2c.always-escape-names":      d.Translator.AlwaysEscapeNames,
		"s2c.parse-named-param-prefix": d.Translator.ParseNamedParamPrefix,
	}
	props["s2c.table-to-label-mappings"] = joinPairs(d.Translator.TableToLabelMappings)
	props["s2c.join-columns-to-type-mappings"] = joinPairs(d.Translator.JoinColumnsToTypeMappings)
	return builder.FromProperties(props).Build()
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func joinPairs(m map[string]string) string {
	var b strings.Builder
	first := true
	for k, v := range m {
		if !first {
			b.WriteString(";")
		}
		first = false
		b.WriteString(k)
		b.WriteString(":")
		b.WriteString(v)
	}
	return b.String()
}
