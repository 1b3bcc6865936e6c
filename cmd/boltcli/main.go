// Command boltcli is a demo client: connect to a Bolt server, run a single
// Cypher or SQL statement (auto-translated via pkg/cypher/translator), and
// print the result set.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abdulrahman305/neo4j-jdbc/pkg/boltlog"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/cypher/config"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/cypher/translator"
	"github.com/abdulrahman305/neo4j-jdbc/pkg/driverconfig"
)

func main() {
	root := &cobra.Command{Use: "boltcli"}
	root.AddCommand(runCmd())
	root.AddCommand(configCmd())
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config"}
	init := &cobra.Command{
		Use:   "init [path]",
		Short: "write an all-defaults driver config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return driverconfig.WriteDefault(args[0])
		},
	}
	cmd.AddCommand(init)
	return cmd
}

func runCmd() *cobra.Command {
	var configPath string
	var sql bool

	cmd := &cobra.Command{
		Use:   "run [statement]",
		Short: "connect and run a single Cypher or SQL statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatement(cmd.Context(), configPath, args[0], sql)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a driver YAML config file")
	cmd.Flags().BoolVar(&sql, "sql", false, "treat the statement as SQL and translate it to Cypher before running")
	return cmd
}

func runStatement(ctx context.Context, configPath, statement string, sql bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log := boltlog.New(logrusFromLevel(cfg.Logging.Level))

	statement, err = resolveStatement(cfg, log, statement, sql)
	if err != nil {
		return err
	}

	conn, err := driverconfig.Dial(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("boltcli: connect: %w", err)
	}
	defer conn.Goodbye(ctx)

	stream, err := conn.Run(ctx, statement, nil, cfg.Bolt.FetchSize, cfg.Bolt.MaxRows)
	if err != nil {
		return fmt.Errorf("boltcli: run: %w", err)
	}
	return printStream(ctx, stream)
}

func loadConfig(path string) (*driverconfig.DriverConfig, error) {
	if path != "" {
		return driverconfig.Load(path)
	}
	return driverconfig.LoadFromEnv()
}

func resolveStatement(cfg *driverconfig.DriverConfig, log *boltlog.Logger, statement string, sql bool) (string, error) {
	if !sql {
		return statement, nil
	}
	tcfg := cfg.TranslatorConfig(config.NewBuilder(log))
	tr, err := translator.New(tcfg, log)
	if err != nil {
		return "", fmt.Errorf("boltcli: build translator: %w", err)
	}
	return tr.Translate(statement)
}

func logrusFromLevel(level string) *logrus.Logger {
	l := logrus.New()
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)
	return l
}
