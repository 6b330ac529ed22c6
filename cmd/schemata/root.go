package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/schemata"
	"github.com/aretw0/schemata/internal/logging"
	"github.com/spf13/cobra"
)

// errRecordsInvalid makes the process exit with status 1 once the report
// has been printed.
var errRecordsInvalid = errors.New("one or more records are invalid")

var rootCmd = &cobra.Command{
	Use:   "schemata",
	Short: "Schemata validates records against declarative schemas",
	Long: `Schemata loads YAML or JSON schema documents from a directory and validates
records against them, reporting every failed constraint of every field.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRecordsInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the schema files")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), lvl), nil
}

func openCatalog(cmd *cobra.Command, opts ...schemata.Option) (*schemata.Catalog, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	dir, _ := cmd.Flags().GetString("dir")

	opts = append([]schemata.Option{schemata.WithLogger(logger)}, opts...)
	catalog, err := schemata.Load(dir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}
	return catalog, nil
}
