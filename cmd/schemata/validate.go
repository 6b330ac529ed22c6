package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/schemata"
	"github.com/aretw0/schemata/internal/presentation/tui"
	"github.com/aretw0/schemata/pkg/adapters/redis"
	"github.com/aretw0/schemata/pkg/observability"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var validateCmd = &cobra.Command{
	Use:   "validate --schema NAME record.yaml [record.json...]",
	Short: "Validate record files against a schema",
	Long: `Loads every schema in --dir, then validates each record file against the
schema named by --schema. A file holds one record (a mapping) or a list of
records. Files are validated concurrently; the exit status is 1 if any record
is invalid. With --claim, the unique values of every valid record are marked
as taken, so later records (and later runs against the same --redis) that
repeat them fail.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd, args)
	},
}

func init() {
	validateCmd.Flags().String("schema", "", "Name of the schema to validate against")
	validateCmd.Flags().Int("concurrency", 4, "Maximum number of files validated at once")
	validateCmd.Flags().String("redis", "", "Redis address backing unique fields (default: in memory)")
	validateCmd.Flags().String("redis-prefix", redis.DefaultPrefix, "Key prefix of the Redis unique index")
	validateCmd.Flags().String("metrics-file", "", "Write Prometheus metrics of the run to this file")
	validateCmd.Flags().Bool("claim", false, "Mark the unique values of valid records as taken")
	_ = validateCmd.MarkFlagRequired("schema")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	schemaName, _ := cmd.Flags().GetString("schema")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	redisAddr, _ := cmd.Flags().GetString("redis")
	redisPrefix, _ := cmd.Flags().GetString("redis-prefix")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	claim, _ := cmd.Flags().GetBool("claim")

	var opts []schemata.Option
	if redisAddr != "" {
		idx := redis.New(redisAddr, os.Getenv("SCHEMATA_REDIS_PASSWORD"), 0, redis.WithPrefix(redisPrefix))
		defer idx.Close()
		opts = append(opts, schemata.WithIndex(idx))
	}

	var gatherer *prometheus.Registry
	if metricsFile != "" {
		m := observability.NewMetrics()
		gatherer = prometheus.NewRegistry()
		if err := m.Register(gatherer); err != nil {
			return err
		}
		opts = append(opts, schemata.WithMetrics(m))
	}

	catalog, err := openCatalog(cmd, opts...)
	if err != nil {
		return err
	}
	if _, ok := catalog.Schema(schemaName); !ok {
		return fmt.Errorf("%w: %s", schemata.ErrUnknownSchema, schemaName)
	}

	perFile := make([][]tui.Outcome, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, path := range args {
		g.Go(func() error {
			perFile[i] = validateFile(ctx, catalog, schemaName, path, claim)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var outcomes []tui.Outcome
	for _, o := range perFile {
		outcomes = append(outcomes, o...)
	}

	out := termenv.NewOutput(cmd.OutOrStdout())
	failed := tui.PrintReport(out, schemaName, outcomes)

	if gatherer != nil {
		if err := prometheus.WriteToTextfile(metricsFile, gatherer); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if failed > 0 {
		return errRecordsInvalid
	}
	return nil
}

func validateFile(ctx context.Context, catalog *schemata.Catalog, schemaName, path string, claim bool) []tui.Outcome {
	records, err := readRecords(path)
	if err != nil {
		return []tui.Outcome{{Source: path, Err: err}}
	}

	outcomes := make([]tui.Outcome, len(records))
	for i, rec := range records {
		source := path
		if len(records) > 1 {
			source = fmt.Sprintf("%s#%d", path, i)
		}
		res, err := catalog.Validate(ctx, schemaName, rec)
		if res != nil {
			err = nil
			if claim && res.Valid {
				err = catalog.Claim(ctx, schemaName, rec)
			}
		}
		outcomes[i] = tui.Outcome{Source: source, Result: res, Err: err}
	}
	return outcomes
}

// readRecords decodes a record file: JSON for .json, YAML otherwise. A
// top-level list yields one record per element.
func readRecords(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var doc any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if list, ok := doc.([]any); ok {
		return list, nil
	}
	return []any{doc}, nil
}
