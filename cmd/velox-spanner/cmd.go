package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/velox-spanner/compiler/load"
	spschema "github.com/syssam/velox-spanner/dialect/spanner/schema"
	"github.com/syssam/velox-spanner/schema"
)

type rootOptions struct {
	verbose bool
	noColor bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "velox-spanner",
		Short: "Check Spanner table metadata derived from velox entities",
		Long: `velox-spanner loads YAML metadata snapshots, binds every entity to a
Spanner table and checks the interleave declarations against the
primary keys of the tables involved.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.AddCommand(newValidateCmd(opts), newDescribeCmd(opts))
	return cmd
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// bind loads the snapshot files and binds every entity they declare.
func (o *rootOptions) bind(cmd *cobra.Command, paths []string) (*spschema.Snapshot, error) {
	logger := o.logger(cmd.ErrOrStderr())
	u := schema.NewUniverse()
	entities, err := load.Files(cmd.Context(), u, paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("snapshot loaded", "files", len(paths), "entities", len(entities))
	return spschema.NewBinder(u, spschema.WithLogger(logger)).Bind(entities...)
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate interleave declarations and primary keys",
		Long: `Validate binds the entities of the snapshot files and reports:

- interleaved tables whose primary key does not extend the parent's
- parents without a table, interleave cycles and hierarchies too deep
- tables without a primary key and checks that could not be decided`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.bind(cmd, args)
			if err != nil {
				return err
			}
			var vopts []spschema.ValidateOption
			if strict {
				vopts = append(vopts, spschema.WithStrictInterleave())
			}
			result := spschema.ValidateSnapshot(s, vopts...)
			printResult(cmd.OutOrStdout(), len(s.Tables()), result)
			if result.HasErrors() {
				return fmt.Errorf("schema has %d error(s)", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat inconclusive interleave checks as errors")
	return cmd
}

func printResult(w io.Writer, tables int, result *spschema.ValidationResult) {
	red, yellow, green := color.New(color.FgRed), color.New(color.FgYellow), color.New(color.FgGreen)
	for _, e := range result.Errors {
		red.Fprintf(w, "error: %s\n", e)
	}
	for _, warn := range result.Warnings {
		yellow.Fprintf(w, "warning: %s\n", warn)
	}
	switch {
	case result.HasErrors():
		red.Fprintf(w, "%d table(s) checked, %d error(s), %d warning(s)\n", tables, len(result.Errors), len(result.Warnings))
	case result.HasWarnings():
		yellow.Fprintf(w, "%d table(s) checked, %d warning(s)\n", tables, len(result.Warnings))
	default:
		green.Fprintf(w, "%d table(s) checked, no issues found\n", tables)
	}
}

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe FILE...",
		Short: "Print the bound tables with their keys and interleave clauses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.bind(cmd, args)
			if err != nil {
				return err
			}
			return describe(cmd.OutOrStdout(), s)
		},
	}
}

func describe(w io.Writer, s *spschema.Snapshot) error {
	bold := color.New(color.Bold)
	var errs []error
	for _, t := range s.Tables() {
		e, _ := s.EntityForTable(t)
		bold.Fprintf(w, "%s", t.Name)
		fmt.Fprintf(w, " (%s)\n", e.Name)
		for _, c := range t.Columns {
			null := " NOT NULL"
			if c.Type.Null {
				null = ""
			}
			fmt.Fprintf(w, "  %s %s%s\n", c.Name, spschema.ColumnType(c), null)
		}
		if pk := spschema.PrimaryKeyColumns(t); len(pk) > 0 {
			fmt.Fprintf(w, "  PRIMARY KEY (%s)\n", strings.Join(pk, ", "))
		}
		clause, err := s.InterleaveClause(t)
		if err != nil {
			errs = append(errs, fmt.Errorf("table %s: %w", t.Name, err))
			continue
		}
		if clause != "" {
			fmt.Fprintf(w, "  %s\n", clause)
		}
	}
	return errors.Join(errs...)
}
