// Package main provides the CLI entry point for schemaref, a tool that
// simplifies and inspects core schema reference graphs.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	coreschema "github.com/MarkusSintonen/pydantic-core"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type cli struct {
	verbose bool
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "schemaref",
		Short: "Inspect and simplify core schema references",
		Long: `schemaref operates on core schema documents: trees of tagged records
describing validation and serialization shapes. It lifts inline definitions
into a flat table, reports reference usage and recursion, and lists the refs
a schema carries. Documents are read as JSON, or as YAML for .yaml/.yml
files; pass - to read JSON from stdin.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if c.verbose {
				level = slog.LevelDebug
			}
			c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(c.newSimplifyCmd(), c.newGatherCmd(), c.newRefsCmd())
	return rootCmd
}

func (c *cli) newSimplifyCmd() *cobra.Command {
	var inline bool

	cmd := &cobra.Command{
		Use:   "simplify [flags] <schema>",
		Short: "Lift inline definitions and flatten references",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			schema, err := readSchema(args[0])
			if err != nil {
				return err
			}
			c.logger.Debug("simplifying schema references", "input", args[0], "inline", inline)

			res, err := coreschema.SimplifySchemaReferences(schema, inline)
			if err != nil {
				return err
			}
			return writeJSON(os.Stdout, res)
		},
	}
	cmd.Flags().BoolVar(&inline, "inline", false, "inline references used at most once outside cycles")
	return cmd
}

func (c *cli) newGatherCmd() *cobra.Command {
	var definitionsPath string

	cmd := &cobra.Command{
		Use:   "gather [flags] <schema>",
		Short: "Report reference sites, recursive refs and deferred discriminators",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			schema, err := readSchema(args[0])
			if err != nil {
				return err
			}

			var defs *coreschema.DefinitionTable
			if definitionsPath != "" {
				defs, err = readDefinitions(definitionsPath)
			} else {
				defs, err = coreschema.CollectDefinitions(schema)
			}
			if err != nil {
				return err
			}
			c.logger.Debug("gathering schema references", "input", args[0], "definitions", defs.Len())

			res, err := coreschema.GatherSchemasForCleaning(schema, defs)
			if err != nil {
				return err
			}

			siteCounts := map[string]int{}
			for ref, sites := range res.DefinitionRefs.All() {
				siteCounts[ref] = len(sites)
			}
			discriminators := make([]string, 0, len(res.DeferredDiscriminators))
			for _, d := range res.DeferredDiscriminators {
				discriminators = append(discriminators, fmt.Sprint(d.Discriminator))
			}
			report := map[string]any{
				"definition_refs":         siteCounts,
				"recursive_refs":          slices.Sorted(maps.Keys(res.RecursiveRefs)),
				"deferred_discriminators": discriminators,
			}
			return writeJSON(os.Stdout, report)
		},
	}
	cmd.Flags().StringVar(&definitionsPath, "definitions", "", "definitions document (ref to schema mapping); defaults to the refs collected from the schema itself")
	return cmd
}

func (c *cli) newRefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refs <schema>",
		Short: "List the ref identifiers a schema carries",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			schema, err := readSchema(args[0])
			if err != nil {
				return err
			}
			refs, err := coreschema.CollectRefNames(schema)
			if err != nil {
				return err
			}
			return writeJSON(os.Stdout, slices.Sorted(maps.Keys(refs)))
		},
	}
}

func readSchema(path string) (*coreschema.Schema, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return coreschema.ParseYAML(data)
	default:
		return coreschema.ParseJSON(data)
	}
}

func readDefinitions(path string) (*coreschema.DefinitionTable, error) {
	doc, err := readSchema(path)
	if err != nil {
		return nil, err
	}
	defs := coreschema.NewDefinitions()
	for ref, v := range doc.All() {
		def, ok := v.(*coreschema.Schema)
		if !ok {
			return nil, fmt.Errorf("definition %q is not an object", ref)
		}
		defs.Set(ref, def)
	}
	return defs, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
