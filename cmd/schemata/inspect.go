package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/schemata"
	"github.com/aretw0/schemata/internal/presentation/graph"
	"github.com/aretw0/schemata/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [schema...]",
	Short: "Describe the loaded schemas",
	Long: `Prints a field table per schema as Markdown (styled when the output is a
terminal), or a Mermaid class diagram of all schemas and their extends
relations. Without arguments every schema in --dir is described.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		catalog, err := openCatalog(cmd)
		if err != nil {
			return err
		}
		names := args
		if len(names) == 0 {
			names = catalog.Names()
		}

		switch format {
		case "markdown", "md":
			return inspectMarkdown(cmd, catalog, names)
		case "mermaid":
			nodes := make([]graph.Node, 0, len(names))
			for _, name := range names {
				s, ok := catalog.Schema(name)
				if !ok {
					return fmt.Errorf("%w: %s", schemata.ErrUnknownSchema, name)
				}
				nodes = append(nodes, graph.Node{Schema: s, Extends: catalog.Parent(name)})
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(nodes))
			return nil
		default:
			return fmt.Errorf("unknown format %q (want markdown or mermaid)", format)
		}
	},
}

func init() {
	inspectCmd.Flags().String("format", "markdown", "Output format: markdown or mermaid")
	rootCmd.AddCommand(inspectCmd)
}

func inspectMarkdown(cmd *cobra.Command, catalog *schemata.Catalog, names []string) error {
	docs := make([]string, 0, len(names))
	for _, name := range names {
		s, ok := catalog.Schema(name)
		if !ok {
			return fmt.Errorf("%w: %s", schemata.ErrUnknownSchema, name)
		}
		docs = append(docs, tui.SchemaMarkdown(s, catalog.Parent(name)))
	}

	styled, width := terminalOutput(cmd)
	render, err := tui.NewRenderer(styled, width)
	if err != nil {
		return err
	}
	out, err := render(strings.Join(docs, "\n"))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// terminalOutput reports whether the command writes to an interactive
// terminal, and its width.
func terminalOutput(cmd *cobra.Command) (bool, int) {
	if cmd.OutOrStdout() != os.Stdout {
		return false, 0
	}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return false, 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return true, 0
	}
	return true, width
}
