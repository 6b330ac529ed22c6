package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/schemata/pkg/schema"
)

// Node is a schema to draw, with the name of the schema it extends.
type Node struct {
	Schema  *schema.Schema
	Extends string
}

// GenerateMermaid produces a Mermaid class diagram from a list of schemas.
// Members use the visibility markers to show field access:
// - Read-only (writable: false): #
// - Hidden (readable: false): -
// - Default: +
// Required fields are marked abstract (*), and every extends relation is
// drawn as inheritance.
func GenerateMermaid(nodes []Node) string {
	var sb strings.Builder
	sb.WriteString("classDiagram\n")

	for _, node := range nodes {
		s := node.Schema
		safeID := sanitizeMermaidID(s.Name())

		if safeID != s.Name() {
			sb.WriteString(fmt.Sprintf("    class %s[\"%s\"] {\n", safeID, s.Name()))
		} else {
			sb.WriteString(fmt.Sprintf("    class %s {\n", safeID))
		}
		for _, name := range s.Fields() {
			f, ok := s.Field(name)
			if !ok {
				continue
			}
			marker := "+"
			switch {
			case !f.Readable:
				marker = "-"
			case !f.Writable:
				marker = "#"
			}
			suffix := ""
			if f.Required {
				suffix = "*"
			}
			sb.WriteString(fmt.Sprintf("        %s%s %s%s\n", marker, f.Type, name, suffix))
		}
		sb.WriteString("    }\n")
	}

	for _, node := range nodes {
		if node.Extends == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s <|-- %s\n",
			sanitizeMermaidID(node.Extends), sanitizeMermaidID(node.Schema.Name())))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
