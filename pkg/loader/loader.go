// Package loader reads schema documents from YAML or JSON files.
//
// A document names a schema, optionally the schema it extends, and its
// fields in order:
//
//	name: User
//	extends: Base
//	fields:
//	  name: {type: String, required: true, maxLength: 64}
//	  email: {type: String, matches: "/^[^@]+@[^@]+$/", unique: true}
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/aretw0/schemata/pkg/schema"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingName is returned for a document without a name.
	ErrMissingName = errors.New("loader: schema document has no name")
	// ErrDuplicateName is returned when two documents share a name.
	ErrDuplicateName = errors.New("loader: duplicate schema name")
	// ErrUnknownParent is returned when extends names no loaded document.
	ErrUnknownParent = errors.New("loader: unknown parent schema")
	// ErrCycle is returned when extends chains loop.
	ErrCycle = errors.New("loader: extends cycle")
)

// KeyUnique marks a field whose values must not already be taken.
const KeyUnique = "unique"

// Document is one schema file.
type Document struct {
	Name    string             `yaml:"name" json:"name"`
	Extends string             `yaml:"extends" json:"extends"`
	Fields  *schema.Definition `yaml:"fields" json:"fields"`

	// Path is the file the document was read from.
	Path string `yaml:"-" json:"-"`
}

// Unique returns the fields declared with unique: true, in field order.
func (d *Document) Unique() []string {
	var out []string
	for name, entry := range d.Fields.All() {
		spec, ok := entry.(schema.Spec)
		if !ok {
			continue
		}
		if on, _ := spec[KeyUnique].(bool); on {
			out = append(out, name)
		}
	}
	return out
}

// Extensions lists the file extensions LoadDir reads.
var Extensions = []string{".yaml", ".yml", ".json"}

// Parse decodes a document. ext selects the format: ".json" for JSON,
// anything else for YAML.
func Parse(data []byte, ext string) (*Document, error) {
	var doc Document
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse json schema: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml schema: %w", err)
		}
	}

	if doc.Name == "" {
		return nil, ErrMissingName
	}
	if doc.Fields == nil {
		doc.Fields = schema.NewDefinition()
	}
	if err := compilePatterns(doc.Fields); err != nil {
		return nil, fmt.Errorf("schema %s: %w", doc.Name, err)
	}
	return &doc, nil
}

// LoadFile reads and parses one document.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	doc, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// LoadDir reads every schema file directly under dir and returns the
// documents ordered so that each parent comes before the schemas extending it.
func LoadDir(dir string) ([]*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	var docs []*Document
	for _, e := range entries {
		if e.IsDir() || !slices.Contains(Extensions, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		doc, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return Order(docs)
}

// Order sorts documents parents first. Independent documents keep their
// relative order.
func Order(docs []*Document) ([]*Document, error) {
	byName := make(map[string]*Document, len(docs))
	for _, d := range docs {
		if prev, ok := byName[d.Name]; ok {
			return nil, fmt.Errorf("%w: %s in %s and %s", ErrDuplicateName, d.Name, prev.Path, d.Path)
		}
		byName[d.Name] = d
	}

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(docs))
	out := make([]*Document, 0, len(docs))

	var visit func(d *Document, chain []string) error
	visit = func(d *Document, chain []string) error {
		switch state[d.Name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s", ErrCycle, strings.Join(append(chain, d.Name), " -> "))
		}
		state[d.Name] = visiting
		if d.Extends != "" {
			parent, ok := byName[d.Extends]
			if !ok {
				return fmt.Errorf("%w: %s extends %s", ErrUnknownParent, d.Name, d.Extends)
			}
			if err := visit(parent, append(chain, d.Name)); err != nil {
				return err
			}
		}
		state[d.Name] = done
		out = append(out, d)
		return nil
	}

	for _, d := range docs {
		if err := visit(d, nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// compilePatterns turns "/expr/" and "/expr/i" matches values into regular
// expressions. Other values are kept for equality matching.
func compilePatterns(def *schema.Definition) error {
	for name, entry := range def.All() {
		spec, ok := entry.(schema.Spec)
		if !ok {
			continue
		}
		s, ok := spec[schema.KeyMatches].(string)
		if !ok || len(s) < 2 || s[0] != '/' {
			continue
		}
		end := strings.LastIndexByte(s, '/')
		if end == 0 {
			continue
		}
		expr, flags := s[1:end], s[end+1:]
		if flags != "" && flags != "i" {
			continue
		}
		if flags == "i" {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return fmt.Errorf("%w: field %s: %v", schema.ErrInvalidDefinition, name, err)
		}
		spec[schema.KeyMatches] = re
	}
	return nil
}
