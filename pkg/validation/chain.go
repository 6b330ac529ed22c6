package validation

import (
	"fmt"

	"github.com/aretw0/schemata/pkg/schema"
)

// Chains holds the compiled validator chain of every field of a root schema.
// It is immutable once built.
type Chains struct {
	fields map[string][]Validator
}

// Chain returns a copy of a field's chain.
func (c *Chains) Chain(field string) []Validator {
	return append([]Validator(nil), c.fields[field]...)
}

// Names returns the validator names of a field's chain, in order.
func (c *Chains) Names(field string) []string {
	chain := c.fields[field]
	names := make([]string, len(chain))
	for i, v := range chain {
		names[i] = v.name
	}
	return names
}

// ChainsOf returns the chains attached to s by the validation plugin.
func ChainsOf(s *schema.Schema) (*Chains, bool) {
	eng, ok := engineOf(s)
	if !ok {
		return nil, false
	}
	return eng.chains, true
}

func compileChains(s *schema.Schema) (*Chains, error) {
	c := &Chains{fields: make(map[string][]Validator)}
	for _, name := range s.Fields() {
		f, ok := s.Field(name)
		if !ok {
			continue
		}
		chain, err := compileChain(f)
		if err != nil {
			return nil, err
		}
		c.fields[name] = chain
	}
	return c, nil
}

func compileChain(f *schema.Field) ([]Validator, error) {
	var chain []Validator
	if f.Required {
		chain = append(chain, Required())
	}
	if f.Enum != nil {
		chain = append(chain, Enum(f.Enum))
	}
	if f.Min != nil {
		chain = append(chain, Min(*f.Min))
	}
	if f.Max != nil {
		chain = append(chain, Max(*f.Max))
	}
	if f.MinLength != nil {
		chain = append(chain, MinLength(*f.MinLength))
	}
	if f.MaxLength != nil {
		chain = append(chain, MaxLength(*f.MaxLength))
	}
	if f.HasLength != nil {
		chain = append(chain, HasLength(*f.HasLength))
	}
	if f.Matches != nil {
		chain = append(chain, Matches(f.Matches))
	}
	for i, entry := range f.Validate {
		v, ok := asValidator(entry)
		if !ok {
			return nil, fmt.Errorf("%w: field %s: validate[%d] is %T", ErrInvalidValidator, f.Name, i, entry)
		}
		chain = append(chain, v)
	}
	return chain, nil
}
