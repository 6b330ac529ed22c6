/*
Package validation checks records against schemas with a mix of synchronous
and asynchronous validators.

The capability is attached to a schema.Registry as a plugin. Every schema
built afterwards carries one validator chain per field, compiled once from the
field metadata:

	reg := schema.NewRegistry()
	_ = reg.Use(validation.Plugin(validation.Config{Logger: logger}), nil)

	user, _ := reg.New("User", schema.NewDefinition().
		Set("age", schema.Spec{"type": "Number", "min": 3}).
		Set("name", schema.Spec{"type": "String", "validate": validation.Async("taken", isTaken)}))

# Chains

A chain runs the declared built-in constraints first, always in the order
required, enum, min, max, minLength, maxLength, hasLength, matches, then the
custom validators of the field's "validate" key in declaration order. Custom
validators are tagged explicitly with Sync or Async.

# Running

Validate starts every chain of the schema's fields and returns a Pending
future. No chain stops at its first failure: every validator reports, and the
failure codes of each field are kept in the order they arrived.

	p, err := validation.Validate(ctx, user, record, nil)
	if err != nil {
		// ErrInvalidModel or ErrMissingValidators
	}
	res, err := p.Wait(ctx)
	if errors.Is(err, validation.ErrValidationFailed) {
		fmt.Println(res.Errors) // map[age:[min]]
	}
*/
package validation
