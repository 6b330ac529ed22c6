/*
Package schemata describes records with declarative schemas and validates them
with a mix of synchronous and asynchronous checks.

# Concept

A schema is an ordered set of typed fields (see package schema). Schemas can be
narrowed to subset views, extended into new schemas, and used to strip
unknown keys from records. The validation plugin (see package validation)
compiles one validator chain per field when a schema is built, and validates
records by running every chain to completion, collecting every failure code.

# Key Features

  - Closed type tags: String, Number, Boolean, Date, Array, Object.
  - Inheritance: Extend merges definitions, lists of validators accumulate.
  - Complete reports: no chain stops at its first failure.
  - Storage-backed uniqueness through ports.UniqueIndex (memory or Redis).
  - Prometheus metrics through validation hooks.

# Usage

A Catalog loads a directory of YAML or JSON schema documents:

	catalog, err := schemata.Load("./schemas",
		schemata.WithLogger(logger),
		schemata.WithIndex(redis.NewFromClient(client)),
	)
	if err != nil {
		log.Fatal(err)
	}

	res, err := catalog.Validate(ctx, "User", map[string]any{"name": "ada", "age": 36})
	if errors.Is(err, validation.ErrValidationFailed) {
		fmt.Println(res.Errors)
	}

Schemas can also be built in code:

	reg := schema.NewRegistry()
	_ = reg.Use(validation.Plugin(validation.Config{}), nil)
	panda, _ := reg.New("Panda", schema.NewDefinition().
		Set("age", schema.Spec{"type": "Number", "min": 3}))
*/
package schemata
