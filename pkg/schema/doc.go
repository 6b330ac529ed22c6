// Package schema defines object schemas: named, ordered sets of typed fields
// with per-field metadata.
//
// A schema is built from a Definition, which maps field names to either a
// structured Spec or a plain type hint:
//
//	def := schema.NewDefinition().
//	    Set("name", schema.Spec{"type": "String", "required": true}).
//	    Set("age", schema.Spec{"type": schema.Number, "min": 0}).
//	    Set("tags", []any{})            // literal hint: Array
//
//	user, err := schema.New("User", def)
//
// Construction compiles the definition: every entry gets an explicit type,
// writable and readable flag, and its type hint is resolved to one of the
// closed TypeTag set (String, Number, Boolean, Date, Array, Object).
//
// Derived views share the source's metadata and only own their field list:
//
//	public, _ := user.Except("password")
//	form, _ := user.Writable()
//
// Extend merges a definition over an existing one and compiles a new,
// independent schema. Lists accumulate and scalars are overridden:
//
//	admin, _ := user.Extend("Admin", schema.NewDefinition().
//	    Set("role", schema.Spec{"type": "String", "enum": []any{"admin"}}))
//
// Behaviour is added to schema construction through plugins applied to a
// Registry (see Registry.Use); the validation package is one such plugin.
package schema
