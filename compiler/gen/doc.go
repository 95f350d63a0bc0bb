// Package gen generates explicit boolean timestamp methods for host types.
//
// Each configured type gets one <snake type>_booltime.go file holding a
// package-level declaration per field and the methods bound to it:
//
//	var UserActivated = booltime.Declare("activate")
//
//	func (u *User) Activate(ctx context.Context, up booltime.Updater) error
//	func (u *User) Activated() bool
//	func (u *User) SetActivated(v any)
//	func (u *User) IsActivated() bool
//	func ActivatedUsers() booltime.Scope
//
// The methods access the struct field directly. Only the action goes
// through booltime.Struct, to hand the record to the Updater.
//
// # Configuration
//
// A generator run is described by a YAML file:
//
//	package: models
//	target: ./models
//	types:
//	  - name: User
//	    fields:
//	      - active: activate
//	      - active: close
//	        nullable: sql
//
// or built with options:
//
//	cfg, err := gen.NewConfig(
//		gen.WithPackage("models"),
//		gen.WithTarget("./models"),
//		gen.WithType("User", &gen.FieldConfig{Active: "activate"}),
//	)
//	res, err := gen.Generate(ctx, cfg)
//
// # Snapshots
//
// The target keeps a msgpack snapshot of the graph in .booltime.snapshot.
// A run with an unchanged graph writes nothing unless forced. Files of
// types removed from the configuration are deleted.
//
// # Error Handling
//
//   - SchemaError: invalid type or field declarations (ErrInvalidSchema)
//   - ConfigError: invalid configuration (ErrMissingConfig)
//   - GenerationError: rendering, formatting or writing (ErrGenerationFailed)
//
// Example error handling:
//
//	if _, err := gen.Generate(ctx, cfg); err != nil {
//		var schemaErr *gen.SchemaError
//		if errors.As(err, &schemaErr) {
//			log.Printf("type %s field %s: %s", schemaErr.Type, schemaErr.Field, schemaErr.Message)
//		}
//	}
package gen
