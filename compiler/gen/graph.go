package gen

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"gorm.io/gorm/schema"

	"github.com/syssam/booltime"
)

// FileSuffix is appended to the snake name of a type to form its file name.
const FileSuffix = "_booltime.go"

var naming = schema.NamingStrategy{}

// Graph is the validated set of types to generate.
type Graph struct {
	*Config
	Nodes []*Type
}

// Type is a host type with its boolean timestamps.
type Type struct {
	Name     string
	Table    string
	Receiver string
	File     string
	Fields   []*Field
}

// Field is a boolean timestamp declared on a Type.
type Field struct {
	Decl *booltime.Field
	// Explicit is the configured passive form, empty when derived.
	Explicit string
	Nullable string
	GoField  string
	// Var is the package-level declaration, e.g. UserActivated.
	Var string
	// Scope is the scope function, e.g. ActivatedUsers.
	Scope string
}

// Names returns the method names of the field.
func (f *Field) Names() booltime.Names { return f.Decl.Names() }

// Receiver names that clash with generated parameters and locals.
var reserved = map[string]bool{"ctx": true, "up": true, "v": true, "rec": true, "err": true, "now": true}

// NewGraph validates cfg and builds the graph.
func NewGraph(cfg *Config) (*Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !token.IsIdentifier(cfg.Package) {
		return nil, NewConfigError("Package", cfg.Package, "not a valid Go package name")
	}
	var (
		g       = &Graph{Config: cfg}
		globals = make(map[string]string)
	)
	claim := func(name, owner string) error {
		if prev, ok := globals[name]; ok {
			return fmt.Errorf("%s collides with %s", name, prev)
		}
		globals[name] = owner
		return nil
	}
	for _, tc := range cfg.Types {
		t, err := newType(tc)
		if err != nil {
			return nil, err
		}
		if err := claim(t.Name, "type "+t.Name); err != nil {
			return nil, NewSchemaError(t.Name, "", "type name", err)
		}
		if err := claim(t.File, "type "+t.Name); err != nil {
			return nil, NewSchemaError(t.Name, "", "file name", err)
		}
		for _, f := range t.Fields {
			owner := t.Name + "." + f.Decl.Active()
			if err := claim(f.Var, owner); err != nil {
				return nil, NewSchemaError(t.Name, f.Decl.Active(), "declaration", err)
			}
			if err := claim(f.Scope, owner); err != nil {
				return nil, NewSchemaError(t.Name, f.Decl.Active(), "scope", err)
			}
		}
		g.Nodes = append(g.Nodes, t)
	}
	return g, nil
}

func newType(tc *TypeConfig) (*Type, error) {
	if !token.IsIdentifier(tc.Name) {
		return nil, NewSchemaError(tc.Name, "", "not a valid Go identifier", nil)
	}
	if len(tc.Fields) == 0 {
		return nil, NewSchemaError(tc.Name, "", "no fields declared", nil)
	}
	t := &Type{
		Name:     tc.Name,
		Table:    tc.Table,
		Receiver: receiver(tc.Name),
		File:     naming.ColumnName("", tc.Name) + FileSuffix,
	}
	if t.Table == "" {
		t.Table = naming.TableName(tc.Name)
	}
	var (
		attrs   = make(map[string]bool)
		methods = make(map[string]bool)
		fields  = make(map[string]bool)
	)
	for _, fc := range tc.Fields {
		f, err := newField(t, fc)
		if err != nil {
			return nil, err
		}
		active := f.Decl.Active()
		if attrs[f.Decl.Attribute()] {
			return nil, NewSchemaError(t.Name, active, fmt.Sprintf("duplicate attribute %q", f.Decl.Attribute()), nil)
		}
		attrs[f.Decl.Attribute()] = true
		if fields[f.GoField] {
			return nil, NewSchemaError(t.Name, active, fmt.Sprintf("struct field %s is used twice", f.GoField), nil)
		}
		fields[f.GoField] = true
		n := f.Names()
		for _, m := range []string{n.Action, n.Reader, n.Writer, n.Predicate} {
			if methods[m] {
				return nil, NewSchemaError(t.Name, active, fmt.Sprintf("method %s collides with another generated name", m), nil)
			}
			methods[m] = true
		}
		t.Fields = append(t.Fields, f)
	}
	for name := range methods {
		if fields[name] {
			return nil, NewSchemaError(t.Name, "", fmt.Sprintf("method %s collides with a struct field", name), nil)
		}
	}
	return t, nil
}

func newField(t *Type, fc *FieldConfig) (*Field, error) {
	if strings.TrimSpace(fc.Active) == "" {
		return nil, NewSchemaError(t.Name, "", "field without active name", nil)
	}
	var opts []booltime.Option
	if fc.Passive != "" {
		opts = append(opts, booltime.WithPassive(fc.Passive))
	}
	decl := booltime.Declare(fc.Active, opts...)
	f := &Field{
		Decl:     decl,
		Explicit: fc.Passive,
		Nullable: fc.Nullable,
		GoField:  fc.Field,
	}
	switch f.Nullable {
	case "":
		f.Nullable = NullablePointer
	case NullablePointer, NullableSQL:
	default:
		return nil, NewSchemaError(t.Name, decl.Active(), "", NewConfigError("Nullable", fc.Nullable, "use pointer or sql"))
	}
	n := decl.Names()
	if f.GoField == "" {
		f.GoField = n.Field
	}
	f.Var = t.Name + n.Reader
	f.Scope = n.ScopeName(t.Name)
	for _, id := range []string{n.Action, n.Reader, n.Writer, n.Predicate, f.GoField, f.Var, f.Scope} {
		if !token.IsIdentifier(id) {
			return nil, NewSchemaError(t.Name, decl.Active(), fmt.Sprintf("%q is not a valid Go identifier", id), nil)
		}
	}
	return f, nil
}

func receiver(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	recv := string(unicode.ToLower(r))
	if reserved[recv] || recv == "_" {
		return "x"
	}
	return recv
}

// Tables returns the table name of every type, keyed by type name.
func (g *Graph) Tables() map[string]string {
	m := make(map[string]string, len(g.Nodes))
	for _, t := range g.Nodes {
		m[t.Name] = t.Table
	}
	return m
}

// Decls returns the declarations of a type, in order.
func (t *Type) Decls() []*booltime.Field {
	decls := make([]*booltime.Field, len(t.Fields))
	for i, f := range t.Fields {
		decls[i] = f.Decl
	}
	return decls
}
