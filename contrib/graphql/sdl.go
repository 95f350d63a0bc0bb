package graphql

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/syssam/booltime"
)

var nameRe = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

// SDL renders the schema extensions exposing fields on typeName.
func SDL(typeName string, fields ...*booltime.Field) (string, error) {
	doc, err := Document(typeName, fields...)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	formatter.NewFormatter(&sb).FormatSchemaDocument(doc)
	return sb.String(), nil
}

// Document builds the schema extensions as a gqlparser document.
func Document(typeName string, fields ...*booltime.Field) (*ast.SchemaDocument, error) {
	if !nameRe.MatchString(typeName) {
		return nil, fmt.Errorf("graphql: invalid type name %q", typeName)
	}
	if len(fields) == 0 {
		return nil, errors.New("graphql: no fields")
	}
	var (
		object    = &ast.Definition{Kind: ast.Object, Name: typeName}
		query     = &ast.Definition{Kind: ast.Object, Name: "Query"}
		mutation  = &ast.Definition{Kind: ast.Object, Name: "Mutation"}
		seen      = make(map[string]bool)
		plural    = inflect.Pluralize(typeName)
		returns   = ast.NonNullNamedType(typeName, nil)
		listOfObj = ast.NonNullListType(ast.NonNullNamedType(typeName, nil), nil)
	)
	for _, f := range fields {
		reader := inflect.CamelizeDownFirst(f.Passive())
		if !nameRe.MatchString(reader) {
			return nil, fmt.Errorf("graphql: field %q has no valid GraphQL name", f.Active())
		}
		if seen[reader] {
			return nil, fmt.Errorf("graphql: duplicate field %q on %s", reader, typeName)
		}
		seen[reader] = true
		object.Fields = append(object.Fields,
			&ast.FieldDefinition{
				Name:        reader,
				Description: fmt.Sprintf("Whether the %s is %s.", typeName, f.Passive()),
				Type:        ast.NonNullNamedType("Boolean", nil),
			},
			&ast.FieldDefinition{
				Name:        inflect.CamelizeDownFirst(f.Attribute()),
				Description: fmt.Sprintf("When the %s was %s.", typeName, f.Passive()),
				Type:        ast.NamedType("Time", nil),
			},
		)
		query.Fields = append(query.Fields, &ast.FieldDefinition{
			Name: reader + plural,
			Type: listOfObj,
		})
		mutation.Fields = append(mutation.Fields, &ast.FieldDefinition{
			Name: inflect.CamelizeDownFirst(f.Active()) + typeName,
			Arguments: ast.ArgumentDefinitionList{
				{Name: "id", Type: ast.NonNullNamedType("ID", nil)},
			},
			Type: returns,
		})
	}
	return &ast.SchemaDocument{
		Extensions: ast.DefinitionList{object, query, mutation},
	}, nil
}
