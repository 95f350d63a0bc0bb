package gen

import (
	"bytes"

	"github.com/dave/jennifer/jen"
)

const (
	booltimePkg = "github.com/syssam/booltime"
	contextPkg  = "context"
	sqlPkg      = "database/sql"
)

// Notice is the generated-code marker written on every file.
const Notice = "Code generated by booltimegen, DO NOT EDIT."

// GenType builds the file holding the declarations and methods of t.
func (g *Graph) GenType(t *Type) *jen.File {
	f := jen.NewFile(g.Package)
	if g.Header != "" {
		f.HeaderComment(g.Header)
	}
	f.HeaderComment(Notice)
	f.ImportName(booltimePkg, "booltime")
	f.ImportName(contextPkg, "context")
	f.ImportName(sqlPkg, "sql")
	for _, fd := range t.Fields {
		genDecl(f, t, fd)
		genAction(f, t, fd)
		genReader(f, t, fd)
		genWriter(f, t, fd)
		genPredicate(f, t, fd)
		genScope(f, t, fd)
	}
	return f
}

func recv(t *Type) *jen.Statement {
	return jen.Id(t.Receiver).Op("*").Id(t.Name)
}

func field(t *Type, fd *Field) *jen.Statement {
	return jen.Id(t.Receiver).Dot(fd.GoField)
}

func genDecl(f *jen.File, t *Type, fd *Field) {
	args := []jen.Code{jen.Lit(fd.Decl.Active())}
	if fd.Explicit != "" {
		args = append(args, jen.Qual(booltimePkg, "WithPassive").Call(jen.Lit(fd.Explicit)))
	}
	f.Commentf("%s declares the %q boolean timestamp of %s.", fd.Var, fd.Decl.Active(), t.Name)
	f.Var().Id(fd.Var).Op("=").Qual(booltimePkg, "Declare").Call(args...)
}

func genAction(f *jen.File, t *Type, fd *Field) {
	f.Commentf("%s sets %s and persists it through up.", fd.Names().Action, fd.Decl.Attribute())
	f.Func().Params(recv(t)).Id(fd.Names().Action).Params(
		jen.Id("ctx").Qual(contextPkg, "Context"),
		jen.Id("up").Qual(booltimePkg, "Updater"),
	).Error().Block(
		jen.List(jen.Id("rec"), jen.Err()).Op(":=").Qual(booltimePkg, "Struct").Call(jen.Id(t.Receiver)),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.Return(jen.Id(fd.Var).Dot("Act").Call(jen.Id("ctx"), jen.Id("up"), jen.Id("rec"))),
	)
}

func genReader(f *jen.File, t *Type, fd *Field) {
	n := fd.Names()
	f.Commentf("%s reports whether the %s is %s.", n.Reader, t.Name, fd.Decl.Passive())
	f.Func().Params(recv(t)).Id(n.Reader).Params().Bool().Block(
		jen.Return(jen.Id(t.Receiver).Dot(n.Predicate).Call()),
	)
}

func genWriter(f *jen.File, t *Type, fd *Field) {
	n := fd.Names()
	var clear, isSet, assign jen.Code
	switch fd.Nullable {
	case NullableSQL:
		clear = field(t, fd).Op("=").Qual(sqlPkg, "NullTime").Values()
		isSet = field(t, fd).Dot("Valid")
		assign = field(t, fd).Op("=").Qual(sqlPkg, "NullTime").Values(jen.Dict{
			jen.Id("Time"):  jen.Id("now"),
			jen.Id("Valid"): jen.True(),
		})
	default:
		clear = field(t, fd).Op("=").Nil()
		isSet = field(t, fd).Op("!=").Nil()
		assign = field(t, fd).Op("=").Op("&").Id("now")
	}
	f.Commentf("%s sets %s from a truthy value without persisting it.", n.Writer, fd.Decl.Attribute())
	f.Comment("An existing timestamp is kept. A falsy value clears it.")
	f.Func().Params(recv(t)).Id(n.Writer).Params(jen.Id("v").Id("any")).Block(
		jen.If(jen.Op("!").Qual(booltimePkg, "Truthy").Call(jen.Id("v"))).Block(
			clear,
			jen.Return(),
		),
		jen.If(isSet).Block(jen.Return()),
		jen.Id("now").Op(":=").Id(fd.Var).Dot("Now").Call(),
		assign,
	)
}

func genPredicate(f *jen.File, t *Type, fd *Field) {
	var isSet jen.Code
	if fd.Nullable == NullableSQL {
		isSet = field(t, fd).Dot("Valid")
	} else {
		isSet = field(t, fd).Op("!=").Nil()
	}
	f.Commentf("%s reports whether %s is set.", fd.Names().Predicate, fd.Decl.Attribute())
	f.Func().Params(recv(t)).Id(fd.Names().Predicate).Params().Bool().Block(
		jen.Return(isSet),
	)
}

func genScope(f *jen.File, t *Type, fd *Field) {
	f.Commentf("%s selects the %s rows where %s.", fd.Scope, t.Table, fd.Decl.Scope())
	f.Func().Id(fd.Scope).Params().Qual(booltimePkg, "Scope").Block(
		jen.Return(jen.Id(fd.Var).Dot("Scope").Call()),
	)
}

// Render renders the file of t to Go source.
func (g *Graph) Render(t *Type) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.GenType(t).Render(&buf); err != nil {
		return nil, NewGenerationError("render", t.File, "", err)
	}
	return buf.Bytes(), nil
}
