package rust

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
)

// templateFuncs builds the function map the emission templates render with.
// The classification helpers are bound to the context and the type being
// emitted, so templates call them directly on IR nodes.
func templateFuncs(ctx *Context, this ir.TypeName) template.FuncMap {
	funcMap := template.FuncMap{
		"docs":       ctx.Docs,
		"deprecated": ctx.Deprecated,
		"rlit":       rustString,
		"typeIdent":  ctx.TypeIdent,
		"fieldName":  ctx.FieldName,
		"exhaustive": ctx.Exhaustive,
		"staged":     ctx.StagedBuilders,

		// Type arguments arrive from templates as values (struct fields are
		// not addressable there), so the wrappers take ir.Type by value.
		"rustType":     func(t ir.Type) string { return ctx.RustType(this, &t) },
		"boxedType":    func(t ir.Type) string { return ctx.BoxedRustType(this, &t) },
		"borrowedType": func(t ir.Type) string { return ctx.BorrowedRustType(this, &t) },
		"borrowExpr":   func(value string, t ir.Type) string { return ctx.BorrowExpr(value, &t) },
		"setter":       func(t ir.Type, value string) SetterBounds { return ctx.Setter(this, &t, value) },

		"isDouble":    func(t ir.Type) bool { return ctx.IsDouble(&t) },
		"hasDouble":   func(t ir.Type) bool { return ctx.HasDouble(&t) },
		"isCopy":      func(t ir.Type) bool { return ctx.IsCopy(&t) },
		"isRequired":  func(t ir.Type) bool { return ctx.IsRequired(&t) },
		"isDefault":   func(t ir.Type) bool { return ctx.IsDefault(&t) },
		"isDisplay":   func(t ir.Type) bool { return ctx.IsDisplay(&t) },
		"isPlain":     func(t ir.Type) bool { return ctx.IsPlain(&t) },
		"isIterable":  func(t ir.Type) bool { return ctx.IsIterable(&t) },
		"isBinary":    func(t ir.Type) bool { return ctx.IsBinary(&t) },
		"emptyMethod": func(t ir.Type) string { return ctx.IsEmptyMethod(&t) },

		"boxIdent":     func() string { return ctx.BoxIdent(this) },
		"optionIdent":  func() string { return ctx.OptionIdent(this) },
		"someIdent":    func() string { return ctx.SomeIdent(this) },
		"noneIdent":    func() string { return ctx.NoneIdent(this) },
		"stringIdent":  func() string { return ctx.StringIdent(this) },
		"vecIdent":     func() string { return ctx.VecIdent(this) },
		"fromIdent":    func() string { return ctx.FromIdent(this) },
		"intoIdent":    func() string { return ctx.IntoIdent(this) },
		"defaultIdent": func() string { return ctx.DefaultIdent(this) },
		"resultIdent":  func() string { return ctx.ResultIdent(this) },
		"okIdent":      func() string { return ctx.OkIdent(this) },
		"errIdent":     func() string { return ctx.ErrIdent(this) },
	}

	// Merge sprig functions
	for k, v := range sprig.FuncMap() {
		funcMap[k] = v
	}
	return funcMap
}

// render executes an embedded template against data and returns the emitted
// source text. Additional template names are parsed alongside the first so
// templates can include one another.
func render(ctx *Context, this ir.TypeName, data any, names ...string) (string, error) {
	patterns := make([]string, len(names))
	for i, name := range names {
		patterns[i] = "templates/" + name
	}

	tmpl, err := template.New(names[0]).Funcs(templateFuncs(ctx, this)).ParseFS(templatesFS, patterns...)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", names[0], err)
	}

	var buf strings.Builder
	if err := tmpl.ExecuteTemplate(&buf, names[0], data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", names[0], err)
	}
	return buf.String(), nil
}
