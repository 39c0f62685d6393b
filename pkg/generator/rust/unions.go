package rust

import (
	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
)

// unionData is the template payload for one union definition.
type unionData struct {
	Def       *ir.UnionDefinition
	Name      string
	Derives   string
	HasDouble bool
	Variants  []unionVariantData
	Result    string
	Some      string
	String    string
}

// unionVariantData is one member of the union.
type unionVariantData struct {
	Def     *ir.FieldDefinition
	Ident   string
	WireLit string
	// Storage holds the payload behind an indirection for object and union
	// references so recursive unions have finite size.
	Storage string
	// Payload is the unboxed form handed to visitors.
	Payload string
	// Deref is set when accept must unbox the stored payload.
	Deref bool
	// Wrap is the expression constructing the variant from a decoded value.
	Wrap string
}

// generateUnion emits the tagged-variant type, its discriminator-keyed serde
// codec, and the visitor surface.
func generateUnion(ctx *Context, def *ir.UnionDefinition) (string, error) {
	name := ctx.TypeIdent(def.TypeName.Name)

	hasDouble := false
	for i := range def.Union {
		if ctx.HasDouble(&def.Union[i].Type) {
			hasDouble = true
			break
		}
	}

	derives := []string{"Debug", "Clone"}
	if hasDouble {
		derives = append(derives, "conjure_object::private::Educe")
	} else {
		derives = append(derives, "PartialEq", "Eq", "PartialOrd", "Ord", "Hash")
	}

	data := unionData{
		Def:       def,
		Name:      name,
		Derives:   joinComma(derives),
		HasDouble: hasDouble,
		Result:    ctx.ResultIdent(def.TypeName),
		Some:      ctx.SomeIdent(def.TypeName),
		String:    ctx.StringIdent(def.TypeName),
	}

	for i := range def.Union {
		m := &def.Union[i]
		variant := unionVariantData{
			Def:     m,
			Ident:   ctx.TypeIdent(m.FieldName),
			WireLit: rustString(m.FieldName),
			Storage: unionVariantType(ctx, def, &m.Type),
			Payload: ctx.RustType(def.TypeName, &m.Type),
		}
		variant.Deref = variant.Storage != variant.Payload
		if unionVariantBoxed(ctx, &m.Type) {
			variant.Wrap = name + "::" + variant.Ident + "(" + ctx.BoxIdent(def.TypeName) + "::new(value))"
		} else {
			variant.Wrap = name + "::" + variant.Ident + "(value)"
		}
		data.Variants = append(data.Variants, variant)
	}

	return render(ctx, def.TypeName, data, "union.rs.gotmpl")
}

// unionVariantType returns the payload storage of a union member. Object and
// union payloads are held behind one level of indirection so recursive
// unions have finite size.
func unionVariantType(ctx *Context, def *ir.UnionDefinition, t *ir.Type) string {
	if t.Kind == ir.KindReference {
		tc := ctx.lookup(*t.Reference)
		if tc.def.Kind == ir.DefObject || tc.def.Kind == ir.DefUnion {
			return ctx.BoxIdent(def.TypeName) + "<" + ctx.TypePath(def.TypeName, *t.Reference) + ">"
		}
	}
	return ctx.BoxedRustType(def.TypeName, t)
}

func unionVariantBoxed(ctx *Context, t *ir.Type) bool {
	if t.Kind != ir.KindReference {
		return false
	}
	tc := ctx.lookup(*t.Reference)
	return tc.def.Kind == ir.DefObject || tc.def.Kind == ir.DefUnion
}
