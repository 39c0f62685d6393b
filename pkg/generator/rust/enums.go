package rust

import (
	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
)

// enumData is the template payload for one enum definition.
type enumData struct {
	Def    *ir.EnumDefinition
	Name   string
	Result string
	Ok     string
	Err    string
	String string
}

// generateEnum emits a closed tagged set over the declared values. In
// non-exhaustive mode an extra Unknown variant carries the raw discriminator
// so unrecognized wire values round-trip.
func generateEnum(ctx *Context, def *ir.EnumDefinition) (string, error) {
	data := enumData{
		Def:    def,
		Name:   ctx.TypeIdent(def.TypeName.Name),
		Result: ctx.ResultIdent(def.TypeName),
		Ok:     ctx.OkIdent(def.TypeName),
		Err:    ctx.ErrIdent(def.TypeName),
		String: ctx.StringIdent(def.TypeName),
	}
	return render(ctx, def.TypeName, data, "enum.rs.gotmpl")
}
