package rust

import (
	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
)

// aliasData is the template payload for one alias definition.
type aliasData struct {
	Def     *ir.AliasDefinition
	Name    string
	Alias   string
	Derives string
	Double  bool
	Display bool
	Plain   bool
	Result  string
}

// generateAlias emits the newtype for an alias definition. Capabilities are
// projected from the inner type: ordering and hashing route through the
// DoubleOps shim when the inner transitively contains a double, display and
// plain codecs delegate when the inner supports them, and serialization has
// no envelope.
func generateAlias(ctx *Context, def *ir.AliasDefinition) (string, error) {
	inner := &def.Alias

	derives := []string{"Debug", "Clone"}
	if ctx.IsCopy(inner) {
		derives = append(derives, "Copy")
	}
	double := ctx.HasDouble(inner)
	if double {
		derives = append(derives, "conjure_object::private::Educe")
	} else {
		derives = append(derives, "PartialEq", "Eq", "PartialOrd", "Ord", "Hash")
	}
	if ctx.IsDefault(inner) {
		derives = append(derives, "Default")
	}

	data := aliasData{
		Def:     def,
		Name:    ctx.TypeIdent(def.TypeName.Name),
		Alias:   ctx.RustType(def.TypeName, inner),
		Derives: joinComma(derives),
		Double:  double,
		Display: ctx.IsDisplay(inner),
		Plain:   ctx.IsPlain(inner),
		Result:  ctx.ResultIdent(def.TypeName),
	}
	return render(ctx, def.TypeName, data, "alias.rs.gotmpl")
}

func joinComma(parts []string) string {
	out := ""
	for i, part := range parts {
		if i > 0 {
			out += ", "
		}
		out += part
	}
	return out
}
