package rust

import (
	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
	"github.com/conjure-dev/conjure-rust-gen/pkg/utils"
)

// errorData is the template payload for one error definition.
type errorData struct {
	Object      *objectData
	Name        string
	Code        string
	NameLit     string
	SafeArgLits []string
}

// generateError emits the object-shaped body of an error definition plus the
// ErrorType impl carrying its code, Namespace:Name identifier, and safe-arg
// classification.
func generateError(ctx *Context, def *ir.ErrorDefinition) (string, error) {
	fields := make([]ir.FieldDefinition, 0, len(def.SafeArgs)+len(def.UnsafeArgs))
	fields = append(fields, def.SafeArgs...)
	fields = append(fields, def.UnsafeArgs...)

	obj := &ir.ObjectDefinition{
		TypeName: def.ErrorName,
		Fields:   fields,
		Docs:     def.Docs,
	}

	data := errorData{
		Object:  objectTemplateData(ctx, obj),
		Name:    ctx.TypeIdent(def.ErrorName.Name),
		Code:    utils.ToPascalCase(string(def.Code)),
		NameLit: rustString(def.Namespace + ":" + def.ErrorName.Name),
	}
	for i := range def.SafeArgs {
		data.SafeArgLits = append(data.SafeArgLits, rustString(def.SafeArgs[i].FieldName))
	}

	return render(ctx, def.ErrorName, data, "error.rs.gotmpl", "object.rs.gotmpl")
}
