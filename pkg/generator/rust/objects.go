package rust

import (
	"fmt"

	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
)

var ctorParams = []string{"T", "U", "V"}

// objectData is the template payload for one object definition.
type objectData struct {
	Def       *ir.ObjectDefinition
	Name      string
	Derives   string
	HasDouble bool

	// Ctor is nil when the object has four or more fields.
	Ctor          *ctorData
	BuilderMethod string
	BuilderType   string

	Staged         bool
	Stages         []stageData
	FinalName      string
	FinalDefault   bool
	RequiredFields []*ir.FieldDefinition
	OptionalFields []*ir.FieldDefinition

	SerializeAlways    int
	SerializeSkippable bool
	FieldNameList      string

	Result  string
	Some    string
	None    string
	Default string
}

// ctorData carries the precomputed pieces of the direct constructor.
type ctorData struct {
	Method   string
	Generics string
	Args     string
	Wheres   []string
	Assigns  []string
}

// stageData is one single-use builder stage for a required field.
type stageData struct {
	Name  string
	Next  string
	Field *ir.FieldDefinition
	Prev  []*ir.FieldDefinition
	Last  bool
}

// generateObject emits the record, constructor, builder, accessors and the
// field-name-keyed serde codec for an object definition.
func generateObject(ctx *Context, def *ir.ObjectDefinition) (string, error) {
	return render(ctx, def.TypeName, objectTemplateData(ctx, def), "object.rs.gotmpl")
}

func objectTemplateData(ctx *Context, def *ir.ObjectDefinition) *objectData {
	name := ctx.TypeIdent(def.TypeName.Name)

	hasDouble := false
	allCopy := true
	for i := range def.Fields {
		if ctx.HasDouble(&def.Fields[i].Type) {
			hasDouble = true
		}
		if !ctx.IsCopy(&def.Fields[i].Type) {
			allCopy = false
		}
	}

	derives := []string{"Debug", "Clone"}
	if hasDouble {
		derives = append(derives, "conjure_object::private::Educe")
	} else {
		derives = append(derives, "PartialEq", "Eq", "PartialOrd", "Ord", "Hash")
	}
	if allCopy {
		derives = append(derives, "Copy")
	}

	builderMethod := "builder"
	newMethod := "new"
	for i := range def.Fields {
		switch def.Fields[i].FieldName {
		case "builder":
			builderMethod = "builder_"
		case "new":
			newMethod = "new_"
		}
	}

	required := requiredFields(ctx, def)
	optional := optionalFields(ctx, def)

	builderType := "Builder"
	if ctx.StagedBuilders() {
		builderType = stageName(0)
	}

	data := &objectData{
		Def:           def,
		Name:          name,
		Derives:       joinComma(derives),
		HasDouble:     hasDouble,
		BuilderMethod: builderMethod,
		BuilderType:   builderType,

		Staged:         ctx.StagedBuilders(),
		FinalName:      stageName(len(required)),
		FinalDefault:   len(required) == 0,
		RequiredFields: required,
		OptionalFields: optional,

		Result:  ctx.ResultIdent(def.TypeName),
		Some:    ctx.SomeIdent(def.TypeName),
		None:    ctx.NoneIdent(def.TypeName),
		Default: ctx.DefaultIdent(def.TypeName),
	}

	if len(def.Fields) < 4 {
		data.Ctor = ctorTemplateData(ctx, def, newMethod)
	}

	if ctx.StagedBuilders() {
		for i, f := range required {
			data.Stages = append(data.Stages, stageData{
				Name:  stageName(i),
				Next:  stageName(i + 1),
				Field: f,
				Prev:  required[:i],
				Last:  i == len(required)-1,
			})
		}
	}

	for i := range def.Fields {
		f := &def.Fields[i]
		if ctx.IsEmptyMethod(&f.Type) == "" {
			data.SerializeAlways++
		} else {
			data.SerializeSkippable = true
		}
		if i > 0 {
			data.FieldNameList += ", "
		}
		data.FieldNameList += rustString(f.FieldName)
	}

	return data
}

func ctorTemplateData(ctx *Context, def *ir.ObjectDefinition, newMethod string) *ctorData {
	some := ctx.SomeIdent(def.TypeName)

	var params, args, wheres, assigns []string
	nextParam := 0

	for i := range def.Fields {
		f := &def.Fields[i]
		fieldType := &f.Type
		optional := false
		if inner := ctx.OptionInner(&f.Type); inner != nil {
			fieldType = inner
			optional = true
		}
		argName := ctx.FieldName(f.FieldName)
		bounds := ctx.Setter(def.TypeName, fieldType, argName)

		assignRHS := bounds.AssignRHS
		switch bounds.Kind {
		case SetterSimple:
			args = append(args, argName+": "+bounds.ArgumentType)
		case SetterGeneric:
			param := ctorParams[nextParam]
			nextParam++
			params = append(params, param)
			args = append(args, argName+": "+param)
			wheres = append(wheres, param+": "+bounds.ArgumentBound)
		case SetterCollection:
			param := ctorParams[nextParam]
			nextParam++
			params = append(params, param)
			args = append(args, argName+": "+param)
			wheres = append(wheres, param+": "+bounds.ArgumentBound)
			assignRHS = argName + ".into_iter().collect()"
		}
		if optional {
			assignRHS = some + "(" + assignRHS + ")"
		}
		assigns = append(assigns, argName+": "+assignRHS)
	}

	generics := ""
	if len(params) > 0 {
		generics = "<" + joinComma(params) + ">"
	}

	return &ctorData{
		Method:   newMethod,
		Generics: generics,
		Args:     joinComma(args),
		Wheres:   wheres,
		Assigns:  assigns,
	}
}

// stageName returns the builder stage type name for the given stage index.
func stageName(stage int) string {
	return fmt.Sprintf("BuilderStage%d", stage)
}

// requiredFields returns the object's required fields in declaration order.
func requiredFields(ctx *Context, def *ir.ObjectDefinition) []*ir.FieldDefinition {
	var out []*ir.FieldDefinition
	for i := range def.Fields {
		if ctx.IsRequired(&def.Fields[i].Type) {
			out = append(out, &def.Fields[i])
		}
	}
	return out
}

func optionalFields(ctx *Context, def *ir.ObjectDefinition) []*ir.FieldDefinition {
	var out []*ir.FieldDefinition
	for i := range def.Fields {
		if !ctx.IsRequired(&def.Fields[i].Type) {
			out = append(out, &def.Fields[i])
		}
	}
	return out
}
