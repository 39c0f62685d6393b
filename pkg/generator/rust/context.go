package rust

import (
	"strings"

	"github.com/conjure-dev/conjure-rust-gen/pkg/config"
	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
	"github.com/conjure-dev/conjure-rust-gen/pkg/utils"
)

// memoCell is a three-state classification cell: unknown, in-progress
// (holding a pessimistic false), or resolved. Pre-seeding false before
// recursing breaks cycles through the type graph.
type memoCell struct {
	known bool
	value bool
}

type typeContext struct {
	def       ir.TypeDefinition
	hasDouble memoCell
	isCopy    memoCell
}

// Context is the queryable oracle over a loaded definition: name
// canonicalization, module path computation, and recursive capability
// classification of every type reference. It is built once per generator
// invocation and passed by reference.
type Context struct {
	types          map[ir.TypeName]*typeContext
	exhaustive     bool
	stagedBuilders bool
	stripPrefix    []string
}

// NewContext builds the classification context for one target.
func NewContext(def *ir.ConjureDefinition, target config.Target) *Context {
	ctx := &Context{
		types:          make(map[ir.TypeName]*typeContext, len(def.Types)),
		exhaustive:     target.Exhaustive,
		stagedBuilders: target.StagedBuilders,
	}
	if target.StripPrefix != "" {
		ctx.stripPrefix = ctx.rawModulePath(target.StripPrefix)
	}
	for i := range def.Types {
		td := def.Types[i]
		ctx.types[td.Name()] = &typeContext{def: td}
	}
	return ctx
}

func (ctx *Context) Exhaustive() bool {
	return ctx.exhaustive
}

func (ctx *Context) StagedBuilders() bool {
	return ctx.stagedBuilders
}

func (ctx *Context) lookup(name ir.TypeName) *typeContext {
	return ctx.types[name]
}

// NeedsBox reports whether a value of the type must be held behind one level
// of indirection in the owning record to keep recursive cycles finite.
func (ctx *Context) NeedsBox(t *ir.Type) bool {
	switch t.Kind {
	case ir.KindPrimitive:
		return false
	case ir.KindOptional:
		return ctx.NeedsBox(t.Item)
	case ir.KindList, ir.KindSet, ir.KindMap:
		return false
	case ir.KindReference:
		return ctx.refNeedsBox(*t.Reference)
	case ir.KindExternal:
		return ctx.NeedsBox(t.Fallback)
	}
	return false
}

func (ctx *Context) refNeedsBox(name ir.TypeName) bool {
	tc := ctx.lookup(name)
	switch tc.def.Kind {
	case ir.DefAlias:
		return ctx.NeedsBox(&tc.def.Alias.Alias)
	case ir.DefEnum:
		return false
	}
	return true
}

// HasDouble reports whether the type transitively contains a double.
func (ctx *Context) HasDouble(t *ir.Type) bool {
	switch t.Kind {
	case ir.KindPrimitive:
		return t.Primitive == ir.PrimitiveDouble
	case ir.KindOptional, ir.KindList, ir.KindSet:
		return ctx.HasDouble(t.Item)
	case ir.KindMap:
		return ctx.HasDouble(t.Key) || ctx.HasDouble(t.Value)
	case ir.KindReference:
		return ctx.refHasDouble(*t.Reference)
	case ir.KindExternal:
		return ctx.HasDouble(t.Fallback)
	}
	return false
}

func (ctx *Context) refHasDouble(name ir.TypeName) bool {
	tc := ctx.lookup(name)
	if tc.hasDouble.known {
		return tc.hasDouble.value
	}

	tc.hasDouble = memoCell{known: true, value: false} // break cycles
	hasDouble := false
	switch tc.def.Kind {
	case ir.DefAlias:
		hasDouble = ctx.HasDouble(&tc.def.Alias.Alias)
	case ir.DefEnum:
		hasDouble = false
	case ir.DefObject:
		for i := range tc.def.Object.Fields {
			if ctx.HasDouble(&tc.def.Object.Fields[i].Type) {
				hasDouble = true
				break
			}
		}
	case ir.DefUnion:
		for i := range tc.def.Union.Union {
			if ctx.HasDouble(&tc.def.Union.Union[i].Type) {
				hasDouble = true
				break
			}
		}
	}

	tc.hasDouble = memoCell{known: true, value: hasDouble}
	return hasDouble
}

// IsDouble reports whether the type is the double primitive itself, possibly
// through aliases and external fallbacks.
func (ctx *Context) IsDouble(t *ir.Type) bool {
	switch t.Kind {
	case ir.KindPrimitive:
		return t.Primitive == ir.PrimitiveDouble
	case ir.KindReference:
		tc := ctx.lookup(*t.Reference)
		if tc.def.Kind == ir.DefAlias {
			return ctx.IsDouble(&tc.def.Alias.Alias)
		}
		return false
	case ir.KindExternal:
		return ctx.IsDouble(t.Fallback)
	}
	return false
}

// IsCopy reports whether the type has cheap value semantics.
func (ctx *Context) IsCopy(t *ir.Type) bool {
	switch t.Kind {
	case ir.KindPrimitive:
		switch t.Primitive {
		case ir.PrimitiveString, ir.PrimitiveBinary, ir.PrimitiveAny, ir.PrimitiveRID, ir.PrimitiveBearertoken:
			return false
		}
		return true
	case ir.KindOptional:
		return ctx.IsCopy(t.Item)
	case ir.KindList, ir.KindSet, ir.KindMap:
		return false
	case ir.KindReference:
		return ctx.refIsCopy(*t.Reference)
	case ir.KindExternal:
		return ctx.IsCopy(t.Fallback)
	}
	return false
}

func (ctx *Context) refIsCopy(name ir.TypeName) bool {
	tc := ctx.lookup(name)
	if tc.isCopy.known {
		return tc.isCopy.value
	}

	tc.isCopy = memoCell{known: true, value: false} // break cycles
	isCopy := false
	if tc.def.Kind == ir.DefAlias {
		isCopy = ctx.IsCopy(&tc.def.Alias.Alias)
	}

	tc.isCopy = memoCell{known: true, value: isCopy}
	return isCopy
}

// IsRequired reports whether absence is not representable by the type itself.
func (ctx *Context) IsRequired(t *ir.Type) bool {
	switch t.Kind {
	case ir.KindPrimitive:
		return true
	case ir.KindOptional, ir.KindList, ir.KindSet, ir.KindMap:
		return false
	case ir.KindReference:
		tc := ctx.lookup(*t.Reference)
		if tc.def.Kind == ir.DefAlias {
			return ctx.IsRequired(&tc.def.Alias.Alias)
		}
		return true
	case ir.KindExternal:
		return ctx.IsRequired(t.Fallback)
	}
	return false
}

// IsDefault reports whether the type has a zero value.
func (ctx *Context) IsDefault(t *ir.Type) bool {
	switch t.Kind {
	case ir.KindPrimitive:
		switch t.Primitive {
		case ir.PrimitiveString, ir.PrimitiveInteger, ir.PrimitiveDouble,
			ir.PrimitiveSafelong, ir.PrimitiveBinary, ir.PrimitiveBoolean:
			return true
		}
		return false
	case ir.KindOptional, ir.KindList, ir.KindSet, ir.KindMap:
		return true
	case ir.KindReference:
		tc := ctx.lookup(*t.Reference)
		if tc.def.Kind == ir.DefAlias {
			return ctx.IsDefault(&tc.def.Alias.Alias)
		}
		return false
	case ir.KindExternal:
		return ctx.IsDefault(t.Fallback)
	}
	return false
}

// IsDisplay reports whether the type admits a human-readable single-line
// rendering.
func (ctx *Context) IsDisplay(t *ir.Type) bool {
	switch t.Kind {
	case ir.KindPrimitive:
		switch t.Primitive {
		case ir.PrimitiveBinary, ir.PrimitiveAny, ir.PrimitiveBearertoken:
			return false
		}
		return true
	case ir.KindOptional, ir.KindList, ir.KindSet, ir.KindMap:
		return false
	case ir.KindReference:
		tc := ctx.lookup(*t.Reference)
		switch tc.def.Kind {
		case ir.DefAlias:
			return ctx.IsDisplay(&tc.def.Alias.Alias)
		case ir.DefEnum:
			return true
		}
		return false
	case ir.KindExternal:
		return ctx.IsDisplay(t.Fallback)
	}
	return false
}

// IsPlain reports whether the type admits a lossless single-string wire form.
func (ctx *Context) IsPlain(t *ir.Type) bool {
	switch t.Kind {
	case ir.KindPrimitive:
		return t.Primitive != ir.PrimitiveAny
	case ir.KindOptional, ir.KindList, ir.KindSet, ir.KindMap:
		return false
	case ir.KindReference:
		tc := ctx.lookup(*t.Reference)
		switch tc.def.Kind {
		case ir.DefAlias:
			return ctx.IsPlain(&tc.def.Alias.Alias)
		case ir.DefEnum:
			return true
		}
		return false
	case ir.KindExternal:
		return ctx.IsPlain(t.Fallback)
	}
	return false
}

// IsIterable reports whether values of the type can be iterated.
func (ctx *Context) IsIterable(t *ir.Type) bool {
	switch t.Kind {
	case ir.KindPrimitive:
		return false
	case ir.KindOptional, ir.KindList, ir.KindSet, ir.KindMap:
		return true
	case ir.KindReference:
		tc := ctx.lookup(*t.Reference)
		if tc.def.Kind == ir.DefAlias {
			return ctx.IsIterable(&tc.def.Alias.Alias)
		}
		return false
	case ir.KindExternal:
		return ctx.IsIterable(t.Fallback)
	}
	return false
}

// IsBinary reports whether the type is the binary primitive, possibly
// through aliases.
func (ctx *Context) IsBinary(t *ir.Type) bool {
	switch t.Kind {
	case ir.KindPrimitive:
		return t.Primitive == ir.PrimitiveBinary
	case ir.KindReference:
		tc := ctx.lookup(*t.Reference)
		if tc.def.Kind == ir.DefAlias {
			return ctx.IsBinary(&tc.def.Alias.Alias)
		}
		return false
	case ir.KindExternal:
		return ctx.IsBinary(t.Fallback)
	}
	return false
}

// IsList reports whether the type is a list, possibly through aliases.
func (ctx *Context) IsList(t *ir.Type) bool {
	switch t.Kind {
	case ir.KindList:
		return true
	case ir.KindReference:
		tc := ctx.lookup(*t.Reference)
		if tc.def.Kind == ir.DefAlias {
			return ctx.IsList(&tc.def.Alias.Alias)
		}
		return false
	case ir.KindExternal:
		return ctx.IsList(t.Fallback)
	}
	return false
}

// IsSet reports whether the type is a set, possibly through aliases.
func (ctx *Context) IsSet(t *ir.Type) bool {
	switch t.Kind {
	case ir.KindSet:
		return true
	case ir.KindReference:
		tc := ctx.lookup(*t.Reference)
		if tc.def.Kind == ir.DefAlias {
			return ctx.IsSet(&tc.def.Alias.Alias)
		}
		return false
	case ir.KindExternal:
		return ctx.IsSet(t.Fallback)
	}
	return false
}

// OptionInner returns the item type when the type is directly an optional
// (through external fallbacks but not references).
func (ctx *Context) OptionInner(t *ir.Type) *ir.Type {
	switch t.Kind {
	case ir.KindOptional:
		return t.Item
	case ir.KindExternal:
		return ctx.OptionInner(t.Fallback)
	}
	return nil
}

// IsOptional resolves like OptionInner but also follows alias chains.
func (ctx *Context) IsOptional(t *ir.Type) *ir.Type {
	switch t.Kind {
	case ir.KindOptional:
		return t.Item
	case ir.KindReference:
		tc := ctx.lookup(*t.Reference)
		if tc.def.Kind == ir.DefAlias {
			return ctx.IsOptional(&tc.def.Alias.Alias)
		}
		return nil
	case ir.KindExternal:
		return ctx.IsOptional(t.Fallback)
	}
	return nil
}

// IsEmptyMethod returns the method used to decide whether a field value is
// skipped during serialization, or "" when the field is always serialized.
func (ctx *Context) IsEmptyMethod(t *ir.Type) string {
	switch t.Kind {
	case ir.KindOptional:
		return "is_none"
	case ir.KindList, ir.KindSet, ir.KindMap:
		return "is_empty"
	case ir.KindReference:
		tc := ctx.lookup(*t.Reference)
		if tc.def.Kind == ir.DefAlias {
			return ctx.IsEmptyMethod(&tc.def.Alias.Alias)
		}
		return ""
	case ir.KindExternal:
		return ctx.IsEmptyMethod(t.Fallback)
	}
	return ""
}

// IsSafeArg reports whether a marker type tags its argument log-safe.
func (ctx *Context) IsSafeArg(t *ir.Type) bool {
	if t.Kind != ir.KindExternal {
		return false
	}
	return t.ExternalRef.Package == "com.palantir.logsafe" && t.ExternalRef.Name == "Safe"
}

// IsSafeParam reports whether any marker on the argument tags it log-safe.
func (ctx *Context) IsSafeParam(arg *ir.ArgumentDefinition) bool {
	for i := range arg.Markers {
		if ctx.IsSafeArg(&arg.Markers[i]) {
			return true
		}
	}
	return false
}

// RustType renders the owned representation of a type as seen from
// thisType's module.
func (ctx *Context) RustType(thisType ir.TypeName, t *ir.Type) string {
	switch t.Kind {
	case ir.KindPrimitive:
		switch t.Primitive {
		case ir.PrimitiveString:
			return ctx.StringIdent(thisType)
		case ir.PrimitiveDatetime:
			return "conjure_object::DateTime<conjure_object::Utc>"
		case ir.PrimitiveInteger:
			return "i32"
		case ir.PrimitiveDouble:
			return "f64"
		case ir.PrimitiveSafelong:
			return "conjure_object::SafeLong"
		case ir.PrimitiveBinary:
			return "conjure_object::ByteBuf"
		case ir.PrimitiveAny:
			return "conjure_object::Value"
		case ir.PrimitiveBoolean:
			return "bool"
		case ir.PrimitiveUUID:
			return "conjure_object::Uuid"
		case ir.PrimitiveRID:
			return "conjure_object::ResourceIdentifier"
		case ir.PrimitiveBearertoken:
			return "conjure_object::BearerToken"
		}
	case ir.KindOptional:
		return ctx.OptionIdent(thisType) + "<" + ctx.RustType(thisType, t.Item) + ">"
	case ir.KindList:
		return ctx.VecIdent(thisType) + "<" + ctx.RustType(thisType, t.Item) + ">"
	case ir.KindSet:
		return "std::collections::BTreeSet<" + ctx.keyRustType(thisType, t.Item) + ">"
	case ir.KindMap:
		return "std::collections::BTreeMap<" + ctx.keyRustType(thisType, t.Key) + ", " + ctx.RustType(thisType, t.Value) + ">"
	case ir.KindReference:
		return ctx.TypePath(thisType, *t.Reference)
	case ir.KindExternal:
		return ctx.RustType(thisType, t.Fallback)
	}
	return ""
}

// keyRustType renders a set item or map key. A raw double in key position
// uses the DoubleKey wrapper so the collection has a total order.
func (ctx *Context) keyRustType(thisType ir.TypeName, t *ir.Type) string {
	if t.Kind == ir.KindPrimitive && t.Primitive == ir.PrimitiveDouble {
		return "conjure_object::DoubleKey"
	}
	return ctx.RustType(thisType, t)
}

// BoxedRustType renders the storage form of a field: the owned type wrapped
// in one level of indirection when the value could otherwise form a size
// cycle through thisType.
func (ctx *Context) BoxedRustType(thisType ir.TypeName, t *ir.Type) string {
	switch t.Kind {
	case ir.KindOptional:
		return ctx.OptionIdent(thisType) + "<" + ctx.BoxedRustType(thisType, t.Item) + ">"
	case ir.KindReference:
		return ctx.refBoxedRustType(thisType, *t.Reference)
	case ir.KindExternal:
		return ctx.BoxedRustType(thisType, t.Fallback)
	}
	return ctx.RustType(thisType, t)
}

func (ctx *Context) refBoxedRustType(thisType, name ir.TypeName) string {
	tc := ctx.lookup(name)

	needsBox := false
	switch tc.def.Kind {
	case ir.DefAlias:
		needsBox = ctx.NeedsBox(&tc.def.Alias.Alias)
	case ir.DefEnum:
		needsBox = false
	case ir.DefObject:
		// Union variants box their payloads separately.
		this := ctx.lookup(thisType)
		needsBox = this == nil || this.def.Kind != ir.DefUnion
	case ir.DefUnion:
		needsBox = true
	}

	unboxed := ctx.TypePath(thisType, name)
	if needsBox {
		return ctx.BoxIdent(name) + "<" + unboxed + ">"
	}
	return unboxed
}

// BorrowedRustType renders the borrowed form of a type used by accessors and
// client method parameters.
func (ctx *Context) BorrowedRustType(thisType ir.TypeName, t *ir.Type) string {
	switch t.Kind {
	case ir.KindPrimitive:
		switch t.Primitive {
		case ir.PrimitiveString:
			return "&str"
		case ir.PrimitiveBinary:
			return "&[u8]"
		case ir.PrimitiveAny:
			return "&conjure_object::Value"
		case ir.PrimitiveRID:
			return "&conjure_object::ResourceIdentifier"
		case ir.PrimitiveBearertoken:
			return "&conjure_object::BearerToken"
		}
		return ctx.RustType(thisType, t)
	case ir.KindOptional:
		return ctx.OptionIdent(thisType) + "<" + ctx.BorrowedRustType(thisType, t.Item) + ">"
	case ir.KindList:
		return "&[" + ctx.RustType(thisType, t.Item) + "]"
	case ir.KindSet:
		return "&std::collections::BTreeSet<" + ctx.keyRustType(thisType, t.Item) + ">"
	case ir.KindMap:
		return "&std::collections::BTreeMap<" + ctx.keyRustType(thisType, t.Key) + ", " + ctx.RustType(thisType, t.Value) + ">"
	case ir.KindReference:
		return ctx.borrowedRefType(thisType, *t.Reference)
	case ir.KindExternal:
		return ctx.BorrowedRustType(thisType, t.Fallback)
	}
	return ""
}

func (ctx *Context) borrowedRefType(thisType, name ir.TypeName) string {
	tc := ctx.lookup(name)
	path := ctx.TypePath(thisType, name)
	if tc.def.Kind == ir.DefAlias && ctx.IsCopy(&tc.def.Alias.Alias) {
		return path
	}
	return "&" + path
}

// BorrowExpr renders the expression that borrows a stored field value into
// its BorrowedRustType form.
func (ctx *Context) BorrowExpr(value string, t *ir.Type) string {
	switch t.Kind {
	case ir.KindPrimitive:
		switch t.Primitive {
		case ir.PrimitiveString, ir.PrimitiveBinary:
			return "&*" + value
		case ir.PrimitiveAny, ir.PrimitiveRID, ir.PrimitiveBearertoken:
			return "&" + value
		}
		return value
	case ir.KindOptional:
		item := ctx.BorrowExpr("*o", t.Item)
		return value + ".as_ref().map(|o| " + item + ")"
	case ir.KindList:
		return "&*" + value
	case ir.KindSet, ir.KindMap:
		return "&" + value
	case ir.KindReference:
		tc := ctx.lookup(*t.Reference)
		switch tc.def.Kind {
		case ir.DefAlias:
			inner := &tc.def.Alias.Alias
			if ctx.NeedsBox(inner) {
				return "&*" + value
			}
			if ctx.IsCopy(inner) {
				return value
			}
			return "&" + value
		case ir.DefEnum:
			return "&" + value
		}
		return "&*" + value
	case ir.KindExternal:
		return ctx.BorrowExpr(value, t.Fallback)
	}
	return value
}

// SetterKind selects the shape of a constructor or builder argument.
type SetterKind int

const (
	// SetterSimple takes the plain type.
	SetterSimple SetterKind = iota
	// SetterGeneric accepts anything convertible into the storage type.
	SetterGeneric
	// SetterCollection accepts any iterator producing the element.
	SetterCollection
)

// CollectionKind tags the collection shape of a collection setter.
type CollectionKind int

const (
	CollectionList CollectionKind = iota
	CollectionSet
	CollectionMap
)

// SetterBounds describes how one field is accepted by constructors and
// builders.
type SetterBounds struct {
	Kind SetterKind

	// SetterSimple
	ArgumentType string

	// SetterGeneric and SetterCollection
	ArgumentBound string

	// SetterSimple and SetterGeneric
	AssignRHS string

	// SetterCollection
	Collection CollectionKind
	KeyBounds  *CollectionSetterBounds
	ItemBounds *CollectionSetterBounds
}

// Setter shape predicates used by the emission templates.

func (b SetterBounds) IsSimple() bool {
	return b.Kind == SetterSimple
}

func (b SetterBounds) IsGeneric() bool {
	return b.Kind == SetterGeneric
}

func (b SetterBounds) IsCollection() bool {
	return b.Kind == SetterCollection
}

func (b SetterBounds) IsList() bool {
	return b.Kind == SetterCollection && b.Collection == CollectionList
}

func (b SetterBounds) IsSet() bool {
	return b.Kind == SetterCollection && b.Collection == CollectionSet
}

func (b SetterBounds) IsMap() bool {
	return b.Kind == SetterCollection && b.Collection == CollectionMap
}

// CollectionSetterBounds describes how a single element is accepted by the
// push/insert methods of a collection builder setter.
type CollectionSetterBounds struct {
	Generic       bool
	ArgumentType  string
	ArgumentBound string
	AssignRHS     string
}

// Setter computes the bounds for a field type. valueExpr is the expression
// naming the incoming argument.
func (ctx *Context) Setter(thisType ir.TypeName, t *ir.Type, valueExpr string) SetterBounds {
	switch t.Kind {
	case ir.KindPrimitive:
		switch t.Primitive {
		case ir.PrimitiveString:
			return SetterBounds{
				Kind:          SetterGeneric,
				ArgumentBound: ctx.IntoIdent(thisType) + "<" + ctx.StringIdent(thisType) + ">",
				AssignRHS:     valueExpr + ".into()",
			}
		case ir.PrimitiveBinary:
			return SetterBounds{
				Kind:          SetterGeneric,
				ArgumentBound: ctx.IntoIdent(thisType) + "<" + ctx.VecIdent(thisType) + "<u8>>",
				AssignRHS:     valueExpr + ".into().into()",
			}
		case ir.PrimitiveAny:
			return SetterBounds{
				Kind:          SetterGeneric,
				ArgumentBound: "conjure_object::serde::Serialize",
				AssignRHS:     "conjure_object::serde_value::to_value(" + valueExpr + ").expect(\"value failed to serialize\")",
			}
		}
		return SetterBounds{
			Kind:         SetterSimple,
			ArgumentType: ctx.RustType(thisType, t),
			AssignRHS:    valueExpr,
		}
	case ir.KindOptional:
		assignRHS := valueExpr + ".into()"
		if ctx.NeedsBox(t.Item) {
			assignRHS = valueExpr + ".into().map(" + ctx.BoxIdent(thisType) + "::new)"
		}
		return SetterBounds{
			Kind: SetterGeneric,
			ArgumentBound: ctx.IntoIdent(thisType) + "<" + ctx.OptionIdent(thisType) + "<" +
				ctx.RustType(thisType, t.Item) + ">>",
			AssignRHS: assignRHS,
		}
	case ir.KindList:
		return SetterBounds{
			Kind:          SetterCollection,
			ArgumentBound: ctx.IntoIteratorIdent(thisType) + "<Item = " + ctx.RustType(thisType, t.Item) + ">",
			Collection:    CollectionList,
			ItemBounds:    ctx.collectionSetter(thisType, t.Item, "value"),
		}
	case ir.KindSet:
		return SetterBounds{
			Kind:          SetterCollection,
			ArgumentBound: ctx.IntoIteratorIdent(thisType) + "<Item = " + ctx.keyRustType(thisType, t.Item) + ">",
			Collection:    CollectionSet,
			ItemBounds:    ctx.collectionSetter(thisType, t.Item, "value"),
		}
	case ir.KindMap:
		return SetterBounds{
			Kind: SetterCollection,
			ArgumentBound: ctx.IntoIteratorIdent(thisType) + "<Item = (" + ctx.keyRustType(thisType, t.Key) + ", " +
				ctx.RustType(thisType, t.Value) + ")>",
			Collection: CollectionMap,
			KeyBounds:  ctx.collectionSetter(thisType, t.Key, "key"),
			ItemBounds: ctx.collectionSetter(thisType, t.Value, "value"),
		}
	case ir.KindReference:
		assignRHS := valueExpr
		if ctx.refNeedsBox(*t.Reference) {
			assignRHS = ctx.BoxIdent(thisType) + "::new(" + assignRHS + ")"
		}
		return SetterBounds{
			Kind:         SetterSimple,
			ArgumentType: ctx.TypePath(thisType, *t.Reference),
			AssignRHS:    assignRHS,
		}
	case ir.KindExternal:
		return ctx.Setter(thisType, t.Fallback, valueExpr)
	}
	return SetterBounds{}
}

func (ctx *Context) collectionSetter(thisType ir.TypeName, t *ir.Type, valueExpr string) *CollectionSetterBounds {
	switch t.Kind {
	case ir.KindPrimitive:
		switch t.Primitive {
		case ir.PrimitiveString:
			return &CollectionSetterBounds{
				Generic:       true,
				ArgumentBound: ctx.IntoIdent(thisType) + "<" + ctx.StringIdent(thisType) + ">",
				AssignRHS:     valueExpr + ".into()",
			}
		case ir.PrimitiveBinary:
			return &CollectionSetterBounds{
				Generic:       true,
				ArgumentBound: ctx.IntoIdent(thisType) + "<" + ctx.VecIdent(thisType) + "<u8>>",
				AssignRHS:     valueExpr + ".into().into()",
			}
		case ir.PrimitiveAny:
			return &CollectionSetterBounds{
				Generic:       true,
				ArgumentBound: "conjure_object::serde::Serialize",
				AssignRHS:     "conjure_object::serde_value::to_value(" + valueExpr + ").expect(\"value failed to serialize\")",
			}
		}
		return &CollectionSetterBounds{
			ArgumentType: ctx.RustType(thisType, t),
			AssignRHS:    valueExpr,
		}
	case ir.KindOptional:
		return &CollectionSetterBounds{
			Generic: true,
			ArgumentBound: ctx.IntoIdent(thisType) + "<" + ctx.OptionIdent(thisType) + "<" +
				ctx.RustType(thisType, t.Item) + ">>",
			AssignRHS: valueExpr + ".into()",
		}
	case ir.KindList, ir.KindSet:
		return &CollectionSetterBounds{
			Generic:       true,
			ArgumentBound: ctx.IntoIteratorIdent(thisType) + "<Item = " + ctx.RustType(thisType, t.Item) + ">",
			AssignRHS:     valueExpr + ".into_iter().collect()",
		}
	case ir.KindMap:
		return &CollectionSetterBounds{
			Generic: true,
			ArgumentBound: ctx.IntoIteratorIdent(thisType) + "<Item = (" + ctx.keyRustType(thisType, t.Key) + ", " +
				ctx.RustType(thisType, t.Value) + ")>",
			AssignRHS: valueExpr + ".into_iter().collect()",
		}
	case ir.KindReference:
		return &CollectionSetterBounds{
			ArgumentType: ctx.TypePath(thisType, *t.Reference),
			AssignRHS:    valueExpr,
		}
	case ir.KindExternal:
		return ctx.collectionSetter(thisType, t.Fallback, valueExpr)
	}
	return &CollectionSetterBounds{}
}

// rustKeywords covers strict, reserved-for-future, and weak keywords.
var rustKeywords = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true, "crate": true,
	"else": true, "enum": true, "extern": true, "false": true, "fn": true,
	"for": true, "if": true, "impl": true, "in": true, "let": true,
	"loop": true, "match": true, "mod": true, "move": true, "mut": true,
	"pub": true, "ref": true, "return": true, "self": true, "static": true,
	"struct": true, "super": true, "trait": true, "true": true, "type": true,
	"unsafe": true, "use": true, "where": true, "while": true,
	"abstract": true, "become": true, "box": true, "do": true, "final": true,
	"macro": true, "override": true, "priv": true, "typeof": true,
	"unsized": true, "virtual": true, "yield": true,
	"union": true, "dyn": true,
}

// FieldName canonicalizes a raw member name into a Rust value identifier.
func (ctx *Context) FieldName(s string) string {
	return identName(s)
}

func identName(s string) string {
	s = utils.ToSnakeCase(s)
	if rustKeywords[s] {
		s += "_"
	}
	return s
}

// TypeIdent canonicalizes a raw type name into a Rust type identifier.
func (ctx *Context) TypeIdent(s string) string {
	name := utils.ToPascalCase(s)
	if name == "Self" {
		name += "_"
	}
	return name
}

// ModuleName returns the module holding a declared type.
func (ctx *Context) ModuleName(name ir.TypeName) string {
	return identName(name.Name)
}

// ModulePath splits the package of a TypeName into canonicalized module
// components, dropping the configured strip prefix when present.
func (ctx *Context) ModulePath(name ir.TypeName) []string {
	raw := ctx.rawModulePath(name.Package)
	if len(ctx.stripPrefix) > 0 && len(raw) >= len(ctx.stripPrefix) {
		matches := true
		for i, p := range ctx.stripPrefix {
			if raw[i] != p {
				matches = false
				break
			}
		}
		if matches {
			return raw[len(ctx.stripPrefix):]
		}
	}
	return raw
}

func (ctx *Context) rawModulePath(pkg string) []string {
	parts := strings.Split(pkg, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, identName(p))
	}
	return out
}

// TypePath renders a reference to otherType relative to thisType's module.
// The emitted path is relocatable under any root module: one super exits the
// defining type's own module, one more per non-shared component of thisType,
// then the path descends through otherType's unique components.
func (ctx *Context) TypePath(thisType, otherType ir.TypeName) string {
	thisPath := ctx.ModulePath(thisType)
	otherPath := ctx.ModulePath(otherType)

	shared := 0
	for shared < len(thisPath) && shared < len(otherPath) && thisPath[shared] == otherPath[shared] {
		shared++
	}

	components := []string{"super"}
	for i := 0; i < len(thisPath)-shared; i++ {
		components = append(components, "super")
	}
	components = append(components, otherPath[shared:]...)
	components = append(components, ctx.TypeIdent(otherType.Name))

	return strings.Join(components, "::")
}

// Prelude-guarded identifiers. When the current type shadows a well-known
// prelude name the fully qualified form is emitted instead.

func (ctx *Context) BoxIdent(name ir.TypeName) string {
	return ctx.preludeIdent(name, "Box", "std::boxed::Box")
}

func (ctx *Context) ResultIdent(name ir.TypeName) string {
	return ctx.preludeIdent(name, "Result", "std::result::Result")
}

func (ctx *Context) OkIdent(name ir.TypeName) string {
	return ctx.preludeIdent(name, "Ok", "Result::Ok")
}

func (ctx *Context) ErrIdent(name ir.TypeName) string {
	return ctx.preludeIdent(name, "Err", "Result::Err")
}

func (ctx *Context) OptionIdent(name ir.TypeName) string {
	return ctx.preludeIdent(name, "Option", "std::option::Option")
}

func (ctx *Context) SomeIdent(name ir.TypeName) string {
	return ctx.preludeIdent(name, "Some", "Option::Some")
}

func (ctx *Context) NoneIdent(name ir.TypeName) string {
	return ctx.preludeIdent(name, "None", "Option::None")
}

func (ctx *Context) StringIdent(name ir.TypeName) string {
	return ctx.preludeIdent(name, "String", "std::string::String")
}

func (ctx *Context) VecIdent(name ir.TypeName) string {
	return ctx.preludeIdent(name, "Vec", "std::vec::Vec")
}

func (ctx *Context) FromIdent(name ir.TypeName) string {
	return ctx.preludeIdent(name, "From", "std::convert::From")
}

func (ctx *Context) IntoIdent(name ir.TypeName) string {
	return ctx.preludeIdent(name, "Into", "std::convert::Into")
}

func (ctx *Context) IntoIteratorIdent(name ir.TypeName) string {
	return ctx.preludeIdent(name, "IntoIterator", "std::iter::IntoIterator")
}

func (ctx *Context) DefaultIdent(name ir.TypeName) string {
	return ctx.preludeIdent(name, "Default", "std::default::Default")
}

func (ctx *Context) preludeIdent(name ir.TypeName, short, long string) string {
	if ctx.TypeIdent(name.Name) == short {
		return long
	}
	return short
}

// Docs renders documentation as /// lines. Empty docs render nothing.
func (ctx *Context) Docs(docs string) []string {
	if docs == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(strings.TrimRight(docs, "\n"), "\n") {
		if line == "" {
			out = append(out, "///")
		} else {
			out = append(out, "/// "+line)
		}
	}
	return out
}

// Deprecated renders a deprecation attribute, or "" when the note is unset.
func (ctx *Context) Deprecated(note string) string {
	if note == "" {
		return ""
	}
	return "#[deprecated(note = " + rustString(note) + ")]"
}

// rustString renders a Rust string literal.
func rustString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
