package rust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conjure-dev/conjure-rust-gen/pkg/config"
	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
)

func tn(name string) ir.TypeName {
	return ir.TypeName{Package: "com.palantir.product", Name: name}
}

func alias(name string, inner ir.Type) ir.TypeDefinition {
	return ir.TypeDefinition{Kind: ir.DefAlias, Alias: &ir.AliasDefinition{TypeName: tn(name), Alias: inner}}
}

func object(name string, fields ...ir.FieldDefinition) ir.TypeDefinition {
	return ir.TypeDefinition{Kind: ir.DefObject, Object: &ir.ObjectDefinition{TypeName: tn(name), Fields: fields}}
}

func union(name string, members ...ir.FieldDefinition) ir.TypeDefinition {
	return ir.TypeDefinition{Kind: ir.DefUnion, Union: &ir.UnionDefinition{TypeName: tn(name), Union: members}}
}

func enum(name string, values ...string) ir.TypeDefinition {
	def := &ir.EnumDefinition{TypeName: tn(name)}
	for _, v := range values {
		def.Values = append(def.Values, ir.EnumValueDefinition{Value: v})
	}
	return ir.TypeDefinition{Kind: ir.DefEnum, Enum: def}
}

func field(name string, t ir.Type) ir.FieldDefinition {
	return ir.FieldDefinition{FieldName: name, Type: t}
}

// testContext builds a context over an alias chain ending in double, an
// enum, and a recursive union/object pair.
func testContext(t *testing.T, target config.Target) *Context {
	t.Helper()
	def := &ir.ConjureDefinition{
		Types: []ir.TypeDefinition{
			alias("A", ir.Reference(tn("B"))),
			alias("B", ir.Reference(tn("C"))),
			alias("C", ir.Primitive(ir.PrimitiveDouble)),
			alias("StringAlias", ir.Primitive(ir.PrimitiveString)),
			alias("ListAlias", ir.List(ir.Primitive(ir.PrimitiveInteger))),
			enum("EnumExample", "ONE", "TWO"),
			union("Expr",
				field("lit", ir.Primitive(ir.PrimitiveInteger)),
				field("pair", ir.Reference(tn("Pair"))),
			),
			object("Pair",
				field("left", ir.Reference(tn("Expr"))),
				field("right", ir.Reference(tn("Expr"))),
			),
			object("Node",
				field("next", ir.Optional(ir.Reference(tn("Node")))),
			),
		},
	}
	require.NoError(t, ir.Validate(def))
	return NewContext(def, target)
}

func TestHasDoubleThroughAliasChain(t *testing.T) {
	ctx := testContext(t, config.Target{})

	a := ir.Reference(tn("A"))
	assert.True(t, ctx.HasDouble(&a))
	assert.True(t, ctx.IsDouble(&a))

	s := ir.Reference(tn("StringAlias"))
	assert.False(t, ctx.HasDouble(&s))
}

func TestHasDoubleTerminatesOnCycles(t *testing.T) {
	ctx := testContext(t, config.Target{})

	// Expr -> Pair -> Expr cycles; classification must terminate and the
	// cycle contains no double.
	expr := ir.Reference(tn("Expr"))
	assert.False(t, ctx.HasDouble(&expr))

	node := ir.Reference(tn("Node"))
	assert.False(t, ctx.HasDouble(&node))
}

func TestIsCopy(t *testing.T) {
	ctx := testContext(t, config.Target{})

	tests := []struct {
		typ      ir.Type
		expected bool
	}{
		{ir.Primitive(ir.PrimitiveDouble), true},
		{ir.Primitive(ir.PrimitiveInteger), true},
		{ir.Primitive(ir.PrimitiveUUID), true},
		{ir.Primitive(ir.PrimitiveString), false},
		{ir.Primitive(ir.PrimitiveBinary), false},
		{ir.Primitive(ir.PrimitiveRID), false},
		{ir.Optional(ir.Primitive(ir.PrimitiveBoolean)), true},
		{ir.List(ir.Primitive(ir.PrimitiveInteger)), false},
		{ir.Reference(tn("A")), true},
		{ir.Reference(tn("StringAlias")), false},
		{ir.Reference(tn("Pair")), false},
		{ir.Reference(tn("EnumExample")), false},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, ctx.IsCopy(&test.typ), "IsCopy(%+v)", test.typ)
	}
}

func TestIsRequired(t *testing.T) {
	ctx := testContext(t, config.Target{})

	tests := []struct {
		typ      ir.Type
		expected bool
	}{
		{ir.Primitive(ir.PrimitiveString), true},
		{ir.Optional(ir.Primitive(ir.PrimitiveString)), false},
		{ir.List(ir.Primitive(ir.PrimitiveString)), false},
		{ir.Map(ir.Primitive(ir.PrimitiveString), ir.Primitive(ir.PrimitiveString)), false},
		{ir.Reference(tn("Pair")), true},
		{ir.Reference(tn("ListAlias")), false},
		{ir.Reference(tn("EnumExample")), true},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, ctx.IsRequired(&test.typ), "IsRequired(%+v)", test.typ)
	}
}

func TestIsDefault(t *testing.T) {
	ctx := testContext(t, config.Target{})

	tests := []struct {
		typ      ir.Type
		expected bool
	}{
		{ir.Primitive(ir.PrimitiveString), true},
		{ir.Primitive(ir.PrimitiveBinary), true},
		{ir.Primitive(ir.PrimitiveDatetime), false},
		{ir.Primitive(ir.PrimitiveUUID), false},
		{ir.Primitive(ir.PrimitiveBearertoken), false},
		{ir.Optional(ir.Primitive(ir.PrimitiveUUID)), true},
		{ir.Set(ir.Primitive(ir.PrimitiveString)), true},
		{ir.Reference(tn("C")), true},
		{ir.Reference(tn("Pair")), false},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, ctx.IsDefault(&test.typ), "IsDefault(%+v)", test.typ)
	}
}

func TestDisplayAndPlain(t *testing.T) {
	ctx := testContext(t, config.Target{})

	bearertoken := ir.Primitive(ir.PrimitiveBearertoken)
	assert.False(t, ctx.IsDisplay(&bearertoken))
	assert.True(t, ctx.IsPlain(&bearertoken))

	anyType := ir.Primitive(ir.PrimitiveAny)
	assert.False(t, ctx.IsDisplay(&anyType))
	assert.False(t, ctx.IsPlain(&anyType))

	enumRef := ir.Reference(tn("EnumExample"))
	assert.True(t, ctx.IsDisplay(&enumRef))
	assert.True(t, ctx.IsPlain(&enumRef))

	pairRef := ir.Reference(tn("Pair"))
	assert.False(t, ctx.IsDisplay(&pairRef))
	assert.False(t, ctx.IsPlain(&pairRef))

	list := ir.List(ir.Primitive(ir.PrimitiveString))
	assert.False(t, ctx.IsDisplay(&list))
	assert.False(t, ctx.IsIterable(&bearertoken))
	assert.True(t, ctx.IsIterable(&list))
}

func TestNeedsBox(t *testing.T) {
	ctx := testContext(t, config.Target{})

	tests := []struct {
		typ      ir.Type
		expected bool
	}{
		{ir.Primitive(ir.PrimitiveString), false},
		{ir.Reference(tn("Pair")), true},
		{ir.Reference(tn("Expr")), true},
		{ir.Reference(tn("EnumExample")), false},
		{ir.Optional(ir.Reference(tn("Pair"))), true},
		{ir.List(ir.Reference(tn("Pair"))), false},
		{ir.Reference(tn("A")), false},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, ctx.NeedsBox(&test.typ), "NeedsBox(%+v)", test.typ)
	}
}

func TestRustTypeRendering(t *testing.T) {
	ctx := testContext(t, config.Target{})
	this := tn("Pair")

	tests := []struct {
		typ      ir.Type
		expected string
	}{
		{ir.Primitive(ir.PrimitiveString), "String"},
		{ir.Primitive(ir.PrimitiveSafelong), "conjure_object::SafeLong"},
		{ir.Primitive(ir.PrimitiveDatetime), "conjure_object::DateTime<conjure_object::Utc>"},
		{ir.Optional(ir.Primitive(ir.PrimitiveInteger)), "Option<i32>"},
		{ir.List(ir.Primitive(ir.PrimitiveDouble)), "Vec<f64>"},
		{ir.Set(ir.Primitive(ir.PrimitiveDouble)), "std::collections::BTreeSet<conjure_object::DoubleKey>"},
		{
			ir.Map(ir.Primitive(ir.PrimitiveString), ir.Primitive(ir.PrimitiveAny)),
			"std::collections::BTreeMap<String, conjure_object::Value>",
		},
		{ir.Reference(tn("Expr")), "super::Expr"},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, ctx.RustType(this, &test.typ), "RustType(%+v)", test.typ)
	}
}

func TestTypePathAcrossPackages(t *testing.T) {
	other := ir.TypeName{Package: "com.palantir.another.api", Name: "Widget"}
	def := &ir.ConjureDefinition{
		Types: []ir.TypeDefinition{
			alias("A", ir.Primitive(ir.PrimitiveString)),
			{Kind: ir.DefObject, Object: &ir.ObjectDefinition{TypeName: other}},
		},
	}
	ctx := NewContext(def, config.Target{})

	assert.Equal(t, "super::super::another::api::Widget", ctx.TypePath(tn("A"), other))
	assert.Equal(t, "super::super::super::product::A", ctx.TypePath(other, tn("A")))
}

func TestModulePathStripPrefix(t *testing.T) {
	def := &ir.ConjureDefinition{Types: []ir.TypeDefinition{alias("A", ir.Primitive(ir.PrimitiveString))}}

	ctx := NewContext(def, config.Target{StripPrefix: "com.palantir"})
	assert.Equal(t, []string{"product"}, ctx.ModulePath(tn("A")))

	// A path not starting with the prefix is untouched.
	outside := ir.TypeName{Package: "org.example.thing", Name: "B"}
	assert.Equal(t, []string{"org", "example", "thing"}, ctx.ModulePath(outside))

	ctx = NewContext(def, config.Target{})
	assert.Equal(t, []string{"com", "palantir", "product"}, ctx.ModulePath(tn("A")))
}

func TestIdentCanonicalization(t *testing.T) {
	ctx := testContext(t, config.Target{})

	assert.Equal(t, "type_", ctx.FieldName("type"))
	assert.Equal(t, "match_", ctx.FieldName("match"))
	assert.Equal(t, "union_", ctx.FieldName("union"))
	assert.Equal(t, "dyn_", ctx.FieldName("dyn"))
	assert.Equal(t, "multi_word_name", ctx.FieldName("multiWordName"))
	assert.Equal(t, "Self_", ctx.TypeIdent("self"))
	assert.Equal(t, "FooBar", ctx.TypeIdent("fooBar"))
}

func TestPreludeGuard(t *testing.T) {
	def := &ir.ConjureDefinition{
		Types: []ir.TypeDefinition{
			object("Option"),
			object("Point"),
		},
	}
	ctx := NewContext(def, config.Target{})

	assert.Equal(t, "std::option::Option", ctx.OptionIdent(tn("Option")))
	assert.Equal(t, "Option", ctx.OptionIdent(tn("Point")))
	assert.Equal(t, "Box", ctx.BoxIdent(tn("Option")))
}

func TestSetterShapes(t *testing.T) {
	ctx := testContext(t, config.Target{})
	this := tn("Pair")

	str := ir.Primitive(ir.PrimitiveString)
	bounds := ctx.Setter(this, &str, "label")
	assert.Equal(t, SetterGeneric, bounds.Kind)
	assert.Equal(t, "Into<String>", bounds.ArgumentBound)
	assert.Equal(t, "label.into()", bounds.AssignRHS)

	integer := ir.Primitive(ir.PrimitiveInteger)
	bounds = ctx.Setter(this, &integer, "count")
	assert.Equal(t, SetterSimple, bounds.Kind)
	assert.Equal(t, "i32", bounds.ArgumentType)

	list := ir.List(ir.Primitive(ir.PrimitiveString))
	bounds = ctx.Setter(this, &list, "items")
	assert.Equal(t, SetterCollection, bounds.Kind)
	assert.Equal(t, CollectionList, bounds.Collection)
	require.NotNil(t, bounds.ItemBounds)
	assert.True(t, bounds.ItemBounds.Generic)

	ref := ir.Reference(tn("Expr"))
	bounds = ctx.Setter(this, &ref, "value")
	assert.Equal(t, SetterSimple, bounds.Kind)
	assert.Equal(t, "Box::new(value)", bounds.AssignRHS)
}

func TestIsEmptyMethod(t *testing.T) {
	ctx := testContext(t, config.Target{})

	opt := ir.Optional(ir.Primitive(ir.PrimitiveString))
	assert.Equal(t, "is_none", ctx.IsEmptyMethod(&opt))

	list := ir.List(ir.Primitive(ir.PrimitiveString))
	assert.Equal(t, "is_empty", ctx.IsEmptyMethod(&list))

	str := ir.Primitive(ir.PrimitiveString)
	assert.Equal(t, "", ctx.IsEmptyMethod(&str))

	listAlias := ir.Reference(tn("ListAlias"))
	assert.Equal(t, "is_empty", ctx.IsEmptyMethod(&listAlias))
}

func TestStructuralClassifiers(t *testing.T) {
	ctx := testContext(t, config.Target{})

	list := ir.List(ir.Primitive(ir.PrimitiveInteger))
	set := ir.Set(ir.Primitive(ir.PrimitiveInteger))
	binary := ir.Primitive(ir.PrimitiveBinary)
	listAlias := ir.Reference(tn("ListAlias"))

	assert.True(t, ctx.IsList(&list))
	assert.False(t, ctx.IsList(&set))
	assert.True(t, ctx.IsList(&listAlias))
	assert.True(t, ctx.IsSet(&set))
	assert.False(t, ctx.IsSet(&list))
	assert.True(t, ctx.IsBinary(&binary))
	assert.False(t, ctx.IsBinary(&list))

	opt := ir.Optional(ir.Primitive(ir.PrimitiveString))
	require.NotNil(t, ctx.OptionInner(&opt))
	assert.Nil(t, ctx.OptionInner(&list))

	// IsOptional resolves through alias chains, OptionInner does not.
	def := &ir.ConjureDefinition{Types: []ir.TypeDefinition{
		alias("OptAlias", ir.Optional(ir.Primitive(ir.PrimitiveString))),
	}}
	ctx2 := NewContext(def, config.Target{})
	ref := ir.Reference(tn("OptAlias"))
	assert.Nil(t, ctx2.OptionInner(&ref))
	require.NotNil(t, ctx2.IsOptional(&ref))
}

func TestExternalFallbackClassification(t *testing.T) {
	ctx := testContext(t, config.Target{})

	ext := ir.External(
		ir.TypeName{Package: "com.example.external", Name: "Foreign"},
		ir.Primitive(ir.PrimitiveDouble),
	)
	assert.True(t, ctx.HasDouble(&ext))
	assert.True(t, ctx.IsCopy(&ext))
	assert.True(t, ctx.IsRequired(&ext))

	safe := ir.External(
		ir.TypeName{Package: "com.palantir.logsafe", Name: "Safe"},
		ir.Primitive(ir.PrimitiveString),
	)
	assert.True(t, ctx.IsSafeArg(&safe))
	assert.False(t, ctx.IsSafeArg(&ext))

	tagged := ir.ArgumentDefinition{
		ArgName: "normal",
		Type:    ir.Primitive(ir.PrimitiveString),
		Markers: []ir.Type{safe},
	}
	assert.True(t, ctx.IsSafeParam(&tagged))
	untagged := ir.ArgumentDefinition{ArgName: "other", Type: ir.Primitive(ir.PrimitiveString)}
	assert.False(t, ctx.IsSafeParam(&untagged))
}
