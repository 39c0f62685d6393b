package rust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conjure-dev/conjure-rust-gen/pkg/config"
	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
)

func exprContext(t *testing.T, target config.Target) (*Context, *ir.UnionDefinition) {
	t.Helper()
	exprDef := &ir.UnionDefinition{
		TypeName: tn("Expr"),
		Union: []ir.FieldDefinition{
			{FieldName: "lit", Type: ir.Primitive(ir.PrimitiveInteger)},
			{FieldName: "pair", Type: ir.Reference(tn("Pair"))},
			{FieldName: "nested", Type: ir.Reference(tn("Other"))},
		},
	}
	pairDef := &ir.ObjectDefinition{
		TypeName: tn("Pair"),
		Fields: []ir.FieldDefinition{
			{FieldName: "left", Type: ir.Reference(tn("Expr"))},
			{FieldName: "right", Type: ir.Reference(tn("Expr"))},
		},
	}
	otherDef := &ir.UnionDefinition{
		TypeName: tn("Other"),
		Union: []ir.FieldDefinition{
			{FieldName: "value", Type: ir.Primitive(ir.PrimitiveString)},
		},
	}
	ctx := NewContext(&ir.ConjureDefinition{
		Types: []ir.TypeDefinition{
			{Kind: ir.DefUnion, Union: exprDef},
			{Kind: ir.DefObject, Object: pairDef},
			{Kind: ir.DefUnion, Union: otherDef},
		},
	}, target)
	return ctx, exprDef
}

func TestGenerateUnionBoxesAggregatePayloads(t *testing.T) {
	ctx, def := exprContext(t, config.Target{})

	out, err := generateUnion(ctx, def)
	require.NoError(t, err)

	assert.Contains(t, out, "Lit(i32),")
	// Object and union payloads are held behind an indirection.
	assert.Contains(t, out, "Pair(Box<super::Pair>),")
	assert.Contains(t, out, "Nested(Box<super::Other>),")
	assert.Contains(t, out, "Expr::Pair(Box::new(value))")
}

func TestGenerateUnionWireFormat(t *testing.T) {
	ctx, def := exprContext(t, config.Target{})

	out, err := generateUnion(ctx, def)
	require.NoError(t, err)

	// Discriminator plus same-named payload key.
	assert.Contains(t, out, `map.serialize_entry(&"type", &"lit")?;`)
	assert.Contains(t, out, `map.serialize_entry(&"lit", value)?;`)
	// Both key orderings decode.
	assert.Contains(t, out, "Some(conjure_object::private::UnionField_::Type) => {")
	assert.Contains(t, out, "Some(conjure_object::private::UnionField_::Value(variant)) => {")
	assert.Contains(t, out, `None => return Err(de::Error::missing_field("type")),`)
}

func TestGenerateUnionUnknownCarrier(t *testing.T) {
	ctx, def := exprContext(t, config.Target{})

	out, err := generateUnion(ctx, def)
	require.NoError(t, err)

	assert.Contains(t, out, "Unknown(Unknown),")
	assert.Contains(t, out, "pub struct Unknown {")
	assert.Contains(t, out, "pub fn type_(&self) -> &str {")
	assert.Contains(t, out, "value => Variant_::Unknown(value.to_string()),")
}

func TestGenerateUnionExhaustiveHasNoUnknown(t *testing.T) {
	ctx, def := exprContext(t, config.Target{Exhaustive: true})

	out, err := generateUnion(ctx, def)
	require.NoError(t, err)

	assert.NotContains(t, out, "Unknown(Unknown)")
	assert.Contains(t, out, "return Err(de::Error::unknown_variant(value, &[]));")
}

func TestGenerateUnionVisitor(t *testing.T) {
	ctx, def := exprContext(t, config.Target{})

	out, err := generateUnion(ctx, def)
	require.NoError(t, err)

	assert.Contains(t, out, "pub trait ExprVisitor<T> {")
	assert.Contains(t, out, "fn visit_lit(self, value: i32) -> T;")
	assert.Contains(t, out, "fn visit_pair(self, value: super::Pair) -> T;")
	assert.Contains(t, out, "fn visit_unknown(self, variant: &str, value: &conjure_object::Value) -> T;")
	assert.Contains(t, out, "Expr::Pair(value) => visitor.visit_pair(*value),")
}
