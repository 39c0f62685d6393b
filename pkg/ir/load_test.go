package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
	"version": 1,
	"errors": [
		{
			"errorName": {"name": "Conflict", "package": "com.palantir.product"},
			"namespace": "Default",
			"code": "CONFLICT",
			"safeArgs": [
				{"fieldName": "resourceId", "type": {"type": "primitive", "primitive": "STRING"}}
			],
			"unsafeArgs": []
		}
	],
	"types": [
		{
			"type": "alias",
			"alias": {
				"typeName": {"name": "DoubleAliasExample", "package": "com.palantir.product"},
				"alias": {"type": "primitive", "primitive": "DOUBLE"}
			}
		},
		{
			"type": "object",
			"object": {
				"typeName": {"name": "Point", "package": "com.palantir.product"},
				"fields": [
					{"fieldName": "x", "type": {"type": "primitive", "primitive": "DOUBLE"}},
					{"fieldName": "y", "type": {"type": "primitive", "primitive": "DOUBLE"}},
					{"fieldName": "label", "type": {"type": "primitive", "primitive": "STRING"}}
				]
			}
		},
		{
			"type": "enum",
			"enum": {
				"typeName": {"name": "EnumExample", "package": "com.palantir.product"},
				"values": [{"value": "ONE"}, {"value": "TWO"}]
			}
		},
		{
			"type": "union",
			"union": {
				"typeName": {"name": "Expr", "package": "com.palantir.product"},
				"union": [
					{"fieldName": "lit", "type": {"type": "primitive", "primitive": "INTEGER"}},
					{"fieldName": "pair", "type": {"type": "reference", "reference": {"name": "Pair", "package": "com.palantir.product"}}}
				]
			}
		},
		{
			"type": "object",
			"object": {
				"typeName": {"name": "Pair", "package": "com.palantir.product"},
				"fields": [
					{"fieldName": "left", "type": {"type": "reference", "reference": {"name": "Expr", "package": "com.palantir.product"}}},
					{"fieldName": "right", "type": {"type": "reference", "reference": {"name": "Expr", "package": "com.palantir.product"}}}
				]
			}
		}
	],
	"services": [
		{
			"serviceName": {"name": "TestService", "package": "com.palantir.product"},
			"endpoints": [
				{
					"endpointName": "queryParams",
					"httpMethod": "GET",
					"httpPath": "/test/queryParams/{foo}",
					"auth": {"type": "header", "header": {}},
					"args": [
						{"argName": "foo", "type": {"type": "primitive", "primitive": "STRING"}, "paramType": {"type": "path", "path": {}}},
						{"argName": "normal", "type": {"type": "primitive", "primitive": "STRING"}, "paramType": {"type": "query", "query": {"paramId": "normal"}}, "markers": [{"type": "external", "external": {"externalReference": {"name": "Safe", "package": "com.palantir.logsafe"}, "fallback": {"type": "primitive", "primitive": "STRING"}}}]},
						{"argName": "list", "type": {"type": "list", "list": {"itemType": {"type": "primitive", "primitive": "INTEGER"}}}, "paramType": {"type": "query", "query": {"paramId": "list"}}}
					],
					"returns": {"type": "optional", "optional": {"itemType": {"type": "primitive", "primitive": "STRING"}}}
				}
			]
		}
	]
}`

func TestLoadSampleDocument(t *testing.T) {
	def, err := Load([]byte(sampleDocument))
	require.NoError(t, err)

	require.Len(t, def.Types, 5)
	assert.Equal(t, DefAlias, def.Types[0].Kind)
	assert.Equal(t, TypeName{Package: "com.palantir.product", Name: "DoubleAliasExample"}, def.Types[0].Name())
	assert.Equal(t, PrimitiveDouble, def.Types[0].Alias.Alias.Primitive)

	require.Equal(t, DefObject, def.Types[1].Kind)
	require.Len(t, def.Types[1].Object.Fields, 3)
	assert.Equal(t, "label", def.Types[1].Object.Fields[2].FieldName)

	require.Equal(t, DefUnion, def.Types[3].Kind)
	assert.Equal(t, "pair", def.Types[3].Union.Union[1].FieldName)

	require.Len(t, def.Services, 1)
	ep := def.Services[0].Endpoints[0]
	assert.Equal(t, "GET", ep.HTTPMethod)
	require.Len(t, ep.Args, 3)
	assert.Equal(t, ParamPath, ep.Args[0].ParamKind)
	assert.Equal(t, ParamQuery, ep.Args[1].ParamKind)
	assert.Equal(t, "normal", ep.Args[1].WireName())
	require.Len(t, ep.Args[1].Markers, 1)
	assert.Equal(t, KindExternal, ep.Args[1].Markers[0].Kind)
	assert.Equal(t, TypeName{Package: "com.palantir.logsafe", Name: "Safe"}, *ep.Args[1].Markers[0].ExternalRef)
	assert.Equal(t, KindList, ep.Args[2].Type.Kind)
	require.NotNil(t, ep.Returns)
	assert.Equal(t, KindOptional, ep.Returns.Kind)
	assert.Equal(t, AuthHeader, ep.Auth.Kind)

	require.Len(t, def.Errors, 1)
	assert.Equal(t, ErrorConflict, def.Errors[0].Code)
	assert.Equal(t, "Default", def.Errors[0].Namespace)
}

func TestLoadRejectsUnknownEnvelopeFields(t *testing.T) {
	_, err := Load([]byte(`{"version": 1, "types": [], "bogus": true}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed IR document")
}

func TestLoadRejectsUnknownTypeTag(t *testing.T) {
	_, err := Load([]byte(`{
		"version": 1,
		"types": [{"type": "alias", "alias": {
			"typeName": {"name": "A", "package": "com.example"},
			"alias": {"type": "tuple"}
		}}]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type tag")
}

func TestValidateRejectsUndeclaredReference(t *testing.T) {
	_, err := Load([]byte(`{
		"version": 1,
		"types": [{"type": "alias", "alias": {
			"typeName": {"name": "A", "package": "com.example"},
			"alias": {"type": "reference", "reference": {"name": "Missing", "package": "com.example"}}
		}}]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared type")
}

func TestValidateRejectsDuplicateDeclaration(t *testing.T) {
	alias := `{"type": "alias", "alias": {
		"typeName": {"name": "A", "package": "com.example"},
		"alias": {"type": "primitive", "primitive": "STRING"}
	}}`
	_, err := Load([]byte(`{"version": 1, "types": [` + alias + `, ` + alias + `]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate declaration")
}

func TestValidateRejectsUnboundPathPlaceholder(t *testing.T) {
	_, err := Load([]byte(`{
		"version": 1,
		"services": [{
			"serviceName": {"name": "S", "package": "com.example"},
			"endpoints": [{
				"endpointName": "get",
				"httpMethod": "GET",
				"httpPath": "/thing/{id}",
				"args": []
			}]
		}]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no path arg")
}

func TestValidateRejectsPathArgMissingFromTemplate(t *testing.T) {
	_, err := Load([]byte(`{
		"version": 1,
		"services": [{
			"serviceName": {"name": "S", "package": "com.example"},
			"endpoints": [{
				"endpointName": "get",
				"httpMethod": "GET",
				"httpPath": "/thing",
				"args": [{
					"argName": "id",
					"type": {"type": "primitive", "primitive": "STRING"},
					"paramType": {"type": "path", "path": {}}
				}]
			}]
		}]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not present in template")
}

func TestValidateRejectsDuplicateFieldUnderCanonicalization(t *testing.T) {
	_, err := Load([]byte(`{
		"version": 1,
		"types": [{"type": "object", "object": {
			"typeName": {"name": "O", "package": "com.example"},
			"fields": [
				{"fieldName": "fooBar", "type": {"type": "primitive", "primitive": "STRING"}},
				{"fieldName": "foo_bar", "type": {"type": "primitive", "primitive": "STRING"}}
			]
		}}]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate member")
}
