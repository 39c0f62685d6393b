package ir

// TypeName identifies a declared type by its dotted package and name.
// Equality is structural, so TypeName is usable as a map key.
type TypeName struct {
	Package string
	Name    string
}

func (n TypeName) String() string {
	return n.Package + "." + n.Name
}

// PrimitiveType is the closed set of leaf types at the wire level.
type PrimitiveType string

const (
	PrimitiveString      PrimitiveType = "STRING"
	PrimitiveDatetime    PrimitiveType = "DATETIME"
	PrimitiveInteger     PrimitiveType = "INTEGER"
	PrimitiveDouble      PrimitiveType = "DOUBLE"
	PrimitiveSafelong    PrimitiveType = "SAFELONG"
	PrimitiveBinary      PrimitiveType = "BINARY"
	PrimitiveAny         PrimitiveType = "ANY"
	PrimitiveBoolean     PrimitiveType = "BOOLEAN"
	PrimitiveUUID        PrimitiveType = "UUID"
	PrimitiveRID         PrimitiveType = "RID"
	PrimitiveBearertoken PrimitiveType = "BEARERTOKEN"
)

// TypeKind tags the variant held by a Type.
type TypeKind string

const (
	KindPrimitive TypeKind = "primitive"
	KindOptional  TypeKind = "optional"
	KindList      TypeKind = "list"
	KindSet       TypeKind = "set"
	KindMap       TypeKind = "map"
	KindReference TypeKind = "reference"
	KindExternal  TypeKind = "external"
)

// Type is a tagged variant describing a type use site. Exactly the fields
// relevant to Kind are populated.
type Type struct {
	Kind TypeKind

	// Primitive
	Primitive PrimitiveType

	// Optional, List, Set: the element type. Map: unused.
	Item *Type

	// Map
	Key   *Type
	Value *Type

	// Reference
	Reference *TypeName

	// External: the foreign type name and the fallback used for all
	// classification decisions.
	ExternalRef *TypeName
	Fallback    *Type
}

// Convenience constructors used by tests and programmatic IR assembly.

func Primitive(p PrimitiveType) Type {
	return Type{Kind: KindPrimitive, Primitive: p}
}

func Optional(item Type) Type {
	return Type{Kind: KindOptional, Item: &item}
}

func List(item Type) Type {
	return Type{Kind: KindList, Item: &item}
}

func Set(item Type) Type {
	return Type{Kind: KindSet, Item: &item}
}

func Map(key, value Type) Type {
	return Type{Kind: KindMap, Key: &key, Value: &value}
}

func Reference(name TypeName) Type {
	return Type{Kind: KindReference, Reference: &name}
}

func External(ref TypeName, fallback Type) Type {
	return Type{Kind: KindExternal, ExternalRef: &ref, Fallback: &fallback}
}

// DefinitionKind tags the variant held by a TypeDefinition.
type DefinitionKind string

const (
	DefAlias  DefinitionKind = "alias"
	DefEnum   DefinitionKind = "enum"
	DefObject DefinitionKind = "object"
	DefUnion  DefinitionKind = "union"
)

// TypeDefinition is one declared type. Exactly one of Alias, Enum, Object,
// Union is populated, selected by Kind.
type TypeDefinition struct {
	Kind   DefinitionKind
	Alias  *AliasDefinition
	Enum   *EnumDefinition
	Object *ObjectDefinition
	Union  *UnionDefinition
}

// Name returns the TypeName of whichever variant is populated.
func (d *TypeDefinition) Name() TypeName {
	switch d.Kind {
	case DefAlias:
		return d.Alias.TypeName
	case DefEnum:
		return d.Enum.TypeName
	case DefObject:
		return d.Object.TypeName
	case DefUnion:
		return d.Union.TypeName
	}
	return TypeName{}
}

// AliasDefinition declares a newtype over an inner type.
type AliasDefinition struct {
	TypeName TypeName
	Alias    Type
	Docs     string
}

// EnumDefinition declares a closed set of named values.
type EnumDefinition struct {
	TypeName TypeName
	Values   []EnumValueDefinition
	Docs     string
}

// EnumValueDefinition is one declared enum value.
type EnumValueDefinition struct {
	Value      string
	Docs       string
	Deprecated string
}

// ObjectDefinition declares a record with ordered fields.
type ObjectDefinition struct {
	TypeName TypeName
	Fields   []FieldDefinition
	Docs     string
}

// FieldDefinition is one field of an object, one member of a union, or one
// argument of an error.
type FieldDefinition struct {
	FieldName  string
	Type       Type
	Docs       string
	Deprecated string
}

// UnionDefinition declares a tagged variant over ordered members.
type UnionDefinition struct {
	TypeName TypeName
	Union    []FieldDefinition
	Docs     string
}

// ErrorCode is the closed set of Conjure error codes.
type ErrorCode string

const (
	ErrorPermissionDenied      ErrorCode = "PERMISSION_DENIED"
	ErrorInvalidArgument       ErrorCode = "INVALID_ARGUMENT"
	ErrorNotFound              ErrorCode = "NOT_FOUND"
	ErrorConflict              ErrorCode = "CONFLICT"
	ErrorRequestEntityTooLarge ErrorCode = "REQUEST_ENTITY_TOO_LARGE"
	ErrorFailedPrecondition    ErrorCode = "FAILED_PRECONDITION"
	ErrorInternal              ErrorCode = "INTERNAL"
	ErrorTimeout               ErrorCode = "TIMEOUT"
	ErrorCustomClient          ErrorCode = "CUSTOM_CLIENT"
	ErrorCustomServer          ErrorCode = "CUSTOM_SERVER"
)

// ErrorDefinition declares a structured error with safe and unsafe args.
type ErrorDefinition struct {
	ErrorName  TypeName
	Namespace  string
	Code       ErrorCode
	SafeArgs   []FieldDefinition
	UnsafeArgs []FieldDefinition
	Docs       string
}

// ParamKind locates an endpoint argument on the wire.
type ParamKind string

const (
	ParamPath   ParamKind = "path"
	ParamQuery  ParamKind = "query"
	ParamHeader ParamKind = "header"
	ParamBody   ParamKind = "body"
)

// AuthKind describes how an endpoint authenticates.
type AuthKind string

const (
	AuthNone   AuthKind = "none"
	AuthHeader AuthKind = "header"
	AuthCookie AuthKind = "cookie"
)

// AuthDefinition carries the auth kind plus the cookie name for cookie auth.
type AuthDefinition struct {
	Kind       AuthKind
	CookieName string
}

// ArgumentDefinition is one declared endpoint argument.
type ArgumentDefinition struct {
	ArgName string
	Type    Type
	// ParamKind locates the argument; ParamID is the wire name when it
	// differs from ArgName (query key, header name).
	ParamKind ParamKind
	ParamID   string
	Docs      string
	// Markers carry per-argument annotations such as log-safety tags.
	Markers []Type
}

// WireName returns the on-the-wire name of the argument.
func (a *ArgumentDefinition) WireName() string {
	if a.ParamID != "" {
		return a.ParamID
	}
	return a.ArgName
}

// EndpointDefinition is one declared HTTP endpoint.
type EndpointDefinition struct {
	EndpointName string
	HTTPMethod   string
	HTTPPath     string
	Auth         AuthDefinition
	Args         []ArgumentDefinition
	Returns      *Type
	Docs         string
	Deprecated   string
	Tags         []string
}

// ServiceDefinition declares a named HTTP service.
type ServiceDefinition struct {
	ServiceName TypeName
	Endpoints   []EndpointDefinition
	Docs        string
}

// ConjureDefinition is the root of a loaded IR document. Declaration order
// is preserved everywhere; emitters iterate it unchanged.
type ConjureDefinition struct {
	Version  int
	Types    []TypeDefinition
	Services []ServiceDefinition
	Errors   []ErrorDefinition
}
