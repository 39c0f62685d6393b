package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/conjure-dev/conjure-rust-gen/pkg/utils"
)

// LoadFile reads and decodes a Conjure IR document from disk and validates
// its internal consistency.
func LoadFile(path string) (*ConjureDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read IR document %s: %w", path, err)
	}
	return Load(data)
}

// Load decodes a Conjure IR document and validates its internal consistency.
// Unknown fields at the envelope level are rejected.
func Load(data []byte) (*ConjureDefinition, error) {
	var w wireDefinition
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("malformed IR document: %w", err)
	}

	def, err := w.model()
	if err != nil {
		return nil, err
	}
	if err := Validate(def); err != nil {
		return nil, err
	}
	return def, nil
}

// wire format: every polymorphic node is a {"type": tag, tag: payload} pair.

type wireDefinition struct {
	Version    int                  `json:"version"`
	Errors     []wireError          `json:"errors"`
	Types      []wireTypeDefinition `json:"types"`
	Services   []wireService        `json:"services"`
	Extensions map[string]any       `json:"extensions"`
}

type wireTypeName struct {
	Name    string `json:"name"`
	Package string `json:"package"`
}

func (w wireTypeName) model() TypeName {
	return TypeName{Package: w.Package, Name: w.Name}
}

type wireType struct {
	Type      string        `json:"type"`
	Primitive PrimitiveType `json:"primitive,omitempty"`
	Optional  *struct {
		ItemType wireType `json:"itemType"`
	} `json:"optional,omitempty"`
	List *struct {
		ItemType wireType `json:"itemType"`
	} `json:"list,omitempty"`
	Set *struct {
		ItemType wireType `json:"itemType"`
	} `json:"set,omitempty"`
	Map *struct {
		KeyType   wireType `json:"keyType"`
		ValueType wireType `json:"valueType"`
	} `json:"map,omitempty"`
	Reference *wireTypeName `json:"reference,omitempty"`
	External  *struct {
		ExternalReference wireTypeName `json:"externalReference"`
		Fallback          wireType     `json:"fallback"`
	} `json:"external,omitempty"`
}

func (w *wireType) model() (Type, error) {
	switch w.Type {
	case "primitive":
		switch w.Primitive {
		case PrimitiveString, PrimitiveDatetime, PrimitiveInteger, PrimitiveDouble,
			PrimitiveSafelong, PrimitiveBinary, PrimitiveAny, PrimitiveBoolean,
			PrimitiveUUID, PrimitiveRID, PrimitiveBearertoken:
			return Primitive(w.Primitive), nil
		}
		return Type{}, fmt.Errorf("malformed IR document: unknown primitive %q", w.Primitive)
	case "optional":
		if w.Optional == nil {
			return Type{}, fmt.Errorf("malformed IR document: optional type missing payload")
		}
		item, err := w.Optional.ItemType.model()
		if err != nil {
			return Type{}, err
		}
		return Optional(item), nil
	case "list":
		if w.List == nil {
			return Type{}, fmt.Errorf("malformed IR document: list type missing payload")
		}
		item, err := w.List.ItemType.model()
		if err != nil {
			return Type{}, err
		}
		return List(item), nil
	case "set":
		if w.Set == nil {
			return Type{}, fmt.Errorf("malformed IR document: set type missing payload")
		}
		item, err := w.Set.ItemType.model()
		if err != nil {
			return Type{}, err
		}
		return Set(item), nil
	case "map":
		if w.Map == nil {
			return Type{}, fmt.Errorf("malformed IR document: map type missing payload")
		}
		key, err := w.Map.KeyType.model()
		if err != nil {
			return Type{}, err
		}
		value, err := w.Map.ValueType.model()
		if err != nil {
			return Type{}, err
		}
		return Map(key, value), nil
	case "reference":
		if w.Reference == nil {
			return Type{}, fmt.Errorf("malformed IR document: reference type missing payload")
		}
		return Reference(w.Reference.model()), nil
	case "external":
		if w.External == nil {
			return Type{}, fmt.Errorf("malformed IR document: external type missing payload")
		}
		fallback, err := w.External.Fallback.model()
		if err != nil {
			return Type{}, err
		}
		return External(w.External.ExternalReference.model(), fallback), nil
	}
	return Type{}, fmt.Errorf("malformed IR document: unknown type tag %q", w.Type)
}

type wireField struct {
	FieldName  string   `json:"fieldName"`
	Type       wireType `json:"type"`
	Docs       string   `json:"docs,omitempty"`
	Deprecated string   `json:"deprecated,omitempty"`
}

func (w *wireField) model() (FieldDefinition, error) {
	typ, err := w.Type.model()
	if err != nil {
		return FieldDefinition{}, err
	}
	return FieldDefinition{
		FieldName:  w.FieldName,
		Type:       typ,
		Docs:       w.Docs,
		Deprecated: w.Deprecated,
	}, nil
}

func wireFields(ws []wireField) ([]FieldDefinition, error) {
	out := make([]FieldDefinition, 0, len(ws))
	for i := range ws {
		f, err := ws[i].model()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

type wireTypeDefinition struct {
	Type  string `json:"type"`
	Alias *struct {
		TypeName wireTypeName `json:"typeName"`
		Alias    wireType     `json:"alias"`
		Docs     string       `json:"docs,omitempty"`
	} `json:"alias,omitempty"`
	Enum *struct {
		TypeName wireTypeName `json:"typeName"`
		Values   []struct {
			Value      string `json:"value"`
			Docs       string `json:"docs,omitempty"`
			Deprecated string `json:"deprecated,omitempty"`
		} `json:"values"`
		Docs string `json:"docs,omitempty"`
	} `json:"enum,omitempty"`
	Object *struct {
		TypeName wireTypeName `json:"typeName"`
		Fields   []wireField  `json:"fields"`
		Docs     string       `json:"docs,omitempty"`
	} `json:"object,omitempty"`
	Union *struct {
		TypeName wireTypeName `json:"typeName"`
		Union    []wireField  `json:"union"`
		Docs     string       `json:"docs,omitempty"`
	} `json:"union,omitempty"`
}

func (w *wireTypeDefinition) model() (TypeDefinition, error) {
	switch w.Type {
	case "alias":
		if w.Alias == nil {
			return TypeDefinition{}, fmt.Errorf("malformed IR document: alias definition missing payload")
		}
		inner, err := w.Alias.Alias.model()
		if err != nil {
			return TypeDefinition{}, err
		}
		return TypeDefinition{Kind: DefAlias, Alias: &AliasDefinition{
			TypeName: w.Alias.TypeName.model(),
			Alias:    inner,
			Docs:     w.Alias.Docs,
		}}, nil
	case "enum":
		if w.Enum == nil {
			return TypeDefinition{}, fmt.Errorf("malformed IR document: enum definition missing payload")
		}
		values := make([]EnumValueDefinition, 0, len(w.Enum.Values))
		for _, v := range w.Enum.Values {
			values = append(values, EnumValueDefinition{Value: v.Value, Docs: v.Docs, Deprecated: v.Deprecated})
		}
		return TypeDefinition{Kind: DefEnum, Enum: &EnumDefinition{
			TypeName: w.Enum.TypeName.model(),
			Values:   values,
			Docs:     w.Enum.Docs,
		}}, nil
	case "object":
		if w.Object == nil {
			return TypeDefinition{}, fmt.Errorf("malformed IR document: object definition missing payload")
		}
		fields, err := wireFields(w.Object.Fields)
		if err != nil {
			return TypeDefinition{}, err
		}
		return TypeDefinition{Kind: DefObject, Object: &ObjectDefinition{
			TypeName: w.Object.TypeName.model(),
			Fields:   fields,
			Docs:     w.Object.Docs,
		}}, nil
	case "union":
		if w.Union == nil {
			return TypeDefinition{}, fmt.Errorf("malformed IR document: union definition missing payload")
		}
		members, err := wireFields(w.Union.Union)
		if err != nil {
			return TypeDefinition{}, err
		}
		return TypeDefinition{Kind: DefUnion, Union: &UnionDefinition{
			TypeName: w.Union.TypeName.model(),
			Union:    members,
			Docs:     w.Union.Docs,
		}}, nil
	}
	return TypeDefinition{}, fmt.Errorf("malformed IR document: unknown type definition tag %q", w.Type)
}

type wireError struct {
	ErrorName  wireTypeName `json:"errorName"`
	Namespace  string       `json:"namespace"`
	Code       ErrorCode    `json:"code"`
	SafeArgs   []wireField  `json:"safeArgs"`
	UnsafeArgs []wireField  `json:"unsafeArgs"`
	Docs       string       `json:"docs,omitempty"`
}

func (w *wireError) model() (ErrorDefinition, error) {
	safe, err := wireFields(w.SafeArgs)
	if err != nil {
		return ErrorDefinition{}, err
	}
	unsafe, err := wireFields(w.UnsafeArgs)
	if err != nil {
		return ErrorDefinition{}, err
	}
	return ErrorDefinition{
		ErrorName:  w.ErrorName.model(),
		Namespace:  w.Namespace,
		Code:       w.Code,
		SafeArgs:   safe,
		UnsafeArgs: unsafe,
		Docs:       w.Docs,
	}, nil
}

type wireAuth struct {
	Type   string    `json:"type"`
	Header *struct{} `json:"header,omitempty"`
	Cookie *struct {
		CookieName string `json:"cookieName"`
	} `json:"cookie,omitempty"`
	None *struct{} `json:"none,omitempty"`
}

func (w *wireAuth) model() (AuthDefinition, error) {
	if w == nil {
		return AuthDefinition{Kind: AuthNone}, nil
	}
	switch w.Type {
	case "", "none":
		return AuthDefinition{Kind: AuthNone}, nil
	case "header":
		return AuthDefinition{Kind: AuthHeader}, nil
	case "cookie":
		if w.Cookie == nil || w.Cookie.CookieName == "" {
			return AuthDefinition{}, fmt.Errorf("malformed IR document: cookie auth missing cookieName")
		}
		return AuthDefinition{Kind: AuthCookie, CookieName: w.Cookie.CookieName}, nil
	}
	return AuthDefinition{}, fmt.Errorf("malformed IR document: unknown auth tag %q", w.Type)
}

type wireParamType struct {
	Type  string    `json:"type"`
	Path  *struct{} `json:"path,omitempty"`
	Body  *struct{} `json:"body,omitempty"`
	Query *struct {
		ParamID string `json:"paramId"`
	} `json:"query,omitempty"`
	Header *struct {
		ParamID string `json:"paramId"`
	} `json:"header,omitempty"`
}

type wireArgument struct {
	ArgName   string        `json:"argName"`
	Type      wireType      `json:"type"`
	ParamType wireParamType `json:"paramType"`
	Docs      string        `json:"docs,omitempty"`
	Markers   []wireType    `json:"markers,omitempty"`
}

func (w *wireArgument) model() (ArgumentDefinition, error) {
	typ, err := w.Type.model()
	if err != nil {
		return ArgumentDefinition{}, err
	}
	arg := ArgumentDefinition{ArgName: w.ArgName, Type: typ, Docs: w.Docs}
	for i := range w.Markers {
		marker, err := w.Markers[i].model()
		if err != nil {
			return ArgumentDefinition{}, err
		}
		arg.Markers = append(arg.Markers, marker)
	}
	switch w.ParamType.Type {
	case "path":
		arg.ParamKind = ParamPath
	case "body":
		arg.ParamKind = ParamBody
	case "query":
		arg.ParamKind = ParamQuery
		if w.ParamType.Query != nil {
			arg.ParamID = w.ParamType.Query.ParamID
		}
	case "header":
		arg.ParamKind = ParamHeader
		if w.ParamType.Header != nil {
			arg.ParamID = w.ParamType.Header.ParamID
		}
	default:
		return ArgumentDefinition{}, fmt.Errorf("malformed IR document: unknown param type %q for arg %q", w.ParamType.Type, w.ArgName)
	}
	return arg, nil
}

type wireEndpoint struct {
	EndpointName string         `json:"endpointName"`
	HTTPMethod   string         `json:"httpMethod"`
	HTTPPath     string         `json:"httpPath"`
	Auth         *wireAuth      `json:"auth,omitempty"`
	Args         []wireArgument `json:"args"`
	Returns      *wireType      `json:"returns,omitempty"`
	Docs         string         `json:"docs,omitempty"`
	Deprecated   string         `json:"deprecated,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
}

type wireService struct {
	ServiceName wireTypeName   `json:"serviceName"`
	Endpoints   []wireEndpoint `json:"endpoints"`
	Docs        string         `json:"docs,omitempty"`
}

func (w *wireService) model() (ServiceDefinition, error) {
	svc := ServiceDefinition{ServiceName: w.ServiceName.model(), Docs: w.Docs}
	for i := range w.Endpoints {
		we := &w.Endpoints[i]
		auth, err := we.Auth.model()
		if err != nil {
			return ServiceDefinition{}, err
		}
		ep := EndpointDefinition{
			EndpointName: we.EndpointName,
			HTTPMethod:   strings.ToUpper(we.HTTPMethod),
			HTTPPath:     we.HTTPPath,
			Auth:         auth,
			Docs:         we.Docs,
			Deprecated:   we.Deprecated,
			Tags:         we.Tags,
		}
		for j := range we.Args {
			arg, err := we.Args[j].model()
			if err != nil {
				return ServiceDefinition{}, err
			}
			ep.Args = append(ep.Args, arg)
		}
		if we.Returns != nil {
			ret, err := we.Returns.model()
			if err != nil {
				return ServiceDefinition{}, err
			}
			ep.Returns = &ret
		}
		svc.Endpoints = append(svc.Endpoints, ep)
	}
	return svc, nil
}

func (w *wireDefinition) model() (*ConjureDefinition, error) {
	def := &ConjureDefinition{Version: w.Version}
	for i := range w.Types {
		td, err := w.Types[i].model()
		if err != nil {
			return nil, err
		}
		def.Types = append(def.Types, td)
	}
	for i := range w.Services {
		svc, err := w.Services[i].model()
		if err != nil {
			return nil, err
		}
		def.Services = append(def.Services, svc)
	}
	for i := range w.Errors {
		e, err := w.Errors[i].model()
		if err != nil {
			return nil, err
		}
		def.Errors = append(def.Errors, e)
	}
	return def, nil
}

var pathPlaceholder = regexp.MustCompile(`\{([^}:]+)(?::[^}]*)?\}`)

// Validate checks the internal consistency of a decoded document: every
// reference resolves to exactly one declaration, declarations are unique,
// member names are unique under canonicalization, and every path template
// placeholder is bound to a declared path argument.
func Validate(def *ConjureDefinition) error {
	declared := make(map[TypeName]struct{}, len(def.Types))
	for i := range def.Types {
		name := def.Types[i].Name()
		if _, ok := declared[name]; ok {
			return fmt.Errorf("inconsistent IR document: duplicate declaration of %s", name)
		}
		declared[name] = struct{}{}
	}

	for i := range def.Types {
		td := &def.Types[i]
		name := td.Name()
		switch td.Kind {
		case DefAlias:
			if err := checkRefs(declared, &td.Alias.Alias, name); err != nil {
				return err
			}
		case DefEnum:
			seen := map[string]struct{}{}
			for _, v := range td.Enum.Values {
				if _, ok := seen[v.Value]; ok {
					return fmt.Errorf("inconsistent IR document: duplicate value %q in enum %s", v.Value, name)
				}
				seen[v.Value] = struct{}{}
			}
		case DefObject:
			if err := checkMembers(declared, td.Object.Fields, name, utils.ToSnakeCase); err != nil {
				return err
			}
		case DefUnion:
			if err := checkMembers(declared, td.Union.Union, name, utils.ToPascalCase); err != nil {
				return err
			}
		}
	}

	for i := range def.Errors {
		e := &def.Errors[i]
		for _, args := range [][]FieldDefinition{e.SafeArgs, e.UnsafeArgs} {
			for j := range args {
				if err := checkRefs(declared, &args[j].Type, e.ErrorName); err != nil {
					return err
				}
			}
		}
	}

	for i := range def.Services {
		svc := &def.Services[i]
		for j := range svc.Endpoints {
			if err := validateEndpoint(declared, svc.ServiceName, &svc.Endpoints[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateEndpoint(declared map[TypeName]struct{}, svc TypeName, ep *EndpointDefinition) error {
	placeholders := map[string]struct{}{}
	for _, m := range pathPlaceholder.FindAllStringSubmatch(ep.HTTPPath, -1) {
		placeholders[m[1]] = struct{}{}
	}

	pathArgs := map[string]struct{}{}
	bodies := 0
	for i := range ep.Args {
		arg := &ep.Args[i]
		if err := checkRefs(declared, &arg.Type, svc); err != nil {
			return err
		}
		switch arg.ParamKind {
		case ParamPath:
			if _, ok := placeholders[arg.ArgName]; !ok {
				return fmt.Errorf("inconsistent IR document: endpoint %s.%s declares path arg %q not present in template %q",
					svc.Name, ep.EndpointName, arg.ArgName, ep.HTTPPath)
			}
			pathArgs[arg.ArgName] = struct{}{}
		case ParamBody:
			bodies++
		}
	}
	for p := range placeholders {
		if _, ok := pathArgs[p]; !ok {
			return fmt.Errorf("inconsistent IR document: endpoint %s.%s template placeholder {%s} has no path arg",
				svc.Name, ep.EndpointName, p)
		}
	}
	if bodies > 1 {
		return fmt.Errorf("inconsistent IR document: endpoint %s.%s declares %d body args", svc.Name, ep.EndpointName, bodies)
	}
	if ep.Returns != nil {
		if err := checkRefs(declared, ep.Returns, svc); err != nil {
			return err
		}
	}
	return nil
}

func checkMembers(declared map[TypeName]struct{}, fields []FieldDefinition, owner TypeName, canon func(string) string) error {
	seen := map[string]struct{}{}
	for i := range fields {
		key := canon(fields[i].FieldName)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("inconsistent IR document: duplicate member %q in %s", fields[i].FieldName, owner)
		}
		seen[key] = struct{}{}
		if err := checkRefs(declared, &fields[i].Type, owner); err != nil {
			return err
		}
	}
	return nil
}

func checkRefs(declared map[TypeName]struct{}, t *Type, owner TypeName) error {
	switch t.Kind {
	case KindPrimitive:
		return nil
	case KindOptional, KindList, KindSet:
		return checkRefs(declared, t.Item, owner)
	case KindMap:
		if err := checkRefs(declared, t.Key, owner); err != nil {
			return err
		}
		return checkRefs(declared, t.Value, owner)
	case KindReference:
		if _, ok := declared[*t.Reference]; !ok {
			return fmt.Errorf("inconsistent IR document: %s references undeclared type %s", owner, t.Reference)
		}
		return nil
	case KindExternal:
		return checkRefs(declared, t.Fallback, owner)
	}
	return fmt.Errorf("inconsistent IR document: %s contains a type with no variant", owner)
}
