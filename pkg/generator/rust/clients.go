package rust

import (
	"strings"

	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
)

// returnKind routes response handling for an endpoint.
type returnKind int

const (
	returnEmpty returnKind = iota
	returnJSON
	returnOptionalJSON
	returnBinary
	returnOptionalBinary
)

func classifyReturn(ctx *Context, ep *ir.EndpointDefinition) returnKind {
	if ep.Returns == nil {
		return returnEmpty
	}
	if inner := ctx.IsOptional(ep.Returns); inner != nil {
		if ctx.IsBinary(inner) {
			return returnOptionalBinary
		}
		return returnOptionalJSON
	}
	if ctx.IsBinary(ep.Returns) {
		return returnBinary
	}
	return returnJSON
}

func argsOfKind(ep *ir.EndpointDefinition, kind ir.ParamKind) []*ir.ArgumentDefinition {
	var out []*ir.ArgumentDefinition
	for i := range ep.Args {
		if ep.Args[i].ParamKind == kind {
			out = append(out, &ep.Args[i])
		}
	}
	return out
}

func bodyArg(ep *ir.EndpointDefinition) *ir.ArgumentDefinition {
	args := argsOfKind(ep, ir.ParamBody)
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

// pathSegment is one parsed component of an endpoint path template.
type pathSegment struct {
	literal string
	// parameter name when the segment is a placeholder, with an optional
	// regex constraint after ":".
	param string
	regex string
}

func parsePathSegments(path string) []pathSegment {
	var out []pathSegment
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			inner := seg[1 : len(seg)-1]
			name, regex := inner, ""
			if idx := strings.Index(inner, ":"); idx >= 0 {
				name, regex = inner[:idx], inner[idx+1:]
			}
			out = append(out, pathSegment{param: name, regex: regex})
		} else {
			out = append(out, pathSegment{literal: seg})
		}
	}
	return out
}

// clientData is the template payload for one client shim (blocking or
// asynchronous).
type clientData struct {
	Def          *ir.ServiceDefinition
	ClientName   string
	ServiceTrait string
	ClientBound  string
	WriteBound   string
	Fn           string
	Await        string
	Result       string
	Endpoints    []clientEndpointData
}

// clientEndpointData carries the precomputed request construction steps of
// one endpoint method.
type clientEndpointData struct {
	Def  *ir.EndpointDefinition
	Name string
	// Params is the parameter list after &self, with its leading comma, or
	// empty for a no-argument endpoint.
	Params     string
	RetType    string
	BinaryBody bool
	BodyKind   string
	BodyName   string
	Auth       string
	CookieLit  string
	URISteps   []uriStep
	Headers    []headerStep
	Accept     string
	Decode     string
}

// uriStep is one path or query construction step. Kind selects the emitted
// shape: literal, path, pathSeq, query, querySeq, queryOpt.
type uriStep struct {
	Kind string
	Lit  string
	Arg  string
}

type headerStep struct {
	Optional bool
	Lit      string
	Arg      string
}

// generateClients emits the blocking and asynchronous client shims for one
// service.
func generateClients(ctx *Context, def *ir.ServiceDefinition) (string, error) {
	blocking, err := render(ctx, def.ServiceName, clientTemplateData(ctx, def, false), "client.rs.gotmpl")
	if err != nil {
		return "", err
	}
	async, err := render(ctx, def.ServiceName, clientTemplateData(ctx, def, true), "client.rs.gotmpl")
	if err != nil {
		return "", err
	}
	return blocking + "\n" + async, nil
}

func clientTemplateData(ctx *Context, def *ir.ServiceDefinition, async bool) *clientData {
	serviceName := ctx.TypeIdent(def.ServiceName.Name)

	data := &clientData{
		Def:          def,
		ClientName:   serviceName + "Client",
		ServiceTrait: "conjure_http::client::Service",
		ClientBound:  "conjure_http::client::Client",
		WriteBound:   "conjure_http::client::WriteBody<T::BodyWriter>",
		Fn:           "pub fn",
		Result:       ctx.ResultIdent(def.ServiceName),
	}
	if async {
		data.ClientName = serviceName + "AsyncClient"
		data.ServiceTrait = "conjure_http::client::AsyncService"
		data.ClientBound = "conjure_http::client::AsyncClient"
		data.WriteBound = "conjure_http::client::AsyncWriteBody<T::BodyWriter> + Sync + Send"
		data.Fn = "pub async fn"
		data.Await = ".await"
	}

	for i := range def.Endpoints {
		data.Endpoints = append(data.Endpoints, clientEndpointTemplateData(ctx, def, &def.Endpoints[i]))
	}
	return data
}

func clientEndpointTemplateData(ctx *Context, def *ir.ServiceDefinition, ep *ir.EndpointDefinition) clientEndpointData {
	this := def.ServiceName
	ret := classifyReturn(ctx, ep)
	body := bodyArg(ep)
	binaryBody := body != nil && ctx.IsBinary(&body.Type)

	data := clientEndpointData{
		Def:        ep,
		Name:       ctx.FieldName(ep.EndpointName),
		BinaryBody: binaryBody,
	}

	var args []string
	if ep.Auth.Kind != ir.AuthNone {
		args = append(args, "auth: &conjure_object::BearerToken")
	}
	for i := range ep.Args {
		arg := &ep.Args[i]
		if arg == body && binaryBody {
			args = append(args, ctx.FieldName(arg.ArgName)+": U")
			continue
		}
		args = append(args, ctx.FieldName(arg.ArgName)+": "+ctx.BorrowedRustType(this, &arg.Type))
	}
	if len(args) > 0 {
		data.Params = ", " + joinComma(args)
	}

	switch ret {
	case returnEmpty:
		data.RetType = "()"
	case returnJSON, returnOptionalJSON:
		data.RetType = ctx.RustType(this, ep.Returns)
	case returnBinary:
		data.RetType = "T::ResponseBody"
	case returnOptionalBinary:
		data.RetType = ctx.OptionIdent(this) + "<T::ResponseBody>"
	}

	switch {
	case body == nil:
		data.BodyKind = "empty"
	case binaryBody:
		data.BodyKind = "binary"
	default:
		data.BodyKind = "json"
	}
	if body != nil {
		data.BodyName = ctx.FieldName(body.ArgName)
	}

	switch ep.Auth.Kind {
	case ir.AuthNone:
		data.Auth = "none"
	case ir.AuthHeader:
		data.Auth = "header"
	case ir.AuthCookie:
		data.Auth = "cookie"
		data.CookieLit = rustString(ep.Auth.CookieName)
	}

	data.URISteps = uriSteps(ctx, ep)

	for _, arg := range argsOfKind(ep, ir.ParamHeader) {
		data.Headers = append(data.Headers, headerStep{
			Optional: ctx.OptionInner(&arg.Type) != nil,
			Lit:      rustString(arg.WireName()),
			Arg:      ctx.FieldName(arg.ArgName),
		})
	}

	switch ret {
	case returnJSON, returnOptionalJSON:
		data.Accept = "json"
	case returnBinary, returnOptionalBinary:
		data.Accept = "binary"
	}

	switch ret {
	case returnEmpty:
		data.Decode = "decode_empty_response"
	case returnJSON:
		data.Decode = "decode_serializable_response"
	case returnOptionalJSON:
		data.Decode = "decode_default_serializable_response"
	case returnBinary:
		data.Decode = "decode_binary_response"
	case returnOptionalBinary:
		data.Decode = "decode_optional_binary_response"
	}

	return data
}

// uriSteps interpolates the path template and appends query parameters. Path
// parameters percent-encode every byte outside the unreserved set;
// multi-valued path parameters contribute one encoded segment per element.
func uriSteps(ctx *Context, ep *ir.EndpointDefinition) []uriStep {
	pathArgs := map[string]*ir.ArgumentDefinition{}
	for _, arg := range argsOfKind(ep, ir.ParamPath) {
		pathArgs[arg.ArgName] = arg
	}

	var steps []uriStep
	pending := ""
	flush := func() {
		if pending != "" {
			steps = append(steps, uriStep{Kind: "literal", Lit: rustString(pending)})
			pending = ""
		}
	}
	for _, seg := range parsePathSegments(ep.HTTPPath) {
		if seg.param == "" {
			pending += "/" + seg.literal
			continue
		}
		flush()
		arg := pathArgs[seg.param]
		kind := "path"
		if ctx.IsIterable(&arg.Type) {
			kind = "pathSeq"
		}
		steps = append(steps, uriStep{Kind: kind, Arg: ctx.FieldName(arg.ArgName)})
	}
	flush()

	for _, arg := range argsOfKind(ep, ir.ParamQuery) {
		step := uriStep{
			Kind: "query",
			Lit:  rustString(arg.WireName()),
			Arg:  ctx.FieldName(arg.ArgName),
		}
		switch {
		case ctx.OptionInner(&arg.Type) != nil:
			step.Kind = "queryOpt"
		case ctx.IsIterable(&arg.Type):
			step.Kind = "querySeq"
		}
		steps = append(steps, step)
	}
	return steps
}
