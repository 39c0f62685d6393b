package rust

import (
	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
)

// serverData is the template payload for one server shape (blocking or
// asynchronous): the trait, the endpoint collection, and the endpoint
// objects dispatching into the trait.
type serverData struct {
	Def           *ir.ServiceDefinition
	Trait         string
	Collection    string
	ServiceTrait  string
	EndpointTrait string
	ResponseBody  string
	Fn            string
	HandleFn      string
	Await         string
	Async         bool
	Result        string
	ServiceLit    string
	Endpoints     []serverEndpointData
}

// serverEndpointData carries the precomputed dispatch steps of one endpoint
// object.
type serverEndpointData struct {
	Def           *ir.EndpointDefinition
	Name          string
	StructName    string
	TraitParams   string
	TraitRet      string
	PathSegs      []pathSegData
	TemplateLit   string
	NameLit       string
	DeprecatedOpt string
	Auth          string
	CookieLit     string
	PathParams    []parseStep
	QueryParams   []parseStep
	Headers       []parseStep
	SafeParams    []parseStep
	BodyKind      string
	BodyIdent     string
	PartsName     string
	BodyName      string
	ExtName       string
	CallArgs      string
	ReturnKind    string
}

// pathSegData is one segment of the parsed path template metadata.
type pathSegData struct {
	Param    bool
	Lit      string
	NameLit  string
	RegexLit string
}

// parseStep decodes one argument out of the request.
type parseStep struct {
	Ident  string
	ArgLit string
	KeyLit string
	Parse  string
}

// generateServers emits the blocking and asynchronous service traits plus
// the endpoint objects dispatching into them.
func generateServers(ctx *Context, def *ir.ServiceDefinition) (string, error) {
	blocking, err := render(ctx, def.ServiceName, serverTemplateData(ctx, def, false), "server.rs.gotmpl")
	if err != nil {
		return "", err
	}
	async, err := render(ctx, def.ServiceName, serverTemplateData(ctx, def, true), "server.rs.gotmpl")
	if err != nil {
		return "", err
	}
	return blocking + "\n" + async, nil
}

func serverTemplateData(ctx *Context, def *ir.ServiceDefinition, async bool) *serverData {
	name := ctx.TypeIdent(def.ServiceName.Name)

	data := &serverData{
		Def:           def,
		Trait:         name,
		ServiceTrait:  "conjure_http::server::Service",
		EndpointTrait: "conjure_http::server::Endpoint",
		ResponseBody:  "conjure_http::server::ResponseBody",
		Fn:            "fn",
		HandleFn:      "fn",
		Async:         async,
		Result:        ctx.ResultIdent(def.ServiceName),
		ServiceLit:    rustString(name),
	}
	if async {
		data.Trait = "Async" + name
		data.ServiceTrait = "conjure_http::server::AsyncService"
		data.EndpointTrait = "conjure_http::server::AsyncEndpoint"
		data.ResponseBody = "conjure_http::server::AsyncResponseBody"
		data.Fn = "async fn"
		data.HandleFn = "async fn"
		data.Await = ".await"
	}
	data.Collection = data.Trait + "Endpoints"

	for i := range def.Endpoints {
		data.Endpoints = append(data.Endpoints, serverEndpointTemplateData(ctx, def, &def.Endpoints[i], async))
	}
	return data
}

// serverArgType is the owned form a decoded argument is handed to the trait
// in. Binary bodies stay as the request body stream.
func serverArgType(ctx *Context, this ir.TypeName, arg *ir.ArgumentDefinition) string {
	if arg.ParamKind == ir.ParamBody && ctx.IsBinary(&arg.Type) {
		return "I"
	}
	return ctx.RustType(this, &arg.Type)
}

func serverReturnType(ctx *Context, this ir.TypeName, ep *ir.EndpointDefinition, async bool) string {
	writeBody := "Box<dyn conjure_http::server::WriteBody<O> + 'static>"
	if async {
		writeBody = "Box<dyn conjure_http::server::AsyncWriteBody<O> + Sync + Send + 'static>"
	}
	switch classifyReturn(ctx, ep) {
	case returnEmpty:
		return "()"
	case returnBinary:
		return writeBody
	case returnOptionalBinary:
		return ctx.OptionIdent(this) + "<" + writeBody + ">"
	}
	return ctx.RustType(this, ep.Returns)
}

func serverEndpointTemplateData(ctx *Context, def *ir.ServiceDefinition, ep *ir.EndpointDefinition, async bool) serverEndpointData {
	this := def.ServiceName
	body := bodyArg(ep)
	binaryBody := body != nil && ctx.IsBinary(&body.Type)
	ret := classifyReturn(ctx, ep)

	structName := ctx.TypeIdent(ep.EndpointName) + "Endpoint_"
	if async {
		structName = "Async" + structName
	}

	data := serverEndpointData{
		Def:         ep,
		Name:        ctx.FieldName(ep.EndpointName),
		StructName:  structName,
		TraitRet:    serverReturnType(ctx, this, ep, async),
		TemplateLit: rustString(ep.HTTPPath),
		NameLit:     rustString(ep.EndpointName),
	}

	if ep.Deprecated == "" {
		data.DeprecatedOpt = "None"
	} else {
		data.DeprecatedOpt = "Some(" + rustString(ep.Deprecated) + ")"
	}

	for _, seg := range parsePathSegments(ep.HTTPPath) {
		if seg.param == "" {
			data.PathSegs = append(data.PathSegs, pathSegData{Lit: rustString(seg.literal)})
			continue
		}
		ps := pathSegData{Param: true, NameLit: rustString(seg.param)}
		if seg.regex != "" {
			ps.RegexLit = rustString(seg.regex)
		}
		data.PathSegs = append(data.PathSegs, ps)
	}

	var params, callArgs []string
	if ep.Auth.Kind != ir.AuthNone {
		params = append(params, "auth_: conjure_object::BearerToken")
		callArgs = append(callArgs, "auth_")
	}
	for i := range ep.Args {
		arg := &ep.Args[i]
		params = append(params, ctx.FieldName(arg.ArgName)+": "+serverArgType(ctx, this, arg))
		callArgs = append(callArgs, ctx.FieldName(arg.ArgName))
	}
	if len(params) > 0 {
		data.TraitParams = ", " + joinComma(params)
	}
	data.CallArgs = joinComma(callArgs)

	switch ep.Auth.Kind {
	case ir.AuthNone:
		data.Auth = "none"
	case ir.AuthHeader:
		data.Auth = "header"
	case ir.AuthCookie:
		data.Auth = "cookie"
		data.CookieLit = rustString(ep.Auth.CookieName)
	}

	for _, arg := range argsOfKind(ep, ir.ParamPath) {
		data.PathParams = append(data.PathParams, parseStep{
			Ident:  ctx.FieldName(arg.ArgName),
			ArgLit: rustString(arg.ArgName),
		})
	}

	for _, arg := range argsOfKind(ep, ir.ParamQuery) {
		parse := "parse_query_param"
		switch {
		case ctx.OptionInner(&arg.Type) != nil:
			parse = "parse_optional_query_param"
		case ctx.IsSet(&arg.Type):
			parse = "parse_set_query_param"
		case ctx.IsIterable(&arg.Type):
			parse = "parse_list_query_param"
		}
		data.QueryParams = append(data.QueryParams, parseStep{
			Ident:  ctx.FieldName(arg.ArgName),
			ArgLit: rustString(arg.ArgName),
			KeyLit: rustString(arg.WireName()),
			Parse:  parse,
		})
	}

	for _, arg := range argsOfKind(ep, ir.ParamHeader) {
		parse := "parse_required_header"
		if ctx.OptionInner(&arg.Type) != nil {
			parse = "parse_optional_header"
		}
		data.Headers = append(data.Headers, parseStep{
			Ident:  ctx.FieldName(arg.ArgName),
			ArgLit: rustString(arg.ArgName),
			KeyLit: rustString(arg.WireName()),
			Parse:  parse,
		})
	}

	// Arguments tagged log-safe are recorded in the response extensions so
	// the server runtime can log them.
	for i := range ep.Args {
		arg := &ep.Args[i]
		if ctx.IsSafeParam(arg) {
			data.SafeParams = append(data.SafeParams, parseStep{
				Ident:  ctx.FieldName(arg.ArgName),
				ArgLit: rustString(arg.ArgName),
			})
		}
	}

	if body != nil {
		data.BodyIdent = ctx.FieldName(body.ArgName)
		if binaryBody {
			data.BodyKind = "binary"
		} else {
			data.BodyKind = "json"
		}
	}

	switch ret {
	case returnEmpty:
		data.ReturnKind = "empty"
	case returnJSON:
		data.ReturnKind = "json"
	case returnOptionalJSON:
		data.ReturnKind = "optjson"
	case returnBinary:
		data.ReturnKind = "binary"
	case returnOptionalBinary:
		data.ReturnKind = "optbinary"
	}

	partsUsed := ep.Auth.Kind != ir.AuthNone ||
		len(data.PathParams) > 0 ||
		len(data.QueryParams) > 0 ||
		len(data.Headers) > 0 ||
		data.BodyKind == "json" ||
		ret == returnJSON || ret == returnOptionalJSON
	data.PartsName, data.BodyName = "parts_", "body_"
	if !partsUsed {
		data.PartsName = "_parts_"
	}
	if body == nil {
		data.BodyName = "_body_"
	}
	data.ExtName = "_response_extensions"
	if len(data.SafeParams) > 0 {
		data.ExtName = "response_extensions_"
	}

	return data
}
