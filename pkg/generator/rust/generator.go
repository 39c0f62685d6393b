package rust

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/conjure-dev/conjure-rust-gen/pkg/config"
	"github.com/conjure-dev/conjure-rust-gen/pkg/ir"
)

//go:embed templates/*
var templatesFS embed.FS

// RustGenerator implements the Generator interface for Rust
type RustGenerator struct{}

// NewRustGenerator creates a new Rust generator
func NewRustGenerator() *RustGenerator {
	return &RustGenerator{}
}

// GetType returns the generator type identifier
func (g *RustGenerator) GetType() string {
	return "rust"
}

// modExport is one re-exported name in a module index.
type modExport struct {
	Module string
	Name   string
}

// module accumulates the children of one output directory.
type module struct {
	submodules map[string]struct{}
	exports    []modExport
}

// Generate emits the full module tree for one target. Output is
// byte-deterministic: definitions are emitted in declaration order and
// module indexes are sorted.
func (g *RustGenerator) Generate(target config.Target, def *ir.ConjureDefinition) error {
	ctx := NewContext(def, target)

	files := map[string]string{}
	modules := map[string]*module{"": {submodules: map[string]struct{}{}}}

	register := func(name ir.TypeName, content string, exports []string) error {
		dir := strings.Join(ctx.ModulePath(name), "/")
		if dir == "" {
			return fmt.Errorf("type %s has an empty module path", name)
		}
		base := ctx.ModuleName(name)
		path := dir + "/" + base + ".rs"
		if _, ok := files[path]; ok {
			return fmt.Errorf("duplicate output file %s for type %s", path, name)
		}
		files[path] = content

		registerDirs(modules, dir)
		m := modules[dir]
		m.submodules[base] = struct{}{}
		for _, e := range exports {
			m.exports = append(m.exports, modExport{Module: base, Name: e})
		}
		return nil
	}

	for i := range def.Types {
		td := &def.Types[i]
		var content string
		var err error
		switch td.Kind {
		case ir.DefAlias:
			content, err = generateAlias(ctx, td.Alias)
		case ir.DefEnum:
			content, err = generateEnum(ctx, td.Enum)
		case ir.DefObject:
			content, err = generateObject(ctx, td.Object)
		case ir.DefUnion:
			content, err = generateUnion(ctx, td.Union)
		}
		if err != nil {
			return err
		}
		if err := register(td.Name(), content, []string{ctx.TypeIdent(td.Name().Name)}); err != nil {
			return err
		}
	}

	for i := range def.Errors {
		e := &def.Errors[i]
		content, err := generateError(ctx, e)
		if err != nil {
			return err
		}
		if err := register(e.ErrorName, content, []string{ctx.TypeIdent(e.ErrorName.Name)}); err != nil {
			return err
		}
	}

	for i := range def.Services {
		svc := &def.Services[i]
		clients, err := generateClients(ctx, svc)
		if err != nil {
			return err
		}
		servers, err := generateServers(ctx, svc)
		if err != nil {
			return err
		}
		content := clients + "\n" + servers
		name := ctx.TypeIdent(svc.ServiceName.Name)
		exports := []string{
			name + "Client",
			name + "AsyncClient",
			name,
			"Async" + name,
			name + "Endpoints",
			"Async" + name + "Endpoints",
		}
		if err := register(svc.ServiceName, content, exports); err != nil {
			return err
		}
	}

	tmpl, err := template.New("mod.rs.gotmpl").Funcs(sprig.FuncMap()).ParseFS(templatesFS, "templates/mod.rs.gotmpl")
	if err != nil {
		return fmt.Errorf("failed to parse module index template: %w", err)
	}

	for dir, m := range modules {
		data := map[string]any{
			"Submodules": sortedKeys(m.submodules),
			"Exports":    sortedExports(m.exports),
		}
		var buf strings.Builder
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("failed to render module index for %s: %w", dir, err)
		}
		files[filepath.ToSlash(filepath.Join(dir, "mod.rs"))] = buf.String()
	}

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		dest := filepath.Join(target.OutDir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", filepath.Dir(dest), err)
		}
		if err := os.WriteFile(dest, []byte(files[path]), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
	}

	return nil
}

// registerDirs links every directory on the path into its parent's
// submodule list.
func registerDirs(modules map[string]*module, dir string) {
	parts := strings.Split(dir, "/")
	for i := range parts {
		prefix := strings.Join(parts[:i+1], "/")
		if _, ok := modules[prefix]; !ok {
			modules[prefix] = &module{submodules: map[string]struct{}{}}
		}
		parent := strings.Join(parts[:i], "/")
		modules[parent].submodules[parts[i]] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedExports(exports []modExport) []modExport {
	out := append([]modExport(nil), exports...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Module != out[j].Module {
			return out[i].Module < out[j].Module
		}
		return out[i].Name < out[j].Name
	})
	return out
}
