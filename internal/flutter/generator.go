// Package flutter generates the Flutter client tree: models, REST services, list and
// form screens per class, plus the pub manifest, app shell, routes and dashboard.
package flutter

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/naming"
	"github.com/diagram-to-project/generator/internal/registry"
	"github.com/diagram-to-project/generator/internal/result"
	"github.com/diagram-to-project/generator/internal/typemap"
)

// Dir is the client tree directory under the project root.
const Dir = "front"

// Artifact roles.
const (
	RolePubspec    = "pubspec"
	RoleMain       = "main"
	RoleApp        = "app"
	RoleConfig     = "config"
	RoleRoutes     = "routes"
	RoleDashboard  = "dashboard"
	RoleWidgetTest = "widget_test"
	RoleModel      = "model"
	RoleService    = "service"
	RoleListScreen = "list_screen"
	RoleFormScreen = "form_screen"
)

// ClassRoles lists the per-class roles in emission order.
var ClassRoles = []string{RoleModel, RoleService, RoleListScreen, RoleFormScreen}

// SharedRoles lists the once-per-run roles in emission order.
var SharedRoles = []string{RolePubspec, RoleMain, RoleApp, RoleConfig, RoleRoutes, RoleDashboard, RoleWidgetTest}

func init() {
	Register(registry.Default)
}

// Register adds the client builders to r.
func Register(r *registry.Registry) {
	r.RegisterShared(typemap.Client, pubspecBuilder{})
	r.RegisterShared(typemap.Client, mainBuilder{})
	r.RegisterShared(typemap.Client, appBuilder{})
	r.RegisterShared(typemap.Client, configBuilder{})
	r.RegisterShared(typemap.Client, routesBuilder{})
	r.RegisterShared(typemap.Client, dashboardBuilder{})
	r.RegisterShared(typemap.Client, widgetTestBuilder{})
	r.Register(typemap.Client, modelBuilder{})
	r.Register(typemap.Client, serviceBuilder{})
	r.Register(typemap.Client, listScreenBuilder{})
	r.Register(typemap.Client, formScreenBuilder{})
}

// Generator writes the client tree of a project.
type Generator struct {
	reg *registry.Registry
	log *slog.Logger
}

// New returns a generator using the builders registered in reg.
func New(reg *registry.Registry, log *slog.Logger) *Generator {
	return &Generator{reg: reg, log: log}
}

// Generate writes every client artifact under projectRoot/front.
func (g *Generator) Generate(ctx *registry.Context, projectRoot string) *result.PhaseResult {
	g.log.Info("client generation started", "project", ctx.Project.Name, "classes", ctx.Model.Len())
	res, err := g.reg.Run(typemap.Client, ctx, filepath.Join(projectRoot, Dir), g.log)
	if err != nil {
		g.log.Error("client generation failed", "project", ctx.Project.Name, "error", err)
		return res
	}
	g.log.Info("client generation finished", "project", ctx.Project.Name, "files", res.Count)
	return res
}

// Dart types the generated code knows how to coerce.
const (
	dartString   = "String"
	dartInt      = "int"
	dartDouble   = "double"
	dartBool     = "bool"
	dartDateTime = "DateTime"
)

// field is an attribute as seen by the client code.
type field struct {
	Name     string // Dart member and JSON key
	Label    string
	Type     string
	Identity bool
	DateOnly bool // server side is LocalDate
}

func fields(ctx *registry.Context, c *diagram.ClassDefinition) []field {
	out := make([]field, 0, len(c.Attributes))
	for _, a := range c.Attributes {
		f := field{
			Name:     naming.Member(a.Name),
			Label:    naming.Headline(naming.Fold(a.Name)),
			Type:     dartType(ctx, a.Type),
			Identity: a.Identity,
		}
		if a.Identity {
			f.Type = dartInt
		}
		if f.Type == dartDateTime {
			f.DateOnly = typemap.SimpleName(ctx.Types.Map(a.Type, typemap.Server)) == "LocalDate"
		}
		out = append(out, f)
	}
	return out
}

func identityField(fs []field) field {
	for _, f := range fs {
		if f.Identity {
			return f
		}
	}
	return field{Name: "id", Type: dartInt, Identity: true}
}

// dartType maps a diagram type token to one of the client types. Overrides to
// anything else fall back to String.
func dartType(ctx *registry.Context, token string) string {
	switch native := ctx.Types.Map(token, typemap.Client); native {
	case dartInt, dartDouble, dartBool, dartDateTime:
		return native
	}
	return dartString
}

// className is the Dart type name of a diagram class.
func className(c *diagram.ClassDefinition) string {
	return naming.Identifier(c.Name)
}

// fileStem is the snake case file name prefix: "OrderItem" -> "order_item".
func fileStem(c *diagram.ClassDefinition) string {
	return naming.Snake(className(c))
}

var shadowed = map[string]bool{
	"json": true, "http": true, "id": true, "context": true, "response": true,
	"body": true, "data": true, "widget": true, "item": true, "items": true,
}

// varName is a local variable name for an instance of the class.
func varName(c *diagram.ClassDefinition) string {
	v := naming.Member(className(c))
	if shadowed[v] {
		v += "Item"
	}
	return v
}

// routeName is the AppRoutes constant for the class list screen.
func routeName(c *diagram.ClassDefinition) string {
	return naming.Camel(className(c)) + "List"
}

// displayName is the plural title shown on the dashboard: "OrderItem" -> "Order Items".
func displayName(c *diagram.ClassDefinition) string {
	return naming.Headline(naming.Plural(className(c)))
}

// quote returns a single quoted Dart string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `$`, `\$`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}
