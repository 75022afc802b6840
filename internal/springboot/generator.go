// Package springboot generates the Spring Boot server tree: JPA entities, repositories,
// services and REST controllers plus the Maven build and application bootstrap.
package springboot

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

// Dir is the server tree directory under the project root.
const Dir = "spring-boot"

// Artifact roles.
const (
	RolePom         = "pom"
	RoleProperties  = "properties"
	RoleApplication = "application"
	RoleEntity      = "entity"
	RoleRepository  = "repository"
	RoleService     = "service"
	RoleController  = "controller"
)

// ClassRoles lists the per-class roles in emission order.
var ClassRoles = []string{RoleEntity, RoleRepository, RoleService, RoleController}

// SharedRoles lists the once-per-run roles in emission order.
var SharedRoles = []string{RolePom, RoleProperties, RoleApplication}

func init() {
	Register(registry.Default)
}

// Register adds the server builders to r.
func Register(r *registry.Registry) {
	r.RegisterShared(typemap.Server, pomBuilder{})
	r.RegisterShared(typemap.Server, propertiesBuilder{})
	r.RegisterShared(typemap.Server, applicationBuilder{})
	r.Register(typemap.Server, entityBuilder{})
	r.Register(typemap.Server, repositoryBuilder{})
	r.Register(typemap.Server, serviceBuilder{})
	r.Register(typemap.Server, controllerBuilder{})
}

// Generator writes the server tree of a project.
type Generator struct {
	reg *registry.Registry
	log *slog.Logger
}

// New returns a generator using the builders registered in reg.
func New(reg *registry.Registry, log *slog.Logger) *Generator {
	return &Generator{reg: reg, log: log}
}

// Generate writes every server artifact under projectRoot/spring-boot.
func (g *Generator) Generate(ctx *registry.Context, projectRoot string) *result.PhaseResult {
	g.log.Info("server generation started", "project", ctx.Project.Name, "classes", ctx.Model.Len())
	res, err := g.reg.Run(typemap.Server, ctx, filepath.Join(projectRoot, Dir), g.log)
	if err != nil {
		g.log.Error("server generation failed", "project", ctx.Project.Name, "error", err)
		return res
	}
	g.log.Info("server generation finished", "project", ctx.Project.Name, "files", res.Count)
	return res
}

func javaPath(ctx *registry.Context, sub, typeName string) string {
	dir := "src/main/java/" + strings.ReplaceAll(ctx.Project.BasePackage(), ".", "/")
	if sub != "" {
		dir += "/" + sub
	}
	return dir + "/" + typeName + ".java"
}

func subPackage(ctx *registry.Context, sub string) string {
	return ctx.Project.BasePackage() + "." + sub
}

// className is the Java type name of a diagram class.
func className(c *diagram.ClassDefinition) string {
	return naming.Identifier(c.Name)
}

var javaReserved = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true, "case": true,
	"catch": true, "char": true, "class": true, "const": true, "continue": true, "default": true,
	"do": true, "double": true, "else": true, "enum": true, "extends": true, "final": true,
	"finally": true, "float": true, "for": true, "goto": true, "if": true, "implements": true,
	"import": true, "instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true, "return": true,
	"short": true, "static": true, "super": true, "switch": true, "synchronized": true, "this": true,
	"throw": true, "throws": true, "transient": true, "try": true, "void": true, "volatile": true,
	"while": true, "var": true, "record": true, "yield": true,
}

// fieldName is the Java member name of an attribute.
func fieldName(name string) string {
	return naming.Member(name)
}

// javaType maps a diagram type token to a Java type, returning the import it needs.
func javaType(ctx *registry.Context, token string) (typ, imp string) {
	native := ctx.Types.Map(token, typemap.Server)
	if strings.Contains(native, ".") {
		return typemap.SimpleName(native), native
	}
	if i, ok := typemap.JavaImport(native); ok {
		return native, i
	}
	return native, ""
}

// serviceField and repositoryField are the injected member names for a class.
func serviceField(c *diagram.ClassDefinition) string {
	return naming.Camel(className(c)) + "Service"
}

func repositoryField(c *diagram.ClassDefinition) string {
	return naming.Camel(className(c)) + "Repository"
}

func varName(c *diagram.ClassDefinition) string {
	v := naming.Camel(className(c))
	if javaReserved[v] {
		v += "Entity"
	}
	return v
}
