package springboot

import (
	"fmt"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/emit"
	"github.com/diagram-to-project/generator/internal/identity"
	"github.com/diagram-to-project/generator/internal/naming"
	"github.com/diagram-to-project/generator/internal/registry"
)

type repositoryBuilder struct{}

func (repositoryBuilder) Role() string { return RoleRepository }

func (repositoryBuilder) Build(ctx *registry.Context, c *diagram.ClassDefinition) (registry.Artifact, error) {
	name := className(c)
	f := &emit.JavaFile{Package: subPackage(ctx, "repository")}
	f.Import(
		subPackage(ctx, "entity")+"."+name,
		"org.springframework.data.jpa.repository.JpaRepository",
		"org.springframework.stereotype.Repository",
	)
	f.Type = &emit.JavaType{
		Annotations: []string{"@Repository"},
		Kind:        "interface",
		Name:        name + "Repository",
		Extends:     fmt.Sprintf("JpaRepository<%s, %s>", name, identity.Type),
	}
	return registry.Artifact{Path: javaPath(ctx, "repository", name+"Repository"), Content: f.Render()}, nil
}

type serviceBuilder struct{}

func (serviceBuilder) Role() string { return RoleService }

func (serviceBuilder) Build(ctx *registry.Context, c *diagram.ClassDefinition) (registry.Artifact, error) {
	id := c.Identity()
	if id == nil {
		return registry.Artifact{}, fmt.Errorf("class %s has no identity attribute", c.Name)
	}
	name := className(c)
	repo := repositoryField(c)
	v := varName(c)
	setID := "set" + naming.Studly(fieldName(id.Name))
	notFound := func(e *emit.Emitter) {
		e.Block("if (!%s.existsById(id))", repo)
		e.Line(`throw new RuntimeException("%s not found with id: " + id);`, name)
		e.EndBlock()
	}

	f := &emit.JavaFile{Package: subPackage(ctx, "service")}
	f.Import(
		subPackage(ctx, "entity")+"."+name,
		subPackage(ctx, "repository")+"."+name+"Repository",
		"org.springframework.beans.factory.annotation.Autowired",
		"org.springframework.stereotype.Service",
		"java.util.List",
		"java.util.Optional",
	)
	f.Type = &emit.JavaType{
		Annotations: []string{"@Service"},
		Name:        name + "Service",
		Fields: []emit.JavaField{{
			Annotations: []string{"@Autowired"}, Modifiers: "private", Type: name + "Repository", Name: repo,
		}},
		Methods: []emit.JavaMethod{
			{
				Signature: fmt.Sprintf("public List<%s> findAll()", name),
				Body:      func(e *emit.Emitter) { e.Line("return %s.findAll();", repo) },
			},
			{
				Signature: fmt.Sprintf("public Optional<%s> findById(Long id)", name),
				Body:      func(e *emit.Emitter) { e.Line("return %s.findById(id);", repo) },
			},
			{
				Signature: fmt.Sprintf("public %s save(%s %s)", name, name, v),
				Body:      func(e *emit.Emitter) { e.Line("return %s.save(%s);", repo, v) },
			},
			{
				Signature: fmt.Sprintf("public %s update(Long id, %s %s)", name, name, v),
				Body: func(e *emit.Emitter) {
					notFound(e)
					e.Line("%s.%s(id);", v, setID)
					e.Line("return %s.save(%s);", repo, v)
				},
			},
			{
				Signature: "public void deleteById(Long id)",
				Body: func(e *emit.Emitter) {
					notFound(e)
					e.Line("%s.deleteById(id);", repo)
				},
			},
			{
				Signature: "public boolean existsById(Long id)",
				Body:      func(e *emit.Emitter) { e.Line("return %s.existsById(id);", repo) },
			},
		},
	}
	return registry.Artifact{Path: javaPath(ctx, "service", name+"Service"), Content: f.Render()}, nil
}

type controllerBuilder struct{}

func (controllerBuilder) Role() string { return RoleController }

// ResourcePath returns the REST collection path of a class: "/api/productos".
func ResourcePath(c *diagram.ClassDefinition) string {
	return "/api/" + naming.TableName(c.Name)
}

func (controllerBuilder) Build(ctx *registry.Context, c *diagram.ClassDefinition) (registry.Artifact, error) {
	name := className(c)
	svc := serviceField(c)
	v := varName(c)

	// guarded writes the try/catch shape shared by update and delete.
	guarded := func(action string, body func(e *emit.Emitter)) func(e *emit.Emitter) {
		return func(e *emit.Emitter) {
			e.Block("try")
			body(e)
			e.EndBlockSuffix(" catch (RuntimeException e) {")
			e.Indent()
			e.Block(`if (e.getMessage() != null && e.getMessage().contains("not found"))`)
			e.Line("return ResponseEntity.status(HttpStatus.NOT_FOUND)")
			e.Line(`        .body("Error: %s with id " + id + " not found");`, name)
			e.EndBlock()
			e.Line("return ResponseEntity.status(HttpStatus.BAD_REQUEST)")
			e.Line(`        .body("Error %s %s: " + e.getMessage());`, action, name)
			e.EndBlockSuffix(" catch (Exception e) {")
			e.Indent()
			e.Line("return ResponseEntity.status(HttpStatus.INTERNAL_SERVER_ERROR)")
			e.Line(`        .body("Unexpected error %s %s: " + e.getMessage());`, action, name)
			e.EndBlock()
		}
	}

	f := &emit.JavaFile{Package: subPackage(ctx, "controller")}
	f.Import(
		subPackage(ctx, "entity")+"."+name,
		subPackage(ctx, "service")+"."+name+"Service",
		"org.springframework.beans.factory.annotation.Autowired",
		"org.springframework.http.HttpStatus",
		"org.springframework.http.ResponseEntity",
		"org.springframework.web.bind.annotation.*",
		"java.util.List",
	)
	f.Type = &emit.JavaType{
		Annotations: []string{
			"@RestController",
			fmt.Sprintf("@RequestMapping(%q)", ResourcePath(c)),
			`@CrossOrigin(origins = "*")`,
		},
		Name: name + "Controller",
		Fields: []emit.JavaField{{
			Annotations: []string{"@Autowired"}, Modifiers: "private", Type: name + "Service", Name: svc,
		}},
		Methods: []emit.JavaMethod{
			{
				Annotations: []string{"@GetMapping"},
				Signature:   fmt.Sprintf("public List<%s> getAll()", name),
				Body:        func(e *emit.Emitter) { e.Line("return %s.findAll();", svc) },
			},
			{
				Annotations: []string{`@GetMapping("/{id}")`},
				Signature:   fmt.Sprintf("public ResponseEntity<%s> getById(@PathVariable Long id)", name),
				Body: func(e *emit.Emitter) {
					e.Line("return %s.findById(id)", svc)
					e.Line("        .map(ResponseEntity::ok)")
					e.Line("        .orElse(ResponseEntity.notFound().build());")
				},
			},
			{
				Annotations: []string{"@PostMapping"},
				Signature:   fmt.Sprintf("public ResponseEntity<%s> create(@RequestBody %s %s)", name, name, v),
				Body: func(e *emit.Emitter) {
					e.Line("return ResponseEntity.status(HttpStatus.CREATED).body(%s.save(%s));", svc, v)
				},
			},
			{
				Annotations: []string{`@PutMapping("/{id}")`},
				Signature:   fmt.Sprintf("public ResponseEntity<?> update(@PathVariable Long id, @RequestBody %s %s)", name, v),
				Body: guarded("updating", func(e *emit.Emitter) {
					e.Line("return ResponseEntity.ok(%s.update(id, %s));", svc, v)
				}),
			},
			{
				Annotations: []string{`@DeleteMapping("/{id}")`},
				Signature:   "public ResponseEntity<?> deleteById(@PathVariable Long id)",
				Body: guarded("deleting", func(e *emit.Emitter) {
					e.Line("%s.deleteById(id);", svc)
					e.Line("return ResponseEntity.noContent().build();")
				}),
			},
		},
	}
	return registry.Artifact{Path: javaPath(ctx, "controller", name+"Controller"), Content: f.Render()}, nil
}
