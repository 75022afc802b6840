package registry

import (
	"sync"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/naming"
	"github.com/diagram-to-project/generator/internal/typemap"
)

// Project holds the per-project settings the builders read.
type Project struct {
	Name              string
	GroupID           string
	JavaVersion       string
	SpringBootVersion string
	BaseURL           string
	Description       string
}

// BasePackage returns the root Java package: "com.example" + "erp-inventario" -> "com.example.erpinventario".
func (p Project) BasePackage() string {
	return p.GroupID + "." + naming.Package(p.Name)
}

// AppName returns the type name prefix for application classes.
func (p Project) AppName() string {
	if n := naming.Identifier(p.Name); n != "" {
		return n
	}
	return "Generated"
}

// Context is passed to every builder during a run.
type Context struct {
	Project Project
	Model   *diagram.Model
	Types   *typemap.Mapper
}

// Artifact is one generated file. Path is relative to the stack root and uses forward slashes.
type Artifact struct {
	Path    string
	Content []byte
}

// ClassBuilder emits one artifact per class.
type ClassBuilder interface {
	Role() string
	Build(ctx *Context, c *diagram.ClassDefinition) (Artifact, error)
}

// SharedBuilder emits artifacts once per run.
type SharedBuilder interface {
	Role() string
	Build(ctx *Context) ([]Artifact, error)
}

// Default is the global builder registry.
var Default = New()

// Registry holds builders per stack in registration order.
type Registry struct {
	mu     sync.RWMutex
	class  map[typemap.Stack][]ClassBuilder
	shared map[typemap.Stack][]SharedBuilder
}

// New returns a new empty registry.
func New() *Registry {
	return &Registry{
		class:  make(map[typemap.Stack][]ClassBuilder),
		shared: make(map[typemap.Stack][]SharedBuilder),
	}
}

// Register adds a per-class builder for stack. A builder with the same role replaces the old one.
func (r *Registry) Register(stack typemap.Stack, b ClassBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, have := range r.class[stack] {
		if have.Role() == b.Role() {
			r.class[stack][i] = b
			return
		}
	}
	r.class[stack] = append(r.class[stack], b)
}

// RegisterShared adds a once-per-run builder for stack.
func (r *Registry) RegisterShared(stack typemap.Stack, b SharedBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, have := range r.shared[stack] {
		if have.Role() == b.Role() {
			r.shared[stack][i] = b
			return
		}
	}
	r.shared[stack] = append(r.shared[stack], b)
}

// Get returns the per-class builder for the role, or nil and false.
func (r *Registry) Get(stack typemap.Stack, role string) (ClassBuilder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.class[stack] {
		if b.Role() == role {
			return b, true
		}
	}
	return nil, false
}

// ClassBuilders returns the per-class builders of stack in registration order.
func (r *Registry) ClassBuilders(stack typemap.Stack) []ClassBuilder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ClassBuilder(nil), r.class[stack]...)
}

// SharedBuilders returns the once-per-run builders of stack in registration order.
func (r *Registry) SharedBuilders(stack typemap.Stack) []SharedBuilder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]SharedBuilder(nil), r.shared[stack]...)
}

// ClassRoles returns the per-class roles registered for stack.
func (r *Registry) ClassRoles(stack typemap.Stack) []string {
	bs := r.ClassBuilders(stack)
	roles := make([]string, len(bs))
	for i, b := range bs {
		roles[i] = b.Role()
	}
	return roles
}
