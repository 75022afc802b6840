package springboot

import (
	"fmt"
	"strings"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/emit"
	"github.com/diagram-to-project/generator/internal/identity"
	"github.com/diagram-to-project/generator/internal/naming"
	"github.com/diagram-to-project/generator/internal/registry"
)

type entityBuilder struct{}

func (entityBuilder) Role() string { return RoleEntity }

func (entityBuilder) Build(ctx *registry.Context, c *diagram.ClassDefinition) (registry.Artifact, error) {
	if c.Identity() == nil {
		return registry.Artifact{}, fmt.Errorf("class %s has no identity attribute", c.Name)
	}
	name := className(c)
	f := &emit.JavaFile{Package: subPackage(ctx, "entity")}
	f.Import("jakarta.persistence.*")
	f.Import("com.fasterxml.jackson.annotation.JsonProperty")
	t := &emit.JavaType{
		Annotations: []string{"@Entity", fmt.Sprintf("@Table(name = %q)", naming.TableName(c.Name))},
		Name:        name,
	}

	accessors := make(map[string]bool)
	var getters []emit.JavaMethod
	for _, a := range c.Attributes {
		fld := fieldName(a.Name)
		typ, imp := javaType(ctx, a.Type)
		if a.Identity {
			typ, imp = identity.Type, ""
		}
		f.Import(imp)

		var ann []string
		if a.Identity {
			ann = append(ann, "@Id", "@GeneratedValue(strategy = GenerationType.IDENTITY)")
		}
		if col := naming.Snake(fld); col != fld {
			ann = append(ann, fmt.Sprintf("@Column(name = %q)", col))
		}
		// Bean naming alone maps getXCoord to "xcoord".
		ann = append(ann, fmt.Sprintf("@JsonProperty(%q)", fld))
		t.Fields = append(t.Fields, emit.JavaField{Annotations: ann, Modifiers: "private", Type: typ, Name: fld})

		suffix := naming.Studly(fld)
		getter := "get" + suffix
		setter := "set" + suffix
		accessors[getter], accessors[setter] = true, true
		getters = append(getters,
			emit.JavaMethod{
				Signature: fmt.Sprintf("public %s %s()", typ, getter),
				Body:      func(e *emit.Emitter) { e.Line("return %s;", fld) },
			},
			emit.JavaMethod{
				Signature: fmt.Sprintf("public void %s(%s %s)", setter, typ, fld),
				Body:      func(e *emit.Emitter) { e.Line("this.%s = %s;", fld, fld) },
			},
		)
	}

	t.Methods = append(t.Methods, emit.JavaMethod{
		Signature: fmt.Sprintf("public %s()", name),
		Body:      func(*emit.Emitter) {},
	})
	t.Methods = append(t.Methods, getters...)

	for _, m := range c.Methods {
		mname := naming.Camel(naming.Fold(m.Name))
		if mname == "" || accessors[mname] || javaReserved[mname] {
			continue
		}
		accessors[mname] = true
		t.Methods = append(t.Methods, operationStub(ctx, f, m, mname))
	}

	f.Type = t
	return registry.Artifact{Path: javaPath(ctx, "entity", name), Content: f.Render()}, nil
}

// operationStub renders a diagram operation as a method that throws until implemented.
func operationStub(ctx *registry.Context, f *emit.JavaFile, m diagram.MethodDefinition, name string) emit.JavaMethod {
	ret := "void"
	if !strings.EqualFold(m.ReturnType, "void") && m.ReturnType != "" {
		var imp string
		ret, imp = javaType(ctx, m.ReturnType)
		f.Import(imp)
	}
	params := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		typ, imp := javaType(ctx, p.Type)
		f.Import(imp)
		params[i] = typ + " " + fieldName(p.Name)
	}

	var mods []string
	if v := m.Visibility.Java(); v != "" {
		mods = append(mods, v)
	}
	if m.Static {
		mods = append(mods, "static")
	}
	mods = append(mods, ret, name)
	sig := strings.Join(mods, " ") + "(" + strings.Join(params, ", ") + ")"

	// Zero-argument stubs look like bean getters to Jackson.
	var ann []string
	if len(params) == 0 && ret != "void" && !m.Static {
		f.Import("com.fasterxml.jackson.annotation.JsonIgnore")
		ann = append(ann, "@JsonIgnore")
	}
	return emit.JavaMethod{
		Annotations: ann,
		Signature:   sig,
		Body: func(e *emit.Emitter) {
			e.Line(`throw new UnsupportedOperationException("%s is not implemented");`, name)
		},
	}
}
