package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/diagram-to-project/generator/internal/registry"
	"github.com/diagram-to-project/generator/internal/result"
	"github.com/diagram-to-project/generator/internal/typemap"
)

// DescriptorFile is the conventional descriptor name inside a project directory.
const DescriptorFile = "project.hcl"

// Descriptor is the optional per-project settings file:
//
//	project "erp-inventario" {
//	  group_id = "com.acme"
//	  type_override "server" "Money" {
//	    native = "java.math.BigDecimal"
//	  }
//	}
type Descriptor struct {
	Name              string         `hcl:"name,label"`
	GroupID           string         `hcl:"group_id,optional"`
	JavaVersion       string         `hcl:"java_version,optional"`
	SpringBootVersion string         `hcl:"spring_boot_version,optional"`
	BaseURL           string         `hcl:"base_url,optional"`
	Description       string         `hcl:"description,optional"`
	TypeOverrides     []TypeOverride `hcl:"type_override,block"`
}

// TypeOverride maps a diagram type token to a native type on one stack.
type TypeOverride struct {
	Stack  string `hcl:"stack,label"`
	Token  string `hcl:"token,label"`
	Native string `hcl:"native"`
}

type descriptorDocument struct {
	Project Descriptor `hcl:"project,block"`
}

// ParseDescriptor decodes descriptor source. The filename suffix selects native
// syntax (.hcl) or JSON (.json).
func ParseDescriptor(filename string, src []byte) (*Descriptor, error) {
	var doc descriptorDocument
	if err := hclsimple.Decode(filename, src, nil, &doc); err != nil {
		return nil, result.NewError(result.ConfigError, "decoding "+filename, err)
	}
	if err := doc.Project.validate(); err != nil {
		return nil, err
	}
	return &doc.Project, nil
}

// LoadDescriptor reads a descriptor file. A missing file returns nil and no error.
func LoadDescriptor(path string) (*Descriptor, error) {
	src, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, result.NewError(result.ConfigError, "reading "+path, err)
	}
	return ParseDescriptor(path, src)
}

func (d *Descriptor) validate() error {
	for i, o := range d.TypeOverrides {
		if typemap.Stack(o.Stack) != typemap.Server && typemap.Stack(o.Stack) != typemap.Client {
			return &ConfigError{
				Field:   fmt.Sprintf("type_override[%d]", i),
				Message: fmt.Sprintf("unknown stack %q, expected server or client", o.Stack),
			}
		}
		if o.Native == "" {
			return &ConfigError{Field: fmt.Sprintf("type_override[%d].native", i), Message: "must not be empty"}
		}
	}
	return nil
}

// Apply overlays the descriptor on base. Empty descriptor fields keep the base value.
func (d *Descriptor) Apply(base registry.Project) registry.Project {
	if d == nil {
		return base
	}
	p := base
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.Name, d.Name)
	set(&p.GroupID, d.GroupID)
	set(&p.JavaVersion, d.JavaVersion)
	set(&p.SpringBootVersion, d.SpringBootVersion)
	set(&p.BaseURL, d.BaseURL)
	set(&p.Description, d.Description)
	return p
}

// Types returns a type mapper seeded with the built-in tables plus the overrides.
func (d *Descriptor) Types() *typemap.Mapper {
	m := typemap.New()
	if d == nil {
		return m
	}
	for _, o := range d.TypeOverrides {
		m.Override(typemap.Stack(o.Stack), o.Token, o.Native)
	}
	return m
}

// WriteDescriptor renders d in native HCL syntax.
func WriteDescriptor(d *Descriptor) []byte {
	block := hclwrite.NewBlock("project", []string{d.Name})
	body := block.Body()
	setString(body, "group_id", d.GroupID)
	setString(body, "java_version", d.JavaVersion)
	setString(body, "spring_boot_version", d.SpringBootVersion)
	setString(body, "base_url", d.BaseURL)
	setString(body, "description", d.Description)
	for _, o := range d.TypeOverrides {
		body.AppendNewline()
		ob := body.AppendNewBlock("type_override", []string{o.Stack, o.Token})
		setString(ob.Body(), "native", o.Native)
	}
	return blockBytes(block)
}
