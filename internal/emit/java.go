package emit

import (
	"sort"
	"strings"
)

// JavaFile is a compilation unit holding one top-level type.
type JavaFile struct {
	Package string
	Imports []string
	Type    *JavaType
}

// JavaType is a class or interface declaration.
type JavaType struct {
	Annotations []string
	Kind        string // class or interface
	Name        string
	Extends     string
	Implements  []string
	Fields      []JavaField
	Methods     []JavaMethod
}

// JavaField is a member variable.
type JavaField struct {
	Annotations []string
	Modifiers   string
	Type        string
	Name        string
}

// JavaMethod is a constructor or method. A nil Body renders an abstract
// declaration ending in ";".
type JavaMethod struct {
	Annotations []string
	Signature   string
	Body        func(e *Emitter)
}

// Import adds imports, ignoring duplicates.
func (f *JavaFile) Import(imports ...string) {
	for _, imp := range imports {
		if imp == "" {
			continue
		}
		dup := false
		for _, have := range f.Imports {
			if have == imp {
				dup = true
				break
			}
		}
		if !dup {
			f.Imports = append(f.Imports, imp)
		}
	}
}

// importGroups splits imports into third-party and java.* groups, each sorted.
func importGroups(imports []string) [][]string {
	var other, std []string
	for _, imp := range imports {
		if strings.HasPrefix(imp, "java.") || strings.HasPrefix(imp, "javax.") {
			std = append(std, imp)
		} else {
			other = append(other, imp)
		}
	}
	sort.Strings(other)
	sort.Strings(std)
	var groups [][]string
	for _, g := range [][]string{other, std} {
		if len(g) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// Render formats the file.
func (f *JavaFile) Render() []byte {
	e := NewJava()
	if f.Package != "" {
		e.Line("package %s;", f.Package)
		e.Blank()
	}
	for _, group := range importGroups(f.Imports) {
		for _, imp := range group {
			e.Line("import %s;", imp)
		}
		e.Blank()
	}

	t := f.Type
	if t == nil {
		return e.Bytes()
	}
	kind := t.Kind
	if kind == "" {
		kind = "class"
	}
	for _, a := range t.Annotations {
		e.Line(a)
	}
	decl := "public " + kind + " " + t.Name
	if t.Extends != "" {
		decl += " extends " + t.Extends
	}
	if len(t.Implements) > 0 {
		decl += " implements " + strings.Join(t.Implements, ", ")
	}
	e.Block(decl)

	for _, fld := range t.Fields {
		e.Blank()
		for _, a := range fld.Annotations {
			e.Line(a)
		}
		line := fld.Type + " " + fld.Name + ";"
		if fld.Modifiers != "" {
			line = fld.Modifiers + " " + line
		}
		e.Line(line)
	}
	for _, m := range t.Methods {
		e.Blank()
		for _, a := range m.Annotations {
			e.Line(a)
		}
		if m.Body == nil {
			e.Line(m.Signature + ";")
			continue
		}
		e.Block(m.Signature)
		m.Body(e)
		e.EndBlock()
	}
	if len(t.Fields) == 0 && len(t.Methods) == 0 {
		e.Blank()
	}
	e.EndBlock()
	return e.Bytes()
}
