// Package notation parses the textual class-diagram notation into a diagram model.
package notation

import (
	"fmt"
	"strings"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/identity"
	"github.com/diagram-to-project/generator/internal/result"
)

type arrowSpec struct {
	kind diagram.RelationshipKind
	// left is true when the decoration sits on the left-hand class.
	left bool
}

var arrows = map[string]arrowSpec{
	"<|--": {diagram.Inheritance, true},
	"--|>": {diagram.Inheritance, false},
	"<|..": {diagram.Realization, true},
	"..|>": {diagram.Realization, false},
	"*--":  {diagram.Composition, true},
	"--*":  {diagram.Composition, false},
	"o--":  {diagram.Aggregation, true},
	"--o":  {diagram.Aggregation, false},
	"<--":  {diagram.Association, true},
	"-->":  {diagram.Association, false},
	"--":   {diagram.Association, false},
	"<..":  {diagram.Dependency, true},
	"..>":  {diagram.Dependency, false},
	"..":   {diagram.Dependency, false},
}

// Parse reads notation text into a validated model. Unrecognized segments are skipped
// and reported in Model.Warnings. Every class gets exactly one identity attribute.
// Structural problems such as relationships to undeclared classes are returned as
// diagram.ValidationErrors.
func Parse(text string) (*diagram.Model, error) {
	p := &parser{m: diagram.NewModel()}
	for i, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		p.line = i + 1
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		for _, seg := range Segments(line) {
			p.segment(seg)
		}
	}
	if err := identity.Prepare(p.m); err != nil {
		return nil, err
	}
	return p.m, nil
}

// Segments splits a line at braces, keeping "{" at the end of the opening segment and
// "}" as a segment of its own. Comments are dropped.
func Segments(line string) []string {
	if i := strings.Index(line, "%%"); i >= 0 {
		line = line[:i]
	}
	var out []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}
	for _, r := range line {
		switch r {
		case '{':
			cur.WriteRune(r)
			flush()
		case '}':
			flush()
			out = append(out, "}")
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

type parser struct {
	m       *diagram.Model
	current *diagram.ClassDefinition
	line    int
}

func (p *parser) warn(format string, args ...any) {
	p.m.Warn(result.Warning{Type: "ignored_line", Line: p.line, Message: fmt.Sprintf(format, args...)})
}

func (p *parser) segment(seg string) {
	ast, err := segmentParser.ParseString("", seg)
	if err != nil {
		p.warn("unrecognized syntax %q ignored", seg)
		return
	}
	switch {
	case ast.Header:
	case ast.Class != nil:
		c := p.enter(ast.Class.Name)
		if s := stereotype(ast.Class.Before, ast.Class.After); s != "" {
			c.Stereotype = s
		}
		if ast.Class.Open {
			p.current = c
		}
	case ast.Close:
		p.current = nil
	case ast.Stereotype != nil:
		switch {
		case ast.Stereotype.Class != "":
			p.enter(ast.Stereotype.Class).Stereotype = stereotype(ast.Stereotype.Value)
		case p.current != nil:
			p.current.Stereotype = stereotype(ast.Stereotype.Value)
		default:
			p.warn("stereotype %q outside a class body ignored", seg)
		}
	case ast.Relation != nil:
		p.relation(ast.Relation)
	case ast.ClassMember != nil:
		p.classMember(ast.ClassMember)
	case len(ast.Members) > 0:
		if p.current == nil {
			p.warn("member %q outside a class body ignored", seg)
			return
		}
		for _, mem := range ast.Members {
			p.member(p.current, mem)
		}
	}
}

// enter registers a class, synthesizing its identity attribute on first sight.
func (p *parser) enter(name string) *diagram.ClassDefinition {
	if c := p.m.Class(name); c != nil {
		return c
	}
	return p.m.Add(&diagram.ClassDefinition{
		Name: name,
		Attributes: []diagram.AttributeDefinition{{
			Name: identity.Name, Type: identity.Type, Visibility: diagram.Private,
		}},
	})
}

func stereotype(candidates ...string) string {
	for _, s := range candidates {
		if s = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(s, "<<"), ">>")); s != "" {
			return s
		}
	}
	return ""
}

func (p *parser) classMember(cm *classMemberAST) {
	mem := cm.Member
	if p.current != nil && mem.Visibility == "" && mem.Name == "" && mem.Call == nil {
		// "nombre : String" inside a class body.
		p.attribute(p.current, diagram.AttributeDefinition{
			Name: cm.Class, Type: mem.Type.String(), Visibility: diagram.Public,
		})
		return
	}
	p.member(p.enter(cm.Class), mem)
}

func (p *parser) member(c *diagram.ClassDefinition, mem *memberAST) {
	vis := diagram.ParseVisibility(mem.Visibility)
	if mem.Call != nil {
		classifier := mem.Classifier + mem.Call.Classifier
		md := diagram.MethodDefinition{
			Name:       mem.Name,
			ReturnType: mem.Type.String(),
			Visibility: vis,
			Abstract:   strings.Contains(classifier, "*"),
			Static:     strings.Contains(classifier, "$"),
		}
		if md.Name == "" {
			md.Name = mem.Type.Name
			md.ReturnType = "void"
			if mem.Call.Return != nil {
				md.ReturnType = mem.Call.Return.String()
			}
		}
		for i, prm := range mem.Call.Params {
			md.Parameters = append(md.Parameters, parameter(i, prm))
		}
		c.Methods = append(c.Methods, md)
		return
	}

	a := diagram.AttributeDefinition{Name: mem.Name, Type: mem.Type.String(), Visibility: vis}
	if a.Name == "" {
		a.Name, a.Type = mem.Type.Name, "String"
	}
	p.attribute(c, a)
}

// attribute appends a, except that an attribute named id overwrites the synthesized one.
func (p *parser) attribute(c *diagram.ClassDefinition, a diagram.AttributeDefinition) {
	if strings.EqualFold(a.Name, identity.Name) {
		c.SetAttribute(a)
		return
	}
	c.Attributes = append(c.Attributes, a)
}

func parameter(i int, prm *paramAST) diagram.Parameter {
	switch {
	case prm.Colon != nil:
		return diagram.Parameter{Name: prm.Type.String(), Type: prm.Colon.String()}
	case prm.Name != "":
		return diagram.Parameter{Name: prm.Name, Type: prm.Type.String()}
	case prm.Type != nil:
		return diagram.Parameter{Name: prm.Type.String(), Type: "String"}
	default:
		return diagram.Parameter{Name: fmt.Sprintf("arg%d", i), Type: "String"}
	}
}

func (p *parser) relation(r *relationAST) {
	spec, ok := arrows[r.Arrow]
	if !ok {
		p.warn("unknown arrow %q ignored", r.Arrow)
		return
	}
	label := r.Label
	var st string
	if len(label) > 0 && strings.HasPrefix(label[0], "<<") {
		st, label = stereotype(label[0]), label[1:]
	}
	rel := diagram.RelationshipDefinition{
		Kind:             spec.kind,
		From:             r.From,
		To:               r.To,
		MultiplicityFrom: strings.Trim(r.FromCard, `"`),
		MultiplicityTo:   strings.Trim(r.ToCard, `"`),
		Label:            strings.TrimSpace(strings.Join(label, " ")),
		Stereotype:       st,
	}
	if spec.left {
		rel.From, rel.To = rel.To, rel.From
		rel.MultiplicityFrom, rel.MultiplicityTo = rel.MultiplicityTo, rel.MultiplicityFrom
	}
	p.m.AddRelationship(rel)
}
