package diagram

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/diagram-to-project/generator/internal/result"
)

// goJSDocument is the GraphLinksModel document saved by the diagram editor.
type goJSDocument struct {
	Class                string     `json:"class"`
	CopiesArrays         bool       `json:"copiesArrays,omitempty"`
	CopiesArrayObjects   bool       `json:"copiesArrayObjects,omitempty"`
	LinkCategoryProperty string     `json:"linkCategoryProperty,omitempty"`
	NodeDataArray        []goJSNode `json:"nodeDataArray"`
	LinkDataArray        []goJSLink `json:"linkDataArray"`
}

type goJSNode struct {
	Key        any            `json:"key"`
	Name       string         `json:"name"`
	Stereotype string         `json:"stereotype,omitempty"`
	Properties []goJSProperty `json:"properties"`
	Methods    []goJSMethod   `json:"methods"`
}

type goJSProperty struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	Visibility string `json:"visibility,omitempty"`
}

type goJSMethod struct {
	Name       string          `json:"name"`
	Type       string          `json:"type,omitempty"`
	Parameters []goJSParameter `json:"parameters,omitempty"`
	Visibility string          `json:"visibility,omitempty"`
}

type goJSParameter struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type goJSLink struct {
	From             any    `json:"from"`
	To               any    `json:"to"`
	Relationship     string `json:"relationship"`
	FromCardinality  string `json:"fromCardinality,omitempty"`
	ToCardinality    string `json:"toCardinality,omitempty"`
	MultiplicityFrom string `json:"multiplicityFrom,omitempty"`
	MultiplicityTo   string `json:"multiplicityTo,omitempty"`
	Label            string `json:"label,omitempty"`
	Stereotype       string `json:"stereotype,omitempty"`
}

func keyString(v any) string {
	switch k := v.(type) {
	case string:
		return k
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(k)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// decoratedAtSource reports whether the editor draws the kind's decoration at the link
// source. Composition and aggregation links run from the whole to the part.
func decoratedAtSource(k RelationshipKind) bool {
	return k == Composition || k == Aggregation
}

// FromGoJS reads a GraphLinksModel document into a Model. Link ends are resolved
// through node keys. Identity resolution and validation are left to the caller.
func FromGoJS(data []byte) (*Model, error) {
	var doc goJSDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, result.NewError(result.ParseError, "invalid diagram document", err)
	}

	m := NewModel()
	names := make(map[string]string, len(doc.NodeDataArray))
	for i, n := range doc.NodeDataArray {
		key := keyString(n.Key)
		name := firstNonEmpty(n.Name, key)
		if name == "" {
			m.Warn(result.Warning{Type: "ignored_node", Message: fmt.Sprintf("node at index %d has no name or key", i)})
			continue
		}
		if key != "" {
			names[key] = name
		}
		if m.Class(name) != nil {
			m.Warn(result.Warning{Type: "duplicate_class", Class: name, Message: "duplicate class " + name + " ignored"})
			continue
		}
		c := &ClassDefinition{Name: name, Stereotype: strings.Trim(n.Stereotype, "<> ")}
		for _, p := range n.Properties {
			if strings.TrimSpace(p.Name) == "" {
				continue
			}
			c.Attributes = append(c.Attributes, AttributeDefinition{
				Name:       strings.TrimSpace(p.Name),
				Type:       firstNonEmpty(p.Type, "String"),
				Visibility: ParseVisibility(p.Visibility),
			})
		}
		for _, op := range n.Methods {
			if strings.TrimSpace(op.Name) == "" {
				continue
			}
			md := MethodDefinition{
				Name:       strings.TrimSpace(op.Name),
				ReturnType: firstNonEmpty(op.Type, "void"),
				Visibility: ParseVisibility(op.Visibility),
			}
			for j, p := range op.Parameters {
				md.Parameters = append(md.Parameters, Parameter{
					Name: firstNonEmpty(p.Name, fmt.Sprintf("arg%d", j)),
					Type: firstNonEmpty(p.Type, "String"),
				})
			}
			c.Methods = append(c.Methods, md)
		}
		m.Add(c)
	}

	var errs ValidationErrors
	for i, l := range doc.LinkDataArray {
		token := firstNonEmpty(l.Relationship, string(Association))
		kind, err := ParseRelationshipKind(token)
		if err != nil {
			errs = append(errs, ValidationError{
				Type: "invalid_relationship", Severity: "error",
				Message:    fmt.Sprintf("link at index %d: %v", i, err),
				Suggestion: "Use Association, Inheritance, Realization, Dependency, Composition or Aggregation",
			})
			continue
		}
		from, to := keyString(l.From), keyString(l.To)
		if n, ok := names[from]; ok {
			from = n
		}
		if n, ok := names[to]; ok {
			to = n
		}
		r := RelationshipDefinition{
			Kind:             kind,
			From:             from,
			To:               to,
			MultiplicityFrom: firstNonEmpty(l.FromCardinality, l.MultiplicityFrom),
			MultiplicityTo:   firstNonEmpty(l.ToCardinality, l.MultiplicityTo),
			Label:            strings.TrimSpace(l.Label),
			Stereotype:       strings.Trim(l.Stereotype, "<> "),
		}
		if decoratedAtSource(kind) {
			r.From, r.To = r.To, r.From
			r.MultiplicityFrom, r.MultiplicityTo = r.MultiplicityTo, r.MultiplicityFrom
		}
		m.AddRelationship(r)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return m, nil
}

// ToGoJS writes m as a GraphLinksModel document keyed by class name.
func ToGoJS(m *Model) ([]byte, error) {
	doc := newGoJSDocument()
	for _, c := range m.Classes() {
		n := goJSNode{Key: c.Name, Name: c.Name, Stereotype: c.Stereotype,
			Properties: []goJSProperty{}, Methods: []goJSMethod{}}
		for _, a := range c.Attributes {
			n.Properties = append(n.Properties, goJSProperty{Name: a.Name, Type: a.Type, Visibility: string(a.Visibility)})
		}
		for _, op := range c.Methods {
			gm := goJSMethod{Name: op.Name, Type: op.ReturnType, Visibility: string(op.Visibility)}
			for _, p := range op.Parameters {
				gm.Parameters = append(gm.Parameters, goJSParameter(p))
			}
			n.Methods = append(n.Methods, gm)
		}
		doc.NodeDataArray = append(doc.NodeDataArray, n)
	}
	for _, r := range m.Relationships {
		l := goJSLink{From: r.From, To: r.To, Relationship: string(r.Kind),
			FromCardinality: r.MultiplicityFrom, ToCardinality: r.MultiplicityTo, Label: r.Label, Stereotype: r.Stereotype}
		if decoratedAtSource(r.Kind) {
			l.From, l.To = l.To, l.From
			l.FromCardinality, l.ToCardinality = l.ToCardinality, l.FromCardinality
		}
		doc.LinkDataArray = append(doc.LinkDataArray, l)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func newGoJSDocument() goJSDocument {
	return goJSDocument{
		Class:                "GraphLinksModel",
		CopiesArrays:         true,
		CopiesArrayObjects:   true,
		LinkCategoryProperty: "relationship",
		NodeDataArray:        []goJSNode{},
		LinkDataArray:        []goJSLink{},
	}
}

// InitialGoJS returns the starter document for a new diagram: two classes joined by an
// association.
func InitialGoJS() []byte {
	doc := newGoJSDocument()
	doc.NodeDataArray = []goJSNode{
		{
			Key: "NewClass", Name: "NewClass",
			Properties: []goJSProperty{{Name: "exampleProperty", Type: "String", Visibility: "public"}},
			Methods: []goJSMethod{{
				Name: "exampleMethod", Visibility: "public",
				Parameters: []goJSParameter{{Name: "param", Type: "int"}},
			}},
		},
		{Key: "NewClass2", Name: "NewClass2", Properties: []goJSProperty{}, Methods: []goJSMethod{}},
	}
	doc.LinkDataArray = []goJSLink{{
		From: "NewClass", To: "NewClass2", Relationship: "Association Simple",
		FromCardinality: "1..1", ToCardinality: "1..*",
	}}
	data, _ := json.MarshalIndent(doc, "", "  ")
	return data
}
