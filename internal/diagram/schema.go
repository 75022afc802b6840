package diagram

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/diagram-to-project/generator/internal/result"
)

// Visibility is the UML member visibility.
type Visibility string

const (
	Public    Visibility = "public"
	Private   Visibility = "private"
	Protected Visibility = "protected"
	Package   Visibility = "package"
)

// ParseVisibility accepts the UML symbols (+ - # ~) and the spelled-out words.
// Anything else is public.
func ParseVisibility(s string) Visibility {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "-", "private":
		return Private
	case "#", "protected":
		return Protected
	case "~", "package":
		return Package
	default:
		return Public
	}
}

// Symbol returns the notation symbol for v.
func (v Visibility) Symbol() string {
	switch v {
	case Private:
		return "-"
	case Protected:
		return "#"
	case Package:
		return "~"
	default:
		return "+"
	}
}

// Java returns the Java access modifier for v; package visibility has none.
func (v Visibility) Java() string {
	switch v {
	case Private:
		return "private"
	case Protected:
		return "protected"
	case Package:
		return ""
	default:
		return "public"
	}
}

// AttributeDefinition is a typed class attribute.
type AttributeDefinition struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Visibility Visibility `json:"visibility"`
	Identity   bool       `json:"identity,omitempty"`
}

// Parameter is a method parameter.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// MethodDefinition is a class operation.
type MethodDefinition struct {
	Name       string      `json:"name"`
	ReturnType string      `json:"returnType"`
	Parameters []Parameter `json:"parameters,omitempty"`
	Visibility Visibility  `json:"visibility"`
	Static     bool        `json:"static,omitempty"`
	Abstract   bool        `json:"abstract,omitempty"`
}

// ClassDefinition is one diagram node.
type ClassDefinition struct {
	Name       string                `json:"name"`
	Stereotype string                `json:"stereotype,omitempty"`
	Attributes []AttributeDefinition `json:"attributes"`
	Methods    []MethodDefinition    `json:"methods,omitempty"`
}

// Attribute returns the attribute whose name matches case-insensitively, or nil.
func (c *ClassDefinition) Attribute(name string) *AttributeDefinition {
	for i := range c.Attributes {
		if strings.EqualFold(c.Attributes[i].Name, name) {
			return &c.Attributes[i]
		}
	}
	return nil
}

// Identity returns the identity attribute, or nil when none is flagged.
func (c *ClassDefinition) Identity() *AttributeDefinition {
	for i := range c.Attributes {
		if c.Attributes[i].Identity {
			return &c.Attributes[i]
		}
	}
	return nil
}

// SetAttribute overwrites the type and visibility of an attribute with the same name
// (case-insensitive) or appends a when none exists.
func (c *ClassDefinition) SetAttribute(a AttributeDefinition) {
	if existing := c.Attribute(a.Name); existing != nil {
		existing.Type = a.Type
		existing.Visibility = a.Visibility
		return
	}
	c.Attributes = append(c.Attributes, a)
}

// DataAttributes returns the attributes that are not the identity.
func (c *ClassDefinition) DataAttributes() []AttributeDefinition {
	out := make([]AttributeDefinition, 0, len(c.Attributes))
	for _, a := range c.Attributes {
		if !a.Identity {
			out = append(out, a)
		}
	}
	return out
}

// RelationshipKind is the closed set of supported relationship kinds.
type RelationshipKind string

const (
	Association RelationshipKind = "Association"
	Inheritance RelationshipKind = "Inheritance"
	Realization RelationshipKind = "Realization"
	Dependency  RelationshipKind = "Dependency"
	Composition RelationshipKind = "Composition"
	Aggregation RelationshipKind = "Aggregation"
)

// ErrUnknownRelationship is returned for relationship tokens outside the supported set.
var ErrUnknownRelationship = errors.New("unknown relationship kind")

var relationshipAliases = map[string]RelationshipKind{
	"association":       Association,
	"associationsimple": Association,
	"simpleassociation": Association,
	"asociacion":        Association,
	"asociacionsimple":  Association,
	"inheritance":       Inheritance,
	"generalization":    Inheritance,
	"herencia":          Inheritance,
	"realization":       Realization,
	"realisation":       Realization,
	"implementation":    Realization,
	"realizacion":       Realization,
	"dependency":        Dependency,
	"dependencia":       Dependency,
	"composition":       Composition,
	"composicion":       Composition,
	"aggregation":       Aggregation,
	"agregacion":        Aggregation,
}

// ParseRelationshipKind normalizes a relationship token such as "Association Simple".
func ParseRelationshipKind(token string) (RelationshipKind, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		case 'ó':
			return 'o'
		}
		return r
	}, strings.ToLower(strings.TrimSpace(token)))
	if k, ok := relationshipAliases[key]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRelationship, token)
}

// RelationshipDefinition is a typed edge. To is the decorated end (arrow head, triangle
// or diamond); From is the plain end. For Inheritance, From is the child and To the parent.
type RelationshipDefinition struct {
	Kind             RelationshipKind `json:"kind"`
	From             string           `json:"from"`
	To               string           `json:"to"`
	MultiplicityFrom string           `json:"multiplicityFrom"`
	MultiplicityTo   string           `json:"multiplicityTo"`
	Label            string           `json:"label,omitempty"`
	Stereotype       string           `json:"stereotype,omitempty"`
}

// DefaultMultiplicity is used when a relationship end has no cardinality.
const DefaultMultiplicity = "1"

// Model is the in-memory class diagram. Classes keep insertion order.
type Model struct {
	classes       map[string]*ClassDefinition
	order         []string
	Relationships []RelationshipDefinition
	Warnings      []result.Warning
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{classes: make(map[string]*ClassDefinition)}
}

// Add registers c and returns it. If a class with the same name exists, the existing
// definition is returned and c is discarded.
func (m *Model) Add(c *ClassDefinition) *ClassDefinition {
	if m.classes == nil {
		m.classes = make(map[string]*ClassDefinition)
	}
	if existing, ok := m.classes[c.Name]; ok {
		if existing.Stereotype == "" {
			existing.Stereotype = c.Stereotype
		}
		return existing
	}
	m.classes[c.Name] = c
	m.order = append(m.order, c.Name)
	return c
}

// Class returns the class named name, or nil.
func (m *Model) Class(name string) *ClassDefinition {
	return m.classes[name]
}

// Classes returns the classes in insertion order.
func (m *Model) Classes() []*ClassDefinition {
	out := make([]*ClassDefinition, 0, len(m.order))
	for _, n := range m.order {
		out = append(out, m.classes[n])
	}
	return out
}

// Names returns the class names in insertion order.
func (m *Model) Names() []string {
	return append([]string(nil), m.order...)
}

// Len returns the number of classes.
func (m *Model) Len() int {
	return len(m.order)
}

// AddRelationship appends r, filling default multiplicities.
func (m *Model) AddRelationship(r RelationshipDefinition) {
	if r.MultiplicityFrom == "" {
		r.MultiplicityFrom = DefaultMultiplicity
	}
	if r.MultiplicityTo == "" {
		r.MultiplicityTo = DefaultMultiplicity
	}
	m.Relationships = append(m.Relationships, r)
}

// Warn records a non-fatal finding.
func (m *Model) Warn(w result.Warning) {
	if w.Severity == "" {
		w.Severity = "warning"
	}
	m.Warnings = append(m.Warnings, w)
}

// RelationshipsOf returns the relationships touching class name.
func (m *Model) RelationshipsOf(name string) []RelationshipDefinition {
	var out []RelationshipDefinition
	for _, r := range m.Relationships {
		if r.From == name || r.To == name {
			out = append(out, r)
		}
	}
	return out
}

type modelJSON struct {
	Classes       []*ClassDefinition       `json:"classes"`
	Relationships []RelationshipDefinition `json:"relationships"`
	Warnings      []result.Warning         `json:"warnings,omitempty"`
}

// MarshalJSON encodes the model with classes in insertion order.
func (m *Model) MarshalJSON() ([]byte, error) {
	rels := m.Relationships
	if rels == nil {
		rels = []RelationshipDefinition{}
	}
	return json.Marshal(modelJSON{Classes: m.Classes(), Relationships: rels, Warnings: m.Warnings})
}

// UnmarshalJSON decodes a model produced by MarshalJSON.
func (m *Model) UnmarshalJSON(data []byte) error {
	var raw modelJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = *NewModel()
	for _, c := range raw.Classes {
		if c != nil {
			m.Add(c)
		}
	}
	for _, r := range raw.Relationships {
		m.AddRelationship(r)
	}
	m.Warnings = raw.Warnings
	return nil
}
