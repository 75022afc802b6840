// Package identity picks the single identity attribute of every class.
package identity

import (
	"fmt"
	"strings"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/naming"
	"github.com/diagram-to-project/generator/internal/result"
)

// Name and Type of a synthesized identity attribute.
const (
	Name = "id"
	Type = "Long"
)

// Rule tells how the identity of a class was chosen.
type Rule string

const (
	// Explicit means the class declared an attribute named id.
	Explicit Rule = "explicit"
	// Promoted means an id-like attribute such as idProducto was chosen.
	Promoted Rule = "promoted"
	// Synthesized means no candidate existed and id was inserted first.
	Synthesized Rule = "synthesized"
)

// Result describes the outcome for one class.
type Result struct {
	Class     string   `json:"class"`
	Attribute string   `json:"attribute"`
	Rule      Rule     `json:"rule"`
	Conflicts []string `json:"conflicts,omitempty"`
}

// IDLike reports whether an attribute name reads as an identifier: it is "id" or has "id"
// as one of its words (idProducto, producto_id, productoID).
func IDLike(name string) bool {
	for _, w := range naming.Words(name) {
		if strings.EqualFold(w, Name) {
			return true
		}
	}
	return false
}

// Resolve flags exactly one identity attribute on c and forces its type to Long.
// Running it again on the same class gives the same result.
func Resolve(c *diagram.ClassDefinition) Result {
	for i := range c.Attributes {
		c.Attributes[i].Identity = false
	}

	chosen := -1
	rule := Synthesized
	for i, a := range c.Attributes {
		if strings.EqualFold(a.Name, Name) {
			chosen, rule = i, Explicit
			break
		}
	}
	if chosen < 0 {
		for i, a := range c.Attributes {
			if IDLike(a.Name) {
				chosen, rule = i, Promoted
				break
			}
		}
	}
	if chosen < 0 {
		c.Attributes = append([]diagram.AttributeDefinition{{
			Name: Name, Type: Type, Visibility: diagram.Private,
		}}, c.Attributes...)
		chosen = 0
	}

	c.Attributes[chosen].Identity = true
	c.Attributes[chosen].Type = Type

	res := Result{Class: c.Name, Attribute: c.Attributes[chosen].Name, Rule: rule}
	for i, a := range c.Attributes {
		if i != chosen && IDLike(a.Name) {
			res.Conflicts = append(res.Conflicts, a.Name)
		}
	}
	return res
}

// ResolveModel resolves every class of m and records an identity_conflict warning for
// classes whose other id-like attributes were not chosen.
func ResolveModel(m *diagram.Model) []Result {
	out := make([]Result, 0, m.Len())
	for _, c := range m.Classes() {
		res := Resolve(c)
		if len(res.Conflicts) > 0 {
			m.Warn(result.Warning{
				Type:       "identity_conflict",
				Class:      c.Name,
				Message:    fmt.Sprintf("%s uses %s as identity; %s kept as plain attributes", c.Name, res.Attribute, strings.Join(res.Conflicts, ", ")),
				Suggestion: "Rename the other attributes if they are not identifiers",
			})
		}
		out = append(out, res)
	}
	return out
}

// Prepare resolves identities and validates m. It returns diagram.ValidationErrors on failure.
func Prepare(m *diagram.Model) error {
	ResolveModel(m)
	return diagram.Validate(m).Err()
}
