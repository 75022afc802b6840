package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagram-to-project/generator/internal/result"
)

func class(name string, attrs ...string) *ClassDefinition {
	c := &ClassDefinition{Name: name}
	c.Attributes = append(c.Attributes, AttributeDefinition{Name: "id", Type: "Long", Visibility: Public, Identity: true})
	for _, a := range attrs {
		c.Attributes = append(c.Attributes, AttributeDefinition{Name: a, Type: "String", Visibility: Public})
	}
	return c
}

func TestValidateEmpty(t *testing.T) {
	errs := Validate(NewModel())
	require.Len(t, errs, 1)
	assert.Equal(t, "diagram has no classes", errs[0].Message)
	assert.Len(t, Validate(nil), 1)
}

func TestValidateDanglingReference(t *testing.T) {
	m := NewModel()
	m.Add(class("A"))
	m.AddRelationship(RelationshipDefinition{Kind: Association, From: "A", To: "Ghost"})

	errs := Validate(m)
	require.Len(t, errs, 1)
	assert.Equal(t, "Ghost", errs[0].Class)
	assert.Equal(t, []string{"Ghost"}, errs.Unresolved())
	assert.Contains(t, errs.Error(), "Ghost")
	assert.Equal(t, result.ValidationError, result.CodeOf(errs.Err()))
}

func TestValidateClassNames(t *testing.T) {
	m := NewModel()
	m.Add(class("9Lives"))
	m.Add(class("Categoría"))
	m.Add(class("Categoria"))

	errs := Validate(m)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Message, "invalid class name")
	assert.Contains(t, errs[1].Message, "collides")
}

func TestValidateDuplicateAttributes(t *testing.T) {
	m := NewModel()
	m.Add(class("A", "nombre", "Nombre"))

	errs := Validate(m)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "duplicate attribute")
}

func TestValidateMultipleIdentities(t *testing.T) {
	c := class("A")
	c.Attributes = append(c.Attributes, AttributeDefinition{Name: "codigo", Type: "Long", Identity: true})
	m := NewModel()
	m.Add(c)

	errs := Validate(m)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "2 identity attributes")
}

func TestValidateInheritanceCycle(t *testing.T) {
	m := NewModel()
	m.Add(class("A"))
	m.Add(class("B"))
	m.AddRelationship(RelationshipDefinition{Kind: Inheritance, From: "A", To: "B"})
	m.AddRelationship(RelationshipDefinition{Kind: Inheritance, From: "B", To: "A"})

	errs := Validate(m)
	require.Len(t, errs, 1)
	assert.Equal(t, "inheritance_cycle", errs[0].Type)

	m.Relationships = m.Relationships[:1]
	assert.Empty(t, Validate(m))
}

func TestParseRelationshipKind(t *testing.T) {
	cases := map[string]RelationshipKind{
		"Association Simple": Association,
		"associationsimple":  Association,
		"Inheritance":        Inheritance,
		"generalization":     Inheritance,
		"Realization":        Realization,
		"dependency":         Dependency,
		"Composición":        Composition,
		"AGGREGATION":        Aggregation,
	}
	for in, want := range cases {
		got, err := ParseRelationshipKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRelationshipKind("friendship")
	assert.ErrorIs(t, err, ErrUnknownRelationship)
}

func TestParseVisibility(t *testing.T) {
	assert.Equal(t, Private, ParseVisibility("-"))
	assert.Equal(t, Protected, ParseVisibility("protected"))
	assert.Equal(t, Package, ParseVisibility("~"))
	assert.Equal(t, Public, ParseVisibility(""))
	assert.Equal(t, "", Package.Java())
	assert.Equal(t, "#", Protected.Symbol())
}

func TestModelOrderAndSetAttribute(t *testing.T) {
	m := NewModel()
	m.Add(&ClassDefinition{Name: "B"})
	m.Add(&ClassDefinition{Name: "A"})
	again := m.Add(&ClassDefinition{Name: "B", Stereotype: "entity"})

	assert.Equal(t, []string{"B", "A"}, m.Names())
	assert.Equal(t, "entity", again.Stereotype)

	again.SetAttribute(AttributeDefinition{Name: "ID", Type: "Long"})
	again.SetAttribute(AttributeDefinition{Name: "id", Type: "Integer", Visibility: Private})
	require.Len(t, again.Attributes, 1)
	assert.Equal(t, "ID", again.Attributes[0].Name)
	assert.Equal(t, "Integer", again.Attributes[0].Type)
}
