package diagram

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGoJS = `{
  "class": "GraphLinksModel",
  "nodeDataArray": [
    {"key": 1, "name": "Pedido", "properties": [{"name": "fecha", "type": "Date", "visibility": "private"}],
     "methods": [{"name": "total", "type": "double", "parameters": [{"name": "iva", "type": "double"}]}]},
    {"key": 2, "name": "Linea", "properties": []},
    {"key": "Cliente", "properties": [{"name": "nombre"}]}
  ],
  "linkDataArray": [
    {"from": 1, "to": 2, "relationship": "Composition", "fromCardinality": "1", "toCardinality": "1..*"},
    {"from": 1, "to": "Cliente", "relationship": "Association Simple", "multiplicityTo": "1", "stereotype": "<<uses>>"}
  ]
}`

func TestFromGoJS(t *testing.T) {
	m, err := FromGoJS([]byte(sampleGoJS))
	require.NoError(t, err)

	assert.Equal(t, []string{"Pedido", "Linea", "Cliente"}, m.Names())
	pedido := m.Class("Pedido")
	require.Len(t, pedido.Attributes, 1)
	assert.Equal(t, AttributeDefinition{Name: "fecha", Type: "Date", Visibility: Private}, pedido.Attributes[0])
	require.Len(t, pedido.Methods, 1)
	assert.Equal(t, []Parameter{{Name: "iva", Type: "double"}}, pedido.Methods[0].Parameters)
	assert.Equal(t, "String", m.Class("Cliente").Attributes[0].Type)

	require.Len(t, m.Relationships, 2)
	comp := m.Relationships[0]
	assert.Equal(t, Composition, comp.Kind)
	assert.Equal(t, "Linea", comp.From)
	assert.Equal(t, "Pedido", comp.To)
	assert.Equal(t, "1..*", comp.MultiplicityFrom)
	assert.Equal(t, "1", comp.MultiplicityTo)

	assoc := m.Relationships[1]
	assert.Equal(t, Association, assoc.Kind)
	assert.Equal(t, "Cliente", assoc.To)
	assert.Equal(t, DefaultMultiplicity, assoc.MultiplicityFrom)
	assert.Equal(t, "uses", assoc.Stereotype)
	assert.Empty(t, comp.Stereotype)
}

func TestFromGoJSRejectsUnknownRelationship(t *testing.T) {
	doc := `{"nodeDataArray":[{"key":"A","name":"A"}],"linkDataArray":[{"from":"A","to":"A","relationship":"friendship"}]}`
	_, err := FromGoJS([]byte(doc))
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "invalid_relationship", verrs[0].Type)
}

func TestFromGoJSInvalidJSON(t *testing.T) {
	_, err := FromGoJS([]byte("{"))
	assert.Error(t, err)
}

func TestGoJSRoundTrip(t *testing.T) {
	m, err := FromGoJS([]byte(sampleGoJS))
	require.NoError(t, err)

	data, err := ToGoJS(m)
	require.NoError(t, err)
	again, err := FromGoJS(data)
	require.NoError(t, err)
	assert.True(t, Equal(m, again))
}

func TestInitialGoJS(t *testing.T) {
	data := InitialGoJS()
	assert.True(t, json.Valid(data))

	m, err := FromGoJS(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"NewClass", "NewClass2"}, m.Names())
	require.Len(t, m.Relationships, 1)
	assert.Equal(t, Association, m.Relationships[0].Kind)
	assert.Equal(t, "1..*", m.Relationships[0].MultiplicityTo)
}
