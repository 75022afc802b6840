package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagram-to-project/generator/internal/diagram"
)

const inventario = `classDiagram
    %% inventory
    class Categoria {
        +String nombre
    }
    class Producto {
        <<entity>>
        +String nombre
        -double precio
        #int stock
        +Date vencimiento
        +boolean activo
        +calcularTotal(int cantidad, descuento: double) double
        +void reponer()
    }
    class Animal
    class Perro
    Categoria "1" --> "0..*" Producto : contiene
    Animal <|-- Perro
    Producto o-- Categoria
`

func attrNames(c *diagram.ClassDefinition) []string {
	out := make([]string, len(c.Attributes))
	for i, a := range c.Attributes {
		out[i] = a.Name
	}
	return out
}

func TestParseSingleLineClass(t *testing.T) {
	m, err := Parse("class Producto { +String nombre -double precio }")
	require.NoError(t, err)

	p := m.Class("Producto")
	require.NotNil(t, p)
	assert.Equal(t, []string{"id", "nombre", "precio"}, attrNames(p))
	assert.Equal(t, "Long", p.Identity().Type)
	assert.Equal(t, diagram.Private, p.Attribute("precio").Visibility)
	assert.Empty(t, m.Warnings)
}

func TestParseInventario(t *testing.T) {
	m, err := Parse(inventario)
	require.NoError(t, err)

	assert.Equal(t, []string{"Categoria", "Producto", "Animal", "Perro"}, m.Names())

	p := m.Class("Producto")
	assert.Equal(t, "entity", p.Stereotype)
	assert.Equal(t, []string{"id", "nombre", "precio", "stock", "vencimiento", "activo"}, attrNames(p))
	assert.Equal(t, diagram.Protected, p.Attribute("stock").Visibility)
	assert.Equal(t, "Date", p.Attribute("vencimiento").Type)

	require.Len(t, p.Methods, 2)
	calc := p.Methods[0]
	assert.Equal(t, "calcularTotal", calc.Name)
	assert.Equal(t, "double", calc.ReturnType)
	assert.Equal(t, []diagram.Parameter{{Name: "cantidad", Type: "int"}, {Name: "descuento", Type: "double"}}, calc.Parameters)
	assert.Equal(t, diagram.MethodDefinition{Name: "reponer", ReturnType: "void", Visibility: diagram.Public}, p.Methods[1])

	for _, c := range m.Classes() {
		require.NotNil(t, c.Identity(), c.Name)
	}

	require.Len(t, m.Relationships, 3)
	assert.Equal(t, diagram.RelationshipDefinition{
		Kind: diagram.Association, From: "Categoria", To: "Producto",
		MultiplicityFrom: "1", MultiplicityTo: "0..*", Label: "contiene",
	}, m.Relationships[0])
	assert.Equal(t, diagram.Inheritance, m.Relationships[1].Kind)
	assert.Equal(t, "Perro", m.Relationships[1].From)
	assert.Equal(t, "Animal", m.Relationships[1].To)
	assert.Equal(t, diagram.Aggregation, m.Relationships[2].Kind)
	assert.Equal(t, "Categoria", m.Relationships[2].From)
	assert.Equal(t, "Producto", m.Relationships[2].To)
}

func TestParseArrows(t *testing.T) {
	cases := map[string]struct {
		kind     diagram.RelationshipKind
		from, to string
	}{
		"A <|-- B": {diagram.Inheritance, "B", "A"},
		"A --|> B": {diagram.Inheritance, "A", "B"},
		"A <|.. B": {diagram.Realization, "B", "A"},
		"A ..|> B": {diagram.Realization, "A", "B"},
		"A *-- B":  {diagram.Composition, "B", "A"},
		"A --* B":  {diagram.Composition, "A", "B"},
		"A o-- B":  {diagram.Aggregation, "B", "A"},
		"A --o B":  {diagram.Aggregation, "A", "B"},
		"A --> B":  {diagram.Association, "A", "B"},
		"A <-- B":  {diagram.Association, "B", "A"},
		"A -- B":   {diagram.Association, "A", "B"},
		"A ..> B":  {diagram.Dependency, "A", "B"},
		"A .. B":   {diagram.Dependency, "A", "B"},
	}
	for line, want := range cases {
		m, err := Parse("class A\nclass B\n" + line)
		require.NoError(t, err, line)
		require.Len(t, m.Relationships, 1, line)
		r := m.Relationships[0]
		assert.Equal(t, want.kind, r.Kind, line)
		assert.Equal(t, want.from, r.From, line)
		assert.Equal(t, want.to, r.To, line)
	}
}

func TestParseRelationshipStereotype(t *testing.T) {
	m, err := Parse("class Pedido\nclass Cliente\nPedido --> Cliente : <<uses>> solicita\nCliente ..> Pedido : <<create>>")
	require.NoError(t, err)

	require.Len(t, m.Relationships, 2)
	assert.Equal(t, "uses", m.Relationships[0].Stereotype)
	assert.Equal(t, "solicita", m.Relationships[0].Label)
	assert.Equal(t, "create", m.Relationships[1].Stereotype)
	assert.Empty(t, m.Relationships[1].Label)

	assert.Contains(t, diagram.Render(m), "Pedido --> Cliente : <<uses>> solicita")
	again, err := Parse(diagram.Render(m))
	require.NoError(t, err)
	assert.True(t, diagram.Equal(m, again))
}

func TestParseIdOverwrite(t *testing.T) {
	m, err := Parse("class Cliente {\n-int ID\n+String nombre\n}")
	require.NoError(t, err)

	c := m.Class("Cliente")
	assert.Equal(t, []string{"id", "nombre"}, attrNames(c))
	assert.Equal(t, diagram.Private, c.Attributes[0].Visibility)
	assert.True(t, c.Attributes[0].Identity)
	assert.Equal(t, "Long", c.Attributes[0].Type)
}

func TestParseWarnsOnUnknownLines(t *testing.T) {
	m, err := Parse("classDiagram\ndirection LR\nclass A {\n+String nombre\n!!!\n}\nnote \"hola\"")
	require.NoError(t, err)

	require.Len(t, m.Warnings, 3)
	assert.Equal(t, 2, m.Warnings[0].Line)
	assert.Equal(t, 5, m.Warnings[1].Line)
	assert.Equal(t, 7, m.Warnings[2].Line)
	for _, w := range m.Warnings {
		assert.Equal(t, "ignored_line", w.Type)
	}
	assert.Equal(t, []string{"id", "nombre"}, attrNames(m.Class("A")))
}

func TestParseDanglingReference(t *testing.T) {
	_, err := Parse("class A\nA --> Ghost")
	var verrs diagram.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{"Ghost"}, verrs.Unresolved())
}

func TestParseOutOfBodyMember(t *testing.T) {
	m, err := Parse("class Cuenta\nCuenta : +Double saldo\nCuenta : +depositar(Double monto)\n<<abstract>> Cuenta")
	require.NoError(t, err)

	c := m.Class("Cuenta")
	assert.Equal(t, []string{"id", "saldo"}, attrNames(c))
	require.Len(t, c.Methods, 1)
	assert.Equal(t, "depositar", c.Methods[0].Name)
	assert.Equal(t, "abstract", c.Stereotype)
}

func TestParseGenericsAndClassifiers(t *testing.T) {
	m, err := Parse("class Caja {\n+List~String~ etiquetas\n+Map<String, List<Integer>> indice\n+int[] valores\n+contar()$ int\n}")
	require.NoError(t, err)

	c := m.Class("Caja")
	assert.Equal(t, "List<String>", c.Attribute("etiquetas").Type)
	assert.Equal(t, "Map<String, List<Integer>>", c.Attribute("indice").Type)
	assert.Equal(t, "int[]", c.Attribute("valores").Type)
	require.Len(t, c.Methods, 1)
	assert.Equal(t, "contar", c.Methods[0].Name)
	assert.Equal(t, "int", c.Methods[0].ReturnType)
	assert.True(t, c.Methods[0].Static)
	assert.Len(t, c.Attributes, 4)
}

func TestParseIsDeterministic(t *testing.T) {
	a, err := Parse(inventario)
	require.NoError(t, err)
	b, err := Parse(inventario)
	require.NoError(t, err)
	assert.True(t, diagram.Equal(a, b))
}

func TestRenderRoundTrip(t *testing.T) {
	first, err := Parse(inventario)
	require.NoError(t, err)

	second, err := Parse(diagram.Render(first))
	require.NoError(t, err)
	assert.True(t, diagram.Equal(first, second), diagram.Render(first))
	assert.Equal(t, diagram.Render(first), diagram.Render(second))
}

func TestSegments(t *testing.T) {
	assert.Equal(t, []string{"class P {", "+String a -int b", "}"}, Segments("class P { +String a -int b } %% comment"))
	assert.Equal(t, []string{"class A {", "}"}, Segments("class A {}"))
	assert.Empty(t, Segments("   "))
}
