package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	cases := map[string][]string{
		"fechaNacimiento": {"fecha", "Nacimiento"},
		"HTTPServer":      {"HTTP", "Server"},
		"order_item":      {"order", "item"},
		"erp-inventario":  {"erp", "inventario"},
		"Producto":        {"Producto"},
		"idProducto":      {"id", "Producto"},
		"cantidad":        {"cantidad"},
		"":                nil,
	}
	for in, want := range cases {
		assert.Equal(t, want, Words(in), in)
	}
}

func TestCaseForms(t *testing.T) {
	assert.Equal(t, "OrderItem", Studly("order_item"))
	assert.Equal(t, "Producto", Studly("Producto"))
	assert.Equal(t, "fechaNacimiento", Camel("FechaNacimiento"))
	assert.Equal(t, "id", Camel("ID"))
	assert.Equal(t, "order_item", Snake("OrderItem"))
	assert.Equal(t, "Fecha Nacimiento", Headline("fechaNacimiento"))
}

func TestFoldAndIdentifier(t *testing.T) {
	assert.Equal(t, "Categoria", Fold("Categoría"))
	assert.Equal(t, "Ano", Identifier("año"))
	assert.True(t, ValidIdentifier("Categoría"))
	assert.True(t, ValidIdentifier("order_item"))
	assert.False(t, ValidIdentifier("9Lives"))
	assert.False(t, ValidIdentifier("---"))
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "productos", TableName("Producto"))
	assert.Equal(t, "order_items", TableName("OrderItem"))
	assert.Equal(t, "categorias", TableName("Categoría"))

	for class, want := range map[string]string{
		"Venta":    "ventas",
		"Cuenta":   "cuentas",
		"Cita":     "citas",
		"Ruta":     "rutas",
		"Farmacia": "farmacias",
		"Factura":  "facturas",
		"Cliente":  "clientes",
	} {
		assert.Equal(t, want, TableName(class), class)
	}
	assert.Equal(t, "CUENTAS", Plural("CUENTA"))
}

func TestPackageNames(t *testing.T) {
	assert.Equal(t, "erpinventario", Package("erp-inventario"))
	assert.Equal(t, "erp_inventario", DartPackage("ERP Inventario"))
	assert.Equal(t, "app_3d", DartPackage("3d"))
}

func TestMember(t *testing.T) {
	assert.Equal(t, "fechaAlta", Member("Fecha Alta"))
	assert.Equal(t, "classValue", Member("class"))
	assert.Equal(t, "hashCodeValue", Member("hashCode"))
	assert.Equal(t, "f2FA", Member("2FA"))
	assert.Equal(t, "field", Member("!!"))
	assert.True(t, Reserved("late"))
}
