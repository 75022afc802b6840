package springboot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/identity"
	"github.com/diagram-to-project/generator/internal/logger"
	"github.com/diagram-to-project/generator/internal/registry"
	"github.com/diagram-to-project/generator/internal/typemap"
)

func producto() *diagram.Model {
	m := diagram.NewModel()
	m.Add(&diagram.ClassDefinition{
		Name: "Producto",
		Attributes: []diagram.AttributeDefinition{
			{Name: "nombre", Type: "String", Visibility: diagram.Public},
			{Name: "precio", Type: "double", Visibility: diagram.Private},
			{Name: "fechaAlta", Type: "Date", Visibility: diagram.Public},
			{Name: "activo", Type: "boolean", Visibility: diagram.Public},
			{Name: "peso", Type: "Widget", Visibility: diagram.Public},
		},
		Methods: []diagram.MethodDefinition{
			{Name: "calcularTotal", ReturnType: "double", Visibility: diagram.Public},
			{Name: "aplicarDescuento", ReturnType: "void", Visibility: diagram.Private,
				Parameters: []diagram.Parameter{{Name: "porcentaje", Type: "int"}}},
			{Name: "getNombre", ReturnType: "String", Visibility: diagram.Public},
		},
	})
	m.Add(&diagram.ClassDefinition{Name: "OrderItem"})
	identity.ResolveModel(m)
	return m
}

func testContext(m *diagram.Model) *registry.Context {
	return &registry.Context{
		Project: registry.Project{
			Name: "demo", GroupID: "com.example", JavaVersion: "17",
			SpringBootVersion: "3.2.0", Description: "Demo",
		},
		Model: m,
		Types: typemap.New(),
	}
}

func generate(t *testing.T, m *diagram.Model) (string, map[string][]string) {
	t.Helper()
	root := t.TempDir()
	res := New(registry.Default, logger.Discard()).Generate(testContext(m), root)
	require.True(t, res.Success, res.Error)
	return root, res.Artifacts
}

func read(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, Dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

const base = "src/main/java/com/example/demo/"

func TestGenerateArtifactsPerClass(t *testing.T) {
	_, artifacts := generate(t, producto())

	for _, role := range ClassRoles {
		assert.Len(t, artifacts[role], 2, role)
	}
	for _, role := range SharedRoles {
		assert.Len(t, artifacts[role], 1, role)
	}
	assert.Equal(t, []string{base + "entity/Producto.java", base + "entity/OrderItem.java"}, artifacts[RoleEntity])
	assert.Equal(t, []string{base + "DemoApplication.java"}, artifacts[RoleApplication])
}

func TestEntity(t *testing.T) {
	root, _ := generate(t, producto())
	src := read(t, root, base+"entity/Producto.java")

	assert.Contains(t, src, "package com.example.demo.entity;")
	assert.Contains(t, src, "import java.time.LocalDate;")
	assert.Contains(t, src, `@Table(name = "productos")`)
	assert.Contains(t, src, "import com.fasterxml.jackson.annotation.JsonProperty;")
	assert.Contains(t, src, "    @Id\n    @GeneratedValue(strategy = GenerationType.IDENTITY)\n    @JsonProperty(\"id\")\n    private Long id;")
	assert.Contains(t, src, "    @Column(name = \"fecha_alta\")\n    @JsonProperty(\"fechaAlta\")\n    private LocalDate fechaAlta;")
	assert.Contains(t, src, "private Double precio;")
	assert.Contains(t, src, "private Boolean activo;")
	assert.Contains(t, src, "private String peso;")
	assert.Contains(t, src, "public Boolean getActivo()")
	assert.Contains(t, src, "public void setPrecio(Double precio)")
	assert.Contains(t, src, "    @JsonIgnore\n    public Double calcularTotal()")
	assert.Contains(t, src, "private void aplicarDescuento(Integer porcentaje)")
	assert.Equal(t, 1, strings.Count(src, "getNombre()"))
	assert.Equal(t, 1, strings.Count(src, "@Id"))

	order := []string{"private Long id;", "private String nombre;", "private Double precio;", "private LocalDate fechaAlta;"}
	last := -1
	for _, s := range order {
		i := strings.Index(src, s)
		require.Greater(t, i, last, s)
		last = i
	}
}

func TestRepositoryServiceController(t *testing.T) {
	root, _ := generate(t, producto())

	repo := read(t, root, base+"repository/ProductoRepository.java")
	assert.Contains(t, repo, "public interface ProductoRepository extends JpaRepository<Producto, Long>")
	assert.Contains(t, repo, "import com.example.demo.entity.Producto;")

	svc := read(t, root, base+"service/ProductoService.java")
	for _, s := range []string{"findAll()", "findById(Long id)", "save(Producto producto)", "update(Long id, Producto producto)", "deleteById(Long id)", "existsById(Long id)"} {
		assert.Contains(t, svc, s)
	}
	assert.Contains(t, svc, "producto.setId(id);")
	assert.Contains(t, svc, `throw new RuntimeException("Producto not found with id: " + id);`)

	ctl := read(t, root, base+"controller/ProductoController.java")
	assert.Contains(t, ctl, `@RequestMapping("/api/productos")`)
	assert.Contains(t, ctl, `@CrossOrigin(origins = "*")`)
	assert.Contains(t, ctl, "HttpStatus.NOT_FOUND")
	assert.Contains(t, ctl, "HttpStatus.BAD_REQUEST")
	assert.Contains(t, ctl, "HttpStatus.INTERNAL_SERVER_ERROR")

	other := read(t, root, base+"controller/OrderItemController.java")
	assert.Contains(t, other, `@RequestMapping("/api/order_items")`)
}

func TestSharedArtifacts(t *testing.T) {
	root, _ := generate(t, producto())

	pom := read(t, root, "pom.xml")
	assert.True(t, strings.HasPrefix(pom, "<?xml"))
	assert.Contains(t, pom, "<artifactId>spring-boot-starter-parent</artifactId>")
	assert.Contains(t, pom, "<version>3.2.0</version>")
	assert.Contains(t, pom, "<java.version>17</java.version>")
	assert.Contains(t, pom, "<artifactId>spring-boot-starter-data-jpa</artifactId>")
	assert.Contains(t, pom, "<artifactId>h2</artifactId>")

	props := read(t, root, "src/main/resources/application.properties")
	assert.Contains(t, props, "spring.datasource.url=jdbc:h2:mem:testdb\n")

	app := read(t, root, base+"DemoApplication.java")
	assert.Contains(t, app, "SpringApplication.run(DemoApplication.class, args);")
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, _ := generate(t, producto())
	b, _ := generate(t, producto())
	for _, rel := range []string{"pom.xml", base + "entity/Producto.java", base + "controller/ProductoController.java"} {
		assert.Equal(t, read(t, a, rel), read(t, b, rel), rel)
	}
}

func TestGenerateFailsWithoutIdentity(t *testing.T) {
	m := diagram.NewModel()
	m.Add(&diagram.ClassDefinition{Name: "Suelto"})

	res := New(registry.Default, logger.Discard()).Generate(testContext(m), t.TempDir())
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "no identity")
}

func TestTypeOverride(t *testing.T) {
	m := diagram.NewModel()
	m.Add(&diagram.ClassDefinition{Name: "Cuenta", Attributes: []diagram.AttributeDefinition{{Name: "saldo", Type: "Money"}}})
	identity.ResolveModel(m)
	ctx := testContext(m)
	ctx.Types.Override(typemap.Server, "Money", "java.math.BigDecimal")

	art, err := entityBuilder{}.Build(ctx, m.Class("Cuenta"))
	require.NoError(t, err)
	src := string(art.Content)
	assert.Contains(t, src, "import java.math.BigDecimal;")
	assert.Contains(t, src, "private BigDecimal saldo;")
}

func TestEntityKeepsJSONKeyOfShortPrefixField(t *testing.T) {
	m := diagram.NewModel()
	m.Add(&diagram.ClassDefinition{Name: "Punto", Attributes: []diagram.AttributeDefinition{{Name: "xCoord", Type: "double"}}})
	identity.ResolveModel(m)

	art, err := entityBuilder{}.Build(testContext(m), m.Class("Punto"))
	require.NoError(t, err)
	src := string(art.Content)
	assert.Contains(t, src, "    @Column(name = \"x_coord\")\n    @JsonProperty(\"xCoord\")\n    private Double xCoord;")
	assert.Contains(t, src, "public Double getXCoord()")
}
