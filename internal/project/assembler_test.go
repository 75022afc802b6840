package project

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/history"
	"github.com/diagram-to-project/generator/internal/logger"
	"github.com/diagram-to-project/generator/internal/registry"
	"github.com/diagram-to-project/generator/internal/result"
)

const tienda = `classDiagram
class Producto {
    +String nombre
    -double precio
    +calcularTotal() double
}
`

const javaBase = "spring-boot/src/main/java/com/example/tienda/"

func options(t *testing.T) Options {
	t.Helper()
	return Options{
		OutputRoot: t.TempDir(),
		Project: registry.Project{
			Name: "tienda", GroupID: "com.example", JavaVersion: "17", SpringBootVersion: "3.2.0",
		},
	}
}

func assembler() *Assembler {
	return New(registry.Default, logger.Discard())
}

// snapshot maps every file under root to its contents.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestGenerateProducto(t *testing.T) {
	opts := options(t)
	rep, err := assembler().Generate(context.Background(), Source{Notation: tienda}, opts)
	require.NoError(t, err)

	assert.True(t, rep.Success)
	assert.Equal(t, []State{Idle, Parsing, DirectoryPrepared, ServerGenerated, ClientGenerated, ManifestWritten, Done}, rep.States)
	assert.Equal(t, Done, rep.State())

	root := filepath.Join(opts.OutputRoot, "tienda")
	assert.Equal(t, root, rep.Project.Root)
	for _, rel := range []string{
		"spring-boot/pom.xml",
		javaBase + "entity/Producto.java",
		javaBase + "controller/ProductoController.java",
		"front/pubspec.yaml",
		"front/lib/models/producto_model.dart",
		"front/lib/screens/producto_form_screen.dart",
		ReadmeFile,
		ManifestFile,
	} {
		assert.FileExists(t, filepath.Join(root, filepath.FromSlash(rel)))
		assert.Contains(t, rep.Project.Files, rel)
	}
	assert.NoFileExists(t, filepath.Join(root, "run-spring-boot.sh"))

	readme, err := os.ReadFile(filepath.Join(root, ReadmeFile))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "- **Producto**: 3 attributes (`/api/productos`)")

	m, err := ReadManifest(filepath.Join(root, ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, "tienda", m.Project)
	assert.Equal(t, "com.example.tienda", m.Package)
	require.Len(t, m.Classes, 1)
	assert.Equal(t, ManifestClass{Name: "Producto", Table: "productos", Identity: "id", Attributes: 3, Methods: 1}, m.Classes[0])
	assert.Contains(t, m.Server.Files, "pom.xml")
	assert.Contains(t, m.Client.Files, "lib/services/producto_service.dart")
}

func TestGenerateIsIdempotent(t *testing.T) {
	opts := options(t)
	a := assembler()

	first, err := a.Generate(context.Background(), Source{Notation: tienda}, opts)
	require.NoError(t, err)
	before := snapshot(t, first.Project.Root)

	second, err := a.Generate(context.Background(), Source{Notation: tienda}, opts)
	require.NoError(t, err)

	assert.Equal(t, before, snapshot(t, second.Project.Root))
	assert.Equal(t, first.Project.Files, second.Project.Files)
	assert.True(t, diagram.Equal(first.Project.Model, second.Project.Model))
}

func TestRegenerateRemovesDroppedClasses(t *testing.T) {
	opts := options(t)
	a := assembler()

	_, err := a.Generate(context.Background(), Source{Notation: "class Alfa\nclass Beta"}, opts)
	require.NoError(t, err)
	root := filepath.Join(opts.OutputRoot, "tienda")
	require.FileExists(t, filepath.Join(root, filepath.FromSlash(javaBase+"entity/Beta.java")))

	_, err = a.Generate(context.Background(), Source{Notation: "class Alfa"}, opts)
	require.NoError(t, err)

	for rel := range snapshot(t, root) {
		assert.NotContains(t, strings.ToLower(rel), "beta", rel)
	}
	assert.FileExists(t, filepath.Join(root, filepath.FromSlash(javaBase+"entity/Alfa.java")))
}

func TestGenerateKeepsUnrelatedFiles(t *testing.T) {
	opts := options(t)
	root := filepath.Join(opts.OutputRoot, "tienda")
	require.NoError(t, os.MkdirAll(root, 0755))
	notes := filepath.Join(root, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("keep"), 0644))

	_, err := assembler().Generate(context.Background(), Source{Notation: tienda}, opts)
	require.NoError(t, err)

	data, err := os.ReadFile(notes)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestGenerateRejectsInvalidName(t *testing.T) {
	for _, name := range []string{"", "../etc", "mi proyecto", "9lives"} {
		opts := options(t)
		opts.Project.Name = name
		rep, err := assembler().Generate(context.Background(), Source{Notation: tienda}, opts)
		require.Error(t, err, name)
		assert.Equal(t, result.ValidationError, rep.Code, name)
		assert.Equal(t, Failed, rep.State(), name)
		assert.NotContains(t, rep.States, Parsing, name)
	}
	assert.True(t, ValidName("mi-proyecto_2"))
}

func TestGenerateUnresolvedRelationship(t *testing.T) {
	opts := options(t)
	rep, err := assembler().Generate(context.Background(), Source{Notation: "class A\nA --> Ghost"}, opts)
	require.Error(t, err)

	assert.False(t, rep.Success)
	assert.Equal(t, result.ValidationError, rep.Code)
	assert.Equal(t, []State{Idle, Parsing, Failed}, rep.States)
	require.NotEmpty(t, rep.Errors)
	assert.Equal(t, "Ghost", rep.Errors[0].Class)
	assert.NoDirExists(t, filepath.Join(opts.OutputRoot, "tienda"))
}

func TestGenerateFromGoJS(t *testing.T) {
	doc := `{
  "class": "GraphLinksModel",
  "nodeDataArray": [
    {"key": 1, "name": "Cliente", "properties": [{"name": "nombre", "type": "String"}, {"name": "alta", "type": "Date"}]},
    {"key": 2, "name": "Pedido", "properties": [{"name": "total", "type": "double"}]}
  ],
  "linkDataArray": [{"from": 1, "to": 2, "relationship": "Association Simple"}]
}`
	opts := options(t)
	rep, err := assembler().Generate(context.Background(), Source{GoJS: []byte(doc)}, opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"Cliente", "Pedido"}, rep.Project.Model.Names())
	assert.NotNil(t, rep.Project.Model.Class("Pedido").Identity())
	assert.Contains(t, rep.Project.Files, javaBase+"entity/Cliente.java")
	assert.Contains(t, rep.Project.Files, "front/lib/models/pedido_model.dart")
}

func TestGenerateRunScripts(t *testing.T) {
	opts := options(t)
	opts.RunScripts = true
	a := assembler()

	rep, err := a.Generate(context.Background(), Source{Notation: tienda}, opts)
	require.NoError(t, err)
	root := rep.Project.Root

	sh := filepath.Join(root, "run-spring-boot.sh")
	info, err := os.Stat(sh)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0100)

	bat, err := os.ReadFile(filepath.Join(root, "run-flutter.bat"))
	require.NoError(t, err)
	assert.Contains(t, string(bat), "call flutter pub get\r\n")
	assert.Contains(t, rep.Project.Files, "run-flutter.sh")

	opts.RunScripts = false
	_, err = a.Generate(context.Background(), Source{Notation: tienda}, opts)
	require.NoError(t, err)
	assert.NoFileExists(t, sh)
}

func TestGenerateVerifiesJava(t *testing.T) {
	opts := options(t)
	opts.VerifyJava = true
	rep, err := assembler().Generate(context.Background(), Source{Notation: inventarioNotation}, opts)
	require.NoError(t, err)
	assert.True(t, rep.Success)
	assert.Empty(t, rep.Errors)
}

const inventarioNotation = `classDiagram
class Categoria {
    +String nombre
}
class Producto {
    +String nombre
    -double precio
    #int stock
    +Date vencimiento
    +boolean activo
    +calcularTotal(int cantidad) double
    +void reponer()
}
Categoria "1" --> "0..*" Producto : contiene
`

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := assembler().Generate(ctx, Source{Notation: tienda}, options(t))
	require.Error(t, err)
	assert.Equal(t, Failed, rep.State())
	assert.False(t, rep.Success)
}

func TestGenerateRecordsHistory(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"), logger.Discard())
	require.NoError(t, err)
	defer store.Close()
	a := assembler().WithRecorder(store)

	ok, err := a.Generate(context.Background(), Source{Notation: tienda}, options(t))
	require.NoError(t, err)
	_, err = a.Generate(context.Background(), Source{Notation: "class A\nA --> Ghost"}, options(t))
	require.Error(t, err)

	runs, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byStatus := map[string]history.Run{}
	for _, r := range runs {
		byStatus[r.Status] = r
	}
	assert.Equal(t, len(ok.Project.Files), byStatus[history.StatusSucceeded].Files)
	assert.Contains(t, byStatus[history.StatusFailed].Error, "Ghost")
	assert.NotNil(t, byStatus[history.StatusFailed].FinishedAt)
}
