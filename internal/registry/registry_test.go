package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/logger"
	"github.com/diagram-to-project/generator/internal/result"
	"github.com/diagram-to-project/generator/internal/typemap"
)

type stubClass struct {
	role  string
	fail  string
	panic bool
}

func (s stubClass) Role() string { return s.role }

func (s stubClass) Build(_ *Context, c *diagram.ClassDefinition) (Artifact, error) {
	if s.panic {
		panic("kaboom")
	}
	if c.Name == s.fail {
		return Artifact{}, errors.New("cannot build")
	}
	return Artifact{Path: s.role + "/" + c.Name + ".txt", Content: []byte(c.Name)}, nil
}

type stubShared struct{}

func (stubShared) Role() string { return "readme" }

func (stubShared) Build(ctx *Context) ([]Artifact, error) {
	return []Artifact{{Path: "README", Content: []byte(ctx.Project.Name)}}, nil
}

func model(names ...string) *diagram.Model {
	m := diagram.NewModel()
	for _, n := range names {
		m.Add(&diagram.ClassDefinition{Name: n})
	}
	return m
}

func TestRegisterReplacesRole(t *testing.T) {
	r := New()
	r.Register(typemap.Server, stubClass{role: "entity"})
	r.Register(typemap.Server, stubClass{role: "repository"})
	r.Register(typemap.Server, stubClass{role: "entity", fail: "X"})

	assert.Equal(t, []string{"entity", "repository"}, r.ClassRoles(typemap.Server))
	b, ok := r.Get(typemap.Server, "entity")
	require.True(t, ok)
	assert.Equal(t, "X", b.(stubClass).fail)
	_, ok = r.Get(typemap.Client, "entity")
	assert.False(t, ok)
}

func TestRunWritesInOrder(t *testing.T) {
	r := New()
	r.RegisterShared(typemap.Client, stubShared{})
	r.Register(typemap.Client, stubClass{role: "model"})
	r.Register(typemap.Client, stubClass{role: "service"})

	root := t.TempDir()
	ctx := &Context{Project: Project{Name: "demo"}, Model: model("A", "B")}
	res, err := r.Run(typemap.Client, ctx, root, logger.Discard())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 5, res.Count)
	assert.Equal(t, []string{"model/A.txt", "model/B.txt"}, res.Artifacts["model"])
	data, err := os.ReadFile(filepath.Join(root, "service", "B.txt"))
	require.NoError(t, err)
	assert.Equal(t, "B", string(data))
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	r := New()
	r.Register(typemap.Server, stubClass{role: "entity", fail: "B"})
	r.Register(typemap.Server, stubClass{role: "controller"})

	root := t.TempDir()
	res, err := r.Run(typemap.Server, &Context{Model: model("A", "B", "C")}, root, logger.Discard())

	var gerr *GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "B", gerr.Class)
	assert.Equal(t, result.GenerationError, result.CodeOf(err))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "entity for B")
	assert.FileExists(t, filepath.Join(root, "entity", "A.txt"))
	assert.NoFileExists(t, filepath.Join(root, "entity", "C.txt"))
	assert.NoDirExists(t, filepath.Join(root, "controller"))
}

func TestRunRecoversPanics(t *testing.T) {
	r := New()
	r.Register(typemap.Server, stubClass{role: "entity", panic: true})

	res, err := r.Run(typemap.Server, &Context{Model: model("A")}, t.TempDir(), logger.Discard())
	require.Error(t, err)
	assert.Contains(t, res.Error, "kaboom")
}

func TestProjectNames(t *testing.T) {
	p := Project{Name: "erp-inventario", GroupID: "com.example"}
	assert.Equal(t, "com.example.erpinventario", p.BasePackage())
	assert.Equal(t, "ErpInventario", p.AppName())
	assert.Equal(t, "Generated", Project{Name: "--"}.AppName())
}
