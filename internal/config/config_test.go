package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagram-to-project/generator/internal/registry"
	"github.com/diagram-to-project/generator/internal/result"
	"github.com/diagram-to-project/generator/internal/typemap"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "generator.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_root: out\nverify_java: true\nclient:\n  base_url: https://api.example.com\n"), 0o644))
	t.Setenv("DIAGRAMGEN_SERVER_ADDR", ":9000")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputRoot)
	assert.True(t, cfg.VerifyJava)
	assert.Equal(t, "https://api.example.com", cfg.Client.BaseURL)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "com.example", cfg.Project.GroupID)

	p := cfg.ProjectFor("demo")
	assert.Equal(t, "demo", p.Name)
	assert.Equal(t, "https://api.example.com", p.BaseURL)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, result.ConfigError, result.CodeOf(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Config)
	}{
		{"output_root", func(c *Config) { c.OutputRoot = " " }},
		{"server.addr", func(c *Config) { c.Server.Addr = "" }},
		{"client.base_url", func(c *Config) { c.Client.BaseURL = "localhost:8080" }},
		{"project.group_id", func(c *Config) { c.Project.GroupID = "" }},
		{"log.level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.field, cerr.Field)
			assert.Equal(t, result.ConfigError, result.CodeOf(err))
		})
	}
}

const descriptorSrc = `
project "erp-inventario" {
  group_id    = "com.acme"
  description = "Inventory"

  type_override "server" "Money" {
    native = "java.math.BigDecimal"
  }

  type_override "client" "Money" {
    native = "double"
  }
}
`

func TestParseDescriptor(t *testing.T) {
	d, err := ParseDescriptor("project.hcl", []byte(descriptorSrc))
	require.NoError(t, err)
	assert.Equal(t, "erp-inventario", d.Name)
	require.Len(t, d.TypeOverrides, 2)

	p := d.Apply(registry.Project{Name: "x", GroupID: "com.example", JavaVersion: "17"})
	assert.Equal(t, "erp-inventario", p.Name)
	assert.Equal(t, "com.acme", p.GroupID)
	assert.Equal(t, "17", p.JavaVersion)
	assert.Equal(t, "Inventory", p.Description)

	types := d.Types()
	assert.Equal(t, "java.math.BigDecimal", types.Map("money", typemap.Server))
	assert.Equal(t, "double", types.Map("Money", typemap.Client))
	assert.Equal(t, "Integer", types.Map("int", typemap.Server))
}

func TestParseDescriptorRejectsUnknownStack(t *testing.T) {
	src := `project "p" {
  type_override "mobile" "Money" {
    native = "x"
  }
}`
	_, err := ParseDescriptor("project.hcl", []byte(src))
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Contains(t, cerr.Message, "mobile")
}

func TestParseDescriptorSyntaxError(t *testing.T) {
	_, err := ParseDescriptor("project.hcl", []byte(`project {`))
	require.Error(t, err)
	assert.Equal(t, result.ConfigError, result.CodeOf(err))
}

func TestLoadDescriptorMissing(t *testing.T) {
	d, err := LoadDescriptor(filepath.Join(t.TempDir(), DescriptorFile))
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.Equal(t, registry.Project{Name: "a"}, d.Apply(registry.Project{Name: "a"}))
	assert.NotNil(t, d.Types())
}

func TestWriteDescriptorRoundTrip(t *testing.T) {
	in := &Descriptor{
		Name:        "demo",
		GroupID:     "com.acme",
		JavaVersion: "21",
		TypeOverrides: []TypeOverride{
			{Stack: "server", Token: "Money", Native: "java.math.BigDecimal"},
		},
	}
	src := WriteDescriptor(in)
	assert.Contains(t, string(src), `project "demo" {`)
	assert.Contains(t, string(src), `type_override "server" "Money" {`)
	assert.NotContains(t, string(src), "base_url")

	out, err := ParseDescriptor("project.hcl", src)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
