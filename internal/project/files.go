package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/emit"
	"github.com/diagram-to-project/generator/internal/flutter"
	"github.com/diagram-to-project/generator/internal/naming"
	"github.com/diagram-to-project/generator/internal/springboot"
)

// Project level file names.
const (
	ReadmeFile   = "README.md"
	ManifestFile = "manifest.toml"
)

// Manifest is the file inventory written next to the generated trees.
type Manifest struct {
	Project  string          `toml:"project"`
	Package  string          `toml:"package"`
	BaseURL  string          `toml:"base_url,omitempty"`
	Warnings int             `toml:"warnings"`
	Classes  []ManifestClass `toml:"classes"`
	Server   ManifestTree    `toml:"server"`
	Client   ManifestTree    `toml:"client"`
}

// ManifestClass summarizes one generated entity.
type ManifestClass struct {
	Name       string `toml:"name"`
	Table      string `toml:"table"`
	Identity   string `toml:"identity"`
	Attributes int    `toml:"attributes"`
	Methods    int    `toml:"methods"`
}

// ManifestTree lists the files of one generated tree, relative to its directory.
type ManifestTree struct {
	Dir   string   `toml:"dir"`
	Files []string `toml:"files"`
}

// ReadManifest decodes a manifest file.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &m, nil
}

func buildManifest(opts Options, model *diagram.Model, rep *Report) Manifest {
	m := Manifest{
		Project:  opts.Project.Name,
		Package:  opts.Project.BasePackage(),
		BaseURL:  opts.Project.BaseURL,
		Warnings: len(rep.Warnings),
		Server:   ManifestTree{Dir: springboot.Dir, Files: []string{}},
		Client:   ManifestTree{Dir: flutter.Dir, Files: []string{}},
	}
	for _, c := range model.Classes() {
		mc := ManifestClass{
			Name:       naming.Identifier(c.Name),
			Table:      naming.TableName(c.Name),
			Attributes: len(c.Attributes),
			Methods:    len(c.Methods),
		}
		if id := c.Identity(); id != nil {
			mc.Identity = naming.Member(id.Name)
		}
		m.Classes = append(m.Classes, mc)
	}
	if rep.Server != nil {
		m.Server.Files = append(m.Server.Files, rep.Server.Files(slices.Concat(springboot.SharedRoles, springboot.ClassRoles)...)...)
	}
	if rep.Client != nil {
		m.Client.Files = append(m.Client.Files, rep.Client.Files(slices.Concat(flutter.SharedRoles, flutter.ClassRoles)...)...)
	}
	return m
}

func readme(opts Options, model *diagram.Model) []byte {
	var b strings.Builder
	name := opts.Project.Name
	fmt.Fprintf(&b, "# %s\n\n", name)
	b.WriteString("Generated from a class diagram: a Spring Boot REST API and a Flutter client.\n\n")

	b.WriteString("## Layout\n\n```\n")
	fmt.Fprintf(&b, "%s/\n", name)
	fmt.Fprintf(&b, "├── %s/    # Spring Boot backend (Maven)\n", springboot.Dir)
	fmt.Fprintf(&b, "├── %s/          # Flutter frontend\n", flutter.Dir)
	if opts.RunScripts {
		b.WriteString("├── run-spring-boot.sh / .bat\n")
		b.WriteString("├── run-flutter.sh / .bat\n")
	}
	fmt.Fprintf(&b, "└── %s\n```\n\n", ManifestFile)

	b.WriteString("## Entities\n\n")
	for _, c := range model.Classes() {
		word := "attributes"
		if len(c.Attributes) == 1 {
			word = "attribute"
		}
		fmt.Fprintf(&b, "- **%s**: %d %s (`/api/%s`)\n", naming.Identifier(c.Name), len(c.Attributes), word, naming.TableName(c.Name))
	}

	b.WriteString("\n## Running\n\n")
	fmt.Fprintf(&b, "- Backend: `cd %s && mvn spring-boot:run` (listens on http://localhost:8080)\n", springboot.Dir)
	fmt.Fprintf(&b, "- Frontend: `cd %s && flutter pub get && flutter run`\n", flutter.Dir)
	if opts.Project.BaseURL != "" {
		fmt.Fprintf(&b, "- The client calls %s\n", opts.Project.BaseURL)
	}

	b.WriteString("\n## Notes\n\n")
	b.WriteString("- Identifiers are generated `Long` values.\n")
	b.WriteString("- The backend uses an in-memory H2 database.\n")
	b.WriteString("- Every entity gets list, get, create, update and delete endpoints and screens.\n")
	return []byte(b.String())
}

type script struct {
	name string
	body []string
	mode os.FileMode
	crlf bool
}

func runScripts() []script {
	return []script{
		{name: "run-spring-boot.sh", mode: 0755, body: []string{
			"#!/bin/bash",
			`cd "$(dirname "$0")/` + springboot.Dir + `" || exit 1`,
			`echo "Starting Spring Boot backend..."`,
			"mvn spring-boot:run",
		}},
		{name: "run-spring-boot.bat", mode: 0644, crlf: true, body: []string{
			"@echo off",
			`cd /d "%~dp0` + springboot.Dir + `"`,
			"echo Starting Spring Boot backend...",
			"mvn spring-boot:run",
			"pause",
		}},
		{name: "run-flutter.sh", mode: 0755, body: []string{
			"#!/bin/bash",
			`cd "$(dirname "$0")/` + flutter.Dir + `" || exit 1`,
			`echo "Installing Flutter dependencies..."`,
			"flutter pub get",
			`echo "Starting Flutter app..."`,
			"flutter run",
		}},
		{name: "run-flutter.bat", mode: 0644, crlf: true, body: []string{
			"@echo off",
			`cd /d "%~dp0` + flutter.Dir + `"`,
			"echo Installing Flutter dependencies...",
			"call flutter pub get",
			"echo Starting Flutter app...",
			"flutter run",
			"pause",
		}},
	}
}

// writeProjectFiles writes README, manifest and optional run scripts under root and
// returns their paths relative to root.
func writeProjectFiles(root string, opts Options, model *diagram.Model, rep *Report) ([]string, error) {
	var written []string

	if _, err := emit.WriteFile(root, ReadmeFile, readme(opts, model)); err != nil {
		return nil, err
	}
	written = append(written, ReadmeFile)

	if opts.RunScripts {
		for _, s := range runScripts() {
			nl := "\n"
			if s.crlf {
				nl = "\r\n"
			}
			path, err := emit.WriteFile(root, s.name, []byte(strings.Join(s.body, nl)+nl))
			if err != nil {
				return nil, err
			}
			if err := os.Chmod(path, s.mode); err != nil {
				return nil, err
			}
			written = append(written, s.name)
		}
	} else {
		for _, s := range runScripts() {
			if err := os.Remove(filepath.Join(root, s.name)); err != nil && !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(buildManifest(opts, model, rep)); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if _, err := emit.WriteFile(root, ManifestFile, buf.Bytes()); err != nil {
		return nil, err
	}
	written = append(written, ManifestFile)
	return written, nil
}
