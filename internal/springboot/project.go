package springboot

import (
	"bytes"
	"encoding/xml"

	"github.com/diagram-to-project/generator/internal/emit"
	"github.com/diagram-to-project/generator/internal/registry"
)

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Scope      string `xml:"scope,omitempty"`
}

type pomPlugin struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

type pomParent struct {
	GroupID      string   `xml:"groupId"`
	ArtifactID   string   `xml:"artifactId"`
	Version      string   `xml:"version"`
	RelativePath struct{} `xml:"relativePath"`
}

type pomProject struct {
	XMLName        xml.Name  `xml:"project"`
	Xmlns          string    `xml:"xmlns,attr"`
	XmlnsXsi       string    `xml:"xmlns:xsi,attr"`
	SchemaLocation string    `xml:"xsi:schemaLocation,attr"`
	ModelVersion   string    `xml:"modelVersion"`
	Parent         pomParent `xml:"parent"`
	GroupID        string    `xml:"groupId"`
	ArtifactID     string    `xml:"artifactId"`
	Version        string    `xml:"version"`
	Packaging      string    `xml:"packaging"`
	Name           string    `xml:"name"`
	Description    string    `xml:"description"`
	Properties     struct {
		JavaVersion string `xml:"java.version"`
	} `xml:"properties"`
	Dependencies []pomDependency `xml:"dependencies>dependency"`
	Plugins      []pomPlugin     `xml:"build>plugins>plugin"`
}

type pomBuilder struct{}

func (pomBuilder) Role() string { return RolePom }

func (pomBuilder) Build(ctx *registry.Context) ([]registry.Artifact, error) {
	p := ctx.Project
	pom := pomProject{
		Xmlns:          "http://maven.apache.org/POM/4.0.0",
		XmlnsXsi:       "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: "http://maven.apache.org/POM/4.0.0 https://maven.apache.org/xsd/maven-4.0.0.xsd",
		ModelVersion:   "4.0.0",
		Parent: pomParent{
			GroupID:    "org.springframework.boot",
			ArtifactID: "spring-boot-starter-parent",
			Version:    p.SpringBootVersion,
		},
		GroupID:     p.GroupID,
		ArtifactID:  p.Name,
		Version:     "1.0.0",
		Packaging:   "jar",
		Name:        p.Name,
		Description: p.Description,
		Dependencies: []pomDependency{
			{GroupID: "org.springframework.boot", ArtifactID: "spring-boot-starter-web"},
			{GroupID: "org.springframework.boot", ArtifactID: "spring-boot-starter-data-jpa"},
			{GroupID: "com.h2database", ArtifactID: "h2", Scope: "runtime"},
			{GroupID: "org.springframework.boot", ArtifactID: "spring-boot-starter-test", Scope: "test"},
		},
		Plugins: []pomPlugin{{GroupID: "org.springframework.boot", ArtifactID: "spring-boot-maven-plugin"}},
	}
	pom.Properties.JavaVersion = p.JavaVersion

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "    ")
	if err := enc.Encode(pom); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return []registry.Artifact{{Path: "pom.xml", Content: buf.Bytes()}}, nil
}

type propertiesBuilder struct{}

func (propertiesBuilder) Role() string { return RoleProperties }

func (propertiesBuilder) Build(ctx *registry.Context) ([]registry.Artifact, error) {
	e := emit.NewJava()
	e.Lines(
		"spring.application.name="+ctx.Project.Name,
		"spring.datasource.url=jdbc:h2:mem:testdb",
		"spring.datasource.driverClassName=org.h2.Driver",
		"spring.datasource.username=sa",
		"spring.datasource.password=",
		"spring.h2.console.enabled=true",
		"spring.jpa.database-platform=org.hibernate.dialect.H2Dialect",
		"spring.jpa.hibernate.ddl-auto=create-drop",
		"spring.jpa.show-sql=true",
	)
	return []registry.Artifact{{Path: "src/main/resources/application.properties", Content: e.Bytes()}}, nil
}

type applicationBuilder struct{}

func (applicationBuilder) Role() string { return RoleApplication }

func (applicationBuilder) Build(ctx *registry.Context) ([]registry.Artifact, error) {
	name := ctx.Project.AppName() + "Application"
	f := &emit.JavaFile{Package: ctx.Project.BasePackage()}
	f.Import("org.springframework.boot.SpringApplication", "org.springframework.boot.autoconfigure.SpringBootApplication")
	f.Type = &emit.JavaType{
		Annotations: []string{"@SpringBootApplication"},
		Name:        name,
		Methods: []emit.JavaMethod{{
			Signature: "public static void main(String[] args)",
			Body: func(e *emit.Emitter) {
				e.Line("SpringApplication.run(%s.class, args);", name)
			},
		}},
	}
	return []registry.Artifact{{Path: javaPath(ctx, "", name), Content: f.Render()}}, nil
}
