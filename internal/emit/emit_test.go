package emit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterBlocks(t *testing.T) {
	e := NewJava()
	e.Block("if (%s)", "ok")
	e.Line("return 100%;")
	e.EndBlockSuffix(" else {")
	e.Indent()
	e.Line("return %d;", 0)
	e.EndBlock()

	assert.Equal(t, "if (ok) {\n    return 100%;\n} else {\n    return 0;\n}\n", e.String())
}

func TestEmitterOpenClose(t *testing.T) {
	e := NewDart()
	e.Open("return Scaffold(")
	e.Line("body: child,")
	e.Close(");")
	e.Dedent()

	assert.Equal(t, "return Scaffold(\n  body: child,\n);\n", e.String())
}

func TestJavaFileRender(t *testing.T) {
	f := &JavaFile{Package: "com.example.demo.entity"}
	f.Import("java.time.LocalDate", "jakarta.persistence.*", "java.time.LocalDate")
	f.Type = &JavaType{
		Annotations: []string{"@Entity"},
		Name:        "Producto",
		Fields:      []JavaField{{Modifiers: "private", Type: "Long", Name: "id", Annotations: []string{"@Id"}}},
		Methods: []JavaMethod{{
			Signature: "public Long getId()",
			Body:      func(e *Emitter) { e.Line("return id;") },
		}},
	}

	want := `package com.example.demo.entity;

import jakarta.persistence.*;

import java.time.LocalDate;

@Entity
public class Producto {

    @Id
    private Long id;

    public Long getId() {
        return id;
    }
}
`
	assert.Equal(t, want, string(f.Render()))
}

func TestJavaInterfaceRender(t *testing.T) {
	f := &JavaFile{Package: "p", Type: &JavaType{Kind: "interface", Name: "Repo", Extends: "Base<A, Long>"}}
	assert.Equal(t, "package p;\n\npublic interface Repo extends Base<A, Long> {\n\n}\n", string(f.Render()))
}

func TestDartFileRender(t *testing.T) {
	f := &DartFile{}
	f.Import("../models/a.dart", "package:flutter/material.dart", "dart:convert", "package:http/http.dart as http")
	f.Decl(func(e *Emitter) { e.Line("const a = 1;") })
	f.Decl(func(e *Emitter) { e.Line("const b = 2;") })

	want := `import 'dart:convert';

import 'package:flutter/material.dart';
import 'package:http/http.dart' as http;

import '../models/a.dart';

const a = 1;

const b = 2;
`
	assert.Equal(t, want, string(f.Render()))
}

func TestWriteFile(t *testing.T) {
	root := t.TempDir()
	path, err := WriteFile(root, "a/b/c.txt", []byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b", "c.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))
}
