// Package verify checks generated Java sources for syntax errors with tree-sitter.
package verify

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/diagram-to-project/generator/internal/result"
)

// Problem is the first syntax error found in a source.
type Problem struct {
	Line   int    // 1-based
	Column int    // 0-based
	Kind   string // "error" or "missing"
	Node   string // grammar node kind
}

func (p Problem) String() string {
	if p.Kind == "missing" {
		return fmt.Sprintf("line %d, column %d: missing %s", p.Line, p.Column, p.Node)
	}
	return fmt.Sprintf("line %d, column %d: syntax error", p.Line, p.Column)
}

// Checker parses Java sources. It is not safe for concurrent use.
type Checker struct {
	parser *sitter.Parser
}

// NewChecker returns a checker for Java. Close releases the parser.
func NewChecker() (*Checker, error) {
	p := sitter.NewParser()
	if err := p.SetLanguage(sitter.NewLanguage(tree_sitter_java.Language())); err != nil {
		p.Close()
		return nil, fmt.Errorf("loading java grammar: %w", err)
	}
	return &Checker{parser: p}, nil
}

// Close releases the parser.
func (c *Checker) Close() {
	if c.parser != nil {
		c.parser.Close()
	}
}

// Source parses src and returns its first syntax problem, or nil when it parses cleanly.
func (c *Checker) Source(src []byte) (*Problem, error) {
	tree := c.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned no tree")
	}
	defer tree.Close()
	root := tree.RootNode()
	if !root.HasError() {
		return nil, nil
	}
	return firstProblem(root), nil
}

func firstProblem(n *sitter.Node) *Problem {
	if n.IsError() || n.IsMissing() {
		pos := n.StartPosition()
		p := &Problem{Line: int(pos.Row) + 1, Column: int(pos.Column), Kind: "error", Node: n.Kind()}
		if n.IsMissing() {
			p.Kind = "missing"
		}
		return p
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() {
			continue
		}
		if p := firstProblem(child); p != nil {
			return p
		}
	}
	pos := n.StartPosition()
	return &Problem{Line: int(pos.Row) + 1, Column: int(pos.Column), Kind: "error", Node: n.Kind()}
}

// Java parses every .java file under root and returns one result.Error per file that
// does not parse, in path order. File paths in the errors are relative to root.
func Java(root string) ([]result.Error, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".java") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	c, err := NewChecker()
	if err != nil {
		return nil, err
	}
	defer c.Close()

	var problems []result.Error
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		p, err := c.Source(src)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if p == nil {
			continue
		}
		rel, _ := filepath.Rel(root, path)
		problems = append(problems, result.Error{
			Type:       "java_syntax",
			Severity:   "error",
			File:       filepath.ToSlash(rel),
			Message:    p.String(),
			Suggestion: "Check the class, attribute and method names used in the diagram",
		})
	}
	return problems, nil
}
