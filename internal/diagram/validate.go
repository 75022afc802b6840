package diagram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/diagram-to-project/generator/internal/dependency"
	"github.com/diagram-to-project/generator/internal/naming"
	"github.com/diagram-to-project/generator/internal/result"
)

// ValidationError represents a single structural failure of the model.
type ValidationError struct {
	Type       string   `json:"type"`
	Severity   string   `json:"severity"`
	Class      string   `json:"class,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Unresolved []string `json:"unresolved,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// ErrorCode implements result.Coder.
func (e ValidationError) ErrorCode() result.Code {
	return result.ValidationError
}

// ValidationErrors is the list returned when a model fails validation.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return "invalid diagram: " + strings.Join(msgs, "; ")
}

// ErrorCode implements result.Coder.
func (v ValidationErrors) ErrorCode() result.Code {
	return result.ValidationError
}

// Unresolved returns every unresolved class name, in order of first appearance.
func (v ValidationErrors) Unresolved() []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range v {
		for _, n := range e.Unresolved {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// Results converts the list into structured result errors.
func (v ValidationErrors) Results() []result.Error {
	out := make([]result.Error, len(v))
	for i, e := range v {
		out[i] = result.Error{
			Type: e.Type, Severity: e.Severity, Class: e.Class,
			Message: e.Message, Suggestion: e.Suggestion,
		}
	}
	return out
}

// Err returns v as an error, or nil when empty.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Validate checks the structure of the model: at least one class, valid and unique class
// names, unique attribute names, at most one identity per class, resolvable relationship
// ends and an acyclic inheritance graph.
func Validate(m *Model) ValidationErrors {
	var errs ValidationErrors

	if m == nil || m.Len() == 0 {
		return ValidationErrors{{
			Type: "schema_error", Severity: "error",
			Message: "diagram has no classes", Suggestion: "Declare at least one class",
		}}
	}

	seenIdent := make(map[string]string)
	for _, c := range m.Classes() {
		if !naming.ValidIdentifier(c.Name) {
			errs = append(errs, ValidationError{
				Type: "schema_error", Severity: "error", Class: c.Name,
				Message:    fmt.Sprintf("invalid class name %q", c.Name),
				Suggestion: "Class names must start with a letter and contain only letters and digits",
			})
		} else if other, ok := seenIdent[naming.Identifier(c.Name)]; ok {
			errs = append(errs, ValidationError{
				Type: "schema_error", Severity: "error", Class: c.Name,
				Message:    fmt.Sprintf("class %q collides with %q after normalization", c.Name, other),
				Suggestion: "Rename one of the classes",
			})
		} else {
			seenIdent[naming.Identifier(c.Name)] = c.Name
		}

		seenAttr := make(map[string]bool)
		identities := 0
		for i, a := range c.Attributes {
			if strings.TrimSpace(a.Name) == "" {
				errs = append(errs, ValidationError{
					Type: "schema_error", Severity: "error", Class: c.Name,
					Message: fmt.Sprintf("attribute at index %d of %s has empty name", i, c.Name),
				})
				continue
			}
			key := strings.ToLower(naming.Camel(naming.Fold(a.Name)))
			if seenAttr[key] {
				errs = append(errs, ValidationError{
					Type: "schema_error", Severity: "error", Class: c.Name,
					Message:    fmt.Sprintf("duplicate attribute %q in class %s", a.Name, c.Name),
					Suggestion: "Use unique attribute names within a class",
				})
			}
			seenAttr[key] = true
			if a.Identity {
				identities++
			}
		}
		if identities > 1 {
			errs = append(errs, ValidationError{
				Type: "schema_error", Severity: "error", Class: c.Name,
				Message: fmt.Sprintf("class %s has %d identity attributes", c.Name, identities),
			})
		}
	}

	var inheritance []dependency.Edge
	for _, r := range m.Relationships {
		var missing []string
		if m.Class(r.From) == nil {
			missing = append(missing, r.From)
		}
		if m.Class(r.To) == nil && r.To != r.From {
			missing = append(missing, r.To)
		}
		for _, name := range missing {
			errs = append(errs, ValidationError{
				Type: "unresolved_reference", Severity: "error", Class: name,
				Message:    fmt.Sprintf("%s relationship %s -> %s references unknown class %s", r.Kind, r.From, r.To, name),
				Suggestion: "Declare class " + name + " or remove the relationship",
				Unresolved: []string{name},
			})
		}
		if len(missing) == 0 && (r.Kind == Inheritance || r.Kind == Realization) {
			inheritance = append(inheritance, dependency.Edge{From: r.To, To: r.From})
		}
	}

	if _, _, err := dependency.Resolve(m.Names(), inheritance); errors.Is(err, dependency.ErrCycle) {
		errs = append(errs, ValidationError{
			Type: "inheritance_cycle", Severity: "error",
			Message:    "inheritance " + err.Error(),
			Suggestion: "Remove one of the generalization or realization links",
		})
	}

	return errs
}
