package registry

import (
	"fmt"
	"log/slog"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/emit"
	"github.com/diagram-to-project/generator/internal/result"
	"github.com/diagram-to-project/generator/internal/typemap"
)

// GenerationError reports a failed artifact.
type GenerationError struct {
	Stack typemap.Stack
	Role  string
	Class string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("%s %s for %s: %v", e.Stack, e.Role, e.Class, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stack, e.Role, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ErrorCode implements result.Coder.
func (e *GenerationError) ErrorCode() result.Code {
	return result.GenerationError
}

// Run executes every builder of stack and writes the artifacts under root as it goes:
// shared builders first, then each per-class role over all classes in model order.
// The first failure stops the phase; files already written stay in place.
func (r *Registry) Run(stack typemap.Stack, ctx *Context, root string, log *slog.Logger) (*result.PhaseResult, error) {
	res := result.NewPhaseResult()
	write := func(role string, a Artifact) error {
		if _, err := emit.WriteFile(root, a.Path, a.Content); err != nil {
			return err
		}
		res.Add(role, a.Path)
		log.Debug("artifact written", "stack", stack, "role", role, "path", a.Path)
		return nil
	}

	for _, b := range r.SharedBuilders(stack) {
		arts, err := buildShared(b, ctx)
		if err == nil {
			for _, a := range arts {
				if err = write(b.Role(), a); err != nil {
					break
				}
			}
		}
		if err != nil {
			gerr := &GenerationError{Stack: stack, Role: b.Role(), Err: err}
			return res.Fail(gerr.Error()), gerr
		}
	}

	for _, b := range r.ClassBuilders(stack) {
		for _, c := range ctx.Model.Classes() {
			a, err := buildClass(b, ctx, c)
			if err == nil {
				err = write(b.Role(), a)
			}
			if err != nil {
				gerr := &GenerationError{Stack: stack, Role: b.Role(), Class: c.Name, Err: err}
				return res.Fail(gerr.Error()), gerr
			}
		}
	}
	return res, nil
}

func buildShared(b SharedBuilder, ctx *Context) (arts []Artifact, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return b.Build(ctx)
}

func buildClass(b ClassBuilder, ctx *Context, c *diagram.ClassDefinition) (a Artifact, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return b.Build(ctx, c)
}
