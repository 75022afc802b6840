// Package project assembles a complete generated project: it parses the diagram,
// prepares the project directory, runs the server and client generators and writes
// the project README, manifest and run scripts.
package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/flutter"
	"github.com/diagram-to-project/generator/internal/history"
	"github.com/diagram-to-project/generator/internal/identity"
	"github.com/diagram-to-project/generator/internal/notation"
	"github.com/diagram-to-project/generator/internal/registry"
	"github.com/diagram-to-project/generator/internal/result"
	"github.com/diagram-to-project/generator/internal/springboot"
	"github.com/diagram-to-project/generator/internal/typemap"
	"github.com/diagram-to-project/generator/internal/verify"
)

// State is a step of the assembly.
type State string

const (
	Idle              State = "Idle"
	Parsing           State = "Parsing"
	DirectoryPrepared State = "DirectoryPrepared"
	ServerGenerated   State = "ServerGenerated"
	ClientGenerated   State = "ClientGenerated"
	ManifestWritten   State = "ManifestWritten"
	Done              State = "Done"
	Failed            State = "Failed"
)

var nameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidName reports whether name can be used as a project directory name.
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}

// Source is the diagram to generate from. Exactly one field is used, in the
// order Model, GoJS, Notation.
type Source struct {
	Notation string
	GoJS     []byte
	Model    *diagram.Model
}

// Options configures one assembly.
type Options struct {
	OutputRoot string
	Project    registry.Project
	// Types maps diagram types; nil uses the built-in tables.
	Types      *typemap.Mapper
	VerifyJava bool
	RunScripts bool
}

// GeneratedProject describes the project directory after a run.
type GeneratedProject struct {
	Name  string         `json:"name"`
	Root  string         `json:"root"`
	Model *diagram.Model `json:"model,omitempty"`
	// Files lists every generated path relative to Root.
	Files []string `json:"files"`
}

// Report is the outcome of an assembly.
type Report struct {
	Success  bool                `json:"success"`
	Error    string              `json:"error,omitempty"`
	Code     result.Code         `json:"code,omitempty"`
	States   []State             `json:"states"`
	Project  GeneratedProject    `json:"project"`
	Server   *result.PhaseResult `json:"server,omitempty"`
	Client   *result.PhaseResult `json:"client,omitempty"`
	Errors   []result.Error      `json:"errors,omitempty"`
	Warnings []result.Warning    `json:"warnings,omitempty"`
}

// State returns the last state reached.
func (r *Report) State() State {
	if len(r.States) == 0 {
		return Idle
	}
	return r.States[len(r.States)-1]
}

// Recorder stores run history.
type Recorder interface {
	Start(project string) (history.Run, error)
	Finish(id string, success bool, errMsg string, files int) error
}

// Assembler runs project generations. It is safe for concurrent use; runs for the
// same project name are serialized.
type Assembler struct {
	reg      *registry.Registry
	log      *slog.Logger
	locks    *Locker
	recorder Recorder
}

// New returns an assembler using the builders registered in reg.
func New(reg *registry.Registry, log *slog.Logger) *Assembler {
	return &Assembler{reg: reg, log: log, locks: NewLocker()}
}

// WithRecorder records every run in rec.
func (a *Assembler) WithRecorder(rec Recorder) *Assembler {
	a.recorder = rec
	return a
}

type run struct {
	a      *Assembler
	report *Report
	name   string
}

func (r *run) enter(s State) {
	r.report.States = append(r.report.States, s)
	r.a.log.Info("project state", "project", r.name, "phase", string(s))
}

func (r *run) fail(err error) (*Report, error) {
	rep := r.report
	rep.Success = false
	rep.Error = err.Error()
	rep.Code = result.CodeOf(err)
	var verrs diagram.ValidationErrors
	if errors.As(err, &verrs) {
		rep.Errors = append(rep.Errors, verrs.Results()...)
	}
	r.enter(Failed)
	r.a.log.Error("project generation failed", "project", r.name, "code", string(rep.Code), "error", err)
	return rep, err
}

// Generate runs the whole assembly for src. The report is always returned; the
// error is the first failure.
func (a *Assembler) Generate(ctx context.Context, src Source, opts Options) (*Report, error) {
	name := opts.Project.Name
	r := &run{a: a, name: name, report: &Report{States: []State{Idle}, Project: GeneratedProject{Name: name}}}

	if a.recorder != nil {
		rec, err := a.recorder.Start(name)
		if err != nil {
			a.log.Warn("history unavailable", "project", name, "error", err)
		} else {
			defer func() {
				rep := r.report
				if err := a.recorder.Finish(rec.ID, rep.Success, rep.Error, len(rep.Project.Files)); err != nil {
					a.log.Warn("history update failed", "project", name, "error", err)
				}
			}()
		}
	}

	if !ValidName(name) {
		return r.fail(result.Errorf(result.ValidationError,
			"invalid project name %q: use letters, digits, '-' or '_', starting with a letter", name))
	}
	unlock, err := a.locks.Lock(ctx, name)
	if err != nil {
		return r.fail(result.NewError(result.InternalError, "waiting for project lock", err))
	}
	defer unlock()

	r.enter(Parsing)
	model, err := Load(src)
	if err != nil {
		return r.fail(err)
	}
	r.report.Project.Model = model
	r.report.Warnings = model.Warnings
	if err := ctx.Err(); err != nil {
		return r.fail(err)
	}

	root := filepath.Join(opts.OutputRoot, name)
	r.report.Project.Root = root
	if err := prepare(root); err != nil {
		return r.fail(result.NewError(result.GenerationError, "preparing "+root, err))
	}
	r.enter(DirectoryPrepared)

	types := opts.Types
	if types == nil {
		types = typemap.New()
	}
	gctx := &registry.Context{Project: opts.Project, Model: model, Types: types}

	r.report.Server = springboot.New(a.reg, a.log).Generate(gctx, root)
	r.collect(springboot.Dir, r.report.Server)
	if !r.report.Server.Success {
		return r.fail(result.Errorf(result.GenerationError, "server generation failed: %s", r.report.Server.Error))
	}
	r.enter(ServerGenerated)
	if err := ctx.Err(); err != nil {
		return r.fail(err)
	}

	r.report.Client = flutter.New(a.reg, a.log).Generate(gctx, root)
	r.collect(flutter.Dir, r.report.Client)
	if !r.report.Client.Success {
		return r.fail(result.Errorf(result.GenerationError, "client generation failed: %s", r.report.Client.Error))
	}
	r.enter(ClientGenerated)

	if opts.VerifyJava {
		problems, err := verify.Java(filepath.Join(root, springboot.Dir))
		if err != nil {
			return r.fail(result.NewError(result.GenerationError, "verifying server sources", err))
		}
		if len(problems) > 0 {
			r.report.Errors = append(r.report.Errors, problems...)
			return r.fail(result.Errorf(result.GenerationError,
				"%d generated Java file(s) do not parse, first: %s: %s", len(problems), problems[0].File, problems[0].Message))
		}
	}

	files, err := writeProjectFiles(root, opts, model, r.report)
	if err != nil {
		return r.fail(result.NewError(result.GenerationError, "writing project files", err))
	}
	r.report.Project.Files = append(r.report.Project.Files, files...)
	r.enter(ManifestWritten)

	r.report.Success = true
	r.enter(Done)
	a.log.Info("project generated", "project", name, "classes", model.Len(), "files", len(r.report.Project.Files))
	return r.report, nil
}

func (r *run) collect(dir string, res *result.PhaseResult) {
	if res == nil {
		return
	}
	for _, files := range [][]string{res.Files(sharedRoles(dir)...), res.Files(classRoles(dir)...)} {
		for _, f := range files {
			r.report.Project.Files = append(r.report.Project.Files, dir+"/"+f)
		}
	}
}

func sharedRoles(dir string) []string {
	if dir == springboot.Dir {
		return springboot.SharedRoles
	}
	return flutter.SharedRoles
}

func classRoles(dir string) []string {
	if dir == springboot.Dir {
		return springboot.ClassRoles
	}
	return flutter.ClassRoles
}

// Load turns the source into a model with identities resolved and validated.
func Load(src Source) (*diagram.Model, error) {
	switch {
	case src.Model != nil:
		if err := identity.Prepare(src.Model); err != nil {
			return nil, err
		}
		return src.Model, nil
	case len(src.GoJS) > 0:
		m, err := diagram.FromGoJS(src.GoJS)
		if err != nil {
			return nil, err
		}
		if err := identity.Prepare(m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return notation.Parse(src.Notation)
	}
}

// prepare creates root and removes the previous server and client trees. Anything
// else under root is left alone.
func prepare(root string) error {
	if err := os.MkdirAll(root, 0755); err != nil {
		return err
	}
	for _, dir := range []string{springboot.Dir, flutter.Dir} {
		if err := os.RemoveAll(filepath.Join(root, dir)); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
	}
	return nil
}
