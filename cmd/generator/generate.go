package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diagram-to-project/generator/internal/archive"
	"github.com/diagram-to-project/generator/internal/config"
	"github.com/diagram-to-project/generator/internal/history"
	"github.com/diagram-to-project/generator/internal/project"
	"github.com/diagram-to-project/generator/internal/registry"
)

var (
	genName       string
	genOutput     string
	genFormat     string
	genDescriptor string
	genZip        bool
	genVerify     bool
	genNoScripts  bool
	genJSON       bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <diagram-file|->",
	Short: "Generate a Spring Boot + Flutter project from a diagram",
	Long: `Generate parses the diagram, regenerates the spring-boot/ and front/ trees under
<output>/<name> and writes README.md, manifest.toml and the run scripts.

Project settings come from the config defaults, overlaid by project.hcl when present.

Examples:
  generator generate diagram.mmd --name tienda
  generator generate diagram.json --name tienda --zip
  cat diagram.mmd | generator generate - --name tienda --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genName, "name", "n", "", "Project name (default: descriptor name or input file name)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output root (overrides config output_root)")
	generateCmd.Flags().StringVar(&genFormat, "format", "auto", "Input format: auto, notation or gojs")
	generateCmd.Flags().StringVar(&genDescriptor, "descriptor", config.DescriptorFile, "Project descriptor file")
	generateCmd.Flags().BoolVar(&genZip, "zip", false, "Also write <output>/<name>.zip")
	generateCmd.Flags().BoolVar(&genVerify, "verify", false, "Parse the generated Java sources before finishing")
	generateCmd.Flags().BoolVar(&genNoScripts, "no-scripts", false, "Do not write run scripts")
	generateCmd.Flags().BoolVar(&genJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(generateCmd)
}

// sourceFor builds the assembler source from raw input.
func sourceFor(path string, data []byte, format string) (project.Source, error) {
	switch format {
	case "notation":
		return project.Source{Notation: string(data)}, nil
	case "gojs":
		return project.Source{GoJS: data}, nil
	case "auto":
		if strings.EqualFold(filepath.Ext(path), ".json") || bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
			return project.Source{GoJS: data}, nil
		}
		return project.Source{Notation: string(data)}, nil
	default:
		return project.Source{}, fmt.Errorf("unknown format %q, expected auto, notation or gojs", format)
	}
}

// projectName picks the flag, then the descriptor, then the input file stem.
func projectName(flag string, desc *config.Descriptor, path string) string {
	if flag != "" {
		return flag
	}
	if desc != nil && desc.Name != "" {
		return desc.Name
	}
	if path != "-" {
		return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return ""
}

func openHistory(cfg *config.Config, log *slog.Logger) *history.Store {
	if cfg.History.Path == "" {
		return nil
	}
	store, err := history.Open(cfg.History.Path, log)
	if err != nil {
		log.Warn("history disabled", "path", cfg.History.Path, "error", err)
		return nil
	}
	return store
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if genOutput != "" {
		cfg.OutputRoot = genOutput
	}

	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	src, err := sourceFor(args[0], data, genFormat)
	if err != nil {
		return err
	}
	desc, err := config.LoadDescriptor(genDescriptor)
	if err != nil {
		return err
	}

	name := projectName(genName, desc, args[0])
	proj := desc.Apply(cfg.ProjectFor(name))
	proj.Name = name
	opts := project.Options{
		OutputRoot: cfg.OutputRoot,
		Project:    proj,
		Types:      desc.Types(),
		VerifyJava: cfg.VerifyJava || genVerify,
		RunScripts: cfg.RunScripts && !genNoScripts,
	}

	a := project.New(registry.Default, log)
	if store := openHistory(cfg, log); store != nil {
		defer store.Close()
		a.WithRecorder(store)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rep, genErr := a.Generate(ctx, src, opts)

	out := cmd.OutOrStdout()
	if genJSON {
		if err := printJSON(out, rep); err != nil {
			return err
		}
	} else {
		printReport(out, cmd.ErrOrStderr(), rep)
	}
	if genErr != nil {
		return genErr
	}

	if genZip {
		target, err := archive.Archive(rep.Project.Root, filepath.Join(cfg.OutputRoot, archive.Name(name)))
		if err != nil {
			return err
		}
		if !genJSON {
			fmt.Fprintln(out, "wrote", target)
		}
	}
	return nil
}

func printReport(out, errOut io.Writer, rep *project.Report) {
	for _, e := range rep.Errors {
		loc := e.Class
		if e.File != "" {
			loc = e.File
		}
		fmt.Fprintf(errOut, "ERROR [%s] %s\n", loc, e.Message)
		if e.Suggestion != "" {
			fmt.Fprintf(errOut, "  suggestion: %s\n", e.Suggestion)
		}
	}
	for _, w := range rep.Warnings {
		switch {
		case w.Line > 0:
			fmt.Fprintf(errOut, "WARN [line %d] %s\n", w.Line, w.Message)
		case w.Class != "":
			fmt.Fprintf(errOut, "WARN [%s] %s\n", w.Class, w.Message)
		default:
			fmt.Fprintf(errOut, "WARN %s\n", w.Message)
		}
	}
	if !rep.Success {
		fmt.Fprintf(errOut, "generation failed in %s: %s\n", rep.States[len(rep.States)-2], rep.Error)
		return
	}
	fmt.Fprintf(out, "generated %s: %d classes, %d files\n", rep.Project.Root, rep.Project.Model.Len(), len(rep.Project.Files))
}
