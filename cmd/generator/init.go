package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diagram-to-project/generator/internal/config"
	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/project"
	"github.com/diagram-to-project/generator/internal/result"
)

var (
	initDir   string
	initForce bool
)

// starterDiagram is the file init writes next to the descriptor.
const starterDiagram = "diagram.mmd"

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Create a project descriptor and a starter diagram",
	Long: `Init writes project.hcl with the configured defaults and diagram.mmd with the
starter diagram. Existing files are kept unless --force is given.

Examples:
  generator init tienda
  generator init tienda --dir ./tienda-design`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to write the files into")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing files")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	name := args[0]
	if !project.ValidName(name) {
		return result.Errorf(result.ValidationError, "invalid project name %q", name)
	}
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	starter, err := diagram.FromGoJS(diagram.InitialGoJS())
	if err != nil {
		return err
	}
	desc := &config.Descriptor{
		Name:              name,
		GroupID:           cfg.Project.GroupID,
		JavaVersion:       cfg.Project.JavaVersion,
		SpringBootVersion: cfg.Project.SpringBootVersion,
		BaseURL:           cfg.Client.BaseURL,
	}
	files := []struct {
		name string
		data []byte
	}{
		{config.DescriptorFile, config.WriteDescriptor(desc)},
		{starterDiagram, []byte(diagram.Render(starter))},
	}

	if err := os.MkdirAll(initDir, 0755); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, f := range files {
		path := filepath.Join(initDir, f.name)
		if _, err := os.Stat(path); err == nil && !initForce {
			fmt.Fprintf(out, "%s already exists, skipping (use --force to overwrite)\n", path)
			continue
		}
		if err := os.WriteFile(path, f.data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintln(out, "wrote", path)
	}
	return nil
}
