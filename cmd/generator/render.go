package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/project"
)

var renderFormat string

var renderCmd = &cobra.Command{
	Use:   "render <diagram-file|->",
	Short: "Print a diagram in class notation",
	Long: `Render converts a diagram, typically a GoJS document, into the textual class notation
accepted by generate.

Examples:
  generator render diagram.json > diagram.mmd`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderFormat, "format", "auto", "Input format: auto, notation or gojs")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	src, err := sourceFor(args[0], data, renderFormat)
	if err != nil {
		return err
	}
	m, err := project.Load(src)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), diagram.Render(m))
	return err
}
