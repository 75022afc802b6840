package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/project"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse <diagram-file|->",
	Short: "Parse a diagram and print the class model as JSON",
	Long: `Parse reads a diagram, resolves identities and validates it without generating
anything. Validation problems are printed and the command fails.

Examples:
  generator parse diagram.mmd
  generator parse diagram.json --format gojs`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "auto", "Input format: auto, notation or gojs")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	src, err := sourceFor(args[0], data, parseFormat)
	if err != nil {
		return err
	}
	m, err := project.Load(src)
	if err != nil {
		var verrs diagram.ValidationErrors
		if errors.As(err, &verrs) {
			for _, e := range verrs {
				fmt.Fprintf(cmd.ErrOrStderr(), "ERROR [%s] %s\n", e.Class, e.Message)
			}
		}
		return err
	}
	return printJSON(cmd.OutOrStdout(), m)
}
