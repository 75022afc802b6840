package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diagram-to-project/generator/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <project-dir> [target.zip]",
	Short: "Package a generated project directory as a zip archive",
	Long: `Archive writes every file and directory under project-dir into a zip archive with
paths relative to project-dir. The default target is <project-dir>.zip next to it.

Examples:
  generator archive generated-projects/tienda
  generator archive generated-projects/tienda /tmp/tienda.zip`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	dir := filepath.Clean(args[0])
	target := filepath.Join(filepath.Dir(dir), archive.Name(filepath.Base(dir)))
	if len(args) == 2 {
		target = args[1]
	}
	path, err := archive.Archive(dir, target)
	if err != nil {
		return err
	}
	entries, err := archive.Entries(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d entries)\n", path, len(entries))
	return nil
}
