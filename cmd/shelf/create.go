// Create command inserts a new record into a model.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <model> [field=value...]",
	Short: "Create a record",
	Long: `Create validates the given fields against the model schema, applies
declared defaults, and inserts a new record.

Example:
  shelf create users name=Alice age=30
  shelf create posts title="Hello" author_id=1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	model := args[0]
	fields, err := parseFields(args[1:])
	if err != nil {
		return err
	}

	rec, err := eng.Create(model, fields)
	if err != nil {
		return fmt.Errorf("create %s: %w", model, err)
	}
	return printRecord(rec)
}
