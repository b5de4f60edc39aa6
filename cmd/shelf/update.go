// Update command merges fields into an existing record.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <model> <id> field=value...",
	Short: "Update a record",
	Long: `Update type-checks the given fields and merges them into the stored
record. Only the supplied fields change.

Example:
  shelf update users 1 age=31`,
	Args: cobra.MinimumNArgs(3),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	model := args[0]
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	fields, err := parseFields(args[2:])
	if err != nil {
		return err
	}

	rec, err := eng.Update(model, id, fields)
	if err != nil {
		return fmt.Errorf("update %s: %w", model, err)
	}
	return printRecord(rec)
}
