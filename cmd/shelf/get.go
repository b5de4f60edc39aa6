// Get command retrieves a record by identifier.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <model> <id>",
	Short: "Get a record by identifier",
	Long: `Get retrieves one record from the given model by its identifier.

Example:
  shelf get users 1`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	model := args[0]
	id, err := parseID(args[1])
	if err != nil {
		return err
	}

	rec, ok, err := eng.Get(model, id)
	if err != nil {
		return fmt.Errorf("get %s: %w", model, err)
	}
	if !ok {
		return fmt.Errorf("record %d not found in model %q", id, model)
	}
	return printRecord(rec)
}
