// Delete command removes a record by identifier.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <model> <id>",
	Short: "Delete a record",
	Long: `Delete removes one record from the given model. Deleting an absent
record is not an error; the command reports whether a record existed.

Example:
  shelf delete users 1`,
	Args: cobra.ExactArgs(2),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	model := args[0]
	id, err := parseID(args[1])
	if err != nil {
		return err
	}

	existed, err := eng.Delete(model, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", model, err)
	}
	if existed {
		fmt.Printf("deleted %s/%d\n", model, id)
	} else {
		fmt.Printf("%s/%d did not exist\n", model, id)
	}
	return nil
}
