// List command queries records with optional filter conditions.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listWhere []string
var listLimit int

var listCmd = &cobra.Command{
	Use:   "list <model>",
	Short: "List records with optional filter",
	Long: `List queries records from the given model. Conditions are given as
--where field=op:value flags (op one of eq, ne, gt, lt, in; eq when
omitted) and are ANDed together. The in operator takes a comma-separated
set.

Example:
  shelf list users
  shelf list users --where age=gt:20
  shelf list users --where name=Alice
  shelf list users --where age=in:20,30,40 --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringArrayVar(&listWhere, "where", nil, "filter condition field=op:value")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of records to print (0 = all)")
}

func runList(cmd *cobra.Command, args []string) error {
	model := args[0]
	filter, err := parseFilter(listWhere)
	if err != nil {
		return err
	}

	seq, err := eng.Query(model, filter)
	if err != nil {
		return fmt.Errorf("query %s: %w", model, err)
	}

	count := 0
	for rec := range seq {
		if listLimit > 0 && count >= listLimit {
			break
		}
		if err := printRecord(rec); err != nil {
			return err
		}
		count++
	}
	if count == 0 {
		fmt.Println("no records")
	}
	return nil
}
