// Models command lists the registered model schemas.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List registered models",
	Long:  `Models prints the names of all models discovered from the models directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := eng.Models()
		if len(names) == 0 {
			fmt.Println("no models registered")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}
