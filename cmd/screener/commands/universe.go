package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/screener/internal/universe"
)

// universeCmd prints the fixed screening universe.
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Print the screening universe",
	RunE: func(cmd *cobra.Command, args []string) error {
		symbols := universe.Symbols()
		for _, s := range symbols {
			fmt.Println(s)
		}
		fmt.Printf("\n%d symbols\n", len(symbols))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(universeCmd)
}
