package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fxi/geodrink/internal/filter"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the available filter presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
		for _, p := range filter.Presets() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, p.Description)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
