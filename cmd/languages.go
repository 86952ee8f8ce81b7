package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cmmoran/clientgen/pkg/language"
)

func init() {
	rootCmd.AddCommand(NewLanguagesCommand())
}

func NewLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "list target languages",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			for _, l := range language.All() {
				c.Println(l.String())
			}
		},
	}
}
