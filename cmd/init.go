package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cmmoran/clientgen/pkg/action/initialize"
)

func init() {
	rootCmd.AddCommand(NewInitCommand())
}

func NewInitCommand() *cobra.Command {
	var force bool

	// initCmd represents the clientgen init command
	var initCmd = &cobra.Command{
		Use:   "init [directory]",
		Short: "scaffold a starter project",
		Long:  "Write a starter clientgen.yaml and API description to the directory (default: current directory)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			paths, err := initialize.Scaffold(dir, force)
			if err != nil {
				return err
			}
			for _, p := range paths {
				c.Println(p)
			}
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")

	return initCmd
}
