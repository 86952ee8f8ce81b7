package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/clientgen/pkg/action/build"
	"github.com/cmmoran/clientgen/pkg/logging"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

func NewGenerateCommand() *cobra.Command {
	// generateCmd represents the clientgen generate command
	var generateCmd = &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "generate clients",
		Long:    "Generate clients for one or more languages from an API description",
		Example: "  clientgen generate -d api.yaml -l python -o out/\n  clientgen generate -d api.yaml -l all --bundle",
		RunE: func(c *cobra.Command, _ []string) error {
			if err := viper.BindPFlag("bundle", c.Flags().Lookup("bundle")); err != nil {
				return err
			}
			cfg, langs, err := bindGenerationFlags(c)
			if err != nil {
				return err
			}
			res, err := build.Generate(c.Context(), cfg, langs, logging.Named("generate"))
			if err != nil {
				return err
			}
			if res.Bundle != "" {
				c.Println(res.Bundle)
				return nil
			}
			c.Printf("%d artifacts written to %s\n", len(res.Artifacts), cfg.OutputPath)
			return nil
		},
	}
	generationFlags(generateCmd)
	generateCmd.Flags().Bool("bundle", false, "write one txtar bundle instead of files")

	return generateCmd
}
