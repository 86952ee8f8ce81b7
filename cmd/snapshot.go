package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cmmoran/clientgen/pkg/action/snapshot"
)

const defaultManifest = "clientgen.manifest.yaml"

func init() {
	rootCmd.AddCommand(NewSnapshotCommand(), NewDiffCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var manifestPath, name, version string

	// snapshotCmd represents the clientgen snapshot command
	var snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "record a snapshot",
		Long:  "Generate clients into a txtar bundle and record it in the snapshot manifest",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, langs, err := bindGenerationFlags(c)
			if err != nil {
				return err
			}
			out, err := snapshot.Take(c.Context(), cfg, langs, manifestPath, name, version)
			if err != nil {
				return err
			}
			c.Println(out)
			return nil
		},
	}
	generationFlags(snapshotCmd)
	snapshotCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", defaultManifest, "snapshot manifest")
	snapshotCmd.Flags().StringVar(&name, "name", "", "snapshot name")
	snapshotCmd.Flags().StringVar(&version, "version", "", "snapshot version")
	_ = snapshotCmd.MarkFlagRequired("name")
	_ = snapshotCmd.MarkFlagRequired("version")

	snapshotCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "list recorded snapshots",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			m, err := snapshot.List(manifestPath)
			if err != nil {
				return err
			}
			for _, s := range m.Snapshots {
				marker := " "
				switch s.Version {
				case m.CurrentVersion:
					marker = "*"
				case m.PreviousVersion:
					marker = "-"
				}
				c.Printf("%s %s %s %d artifacts %s\n", marker, s.Name, s.Version, s.Artifacts, s.File)
			}
			return nil
		},
	})

	return snapshotCmd
}

func NewDiffCommand() *cobra.Command {
	var manifestPath string

	// diffCmd represents the clientgen diff command
	var diffCmd = &cobra.Command{
		Use:   "diff",
		Short: "diff the last two snapshots",
		Long:  "Compare the current snapshot with the previous one, artifact by artifact",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			diff, err := snapshot.DiffCurrentWithPrevious(manifestPath)
			if err != nil {
				return err
			}
			if diff == "" {
				c.Println("no changes")
				return nil
			}
			c.Print(diff)
			return nil
		},
	}
	diffCmd.Flags().StringVarP(&manifestPath, "manifest", "m", defaultManifest, "snapshot manifest")

	return diffCmd
}
