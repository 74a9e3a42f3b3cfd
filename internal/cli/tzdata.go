package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dvincze/phototz/internal/geo"
	"github.com/dvincze/phototz/internal/tzdata"
)

// tzdataCmd represents the tzdata command group
var tzdataCmd = &cobra.Command{
	Use:   "tzdata",
	Short: "Manage the timezone polygon dataset",
	Long: `Manage the local copy of the timezone-boundary-builder dataset.

The dataset is downloaded once and cached under the data directory;
the spatial index built from it is persisted next to it and rebuilt
only when the source files change.`,
}

var tzdataSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download or update the polygon dataset",
	Long: `Sync finds the newest input-data.zip on the timezone-boundary-builder
releases page and downloads it unless the local copy is already
current. The spatial index is rebuilt afterwards if needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ds := tzdata.Open(cfg.DataDir)
		dl := tzdata.NewDownloader(cfg.HTTP, cfg.Output.Verbose)

		updated, err := dl.Sync(context.Background(), ds)
		if err != nil {
			return fmt.Errorf("sync dataset: %w", err)
		}
		if updated {
			fmt.Println("dataset updated")
		} else {
			fmt.Println("dataset already current")
		}

		sources, err := ds.SourcePaths()
		if err != nil {
			return err
		}
		idx, err := geo.LoadOrBuild(ds.ArtifactPath(), sources, ds.LoadPolygons)
		if err != nil {
			return fmt.Errorf("build index: %w", err)
		}
		fmt.Printf("index ready: %d zone polygons\n", idx.Len())
		return nil
	},
}

var tzdataBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the spatial index from the local dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ds := tzdata.Open(cfg.DataDir)
		polys, err := ds.LoadPolygons()
		if err != nil {
			return fmt.Errorf("load polygons: %w", err)
		}
		if err := geo.WriteArtifact(ds.ArtifactPath(), polys); err != nil {
			return fmt.Errorf("write index: %w", err)
		}
		fmt.Printf("index rebuilt: %d zone polygons\n", len(polys))
		return nil
	},
}

var tzdataStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show dataset completeness and index freshness",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ds := tzdata.Open(cfg.DataDir)
		fmt.Printf("data dir: %s\n", ds.Dir)

		complete, missing, err := ds.Complete()
		if err != nil {
			return fmt.Errorf("inspect dataset: %w", err)
		}
		if !complete {
			fmt.Printf("dataset incomplete: %d zone(s) missing\n", len(missing))
			if verbose {
				for _, zone := range missing {
					fmt.Fprintf(os.Stderr, "  missing: %s\n", zone)
				}
			}
			fmt.Println("run 'phototz tzdata sync' to download")
			return nil
		}
		fmt.Println("dataset complete")

		sources, err := ds.SourcePaths()
		if err != nil {
			return err
		}
		if geo.Stale(ds.ArtifactPath(), sources) {
			fmt.Println("index stale: will rebuild on next use")
		} else {
			fmt.Println("index current")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tzdataCmd)
	tzdataCmd.AddCommand(tzdataSyncCmd)
	tzdataCmd.AddCommand(tzdataBuildCmd)
	tzdataCmd.AddCommand(tzdataStatusCmd)
}
