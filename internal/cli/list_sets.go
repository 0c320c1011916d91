/*
PURPOSE:
  Defines the 'list-sets' subcommand.
  Helps debug image discovery before a full run.

REQUIREMENTS:
  User-specified:
  - List available test sets.

  Implementation-discovered:
  - Useful validation step: shows which images the profile/format filters keep
    and how each image is tagged (2D/3D).

ARCHITECTURE INTEGRATION:
  - Calls: internal/testset.Discover(), internal/testset.Load()

USAGE:
  astc-image-test list-sets
  astc-image-test list-sets Small --images
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/outlawever/astc-encoder/internal/engine"
	"github.com/outlawever/astc-encoder/internal/testset"
)

var listImagesFlag bool

var listSetsCmd = &cobra.Command{
	Use:   "list-sets [set...]",
	Short: "List test image sets under the image root",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if imageRootFlag != "" {
			cfg.ImageRoot = imageRootFlag
		}

		sets := args
		if len(sets) == 0 {
			sets, err = testset.Discover(cfg.ImageRoot)
			if err != nil {
				return err
			}
		}

		layout := engine.Layout{ImageRoot: cfg.ImageRoot, OutputRoot: cfg.OutputRoot}
		out := cmd.OutOrStdout()
		for _, name := range sets {
			ts, err := testset.Load(name, layout.SetDir(name), engine.Profiles, engine.Formats)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s (%d images)\n", ts.Name, len(ts.Tests))
			if !listImagesFlag {
				continue
			}
			for _, img := range ts.Tests {
				dim := "2D"
				if img.Is3D {
					dim = "3D"
				}
				fmt.Fprintf(out, "- %s [%s %s %s]\n", img.TestFile, img.Profile, img.Format, dim)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listSetsCmd)
	listSetsCmd.Flags().BoolVar(&listImagesFlag, "images", false, "also list the images of each set")
	listSetsCmd.Flags().StringVar(&imageRootFlag, "image-root", "", "test image root (overrides config)")
}
