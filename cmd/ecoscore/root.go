package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds a fresh command tree so tests can run it in isolation.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ecoscore",
		Short: "Estimate the environmental impact of a product.",
		Long: `Classify a product's material and size from image metadata and print its
impact score, estimated emissions and recommendations.

Examples:
  # Score an image file
  ecoscore score --image ./mug.jpg

  # Score raw metadata
  ecoscore score --width 1600 --height 1200 --size-kb 420 --colors 6

  # Score a known material and size
  ecoscore score --material metal --size large

  # List the material profiles
  ecoscore materials`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newScoreCmd(), newMaterialsCmd())
	return root
}
