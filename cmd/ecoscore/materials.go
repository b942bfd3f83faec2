package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"ecotrack-backend/internal/ecoscore"
)

func newMaterialsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "materials",
		Short: "List the material profiles used for scoring.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header([]string{"Material", "Impact", "Carbon Release", "Recycle Rating", "Sustainability"})
			table.Configure(func(cfg *tablewriter.Config) {
				cfg.Row.Alignment.Global = tw.AlignRight
			})

			var data [][]string
			for _, m := range ecoscore.Materials() {
				p := ecoscore.ProfileOf(m)
				data = append(data, []string{
					m.String(),
					fmtFloat(p.Impact),
					fmtFloat(p.CarbonRelease),
					fmtFloat(p.RecycleRating),
					fmtFloat(p.SustainabilityIndex),
				})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		},
	}
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
