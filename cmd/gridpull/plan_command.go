package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show what a run would acquire without touching the network",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			spec := gridSpec(cfg)
			if err := spec.Validate(); err != nil {
				return err
			}

			latPoints := 0
			lonPoints := 0
			if len(spec.Years) > 0 {
				perYear := spec.Count() / len(spec.Years)
				for lat := spec.LatMin; lat <= spec.LatMax+1e-9; lat += spec.DLat {
					latPoints++
				}
				lonPoints = perYear / latPoints
			}

			rows := [][]string{
				{"latitude", fmt.Sprintf("[%v, %v] step %v", spec.LatMin, spec.LatMax, spec.DLat), strconv.Itoa(latPoints)},
				{"longitude", fmt.Sprintf("[%v, %v] step %v", spec.LonMin, spec.LonMax, spec.DLon), strconv.Itoa(lonPoints)},
				{"years", fmt.Sprintf("%v", spec.Years), strconv.Itoa(len(spec.Years))},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Axis", "Range", "Points"}, rows))
			fmt.Fprintf(out, "Planned requests: %d\n", spec.Count())
			fmt.Fprintf(out, "Output directory: %s\n", cfg.Paths.OutDir)
			return nil
		},
	}
}
