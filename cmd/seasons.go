package main

import (
	"fmt"
	"time"

	"github.com/1F47E/sun-locator/pkg/astronomy"
	"github.com/1F47E/sun-locator/pkg/tui"
	"github.com/spf13/cobra"
)

func newSeasonsCmd(a *app) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "seasons",
		Short: "Show the equinox and solstice dates of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year < 1 || year > 9999 {
				return fmt.Errorf("year %d out of range", year)
			}
			fmt.Fprint(a.out, tui.RenderSeasons(year, astronomy.Seasons(year)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", time.Now().Year(), "Year")
	return cmd
}
