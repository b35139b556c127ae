package main

import (
	"fmt"
	"os"
	"time"

	"github.com/1F47E/sun-locator/pkg/gazetteer"
	"github.com/1F47E/sun-locator/pkg/models"
	"github.com/spf13/cobra"
)

func newPlacesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Query or build the reference place index",
	}
	cmd.AddCommand(newPlacesNearestCmd(a), newPlacesBuildCmd(a))
	return cmd
}

func newPlacesNearestCmd(a *app) *cobra.Command {
	var (
		lat, lon float64
		n        int
	)
	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "List the places nearest to a coordinate",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := models.GeoLocation{Lat: lat, Lon: lon}
			if !loc.Valid() {
				return fmt.Errorf("invalid coordinate %v, %v", lat, lon)
			}
			index, err := a.gazetteer()
			if err != nil {
				return err
			}
			for _, m := range index.Nearest(loc, n) {
				fmt.Fprintf(a.out, "%-20s %-3s %9.4f %10.4f %8.1f km\n",
					m.Place.Name, m.Place.Country, m.Place.Location.Lat, m.Place.Location.Lon, m.DistanceKm)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude in degrees")
	cmd.Flags().IntVarP(&n, "neighbors", "n", 5, "Number of places")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func newPlacesBuildCmd(a *app) *cobra.Command {
	var csvPath, outPath string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a place index file from CSV (name,country,lat,lon)",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(csvPath)
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer file.Close()

			start := time.Now()
			places, err := gazetteer.ReadCSV(file)
			if err != nil {
				return fmt.Errorf("%s: %w", csvPath, err)
			}
			index := gazetteer.NewIndex()
			indexed := index.Add(places)
			if err := index.SaveToFile(outPath); err != nil {
				return err
			}
			a.logger.Info("place index built", "places", indexed, "file", outPath, "duration", time.Since(start))
			fmt.Fprintf(a.out, "Indexed %d places, saved to %s\n", indexed, outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file with name,country,lat,lon columns")
	cmd.Flags().StringVarP(&outPath, "out", "o", "places.idx", "Index file to write")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}
