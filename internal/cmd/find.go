package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fxi/geodrink/internal/export"
	"github.com/fxi/geodrink/internal/filter"
	"github.com/fxi/geodrink/internal/query"
	"github.com/fxi/geodrink/internal/track"
	"github.com/fxi/geodrink/internal/types"
)

var findCmd = &cobra.Command{
	Use:   "find <track.gpx>",
	Short: "Find water sources along a GPX track",
	Long:  `Find parses a GPX track and lists water sources within the buffer distance, filtered by the chosen preset.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)

	findCmd.Flags().Float64P("buffer", "b", 100, "Maximum distance from the route in meters")
	findCmd.Flags().StringP("filter", "f", filter.DefaultPresetID, "Filter preset id (see 'geodrink presets')")
	findCmd.Flags().String("format", "table", "Output format: table, csv or geojson")
	findCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"find.buffer", "buffer"},
		{"find.filter", "filter"},
		{"find.format", "format"},
		{"find.output", "output"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, findCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runFind(cmd *cobra.Command, args []string) error {
	buffer := viper.GetFloat64("find.buffer")
	filterID := viper.GetString("find.filter")
	format := viper.GetString("find.format")
	output := viper.GetString("find.output")

	if logger == nil {
		initLogging()
	}

	if buffer <= 0 {
		return fmt.Errorf("--buffer must be positive")
	}
	if _, ok := filter.PresetByID(filterID); !ok {
		return fmt.Errorf("unknown filter preset %q", filterID)
	}
	if format != "table" && format != "csv" && format != "geojson" {
		return fmt.Errorf("invalid format %q: must be 'table', 'csv' or 'geojson'", format)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open track: %w", err)
	}
	defer f.Close()

	route, err := track.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse track: %w", err)
	}

	logger.Info("route loaded",
		"name", route.Name,
		"points", len(route.Coordinates),
		"length_km", fmt.Sprintf("%.1f", route.Length/1000),
		"bounds", route.Bounds.String(),
	)

	svc, cleanup, err := buildService()
	if err != nil {
		return err
	}
	defer cleanup()

	points, status, err := svc.FindWaterPoints(cmd.Context(), route, buffer, filterID)
	if status == query.StatusFailed {
		logger.Warn("search failed, no results available", "error", err)
	}
	logger.Info("search finished", "status", string(status), "points", len(points))

	out := io.Writer(os.Stdout)
	if output != "" {
		of, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer of.Close()
		out = of
	}

	switch format {
	case "csv":
		return export.WaterPointsToCSV(out, points)
	case "geojson":
		data, err := export.WaterPointsToGeoJSONBytes(points)
		if err != nil {
			return err
		}
		_, err = out.Write(append(data, '\n'))
		return err
	default:
		return printTable(out, points)
	}
}

func printTable(w io.Writer, points []types.WaterPoint) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DISTANCE\tTYPE\tNAME\tOFF-ROUTE\tLAT\tLON")
	for _, wp := range points {
		name := wp.Name()
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%.1f km\t%s\t%s\t%.0f m\t%.5f\t%.5f\n",
			wp.DistanceFromStart/1000, wp.Type, name, wp.DistanceFromRoute,
			wp.Location.Lat(), wp.Location.Lon())
	}
	return tw.Flush()
}
