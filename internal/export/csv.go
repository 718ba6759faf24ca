package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/fxi/geodrink/internal/types"
)

// csvHeader is the flat tabular layout, one row per water point.
var csvHeader = []string{"distance_m", "type", "name", "lat", "lon", "access", "potable", "fee"}

// WaterPointsToCSV writes points as CSV for offline use. A pure transform:
// the input order is preserved.
func WaterPointsToCSV(w io.Writer, points []types.WaterPoint) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, wp := range points {
		row := []string{
			fmt.Sprintf("%.0f", wp.DistanceFromStart),
			string(wp.Type),
			wp.Name(),
			fmt.Sprintf("%.6f", wp.Location.Lat()),
			fmt.Sprintf("%.6f", wp.Location.Lon()),
			wp.Tags["access"],
			wp.Tags["drinking_water"],
			wp.Tags["fee"],
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", wp.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
