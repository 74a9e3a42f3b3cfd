package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dvincze/phototz/internal/pipeline"
	"github.com/dvincze/phototz/internal/tzrule"
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <lat> <lon> [datetime]",
	Short: "Resolve the timezone (and offset) for coordinates",
	Long: `Lookup resolves the IANA timezone for a coordinate pair from the
polygon dataset. With a naive local datetime ("2006:01:02 15:04:05" or
RFC 3339 without offset) it also prints the UTC offset in effect at
that wall time, DST included.

Example:
  phototz lookup 47.4979 19.0402
  phototz lookup 47.4979 19.0402 "2024:07:15 12:00:00"`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parse longitude: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := pipeline.NewService(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	zone, err := svc.ResolveTimezone(lat, lon)
	if err != nil {
		return err
	}
	if zone == "" {
		return fmt.Errorf("no timezone found for %.4f, %.4f", lat, lon)
	}
	fmt.Println(zone)

	if len(args) == 3 {
		naive, err := parseNaive(args[2])
		if err != nil {
			return err
		}
		off, ok, err := svc.OffsetFor(lat, lon, naive)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no timezone found for %.4f, %.4f", lat, lon)
		}
		fmt.Println(tzrule.FormatOffset(off))
	}
	return nil
}

func parseNaive(s string) (time.Time, error) {
	for _, layout := range []string{"2006:01:02 15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime: %q", s)
}
