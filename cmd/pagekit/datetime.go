package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/internal/errors"
	"github.com/vango-dev/pagekit/pkg/datetime"
)

func datetimeCmd() *cobra.Command {
	var tz string

	cmd := &cobra.Command{
		Use:   "datetime <timestamp>...",
		Short: "Render ISO-8601 UTC timestamps in a local zone",
		Long: `Render each timestamp as "YYYY-MM-DD HH:MM:SS ±HH:MM".

The zone is --tz when given, then "timezone" from pagekit.json, then the
system zone.

Examples:
  pagekit datetime 2023-12-24T00:00:00.000Z
  pagekit datetime --tz Asia/Kolkata 2023-12-24T00:00:00Z
  pagekit datetime --tz -08:00 2023-12-24T00:00:00Z`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := resolveZone(cmd, tz)
			if err != nil {
				return err
			}
			f := datetime.Formatter{Location: loc}
			for _, s := range args {
				out, err := f.Format(s)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tz, "tz", "", "Time zone: IANA name, ±HH:MM offset, UTC or Local")

	return cmd
}

func resolveZone(cmd *cobra.Command, tz string) (*time.Location, error) {
	if !cmd.Flags().Changed("tz") {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		tz = cfg.Timezone
	}
	loc, err := datetime.LoadLocation(tz)
	if err != nil {
		return nil, errors.New("datetime.zone").WithInput(tz, 0).Wrap(err)
	}
	return loc, nil
}
