package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/repo"
	"github.com/pkordes/triptracker/backend/internal/service"
)

var tripFlags domain.RawTripFilter

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "List trips with the same filters as the API",
	Long: `Runs a trip listing against the database. Flags take the same raw values as
the API's query parameters and are normalized the same way.

Examples:
  tripctl trips --keyword rome
  tripctl trips --owner 6f1c... --per-page 0 --json
  tripctl trips --start 2024-01-01 --end 2024-03-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		svc := service.NewTripService(repo.NewTripRepo(pool), nil)
		page, err := svc.List(cmd.Context(), domain.NewTripFilter(tripFlags))
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd, page)
		}
		return printTripPage(cmd, page)
	},
}

func init() {
	f := tripsCmd.Flags()
	f.StringVar(&tripFlags.Page, "page", "", "Page number (default 1)")
	f.StringVar(&tripFlags.PerPage, "per-page", "", "Page size; 0 lists every match (default 10)")
	f.StringVar(&tripFlags.Keyword, "keyword", "", "Substring of destination or comment")
	f.StringVar(&tripFlags.StartDate, "start", "", "Earliest start date, YYYY-MM-DD")
	f.StringVar(&tripFlags.EndDate, "end", "", "Latest start date, YYYY-MM-DD")
	f.StringVar(&tripFlags.OwnerID, "owner", "", "Owner user id")
	rootCmd.AddCommand(tripsCmd)
}

func printTripPage(cmd *cobra.Command, page domain.TripPage) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tEND\tDESTINATION\tOWNER\tID")
	for _, t := range page.Trips {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			t.StartDate.Format(time.DateOnly), t.EndDate.Format(time.DateOnly), t.Destination, t.Owner.Email, t.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d, %d matching\n", page.Page, page.TotalPages, page.Total)
	return nil
}
