package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"hotelsearch/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagSearchCheckIn  string
	flagSearchCheckOut string
	flagSearchGuests   int
	flagSearchPage     int
	flagSearchPageSize int
	flagSearchABGroup  string
	flagSearchUserID   string
	flagSearchJSON     bool
)

func init() {
	searchCmd.Flags().StringVar(&flagSearchCheckIn, "check-in", "", "check-in date (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&flagSearchCheckOut, "check-out", "", "check-out date (YYYY-MM-DD)")
	searchCmd.Flags().IntVarP(&flagSearchGuests, "guests", "g", 1, "number of guests")
	searchCmd.Flags().IntVarP(&flagSearchPage, "page", "p", 1, "result page")
	searchCmd.Flags().IntVarP(&flagSearchPageSize, "page-size", "n", 10, "results per page")
	searchCmd.Flags().StringVar(&flagSearchABGroup, "ab-group", "", "ranking weight group (A or B)")
	searchCmd.Flags().StringVar(&flagSearchUserID, "user", "", "user id for personalisation")
	searchCmd.Flags().BoolVar(&flagSearchJSON, "json", false, "print the full response as JSON")

	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a hotel search",
	Long: `Run the hybrid ranking pipeline for a free-text query and print the
ranked hotels.

	Examples:
	  hotelctl search "quiet boutique hotel in Lisbon"
	  hotelctl search "family resort" --check-in 2026-07-01 --check-out 2026-07-05 -g 4
	  hotelctl search "cheap stay in Rome" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openDeps()
		if err != nil {
			return err
		}
		defer rt.Close()

		svc, err := rt.searchService()
		if err != nil {
			return err
		}

		req := &model.SearchRequest{
			Query:    strings.Join(args, " "),
			CheckIn:  flagSearchCheckIn,
			CheckOut: flagSearchCheckOut,
			Guests:   model.LooseInt(flagSearchGuests),
			Page:     model.LooseInt(flagSearchPage),
			PageSize: model.LooseInt(flagSearchPageSize),
		}
		resp, err := svc.Search(cmd.Context(), req, model.SearchContext{
			UserID:  flagSearchUserID,
			ABGroup: flagSearchABGroup,
		})
		if err != nil {
			return err
		}

		if flagSearchJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		printSearch(cmd.OutOrStdout(), resp)
		return nil
	},
}

func printSearch(w io.Writer, resp *model.SearchResponse) {
	mode := "rule-based"
	if resp.UsedSemantic {
		mode = "semantic"
	}
	fmt.Fprintf(w, "%d results (%s, group %s, %dms)\n", resp.TotalResults, mode, resp.ABGroup, resp.Took)
	if len(resp.DegradedStages) > 0 {
		fmt.Fprintf(w, "degraded: %s\n", strings.Join(resp.DegradedStages, ", "))
	}

	offset := (resp.Page - 1) * resp.PageSize
	for i, h := range resp.Hotels {
		fmt.Fprintf(w, "%3d. %-40s %-15s %4.1f★ %8.2f  score %.3f  [%s]\n",
			offset+i+1, h.Name, h.City, h.StarRating, h.PricePerNight, h.FinalScore,
			strings.Join(h.MatchedReasons, ", "))
	}
}
