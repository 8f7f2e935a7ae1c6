package main

import (
	"fmt"

	"hotelsearch/internal/service"

	"github.com/spf13/cobra"
)

var (
	flagEmbedLimit int
	flagEmbedAll   bool
)

func init() {
	embedCmd.Flags().IntVarP(&flagEmbedLimit, "limit", "l", 100, "hotels to embed per round")
	embedCmd.Flags().BoolVar(&flagEmbedAll, "all", false, "keep going until every hotel has an embedding")

	rootCmd.AddCommand(embedCmd)
}

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Backfill hotel embeddings",
	Long: `Build a description for every hotel that has no embedding yet, embed it
with the configured model and store the vector.

	Examples:
	  hotelctl embed
	  hotelctl embed --all -l 500`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openDeps()
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.embedder == nil {
			return service.ErrAIDisabled
		}
		hotels := service.NewHotelService(rt.repo, rt.embedder, rt.cfg.OpenAI.EmbeddingDimensions)

		total := 0
		for {
			stored, errs, err := hotels.BackfillEmbeddings(cmd.Context(), flagEmbedLimit)
			if err != nil {
				return err
			}
			for _, e := range errs {
				fmt.Fprintln(cmd.ErrOrStderr(), e)
			}
			total += stored

			// stop when a round makes no progress
			if !flagEmbedAll || stored == 0 {
				break
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "embedded %d hotels\n", total)
		return nil
	},
}
