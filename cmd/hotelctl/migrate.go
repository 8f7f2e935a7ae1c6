package main

import (
	"fmt"

	"hotelsearch/internal/config"
	"hotelsearch/internal/repository"

	"github.com/spf13/cobra"
)

var flagMigratePrint bool

func init() {
	migrateCmd.Flags().BoolVar(&flagMigratePrint, "print", false, "print the DDL instead of applying it")

	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the hotel search tables",
	Long: `Create the hotels, rooms, bookings and user_events tables and their
indexes if they do not exist. The embedding column is sized to
OPENAI_EMBEDDING_DIMENSIONS.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagMigratePrint {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), repository.Schema(cfg.OpenAI.EmbeddingDimensions))
			return nil
		}

		rt, err := openDeps()
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.repo.EnsureSchema(cmd.Context(), rt.cfg.OpenAI.EmbeddingDimensions); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}
