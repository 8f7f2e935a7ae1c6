package main

import (
	"fmt"
	"io"
	"log"

	"hotelsearch/internal/config"
	"hotelsearch/internal/repository"
	"hotelsearch/internal/service"

	"github.com/spf13/cobra"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "hotelctl",
	Short: "Operate the hotel search catalogue",
	Long: `hotelctl runs hotel searches from the terminal and maintains the
catalogue the search API reads: schema setup and embedding backfills.

Configuration is read from the same environment variables (or .env file)
as the API server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !flagVerbose {
			log.SetOutput(io.Discard)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "show service logs")
}

// deps holds the collaborators a command needs
type deps struct {
	cfg          *config.Config
	repo         *repository.PostgresRepository
	availability *service.AvailabilityFilter
	embedder     service.BatchEmbedder
	openai       *service.OpenAIClient
}

func openDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		return nil, err
	}

	availability, err := service.NewAvailabilityFilter(repo, cfg.Search.AvailabilityWorkers)
	if err != nil {
		repo.Close()
		return nil, err
	}

	rt := &deps{cfg: cfg, repo: repo, availability: availability}
	if cfg.OpenAI.Enabled {
		rt.openai = service.NewOpenAIClient(&cfg.OpenAI)
		rt.embedder, err = service.NewEmbedder(&cfg.OpenAI, rt.openai)
		if err != nil {
			rt.Close()
			return nil, err
		}
	}
	return rt, nil
}

func (rt *deps) Close() {
	rt.availability.Release()
	rt.repo.Close()
}

func (rt *deps) searchService() (*service.SearchService, error) {
	opts := []service.Option{
		service.WithStageTimeout(rt.cfg.Search.StageTimeout),
		service.WithCandidateLimit(rt.cfg.Search.CandidateLimit),
		service.WithDefaultABGroup(rt.cfg.Search.DefaultABGroup),
	}
	if rt.embedder != nil {
		opts = append(opts,
			service.WithUnderstander(service.NewQueryParser(rt.openai)),
			service.WithVectorSearcher(service.NewSemanticSearcher(rt.embedder, rt.repo, rt.repo, rt.cfg.Search.PreferenceDays)),
			service.WithIntentEstimator(service.NewIntentEstimator(rt.embedder, nil)),
		)
	}
	return service.NewSearchService(rt.repo, rt.availability, opts...)
}
