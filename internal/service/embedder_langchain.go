package service

import (
	"context"
	"fmt"

	"hotelsearch/internal/config"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangChainEmbedder implements BatchEmbedder on top of langchaingo's
// OpenAI-compatible embedding client.
type LangChainEmbedder struct {
	embedder embeddings.Embedder
}

// NewLangChainEmbedder creates an embedder for the configured embedding model
func NewLangChainEmbedder(cfg *config.OpenAIConfig) (*LangChainEmbedder, error) {
	if !cfg.Enabled {
		return nil, ErrAIDisabled
	}

	client, err := openai.New(
		openai.WithBaseURL(cfg.APIBase),
		openai.WithToken(cfg.APIKey),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchain OpenAI client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(cfg.BatchSize),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchain embedder: %w", err)
	}

	return &LangChainEmbedder{embedder: embedder}, nil
}

// EmbedText embeds a single text
func (e *LangChainEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("langchain embed query: %w", err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("langchain embedder returned no vector")
	}
	return vector, nil
}

// EmbedTexts embeds several texts, preserving order
func (e *LangChainEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("langchain embed documents: %w", err)
	}
	return vectors, nil
}

// NewEmbedder returns the embedding backend selected by cfg.EmbeddingBackend.
// The HTTP backend reuses client.
func NewEmbedder(cfg *config.OpenAIConfig, client *OpenAIClient) (BatchEmbedder, error) {
	if !cfg.Enabled {
		return nil, ErrAIDisabled
	}
	if cfg.EmbeddingBackend == "langchain" {
		embedder, err := NewLangChainEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		return embedder, nil
	}
	if client == nil {
		client = NewOpenAIClient(cfg)
	}
	return client, nil
}
