package service

import (
	"context"
	"log"
	"sync"
	"time"

	"hotelsearch/internal/model"
	"hotelsearch/internal/utils"

	"golang.org/x/sync/singleflight"
)

// intentAnchor is a fixed phrase whose embedding represents one travel intent
type intentAnchor struct {
	intent string
	text   string
}

var intentAnchors = []intentAnchor{
	{intent: model.IntentBudget, text: "cheap affordable low cost budget hotel"},
	{intent: model.IntentLuxury, text: "luxury premium five star high end hotel"},
	{intent: model.IntentComfort, text: "comfortable cozy relaxing hotel"},
	{intent: model.IntentFamily, text: "family friendly kids children hotel"},
	{intent: model.IntentBusiness, text: "business travel conference work hotel"},
	{intent: model.IntentRomantic, text: "romantic honeymoon couple getaway hotel"},
}

// anchorLoadTimeout bounds the one-time anchor embedding run, which ignores
// cancellation of the request that triggered it.
const anchorLoadTimeout = 30 * time.Second

// AnchorCache holds the anchor embeddings for the lifetime of the process.
// It is filled exactly once; anchors that fail to embed stay absent.
type AnchorCache struct {
	mu      sync.RWMutex
	vectors map[string][]float32
	loaded  bool
	group   singleflight.Group
}

// NewAnchorCache creates an empty anchor cache
func NewAnchorCache() *AnchorCache {
	return &AnchorCache{}
}

// Loaded reports whether the cache has been populated
func (c *AnchorCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *AnchorCache) snapshot() (map[string][]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vectors, c.loaded
}

// get returns the anchor vectors, embedding them on first use. Concurrent
// first callers share a single load. A caller whose ctx ends first gets
// ok=false while the load carries on for the others.
func (c *AnchorCache) get(ctx context.Context, embedder Embedder) (map[string][]float32, bool) {
	if vectors, loaded := c.snapshot(); loaded {
		return vectors, true
	}

	ch := c.group.DoChan("anchors", func() (any, error) {
		if vectors, loaded := c.snapshot(); loaded {
			return vectors, nil
		}

		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), anchorLoadTimeout)
		defer cancel()

		vectors := make(map[string][]float32, len(intentAnchors))
		for _, anchor := range intentAnchors {
			vector, err := embedder.EmbedText(loadCtx, anchor.text)
			if err != nil || len(vector) == 0 {
				log.Printf("[WARN] ⚠️  Failed to embed intent anchor %q: %v", anchor.intent, err)
				continue
			}
			vectors[anchor.intent] = vector
		}

		c.mu.Lock()
		c.vectors = vectors
		c.loaded = true
		c.mu.Unlock()

		log.Printf("✅ Intent anchors cached (%d/%d)", len(vectors), len(intentAnchors))
		return vectors, nil
	})

	select {
	case res := <-ch:
		return res.Val.(map[string][]float32), true
	case <-ctx.Done():
		return nil, false
	}
}

// IntentEstimator scores a query embedding against the fixed intent anchors
type IntentEstimator struct {
	embedder Embedder
	cache    *AnchorCache
}

// NewIntentEstimator creates an estimator. A nil cache gets a private one.
func NewIntentEstimator(embedder Embedder, cache *AnchorCache) *IntentEstimator {
	if cache == nil {
		cache = NewAnchorCache()
	}
	return &IntentEstimator{
		embedder: embedder,
		cache:    cache,
	}
}

// Infer returns the cosine similarity between queryEmbedding and every
// cached anchor. It never fails: an empty embedding, a missing embedder or
// an expired context yield an empty (non-nil) map.
func (e *IntentEstimator) Infer(ctx context.Context, queryEmbedding []float32) model.IntentSignals {
	signals := model.IntentSignals{}
	if len(queryEmbedding) == 0 || e == nil || e.embedder == nil {
		return signals
	}

	anchors, ok := e.cache.get(ctx, e.embedder)
	if !ok {
		return signals
	}

	for intent, vector := range anchors {
		signals[intent] = utils.CosineSimilarity(queryEmbedding, vector)
	}
	return signals
}
