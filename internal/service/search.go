package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/substratai/substrat/internal/domain"
	"github.com/substratai/substrat/internal/telemetry"
	"github.com/substratai/substrat/internal/vector"
)

const (
	// DefaultSearchLimit is the result cap applied when the caller does not
	// override it.
	DefaultSearchLimit = 5
	// DefaultSearchThreshold is the minimum similarity a chunk must score to
	// be returned.
	DefaultSearchThreshold float32 = 0.6
)

// SearchOptions carries the caller-overridable knobs of a similarity search.
type SearchOptions struct {
	Limit     int
	Threshold *float32
}

func (o SearchOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultSearchLimit
	}
	return o.Limit
}

func (o SearchOptions) threshold() float32 {
	if o.Threshold == nil {
		return DefaultSearchThreshold
	}
	return *o.Threshold
}

// SourceRef identifies one knowledge base to search plus the priority of its
// assignment, used as a ranking tie-break.
type SourceRef struct {
	KnowledgeBaseID string
	Priority        int
}

// StoredChunk is a chunk row as returned by the persistence layer, with the
// embedding still in whatever encoding the store produced. The codec decides
// whether it is usable.
type StoredChunk struct {
	Chunk           domain.Chunk
	StoredEmbedding interface{}
	Source          domain.ChunkSource
}

// ChunkStore is the persistence collaborator consumed by the search engine.
type ChunkStore interface {
	ExtensionExists(ctx context.Context) (bool, error)
	FetchChunksWithEmbeddings(ctx context.Context, knowledgeBaseID string) ([]*StoredChunk, error)
	NativeRankedSearch(ctx context.Context, knowledgeBaseIDs []string, query []float32, limit int, threshold float32) ([]*domain.RetrievedChunk, error)
}

// SearchEngine executes similarity searches against knowledge bases, using
// the store's native vector index when available and an in-process
// brute-force scan otherwise. The native path is a best-effort optimization:
// a native query failure falls through to brute force rather than surfacing.
type SearchEngine struct {
	store ChunkStore
	probe *CapabilityProbe
}

// NewSearchEngine creates a new SearchEngine instance
func NewSearchEngine(store ChunkStore) *SearchEngine {
	return &SearchEngine{
		store: store,
		probe: NewCapabilityProbe(store),
	}
}

// Search executes a similarity search against a single knowledge base.
func (e *SearchEngine) Search(ctx context.Context, knowledgeBaseID string, query []float32, opts SearchOptions) ([]*domain.RetrievedChunk, error) {
	ctx, span := telemetry.StartSpan(ctx, "SearchEngine.Search", telemetry.SpanAttributes{
		KnowledgeBaseID: knowledgeBaseID,
		Operation:       "search",
	})
	defer span.End()

	limit := opts.limit()
	threshold := opts.threshold()

	if e.probe.NativeSearchAvailable(ctx) {
		results, err := e.store.NativeRankedSearch(ctx, []string{knowledgeBaseID}, query, limit, threshold)
		if err == nil {
			return results, nil
		}
		e.recordFallback(ctx, err)
	}

	candidates, err := e.bruteForce(ctx, knowledgeBaseID, query, threshold)
	if err != nil {
		return nil, domain.NewSearchFailure(err)
	}

	sortCandidates(candidates, nil)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// SearchAcross fans a query out over every given knowledge base and merges
// the combined result set under one global limit and threshold. Ties in
// similarity are broken by assignment priority (higher first), then knowledge
// base id, then chunk id, so the ordering is reproducible regardless of
// iteration order. Each source is scored unbounded by limit internally; the
// limit applies only after the merge.
func (e *SearchEngine) SearchAcross(ctx context.Context, sources []SourceRef, query []float32, opts SearchOptions) ([]*domain.RetrievedChunk, error) {
	ctx, span := telemetry.StartSpan(ctx, "SearchEngine.SearchAcross", telemetry.SpanAttributes{
		Operation: "search_across",
	})
	defer span.End()

	if len(sources) == 0 {
		return []*domain.RetrievedChunk{}, nil
	}

	limit := opts.limit()
	threshold := opts.threshold()
	priorities := make(map[string]int, len(sources))
	ids := make([]string, len(sources))
	for i, s := range sources {
		ids[i] = s.KnowledgeBaseID
		priorities[s.KnowledgeBaseID] = s.Priority
	}

	if e.probe.NativeSearchAvailable(ctx) {
		results, err := e.store.NativeRankedSearch(ctx, ids, query, limit, threshold)
		if err == nil {
			sortCandidates(results, priorities)
			return results, nil
		}
		e.recordFallback(ctx, err)
	}

	merged := e.bruteForceAcross(ctx, ids, query, threshold)

	sortCandidates(merged, priorities)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// bruteForceAcross runs the per-source brute-force scan concurrently. A
// failed source contributes zero candidates instead of aborting the merge.
func (e *SearchEngine) bruteForceAcross(ctx context.Context, ids []string, query []float32, threshold float32) []*domain.RetrievedChunk {
	perSource := make([][]*domain.RetrievedChunk, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(slot int, knowledgeBaseID string) {
			defer wg.Done()
			candidates, err := e.bruteForce(ctx, knowledgeBaseID, query, threshold)
			if err != nil {
				log.Printf("search: knowledge base %s contributed no candidates: %v", knowledgeBaseID, err)
				return
			}
			perSource[slot] = candidates
		}(i, id)
	}
	wg.Wait()

	var merged []*domain.RetrievedChunk
	for _, candidates := range perSource {
		merged = append(merged, candidates...)
	}
	return merged
}

// bruteForce fetches every embedded chunk of a knowledge base and scores it
// in process. Chunks whose stored embedding does not decode, or whose
// dimensions disagree with the query, are excluded rather than erroring.
func (e *SearchEngine) bruteForce(ctx context.Context, knowledgeBaseID string, query []float32, threshold float32) ([]*domain.RetrievedChunk, error) {
	stored, err := e.store.FetchChunksWithEmbeddings(ctx, knowledgeBaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chunks for knowledge base %s: %w", knowledgeBaseID, err)
	}

	results := make([]*domain.RetrievedChunk, 0, len(stored))
	for _, sc := range stored {
		embedding := vector.Parse(sc.StoredEmbedding)
		if len(embedding) == 0 {
			continue
		}

		similarity, err := vector.CosineSimilarity(query, embedding)
		if err != nil {
			// Dimension mismatch is fatal only to this comparison.
			continue
		}

		if similarity < threshold {
			continue
		}

		chunk := sc.Chunk
		chunk.Embedding = embedding
		results = append(results, &domain.RetrievedChunk{
			Chunk:      chunk,
			Similarity: similarity,
			Source:     sc.Source,
		})
	}

	return results, nil
}

func (e *SearchEngine) recordFallback(ctx context.Context, err error) {
	telemetry.AddBreadcrumb(ctx, "search", fmt.Sprintf("native search failed, retrying via brute force: %v", err))
	log.Printf("search: native path failed, falling back to brute force: %v", err)
}

// sortCandidates orders candidates by similarity descending, then assignment
// priority descending, then knowledge base id, then chunk id.
func sortCandidates(candidates []*domain.RetrievedChunk, priorities map[string]int) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if priorities != nil {
			pa := priorities[a.Source.KnowledgeBaseID]
			pb := priorities[b.Source.KnowledgeBaseID]
			if pa != pb {
				return pa > pb
			}
		}
		if a.Source.KnowledgeBaseID != b.Source.KnowledgeBaseID {
			return a.Source.KnowledgeBaseID < b.Source.KnowledgeBaseID
		}
		return a.ID < b.ID
	})
}
