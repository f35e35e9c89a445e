package service

import (
	"context"
	"sort"

	"github.com/substratai/substrat/internal/domain"
	"github.com/substratai/substrat/internal/telemetry"
)

// Messages returned on empty contexts.
const (
	MessageNoKnowledgeBases  = "No knowledge bases assigned"
	MessageNoRelevantContext = "No relevant context found"
)

// AssignmentStore is the persistence collaborator for knowledge base
// assignments.
type AssignmentStore interface {
	FetchAssignments(ctx context.Context, agentID string) ([]*domain.Assignment, error)
	CountAssignments(ctx context.Context, agentID string) (int, error)
}

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Searcher is the multi-source search engine consumed by the facade.
type Searcher interface {
	SearchAcross(ctx context.Context, sources []SourceRef, query []float32, opts SearchOptions) ([]*domain.RetrievedChunk, error)
}

// ContextOptions controls how a retrieval context is built.
type ContextOptions struct {
	Limit     int
	Threshold *float32
	// IncludeMetadata defaults to true. When explicitly false, chunk metadata
	// is omitted from the result, not merely emptied.
	IncludeMetadata *bool
}

func (o ContextOptions) includeMetadata() bool {
	return o.IncludeMetadata == nil || *o.IncludeMetadata
}

// RetrievalService is the entry point callers use to ground prompts in an
// agent's assigned knowledge bases.
type RetrievalService struct {
	assignments AssignmentStore
	embedding   EmbeddingClient
	searcher    Searcher
}

// NewRetrievalService creates a new RetrievalService instance
func NewRetrievalService(assignments AssignmentStore, embedding EmbeddingClient, searcher Searcher) *RetrievalService {
	return &RetrievalService{
		assignments: assignments,
		embedding:   embedding,
		searcher:    searcher,
	}
}

// GetContextForAgent builds a retrieval context for a query against every
// knowledge base assigned to the agent. An agent without assignments gets an
// empty context without any embedding call. Any store or embedding failure is
// wrapped as a single CONTEXT_BUILD_FAILED error carrying the cause.
func (s *RetrievalService) GetContextForAgent(ctx context.Context, agentID, query string, opts ContextOptions) (*domain.RetrievalContext, error) {
	ctx, span := telemetry.StartSpan(ctx, "RetrievalService.GetContextForAgent", telemetry.SpanAttributes{
		AgentID:   agentID,
		Operation: "build_context",
	})
	defer span.End()

	assignments, err := s.assignments.FetchAssignments(ctx, agentID)
	if err != nil {
		return nil, domain.NewContextBuildFailure(err)
	}

	if len(assignments) == 0 {
		return &domain.RetrievalContext{
			HasContext: false,
			Chunks:     []*domain.RetrievedChunk{},
			Message:    MessageNoKnowledgeBases,
		}, nil
	}

	sources := sourcesByPriority(assignments)

	queryVector, err := s.embedding.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, domain.NewContextBuildFailure(domain.NewEmbeddingFailure(err))
	}

	chunks, err := s.searcher.SearchAcross(ctx, sources, queryVector, SearchOptions{
		Limit:     opts.Limit,
		Threshold: opts.Threshold,
	})
	if err != nil {
		return nil, domain.NewContextBuildFailure(err)
	}

	if !opts.includeMetadata() {
		for _, chunk := range chunks {
			chunk.Metadata = nil
		}
	}

	if len(chunks) == 0 {
		return &domain.RetrievalContext{
			HasContext: false,
			Chunks:     []*domain.RetrievedChunk{},
			Message:    MessageNoRelevantContext,
		}, nil
	}

	return &domain.RetrievalContext{
		HasContext:    true,
		Chunks:        chunks,
		ContextString: BuildContextString(chunks),
	}, nil
}

// HasRelevantContext is a cheap existence probe used to decide whether to
// bother grounding a response. Agents without assignments answer false
// immediately, before any embedding or search work. Every error anywhere in
// the path is swallowed and reported as false; callers must not use this to
// distinguish "no context" from "retrieval broken".
func (s *RetrievalService) HasRelevantContext(ctx context.Context, agentID, query string) bool {
	ctx, span := telemetry.StartSpan(ctx, "RetrievalService.HasRelevantContext", telemetry.SpanAttributes{
		AgentID:   agentID,
		Operation: "relevance_probe",
	})
	defer span.End()

	count, err := s.assignments.CountAssignments(ctx, agentID)
	if err != nil || count == 0 {
		return false
	}

	retrievalContext, err := s.GetContextForAgent(ctx, agentID, query, ContextOptions{})
	if err != nil {
		return false
	}

	return retrievalContext.HasContext
}

// BuildRAGSystemPrompt augments a base system prompt with the retrieval
// context. Alias of BuildAugmentedPrompt kept on the facade for callers that
// already hold a service handle.
func (s *RetrievalService) BuildRAGSystemPrompt(basePrompt string, retrievalContext *domain.RetrievalContext) string {
	return BuildAugmentedPrompt(basePrompt, retrievalContext)
}

// sourcesByPriority orders an agent's assignments by priority descending,
// breaking priority ties by knowledge base id for a stable ordering.
func sourcesByPriority(assignments []*domain.Assignment) []SourceRef {
	sources := make([]SourceRef, 0, len(assignments))
	for _, a := range assignments {
		sources = append(sources, SourceRef{
			KnowledgeBaseID: a.KnowledgeBaseID,
			Priority:        a.Priority,
		})
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Priority != sources[j].Priority {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].KnowledgeBaseID < sources[j].KnowledgeBaseID
	})

	return sources
}
