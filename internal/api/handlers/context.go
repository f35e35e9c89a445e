package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/substratai/substrat/internal/api"
	"github.com/substratai/substrat/internal/domain"
	"github.com/substratai/substrat/internal/service"
)

type RetrievalFacade interface {
	GetContextForAgent(ctx context.Context, agentID, query string, opts service.ContextOptions) (*domain.RetrievalContext, error)
	HasRelevantContext(ctx context.Context, agentID, query string) bool
}

type ContextHandler struct {
	svc RetrievalFacade
}

func NewContextHandler(svc RetrievalFacade) *ContextHandler {
	return &ContextHandler{svc: svc}
}

type ContextRequest struct {
	Query           string   `json:"query"`
	Limit           int      `json:"limit,omitempty"`
	Threshold       *float32 `json:"threshold,omitempty"`
	IncludeMetadata *bool    `json:"include_metadata,omitempty"`
}

type RetrievedChunkResponse struct {
	ID                string            `json:"id"`
	Content           string            `json:"content"`
	ChunkIndex        int               `json:"chunk_index"`
	Similarity        float32           `json:"similarity"`
	DocumentName      string            `json:"document_name"`
	DocumentType      string            `json:"document_type,omitempty"`
	KnowledgeBaseID   string            `json:"knowledge_base_id"`
	KnowledgeBaseName string            `json:"knowledge_base_name,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

type ContextResponse struct {
	HasContext    bool                      `json:"has_context"`
	Chunks        []*RetrievedChunkResponse `json:"chunks"`
	ContextString string                    `json:"context_string,omitempty"`
	Message       string                    `json:"message,omitempty"`
}

type RelevanceResponse struct {
	Relevant bool `json:"relevant"`
}

// BuildContext builds a retrieval context for an agent query.
func (h *ContextHandler) BuildContext(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentID")
	if agentID == "" {
		api.Error(w, http.StatusBadRequest, "agent id is required")
		return
	}

	var req ContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := h.svc.GetContextForAgent(r.Context(), agentID, req.Query, service.ContextOptions{
		Limit:           req.Limit,
		Threshold:       req.Threshold,
		IncludeMetadata: req.IncludeMetadata,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	chunks := make([]*RetrievedChunkResponse, len(result.Chunks))
	for i, chunk := range result.Chunks {
		chunks[i] = &RetrievedChunkResponse{
			ID:                chunk.ID,
			Content:           chunk.Content,
			ChunkIndex:        chunk.ChunkIndex,
			Similarity:        chunk.Similarity,
			DocumentName:      chunk.Source.DocumentName,
			DocumentType:      string(chunk.Source.DocumentType),
			KnowledgeBaseID:   chunk.Source.KnowledgeBaseID,
			KnowledgeBaseName: chunk.Source.KnowledgeBaseName,
			Metadata:          chunk.Metadata,
		}
	}

	api.Success(w, http.StatusOK, ContextResponse{
		HasContext:    result.HasContext,
		Chunks:        chunks,
		ContextString: result.ContextString,
		Message:       result.Message,
	})
}

// CheckRelevance reports whether any grounding context exists for a query.
func (h *ContextHandler) CheckRelevance(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentID")
	if agentID == "" {
		api.Error(w, http.StatusBadRequest, "agent id is required")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		api.Error(w, http.StatusBadRequest, "q is required")
		return
	}

	relevant := h.svc.HasRelevantContext(r.Context(), agentID, query)
	api.Success(w, http.StatusOK, RelevanceResponse{Relevant: relevant})
}
