package domain

import (
	"fmt"
	"time"
)

// KnowledgeBase represents a named collection of chunked documents belonging
// to one tenant, searchable as a unit.
type KnowledgeBase struct {
	ID             string
	TenantID       string
	Name           string
	Description    string
	ChunkSize      int
	ChunkOverlap   int
	EmbeddingModel string
	DocumentCount  int
	ChunkCount     int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewKnowledgeBase creates a new KnowledgeBase instance with default chunking
// configuration.
func NewKnowledgeBase(id, tenantID, name, description string, createdAt time.Time) *KnowledgeBase {
	return &KnowledgeBase{
		ID:             id,
		TenantID:       tenantID,
		Name:           name,
		Description:    description,
		ChunkSize:      1000,
		ChunkOverlap:   200,
		EmbeddingModel: "text-embedding-ada-002",
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

// ValidateKnowledgeBase validates a KnowledgeBase instance
func ValidateKnowledgeBase(kb *KnowledgeBase) error {
	if kb == nil {
		return fmt.Errorf("knowledge base cannot be nil")
	}

	if kb.ID == "" {
		return fmt.Errorf("knowledge base ID is required")
	}

	if kb.TenantID == "" {
		return fmt.Errorf("knowledge base TenantID is required")
	}

	if kb.Name == "" {
		return fmt.Errorf("knowledge base Name is required")
	}

	if kb.ChunkSize <= 0 {
		return fmt.Errorf("knowledge base ChunkSize must be greater than 0")
	}

	if kb.ChunkOverlap < 0 || kb.ChunkOverlap >= kb.ChunkSize {
		return fmt.Errorf("knowledge base ChunkOverlap must be in [0, ChunkSize)")
	}

	return nil
}
