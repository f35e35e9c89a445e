package domain

import (
	"fmt"
	"time"
)

// Chunk represents a bounded span of a document's text, stored with an
// optional embedding vector. A chunk may exist before its embedding has been
// generated; a nil Embedding means "not yet embedded".
type Chunk struct {
	ID              string
	DocumentID      string
	KnowledgeBaseID string
	Content         string
	Embedding       []float32
	ChunkIndex      int
	StartOffset     *int
	EndOffset       *int
	Metadata        map[string]string
	CreatedAt       time.Time
}

// HasEmbedding reports whether the chunk carries an embedding vector.
func (c *Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// ValidateChunk validates a Chunk instance. ChunkIndex uniqueness within a
// document is enforced by the store, not here.
func ValidateChunk(c *Chunk) error {
	if c == nil {
		return fmt.Errorf("chunk cannot be nil")
	}

	if c.ID == "" {
		return fmt.Errorf("chunk ID is required")
	}

	if c.DocumentID == "" {
		return fmt.Errorf("chunk DocumentID is required")
	}

	if c.KnowledgeBaseID == "" {
		return fmt.Errorf("chunk KnowledgeBaseID is required")
	}

	if c.Content == "" {
		return fmt.Errorf("chunk Content is required")
	}

	if c.ChunkIndex < 0 {
		return ErrInvalidChunkIndex
	}

	if c.StartOffset != nil && c.EndOffset != nil && *c.EndOffset < *c.StartOffset {
		return fmt.Errorf("chunk EndOffset cannot precede StartOffset")
	}

	return nil
}
