package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func validChunk() *Chunk {
	return &Chunk{
		ID:              "chunk-1",
		DocumentID:      "doc-1",
		KnowledgeBaseID: "kb-1",
		Content:         "some text",
		ChunkIndex:      0,
	}
}

func TestValidateChunk(t *testing.T) {
	t.Run("valid chunk passes", func(t *testing.T) {
		require.NoError(t, ValidateChunk(validChunk()))
	})

	t.Run("nil chunk fails", func(t *testing.T) {
		assert.Error(t, ValidateChunk(nil))
	})

	tests := []struct {
		name   string
		mutate func(c *Chunk)
	}{
		{"missing ID", func(c *Chunk) { c.ID = "" }},
		{"missing DocumentID", func(c *Chunk) { c.DocumentID = "" }},
		{"missing KnowledgeBaseID", func(c *Chunk) { c.KnowledgeBaseID = "" }},
		{"missing Content", func(c *Chunk) { c.Content = "" }},
		{"negative ChunkIndex", func(c *Chunk) { c.ChunkIndex = -1 }},
		{"inverted offsets", func(c *Chunk) {
			c.StartOffset = intPtr(100)
			c.EndOffset = intPtr(50)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validChunk()
			tt.mutate(c)
			assert.Error(t, ValidateChunk(c))
		})
	}
}

func TestChunk_HasEmbedding(t *testing.T) {
	c := validChunk()
	assert.False(t, c.HasEmbedding())

	c.Embedding = []float32{0.1, 0.2}
	assert.True(t, c.HasEmbedding())
}
