package domain

// ChunkSource is a denormalized descriptor of where a retrieved chunk came
// from, used only for presentation.
type ChunkSource struct {
	DocumentName      string
	DocumentType      DocumentType
	KnowledgeBaseID   string
	KnowledgeBaseName string
}

// RetrievedChunk is a chunk paired with its similarity score and source
// descriptor. Derived at query time, never persisted.
type RetrievedChunk struct {
	Chunk
	Similarity float32
	Source     ChunkSource
}

// RetrievalContext is the result of building grounding context for a query.
type RetrievalContext struct {
	HasContext    bool
	Chunks        []*RetrievedChunk
	ContextString string
	// Message explains an empty context in human-readable form.
	Message string
}
