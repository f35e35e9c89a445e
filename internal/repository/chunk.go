package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/substratai/substrat/internal/domain"
	"github.com/substratai/substrat/internal/service"
)

// ChunkRepository handles persistence of chunked document embeddings and
// implements the similarity search queries consumed by the search engine.
type ChunkRepository struct {
	db dbtx
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: pool}
}

func NewChunkRepositoryWithTx(tx pgx.Tx) *ChunkRepository {
	return &ChunkRepository{db: tx}
}

// ExtensionExists reports whether the pgvector extension is installed in the
// connected database.
func (r *ChunkRepository) ExtensionExists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = 'vector')`,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ReplaceChunks deletes existing chunks for a document and inserts new ones.
func (r *ChunkRepository) ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	_, err := r.db.Exec(ctx, `DELETE FROM chunks WHERE document_id = $1`, documentID)
	if err != nil {
		return err
	}

	for _, c := range chunks {
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		var embedding interface{}
		if c.HasEmbedding() {
			embedding = pgvector.NewVector(c.Embedding)
		}
		_, err := r.db.Exec(ctx,
			`INSERT INTO chunks
				(id, document_id, knowledge_base_id, chunk_index, content, embedding, start_offset, end_offset, metadata, created_at)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			c.ID,
			c.DocumentID,
			c.KnowledgeBaseID,
			c.ChunkIndex,
			c.Content,
			embedding,
			nullableInt(c.StartOffset),
			nullableInt(c.EndOffset),
			c.Metadata,
			createdAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// UpdateEmbedding stores the embedding vector for a single chunk.
func (r *ChunkRepository) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE chunks SET embedding = $1 WHERE id = $2`,
		pgvector.NewVector(embedding), id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrChunkNotFound
	}
	return nil
}

// FetchChunksWithEmbeddings loads every embedded chunk of a knowledge base
// with its source descriptor. Embeddings come back in the store's text
// encoding; decoding is the caller's concern.
func (r *ChunkRepository) FetchChunksWithEmbeddings(ctx context.Context, knowledgeBaseID string) ([]*service.StoredChunk, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.document_id, c.knowledge_base_id, c.chunk_index, c.content,
		        c.embedding::text, c.start_offset, c.end_offset, c.metadata, c.created_at,
		        d.name, d.type, kb.name
		 FROM chunks c
		 JOIN documents d ON d.id = c.document_id
		 JOIN knowledge_bases kb ON kb.id = c.knowledge_base_id
		 WHERE c.knowledge_base_id = $1 AND c.embedding IS NOT NULL
		 ORDER BY c.document_id, c.chunk_index`,
		knowledgeBaseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*service.StoredChunk
	for rows.Next() {
		var sc service.StoredChunk
		var embedding *string
		var documentType string
		if err := rows.Scan(
			&sc.Chunk.ID, &sc.Chunk.DocumentID, &sc.Chunk.KnowledgeBaseID, &sc.Chunk.ChunkIndex, &sc.Chunk.Content,
			&embedding, &sc.Chunk.StartOffset, &sc.Chunk.EndOffset, &sc.Chunk.Metadata, &sc.Chunk.CreatedAt,
			&sc.Source.DocumentName, &documentType, &sc.Source.KnowledgeBaseName,
		); err != nil {
			return nil, err
		}
		if embedding != nil {
			sc.StoredEmbedding = *embedding
		}
		sc.Source.DocumentType = domain.DocumentType(documentType)
		sc.Source.KnowledgeBaseID = sc.Chunk.KnowledgeBaseID
		results = append(results, &sc)
	}

	return results, rows.Err()
}

// NativeRankedSearch runs the combined ranked query across all given
// knowledge bases inside the database, returning at most limit chunks at or
// above the similarity threshold. The tie-break on knowledge base id and
// chunk id matches the in-process ranking so both paths order identically.
func (r *ChunkRepository) NativeRankedSearch(ctx context.Context, knowledgeBaseIDs []string, query []float32, limit int, threshold float32) ([]*domain.RetrievedChunk, error) {
	vec := pgvector.NewVector(query)

	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.document_id, c.knowledge_base_id, c.chunk_index, c.content,
		        c.start_offset, c.end_offset, c.metadata, c.created_at,
		        d.name, d.type, kb.name,
		        1 - (c.embedding <=> $1) AS similarity
		 FROM chunks c
		 JOIN documents d ON d.id = c.document_id
		 JOIN knowledge_bases kb ON kb.id = c.knowledge_base_id
		 WHERE c.knowledge_base_id = ANY($2)
		   AND c.embedding IS NOT NULL
		   AND 1 - (c.embedding <=> $1) >= $3
		 ORDER BY similarity DESC, c.knowledge_base_id ASC, c.id ASC
		 LIMIT $4`,
		vec, knowledgeBaseIDs, threshold, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*domain.RetrievedChunk, 0, limit)
	for rows.Next() {
		var rc domain.RetrievedChunk
		var documentType string
		if err := rows.Scan(
			&rc.ID, &rc.DocumentID, &rc.KnowledgeBaseID, &rc.ChunkIndex, &rc.Content,
			&rc.StartOffset, &rc.EndOffset, &rc.Metadata, &rc.CreatedAt,
			&rc.Source.DocumentName, &documentType, &rc.Source.KnowledgeBaseName,
			&rc.Similarity,
		); err != nil {
			return nil, err
		}
		rc.Source.DocumentType = domain.DocumentType(documentType)
		rc.Source.KnowledgeBaseID = rc.KnowledgeBaseID
		results = append(results, &rc)
	}

	return results, rows.Err()
}
