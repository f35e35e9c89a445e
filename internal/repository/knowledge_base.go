package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/substratai/substrat/internal/domain"
)

type KnowledgeBaseRepository struct {
	db dbtx
}

func NewKnowledgeBaseRepository(pool *pgxpool.Pool) *KnowledgeBaseRepository {
	return &KnowledgeBaseRepository{db: pool}
}

func NewKnowledgeBaseRepositoryWithTx(tx pgx.Tx) *KnowledgeBaseRepository {
	return &KnowledgeBaseRepository{db: tx}
}

func (r *KnowledgeBaseRepository) Create(ctx context.Context, kb *domain.KnowledgeBase) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO knowledge_bases (id, tenant_id, name, description, chunk_size, chunk_overlap, embedding_model, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		kb.ID, kb.TenantID, kb.Name, kb.Description, kb.ChunkSize, kb.ChunkOverlap, kb.EmbeddingModel, kb.CreatedAt, kb.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrKnowledgeBaseAlreadyExists
		}
		return err
	}
	return nil
}

func (r *KnowledgeBaseRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeBase, error) {
	var kb domain.KnowledgeBase
	err := r.db.QueryRow(ctx,
		`SELECT kb.id, kb.tenant_id, kb.name, kb.description, kb.chunk_size, kb.chunk_overlap, kb.embedding_model,
		        (SELECT COUNT(*) FROM documents d WHERE d.knowledge_base_id = kb.id),
		        (SELECT COUNT(*) FROM chunks c WHERE c.knowledge_base_id = kb.id),
		        kb.created_at, kb.updated_at
		 FROM knowledge_bases kb WHERE kb.id = $1`,
		id,
	).Scan(&kb.ID, &kb.TenantID, &kb.Name, &kb.Description, &kb.ChunkSize, &kb.ChunkOverlap, &kb.EmbeddingModel,
		&kb.DocumentCount, &kb.ChunkCount, &kb.CreatedAt, &kb.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKnowledgeBaseNotFound
		}
		return nil, err
	}
	return &kb, nil
}

func (r *KnowledgeBaseRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.KnowledgeBase, error) {
	rows, err := r.db.Query(ctx,
		`SELECT kb.id, kb.tenant_id, kb.name, kb.description, kb.chunk_size, kb.chunk_overlap, kb.embedding_model,
		        (SELECT COUNT(*) FROM documents d WHERE d.knowledge_base_id = kb.id),
		        (SELECT COUNT(*) FROM chunks c WHERE c.knowledge_base_id = kb.id),
		        kb.created_at, kb.updated_at
		 FROM knowledge_bases kb WHERE kb.tenant_id = $1 ORDER BY kb.updated_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.KnowledgeBase
	for rows.Next() {
		var kb domain.KnowledgeBase
		if err := rows.Scan(&kb.ID, &kb.TenantID, &kb.Name, &kb.Description, &kb.ChunkSize, &kb.ChunkOverlap, &kb.EmbeddingModel,
			&kb.DocumentCount, &kb.ChunkCount, &kb.CreatedAt, &kb.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, &kb)
	}
	return results, rows.Err()
}

func (r *KnowledgeBaseRepository) Update(ctx context.Context, kb *domain.KnowledgeBase) error {
	kb.UpdatedAt = time.Now().UTC()
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE knowledge_bases SET name = $1, description = $2, chunk_size = $3, chunk_overlap = $4, embedding_model = $5, updated_at = $6
		 WHERE id = $7`,
		kb.Name, kb.Description, kb.ChunkSize, kb.ChunkOverlap, kb.EmbeddingModel, kb.UpdatedAt, kb.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrKnowledgeBaseNotFound
	}
	return nil
}

func (r *KnowledgeBaseRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM knowledge_bases WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrKnowledgeBaseNotFound
	}
	return nil
}
