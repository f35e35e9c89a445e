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

// AssignmentRepository handles persistence of agent to knowledge base
// assignments.
type AssignmentRepository struct {
	db dbtx
}

func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{db: pool}
}

func NewAssignmentRepositoryWithTx(tx pgx.Tx) *AssignmentRepository {
	return &AssignmentRepository{db: tx}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO knowledge_base_assignments (agent_id, knowledge_base_id, priority, created_at)
		 VALUES ($1, $2, $3, $4)`,
		a.AgentID, a.KnowledgeBaseID, a.Priority, createdAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAssignmentAlreadyExists
		}
		return err
	}
	return nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, agentID, knowledgeBaseID string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM knowledge_base_assignments WHERE agent_id = $1 AND knowledge_base_id = $2`,
		agentID, knowledgeBaseID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

func (r *AssignmentRepository) UpdatePriority(ctx context.Context, agentID, knowledgeBaseID string, priority int) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE knowledge_base_assignments SET priority = $1 WHERE agent_id = $2 AND knowledge_base_id = $3`,
		priority, agentID, knowledgeBaseID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

// FetchAssignments returns every assignment of an agent ordered by priority
// descending, breaking ties by knowledge base id.
func (r *AssignmentRepository) FetchAssignments(ctx context.Context, agentID string) ([]*domain.Assignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT agent_id, knowledge_base_id, priority, created_at
		 FROM knowledge_base_assignments
		 WHERE agent_id = $1
		 ORDER BY priority DESC, knowledge_base_id ASC`,
		agentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.AgentID, &a.KnowledgeBaseID, &a.Priority, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, &a)
	}
	return assignments, rows.Err()
}

func (r *AssignmentRepository) CountAssignments(ctx context.Context, agentID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM knowledge_base_assignments WHERE agent_id = $1`,
		agentID,
	).Scan(&count)
	return count, err
}
