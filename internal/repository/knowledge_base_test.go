//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/substratai/substrat/internal/domain"
	"github.com/substratai/substrat/internal/testutil"
)

func TestKnowledgeBaseRepository(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	kbRepo := NewKnowledgeBaseRepository(pool)
	docRepo := NewDocumentRepository(pool)
	chunkRepo := NewChunkRepository(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	kb := domain.NewKnowledgeBase(uuid.NewString(), "tenant-1", "handbook", "company handbook", now)
	require.NoError(t, kbRepo.Create(ctx, kb))

	t.Run("duplicate name within a tenant is rejected", func(t *testing.T) {
		dup := domain.NewKnowledgeBase(uuid.NewString(), "tenant-1", "handbook", "", now)
		assert.ErrorIs(t, kbRepo.Create(ctx, dup), domain.ErrKnowledgeBaseAlreadyExists)
	})

	t.Run("get reports document and chunk counts", func(t *testing.T) {
		doc := &domain.Document{
			ID:              uuid.NewString(),
			KnowledgeBaseID: kb.ID,
			Name:            "onboarding.md",
			Type:            domain.DocumentTypeMarkdown,
			CreatedAt:       now,
		}
		require.NoError(t, docRepo.Create(ctx, doc))
		require.NoError(t, chunkRepo.ReplaceChunks(ctx, doc.ID, []domain.Chunk{
			{ID: uuid.NewString(), DocumentID: doc.ID, KnowledgeBaseID: kb.ID, ChunkIndex: 0, Content: "welcome"},
			{ID: uuid.NewString(), DocumentID: doc.ID, KnowledgeBaseID: kb.ID, ChunkIndex: 1, Content: "first week"},
		}))

		retrieved, err := kbRepo.GetByID(ctx, kb.ID)
		require.NoError(t, err)
		assert.Equal(t, "handbook", retrieved.Name)
		assert.Equal(t, 1, retrieved.DocumentCount)
		assert.Equal(t, 2, retrieved.ChunkCount)
	})

	t.Run("get missing returns not found", func(t *testing.T) {
		_, err := kbRepo.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrKnowledgeBaseNotFound)
	})

	t.Run("delete cascades and reports missing", func(t *testing.T) {
		require.NoError(t, kbRepo.Delete(ctx, kb.ID))
		assert.ErrorIs(t, kbRepo.Delete(ctx, kb.ID), domain.ErrKnowledgeBaseNotFound)
	})
}
