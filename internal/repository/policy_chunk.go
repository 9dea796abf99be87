package repository

import (
	"context"
	"fmt"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PolicyChunkRepository persists the embedded policy index.
type PolicyChunkRepository struct {
	db dbtx
}

func NewPolicyChunkRepository(pool *pgxpool.Pool) *PolicyChunkRepository {
	return &PolicyChunkRepository{db: pool}
}

// ReplaceAll swaps the stored index for chunks in one transaction.
func (r *PolicyChunkRepository) ReplaceAll(ctx context.Context, chunks []domain.PolicyChunk) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM policy_chunks`); err != nil {
			return fmt.Errorf("clear policy chunks: %w", err)
		}

		batch := &pgx.Batch{}
		for _, c := range chunks {
			batch.Queue(
				`INSERT INTO policy_chunks (source, region, chunk_index, content, embedding)
				 VALUES ($1, $2, $3, $4, $5)`,
				c.Source,
				domain.NormalizeRegion(string(c.Region)),
				c.ChunkIndex,
				c.Content,
				pgvector.NewVector(c.Embedding),
			)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert policy chunks: %w", err)
		}
		return nil
	})
}

func (r *PolicyChunkRepository) LoadAll(ctx context.Context) ([]domain.PolicyChunk, error) {
	rows, err := r.db.Query(ctx,
		`SELECT source, region, chunk_index, content, embedding
		 FROM policy_chunks ORDER BY source, chunk_index`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []domain.PolicyChunk
	for rows.Next() {
		var (
			c   domain.PolicyChunk
			vec pgvector.Vector
		)
		if err := rows.Scan(&c.Source, &c.Region, &c.ChunkIndex, &c.Content, &vec); err != nil {
			return nil, err
		}
		c.Embedding = vec.Slice()
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}
