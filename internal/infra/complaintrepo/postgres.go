package complaintrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/opencouncil/complaint-dedup/internal/domain/complaint"
)

// PostgresRepository reads the portal's complaints table using pgx. The table
// carries a pgvector embedding column written by the portal at complaint
// creation time, which enables the nearest-neighbour candidate prefilter.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindActiveByCategory implements complaint.Repository. Rows come back in
// creation order so repeated checks rank ties identically.
func (r *PostgresRepository) FindActiveByCategory(ctx context.Context, category complaint.Category) ([]complaint.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, category, status, created_at
		FROM complaints
		WHERE category = $1 AND status IN ('open', 'in_progress')
		ORDER BY created_at, id
	`, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// FindSimilarActive implements complaint.SimilaritySearcher: it returns the
// limit active complaints closest to the given embedding by cosine distance.
func (r *PostgresRepository) FindSimilarActive(ctx context.Context, category complaint.Category, embedding []float32, limit int) ([]complaint.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, category, status, created_at
		FROM complaints
		WHERE category = $1 AND status IN ('open', 'in_progress')
		ORDER BY embedding <=> $2, created_at, id
		LIMIT $3
	`, string(category), pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]complaint.Record, error) {
	var out []complaint.Record
	for rows.Next() {
		var (
			record   complaint.Record
			category string
			status   string
		)
		if err := rows.Scan(&record.ID, &record.Title, &record.Description, &category, &status, &record.CreatedAt); err != nil {
			return nil, err
		}
		record.Category = complaint.Category(category)
		record.Status = complaint.Status(status)
		out = append(out, record)
	}
	return out, rows.Err()
}

var (
	_ complaint.Repository         = (*PostgresRepository)(nil)
	_ complaint.SimilaritySearcher = (*PostgresRepository)(nil)
)
