package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baladiya/complaint-service/internal/domain"
)

// CommentRepository stores the append-only complaint thread. There is no
// update or delete; comments are immutable once written.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds the repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO complaint_comments (complaint_id, author_id, body)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.ComplaintID,
		comment.AuthorID,
		comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.Comment, error) {
	const query = `
        SELECT id, complaint_id, author_id, body, created_at
        FROM complaint_comments WHERE complaint_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.ComplaintID,
			&comment.AuthorID,
			&comment.Body,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
