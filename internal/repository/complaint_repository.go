package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baladiya/complaint-service/internal/domain"
)

// ComplaintFilter captures listing parameters.
type ComplaintFilter struct {
	CreatedBy            *string
	Municipality         *string
	Governorate          *string
	AssignedDepartmentID *string
	AssignedToID         *string
	Statuses             []domain.ComplaintStatus
	Categories           []string
	SearchTerm           *string
	CreatedFrom          *time.Time
	CreatedTo            *time.Time
	Limit                int
	Offset               int
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, c *domain.Complaint) error
	Update(ctx context.Context, c *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	GetByReference(ctx context.Context, reference string) (*domain.Complaint, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, c *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (reference, created_by, title, description, category, urgency, priority_score,
            status, governorate, municipality, assigned_department_id, assigned_to_id, is_anonymous)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		c.Reference,
		c.CreatedBy,
		c.Title,
		c.Description,
		c.Category,
		c.Urgency,
		c.PriorityScore,
		c.Status,
		c.Governorate,
		c.Municipality,
		c.AssignedDepartmentID,
		c.AssignedToID,
		c.IsAnonymous,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, c *domain.Complaint) error {
	const query = `
        UPDATE complaints SET title=$1, description=$2, category=$3, urgency=$4, priority_score=$5,
            status=$6, assigned_department_id=$7, assigned_to_id=$8, rejection_reason=$9,
            resolved_at=$10, updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		c.Title,
		c.Description,
		c.Category,
		c.Urgency,
		c.PriorityScore,
		c.Status,
		c.AssignedDepartmentID,
		c.AssignedToID,
		c.RejectionReason,
		c.ResolvedAt,
		c.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const complaintColumns = `id, reference, created_by, title, description, category, urgency, priority_score,
               status, governorate, municipality, assigned_department_id, assigned_to_id,
               rejection_reason, resolved_at, is_anonymous, created_at, updated_at`

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE id=$1`, complaintColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *complaintRepository) GetByReference(ctx context.Context, reference string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE reference=$1`, complaintColumns)
	return r.fetchSingle(ctx, query, reference)
}

func (r *complaintRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Complaint, error) {
	var c domain.Complaint
	if err := scanComplaint(r.pool.QueryRow(ctx, query, arg), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComplaint(row rowScanner, c *domain.Complaint) error {
	return row.Scan(
		&c.ID,
		&c.Reference,
		&c.CreatedBy,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.Urgency,
		&c.PriorityScore,
		&c.Status,
		&c.Governorate,
		&c.Municipality,
		&c.AssignedDepartmentID,
		&c.AssignedToID,
		&c.RejectionReason,
		&c.ResolvedAt,
		&c.IsAnonymous,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	base := fmt.Sprintf(`SELECT %s FROM complaints`, complaintColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if filter.Municipality != nil {
		args = append(args, *filter.Municipality)
		clauses = append(clauses, fmt.Sprintf("municipality=$%d", len(args)))
	}
	if filter.Governorate != nil {
		args = append(args, *filter.Governorate)
		clauses = append(clauses, fmt.Sprintf("governorate=$%d", len(args)))
	}
	if filter.AssignedDepartmentID != nil {
		args = append(args, *filter.AssignedDepartmentID)
		clauses = append(clauses, fmt.Sprintf("assigned_department_id=$%d", len(args)))
	}
	if filter.AssignedToID != nil {
		args = append(args, *filter.AssignedToID)
		clauses = append(clauses, fmt.Sprintf("assigned_to_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			args = append(args, category)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY priority_score DESC, updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		var c domain.Complaint
		if err := scanComplaint(rows, &c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
