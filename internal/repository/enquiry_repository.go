package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/domain"
)

// EnquiryFilter narrows enquiry listings.
type EnquiryFilter struct {
	Status      *domain.EnquiryStatus
	ClaimedByID *string
	// OrderByClaimedAt sorts newest-claimed first instead of newest-created first.
	OrderByClaimedAt bool
}

// EnquiryRepository encapsulates enquiry persistence.
type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *domain.Enquiry) error
	GetByID(ctx context.Context, id string) (*domain.Enquiry, error)
	List(ctx context.Context, filter EnquiryFilter) ([]domain.Enquiry, error)
	// ClaimIfPublic atomically moves a public enquiry to claimed. It returns
	// pgx.ErrNoRows when no public enquiry with that id exists and
	// ErrUnknownEmployee when the claimer is not a stored employee.
	ClaimIfPublic(ctx context.Context, id, employeeID string, claimedAt time.Time) (*domain.Enquiry, error)
}

const enquiryColumns = `q.id, q.name, q.email, q.phone, q.course_interest, q.message,
               q.status, q.claimed_by, q.claimed_at, q.created_at, e.name, e.email`

type enquiryRepository struct {
	db DBTX
}

// NewEnquiryRepository instantiates repository.
func NewEnquiryRepository(db DBTX) EnquiryRepository {
	return &enquiryRepository{db: db}
}

func (r *enquiryRepository) Create(ctx context.Context, enquiry *domain.Enquiry) error {
	const query = `
        INSERT INTO enquiries (name, email, phone, course_interest, message, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		enquiry.Name,
		enquiry.Email,
		enquiry.Phone,
		enquiry.CourseInterest,
		enquiry.Message,
		enquiry.Status,
	).Scan(&enquiry.ID, &enquiry.CreatedAt)
}

func (r *enquiryRepository) GetByID(ctx context.Context, id string) (*domain.Enquiry, error) {
	query := `SELECT ` + enquiryColumns + `
        FROM enquiries q LEFT JOIN employees e ON e.id = q.claimed_by
        WHERE q.id=$1`
	return scanEnquiry(r.db.QueryRow(ctx, query, id))
}

func (r *enquiryRepository) ClaimIfPublic(ctx context.Context, id, employeeID string, claimedAt time.Time) (*domain.Enquiry, error) {
	const query = `
        WITH claimed AS (
            UPDATE enquiries SET status=$2, claimed_by=$3, claimed_at=$4
            WHERE id=$1 AND status=$5
            RETURNING id, name, email, phone, course_interest, message, status, claimed_by, claimed_at, created_at
        )
        SELECT q.id, q.name, q.email, q.phone, q.course_interest, q.message,
               q.status, q.claimed_by, q.claimed_at, q.created_at, e.name, e.email
        FROM claimed q LEFT JOIN employees e ON e.id = q.claimed_by`
	enquiry, err := scanEnquiry(r.db.QueryRow(ctx, query,
		id,
		domain.EnquiryStatusClaimed,
		employeeID,
		claimedAt,
		domain.EnquiryStatusPublic,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrUnknownEmployee
		}
		return nil, err
	}
	return enquiry, nil
}

func (r *enquiryRepository) List(ctx context.Context, filter EnquiryFilter) ([]domain.Enquiry, error) {
	base := `SELECT ` + enquiryColumns + `
             FROM enquiries q LEFT JOIN employees e ON e.id = q.claimed_by`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("q.status=$%d", len(args)))
	}
	if filter.ClaimedByID != nil {
		args = append(args, *filter.ClaimedByID)
		clauses = append(clauses, fmt.Sprintf("q.claimed_by=$%d", len(args)))
	}

	order := "q.created_at DESC"
	if filter.OrderByClaimedAt {
		order = "q.claimed_at DESC NULLS LAST, q.created_at DESC"
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY %s`, base, strings.Join(clauses, " AND "), order)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Enquiry{}
	for rows.Next() {
		enquiry, err := scanEnquiry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *enquiry)
	}
	return result, rows.Err()
}

func scanEnquiry(row pgx.Row) (*domain.Enquiry, error) {
	var (
		enquiry      domain.Enquiry
		claimerName  *string
		claimerEmail *string
	)
	if err := row.Scan(
		&enquiry.ID,
		&enquiry.Name,
		&enquiry.Email,
		&enquiry.Phone,
		&enquiry.CourseInterest,
		&enquiry.Message,
		&enquiry.Status,
		&enquiry.ClaimedByID,
		&enquiry.ClaimedAt,
		&enquiry.CreatedAt,
		&claimerName,
		&claimerEmail,
	); err != nil {
		return nil, err
	}
	if enquiry.ClaimedByID != nil && claimerName != nil {
		ref := &domain.EmployeeRef{ID: *enquiry.ClaimedByID, Name: *claimerName}
		if claimerEmail != nil {
			ref.Email = *claimerEmail
		}
		enquiry.ClaimedBy = ref
	}
	return &enquiry, nil
}
