package repository

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/domain"
)

var enquiryRowColumns = []string{
	"id", "name", "email", "phone", "course_interest", "message",
	"status", "claimed_by", "claimed_at", "created_at", "name", "email",
}

func TestEnquiryRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO enquiries`).
		WithArgs("A", "a@x.com", "1", "X", "", domain.EnquiryStatusPublic).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("enq-1", now))

	repo := NewEnquiryRepository(mock)
	enquiry := &domain.Enquiry{Name: "A", Email: "a@x.com", Phone: "1", CourseInterest: "X", Status: domain.EnquiryStatusPublic}
	require.NoError(t, repo.Create(context.Background(), enquiry))
	require.Equal(t, "enq-1", enquiry.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnquiryRepository_ClaimIfPublicIsConditional(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Now().Add(-time.Hour)
	claimedAt := time.Now()
	claimer := "emp-1"
	claimerName := "Ann"
	claimerEmail := "ann@example.com"

	claimSQL := regexp.QuoteMeta(`WHERE id=$1 AND status=$5`)
	mock.ExpectQuery(claimSQL).
		WithArgs("enq-1", domain.EnquiryStatusClaimed, claimer, claimedAt, domain.EnquiryStatusPublic).
		WillReturnRows(pgxmock.NewRows(enquiryRowColumns).AddRow(
			"enq-1", "A", "a@x.com", "1", "X", "",
			domain.EnquiryStatusClaimed, &claimer, &claimedAt, created, &claimerName, &claimerEmail,
		))
	mock.ExpectQuery(claimSQL).
		WithArgs("enq-1", domain.EnquiryStatusClaimed, "emp-2", claimedAt, domain.EnquiryStatusPublic).
		WillReturnError(pgx.ErrNoRows)

	repo := NewEnquiryRepository(mock)
	enquiry, err := repo.ClaimIfPublic(context.Background(), "enq-1", claimer, claimedAt)
	require.NoError(t, err)
	require.Equal(t, domain.EnquiryStatusClaimed, enquiry.Status)
	require.Equal(t, &domain.EmployeeRef{ID: "emp-1", Name: "Ann", Email: "ann@example.com"}, enquiry.ClaimedBy)

	_, err = repo.ClaimIfPublic(context.Background(), "enq-1", "emp-2", claimedAt)
	require.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnquiryRepository_ClaimByMissingEmployee(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	claimedAt := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id=$1 AND status=$5`)).
		WithArgs("enq-1", domain.EnquiryStatusClaimed, "gone", claimedAt, domain.EnquiryStatusPublic).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})

	repo := NewEnquiryRepository(mock)
	_, err = repo.ClaimIfPublic(context.Background(), "enq-1", "gone", claimedAt)
	require.ErrorIs(t, err, ErrUnknownEmployee)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnquiryRepository_ListBuildsFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	status := domain.EnquiryStatusClaimed
	claimer := "emp-1"
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE 1=1 AND q.status=$1 AND q.claimed_by=$2 ORDER BY q.claimed_at DESC NULLS LAST, q.created_at DESC`)).
		WithArgs(status, claimer).
		WillReturnRows(pgxmock.NewRows(enquiryRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE 1=1 ORDER BY q.created_at DESC`)).
		WillReturnRows(pgxmock.NewRows(enquiryRowColumns).AddRow(
			"enq-2", "B", "b@x.com", "2", "Y", "hello",
			domain.EnquiryStatusPublic, nil, nil, time.Now(), nil, nil,
		))

	repo := NewEnquiryRepository(mock)
	claims, err := repo.List(context.Background(), EnquiryFilter{Status: &status, ClaimedByID: &claimer, OrderByClaimedAt: true})
	require.NoError(t, err)
	require.Empty(t, claims)
	require.NotNil(t, claims)

	all, err := repo.List(context.Background(), EnquiryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Nil(t, all[0].ClaimedBy)
	require.Nil(t, all[0].ClaimedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func newMemoryStores(t *testing.T) (*MemoryEmployeeRepository, *MemoryEnquiryRepository, *domain.Employee) {
	t.Helper()
	employees := NewMemoryEmployeeRepository()
	emp := &domain.Employee{Name: "Ann", Email: "ann@example.com", Role: domain.EmployeeRoleCounselor}
	require.NoError(t, employees.Create(context.Background(), emp))
	return employees, NewMemoryEnquiryRepository(employees), emp
}

func TestMemoryEnquiryRepository_ClaimAndList(t *testing.T) {
	_, repo, emp := newMemoryStores(t)
	ctx := context.Background()

	first := &domain.Enquiry{Name: "A", Status: domain.EnquiryStatusPublic}
	second := &domain.Enquiry{Name: "B", Status: domain.EnquiryStatusPublic}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.True(t, second.CreatedAt.After(first.CreatedAt))

	claimed, err := repo.ClaimIfPublic(ctx, first.ID, emp.ID, time.Now())
	require.NoError(t, err)
	require.Equal(t, "Ann", claimed.ClaimedBy.Name)

	_, err = repo.ClaimIfPublic(ctx, first.ID, emp.ID, time.Now())
	require.ErrorIs(t, err, pgx.ErrNoRows)

	public := domain.EnquiryStatusPublic
	unclaimed, err := repo.List(ctx, EnquiryFilter{Status: &public})
	require.NoError(t, err)
	require.Len(t, unclaimed, 1)
	require.Equal(t, second.ID, unclaimed[0].ID)

	all, err := repo.List(ctx, EnquiryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, second.ID, all[0].ID)
	require.NotNil(t, all[1].ClaimedBy)
}

func TestMemoryEnquiryRepository_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	employees, repo, _ := newMemoryStores(t)
	ctx := context.Background()

	enquiry := &domain.Enquiry{Name: "A", Status: domain.EnquiryStatusPublic}
	require.NoError(t, repo.Create(ctx, enquiry))

	const claimers = 16
	ids := make([]string, claimers)
	for i := range ids {
		emp := &domain.Employee{Name: "E", Email: fmt.Sprintf("e%d@x.com", i)}
		require.NoError(t, employees.Create(ctx, emp))
		ids[i] = emp.ID
	}

	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			<-start
			if _, err := repo.ClaimIfPublic(ctx, enquiry.ID, id, time.Now()); err == nil {
				wins.Add(1)
			}
		}(id)
	}
	close(start)
	wg.Wait()

	require.Equal(t, int32(1), wins.Load())
}

func TestMemoryEnquiryRepository_ClaimByMissingEmployee(t *testing.T) {
	_, repo, emp := newMemoryStores(t)
	ctx := context.Background()

	enquiry := &domain.Enquiry{Name: "A", Status: domain.EnquiryStatusPublic}
	require.NoError(t, repo.Create(ctx, enquiry))

	_, err := repo.ClaimIfPublic(ctx, enquiry.ID, "gone", time.Now())
	require.ErrorIs(t, err, ErrUnknownEmployee)

	stored, err := repo.GetByID(ctx, enquiry.ID)
	require.NoError(t, err)
	require.False(t, stored.IsClaimed())

	claimed, err := repo.ClaimIfPublic(ctx, enquiry.ID, emp.ID, time.Now())
	require.NoError(t, err)
	require.True(t, claimed.IsClaimed())
}

func TestMemoryEnquiryRepository_ClaimKeepsStoredKey(t *testing.T) {
	_, repo, emp := newMemoryStores(t)
	ctx := context.Background()

	enquiry := &domain.Enquiry{Name: "A", Status: domain.EnquiryStatusPublic}
	require.NoError(t, repo.Create(ctx, enquiry))

	// an id sharing memory with a buffer that is later overwritten
	buf := []byte(enquiry.ID)
	_, err := repo.ClaimIfPublic(ctx, unsafe.String(&buf[0], len(buf)), emp.ID, time.Now())
	require.NoError(t, err)
	for i := range buf {
		buf[i] = 'x'
	}

	stored, err := repo.GetByID(ctx, enquiry.ID)
	require.NoError(t, err)
	require.Equal(t, enquiry.ID, stored.ID)
	require.True(t, stored.IsClaimed())
}
