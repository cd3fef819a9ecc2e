package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/domain"
)

// MemoryEnquiryRepository backs enquiries when no database is configured.
// Claimers are resolved against the employee repository it was built with.
type MemoryEnquiryRepository struct {
	mu        sync.RWMutex
	enquiries map[string]domain.Enquiry
	employees *MemoryEmployeeRepository
	now       func() time.Time
	lastAt    time.Time
}

func NewMemoryEnquiryRepository(employees *MemoryEmployeeRepository) *MemoryEnquiryRepository {
	return &MemoryEnquiryRepository{
		enquiries: map[string]domain.Enquiry{},
		employees: employees,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryEnquiryRepository) Create(_ context.Context, enquiry *domain.Enquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// creation times stay strictly increasing so newest-first order is total
	createdAt := r.now()
	if !createdAt.After(r.lastAt) {
		createdAt = r.lastAt.Add(time.Microsecond)
	}
	r.lastAt = createdAt

	enquiry.ID = uuid.NewString()
	enquiry.CreatedAt = createdAt
	stored := *enquiry
	stored.ClaimedBy = nil
	r.enquiries[enquiry.ID] = stored
	return nil
}

func (r *MemoryEnquiryRepository) GetByID(_ context.Context, id string) (*domain.Enquiry, error) {
	r.mu.RLock()
	enquiry, ok := r.enquiries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.resolve(enquiry), nil
}

func (r *MemoryEnquiryRepository) ClaimIfPublic(_ context.Context, id, employeeID string, claimedAt time.Time) (*domain.Enquiry, error) {
	r.mu.Lock()
	enquiry, ok := r.enquiries[id]
	if !ok || enquiry.IsClaimed() {
		r.mu.Unlock()
		return nil, pgx.ErrNoRows
	}
	if r.employees != nil && r.employees.ref(employeeID) == nil {
		r.mu.Unlock()
		return nil, ErrUnknownEmployee
	}
	claimer := employeeID
	at := claimedAt
	enquiry.Status = domain.EnquiryStatusClaimed
	enquiry.ClaimedByID = &claimer
	enquiry.ClaimedAt = &at
	// id may alias a request buffer; key by the stored id
	r.enquiries[enquiry.ID] = enquiry
	r.mu.Unlock()

	return r.resolve(enquiry), nil
}

func (r *MemoryEnquiryRepository) List(_ context.Context, filter EnquiryFilter) ([]domain.Enquiry, error) {
	r.mu.RLock()
	all := make([]domain.Enquiry, 0, len(r.enquiries))
	for _, enquiry := range r.enquiries {
		if filter.Status != nil && enquiry.Status != *filter.Status {
			continue
		}
		if filter.ClaimedByID != nil && (enquiry.ClaimedByID == nil || *enquiry.ClaimedByID != *filter.ClaimedByID) {
			continue
		}
		all = append(all, enquiry)
	}
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		if filter.OrderByClaimedAt {
			ai, aj := all[i].ClaimedAt, all[j].ClaimedAt
			switch {
			case ai != nil && aj != nil && !ai.Equal(*aj):
				return ai.After(*aj)
			case ai != nil && aj == nil:
				return true
			case ai == nil && aj != nil:
				return false
			}
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	result := make([]domain.Enquiry, 0, len(all))
	for _, enquiry := range all {
		result = append(result, *r.resolve(enquiry))
	}
	return result, nil
}

func (r *MemoryEnquiryRepository) resolve(enquiry domain.Enquiry) *domain.Enquiry {
	if enquiry.ClaimedByID != nil && r.employees != nil {
		enquiry.ClaimedBy = r.employees.ref(*enquiry.ClaimedByID)
	}
	return &enquiry
}
