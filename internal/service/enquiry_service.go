package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

const msgAlreadyClaimed = "This enquiry has already been claimed by another counselor"

// EnquiryService coordinates enquiry submission, listing and claiming.
type EnquiryService struct {
	enquiries  repository.EnquiryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// EnquiryDependencies bundles repositories for enquiry service.
type EnquiryDependencies struct {
	EnquiryRepo repository.EnquiryRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// SubmitInput describes a public enquiry. Message is optional.
type SubmitInput struct {
	Name           string
	Email          string
	Phone          string
	CourseInterest string
	Message        string
}

// NewEnquiryService constructs the service.
func NewEnquiryService(deps EnquiryDependencies) *EnquiryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnquiryService{
		enquiries:  deps.EnquiryRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates and stores a new public enquiry.
func (s *EnquiryService) Submit(ctx context.Context, input SubmitInput) (*domain.Enquiry, error) {
	enquiry := &domain.Enquiry{
		Name:           strings.TrimSpace(input.Name),
		Email:          normalizeEmail(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		CourseInterest: strings.TrimSpace(input.CourseInterest),
		Message:        strings.TrimSpace(input.Message),
		Status:         domain.EnquiryStatusPublic,
	}

	fields := fieldErrors{}
	fields.required("name", enquiry.Name, "Please provide a name")
	fields.required("email", enquiry.Email, "Please provide an email")
	fields.email("email", enquiry.Email)
	fields.required("phone", enquiry.Phone, "Please provide a phone number")
	fields.required("courseInterest", enquiry.CourseInterest, "Please specify course interest")
	if err := fields.err(); err != nil {
		return nil, err
	}

	if err := s.enquiries.Create(ctx, enquiry); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:        events.EventEnquirySubmitted,
		AggregateID: enquiry.ID,
		Payload: events.EnquirySubmittedPayload{
			Name:           enquiry.Name,
			Email:          enquiry.Email,
			CourseInterest: enquiry.CourseInterest,
		},
	})
	return enquiry, nil
}

// ListUnclaimed returns public enquiries, newest first.
func (s *EnquiryService) ListUnclaimed(ctx context.Context) ([]domain.Enquiry, error) {
	status := domain.EnquiryStatusPublic
	return s.list(ctx, repository.EnquiryFilter{Status: &status})
}

// ListMyClaims returns enquiries claimed by employeeID, most recently claimed first.
func (s *EnquiryService) ListMyClaims(ctx context.Context, employeeID string) ([]domain.Enquiry, error) {
	status := domain.EnquiryStatusClaimed
	return s.list(ctx, repository.EnquiryFilter{
		Status:           &status,
		ClaimedByID:      &employeeID,
		OrderByClaimedAt: true,
	})
}

// ListAll returns every enquiry, newest first.
func (s *EnquiryService) ListAll(ctx context.Context) ([]domain.Enquiry, error) {
	return s.list(ctx, repository.EnquiryFilter{})
}

// Get returns one enquiry with its claimer resolved.
func (s *EnquiryService) Get(ctx context.Context, id string) (*domain.Enquiry, error) {
	if !validID(id) {
		return nil, enquiryNotFound(id)
	}
	enquiry, err := s.enquiries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, enquiryNotFound(id)
		}
		return nil, apperrors.MapError(err)
	}
	return enquiry, nil
}

// Claim moves a public enquiry to claimed by employeeID. The store applies
// the transition only if the enquiry is still public, so concurrent claims
// produce exactly one winner. A claimed enquiry can never be claimed again,
// not even by its owner.
func (s *EnquiryService) Claim(ctx context.Context, enquiryID, employeeID string) (*domain.Enquiry, error) {
	if !validID(enquiryID) {
		return nil, enquiryNotFound(enquiryID)
	}

	enquiry, err := s.enquiries.ClaimIfPublic(ctx, enquiryID, employeeID, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrUnknownEmployee) {
			return nil, apperrors.NewNotFound("Employee", map[string]any{"employee_id": employeeID})
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		if _, getErr := s.Get(ctx, enquiryID); getErr != nil {
			return nil, getErr
		}
		return nil, apperrors.NewConflict(msgAlreadyClaimed, map[string]any{"enquiry_id": enquiryID})
	}

	payload := events.EnquiryClaimedPayload{ClaimedByID: employeeID}
	if enquiry.ClaimedAt != nil {
		payload.ClaimedAt = *enquiry.ClaimedAt
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:        events.EventEnquiryClaimed,
		AggregateID: enquiry.ID,
		ActorID:     &employeeID,
		Payload:     payload,
	})
	return enquiry, nil
}

func (s *EnquiryService) list(ctx context.Context, filter repository.EnquiryFilter) ([]domain.Enquiry, error) {
	enquiries, err := s.enquiries.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if enquiries == nil {
		enquiries = []domain.Enquiry{}
	}
	return enquiries, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func enquiryNotFound(id string) error {
	return apperrors.NewNotFound("Enquiry", map[string]any{"enquiry_id": id})
}
