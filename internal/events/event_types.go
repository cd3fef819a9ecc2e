package events

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeRegistered EventType = "employee_registered"
	EventEnquirySubmitted   EventType = "enquiry_submitted"
	EventEnquiryClaimed     EventType = "enquiry_claimed"
)

// AllEventTypes lists every type a forwarder should subscribe to.
var AllEventTypes = []EventType{EventEmployeeRegistered, EventEnquirySubmitted, EventEnquiryClaimed}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	AggregateID string      `json:"aggregate_id"`
	ActorID     *string     `json:"actor_id,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// EmployeeRegisteredPayload payload.
type EmployeeRegisteredPayload struct {
	Name  string              `json:"name"`
	Email string              `json:"email"`
	Role  domain.EmployeeRole `json:"role"`
}

// EnquirySubmittedPayload payload.
type EnquirySubmittedPayload struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	CourseInterest string `json:"course_interest"`
}

// EnquiryClaimedPayload payload.
type EnquiryClaimedPayload struct {
	ClaimedByID string    `json:"claimed_by"`
	ClaimedAt   time.Time `json:"claimed_at"`
}
