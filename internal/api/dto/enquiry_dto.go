package dto

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// SubmitEnquiryRequest payload.
type SubmitEnquiryRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	CourseInterest string `json:"courseInterest"`
	Message        string `json:"message"`
}

// ClaimerResponse is the resolved claimedBy reference.
type ClaimerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// EnquiryResponse represents an enquiry.
type EnquiryResponse struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Email          string               `json:"email"`
	Phone          string               `json:"phone"`
	CourseInterest string               `json:"courseInterest"`
	Message        string               `json:"message,omitempty"`
	Status         domain.EnquiryStatus `json:"status"`
	ClaimedBy      *ClaimerResponse     `json:"claimedBy"`
	ClaimedAt      *time.Time           `json:"claimedAt"`
	CreatedAt      time.Time            `json:"createdAt"`
}
