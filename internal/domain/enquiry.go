package domain

import "time"

// EnquiryStatus enumerates claim states. Claimed is terminal.
type EnquiryStatus string

const (
	EnquiryStatusPublic  EnquiryStatus = "public"
	EnquiryStatusClaimed EnquiryStatus = "claimed"
)

// Enquiry is a prospective-student enquiry.
//
// Status is claimed exactly when ClaimedByID and ClaimedAt are both set.
// ClaimedBy is populated by reads that resolve the claiming employee.
type Enquiry struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	CourseInterest string
	Message        string
	Status         EnquiryStatus
	ClaimedByID    *string
	ClaimedBy      *EmployeeRef
	ClaimedAt      *time.Time
	CreatedAt      time.Time
}

// IsClaimed reports whether the enquiry has left the public pool.
func (e *Enquiry) IsClaimed() bool {
	return e.Status == EnquiryStatusClaimed
}
