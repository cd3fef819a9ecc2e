package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/domain"
)

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.Response{Success: true, Message: message, Data: data})
}

func respondList(c *fiber.Ctx, data any, count int) error {
	return c.JSON(dto.Response{Success: true, Count: &count, Data: data})
}

func enquiryResponse(enquiry *domain.Enquiry) dto.EnquiryResponse {
	resp := dto.EnquiryResponse{
		ID:             enquiry.ID,
		Name:           enquiry.Name,
		Email:          enquiry.Email,
		Phone:          enquiry.Phone,
		CourseInterest: enquiry.CourseInterest,
		Message:        enquiry.Message,
		Status:         enquiry.Status,
		ClaimedAt:      enquiry.ClaimedAt,
		CreatedAt:      enquiry.CreatedAt,
	}
	switch {
	case enquiry.ClaimedBy != nil:
		resp.ClaimedBy = &dto.ClaimerResponse{ID: enquiry.ClaimedBy.ID, Name: enquiry.ClaimedBy.Name, Email: enquiry.ClaimedBy.Email}
	case enquiry.ClaimedByID != nil:
		resp.ClaimedBy = &dto.ClaimerResponse{ID: *enquiry.ClaimedByID}
	}
	return resp
}

func enquiryResponses(enquiries []domain.Enquiry) []dto.EnquiryResponse {
	items := make([]dto.EnquiryResponse, 0, len(enquiries))
	for i := range enquiries {
		items = append(items, enquiryResponse(&enquiries[i]))
	}
	return items
}

func employeeResponse(employee *domain.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:        employee.ID,
		Name:      employee.Name,
		Email:     employee.Email,
		Role:      employee.Role,
		CreatedAt: employee.CreatedAt,
	}
}
