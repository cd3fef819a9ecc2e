package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/service"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// EnquiriesHandler manages enquiry endpoints.
type EnquiriesHandler struct {
	service *service.EnquiryService
}

// NewEnquiriesHandler constructs handler.
func NewEnquiriesHandler(enquiryService *service.EnquiryService) *EnquiriesHandler {
	return &EnquiriesHandler{service: enquiryService}
}

// Submit POST /api/enquiries/submit. Public.
func (h *EnquiriesHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitEnquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	enquiry, err := h.service.Submit(c.UserContext(), service.SubmitInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		CourseInterest: req.CourseInterest,
		Message:        req.Message,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Enquiry submitted successfully", enquiryResponse(enquiry))
}

// ListUnclaimed GET /api/enquiries/unclaimed.
func (h *EnquiriesHandler) ListUnclaimed(c *fiber.Ctx) error {
	enquiries, err := h.service.ListUnclaimed(c.UserContext())
	if err != nil {
		return err
	}
	return respondList(c, enquiryResponses(enquiries), len(enquiries))
}

// ListMyClaims GET /api/enquiries/my-claims.
func (h *EnquiriesHandler) ListMyClaims(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Not authorized")
	}
	enquiries, err := h.service.ListMyClaims(c.UserContext(), principal.EmployeeID)
	if err != nil {
		return err
	}
	return respondList(c, enquiryResponses(enquiries), len(enquiries))
}

// Claim PUT /api/enquiries/claim/:id.
func (h *EnquiriesHandler) Claim(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Not authorized")
	}
	enquiry, err := h.service.Claim(c.UserContext(), enquiryID(c), principal.EmployeeID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Enquiry claimed successfully", enquiryResponse(enquiry))
}

// Get GET /api/enquiries/:id.
func (h *EnquiriesHandler) Get(c *fiber.Ctx) error {
	enquiry, err := h.service.Get(c.UserContext(), enquiryID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", enquiryResponse(enquiry))
}

// ListAll GET /api/enquiries.
func (h *EnquiriesHandler) ListAll(c *fiber.Ctx) error {
	enquiries, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return respondList(c, enquiryResponses(enquiries), len(enquiries))
}

// enquiryID copies the :id param out of fiber's reusable request buffer.
func enquiryID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}
