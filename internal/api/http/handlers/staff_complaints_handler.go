package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baladiya/complaint-service/internal/api/dto"
	"github.com/baladiya/complaint-service/internal/auth"
	"github.com/baladiya/complaint-service/internal/service"
	apperrors "github.com/baladiya/complaint-service/pkg/util"
)

// StaffComplaintsHandler serves the staff-side mutations of a complaint:
// status transitions, assignments and priority updates.
type StaffComplaintsHandler struct {
	service *service.ComplaintService
}

// NewStaffComplaintsHandler constructs handler.
func NewStaffComplaintsHandler(complaintService *service.ComplaintService) *StaffComplaintsHandler {
	return &StaffComplaintsHandler{service: complaintService}
}

// UpdateStatus PATCH /staff/complaints/:id/status.
func (h *StaffComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor := auth.UserFromContext(c)
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	complaint, err := h.service.ApplyStatusTransition(c.UserContext(), actor, c.Params("id"), req.Status, req.RejectionReason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// AssignTechnician PATCH /staff/complaints/:id/assignee.
func (h *StaffComplaintsHandler) AssignTechnician(c *fiber.Ctx) error {
	actor := auth.UserFromContext(c)
	var req dto.AssignTechnicianRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssigneeID == "" {
		return apperrors.NewValidationError("assignee_id required", nil)
	}
	complaint, err := h.service.ApplyTechnicianAssignment(c.UserContext(), actor, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// AssignDepartment PATCH /staff/complaints/:id/department.
func (h *StaffComplaintsHandler) AssignDepartment(c *fiber.Ctx) error {
	actor := auth.UserFromContext(c)
	var req dto.AssignDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.DepartmentID == "" {
		return apperrors.NewValidationError("department_id required", nil)
	}
	complaint, err := h.service.ApplyDepartmentAssignment(c.UserContext(), actor, c.Params("id"), req.DepartmentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// UpdatePriority PATCH /staff/complaints/:id/priority.
func (h *StaffComplaintsHandler) UpdatePriority(c *fiber.Ctx) error {
	actor := auth.UserFromContext(c)
	var req dto.UpdatePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Urgency == nil && req.PriorityScore == nil {
		return apperrors.NewValidationError("urgency or priority_score required", nil)
	}
	complaint, err := h.service.ApplyPriorityUpdate(c.UserContext(), actor, c.Params("id"), req.Urgency, req.PriorityScore)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}
