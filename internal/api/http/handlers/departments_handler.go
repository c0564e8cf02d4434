package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/baladiya/complaint-service/internal/api/dto"
	"github.com/baladiya/complaint-service/internal/domain"
	"github.com/baladiya/complaint-service/internal/service"
	apperrors "github.com/baladiya/complaint-service/pkg/util"
)

// DepartmentsHandler serves the admin department registry.
type DepartmentsHandler struct {
	service *service.StaffService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(staffService *service.StaffService) *DepartmentsHandler {
	return &DepartmentsHandler{service: staffService}
}

// Create POST /admin/departments.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Municipality == "" {
		return apperrors.NewValidationError("name and municipality required", nil)
	}
	department, err := h.service.CreateDepartment(c.UserContext(), departmentInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": departmentResponse(department)})
}

// Update PUT /admin/departments/:id.
func (h *DepartmentsHandler) Update(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	department, err := h.service.UpdateDepartment(c.UserContext(), c.Params("id"), departmentInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponse(department)})
}

// List GET /departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	departments, err := h.service.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for i := range departments {
		items = append(items, departmentResponse(&departments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func departmentInput(req dto.DepartmentRequest) service.DepartmentInput {
	return service.DepartmentInput{
		Name:          req.Name,
		Description:   req.Description,
		Municipality:  req.Municipality,
		ResponsableID: req.ResponsableID,
		IsActive:      req.IsActive,
	}
}

func departmentResponse(department *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:            department.ID,
		Name:          department.Name,
		Description:   department.Description,
		Municipality:  department.Municipality,
		ResponsableID: department.ResponsableID,
		IsActive:      department.IsActive,
		CreatedAt:     department.CreatedAt,
		UpdatedAt:     department.UpdatedAt,
	}
}
