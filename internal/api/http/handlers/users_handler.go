package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/baladiya/complaint-service/internal/api/dto"
	"github.com/baladiya/complaint-service/internal/auth"
	"github.com/baladiya/complaint-service/internal/domain"
	"github.com/baladiya/complaint-service/internal/repository"
	"github.com/baladiya/complaint-service/internal/service"
	apperrors "github.com/baladiya/complaint-service/pkg/util"
)

// UsersHandler serves account endpoints: citizen signup, login, password
// flows and the admin staff directory.
type UsersHandler struct {
	authService  *service.AuthService
	staffService *service.StaffService
	logger       *zap.Logger
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, staffService *service.StaffService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{authService: authService, staffService: staffService, logger: logger}
}

// Register POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		return apperrors.NewValidationError("name, email and a password of at least 8 characters required", nil)
	}

	user, token, expiresAt, err := h.authService.RegisterCitizen(c.UserContext(), service.CitizenRegistration{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     req.Password,
		Governorate:  req.Governorate,
		Municipality: req.Municipality,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      userResponse(user),
	}})
}

// Login POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, token, expiresAt, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      userResponse(user),
	}})
}

// RequestPasswordReset POST /auth/password/reset/request.
func (h *UsersHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	// The token is delivered out of band; unknown emails get the same
	// answer so the endpoint does not leak which accounts exist.
	token, err := h.authService.RequestPasswordReset(c.UserContext(), req.Email)
	switch {
	case err == nil:
		h.logger.Info("password reset token issued", zap.String("user_id", token.UserID))
	case errorCode(err) == "NOT_FOUND":
	default:
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "if the account exists, a reset token has been sent"}})
}

// ConfirmPasswordReset POST /auth/password/reset/confirm.
func (h *UsersHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" || len(req.NewPassword) < 8 {
		return apperrors.NewValidationError("token and a password of at least 8 characters required", nil)
	}
	if err := h.authService.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "password updated"}})
}

// ChangePassword POST /auth/password/change.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	actor := auth.UserFromContext(c)
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.NewPassword) < 8 {
		return apperrors.NewValidationError("a password of at least 8 characters required", nil)
	}
	if err := h.authService.ChangePassword(c.UserContext(), actor.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "password updated"}})
}

// Me GET /auth/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	actor := auth.UserFromContext(c)
	return c.JSON(fiber.Map{"data": userResponse(actor)})
}

// CreateStaff POST /admin/staff.
func (h *UsersHandler) CreateStaff(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		return apperrors.NewValidationError("name, email and a password of at least 8 characters required", nil)
	}
	user, err := h.staffService.CreateStaff(c.UserContext(), service.StaffCreateInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     req.Password,
		Role:         req.Role,
		Governorate:  req.Governorate,
		Municipality: req.Municipality,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// ListStaff GET /admin/staff.
func (h *UsersHandler) ListStaff(c *fiber.Ctx) error {
	filter := repository.UserFilter{}
	if rolesStr := c.Query("role"); rolesStr != "" {
		for _, part := range strings.Split(rolesStr, ",") {
			filter.Roles = append(filter.Roles, domain.Role(strings.TrimSpace(part)))
		}
	}
	if municipality := c.Query("municipality"); municipality != "" {
		filter.Municipality = &municipality
	}
	users, err := h.staffService.ListStaff(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// ListTechnicians GET /staff/technicians.
func (h *UsersHandler) ListTechnicians(c *fiber.Ctx) error {
	var municipality *string
	if m := c.Query("municipality"); m != "" {
		municipality = &m
	}
	users, err := h.staffService.ListTechnicians(c.UserContext(), municipality)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(users)})
}

// SetActive PATCH /admin/staff/:id/active.
func (h *UsersHandler) SetActive(c *fiber.Ctx) error {
	var req dto.SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.staffService.SetActive(c.UserContext(), c.Params("id"), req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		Role:         user.Role,
		Governorate:  user.Governorate,
		Municipality: user.Municipality,
		Active:       user.Active,
	}
}

func userResponses(users []domain.User) []dto.UserResponse {
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return items
}
