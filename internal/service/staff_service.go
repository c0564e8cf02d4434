package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/baladiya/complaint-service/internal/auth"
	"github.com/baladiya/complaint-service/internal/config"
	"github.com/baladiya/complaint-service/internal/domain"
	"github.com/baladiya/complaint-service/internal/repository"
	apperrors "github.com/baladiya/complaint-service/pkg/util"
)

// StaffService manages the municipal directory: staff accounts and the
// departments they run. All operations here are admin-only; the handlers
// enforce the role before calling in.
type StaffService struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	bcryptCost  int
}

// StaffDependencies bundles repositories for the staff service.
type StaffDependencies struct {
	UserRepo       repository.UserRepository
	DepartmentRepo repository.DepartmentRepository
}

// StaffCreateInput describes a staff account to provision.
type StaffCreateInput struct {
	Name         string
	Email        string
	Phone        string
	Password     string
	Role         domain.Role
	Governorate  string
	Municipality string
}

// DepartmentInput describes a department to create or update.
type DepartmentInput struct {
	Name          string
	Description   string
	Municipality  string
	ResponsableID *string
	IsActive      bool
}

// NewStaffService builds the service.
func NewStaffService(cfg config.Config, deps StaffDependencies) *StaffService {
	return &StaffService{
		users:       deps.UserRepo,
		departments: deps.DepartmentRepo,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// CreateStaff provisions an agent, manager or technician account.
func (s *StaffService) CreateStaff(ctx context.Context, input StaffCreateInput) (*domain.User, error) {
	if !input.Role.Staff() {
		return nil, apperrors.NewValidationError("role must be a staff role", map[string]any{"role": input.Role})
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         input.Role,
		Governorate:  input.Governorate,
		Municipality: input.Municipality,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListStaff returns staff accounts matching the filter.
func (s *StaffService) ListStaff(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	if len(filter.Roles) == 0 {
		filter.Roles = []domain.Role{
			domain.RoleMunicipalAgent,
			domain.RoleDepartmentManager,
			domain.RoleTechnician,
			domain.RoleAdmin,
		}
	}
	result, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListTechnicians returns active technicians, optionally for one municipality.
func (s *StaffService) ListTechnicians(ctx context.Context, municipality *string) ([]domain.User, error) {
	active := true
	filter := repository.UserFilter{
		Roles:        []domain.Role{domain.RoleTechnician},
		Municipality: municipality,
		Active:       &active,
		Limit:        200,
	}
	result, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// SetActive enables or disables a staff account.
func (s *StaffService) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	if !user.Role.Staff() {
		return nil, apperrors.NewValidationError("account is not staff", nil)
	}
	user.Active = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// CreateDepartment registers a department; the responsable, when given,
// must be an existing DEPARTMENT_MANAGER.
func (s *StaffService) CreateDepartment(ctx context.Context, input DepartmentInput) (*domain.Department, error) {
	if err := s.validateResponsable(ctx, input.ResponsableID); err != nil {
		return nil, err
	}
	dept := &domain.Department{
		Name:          input.Name,
		Description:   input.Description,
		Municipality:  input.Municipality,
		ResponsableID: input.ResponsableID,
		IsActive:      input.IsActive,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// UpdateDepartment applies new attributes to an existing department.
func (s *StaffService) UpdateDepartment(ctx context.Context, departmentID string, input DepartmentInput) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidDepartment(departmentID)
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.validateResponsable(ctx, input.ResponsableID); err != nil {
		return nil, err
	}
	dept.Name = input.Name
	dept.Description = input.Description
	dept.Municipality = input.Municipality
	dept.ResponsableID = input.ResponsableID
	dept.IsActive = input.IsActive
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// ListDepartments returns active departments.
func (s *StaffService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	result, err := s.departments.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

func (s *StaffService) validateResponsable(ctx context.Context, responsableID *string) error {
	if responsableID == nil {
		return nil
	}
	user, err := s.users.GetByID(ctx, *responsableID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("responsable does not exist", map[string]any{"user_id": *responsableID})
		}
		return apperrors.MapError(err)
	}
	if user.Role != domain.RoleDepartmentManager {
		return apperrors.NewValidationError("responsable must be a department manager", map[string]any{"user_id": *responsableID})
	}
	return nil
}
