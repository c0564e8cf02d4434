package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baladiya/complaint-service/internal/api/http/handlers"
	"github.com/baladiya/complaint-service/internal/auth"
	"github.com/baladiya/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Users           *handlers.UsersHandler
	Complaints      *handlers.ComplaintsHandler
	StaffComplaints *handlers.StaffComplaintsHandler
	Departments     *handlers.DepartmentsHandler
	Geo             *handlers.GeoHandler
	AuthMiddleware  *auth.AuthMiddleware
	RateLimiter     fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	geoGroup := app.Group("/geo")
	geoGroup.Get("/governorates", cfg.Geo.Governorates)
	geoGroup.Get("/governorates/:name/municipalities", cfg.Geo.Municipalities)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Post("/password/change", cfg.Users.ChangePassword)
	authProtected.Get("/me", cfg.Users.Me)

	// The policy decides per-complaint access for every caller; the route
	// guards only split citizen intake from staff mutations.
	complaints := app.Group("/complaints", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	complaints.Post("", cfg.RateLimiter, cfg.Complaints.Create)
	complaints.Get("", cfg.Complaints.List)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Post("/:id/comments", cfg.Complaints.AddComment)
	complaints.Get("/:id/history", cfg.Complaints.History)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	staff.Get("/technicians", cfg.Users.ListTechnicians)
	staff.Patch("/complaints/:id/status", cfg.StaffComplaints.UpdateStatus)
	staff.Patch("/complaints/:id/assignee", cfg.StaffComplaints.AssignTechnician)
	staff.Patch("/complaints/:id/department", cfg.StaffComplaints.AssignDepartment)
	staff.Patch("/complaints/:id/priority", cfg.StaffComplaints.UpdatePriority)

	departments := app.Group("/departments", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	departments.Get("", cfg.Departments.List)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Post("/staff", cfg.Users.CreateStaff)
	admin.Get("/staff", cfg.Users.ListStaff)
	admin.Patch("/staff/:id/active", cfg.Users.SetActive)
	admin.Post("/departments", cfg.Departments.Create)
	admin.Put("/departments/:id", cfg.Departments.Update)
}
