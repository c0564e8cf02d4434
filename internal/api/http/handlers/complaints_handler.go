package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/baladiya/complaint-service/internal/api/dto"
	"github.com/baladiya/complaint-service/internal/auth"
	"github.com/baladiya/complaint-service/internal/domain"
	"github.com/baladiya/complaint-service/internal/service"
	apperrors "github.com/baladiya/complaint-service/pkg/util"
)

// ComplaintsHandler serves complaint endpoints shared by all roles; the
// policy inside the service decides per-complaint access.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	actor := auth.UserFromContext(c)
	if actor == nil || actor.Role != domain.RoleCitizen {
		return apperrors.NewForbidden("complaints are filed by citizens")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Description == "" || req.Category == "" {
		return apperrors.NewValidationError("title, description, category required", nil)
	}

	complaint, err := h.service.CreateComplaint(c.UserContext(), actor, service.ComplaintCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Urgency:      req.Urgency,
		Governorate:  req.Governorate,
		Municipality: req.Municipality,
		IsAnonymous:  req.IsAnonymous,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// List GET /complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	actor := auth.UserFromContext(c)
	complaints, err := h.service.ListComplaints(c.UserContext(), actor, parseComplaintQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintSummary, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintSummary(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	actor := auth.UserFromContext(c)
	view, err := h.service.GetComplaint(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintDetail(view)})
}

// AddComment POST /complaints/:id/comments.
func (h *ComplaintsHandler) AddComment(c *fiber.Ctx) error {
	actor := auth.UserFromContext(c)
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.service.AddComment(c.UserContext(), actor, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// History GET /complaints/:id/history.
func (h *ComplaintsHandler) History(c *fiber.Ctx) error {
	actor := auth.UserFromContext(c)
	limit := parseIntQuery(c.Query("limit"), 100)
	offset := parseIntQuery(c.Query("offset"), 0)
	history, err := h.service.ListHistory(c.UserContext(), actor, c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.HistoryResponse, 0, len(history))
	for _, entry := range history {
		items = append(items, dto.HistoryResponse{
			ID:          entry.ID,
			ChangeType:  entry.ChangeType,
			ChangedByID: entry.ChangedByID,
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseComplaintQuery(c *fiber.Ctx) service.ComplaintListFilter {
	filter := service.ComplaintListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.ComplaintStatus(strings.TrimSpace(part)))
		}
	}
	if categoryStr := c.Query("category"); categoryStr != "" {
		for _, part := range strings.Split(categoryStr, ",") {
			filter.Categories = append(filter.Categories, strings.TrimSpace(part))
		}
	}
	if municipality := c.Query("municipality"); municipality != "" {
		filter.Municipality = &municipality
	}
	if governorate := c.Query("governorate"); governorate != "" {
		filter.Governorate = &governorate
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTimeQuery(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTimeQuery(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}
	page := parseIntQuery(c.Query("page"), 1)
	pageSize := parseIntQuery(c.Query("page_size"), 20)
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTimeQuery(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseIntQuery(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}

func complaintSummary(complaint *domain.Complaint) dto.ComplaintSummary {
	return dto.ComplaintSummary{
		ID:            complaint.ID,
		Reference:     complaint.Reference,
		Title:         complaint.Title,
		Category:      complaint.Category,
		Urgency:       complaint.Urgency,
		PriorityScore: complaint.PriorityScore,
		Status:        complaint.Status,
		Governorate:   complaint.Governorate,
		Municipality:  complaint.Municipality,
		CreatedAt:     complaint.CreatedAt,
		UpdatedAt:     complaint.UpdatedAt,
	}
}

func complaintDetail(view *service.ComplaintView) dto.ComplaintDetailResponse {
	complaint := view.Complaint
	comments := make([]dto.CommentResponse, 0, len(view.Comments))
	for i := range view.Comments {
		comments = append(comments, commentResponse(&view.Comments[i]))
	}
	resp := dto.ComplaintDetailResponse{
		ID:                   complaint.ID,
		Reference:            complaint.Reference,
		Title:                complaint.Title,
		Description:          complaint.Description,
		Category:             complaint.Category,
		Urgency:              complaint.Urgency,
		PriorityScore:        complaint.PriorityScore,
		Status:               complaint.Status,
		Governorate:          complaint.Governorate,
		Municipality:         complaint.Municipality,
		AssignedDepartmentID: complaint.AssignedDepartmentID,
		AssignedToID:         complaint.AssignedToID,
		RejectionReason:      complaint.RejectionReason,
		ResolvedAt:           complaint.ResolvedAt,
		IsAnonymous:          complaint.IsAnonymous,
		Comments:             comments,
		CreatedAt:            complaint.CreatedAt,
		UpdatedAt:            complaint.UpdatedAt,
	}
	if view.Reporter != nil {
		resp.Reporter = &dto.ReporterResponse{
			ID:    view.Reporter.ID,
			Name:  view.Reporter.Name,
			Email: view.Reporter.Email,
			Phone: view.Reporter.Phone,
		}
	}
	return resp
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		AuthorID:  comment.AuthorID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
}
