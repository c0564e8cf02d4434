package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baladiya/complaint-service/internal/geo"
	apperrors "github.com/baladiya/complaint-service/pkg/util"
)

// GeoHandler exposes the governorate directory so clients can populate
// location pickers.
type GeoHandler struct {
	directory *geo.Directory
}

// NewGeoHandler constructs handler.
func NewGeoHandler(directory *geo.Directory) *GeoHandler {
	return &GeoHandler{directory: directory}
}

// Governorates GET /geo/governorates.
func (h *GeoHandler) Governorates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.directory.Governorates()})
}

// Municipalities GET /geo/governorates/:name/municipalities.
func (h *GeoHandler) Municipalities(c *fiber.Ctx) error {
	name := c.Params("name")
	municipalities, ok := h.directory.Municipalities(name)
	if !ok {
		return apperrors.NewNotFound("governorate", map[string]any{"governorate": name})
	}
	return c.JSON(fiber.Map{"data": municipalities})
}
