package common

import (
	"strconv"

	healthsvc "unithrift-backend/internal/application/health"
	itemsvc "unithrift-backend/internal/application/items"
	unisvc "unithrift-backend/internal/application/universities"
	"unithrift-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Universities *unisvc.Service
	Items        *itemsvc.Service
	Health       *healthsvc.Service
}

// GetUniversities GET /api/v1/common/get_universities
func (h *Handlers) GetUniversities(c *fiber.Ctx) error {
	page, pageSize := pagination(c)
	out, err := h.Universities.List(c.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

// GetItemCategories GET /api/v1/common/item_categories
func (h *Handlers) GetItemCategories(c *fiber.Ctx) error {
	page, pageSize := pagination(c)
	out, err := h.Items.List(c.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

func pagination(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "10"))
	return page, pageSize
}

// HealthCheck GET /health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	status := h.Health.Check(c.Context())
	code := fiber.StatusOK
	if status.Status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(status)
}
