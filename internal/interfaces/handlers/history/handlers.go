package history

import (
	"strconv"

	histsvc "unithrift-backend/internal/application/history"
	"unithrift-backend/internal/middleware"
	"unithrift-backend/internal/pkg/constants"
	"unithrift-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *histsvc.Service
}

// Purchases GET /api/v1/history/purchases
func (h *Handlers) Purchases(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	page, pageSize := pagination(c)
	out, err := h.Service.Purchases(c.Context(), actor.UserID, page, pageSize)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

// Sales GET /api/v1/history/sales
func (h *Handlers) Sales(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	page, pageSize := pagination(c)
	out, err := h.Service.Sales(c.Context(), actor.UserID, page, pageSize)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

// SoldDetails GET /api/v1/history/sold/:listing_id
func (h *Handlers) SoldDetails(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, "")
	}
	out, err := h.Service.SoldDetails(c.Context(), actor.UserID, listingID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

// Timeline GET /api/v1/history/timeline/:listing_id
func (h *Handlers) Timeline(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, "")
	}
	isAdmin := actor.UserType == constants.RoleAdmin
	out, err := h.Service.Timeline(c.Context(), actor.UserID, isAdmin, listingID)
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
