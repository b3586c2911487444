package admin

import (
	"strconv"

	acctsvc "unithrift-backend/internal/application/accounts"
	analyticssvc "unithrift-backend/internal/application/analytics"
	itemsvc "unithrift-backend/internal/application/items"
	listsvc "unithrift-backend/internal/application/listings"
	unisvc "unithrift-backend/internal/application/universities"
	"unithrift-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Accounts     *acctsvc.Service
	Items        *itemsvc.Service
	Listings     *listsvc.Service
	Analytics    *analyticssvc.Service
	Universities *unisvc.Service
}

// ListStudents GET /api/v1/admin/students
func (h *Handlers) ListStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "10"))
	out, err := h.Accounts.ListStudents(c.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

// GetStudent GET /api/v1/admin/students/:user_id
func (h *Handlers) GetStudent(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for user_id", 400, "")
	}
	user, err := h.Accounts.GetProfile(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, user)
}

// DeleteListing DELETE /api/v1/admin/listings/:listing_id
func (h *Handlers) DeleteListing(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, "")
	}
	if err := h.Listings.AdminSoftDelete(c.Context(), listingID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "Listing deleted"})
}

// SetUserStatus PATCH /api/v1/admin/students/:user_id/status
func (h *Handlers) SetUserStatus(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for user_id", 400, "")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || body.Status == "" {
		return response.Error(c, "status is required", 400, "")
	}
	if err := h.Accounts.SetUserStatus(c.Context(), userID, body.Status); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "User status updated"})
}

// CreateItem POST /api/v1/admin/item_categories
func (h *Handlers) CreateItem(c *fiber.Ctx) error {
	var body itemsvc.CreateInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, "")
	}
	item, err := h.Items.Create(c.Context(), body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, item)
}

// UpdateItem PATCH /api/v1/admin/item_categories/:item_id
func (h *Handlers) UpdateItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for item_id", 400, "")
	}
	var body itemsvc.CreateInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, "")
	}
	item, err := h.Items.Update(c.Context(), itemID, body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, item)
}

// DeleteItem DELETE /api/v1/admin/item_categories/:item_id
func (h *Handlers) DeleteItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("item_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for item_id", 400, "")
	}
	if err := h.Items.SoftDelete(c.Context(), itemID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "Item category deleted"})
}

// CreateUniversity POST /api/v1/admin/universities
func (h *Handlers) CreateUniversity(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" {
		return response.Error(c, "name is required", 400, "")
	}
	uni, err := h.Universities.Create(c.Context(), body.Name)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, uni)
}

// Dashboard GET /api/v1/admin/analytics/dashboard
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	out, err := h.Analytics.Dashboard(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

// MostListed GET /api/v1/admin/analytics/most_listed
func (h *Handlers) MostListed(c *fiber.Ctx) error {
	out, err := h.Analytics.MostListedItems(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

// MostInquired GET /api/v1/admin/analytics/most_inquired
func (h *Handlers) MostInquired(c *fiber.Ctx) error {
	out, err := h.Analytics.MostInquiredItems(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

// RevenueByMonth GET /api/v1/admin/analytics/revenue_by_month
func (h *Handlers) RevenueByMonth(c *fiber.Ctx) error {
	out, err := h.Analytics.RevenueByMonth(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}
