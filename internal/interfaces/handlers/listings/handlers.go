package listings

import (
	"strconv"

	listsvc "unithrift-backend/internal/application/listings"
	"unithrift-backend/internal/middleware"
	"unithrift-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *listsvc.Service
}

// Create POST /api/v1/listing/create_listing
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	var body listsvc.CreateInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, "")
	}
	listing, err := h.Service.Create(c.Context(), actor.UserID, body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, listing)
}

// Browse GET /api/v1/listing/get_listings
func (h *Handlers) Browse(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	filter := listsvc.BrowseFilter{Search: c.Query("search")}
	filter.Page, _ = strconv.Atoi(c.Query("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.Query("page_size", "10"))

	if raw := c.Query("item_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, "Invalid UUID format for item_id", 400, "")
		}
		filter.ItemID = &id
	}
	if raw := c.Query("min_price"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return response.Error(c, "min_price must be an integer", 400, "")
		}
		filter.MinPrice = &v
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return response.Error(c, "max_price must be an integer", 400, "")
		}
		filter.MaxPrice = &v
	}

	out, err := h.Service.Browse(c.Context(), actor.UserID, filter)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

// Get GET /api/v1/listing/:listing_id
func (h *Handlers) Get(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, "")
	}
	listing, err := h.Service.GetByID(c.Context(), listingID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, listing)
}

// MyListings GET /api/v1/listing/my_listings
func (h *Handlers) MyListings(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "10"))
	out, err := h.Service.MyListings(c.Context(), actor.UserID, page, pageSize)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

// Update PATCH /api/v1/listing/:listing_id
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, "")
	}
	var body listsvc.UpdateInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, "")
	}
	listing, err := h.Service.Update(c.Context(), actor.UserID, listingID, body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, listing)
}

// Delete DELETE /api/v1/listing/:listing_id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, "")
	}
	if err := h.Service.SoftDelete(c.Context(), actor.UserID, listingID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": "Listing deleted"})
}

// ImageUploadURL POST /api/v1/listing/:listing_id/image_upload_url
func (h *Handlers) ImageUploadURL(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, "")
	}
	var body struct {
		FileName string `json:"file_name"`
	}
	if err := c.BodyParser(&body); err != nil || body.FileName == "" {
		return response.Error(c, "file_name is required", 400, "")
	}
	out, err := h.Service.ImageUploadURL(c.Context(), actor.UserID, listingID, body.FileName)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

// ImageURL GET /api/v1/listing/:listing_id/image_url
func (h *Handlers) ImageURL(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, "")
	}
	key := c.Query("key")
	if key == "" {
		return response.Error(c, "key is required", 400, "")
	}
	url, err := h.Service.ImageURL(c.Context(), listingID, key)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"url": url})
}
