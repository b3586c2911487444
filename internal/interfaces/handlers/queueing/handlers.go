package queueing

import (
	"context"
	"strconv"

	queuesvc "unithrift-backend/internal/application/queueing"
	"unithrift-backend/internal/middleware"
	"unithrift-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *queuesvc.Service
}

// MarkInterested POST /api/v1/queueing/mark_interested/:listing_id
func (h *Handlers) MarkInterested(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, "")
	}
	var body struct {
		Comments string `json:"comments"`
	}
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return response.Error(c, "Invalid request body", 400, "")
	}

	interest, err := h.Service.MarkInterested(c.Context(), actor.UserID, listingID, body.Comments)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, interest)
}

// ShareContact POST /api/v1/queueing/share_contact/:listing_id/:interest_id
func (h *Handlers) ShareContact(c *fiber.Ctx) error {
	return h.sellerAction(c, h.Service.ShareContact, "Contact details shared")
}

// RejectInterest POST /api/v1/queueing/reject_interest/:listing_id/:interest_id
func (h *Handlers) RejectInterest(c *fiber.Ctx) error {
	return h.sellerAction(c, h.Service.RejectInterest, "Interest rejected")
}

// MarkSold POST /api/v1/queueing/mark_sold/:listing_id/:interest_id
func (h *Handlers) MarkSold(c *fiber.Ctx) error {
	return h.sellerAction(c, h.Service.MarkSaleComplete, "Listing marked as sold")
}

// InterestedListings GET /api/v1/queueing/interested_listings
func (h *Handlers) InterestedListings(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	page, pageSize := pagination(c)
	out, err := h.Service.GetInterestedListings(c.Context(), actor.UserID, page, pageSize)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

// Interactions GET /api/v1/queueing/interactions/:listing_id
func (h *Handlers) Interactions(c *fiber.Ctx) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, "")
	}
	out, err := h.Service.GetListingInteractions(c.Context(), actor.UserID, listingID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, out)
}

type sellerOp func(ctx context.Context, sellerID, listingID, interestID uuid.UUID) error

// sellerAction handles the shared shape of the three seller transitions:
// two UUID path params, no body, a message on success.
func (h *Handlers) sellerAction(c *fiber.Ctx, op sellerOp, message string) error {
	actor, ok := middleware.Auth(c)
	if !ok {
		return response.Unauthorized(c, "Missing authentication")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for listing_id", 400, "")
	}
	interestID, err := uuid.Parse(c.Params("interest_id"))
	if err != nil {
		return response.Error(c, "Invalid UUID format for interest_id", 400, "")
	}
	if err := op(c.Context(), actor.UserID, listingID, interestID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"message": message})
}

func pagination(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "10"))
	return page, pageSize
}
