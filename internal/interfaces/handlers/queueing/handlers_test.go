package queueing

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	queuesvc "unithrift-backend/internal/application/queueing"
	"unithrift-backend/internal/middleware"
	"unithrift-backend/internal/models"
	"unithrift-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupQueueingTest(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Listing{}, &models.Interest{}, &models.ListingEvent{},
	))
	return &Handlers{Service: &queuesvc.Service{DB: db}}, db
}

func appAs(h *Handlers, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		middleware.SetAuth(c, middleware.AuthUser{UserID: userID, UserType: constants.RoleStudent})
		return c.Next()
	})
	app.Post("/queueing/mark_interested/:listing_id", h.MarkInterested)
	app.Post("/queueing/share_contact/:listing_id/:interest_id", h.ShareContact)
	app.Post("/queueing/reject_interest/:listing_id/:interest_id", h.RejectInterest)
	app.Post("/queueing/mark_sold/:listing_id/:interest_id", h.MarkSold)
	app.Get("/queueing/interested_listings", h.InterestedListings)
	app.Get("/queueing/interactions/:listing_id", h.Interactions)
	return app
}

func seedPair(t *testing.T, db *gorm.DB) (seller, buyer *models.User, listing *models.Listing) {
	t.Helper()
	seller = &models.User{FirstName: "Sam", LastName: "Seller", Email: "seller@uni.edu",
		UserType: constants.RoleStudent, UserStatus: constants.UserActive, PasswordHash: "x"}
	buyer = &models.User{FirstName: "Beth", LastName: "Buyer", Email: "buyer@uni.edu",
		UserType: constants.RoleStudent, UserStatus: constants.UserActive, PasswordHash: "x"}
	require.NoError(t, db.Create(seller).Error)
	require.NoError(t, db.Create(buyer).Error)
	listing = &models.Listing{Title: "Mini Fridge", ItemID: uuid.New(), ItemName: "Appliances",
		Description: "Works fine", Price: 4000, Status: constants.ListingNew, SellerID: seller.UserID}
	require.NoError(t, db.Create(listing).Error)
	return seller, buyer, listing
}

func TestMarkInterested_Created(t *testing.T) {
	h, db := setupQueueingTest(t)
	_, buyer, listing := seedPair(t, db)
	app := appAs(h, buyer.UserID)

	body, _ := json.Marshal(map[string]string{"comments": "still available?"})
	req := httptest.NewRequest("POST", "/queueing/mark_interested/"+listing.ListingID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "SUCCESS", result["status"])
	data, _ := result["data"].(map[string]interface{})
	assert.Equal(t, constants.InterestInterested, data["status"])
}

func TestMarkInterested_OwnListingForbidden(t *testing.T) {
	h, db := setupQueueingTest(t)
	seller, _, listing := seedPair(t, db)
	app := appAs(h, seller.UserID)

	req := httptest.NewRequest("POST", "/queueing/mark_interested/"+listing.ListingID.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "FAIL", result["status"])
	errorData, _ := result["errorData"].(map[string]interface{})
	assert.Equal(t, "SELF_INTEREST", errorData["code"])
}

func TestMarkInterested_BadUUID(t *testing.T) {
	h, db := setupQueueingTest(t)
	_, buyer, _ := seedPair(t, db)
	app := appAs(h, buyer.UserID)

	req := httptest.NewRequest("POST", "/queueing/mark_interested/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestShareContact_FullFlow(t *testing.T) {
	h, db := setupQueueingTest(t)
	seller, buyer, listing := seedPair(t, db)

	interest := &models.Interest{ListingID: listing.ListingID, BuyerID: buyer.UserID,
		Status: constants.InterestInterested}
	require.NoError(t, db.Create(interest).Error)

	app := appAs(h, seller.UserID)
	req := httptest.NewRequest("POST",
		"/queueing/share_contact/"+listing.ListingID.String()+"/"+interest.InterestID.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var stored models.Listing
	require.NoError(t, db.First(&stored, "listing_id = ?", listing.ListingID).Error)
	assert.Equal(t, constants.ListingOnHold, stored.Status)
}

func TestRejectInterest_MissingReturns404(t *testing.T) {
	h, db := setupQueueingTest(t)
	seller, _, listing := seedPair(t, db)
	app := appAs(h, seller.UserID)

	req := httptest.NewRequest("POST",
		"/queueing/reject_interest/"+listing.ListingID.String()+"/"+uuid.New().String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	errorData, _ := result["errorData"].(map[string]interface{})
	assert.Equal(t, "INTEREST_NOT_FOUND", errorData["code"])
}

func TestMarkSold_SetsBuyer(t *testing.T) {
	h, db := setupQueueingTest(t)
	seller, buyer, listing := seedPair(t, db)
	interest := &models.Interest{ListingID: listing.ListingID, BuyerID: buyer.UserID,
		Status: constants.InterestShareDetails}
	require.NoError(t, db.Create(interest).Error)
	require.NoError(t, db.Model(listing).Update("status", constants.ListingOnHold).Error)

	app := appAs(h, seller.UserID)
	req := httptest.NewRequest("POST",
		"/queueing/mark_sold/"+listing.ListingID.String()+"/"+interest.InterestID.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var stored models.Listing
	require.NoError(t, db.First(&stored, "listing_id = ?", listing.ListingID).Error)
	assert.Equal(t, constants.ListingSold, stored.Status)
	require.NotNil(t, stored.BuyerID)
	assert.Equal(t, buyer.UserID, *stored.BuyerID)
}

func TestInterestedListings_ReturnsEnrichedRows(t *testing.T) {
	h, db := setupQueueingTest(t)
	_, buyer, listing := seedPair(t, db)
	interest := &models.Interest{ListingID: listing.ListingID, BuyerID: buyer.UserID,
		Status: constants.InterestInterested}
	require.NoError(t, db.Create(interest).Error)

	app := appAs(h, buyer.UserID)
	req := httptest.NewRequest("GET", "/queueing/interested_listings", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	data, _ := result["data"].([]interface{})
	require.Len(t, data, 1)
	row, _ := data[0].(map[string]interface{})
	assert.Equal(t, "Mini Fridge", row["title"])
}

func TestInteractions_NoAuthUnauthorized(t *testing.T) {
	h, db := setupQueueingTest(t)
	_, _, listing := seedPair(t, db)

	app := fiber.New()
	app.Get("/queueing/interactions/:listing_id", h.Interactions)
	req := httptest.NewRequest("GET", "/queueing/interactions/"+listing.ListingID.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
