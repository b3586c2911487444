package analytics

import (
	"context"
	"testing"
	"time"

	"unithrift-backend/internal/models"
	"unithrift-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAnalyticsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Listing{}, &models.Interest{}))
	return &Service{DB: db}, db
}

func seedListings(t *testing.T, db *gorm.DB, itemName string, n int, status string) []models.Listing {
	t.Helper()
	out := make([]models.Listing, 0, n)
	for i := 0; i < n; i++ {
		l := models.Listing{
			Title: itemName, ItemID: uuid.New(), ItemName: itemName,
			Description: "x", Price: 1000, Status: status, SellerID: uuid.New(),
		}
		require.NoError(t, db.Create(&l).Error)
		out = append(out, l)
	}
	return out
}

func TestMostListedItems_TopFiveOnly(t *testing.T) {
	svc, db := setupAnalyticsTest(t)
	names := []string{"Books", "Bikes", "Lamps", "Desks", "Chairs", "Phones"}
	for i, name := range names {
		seedListings(t, db, name, i+1, constants.ListingNew)
	}

	out, err := svc.MostListedItems(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 5)
	assert.Equal(t, "Phones", out[0].ItemName)
	assert.EqualValues(t, 6, out[0].Count)
	for _, row := range out {
		assert.NotEqual(t, "Books", row.ItemName)
	}
}

func TestMostInquiredItems_CountsInterests(t *testing.T) {
	svc, db := setupAnalyticsTest(t)
	books := seedListings(t, db, "Books", 1, constants.ListingNew)
	bikes := seedListings(t, db, "Bikes", 1, constants.ListingNew)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Interest{
			ListingID: books[0].ListingID, BuyerID: uuid.New(),
			Status: constants.InterestInterested,
		}).Error)
	}
	require.NoError(t, db.Create(&models.Interest{
		ListingID: bikes[0].ListingID, BuyerID: uuid.New(),
		Status: constants.InterestInterested,
	}).Error)

	out, err := svc.MostInquiredItems(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Books", out[0].ItemName)
	assert.EqualValues(t, 3, out[0].Count)
}

func TestRevenueByMonth_BucketsAndSorts(t *testing.T) {
	svc, db := setupAnalyticsTest(t)
	sold := seedListings(t, db, "Books", 3, constants.ListingSold)

	jan := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&sold[0]).UpdateColumn("updated_at", jan).Error)
	require.NoError(t, db.Model(&sold[1]).UpdateColumn("updated_at", jan).Error)
	require.NoError(t, db.Model(&sold[2]).UpdateColumn("updated_at", feb).Error)

	out, err := svc.RevenueByMonth(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "2026-01", out[0].Month)
	assert.EqualValues(t, 2000, out[0].Revenue)
	assert.EqualValues(t, 2, out[0].Sales)
	assert.Equal(t, "2026-02", out[1].Month)
	assert.EqualValues(t, 1000, out[1].Revenue)
}

func TestDashboard_Counts(t *testing.T) {
	svc, db := setupAnalyticsTest(t)
	seedListings(t, db, "Books", 2, constants.ListingNew)
	seedListings(t, db, "Bikes", 1, constants.ListingSold)
	require.NoError(t, db.Create(&models.User{
		FirstName: "A", LastName: "B", Email: "s@uni.edu",
		UserType: constants.RoleStudent, UserStatus: constants.UserActive, PasswordHash: "x",
	}).Error)

	out, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, out.TotalListings)
	assert.EqualValues(t, 1, out.TotalSold)
	assert.EqualValues(t, 1, out.TotalStudents)
}
