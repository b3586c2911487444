package analytics

import (
	"context"
	"sort"

	"unithrift-backend/internal/models"
	"unithrift-backend/internal/pkg/constants"

	"gorm.io/gorm"
)

const topN = 5

// Service computes the admin dashboard figures.
type Service struct {
	DB *gorm.DB
}

// ItemCount is one row of a top-items ranking.
type ItemCount struct {
	ItemName string `json:"item_name"`
	Count    int64  `json:"count"`
}

// MonthlyRevenue is the sold value bucketed by calendar month.
type MonthlyRevenue struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
	Sales   int64  `json:"sales"`
}

// Summary is the whole dashboard in one response.
type Summary struct {
	TotalListings  int64            `json:"total_listings"`
	TotalSold      int64            `json:"total_sold"`
	TotalStudents  int64            `json:"total_students"`
	MostListed     []ItemCount      `json:"most_listed"`
	MostInquired   []ItemCount      `json:"most_inquired"`
	RevenueByMonth []MonthlyRevenue `json:"revenue_by_month"`
}

// Dashboard assembles the full admin summary.
func (s *Service) Dashboard(ctx context.Context) (*Summary, error) {
	out := &Summary{}

	db := s.DB.WithContext(ctx)
	if err := db.Model(&models.Listing{}).
		Where("is_deleted = ?", false).
		Count(&out.TotalListings).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Listing{}).
		Where("status = ?", constants.ListingSold).
		Count(&out.TotalSold).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).
		Where("user_type = ? AND is_deleted = ?", constants.RoleStudent, false).
		Count(&out.TotalStudents).Error; err != nil {
		return nil, err
	}

	var err error
	if out.MostListed, err = s.MostListedItems(ctx); err != nil {
		return nil, err
	}
	if out.MostInquired, err = s.MostInquiredItems(ctx); err != nil {
		return nil, err
	}
	if out.RevenueByMonth, err = s.RevenueByMonth(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// MostListedItems ranks item categories by listing count, top five.
func (s *Service) MostListedItems(ctx context.Context) ([]ItemCount, error) {
	var rows []ItemCount
	err := s.DB.WithContext(ctx).Model(&models.Listing{}).
		Select("item_name, COUNT(*) AS count").
		Where("is_deleted = ?", false).
		Group("item_name").
		Order("count DESC").
		Limit(topN).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MostInquiredItems ranks item categories by how many interests their
// listings received, top five.
func (s *Service) MostInquiredItems(ctx context.Context) ([]ItemCount, error) {
	var rows []ItemCount
	err := s.DB.WithContext(ctx).Model(&models.Interest{}).
		Select("listings.item_name AS item_name, COUNT(*) AS count").
		Joins("JOIN listings ON listings.listing_id = interests.listing_id").
		Group("listings.item_name").
		Order("count DESC").
		Limit(topN).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RevenueByMonth sums sold listing prices per calendar month. Grouping
// happens in Go so the query stays portable across SQL dialects.
func (s *Service) RevenueByMonth(ctx context.Context) ([]MonthlyRevenue, error) {
	var sold []models.Listing
	err := s.DB.WithContext(ctx).
		Where("status = ?", constants.ListingSold).
		Find(&sold).Error
	if err != nil {
		return nil, err
	}

	buckets := map[string]*MonthlyRevenue{}
	for _, l := range sold {
		month := l.UpdatedAt.Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &MonthlyRevenue{Month: month}
			buckets[month] = b
		}
		b.Revenue += l.Price
		b.Sales++
	}

	out := make([]MonthlyRevenue, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
