package health

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Service reports dependency liveness for the health endpoint.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// Status is the health payload.
type Status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Check pings both stores with a short deadline.
func (s *Service) Check(ctx context.Context) *Status {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out := &Status{Status: "ok", Database: "up", Redis: "up"}

	sqlDB, err := s.DB.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		out.Database = "down"
		out.Status = "degraded"
	}
	if s.Rdb == nil || s.Rdb.Ping(ctx).Err() != nil {
		out.Redis = "down"
		out.Status = "degraded"
	}
	return out
}
