package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const cacheTTL = 5 * time.Minute

//go:generate mockgen -source=roster_service.go -destination=mock/roster_service_mock.go -package=mock
type Service interface {
	// FindByPhone returns (nil, nil) for phones not on the roster.
	FindByPhone(ctx context.Context, phone string) (*StaffMember, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	group  singleflight.Group
	logger *zap.Logger
}

// NewService builds a read-through cached roster lookup. rdb may be nil, in
// which case every lookup hits the database.
func NewService(repo Repository, rdb *redis.Client, logger *zap.Logger) Service {
	return &service{repo: repo, rdb: rdb, logger: logger.Named("roster")}
}

func (s *service) FindByPhone(ctx context.Context, phone string) (*StaffMember, error) {
	if cached, ok := s.fromCache(ctx, phone); ok {
		return cached, nil
	}

	// Webhook retries arrive in bursts; collapse concurrent lookups for the
	// same phone into one query.
	v, err, _ := s.group.Do(phone, func() (any, error) {
		member, err := s.repo.FindByPhone(ctx, phone)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return (*StaffMember)(nil), nil
			}
			return nil, err
		}
		return member, nil
	})
	if err != nil {
		return nil, err
	}

	member := v.(*StaffMember)
	if member != nil {
		s.toCache(ctx, phone, member)
	}
	return member, nil
}

func (s *service) fromCache(ctx context.Context, phone string) (*StaffMember, bool) {
	if s.rdb == nil {
		return nil, false
	}

	raw, err := s.rdb.Get(ctx, cacheKey(phone)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("roster cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var member StaffMember
	if err := json.Unmarshal([]byte(raw), &member); err != nil {
		s.logger.Warn("roster cache entry corrupt", zap.String("phone", phone), zap.Error(err))
		return nil, false
	}
	return &member, true
}

func (s *service) toCache(ctx context.Context, phone string, member *StaffMember) {
	if s.rdb == nil {
		return
	}

	raw, err := json.Marshal(member)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey(phone), raw, cacheTTL).Err(); err != nil {
		s.logger.Warn("roster cache write failed", zap.Error(err))
	}
}

func cacheKey(phone string) string {
	return fmt.Sprintf("roster:%s", phone)
}
