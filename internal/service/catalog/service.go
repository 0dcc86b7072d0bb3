package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/petminded/petcare-api/internal/model"
	"github.com/petminded/petcare-api/internal/repository"
	apperrors "github.com/petminded/petcare-api/pkg/errors"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Service reads caretaker listings. Listings change rarely and every booking
// transition reads one, so lookups are cached with a short TTL.
type Service struct {
	repo  repository.OfferedServiceRepository
	cache *cache.Cache
}

func NewService(repo repository.OfferedServiceRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) GetOfferedService(ctx context.Context, id int64) (*model.OfferedService, error) {
	key := strconv.FormatInt(id, 10)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.OfferedService), nil
	}

	offered, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if offered == nil {
		return nil, apperrors.NotExists("offered service")
	}

	s.cache.Set(key, offered, cache.DefaultExpiration)
	return offered, nil
}
