package healthtip

import (
	"context"
	"math/rand"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/repository"
	"github.com/swasthya/medrec-api/pkg/errors"
)

const countCacheKey = "health_tips:count"

// HealthTipService serves the read-mostly tip catalog. The catalog count is
// cached briefly so the random pick costs one query on the hot path.
type HealthTipService interface {
	Random(ctx context.Context) (*model.HealthTip, error)
	ByCategory(ctx context.Context, category string) ([]*model.HealthTip, error)
}

type Service struct {
	repo  repository.HealthTipRepository
	cache *cache.Cache
}

func NewService(repo repository.HealthTipRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(time.Minute, 5*time.Minute),
	}
}

func (s *Service) Random(ctx context.Context) (*model.HealthTip, error) {
	count, err := s.catalogCount(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return fallbackTips[rand.Intn(len(fallbackTips))], nil
	}

	tip, err := s.repo.GetByOffset(ctx, rand.Intn(count))
	if err != nil {
		// The cached count can outlive a catalog shrink.
		if errors.Is(err, errors.ErrNotFound) {
			return fallbackTips[rand.Intn(len(fallbackTips))], nil
		}
		return nil, err
	}
	return tip, nil
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]*model.HealthTip, error) {
	return s.repo.ListByCategory(ctx, category)
}

func (s *Service) catalogCount(ctx context.Context) (int, error) {
	if cached, ok := s.cache.Get(countCacheKey); ok {
		return cached.(int), nil
	}
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	s.cache.Set(countCacheKey, count, cache.DefaultExpiration)
	return count, nil
}

// fallbackTips keep the endpoint useful before the catalog is seeded.
var fallbackTips = []*model.HealthTip{
	{Category: "Hydration", TipText: "Drink at least 3 liters of water today to verify hydration levels."},
	{Category: "Activity", TipText: "Take a 15-minute walk after meals to improve digestion."},
	{Category: "Sleep", TipText: "Avoid screens 1 hour before bed for better sleep quality."},
	{Category: "Nutrition", TipText: "Include protein in your breakfast to improve satiety throughout the day."},
	{Category: "Mental Health", TipText: "Practice deep breathing for 5 minutes when feeling stressed."},
	{Category: "Eye Care", TipText: "Follow the 20-20-20 rule: Every 20 mins, look at something 20 feet away for 20 secs."},
	{Category: "Posture", TipText: "Sit up straight! Good posture prevents back pain and boosts confidence."},
	{Category: "Immunity", TipText: "Eat more citrus fruits to boost your Vitamin C intake."},
	{Category: "Focus", TipText: "Take short breaks every hour to maintain high productivity."},
	{Category: "Heart Health", TipText: "Reduce salt intake to maintain healthy blood pressure levels."},
	{Category: "Skin Care", TipText: "Wear sunscreen daily, even when indoors, to protect against UV rays."},
	{Category: "Wellness", TipText: "Laugh more! It lowers stress hormones and strengthens your immune system."},
	{Category: "Diet", TipText: "Eat a rainbow of vegetables to get a wide range of nutrients."},
	{Category: "Hygiene", TipText: "Wash your hands frequently to prevent the spread of infections."},
	{Category: "Mindfulness", TipText: "Spend 5 minutes meditating today to clear your mind."},
}
