package healthtip

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/pkg/errors"
)

type fakeTipRepo struct {
	tips       []*model.HealthTip
	countCalls int
	offsetErr  error
}

func (f *fakeTipRepo) Count(_ context.Context) (int, error) {
	f.countCalls++
	return len(f.tips), nil
}

func (f *fakeTipRepo) GetByOffset(_ context.Context, offset int) (*model.HealthTip, error) {
	if f.offsetErr != nil {
		return nil, f.offsetErr
	}
	if offset < 0 || offset >= len(f.tips) {
		return nil, errors.NotFound("health tip", nil)
	}
	return f.tips[offset], nil
}

func (f *fakeTipRepo) ListByCategory(_ context.Context, category string) ([]*model.HealthTip, error) {
	var out []*model.HealthTip
	for _, tip := range f.tips {
		if tip.Category == category {
			out = append(out, tip)
		}
	}
	return out, nil
}

func TestRandomReturnsCatalogTip(t *testing.T) {
	repo := &fakeTipRepo{tips: []*model.HealthTip{
		{Category: "Sleep", TipText: "Keep a regular bedtime."},
	}}
	svc := NewService(repo)

	tip, err := svc.Random(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Keep a regular bedtime.", tip.TipText)
}

func TestRandomFallsBackOnEmptyCatalog(t *testing.T) {
	svc := NewService(&fakeTipRepo{})

	tip, err := svc.Random(context.Background())
	require.NoError(t, err)
	assert.Contains(t, fallbackTips, tip)
}

func TestRandomCachesCatalogCount(t *testing.T) {
	repo := &fakeTipRepo{tips: []*model.HealthTip{
		{Category: "Diet", TipText: "Eat your greens."},
	}}
	svc := NewService(repo)

	for i := 0; i < 3; i++ {
		_, err := svc.Random(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, repo.countCalls)
}

func TestRandomToleratesStaleCount(t *testing.T) {
	// A cached count can point past the end after the catalog shrinks.
	repo := &fakeTipRepo{
		tips:      []*model.HealthTip{{Category: "Focus", TipText: "Take breaks."}},
		offsetErr: errors.NotFound("health tip", nil),
	}
	svc := NewService(repo)

	tip, err := svc.Random(context.Background())
	require.NoError(t, err)
	assert.Contains(t, fallbackTips, tip)
}

func TestByCategoryDelegatesToRepo(t *testing.T) {
	repo := &fakeTipRepo{tips: []*model.HealthTip{
		{Category: "Sleep", TipText: "Keep a regular bedtime."},
		{Category: "Diet", TipText: "Eat your greens."},
	}}
	svc := NewService(repo)

	tips, err := svc.ByCategory(context.Background(), "Sleep")
	require.NoError(t, err)
	require.Len(t, tips, 1)
	assert.Equal(t, "Keep a regular bedtime.", tips[0].TipText)

	tips, err = svc.ByCategory(context.Background(), "Unknown")
	require.NoError(t, err)
	assert.Empty(t, tips)
}
