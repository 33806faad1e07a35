package categories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

// countingRepository tracks how often the backing store is hit.
type countingRepository struct {
	*InMemoryRepository
	listCalls int
}

func (r *countingRepository) List(ctx context.Context) ([]Category, error) {
	r.listCalls++
	return r.InMemoryRepository.List(ctx)
}

func newCachedRepo(t *testing.T) (*CachedRepository, *countingRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	inner := &countingRepository{InMemoryRepository: NewInMemoryRepository()}
	return NewCachedRepository(inner, client, time.Minute, logging.Default()), inner, mr
}

func TestCachedListHitsStoreOnce(t *testing.T) {
	repo, inner, _ := newCachedRepo(t)
	_, err := inner.Create(t.Context(), &CreateCategoryRequest{Name: "Cardiology"})
	require.NoError(t, err)

	first, err := repo.List(t.Context())
	require.NoError(t, err)
	second, err := repo.List(t.Context())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.listCalls, "second List must be served from cache")
}

func TestCreateInvalidatesCache(t *testing.T) {
	repo, inner, _ := newCachedRepo(t)

	_, err := repo.List(t.Context())
	require.NoError(t, err)

	_, err = repo.Create(t.Context(), &CreateCategoryRequest{Name: "Dermatology"})
	require.NoError(t, err)

	list, err := repo.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 2, inner.listCalls, "create must invalidate the cached list")
}

func TestDeleteInvalidatesCache(t *testing.T) {
	repo, _, _ := newCachedRepo(t)

	created, err := repo.Create(t.Context(), &CreateCategoryRequest{Name: "Cardiology"})
	require.NoError(t, err)

	_, err = repo.List(t.Context())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(t.Context(), created.ID))

	list, err := repo.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCorruptCacheEntryFallsThrough(t *testing.T) {
	repo, _, mr := newCachedRepo(t)
	require.NoError(t, mr.Set(cacheKey, "not json"))

	list, err := repo.List(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, list)
}

func TestNilRedisDisablesCaching(t *testing.T) {
	inner := &countingRepository{InMemoryRepository: NewInMemoryRepository()}
	repo := NewCachedRepository(inner, nil, time.Minute, logging.Default())

	_, err := repo.List(t.Context())
	require.NoError(t, err)
	_, err = repo.List(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.listCalls)
}


