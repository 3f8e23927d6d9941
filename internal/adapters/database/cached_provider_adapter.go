package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/medisched/backend/internal/domain/entities"
	"github.com/medisched/backend/internal/domain/providers"
	"github.com/medisched/backend/internal/domain/repositories"
)

// Cache TTLs (in seconds)
const (
	providerByIDTTL = 300 // 5 minutes for single provider
	providerListTTL = 180 // 3 minutes for lists
)

// Cache key generators
func providerCacheKey(id string) string {
	return fmt.Sprintf("provider:%s", id)
}

func providerListCacheKey(speciality string) string {
	if speciality == "" {
		return "providers:list:all"
	}
	return fmt.Sprintf("providers:list:%s", strings.ToLower(speciality))
}

// CachedProviderAdapter wraps ProviderAdapter with caching. Provider
// profiles change rarely, so short TTLs keep the hot read paths (slots,
// calendar, next-available) off the database without an invalidation hook.
type CachedProviderAdapter struct {
	adapter repositories.ProviderRepository
	cache   providers.CacheProvider
}

// NewCachedProviderAdapter creates a new cached provider adapter
func NewCachedProviderAdapter(adapter repositories.ProviderRepository, cache providers.CacheProvider) repositories.ProviderRepository {
	return &CachedProviderAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// GetByID retrieves a provider by ID with caching
func (a *CachedProviderAdapter) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	cacheKey := providerCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var provider entities.Provider
		unmarshalErr := json.Unmarshal(cached, &provider)
		if unmarshalErr == nil {
			return &provider, nil
		}
		log.Printf("Failed to unmarshal cached provider %s: %v", id, unmarshalErr)
	}

	provider, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(provider); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, providerByIDTTL); err != nil {
				log.Printf("Failed to cache provider %s: %v", id, err)
			}
		}
	}()

	return provider, nil
}

// List retrieves providers with caching, optionally filtered by speciality
func (a *CachedProviderAdapter) List(ctx context.Context, speciality string) ([]*entities.Provider, error) {
	cacheKey := providerListCacheKey(speciality)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var list []*entities.Provider
		unmarshalErr := json.Unmarshal(cached, &list)
		if unmarshalErr == nil {
			return list, nil
		}
		log.Printf("Failed to unmarshal cached provider list %s: %v", cacheKey, unmarshalErr)
	}

	list, err := a.adapter.List(ctx, speciality)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(list); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, providerListTTL); err != nil {
				log.Printf("Failed to cache provider list %s: %v", cacheKey, err)
			}
		}
	}()

	return list, nil
}
