// Package theme resolves a tenant subdomain to its theme record through a
// TTL + tag cache, so page renders never hit the database on the hot path.
package theme

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"merchant-portal/internal/database"
	"merchant-portal/internal/models"
)

const (
	cacheTTL = time.Hour

	// tagAll groups every cached theme; tagTenantPrefix groups one tenant.
	tagAll          = "theme"
	tagTenantPrefix = "tenant-"
)

// FetchFunc loads a theme from the underlying store. A nil theme with nil
// error means the subdomain has no theme, which is not a failure.
type FetchFunc func(subdomain string) (*models.TenantTheme, error)

type entry struct {
	theme     *models.TenantTheme
	expiresAt time.Time
	tags      []string
}

// Cache is a read-mostly subdomain → theme cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	fetch   FetchFunc
	now     func() time.Time
}

func NewCache(fetch FetchFunc) *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		fetch:   fetch,
		now:     time.Now,
	}
}

// GetByTenant returns the theme for subdomain, or nil when the tenant has no
// theme (callers fall back to default tokens). Expired entries are refetched.
func (c *Cache) GetByTenant(subdomain string) (*models.TenantTheme, error) {
	c.mu.RLock()
	e, ok := c.entries[subdomain]
	c.mu.RUnlock()

	if ok && c.now().Before(e.expiresAt) {
		return e.theme, nil
	}

	theme, err := c.fetch(subdomain)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[subdomain] = &entry{
		theme:     theme,
		expiresAt: c.now().Add(cacheTTL),
		tags:      []string{tagAll, tagTenantPrefix + subdomain},
	}
	c.mu.Unlock()

	return theme, nil
}

// InvalidateOne purges the given tenant's entry. It intentionally also
// purges the shared "theme" tag, evicting every tenant's cached theme — the
// original product behaves this way and downstream pages rely on a
// revalidation of one tenant refreshing all of them.
func (c *Cache) InvalidateOne(subdomain string) {
	c.purgeTags(tagTenantPrefix+subdomain, tagAll)
}

// InvalidateAll purges every cached theme.
func (c *Cache) InvalidateAll() {
	c.purgeTags(tagAll)
}

func (c *Cache) purgeTags(tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		for _, tag := range tags {
			if hasTag(e, tag) {
				delete(c.entries, key)
				break
			}
		}
	}
}

func hasTag(e *entry, tag string) bool {
	for _, t := range e.tags {
		if t == tag {
			return true
		}
	}
	return false
}

var defaultCache = NewCache(fetchFromDB)

func fetchFromDB(subdomain string) (*models.TenantTheme, error) {
	var theme models.TenantTheme
	err := database.DB.Where("subdomain = ?", subdomain).First(&theme).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &theme, nil
}

// GetByTenant resolves through the process-wide cache.
func GetByTenant(subdomain string) (*models.TenantTheme, error) {
	return defaultCache.GetByTenant(subdomain)
}

// InvalidateOne purges one tenant (and, by policy, all cached themes).
func InvalidateOne(subdomain string) {
	defaultCache.InvalidateOne(subdomain)
}

// InvalidateAll purges every cached theme.
func InvalidateAll() {
	defaultCache.InvalidateAll()
}
