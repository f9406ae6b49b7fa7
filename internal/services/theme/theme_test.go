package theme

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchant-portal/internal/models"
)

func countingFetch(calls map[string]int, themes map[string]*models.TenantTheme) FetchFunc {
	return func(subdomain string) (*models.TenantTheme, error) {
		calls[subdomain]++
		return themes[subdomain], nil
	}
}

func TestGetByTenantCachesHits(t *testing.T) {
	calls := map[string]int{}
	c := NewCache(countingFetch(calls, map[string]*models.TenantTheme{
		"acme": {Subdomain: "acme", DisplayName: "Acme Pay"},
	}))

	for i := 0; i < 5; i++ {
		theme, err := c.GetByTenant("acme")
		require.NoError(t, err)
		require.NotNil(t, theme)
		assert.Equal(t, "Acme Pay", theme.DisplayName)
	}

	assert.Equal(t, 1, calls["acme"])
}

func TestGetByTenantAbsentThemeIsNotAnError(t *testing.T) {
	calls := map[string]int{}
	c := NewCache(countingFetch(calls, nil))

	theme, err := c.GetByTenant("ghost")
	require.NoError(t, err)
	assert.Nil(t, theme)

	// The miss is cached too.
	_, err = c.GetByTenant("ghost")
	require.NoError(t, err)
	assert.Equal(t, 1, calls["ghost"])
}

func TestInvalidateOneForcesSingleRefetch(t *testing.T) {
	calls := map[string]int{}
	c := NewCache(countingFetch(calls, map[string]*models.TenantTheme{
		"acme": {Subdomain: "acme"},
	}))

	_, err := c.GetByTenant("acme")
	require.NoError(t, err)
	require.Equal(t, 1, calls["acme"])

	c.InvalidateOne("acme")

	_, err = c.GetByTenant("acme")
	require.NoError(t, err)
	assert.Equal(t, 2, calls["acme"], "invalidation must bypass cache and hit the store exactly once")

	_, err = c.GetByTenant("acme")
	require.NoError(t, err)
	assert.Equal(t, 2, calls["acme"])
}

func TestInvalidateOnePurgesAllTenants(t *testing.T) {
	calls := map[string]int{}
	c := NewCache(countingFetch(calls, map[string]*models.TenantTheme{
		"acme":  {Subdomain: "acme"},
		"globo": {Subdomain: "globo"},
	}))

	_, _ = c.GetByTenant("acme")
	_, _ = c.GetByTenant("globo")

	// Policy: one tenant's invalidation also purges the shared tag.
	c.InvalidateOne("acme")

	_, _ = c.GetByTenant("globo")
	assert.Equal(t, 2, calls["globo"])
}

func TestExpiredEntriesRefetch(t *testing.T) {
	calls := map[string]int{}
	c := NewCache(countingFetch(calls, map[string]*models.TenantTheme{
		"acme": {Subdomain: "acme"},
	}))

	current := time.Now()
	c.now = func() time.Time { return current }

	_, _ = c.GetByTenant("acme")
	require.Equal(t, 1, calls["acme"])

	current = current.Add(cacheTTL + time.Second)

	_, _ = c.GetByTenant("acme")
	assert.Equal(t, 2, calls["acme"], "entries past TTL must not be served")
}
