package amazon

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yurifrl/ynamazon/pkg/models"
)

// DefaultCacheTTL bounds how long retrieved purchase transactions are
// reused before Amazon is scraped again.
const DefaultCacheTTL = 2 * time.Hour

// Cache is a time-boxed on-disk store for aggregated purchases, keyed by
// account and retrieval window. It only exists to shortcut repeated runs
// within the TTL; a cache miss of any kind is never an error.
type Cache struct {
	dir string
	ttl time.Duration
}

func NewCache() *Cache {
	return &Cache{
		dir: filepath.Join(os.TempDir(), "ynamazon"),
		ttl: DefaultCacheTTL,
	}
}

type cacheEntry struct {
	FetchedAt time.Time                    `yaml:"fetched_at"`
	Purchases []models.PurchaseTransaction `yaml:"purchases"`
}

func (c *Cache) path(account string, years []string, days int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%d", account, strings.Join(years, ","), days)))
	return filepath.Join(c.dir, "purchases_"+hex.EncodeToString(sum[:])+".yaml")
}

// Load returns the cached purchases for the given window when they are
// still fresh.
func (c *Cache) Load(account string, years []string, days int) ([]models.PurchaseTransaction, bool) {
	data, err := os.ReadFile(c.path(account, years, days))
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := yaml.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if time.Since(entry.FetchedAt) > c.ttl {
		return nil, false
	}

	return entry.Purchases, true
}

// Store writes the purchases for the given window.
func (c *Cache) Store(account string, years []string, days int, purchases []models.PurchaseTransaction) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	data, err := yaml.Marshal(cacheEntry{
		FetchedAt: time.Now(),
		Purchases: purchases,
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	return os.WriteFile(c.path(account, years, days), data, 0o600)
}
