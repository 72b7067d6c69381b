package report

import (
	"strings"

	"github.com/Tincho2002/dotacion-assa-2025/internal/memo"
	"github.com/Tincho2002/dotacion-assa-2025/internal/roster"
)

// Cache memoizes dashboards by dataset, selection and detail period.
type Cache struct {
	dashboards *memo.Cache[*Dashboard]
}

// NewCache returns a cache holding at most capacity dashboards.
func NewCache(capacity int) *Cache {
	return &Cache{dashboards: memo.New[*Dashboard](capacity)}
}

// Dashboard returns the dashboard for ds, building it on a miss.
func (c *Cache) Dashboard(ds *roster.Dataset, sel roster.Selection, period string) *Dashboard {
	period = ResolvePeriod(DetailPeriods(ds.Table, sel), period)
	key := ds.Key + "\x00" + sel.Key() + "\x00" + period
	d, _, _ := c.dashboards.Do(key, func() (*Dashboard, error) {
		return Build(ds.Key, ds.Table, sel, period), nil
	})
	return d
}

// Forget drops every dashboard of a dataset.
func (c *Cache) Forget(datasetKey string) int {
	prefix := datasetKey + "\x00"
	return c.dashboards.RemoveFunc(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

// Stats reports cache counters.
func (c *Cache) Stats() memo.Stats {
	return c.dashboards.Stats()
}
