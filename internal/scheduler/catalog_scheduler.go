package scheduler

import (
	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// TreeRefresher rebuilds the cached category tree.
type TreeRefresher interface {
	RefreshTreeCache() error
}

// ProductCacheFlusher drops cached product reads.
type ProductCacheFlusher interface {
	FlushCache()
}

// CatalogScheduler periodically flushes product reads and rebuilds the
// category tree in the catalog cache.
type CatalogScheduler struct {
	cron     *cron.Cron
	spec     string
	tree     TreeRefresher
	products ProductCacheFlusher
}

func NewCatalogScheduler(spec string, tree TreeRefresher, products ProductCacheFlusher) *CatalogScheduler {
	return &CatalogScheduler{
		cron:     cron.New(),
		spec:     spec,
		tree:     tree,
		products: products,
	}
}

// Start registers the refresh job and starts the cron runner. An empty spec
// leaves the scheduler idle.
func (s *CatalogScheduler) Start() error {
	if s.spec == "" {
		logger.Info("Catalog cache refresh disabled", nil)
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, s.RefreshCatalog)
	if err != nil {
		logger.Error("Failed to add cron job for catalog cache refresh", err, map[string]interface{}{
			"schedule": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Catalog scheduler started", map[string]interface{}{
		"schedule": s.spec,
	})
	return nil
}

// RefreshCatalog runs one refresh cycle.
func (s *CatalogScheduler) RefreshCatalog() {
	logger.Debug("Starting scheduled catalog cache refresh", nil)

	s.products.FlushCache()
	if err := s.tree.RefreshTreeCache(); err != nil {
		logger.Error("Failed to refresh category tree cache", err)
		return
	}

	logger.Debug("Catalog cache refreshed", nil)
}

func (s *CatalogScheduler) Stop() {
	logger.Info("Stopping catalog scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Catalog scheduler stopped", nil)
}
