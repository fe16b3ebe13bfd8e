package service

import (
	"fmt"
	"os"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/cache"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/config"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	portfolio *config.Portfolio
	dataDir   string
	cache     *cache.Cache
	recorder  Recorder
}

// NewSystemService creates a new SystemService
func NewSystemService(portfolio *config.Portfolio, dataDir string, c *cache.Cache, recorder Recorder) *SystemService {
	return &SystemService{
		portfolio: portfolio,
		dataDir:   dataDir,
		cache:     c,
		recorder:  recorderOrNop(recorder),
	}
}

// CheckHealth reports whether the data directory is reachable.
func (s *SystemService) CheckHealth() error {
	info, err := os.Stat(s.dataDir)
	if err != nil {
		return fmt.Errorf("data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", s.dataDir)
	}
	return nil
}

// CheckVersion returns the application version and enabled features.
func (s *SystemService) CheckVersion() model.VersionInfo {
	return model.VersionInfo{
		AppVersion:        version.Version,
		ReportingCurrency: s.portfolio.ReportingCurrency,
		Sources:           len(s.portfolio.Sources),
		Features: map[string]bool{
			"fx_conversion": hasForeignSource(s.portfolio),
			"rebalance":     len(s.portfolio.Targets) > 0,
			"append":        len(s.portfolio.Sources) > 0,
		},
	}
}

// RefreshCache drops every cached read and quote. Returns the number of entries removed.
func (s *SystemService) RefreshCache() int {
	n := s.cache.Clear()
	s.recorder.CacheCleared()
	return n
}

func hasForeignSource(p *config.Portfolio) bool {
	for _, src := range p.Sources {
		if src.Currency != p.ReportingCurrency {
			return true
		}
	}
	return false
}
