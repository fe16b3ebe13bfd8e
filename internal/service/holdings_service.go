package service

import (
	"context"
	"fmt"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/config"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
)

// HoldingsService exposes configured sources and their normalized records.
type HoldingsService struct {
	portfolio *config.Portfolio
	reader    *SourceReaderService
}

// NewHoldingsService creates a new HoldingsService.
func NewHoldingsService(portfolio *config.Portfolio, reader *SourceReaderService) *HoldingsService {
	return &HoldingsService{
		portfolio: portfolio,
		reader:    reader,
	}
}

// Sources returns every configured source in file order.
func (s *HoldingsService) Sources() []model.SourceConfig {
	return s.portfolio.Sources
}

// Holdings reads one source by id.
// Returns apperrors.ErrSourceNotFound when no source has that id.
func (s *HoldingsService) Holdings(ctx context.Context, sourceID string) (Dataset, error) {
	src, ok := s.portfolio.Source(sourceID)
	if !ok {
		return Dataset{}, fmt.Errorf("%w: %s", apperrors.ErrSourceNotFound, sourceID)
	}
	return s.reader.Read(ctx, src), nil
}
