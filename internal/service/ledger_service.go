package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/cache"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/config"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/sheet"
)

// AppendResult describes a completed append.
type AppendResult struct {
	OperationID string    `json:"operationId"`
	SourceID    string    `json:"sourceId"`
	Sheet       string    `json:"sheet"`
	Rows        int       `json:"rows"`
	AppendedAt  time.Time `json:"appendedAt"`
}

// LedgerService appends rows to a source's document.
// Appends do not touch the read cache; callers refresh it explicitly.
type LedgerService struct {
	portfolio  *config.Portfolio
	transports *sheet.Registry
	clock      cache.Clock
	logger     zerolog.Logger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(portfolio *config.Portfolio, transports *sheet.Registry, clock cache.Clock, logger zerolog.Logger) *LedgerService {
	if clock == nil {
		clock = cache.SystemClock{}
	}
	return &LedgerService{
		portfolio:  portfolio,
		transports: transports,
		clock:      clock,
		logger:     logger.With().Str("component", "ledger").Logger(),
	}
}

// Append writes rows after the last used row of the source's sheet, or of
// sheetName when it is not empty.
func (s *LedgerService) Append(ctx context.Context, sourceID, sheetName string, rows [][]any) (AppendResult, error) {
	src, ok := s.portfolio.Source(sourceID)
	if !ok {
		return AppendResult{}, fmt.Errorf("%w: %s", apperrors.ErrSourceNotFound, sourceID)
	}
	if len(rows) == 0 {
		return AppendResult{}, apperrors.ErrEmptyRows
	}
	for i, row := range rows {
		if len(row) == 0 {
			return AppendResult{}, fmt.Errorf("row %d: %w", i, apperrors.ErrEmptyRows)
		}
	}

	transport := s.transports.Get(src.Transport)
	if transport == nil {
		return AppendResult{}, fmt.Errorf("%w: %w %q", apperrors.ErrConfiguration, apperrors.ErrTransportNotFound, src.Transport)
	}
	if sheetName == "" {
		sheetName = src.Sheet()
	}

	result := AppendResult{
		OperationID: uuid.New().String(),
		SourceID:    src.ID,
		Sheet:       sheetName,
		Rows:        len(rows),
	}
	if err := transport.Append(ctx, src.Document, sheetName, rows); err != nil {
		s.logger.Error().Err(err).Str("operation", result.OperationID).Str("source", src.ID).Msg("append failed")
		return AppendResult{}, fmt.Errorf("appending to %s: %w", src.ID, err)
	}

	result.AppendedAt = s.clock.Now()
	s.logger.Info().Str("operation", result.OperationID).Str("source", src.ID).Int("rows", result.Rows).Msg("rows appended")
	return result, nil
}
