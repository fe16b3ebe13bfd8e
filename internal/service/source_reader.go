package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/cache"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/normalize"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/schema"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/sheet"
)

// Dataset is one source's range after padding, resolution and normalization.
type Dataset struct {
	SourceID   string                `json:"sourceId"`
	Header     []string              `json:"header"`
	Rows       [][]string            `json:"rows"`
	Resolution schema.Resolution     `json:"-"`
	Records    []model.HoldingRecord `json:"records"`
	Warnings   []model.Warning       `json:"warnings"`
}

// Valued reports whether market value could be located or derived for the dataset.
func (d Dataset) Valued() bool {
	return d.Resolution.Has(model.RoleMarketValue) ||
		(d.Resolution.Has(model.RoleQuantity) && d.Resolution.Has(model.RoleUnitPrice))
}

// SourceReaderService reads holdings ranges through the transport registry.
type SourceReaderService struct {
	transports *sheet.Registry
	cache      *cache.Cache
	recorder   Recorder
	logger     zerolog.Logger
}

// NewSourceReaderService creates a new SourceReaderService.
func NewSourceReaderService(transports *sheet.Registry, c *cache.Cache, recorder Recorder, logger zerolog.Logger) *SourceReaderService {
	return &SourceReaderService{
		transports: transports,
		cache:      c,
		recorder:   recorderOrNop(recorder),
		logger:     logger.With().Str("component", "source_reader").Logger(),
	}
}

// Read returns the normalized dataset of src. It never fails: transport and
// configuration problems produce an empty dataset with a warning, and such
// results are not cached so the next call retries.
func (s *SourceReaderService) Read(ctx context.Context, src model.SourceConfig) Dataset {
	key := cache.Key{Source: src.ID, Kind: cache.KindHoldings}
	return cache.GetOrLoad(s.cache, key, func() (Dataset, bool) {
		return s.load(ctx, src)
	})
}

func (s *SourceReaderService) load(ctx context.Context, src model.SourceConfig) (Dataset, bool) {
	empty := Dataset{SourceID: src.ID, Records: []model.HoldingRecord{}}

	transport := s.transports.Get(src.Transport)
	if transport == nil {
		err := fmt.Errorf("%w: %w %q", apperrors.ErrConfiguration, apperrors.ErrTransportNotFound, src.Transport)
		s.logger.Error().Err(err).Str("source", src.ID).Msg("source misconfigured")
		empty.Warnings = []model.Warning{warn(model.WarningConfiguration, src.ID, err.Error())}
		return empty, false
	}

	raw, err := transport.Read(ctx, src.Document, src.Range)
	if err != nil {
		s.recorder.TransportFailure(src.ID)
		s.logger.Warn().Err(err).Str("source", src.ID).Str("range", src.Range).Msg("source read failed")
		kind := model.WarningTransportUnavailable
		if isConfigurationFault(err) {
			kind = model.WarningConfiguration
		}
		empty.Warnings = []model.Warning{warn(kind, src.ID, err.Error())}
		return empty, false
	}

	ds := BuildDataset(src, raw)
	for _, w := range ds.Warnings {
		if w.Kind == model.WarningSchemaMismatch {
			s.logger.Warn().Str("source", src.ID).Msg(w.Message)
		}
	}
	for _, role := range ds.Resolution.Missing {
		s.recorder.SchemaMismatch(src.ID, string(role))
	}
	s.logger.Debug().Str("source", src.ID).Int("records", len(ds.Records)).Msg("source read")
	return ds, true
}

// BuildDataset turns a raw cell matrix into a dataset. Rows are padded to a
// common width before any column is addressed, and fully blank rows are dropped.
func BuildDataset(src model.SourceConfig, raw [][]string) Dataset {
	ds := Dataset{SourceID: src.ID, Records: []model.HoldingRecord{}}

	body := raw
	if src.HasHeader && len(raw) > 0 {
		ds.Header = trimAll(raw[0])
		body = raw[1:]
	}

	width := len(ds.Header)
	for _, row := range body {
		width = max(width, len(row))
	}

	ds.Rows = make([][]string, 0, len(body))
	for _, row := range body {
		if isBlankRow(row) {
			continue
		}
		ds.Rows = append(ds.Rows, pad(row, width))
	}

	ds.Resolution = schema.Resolve(ds.Header, width, src.Schema, src.Hints)
	for _, role := range ds.Resolution.Missing {
		ds.Warnings = append(ds.Warnings, warn(model.WarningSchemaMismatch, src.ID,
			fmt.Sprintf("%s: column for %q not found", apperrors.ErrSchemaMismatch, role)))
	}

	for _, row := range ds.Rows {
		ds.Records = append(ds.Records, buildRecord(src, ds.Resolution, row))
	}
	return ds
}

func buildRecord(src model.SourceConfig, res schema.Resolution, row []string) model.HoldingRecord {
	text := func(role model.Role) string {
		if idx, ok := res.Index(role); ok {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}
	number := func(role model.Role) float64 {
		if idx, ok := res.Index(role); ok {
			return normalize.String(row[idx])
		}
		return 0
	}

	rec := model.HoldingRecord{
		SourceID:     src.ID,
		Symbol:       text(model.RoleSymbol),
		Name:         text(model.RoleName),
		Category:     text(model.RoleCategory),
		Currency:     src.Currency,
		Quantity:     number(model.RoleQuantity),
		UnitPrice:    number(model.RoleUnitPrice),
		CostBasis:    number(model.RoleCostBasis),
		MarketValue:  number(model.RoleMarketValue),
		UnrealizedPL: number(model.RoleUnrealizedPL),
		ReturnRate:   number(model.RoleReturnRate),
	}
	if rec.Name == "" {
		rec.Name = rec.Symbol
	}

	if !res.Has(model.RoleMarketValue) && res.Has(model.RoleQuantity) && res.Has(model.RoleUnitPrice) {
		rec.MarketValue = rec.Quantity * rec.UnitPrice
	}
	if !res.Has(model.RoleUnrealizedPL) && res.Has(model.RoleCostBasis) {
		rec.UnrealizedPL = rec.MarketValue - rec.CostBasis
	}
	if !res.Has(model.RoleReturnRate) && rec.CostBasis > 0 {
		rec.ReturnRate = rec.UnrealizedPL / rec.CostBasis * 100
	}
	return rec
}

func isConfigurationFault(err error) bool {
	return errors.Is(err, apperrors.ErrRangeNotFound) || errors.Is(err, apperrors.ErrConfiguration)
}

func pad(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
