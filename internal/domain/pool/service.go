package pool

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/dosing"
	"github.com/AlexHuggler/LCI-tracker/internal/domain/lsi"
	apperrors "github.com/AlexHuggler/LCI-tracker/pkg/errors"
	"github.com/AlexHuggler/LCI-tracker/pkg/util"
)

// Service exposes pool, service-log and dosing capabilities.
type Service interface {
	Calculate(ctx context.Context, req CalculateRequest) (CalculationResponse, error)
	CreatePool(ctx context.Context, req CreatePoolRequest) (Pool, error)
	GetPool(ctx context.Context, id uuid.UUID) (Pool, error)
	ListPools(ctx context.Context, req ListPoolsRequest) ([]Pool, error)
	ReorderRoute(ctx context.Context, req ReorderRouteRequest) ([]Pool, error)
	UpdateReadings(ctx context.Context, id uuid.UUID, req UpdateReadingsRequest) (Pool, error)
	RecommendForPool(ctx context.Context, id uuid.UUID) (CalculationResponse, error)
	Prefill(ctx context.Context, id uuid.UUID) (lsi.Reading, error)
	LogService(ctx context.Context, id uuid.UUID, req LogServiceRequest) (LogServiceResponse, error)
	Profit(ctx context.Context, id uuid.UUID, billingPeriodDays int) (PoolProfit, error)
	ProfitReport(ctx context.Context, billingPeriodDays int) (ProfitReport, error)
	Inventory(ctx context.Context) ([]InventoryItem, error)
	UpsertInventory(ctx context.Context, item InventoryItem) (InventoryItem, error)
	SeedInventory(ctx context.Context) error
}

type service struct {
	cfg       Config
	repo      Repository
	inventory InventoryRepository
	cache     ReadingCache
	recorder  Recorder
	logger    *slog.Logger
	now       util.Clock
}

// NewService wires up the pool domain.
func NewService(cfg Config, repo Repository, inventory InventoryRepository, cache ReadingCache, recorder Recorder, logger *slog.Logger) Service {
	if cfg.DefaultVolumeGallons <= 0 {
		cfg.DefaultVolumeGallons = DefaultVolumeGallons
	}
	if cfg.DefaultTDS <= 0 {
		cfg.DefaultTDS = lsi.DefaultTDS
	}
	if cfg.BillingPeriodDays <= 0 {
		cfg.BillingPeriodDays = dosing.DefaultBillingPeriodDays
	}
	return &service{
		cfg:       cfg,
		repo:      repo,
		inventory: inventory,
		cache:     cache,
		recorder:  recorder,
		logger:    logger.With("component", "pool.service"),
		now:       util.NowUTC,
	}
}

func (s *service) Calculate(ctx context.Context, req CalculateRequest) (CalculationResponse, error) {
	reading := lsi.Reading{
		PH:              req.PH,
		WaterTempF:      req.WaterTempF,
		CalciumHardness: req.CalciumHardness,
		TotalAlkalinity: req.TotalAlkalinity,
		TDS:             valueOr(req.TDS, s.cfg.DefaultTDS),
	}
	volume := valueOr(req.PoolVolumeGallons, s.cfg.DefaultVolumeGallons)
	if err := validateReadings(reading.PH, reading.WaterTempF, reading.CalciumHardness, reading.TotalAlkalinity, reading.TDS); err != nil {
		return CalculationResponse{}, err
	}
	if err := volumeBounds.check(volume); err != nil {
		return CalculationResponse{}, err
	}

	resp, err := s.evaluate(ctx, reading, volume)
	if err != nil {
		return CalculationResponse{}, err
	}
	s.record(ctx, uuid.Nil, reading, resp)
	return resp, nil
}

func (s *service) CreatePool(ctx context.Context, req CreatePoolRequest) (Pool, error) {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return Pool{}, apperrors.Wrap(apperrors.CodeInvalidInput, "customerName cannot be empty", nil)
	}
	now := s.now()
	p := Pool{
		ID:                   uuid.New(),
		CustomerName:         name,
		Address:              strings.TrimSpace(req.Address),
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		WaterTempF:           valueOr(req.WaterTempF, DefaultWaterTempF),
		PH:                   valueOr(req.PH, DefaultPH),
		CalciumHardness:      valueOr(req.CalciumHardness, DefaultCalciumHardness),
		TotalAlkalinity:      valueOr(req.TotalAlkalinity, DefaultTotalAlkalinity),
		TotalDissolvedSolids: valueOr(req.TDS, s.cfg.DefaultTDS),
		MonthlyServiceFee:    valueOr(req.MonthlyServiceFee, DefaultMonthlyServiceFee),
		PoolVolumeGallons:    valueOr(req.PoolVolumeGallons, s.cfg.DefaultVolumeGallons),
		Notes:                req.Notes,
		ServiceDayOfWeek:     DefaultServiceDayOfWeek,
		RouteOrder:           req.RouteOrder,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if req.ServiceDayOfWeek != nil {
		p.ServiceDayOfWeek = *req.ServiceDayOfWeek
	}
	if err := validateReadings(p.PH, p.WaterTempF, p.CalciumHardness, p.TotalAlkalinity, p.TotalDissolvedSolids); err != nil {
		return Pool{}, err
	}
	if err := volumeBounds.check(p.PoolVolumeGallons); err != nil {
		return Pool{}, err
	}
	if err := validateDay(p.ServiceDayOfWeek, false); err != nil {
		return Pool{}, err
	}
	if p.MonthlyServiceFee < 0 {
		return Pool{}, apperrors.Wrap(apperrors.CodeInvalidInput, "monthlyServiceFee cannot be negative", nil)
	}

	if err := s.repo.CreatePool(ctx, p); err != nil {
		return Pool{}, apperrors.Wrap(apperrors.CodeStorage, "failed to create pool", err)
	}
	s.logger.Info("pool created", "pool_id", p.ID, "day", p.ServiceDayOfWeek)
	return p, nil
}

func (s *service) GetPool(ctx context.Context, id uuid.UUID) (Pool, error) {
	p, ok, err := s.repo.GetPool(ctx, id)
	if err != nil {
		return Pool{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load pool", err)
	}
	if !ok {
		return Pool{}, apperrors.Wrap(apperrors.CodeNotFound, "pool not found", nil)
	}
	return p, nil
}

func (s *service) ListPools(ctx context.Context, req ListPoolsRequest) ([]Pool, error) {
	if err := validateDay(req.DayOfWeek, true); err != nil {
		return nil, err
	}
	all, err := s.repo.ListPools(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to list pools", err)
	}
	out := make([]Pool, 0, len(all))
	for _, p := range all {
		if req.DayOfWeek != 0 && p.ServiceDayOfWeek != req.DayOfWeek {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RouteOrder != out[j].RouteOrder {
			return out[i].RouteOrder < out[j].RouteOrder
		}
		return out[i].CustomerName < out[j].CustomerName
	})
	return out, nil
}

func (s *service) ReorderRoute(ctx context.Context, req ReorderRouteRequest) ([]Pool, error) {
	if err := validateDay(req.DayOfWeek, false); err != nil {
		return nil, err
	}
	if len(req.PoolIDs) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "poolIds cannot be empty", nil)
	}
	seen := make(map[uuid.UUID]struct{}, len(req.PoolIDs))
	pools := make([]Pool, 0, len(req.PoolIDs))
	for _, id := range req.PoolIDs {
		if _, dup := seen[id]; dup {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "poolIds cannot contain duplicates", nil)
		}
		seen[id] = struct{}{}
		p, err := s.GetPool(ctx, id)
		if err != nil {
			return nil, err
		}
		if p.ServiceDayOfWeek != req.DayOfWeek {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "pool "+id.String()+" is not serviced on the requested day", nil)
		}
		pools = append(pools, p)
	}

	now := s.now()
	for index, p := range pools {
		if p.RouteOrder == index {
			continue
		}
		p.RouteOrder = index
		p.UpdatedAt = now
		if err := s.repo.UpdatePool(ctx, p); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to reorder route", err)
		}
	}
	s.logger.Info("route reordered", "day", req.DayOfWeek, "pools", len(pools))
	return s.ListPools(ctx, ListPoolsRequest{DayOfWeek: req.DayOfWeek})
}

func (s *service) UpdateReadings(ctx context.Context, id uuid.UUID, req UpdateReadingsRequest) (Pool, error) {
	p, err := s.GetPool(ctx, id)
	if err != nil {
		return Pool{}, err
	}
	tds := valueOr(req.TDS, p.TotalDissolvedSolids)
	if err := validateReadings(req.PH, req.WaterTempF, req.CalciumHardness, req.TotalAlkalinity, tds); err != nil {
		return Pool{}, err
	}
	p.PH = req.PH
	p.WaterTempF = req.WaterTempF
	p.CalciumHardness = req.CalciumHardness
	p.TotalAlkalinity = req.TotalAlkalinity
	p.TotalDissolvedSolids = tds
	p.UpdatedAt = s.now()
	if err := s.repo.UpdatePool(ctx, p); err != nil {
		return Pool{}, apperrors.Wrap(apperrors.CodeStorage, "failed to update pool readings", err)
	}
	s.saveReading(ctx, p.ID, p.Reading())
	return p, nil
}

func (s *service) RecommendForPool(ctx context.Context, id uuid.UUID) (CalculationResponse, error) {
	p, err := s.GetPool(ctx, id)
	if err != nil {
		return CalculationResponse{}, err
	}
	resp, err := s.evaluate(ctx, p.Reading(), p.PoolVolumeGallons)
	if err != nil {
		return CalculationResponse{}, err
	}
	s.record(ctx, p.ID, p.Reading(), resp)
	return resp, nil
}

// Prefill prefers the cached reading, then the latest visit, then the pool itself.
func (s *service) Prefill(ctx context.Context, id uuid.UUID) (lsi.Reading, error) {
	p, err := s.GetPool(ctx, id)
	if err != nil {
		return lsi.Reading{}, err
	}
	if s.cache != nil {
		reading, ok, err := s.cache.LastReading(ctx, id)
		if err != nil {
			s.logger.Warn("reading cache lookup failed", "pool_id", id, "error", err)
		} else if ok {
			return reading, nil
		}
	}
	ev, ok, err := s.repo.LatestEvent(ctx, id)
	if err != nil {
		return lsi.Reading{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load latest service event", err)
	}
	if ok {
		return lsi.Reading{
			PH:              ev.PH,
			WaterTempF:      ev.WaterTempF,
			CalciumHardness: ev.CalciumHardness,
			TotalAlkalinity: ev.TotalAlkalinity,
			TDS:             p.TotalDissolvedSolids,
		}, nil
	}
	return p.Reading(), nil
}

func (s *service) LogService(ctx context.Context, id uuid.UUID, req LogServiceRequest) (LogServiceResponse, error) {
	p, err := s.GetPool(ctx, id)
	if err != nil {
		return LogServiceResponse{}, err
	}
	reading := lsi.Reading{
		PH:              req.PH,
		WaterTempF:      req.WaterTempF,
		CalciumHardness: req.CalciumHardness,
		TotalAlkalinity: req.TotalAlkalinity,
		TDS:             p.TotalDissolvedSolids,
	}
	if err := validateReadings(reading.PH, reading.WaterTempF, reading.CalciumHardness, reading.TotalAlkalinity, reading.TDS); err != nil {
		return LogServiceResponse{}, err
	}

	calc, err := s.evaluate(ctx, reading, p.PoolVolumeGallons)
	if err != nil {
		return LogServiceResponse{}, err
	}

	now := s.now()
	ev := ServiceEvent{
		ID:                uuid.New(),
		PoolID:            p.ID,
		Timestamp:         now,
		WaterTempF:        reading.WaterTempF,
		PH:                reading.PH,
		CalciumHardness:   reading.CalciumHardness,
		TotalAlkalinity:   reading.TotalAlkalinity,
		LSIValue:          calc.LSI.LSIValue,
		TotalChemicalCost: calc.TotalEstimatedCost,
		TechNotes:         strings.TrimSpace(req.TechNotes),
		Doses:             dosesFor(calc.Recommendations),
	}
	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		return LogServiceResponse{}, apperrors.Wrap(apperrors.CodeStorage, "failed to store service event", err)
	}

	p.PH = reading.PH
	p.WaterTempF = reading.WaterTempF
	p.CalciumHardness = reading.CalciumHardness
	p.TotalAlkalinity = reading.TotalAlkalinity
	p.UpdatedAt = now
	// The event is already stored; the pool row only mirrors the latest readings,
	// and Prefill falls back to the cache or the latest event.
	if err := s.repo.UpdatePool(ctx, p); err != nil {
		s.logger.Warn("update pool readings failed", "pool_id", p.ID, "event_id", ev.ID, "error", err)
	}

	s.saveReading(ctx, p.ID, reading)
	if s.recorder != nil {
		if err := s.recorder.RecordServiceEvent(ctx, ev); err != nil {
			s.logger.Warn("record service event failed", "pool_id", p.ID, "error", err)
		}
	}
	s.logger.Info("service event logged",
		"pool_id", p.ID,
		"lsi", calc.LSI.LSIValue,
		"status", calc.LSI.Status(),
		"chemical_cost", ev.TotalChemicalCost,
		"doses", len(ev.Doses),
	)
	return LogServiceResponse{Event: ev, LSI: calc.LSI, Recommendations: calc.Recommendations}, nil
}

func (s *service) Profit(ctx context.Context, id uuid.UUID, billingPeriodDays int) (PoolProfit, error) {
	p, err := s.GetPool(ctx, id)
	if err != nil {
		return PoolProfit{}, err
	}
	days, err := s.billingDays(billingPeriodDays)
	if err != nil {
		return PoolProfit{}, err
	}
	return s.poolProfit(ctx, p, days, s.now())
}

func (s *service) ProfitReport(ctx context.Context, billingPeriodDays int) (ProfitReport, error) {
	days, err := s.billingDays(billingPeriodDays)
	if err != nil {
		return ProfitReport{}, err
	}
	pools, err := s.ListPools(ctx, ListPoolsRequest{})
	if err != nil {
		return ProfitReport{}, err
	}

	now := s.now()
	report := ProfitReport{
		GeneratedAt:       now,
		BillingPeriodDays: days,
		Pools:             make([]PoolProfit, 0, len(pools)),
		InTheRed:          []uuid.UUID{},
	}
	for _, p := range pools {
		pp, err := s.poolProfit(ctx, p, days, now)
		if err != nil {
			return ProfitReport{}, err
		}
		report.Pools = append(report.Pools, pp)
		report.TotalRevenue += pp.MonthlyServiceFee
		report.TotalChemCost += pp.TotalChemCost
		report.TotalProfit += pp.Profit.Profit
		if pp.IsInTheRed {
			report.InTheRed = append(report.InTheRed, pp.PoolID)
		}
	}
	if s.recorder != nil {
		if err := s.recorder.RecordProfitReport(ctx, report); err != nil {
			s.logger.Warn("record profit report failed", "error", err)
		}
	}
	s.logger.Info("profit report generated", "pools", len(report.Pools), "in_the_red", len(report.InTheRed), "days", days)
	return report, nil
}

func (s *service) Inventory(ctx context.Context) ([]InventoryItem, error) {
	items, err := s.inventory.ListInventory(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to list inventory", err)
	}
	return items, nil
}

func (s *service) UpsertInventory(ctx context.Context, item InventoryItem) (InventoryItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if parsed, ok := dosing.ParseChemicalType(string(item.ChemicalType)); ok {
		item.ChemicalType = parsed
	}
	if err := validateInventoryItem(item); err != nil {
		return InventoryItem{}, err
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.UnitLabel == "" {
		item.UnitLabel = "oz"
	}
	if err := s.inventory.UpsertInventory(ctx, item); err != nil {
		return InventoryItem{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save inventory item", err)
	}
	return item, nil
}

func (s *service) SeedInventory(ctx context.Context) error {
	existing, err := s.Inventory(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, item := range DefaultCatalog() {
		if _, err := s.UpsertInventory(ctx, item); err != nil {
			return err
		}
	}
	s.logger.Info("inventory seeded", "items", len(DefaultCatalog()))
	return nil
}

func (s *service) evaluate(ctx context.Context, reading lsi.Reading, volume float64) (CalculationResponse, error) {
	items, err := s.Inventory(ctx)
	if err != nil {
		return CalculationResponse{}, err
	}
	result := lsi.CalculateReading(reading)
	recs := dosing.Recommend(result, reading.PH, reading.TotalAlkalinity, reading.CalciumHardness, volume, costLookup(items))
	return CalculationResponse{
		LSI:                result,
		Recommendations:    recs,
		TotalEstimatedCost: dosing.TotalEstimatedCost(recs),
		PoolVolumeGallons:  volume,
	}, nil
}

func (s *service) poolProfit(ctx context.Context, p Pool, days int, now time.Time) (PoolProfit, error) {
	since := now.AddDate(0, 0, -days)
	events, err := s.repo.ListEvents(ctx, p.ID, since)
	if err != nil {
		return PoolProfit{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load service events", err)
	}
	costed := make([]dosing.CostedEvent, 0, len(events))
	for _, ev := range events {
		costed = append(costed, dosing.CostedEvent{Timestamp: ev.Timestamp, TotalChemicalCost: ev.TotalChemicalCost})
	}
	return PoolProfit{
		PoolID:            p.ID,
		CustomerName:      p.CustomerName,
		MonthlyServiceFee: p.MonthlyServiceFee,
		BillingPeriodDays: days,
		EventCount:        len(events),
		Profit:            dosing.ProfitAnalysis(p.MonthlyServiceFee, costed, days, now),
	}, nil
}

func (s *service) billingDays(days int) (int, error) {
	switch {
	case days < 0:
		return 0, apperrors.Wrap(apperrors.CodeInvalidInput, "billing period days cannot be negative", nil)
	case days == 0:
		return s.cfg.BillingPeriodDays, nil
	case days > 366:
		return 0, apperrors.Wrap(apperrors.CodeInvalidInput, "billing period days cannot exceed 366", nil)
	default:
		return days, nil
	}
}

func (s *service) saveReading(ctx context.Context, id uuid.UUID, reading lsi.Reading) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveReading(ctx, id, reading); err != nil {
		s.logger.Warn("reading cache update failed", "pool_id", id, "error", err)
	}
}

func (s *service) record(ctx context.Context, poolID uuid.UUID, reading lsi.Reading, resp CalculationResponse) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.RecordCalculation(ctx, CalculationRecord{
		At:                  s.now(),
		PoolID:              poolID,
		Reading:             reading,
		PoolVolumeGallons:   resp.PoolVolumeGallons,
		LSIValue:            resp.LSI.LSIValue,
		Status:              resp.LSI.Status(),
		RecommendationCount: len(resp.Recommendations),
		TotalEstimatedCost:  resp.TotalEstimatedCost,
	})
	if err != nil {
		s.logger.Warn("record calculation failed", "error", err)
	}
}

func dosesFor(recs []dosing.Recommendation) []ChemicalDose {
	doses := make([]ChemicalDose, 0, len(recs))
	for _, rec := range recs {
		if rec.QuantityOz <= 0 {
			continue
		}
		doses = append(doses, ChemicalDose{
			ChemicalType: rec.ChemicalType,
			ChemicalName: rec.ChemicalName,
			QuantityOz:   rec.QuantityOz,
			Cost:         rec.EstimatedCost(),
		})
	}
	return doses
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
