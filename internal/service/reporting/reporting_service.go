package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
	"github.com/mamadbah2/herd-admin/pkg/clients/upstream"
)

// ReportType is the tag of a yearly report.
type ReportType string

const (
	ReportPregnancy       ReportType = "pregnancy"
	ReportDisease         ReportType = "disease"
	ReportWeight          ReportType = "weight"
	ReportBatch           ReportType = "batch"
	ReportFoodConsumption ReportType = "foodConsumption"
	ReportLiveCost        ReportType = "liveCost"
	ReportLive            ReportType = "live"
	ReportIncome          ReportType = "income"
)

const defaultFanOutLimit = 8

// ActivitySource reads activity records.
type ActivitySource interface {
	ListUltrasounds(ctx context.Context) ([]models.Ultrasound, error)
	ListWeighings(ctx context.Context) ([]models.Weighing, error)
	ListFeedings(ctx context.Context) ([]models.Feeding, error)
	ListRecentWeighings(ctx context.Context, bovineTag string) ([]models.Weighing, error)
}

// BovineSource reads bovines and batches. GetBovine returns
// upstream.ErrNotFound for unknown tags.
type BovineSource interface {
	GetBovine(ctx context.Context, tag string) (*models.Bovine, error)
	ListBovines(ctx context.Context) ([]models.Bovine, error)
	ListBatches(ctx context.Context) ([]models.Batch, error)
	ListBovinesByTags(ctx context.Context, tags []string) ([]models.Bovine, error)
}

// HealthSource reads illness episodes.
type HealthSource interface {
	ListIllnesses(ctx context.Context) ([]models.Illness, error)
}

// EconomicSource reads supplies and economic operations.
type EconomicSource interface {
	GetSupply(ctx context.Context, name string) (*models.Supply, error)
	ListSupplyOperations(ctx context.Context) ([]models.SupplyOperation, error)
	ListBovineOperations(ctx context.Context) ([]models.BovineOperation, error)
}

// Sources groups the upstream adapters a Service reads from.
type Sources struct {
	Activity ActivitySource
	Bovine   BovineSource
	Health   HealthSource
	Economic EconomicSource
}

// Options tunes report computation.
type Options struct {
	// Location is the zone report years are derived in. Nil means time.Local.
	Location *time.Location
	// FanOutLimit bounds concurrent lookups within one report.
	FanOutLimit int
}

type definition struct {
	description string
	order       models.RowOrder
	build       func(s *Service, ctx context.Context) ([]models.Reported, error)
}

var definitions = map[ReportType]definition{
	ReportPregnancy: {
		description: "Porcentaje de vacas preñadas por año",
		order:       models.ByYear,
		build:       (*Service).pregnancy,
	},
	ReportDisease: {
		description: "Cantidad de infecciones anuales por tipo",
		order:       models.ByYearThenDimension,
		build:       (*Service).disease,
	},
	ReportWeight: {
		description: "Peso promedio anual por categoria",
		order:       models.ByYearThenDimension,
		build:       (*Service).weight,
	},
	ReportBatch: {
		description: "Peso promedio anual por batch",
		order:       models.ByYearThenDimension,
		build:       (*Service).batch,
	},
	ReportFoodConsumption: {
		description: "Alimento consumido anualmente por categoria",
		order:       models.ByYearThenDimension,
		build:       (*Service).foodConsumption,
	},
	ReportLiveCost: {
		description: "Rendimiento anual de la comida por kilogramo vivo",
		order:       models.ByYear,
		build:       (*Service).liveCost,
	},
	ReportLive: {
		description: "Cantidad de animales vivos por categoria por año",
		order:       models.ByYearThenDimension,
		build:       (*Service).live,
	},
	ReportIncome: {
		description: "Gastos versus ingresos por año",
		order:       models.ByYear,
		build:       (*Service).income,
	},
}

// ReportTypes lists the supported report tags in a stable order.
func ReportTypes() []ReportType {
	return []ReportType{
		ReportPregnancy,
		ReportDisease,
		ReportWeight,
		ReportBatch,
		ReportFoodConsumption,
		ReportLiveCost,
		ReportLive,
		ReportIncome,
	}
}

// Description returns the human readable description of a report type.
func Description(reportType ReportType) (string, bool) {
	def, ok := definitions[reportType]
	return def.description, ok
}

// Service computes yearly reports from the upstream services. It holds no
// state between calls.
type Service struct {
	sources     Sources
	loc         *time.Location
	fanOutLimit int
	logger      *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(sources Sources, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.FanOutLimit < 1 {
		opts.FanOutLimit = defaultFanOutLimit
	}
	return &Service{
		sources:     sources,
		loc:         opts.Location,
		fanOutLimit: opts.FanOutLimit,
		logger:      logger,
	}
}

// ComputeReport fetches fresh data, aggregates it, keeps the rows with
// yearFrom <= year <= yearTo and sorts them. models.UnboundedYear disables a
// bound. Any upstream failure aborts the whole report with an *UpstreamError.
func (s *Service) ComputeReport(ctx context.Context, reportType ReportType, yearFrom, yearTo int) (*models.YearlyReport, error) {
	def, ok := definitions[reportType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReportType, reportType)
	}

	start := time.Now()
	rows, err := def.build(s, ctx)
	if err != nil {
		s.logger.Warn("report computation failed",
			zap.String("report", string(reportType)),
			zap.Error(err))
		return nil, err
	}

	report := models.NewYearlyReport(string(reportType), def.description, def.order, rows)
	report.FilterByYear(yearFrom, yearTo)
	report.Sort()

	s.logger.Info("report computed",
		zap.String("report", string(reportType)),
		zap.Int("year_from", yearFrom),
		zap.Int("year_to", yearTo),
		zap.Int("rows", len(report.Reported)),
		zap.Duration("duration", time.Since(start)))

	return report, nil
}

func (s *Service) pregnancy(ctx context.Context) ([]models.Reported, error) {
	ultrasounds, err := s.sources.Activity.ListUltrasounds(ctx)
	if err != nil {
		return nil, upstreamFailure("list ultrasounds", err)
	}
	return pregnancyRows(ultrasounds, s.loc), nil
}

func (s *Service) disease(ctx context.Context) ([]models.Reported, error) {
	illnesses, err := s.sources.Health.ListIllnesses(ctx)
	if err != nil {
		return nil, upstreamFailure("list illnesses", err)
	}
	return diseaseRows(illnesses, s.loc), nil
}

func (s *Service) weight(ctx context.Context) ([]models.Reported, error) {
	weighings, err := s.sources.Activity.ListWeighings(ctx)
	if err != nil {
		return nil, upstreamFailure("list weighings", err)
	}
	return weightRows(weighings, s.loc), nil
}

func (s *Service) batch(ctx context.Context) ([]models.Reported, error) {
	batches, err := s.sources.Bovine.ListBatches(ctx)
	if err != nil {
		return nil, upstreamFailure("list batches", err)
	}

	resolved, err := s.batchMembers(ctx, batches)
	if err != nil {
		return nil, upstreamFailure("list batch members", err)
	}

	var bovines []models.Bovine
	for _, batch := range resolved {
		bovines = append(bovines, batch.bovines...)
	}

	tags := distinct(bovines, func(b models.Bovine) string { return b.Tag })
	weighings, err := lookupAll(ctx, s.fanOutLimit, tags, s.sources.Activity.ListRecentWeighings)
	if err != nil {
		return nil, upstreamFailure("list recent weighings", err)
	}

	return batchWeightRows(resolved, weighings, s.loc), nil
}

// batchMembers resolves the bovines of every batch concurrently. Batch names
// may repeat, so results are kept by position.
func (s *Service) batchMembers(ctx context.Context, batches []models.Batch) ([]batchMembers, error) {
	resolved := make([]batchMembers, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanOutLimit)
	for i, batch := range batches {
		g.Go(func() error {
			members, err := s.sources.Bovine.ListBovinesByTags(gctx, batch.BovineTags)
			if err != nil {
				return err
			}
			resolved[i] = batchMembers{name: batch.BatchName, bovines: members}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (s *Service) foodConsumption(ctx context.Context) ([]models.Reported, error) {
	feedings, err := s.sources.Activity.ListFeedings(ctx)
	if err != nil {
		return nil, upstreamFailure("list feedings", err)
	}

	tags := distinct(feedings, func(f models.Feeding) string { return f.BovineTag })
	bovines, err := lookupAll(ctx, s.fanOutLimit, tags, func(ctx context.Context, tag string) (models.Bovine, error) {
		bovine, err := s.sources.Bovine.GetBovine(ctx, tag)
		if err != nil {
			return models.Bovine{}, err
		}
		if bovine == nil {
			return models.Bovine{}, upstream.ErrNotFound
		}
		return *bovine, nil
	})
	if err != nil {
		return nil, upstreamFailure("get bovine", err)
	}

	rows, skipped := foodConsumptionRows(feedings, bovines, s.loc)
	if skipped > 0 {
		s.logger.Debug("feedings without a resolvable bovine category skipped", zap.Int("count", skipped))
	}
	return rows, nil
}

func (s *Service) liveCost(ctx context.Context) ([]models.Reported, error) {
	var (
		weighings []models.Weighing
		feedings  []models.Feeding
	)
	err := both(ctx,
		func(ctx context.Context) (err error) {
			weighings, err = s.sources.Activity.ListWeighings(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			feedings, err = s.sources.Activity.ListFeedings(ctx)
			return err
		})
	if err != nil {
		return nil, upstreamFailure("list weighings and feedings", err)
	}

	foods := distinct(feedings, func(f models.Feeding) string { return f.Food })
	prices, err := s.unitPrices(ctx, foods)
	if err != nil {
		return nil, err
	}

	return liveCostRows(weighings, feedings, prices, s.loc), nil
}

func (s *Service) live(ctx context.Context) ([]models.Reported, error) {
	bovines, err := s.sources.Bovine.ListBovines(ctx)
	if err != nil {
		return nil, upstreamFailure("list bovines", err)
	}
	return liveRows(bovines, s.loc), nil
}

func (s *Service) income(ctx context.Context) ([]models.Reported, error) {
	var (
		supplyOps []models.SupplyOperation
		bovineOps []models.BovineOperation
	)
	err := both(ctx,
		func(ctx context.Context) (err error) {
			supplyOps, err = s.sources.Economic.ListSupplyOperations(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			bovineOps, err = s.sources.Economic.ListBovineOperations(ctx)
			return err
		})
	if err != nil {
		return nil, upstreamFailure("list economic operations", err)
	}

	supplies := distinct(supplyOps, func(op models.SupplyOperation) string {
		if !op.IsBuy() {
			return ""
		}
		return op.SupplyName
	})
	prices, err := s.unitPrices(ctx, supplies)
	if err != nil {
		return nil, err
	}

	return incomeRows(supplyOps, bovineOps, prices, s.loc), nil
}

// unitPrices resolves the price of every named supply. An unknown supply is
// an upstream failure.
func (s *Service) unitPrices(ctx context.Context, names []string) (map[string]int64, error) {
	prices, err := lookupAll(ctx, s.fanOutLimit, names, func(ctx context.Context, name string) (int64, error) {
		supply, err := s.sources.Economic.GetSupply(ctx, name)
		if errors.Is(err, upstream.ErrNotFound) || (err == nil && supply == nil) {
			return 0, fmt.Errorf("supply %s not found", name)
		}
		if err != nil {
			return 0, err
		}
		return supply.Price, nil
	})
	if err != nil {
		return nil, upstreamFailure("get supply", err)
	}
	return prices, nil
}
