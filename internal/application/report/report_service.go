package report

import (
	"context"
	"time"

	"github.com/shopledger/backend/internal/domain/report"
)

// DefaultLowStockLimit caps the low-stock listing when the caller passes no limit
const DefaultLowStockLimit = 50

// ReportService provides read-only rollups over committed sales and derived stock
type ReportService struct {
	salesRepo     report.SalesReportRepository
	inventoryRepo report.InventoryReportRepository
}

// NewReportService creates a new ReportService
func NewReportService(
	salesRepo report.SalesReportRepository,
	inventoryRepo report.InventoryReportRepository,
) *ReportService {
	return &ReportService{
		salesRepo:     salesRepo,
		inventoryRepo: inventoryRepo,
	}
}

// Rollup totals sales and profit for the period around ref
func (s *ReportService) Rollup(ctx context.Context, period report.Period, ref time.Time) (*report.SalesRollup, error) {
	if !period.IsValid() {
		return nil, report.ErrInvalidPeriod
	}
	start, end, err := period.Range(ref)
	if err != nil {
		return nil, err
	}

	totals, err := s.salesRepo.SumSales(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &report.SalesRollup{
		Period:      period,
		PeriodStart: start,
		PeriodEnd:   end,
		TotalSales:  totals.TotalSales,
		TotalProfit: totals.TotalProfit,
		SaleCount:   totals.SaleCount,
	}, nil
}

// GetAnalytics returns daily, weekly, monthly and yearly rollups plus the low-stock count
func (s *ReportService) GetAnalytics(ctx context.Context, ref time.Time) (*report.Analytics, error) {
	rollups := make(map[report.Period]report.SalesRollup, len(report.AllPeriods))
	for _, period := range report.AllPeriods {
		rollup, err := s.Rollup(ctx, period, ref)
		if err != nil {
			return nil, err
		}
		rollups[period] = *rollup
	}

	lowStock, err := s.LowStockCount(ctx)
	if err != nil {
		return nil, err
	}

	return &report.Analytics{
		ReferenceDate: ref,
		Daily:         rollups[report.PeriodDay],
		Weekly:        rollups[report.PeriodWeek],
		Monthly:       rollups[report.PeriodMonth],
		Yearly:        rollups[report.PeriodYear],
		LowStockCount: lowStock,
	}, nil
}

// LowStockCount counts products whose derived stock is at or below their reorder level
func (s *ReportService) LowStockCount(ctx context.Context) (int64, error) {
	return s.inventoryRepo.CountLowStock(ctx)
}

// ListLowStock lists the low-stock products, lowest availability first
func (s *ReportService) ListLowStock(ctx context.Context, limit int) ([]report.LowStockItem, error) {
	if limit <= 0 || limit > DefaultLowStockLimit {
		limit = DefaultLowStockLimit
	}
	return s.inventoryRepo.ListLowStock(ctx, limit)
}
