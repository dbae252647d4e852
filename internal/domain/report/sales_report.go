package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Period is a rollup window relative to a reference date
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// AllPeriods lists the periods returned by the analytics snapshot
var AllPeriods = []Period{PeriodDay, PeriodWeek, PeriodMonth, PeriodYear}

// IsValid checks if the period is known
func (p Period) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// Range returns the half-open window [start, end) of the period around ref, in ref's location.
//
//   - day: the calendar day containing ref
//   - week: the seven calendar days ending with ref's day
//   - month: the calendar month containing ref
//   - year: the calendar year containing ref
func (p Period) Range(ref time.Time) (time.Time, time.Time, error) {
	y, m, d := ref.Date()
	loc := ref.Location()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch p {
	case PeriodDay:
		return dayStart, dayStart.AddDate(0, 0, 1), nil
	case PeriodWeek:
		return dayStart.AddDate(0, 0, -6), dayStart.AddDate(0, 0, 1), nil
	case PeriodMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), nil
	case PeriodYear:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, p)
}

// SalesRollup sums committed sales over a window
type SalesRollup struct {
	Period      Period          `json:"period"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	SaleCount   int64           `json:"sale_count"`
}

// Analytics is the dashboard snapshot for one reference date
type Analytics struct {
	ReferenceDate time.Time   `json:"reference_date"`
	Daily         SalesRollup `json:"daily"`
	Weekly        SalesRollup `json:"weekly"`
	Monthly       SalesRollup `json:"monthly"`
	Yearly        SalesRollup `json:"yearly"`
	LowStockCount int64       `json:"low_stock_count"`
}

// SalesTotals is the raw aggregate returned by the repository
type SalesTotals struct {
	TotalSales  decimal.Decimal
	TotalProfit decimal.Decimal
	SaleCount   int64
}

// SalesReportRepository defines the read-side queries over committed sales
type SalesReportRepository interface {
	// SumSales totals non-cancelled sales sold in [from, to)
	SumSales(ctx context.Context, from, to time.Time) (SalesTotals, error)
}

// ErrInvalidPeriod is returned for periods other than day, week, month and year
var ErrInvalidPeriod = shared.NewDomainError("INVALID_PERIOD", "Period must be one of day, week, month, year")
