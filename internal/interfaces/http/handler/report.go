package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopledger/backend/internal/domain/report"
	"github.com/shopledger/backend/internal/interfaces/http/dto"
)

// dateLayout is the reference-date format accepted on analytics queries
const dateLayout = "2006-01-02"

// ReportUseCases is the analytics surface the handler drives
type ReportUseCases interface {
	Rollup(ctx context.Context, period report.Period, ref time.Time) (*report.SalesRollup, error)
	GetAnalytics(ctx context.Context, ref time.Time) (*report.Analytics, error)
	ListLowStock(ctx context.Context, limit int) ([]report.LowStockItem, error)
}

// ReportHandler handles the analytics endpoints
type ReportHandler struct {
	BaseHandler
	reports  ReportUseCases
	location *time.Location
	now      func() time.Time
}

// NewReportHandler creates a ReportHandler whose periods default to loc's calendar
func NewReportHandler(reports ReportUseCases, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{reports: reports, location: loc, now: time.Now}
}

// RegisterRoutes mounts the analytics routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analytics := rg.Group("/analytics")
	analytics.GET("", h.GetAnalytics)
	analytics.GET("/rollup", h.Rollup)
	analytics.GET("/low-stock", h.ListLowStock)
}

// referenceDate reads ?date=YYYY-MM-DD&tz=Area/City; both optional.
// Without a date the current instant in the chosen zone is used.
func (h *ReportHandler) referenceDate(c *gin.Context) (time.Time, bool) {
	loc := h.location
	if tz := c.Query("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Unknown time zone "+tz)
			return time.Time{}, false
		}
		loc = l
	}

	raw := c.Query("date")
	if raw == "" {
		return h.now().In(loc), true
	}
	ref, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "date must be formatted as YYYY-MM-DD")
		return time.Time{}, false
	}
	return ref, true
}

// GetAnalytics returns daily, weekly, monthly and yearly rollups plus the low-stock count
// GET /analytics?date=&tz=
func (h *ReportHandler) GetAnalytics(c *gin.Context) {
	ref, ok := h.referenceDate(c)
	if !ok {
		return
	}

	analytics, err := h.reports.GetAnalytics(c.Request.Context(), ref)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, analytics)
}

// Rollup returns the totals of a single period
// GET /analytics/rollup?period=day|week|month|year&date=&tz=
func (h *ReportHandler) Rollup(c *gin.Context) {
	ref, ok := h.referenceDate(c)
	if !ok {
		return
	}

	rollup, err := h.reports.Rollup(c.Request.Context(), report.Period(c.DefaultQuery("period", string(report.PeriodDay))), ref)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rollup)
}

// ListLowStock lists products at or below their reorder level
// GET /analytics/low-stock?limit=
func (h *ReportHandler) ListLowStock(c *gin.Context) {
	limit, ok := h.queryInt(c, "limit", 0)
	if !ok {
		return
	}

	items, err := h.reports.ListLowStock(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}
