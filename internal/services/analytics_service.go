package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"bharatbiz/internal/caching"
	"bharatbiz/internal/logger"
	"bharatbiz/internal/models"
	"bharatbiz/internal/repositories"
)

// StatusBreakdown counts invoices per lifecycle state.
type StatusBreakdown struct {
	Paid    int `json:"paid"`
	Pending int `json:"pending"`
	Overdue int `json:"overdue"`
}

// AnalyticsData is the aggregated dashboard view over an owner's invoices.
// Revenue figures are pre-GST amounts.
type AnalyticsData struct {
	RevenueByMonth  map[string]float64 `json:"revenueByMonth"`
	StatusBreakdown StatusBreakdown    `json:"statusBreakdown"`
	TotalRevenue    float64            `json:"totalRevenue"`
	LastUpdated     time.Time          `json:"lastUpdated"`
}

const analyticsCacheTTL = time.Minute

// AnalyticsService computes and caches invoice aggregates.
type AnalyticsService struct {
	invoiceRepo repositories.InvoiceRepository
	cacheSvc    caching.CacheService
	log         zerolog.Logger
}

// NewAnalyticsService creates the analytics service. cacheSvc may be nil.
func NewAnalyticsService(invoiceRepo repositories.InvoiceRepository, cacheSvc caching.CacheService) *AnalyticsService {
	return &AnalyticsService{
		invoiceRepo: invoiceRepo,
		cacheSvc:    cacheSvc,
		log:         logger.WithComponent("analytics"),
	}
}

// Calculate aggregates every invoice the owner has: monthly revenue,
// a paid/pending/overdue count, and the revenue total.
func (a *AnalyticsService) Calculate(ctx context.Context, userID string) (*AnalyticsData, error) {
	if a.cacheSvc != nil {
		if payload, err := a.cacheSvc.GetAnalytics(ctx, userID); err == nil && payload != nil {
			var cached AnalyticsData
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	// Get all, should paginate in production.
	invoices, err := a.invoiceRepo.List(ctx, userID, 10000, 0)
	if err != nil {
		return nil, fmt.Errorf("list invoices for analytics: %w", err)
	}

	data := &AnalyticsData{
		RevenueByMonth: make(map[string]float64),
		LastUpdated:    time.Now(),
	}
	for _, inv := range invoices {
		data.RevenueByMonth[inv.Date.Format("Jan 2006")] += inv.Amount
		data.TotalRevenue += inv.Amount
		switch inv.Status {
		case models.InvoiceStatusPaid:
			data.StatusBreakdown.Paid++
		case models.InvoiceStatusPending:
			data.StatusBreakdown.Pending++
		case models.InvoiceStatusOverdue:
			data.StatusBreakdown.Overdue++
		}
	}

	if a.cacheSvc != nil {
		if payload, err := json.Marshal(data); err == nil {
			if err := a.cacheSvc.SetAnalytics(ctx, userID, payload, analyticsCacheTTL); err != nil {
				a.log.Debug().Err(err).Msg("analytics cache write failed")
			}
		}
	}
	return data, nil
}
