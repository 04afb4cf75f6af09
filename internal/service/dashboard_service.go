package service

import (
	"context"
	"time"

	"erp-service/internal/errs"
	"erp-service/internal/redisclient"
	"erp-service/internal/store"
	"erp-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const statsCacheTTL = 30 * time.Second

// DashboardService is a read-side consumer of order and product state
type DashboardService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store *store.Store, redis *redisclient.Client) *DashboardService {
	return &DashboardService{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// Stats summarizes the current month
type Stats struct {
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	TotalStock     int64           `json:"total_stock"`
}

// Stats returns the current-month paid sales total, paid and partially paid
// purchases total and the on-hand sum across products, cached briefly in Redis
func (ds *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	ctx, span := util.StartSpan(ctx, "DashboardService.Stats")
	defer span.End()

	var cached Stats
	hit, err := ds.redis.GetDashboardStats(ctx, &cached)
	if err != nil {
		ds.logger.Warn("Dashboard cache read failed", zap.Error(err))
	}
	if hit {
		util.DashboardCacheHits.WithLabelValues("hit").Inc()
		return &cached, nil
	}
	util.DashboardCacheHits.WithLabelValues("miss").Inc()

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	sales, err := ds.store.SumPaidSales(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	purchases, err := ds.store.SumReceivedPurchases(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	stock, err := ds.store.TotalOnHand(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalSales:     sales,
		TotalPurchases: purchases,
		TotalStock:     stock,
	}

	if err := ds.redis.SetDashboardStats(ctx, stats, statsCacheTTL); err != nil {
		ds.logger.Warn("Dashboard cache write failed", zap.Error(err))
	}

	return stats, nil
}

// SalesHistory buckets paid sales over the trailing window. period is one of
// "day", "week" or "month"; days defaults to 30.
func (ds *DashboardService) SalesHistory(ctx context.Context, days int, period string) ([]store.SalesBucket, error) {
	ctx, span := util.StartSpan(ctx, "DashboardService.SalesHistory")
	defer span.End()

	if days <= 0 {
		days = 30
	}
	switch period {
	case "":
		period = "day"
	case "day", "week", "month":
	default:
		return nil, errs.Validation("period", "period must be day, week or month")
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)
	return ds.store.SalesHistory(ctx, period, from, to)
}
