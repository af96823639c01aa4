package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
)

// Run converts raw records and computes every derived table. It returns
// either a complete report or an error, never a partial report.
func Run(ctx context.Context, raw []models.RawSale) (*models.Report, error) {
	records, err := ParseDates(raw)
	if err != nil {
		return nil, err
	}
	return Aggregate(ctx, records)
}

// Aggregate computes the derived tables from already validated records.
// Tables are independent reads over the same input and run concurrently.
func Aggregate(ctx context.Context, records []models.SaleRecord) (*models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := BuildLocationIndex(records)
	report := &models.Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}

	var g errgroup.Group

	g.Go(func() error {
		report.RevenueByState = RevenueByState(records, idx)
		return nil
	})
	g.Go(func() error {
		report.SalesCountByState = SalesCountByState(records, idx)
		return nil
	})
	g.Go(func() error {
		report.RevenueByMonth = RevenueByMonth(records)
		return nil
	})
	g.Go(func() error {
		report.SalesCountByMonth = SalesCountByMonth(records)
		report.SalesCountByMonthName = MonthNameRollup(report.SalesCountByMonth)
		return nil
	})
	g.Go(func() error {
		report.RevenueByCategory = RevenueByCategory(records)
		return nil
	})
	g.Go(func() error {
		report.SalesCountByCategory = SalesCountByCategory(records)
		return nil
	})
	g.Go(func() error {
		report.SellerSummary = SummarizeSellers(records)
		return nil
	})
	g.Go(func() error {
		report.TotalRevenue, report.TotalSales = totals(records)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return report, nil
}

func totals(records []models.SaleRecord) (decimal.Decimal, int) {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.Price)
	}
	return sum, len(records)
}
