package pipeline

import (
	"slices"
	"time"

	"sales-dashboard/internal/models"
)

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthlyBuckets groups records by the first day of their purchase month,
// in chronological order. Only months present in the data get a bucket.
func monthlyBuckets(records []models.SaleRecord) ([]time.Time, *groups[time.Time]) {
	g := newGroups[time.Time]()
	for _, r := range records {
		g.add(monthStart(r.PurchaseDate), r.Price)
	}

	months := slices.Clone(g.order)
	slices.SortFunc(months, func(a, b time.Time) int {
		return a.Compare(b)
	})
	return months, g
}

func RevenueByMonth(records []models.SaleRecord) []models.MonthlyRevenue {
	months, g := monthlyBuckets(records)
	result := make([]models.MonthlyRevenue, len(months))
	for i, m := range months {
		result[i] = models.MonthlyRevenue{
			MonthStart: m,
			Month:      m.Month().String(),
			Year:       m.Year(),
			Revenue:    g.index[m].revenue,
		}
	}
	return result
}

func SalesCountByMonth(records []models.SaleRecord) []models.MonthlySales {
	months, g := monthlyBuckets(records)
	result := make([]models.MonthlySales, len(months))
	for i, m := range months {
		result[i] = models.MonthlySales{
			MonthStart: m,
			Month:      m.Month().String(),
			Year:       m.Year(),
			Sales:      g.index[m].sales,
		}
	}
	return result
}

// MonthNameRollup sums monthly counts across years by month name, most
// sales first.
func MonthNameRollup(monthly []models.MonthlySales) []models.MonthNameSales {
	g := newGroups[string]()
	for _, m := range monthly {
		g.addCount(m.Month, m.Sales)
	}

	result := make([]models.MonthNameSales, 0, g.len())
	g.each(func(month string, t tally) {
		result = append(result, models.MonthNameSales{Month: month, Sales: t.sales})
	})
	slices.SortStableFunc(result, func(a, b models.MonthNameSales) int {
		return bySalesDesc(a.Sales, b.Sales)
	})
	return result
}
