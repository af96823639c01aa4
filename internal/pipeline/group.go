package pipeline

import (
	"slices"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

type Dimension int

const (
	DimensionLocation Dimension = iota
	DimensionCategory
)

func (d Dimension) String() string {
	switch d {
	case DimensionLocation:
		return "location"
	case DimensionCategory:
		return "category"
	default:
		return "unknown"
	}
}

func (d Dimension) key(r models.SaleRecord) string {
	if d == DimensionCategory {
		return r.Category
	}
	return r.Location
}

type tally struct {
	revenue decimal.Decimal
	sales   int
}

// groups accumulates sum and count per key, remembering first-occurrence order.
type groups[K comparable] struct {
	order []K
	index map[K]*tally
}

func newGroups[K comparable]() *groups[K] {
	return &groups[K]{index: make(map[K]*tally)}
}

func (g *groups[K]) add(key K, price decimal.Decimal) {
	t, ok := g.index[key]
	if !ok {
		t = &tally{}
		g.index[key] = t
		g.order = append(g.order, key)
	}
	t.revenue = t.revenue.Add(price)
	t.sales++
}

func (g *groups[K]) addCount(key K, n int) {
	t, ok := g.index[key]
	if !ok {
		t = &tally{}
		g.index[key] = t
		g.order = append(g.order, key)
	}
	t.sales += n
}

func (g *groups[K]) len() int {
	return len(g.order)
}

func (g *groups[K]) each(fn func(key K, t tally)) {
	for _, k := range g.order {
		fn(k, *g.index[k])
	}
}

func groupBy(records []models.SaleRecord, dim Dimension) *groups[string] {
	g := newGroups[string]()
	for _, r := range records {
		g.add(dim.key(r), r.Price)
	}
	return g
}

func byRevenueDesc(a, b decimal.Decimal) int {
	return b.Cmp(a)
}

func bySalesDesc(a, b int) int {
	return b - a
}

// RevenueBy sums price per dimension value, highest revenue first.
func RevenueBy(records []models.SaleRecord, dim Dimension) []models.GroupRevenue {
	g := groupBy(records, dim)
	result := make([]models.GroupRevenue, 0, g.len())
	g.each(func(key string, t tally) {
		result = append(result, models.GroupRevenue{Key: key, Revenue: t.revenue})
	})
	slices.SortStableFunc(result, func(a, b models.GroupRevenue) int {
		return byRevenueDesc(a.Revenue, b.Revenue)
	})
	return result
}

// CountBy counts records per dimension value, most sales first.
func CountBy(records []models.SaleRecord, dim Dimension) []models.GroupSales {
	g := groupBy(records, dim)
	result := make([]models.GroupSales, 0, g.len())
	g.each(func(key string, t tally) {
		result = append(result, models.GroupSales{Key: key, Sales: t.sales})
	})
	slices.SortStableFunc(result, func(a, b models.GroupSales) int {
		return bySalesDesc(a.Sales, b.Sales)
	})
	return result
}

func RevenueByCategory(records []models.SaleRecord) []models.CategoryRevenue {
	rows := RevenueBy(records, DimensionCategory)
	result := make([]models.CategoryRevenue, len(rows))
	for i, r := range rows {
		result[i] = models.CategoryRevenue{Category: r.Key, Revenue: r.Revenue}
	}
	return result
}

func SalesCountByCategory(records []models.SaleRecord) []models.CategorySales {
	rows := CountBy(records, DimensionCategory)
	result := make([]models.CategorySales, len(rows))
	for i, r := range rows {
		result[i] = models.CategorySales{Category: r.Key, Sales: r.Sales}
	}
	return result
}

func RevenueByState(records []models.SaleRecord, idx LocationIndex) []models.StateRevenue {
	return JoinRevenueCoordinates(RevenueBy(records, DimensionLocation), idx)
}

func SalesCountByState(records []models.SaleRecord, idx LocationIndex) []models.StateSales {
	return JoinSalesCoordinates(CountBy(records, DimensionLocation), idx)
}
