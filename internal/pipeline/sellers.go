package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"sales-dashboard/internal/models"
)

const (
	MinTopN     = 2
	MaxTopN     = 10
	DefaultTopN = 5
)

var (
	ErrTopNOutOfRange = fmt.Errorf("top n must be between %d and %d", MinTopN, MaxTopN)
	ErrUnknownRank    = errors.New("unknown seller ranking")
)

type Rank int

const (
	RankByRevenue Rank = iota
	RankBySales
)

func (r Rank) String() string {
	if r == RankBySales {
		return "sales"
	}
	return "revenue"
}

func ParseRank(s string) (Rank, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "revenue":
		return RankByRevenue, nil
	case "sales", "count":
		return RankBySales, nil
	default:
		return RankByRevenue, fmt.Errorf("%w: %q", ErrUnknownRank, s)
	}
}

func ValidateTopN(n int) error {
	if n < MinTopN || n > MaxTopN {
		return fmt.Errorf("%w, got %d", ErrTopNOutOfRange, n)
	}
	return nil
}

// SummarizeSellers computes revenue and sales per seller in one pass, in
// first-occurrence order.
func SummarizeSellers(records []models.SaleRecord) []models.SellerSummary {
	g := newGroups[string]()
	for _, r := range records {
		g.add(r.Seller, r.Price)
	}

	result := make([]models.SellerSummary, 0, g.len())
	g.each(func(seller string, t tally) {
		result = append(result, models.SellerSummary{Seller: seller, Revenue: t.revenue, Sales: t.sales})
	})
	return result
}

// TopSellers ranks a seller summary and keeps the first n rows. The input
// slice is not modified.
func TopSellers(summary []models.SellerSummary, n int, rank Rank) ([]models.SellerSummary, error) {
	if err := ValidateTopN(n); err != nil {
		return nil, err
	}

	ranked := slices.Clone(summary)
	slices.SortStableFunc(ranked, func(a, b models.SellerSummary) int {
		if rank == RankBySales {
			return bySalesDesc(a.Sales, b.Sales)
		}
		return byRevenueDesc(a.Revenue, b.Revenue)
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		ranked = []models.SellerSummary{}
	}
	return ranked, nil
}
