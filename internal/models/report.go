package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// chart code reads revenue as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// GroupRevenue and GroupSales are the un-joined results of grouping by a
// single dimension.
type GroupRevenue struct {
	Key     string          `json:"key"`
	Revenue decimal.Decimal `json:"revenue"`
}

type GroupSales struct {
	Key   string `json:"key"`
	Sales int    `json:"sales"`
}

type StateRevenue struct {
	Location    string          `json:"location"`
	Coordinates *Coordinates    `json:"coordinates,omitempty"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type StateSales struct {
	Location    string       `json:"location"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Sales       int          `json:"sales"`
}

type MonthlyRevenue struct {
	MonthStart time.Time       `json:"month_start"`
	Month      string          `json:"month"`
	Year       int             `json:"year"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type MonthlySales struct {
	MonthStart time.Time `json:"month_start"`
	Month      string    `json:"month"`
	Year       int       `json:"year"`
	Sales      int       `json:"sales"`
}

type MonthNameSales struct {
	Month string `json:"month"`
	Sales int    `json:"sales"`
}

type CategoryRevenue struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type CategorySales struct {
	Category string `json:"category"`
	Sales    int    `json:"sales"`
}

type SellerSummary struct {
	Seller  string          `json:"seller"`
	Revenue decimal.Decimal `json:"revenue"`
	Sales   int             `json:"sales"`
}

// Report is one complete pipeline run. It is never mutated after Run returns.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	RevenueByState        []StateRevenue    `json:"revenue_by_state"`
	RevenueByMonth        []MonthlyRevenue  `json:"revenue_by_month"`
	RevenueByCategory     []CategoryRevenue `json:"revenue_by_category"`
	SalesCountByState     []StateSales      `json:"sales_count_by_state"`
	SalesCountByMonth     []MonthlySales    `json:"sales_count_by_month"`
	SalesCountByMonthName []MonthNameSales  `json:"sales_count_by_month_name"`
	SalesCountByCategory  []CategorySales   `json:"sales_count_by_category"`
	SellerSummary         []SellerSummary   `json:"seller_summary"`

	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalSales   int             `json:"total_sales"`
}

type Summary struct {
	RunID        string          `json:"run_id"`
	GeneratedAt  time.Time       `json:"generated_at"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalSales   int             `json:"total_sales"`
	States       int             `json:"states"`
	Categories   int             `json:"categories"`
	Sellers      int             `json:"sellers"`
	Months       int             `json:"months"`
}

func (r *Report) Summary() Summary {
	return Summary{
		RunID:        r.RunID,
		GeneratedAt:  r.GeneratedAt,
		TotalRevenue: r.TotalRevenue,
		TotalSales:   r.TotalSales,
		States:       len(r.RevenueByState),
		Categories:   len(r.RevenueByCategory),
		Sellers:      len(r.SellerSummary),
		Months:       len(r.RevenueByMonth),
	}
}
