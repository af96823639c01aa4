package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

func sale(price, date, location string, lat, lon float64, category, seller string) models.RawSale {
	return models.RawSale{
		Price:        decimal.RequireFromString(price),
		PurchaseDate: date,
		Location:     location,
		Lat:          lat,
		Lon:          lon,
		Category:     category,
		Seller:       seller,
	}
}

func mustParse(t *testing.T, raw []models.RawSale) []models.SaleRecord {
	t.Helper()
	records, err := ParseDates(raw)
	if err != nil {
		t.Fatalf("ParseDates() error = %v", err)
	}
	return records
}

func dataset() []models.RawSale {
	return []models.RawSale{
		sale("100", "01/01/2021", "SP", -23.5, -46.6, "eletronicos", "Ana"),
		sale("250.50", "15/01/2021", "RJ", -22.9, -43.2, "moveis", "Bruno"),
		sale("80", "03/02/2021", "SP", -23.5, -46.6, "livros", "Ana"),
		sale("0", "20/02/2021", "MG", -18.1, -44.3, "livros", "Carla"),
		sale("320", "11/01/2022", "RJ", -22.9, -43.2, "eletronicos", "Bruno"),
		sale("45.25", "30/03/2022", "BA", -13.2, -41.6, "brinquedos", "Ana"),
		sale("99.99", "05/01/2022", "SP", -23.5, -46.6, "moveis", "Diego"),
	}
}

func TestRun_TwoRecordScenario(t *testing.T) {
	raw := []models.RawSale{
		sale("100", "01/01/2022", "SP", 1, 2, "A", "X"),
		sale("50", "01/02/2022", "SP", 1, 2, "B", "Y"),
	}

	report, err := Run(context.Background(), raw)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(report.RevenueByState) != 1 {
		t.Fatalf("expected 1 state row, got %d", len(report.RevenueByState))
	}
	sp := report.RevenueByState[0]
	if sp.Location != "SP" || !sp.Revenue.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected (SP, 150), got (%s, %s)", sp.Location, sp.Revenue)
	}
	if sp.Coordinates == nil || sp.Coordinates.Lat != 1 || sp.Coordinates.Lon != 2 {
		t.Errorf("expected coordinates (1, 2), got %+v", sp.Coordinates)
	}

	wantCategories := []struct {
		category string
		revenue  int64
	}{{"A", 100}, {"B", 50}}
	if len(report.RevenueByCategory) != len(wantCategories) {
		t.Fatalf("expected %d category rows, got %d", len(wantCategories), len(report.RevenueByCategory))
	}
	for i, want := range wantCategories {
		got := report.RevenueByCategory[i]
		if got.Category != want.category || !got.Revenue.Equal(decimal.NewFromInt(want.revenue)) {
			t.Errorf("category row %d = (%s, %s), want (%s, %d)", i, got.Category, got.Revenue, want.category, want.revenue)
		}
	}

	if !report.TotalRevenue.Equal(decimal.NewFromInt(150)) {
		t.Errorf("TotalRevenue = %s, want 150", report.TotalRevenue)
	}
	if report.TotalSales != 2 {
		t.Errorf("TotalSales = %d, want 2", report.TotalSales)
	}
	if report.RunID == "" {
		t.Error("RunID should be set")
	}
}

func TestRun_ZeroPriceIsCountedAndKept(t *testing.T) {
	raw := []models.RawSale{
		sale("100", "01/01/2022", "SP", 1, 2, "A", "X"),
		sale("0", "02/01/2022", "RJ", 3, 4, "A", "Y"),
	}

	report, err := Run(context.Background(), raw)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var rjRevenue *models.StateRevenue
	for i := range report.RevenueByState {
		if report.RevenueByState[i].Location == "RJ" {
			rjRevenue = &report.RevenueByState[i]
		}
	}
	if rjRevenue == nil {
		t.Fatal("RJ should appear in RevenueByState with zero revenue")
	}
	if !rjRevenue.Revenue.IsZero() {
		t.Errorf("RJ revenue = %s, want 0", rjRevenue.Revenue)
	}

	found := false
	for _, row := range report.SalesCountByState {
		if row.Location == "RJ" {
			found = true
			if row.Sales != 1 {
				t.Errorf("RJ sales = %d, want 1", row.Sales)
			}
		}
	}
	if !found {
		t.Error("RJ should appear in SalesCountByState")
	}

	if report.TotalSales != 2 {
		t.Errorf("TotalSales = %d, want 2", report.TotalSales)
	}
	if len(report.SellerSummary) != 2 {
		t.Errorf("expected zero-price seller to be kept, got %d sellers", len(report.SellerSummary))
	}
}

func TestRun_EmptyInput(t *testing.T) {
	report, err := Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() on empty input should not fail, got %v", err)
	}

	if !report.TotalRevenue.IsZero() {
		t.Errorf("TotalRevenue = %s, want 0", report.TotalRevenue)
	}
	if report.TotalSales != 0 {
		t.Errorf("TotalSales = %d, want 0", report.TotalSales)
	}

	lengths := map[string]int{
		"RevenueByState":        len(report.RevenueByState),
		"RevenueByMonth":        len(report.RevenueByMonth),
		"RevenueByCategory":     len(report.RevenueByCategory),
		"SalesCountByState":     len(report.SalesCountByState),
		"SalesCountByMonth":     len(report.SalesCountByMonth),
		"SalesCountByMonthName": len(report.SalesCountByMonthName),
		"SalesCountByCategory":  len(report.SalesCountByCategory),
		"SellerSummary":         len(report.SellerSummary),
	}
	for name, n := range lengths {
		if n != 0 {
			t.Errorf("%s should be empty, got %d rows", name, n)
		}
	}

	body, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if _, ok := decoded["revenue_by_state"].([]any); !ok {
		t.Errorf("empty tables should encode as [], got %v", decoded["revenue_by_state"])
	}
}

func TestRun_TotalsMatchStateTables(t *testing.T) {
	report, err := Run(context.Background(), dataset())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	revenue := decimal.Zero
	for _, row := range report.RevenueByState {
		revenue = revenue.Add(row.Revenue)
	}
	if !revenue.Equal(report.TotalRevenue) {
		t.Errorf("sum of RevenueByState = %s, TotalRevenue = %s", revenue, report.TotalRevenue)
	}

	sales := 0
	for _, row := range report.SalesCountByState {
		sales += row.Sales
	}
	if sales != report.TotalSales {
		t.Errorf("sum of SalesCountByState = %d, TotalSales = %d", sales, report.TotalSales)
	}

	if report.TotalSales != len(dataset()) {
		t.Errorf("TotalSales = %d, want %d", report.TotalSales, len(dataset()))
	}
	if !report.TotalRevenue.Equal(decimal.RequireFromString("895.74")) {
		t.Errorf("TotalRevenue = %s, want 895.74", report.TotalRevenue)
	}
}

func TestRun_TablesAreSortedDescending(t *testing.T) {
	report, err := Run(context.Background(), dataset())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i := 1; i < len(report.RevenueByState); i++ {
		if report.RevenueByState[i-1].Revenue.LessThan(report.RevenueByState[i].Revenue) {
			t.Errorf("RevenueByState not descending at %d", i)
		}
	}
	for i := 1; i < len(report.SalesCountByState); i++ {
		if report.SalesCountByState[i-1].Sales < report.SalesCountByState[i].Sales {
			t.Errorf("SalesCountByState not descending at %d", i)
		}
	}
	for i := 1; i < len(report.RevenueByCategory); i++ {
		if report.RevenueByCategory[i-1].Revenue.LessThan(report.RevenueByCategory[i].Revenue) {
			t.Errorf("RevenueByCategory not descending at %d", i)
		}
	}
	for i := 1; i < len(report.SalesCountByCategory); i++ {
		if report.SalesCountByCategory[i-1].Sales < report.SalesCountByCategory[i].Sales {
			t.Errorf("SalesCountByCategory not descending at %d", i)
		}
	}
	for i := 1; i < len(report.SalesCountByMonthName); i++ {
		if report.SalesCountByMonthName[i-1].Sales < report.SalesCountByMonthName[i].Sales {
			t.Errorf("SalesCountByMonthName not descending at %d", i)
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	first, err := Run(context.Background(), dataset())
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := Run(context.Background(), dataset())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if first.RunID == second.RunID {
		t.Error("each run should get its own RunID")
	}

	tables := func(r *models.Report) []byte {
		c := *r
		c.RunID = ""
		c.GeneratedAt = time.Time{}
		b, err := json.Marshal(c)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return b
	}

	if string(tables(first)) != string(tables(second)) {
		t.Errorf("runs over the same input differ:\n%s\n%s", tables(first), tables(second))
	}
}

func TestRun_ParseFailureAbortsRun(t *testing.T) {
	raw := dataset()
	raw[3].PurchaseDate = "2021-02-20"

	report, err := Run(context.Background(), raw)
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
	if report != nil {
		t.Error("no report should be returned when a record fails to parse")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Index != 3 {
		t.Errorf("ParseError.Index = %d, want 3", parseErr.Index)
	}
}

func TestAggregate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := mustParse(t, dataset())
	if _, err := Aggregate(ctx, records); !errors.Is(err, context.Canceled) {
		t.Errorf("Aggregate() error = %v, want context.Canceled", err)
	}
}

func BenchmarkRun(b *testing.B) {
	states := []string{"SP", "RJ", "MG", "BA", "RS", "PR"}
	categories := []string{"eletronicos", "moveis", "livros", "brinquedos"}
	raw := make([]models.RawSale, 10000)
	for i := range raw {
		raw[i] = models.RawSale{
			Price:        decimal.NewFromInt(int64(i % 500)),
			PurchaseDate: time.Date(2020+i%3, time.Month(1+i%12), 1+i%28, 0, 0, 0, 0, time.UTC).Format("02/01/2006"),
			Location:     states[i%len(states)],
			Category:     categories[i%len(categories)],
			Seller:       "seller" + string(rune('A'+i%8)),
		}
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := Run(context.Background(), raw); err != nil {
			b.Fatal(err)
		}
	}
}
