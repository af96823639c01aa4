package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

func TestRevenueByMonth(t *testing.T) {
	records := mustParse(t, []models.RawSale{
		sale("30", "20/02/2022", "SP", 0, 0, "A", "X"),
		sale("10", "05/01/2022", "SP", 0, 0, "A", "X"),
		sale("20", "31/01/2022", "SP", 0, 0, "A", "X"),
		sale("5", "01/01/2021", "SP", 0, 0, "A", "X"),
	})

	got := RevenueByMonth(records)
	want := []struct {
		start   time.Time
		month   string
		year    int
		revenue int64
	}{
		{time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), "January", 2021, 5},
		{time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), "January", 2022, 30},
		{time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC), "February", 2022, 30},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(got))
	}
	for i, w := range want {
		g := got[i]
		if !g.MonthStart.Equal(w.start) || g.Month != w.month || g.Year != w.year || !g.Revenue.Equal(decimal.NewFromInt(w.revenue)) {
			t.Errorf("bucket %d = %+v, want %+v", i, g, w)
		}
	}
}

func TestSalesCountByMonth_OnlyMonthsPresent(t *testing.T) {
	records := mustParse(t, []models.RawSale{
		sale("10", "05/01/2022", "SP", 0, 0, "A", "X"),
		sale("0", "07/01/2022", "SP", 0, 0, "A", "X"),
		sale("10", "09/06/2022", "SP", 0, 0, "A", "X"),
	})

	got := SalesCountByMonth(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets (no gap filling), got %d", len(got))
	}
	if got[0].Month != "January" || got[0].Sales != 2 {
		t.Errorf("January bucket = %+v, want 2 sales", got[0])
	}
	if got[1].Month != "June" || got[1].Sales != 1 {
		t.Errorf("June bucket = %+v, want 1 sale", got[1])
	}
}

func TestMonthNameRollup(t *testing.T) {
	monthly := []models.MonthlySales{
		{Month: "January", Year: 2021, Sales: 2},
		{Month: "February", Year: 2021, Sales: 4},
		{Month: "March", Year: 2021, Sales: 1},
		{Month: "January", Year: 2022, Sales: 3},
		{Month: "March", Year: 2022, Sales: 3},
	}

	got := MonthNameRollup(monthly)
	want := []models.MonthNameSales{
		{Month: "January", Sales: 5},
		{Month: "February", Sales: 4},
		{Month: "March", Sales: 4},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMonthNameRollup_PreservesTotals(t *testing.T) {
	records := mustParse(t, dataset())
	monthly := SalesCountByMonth(records)
	rollup := MonthNameRollup(monthly)

	perName := make(map[string]int)
	for _, m := range monthly {
		perName[m.Month] += m.Sales
	}

	total := 0
	for _, r := range rollup {
		total += r.Sales
		if perName[r.Month] != r.Sales {
			t.Errorf("%s rollup = %d, monthly sum = %d", r.Month, r.Sales, perName[r.Month])
		}
	}
	if total != len(records) {
		t.Errorf("rollup total = %d, want %d", total, len(records))
	}
	if len(rollup) != len(perName) {
		t.Errorf("rollup has %d month names, want %d", len(rollup), len(perName))
	}
}
