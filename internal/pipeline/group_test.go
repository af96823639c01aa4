package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

func TestParseDates(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		want    time.Time
		wantErr bool
	}{
		{name: "zero padded", date: "05/03/2022", want: time.Date(2022, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "single digits", date: "1/2/2022", want: time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC)},
		{name: "surrounding spaces", date: " 31/12/2020 ", want: time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)},
		{name: "iso format", date: "2022-03-05", wantErr: true},
		{name: "day out of range", date: "31/02/2022", wantErr: true},
		{name: "empty", date: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseDates([]models.RawSale{sale("10", tt.date, "SP", 0, 0, "A", "X")})

			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDates() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected *ParseError, got %T", err)
				}
				if parseErr.Field != "purchase date" {
					t.Errorf("ParseError.Field = %q, want purchase date", parseErr.Field)
				}
				return
			}
			if !records[0].PurchaseDate.Equal(tt.want) {
				t.Errorf("PurchaseDate = %v, want %v", records[0].PurchaseDate, tt.want)
			}
		})
	}
}

func TestParseDates_NegativePrice(t *testing.T) {
	raw := []models.RawSale{
		sale("10", "01/01/2022", "SP", 0, 0, "A", "X"),
		sale("-1", "01/01/2022", "SP", 0, 0, "A", "X"),
	}

	_, err := ParseDates(raw)
	if !errors.Is(err, ErrNegativePrice) {
		t.Fatalf("ParseDates() error = %v, want ErrNegativePrice", err)
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) && parseErr.Index != 1 {
		t.Errorf("ParseError.Index = %d, want 1", parseErr.Index)
	}
}

func TestRevenueBy_TiesKeepFirstOccurrence(t *testing.T) {
	records := mustParse(t, []models.RawSale{
		sale("50", "01/01/2022", "SP", 0, 0, "B", "X"),
		sale("50", "01/01/2022", "RJ", 0, 0, "A", "X"),
		sale("100", "01/01/2022", "MG", 0, 0, "C", "X"),
	})

	got := RevenueBy(records, DimensionCategory)
	want := []string{"C", "B", "A"}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i, key := range want {
		if got[i].Key != key {
			t.Errorf("row %d = %s, want %s", i, got[i].Key, key)
		}
	}

	byLocation := RevenueBy(records, DimensionLocation)
	if byLocation[0].Key != "MG" || byLocation[1].Key != "SP" || byLocation[2].Key != "RJ" {
		t.Errorf("location order = %s,%s,%s, want MG,SP,RJ", byLocation[0].Key, byLocation[1].Key, byLocation[2].Key)
	}
}

func TestCountBy(t *testing.T) {
	records := mustParse(t, []models.RawSale{
		sale("10", "01/01/2022", "SP", 0, 0, "A", "X"),
		sale("10", "01/01/2022", "RJ", 0, 0, "B", "X"),
		sale("10", "01/01/2022", "RJ", 0, 0, "B", "X"),
		sale("0", "01/01/2022", "SP", 0, 0, "A", "X"),
		sale("10", "01/01/2022", "MG", 0, 0, "C", "X"),
	})

	got := CountBy(records, DimensionLocation)
	want := []models.GroupSales{{Key: "SP", Sales: 2}, {Key: "RJ", Sales: 2}, {Key: "MG", Sales: 1}}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBuildLocationIndex_FirstRepresentativeWins(t *testing.T) {
	records := mustParse(t, []models.RawSale{
		sale("10", "01/01/2022", "SP", 1, 2, "A", "X"),
		sale("10", "01/01/2022", "SP", 9, 9, "A", "X"),
		sale("10", "01/01/2022", "RJ", 3, 4, "A", "X"),
	})

	idx := BuildLocationIndex(records)
	if len(idx) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(idx))
	}
	if c := idx["SP"]; c.Lat != 1 || c.Lon != 2 {
		t.Errorf("SP coordinates = %+v, want (1, 2)", c)
	}
}

func TestJoinCoordinates_KeepsUnmatchedRows(t *testing.T) {
	idx := LocationIndex{"SP": {Lat: 1, Lon: 2}}
	rows := []models.GroupRevenue{
		{Key: "SP", Revenue: decimal.NewFromInt(10)},
		{Key: "XX", Revenue: decimal.NewFromInt(5)},
	}

	got := JoinRevenueCoordinates(rows, idx)
	if len(got) != 2 {
		t.Fatalf("left join should keep every row, got %d", len(got))
	}
	if got[0].Coordinates == nil || got[0].Coordinates.Lat != 1 {
		t.Errorf("SP should carry coordinates, got %+v", got[0].Coordinates)
	}
	if got[1].Location != "XX" || got[1].Coordinates != nil {
		t.Errorf("XX should be kept without coordinates, got %+v", got[1])
	}
	if !got[1].Revenue.Equal(decimal.NewFromInt(5)) {
		t.Errorf("XX revenue = %s, want 5", got[1].Revenue)
	}

	sales := JoinSalesCoordinates([]models.GroupSales{{Key: "XX", Sales: 3}}, idx)
	if len(sales) != 1 || sales[0].Coordinates != nil || sales[0].Sales != 3 {
		t.Errorf("unexpected sales join result %+v", sales)
	}
}

func TestDimension_String(t *testing.T) {
	if DimensionLocation.String() != "location" || DimensionCategory.String() != "category" {
		t.Error("unexpected dimension names")
	}
	if Dimension(42).String() != "unknown" {
		t.Error("unknown dimension should say so")
	}
}
