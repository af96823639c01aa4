package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sales-dashboard/internal/models"
)

// PurchaseDateLayout is day/month/year; single-digit day and month are accepted.
const PurchaseDateLayout = "2/1/2006"

var ErrNegativePrice = errors.New("price must not be negative")

// ParseError reports the first raw record that could not be converted.
type ParseError struct {
	Index int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("record %d: invalid %s %q: %v", e.Index, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseDates validates raw records and converts their purchase dates. The
// first malformed record aborts the whole batch.
func ParseDates(raw []models.RawSale) ([]models.SaleRecord, error) {
	records := make([]models.SaleRecord, 0, len(raw))

	for i, r := range raw {
		value := strings.TrimSpace(r.PurchaseDate)
		date, err := time.ParseInLocation(PurchaseDateLayout, value, time.UTC)
		if err != nil {
			return nil, &ParseError{Index: i, Field: "purchase date", Value: r.PurchaseDate, Err: err}
		}

		if r.Price.IsNegative() {
			return nil, &ParseError{Index: i, Field: "price", Value: r.Price.String(), Err: ErrNegativePrice}
		}

		records = append(records, models.SaleRecord{
			Product:      r.Product,
			Category:     r.Category,
			Price:        r.Price,
			Freight:      r.Freight,
			PurchaseDate: date,
			Seller:       r.Seller,
			Location:     r.Location,
			Rating:       r.Rating,
			PaymentType:  r.PaymentType,
			Installments: r.Installments,
			Coordinates:  models.Coordinates{Lat: r.Lat, Lon: r.Lon},
		})
	}

	return records, nil
}
