package pipeline

import "sales-dashboard/internal/models"

// LocationIndex maps a location name to its coordinates. Treat it as
// read-only once built.
type LocationIndex map[string]models.Coordinates

// BuildLocationIndex keeps the coordinates of the first record seen for
// each location.
func BuildLocationIndex(records []models.SaleRecord) LocationIndex {
	idx := make(LocationIndex)
	for _, r := range records {
		if _, ok := idx[r.Location]; !ok {
			idx[r.Location] = r.Coordinates
		}
	}
	return idx
}

func (idx LocationIndex) Lookup(location string) (*models.Coordinates, bool) {
	c, ok := idx[location]
	if !ok {
		return nil, false
	}
	return &c, true
}

// JoinRevenueCoordinates attaches coordinates by exact location match.
// Rows without an index entry are kept with nil coordinates.
func JoinRevenueCoordinates(rows []models.GroupRevenue, idx LocationIndex) []models.StateRevenue {
	result := make([]models.StateRevenue, len(rows))
	for i, r := range rows {
		coords, _ := idx.Lookup(r.Key)
		result[i] = models.StateRevenue{Location: r.Key, Coordinates: coords, Revenue: r.Revenue}
	}
	return result
}

func JoinSalesCoordinates(rows []models.GroupSales, idx LocationIndex) []models.StateSales {
	result := make([]models.StateSales, len(rows))
	for i, r := range rows {
		coords, _ := idx.Lookup(r.Key)
		result[i] = models.StateSales{Location: r.Key, Coordinates: coords, Sales: r.Sales}
	}
	return result
}
