package services

import (
	"sort"

	"github.com/vsinha/shiptrack/pkg/domain/entities"
)

// SortByCurrentShipDate returns a new slice ordered by ascending current ship date.
// Items sharing a date keep their input order; the input slice is left untouched.
func SortByCurrentShipDate(items []*entities.ProductionItem) []*entities.ProductionItem {
	sorted := make([]*entities.ProductionItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CurrentShipDate.Before(sorted[j].CurrentShipDate)
	})
	return sorted
}
