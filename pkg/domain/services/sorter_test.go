package services

import (
	"testing"

	"github.com/vsinha/shiptrack/pkg/domain/entities"
)

func TestSortByCurrentShipDate(t *testing.T) {
	items := []*entities.ProductionItem{
		itemShipping("2024-03-01"),
		itemShipping("2024-01-10"),
		itemShipping("2024-02-15"),
	}

	sorted := SortByCurrentShipDate(items)

	expected := []string{"2024-01-10", "2024-02-15", "2024-03-01"}
	for i, want := range expected {
		if got := sorted[i].CurrentShipDate.String(); got != want {
			t.Errorf("position %d: got %s, want %s", i, got, want)
		}
	}

	if items[0].CurrentShipDate.String() != "2024-03-01" {
		t.Error("input slice must not be reordered")
	}
}

func TestSortByCurrentShipDate_StableAndIdempotent(t *testing.T) {
	a := itemShipping("2024-02-01")
	a.ID = "a"
	b := itemShipping("2024-01-01")
	b.ID = "b"
	c := itemShipping("2024-02-01")
	c.ID = "c"
	d := itemShipping("2024-01-01")
	d.ID = "d"

	first := SortByCurrentShipDate([]*entities.ProductionItem{a, b, c, d})
	second := SortByCurrentShipDate(first)

	expected := []string{"b", "d", "a", "c"}
	for i, want := range expected {
		if first[i].ID != want {
			t.Errorf("first sort position %d: got %s, want %s", i, first[i].ID, want)
		}
		if second[i].ID != want {
			t.Errorf("second sort position %d: got %s, want %s", i, second[i].ID, want)
		}
	}
}

func TestSortByCurrentShipDate_Empty(t *testing.T) {
	if got := SortByCurrentShipDate(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d items", len(got))
	}
}
