package bags

import (
	"sort"
	"strconv"
)

// DefaultInitialStock is the bag count on hand when tracking started.
// Lavender figures already discount bags lost before the first sale.
var DefaultInitialStock = Counts{
	SmallLavender: 1095 - 4,
	LargeLavender: 862 - 8,
	SmallCarbon:   999,
	LargeCarbon:   750,
	LargeTalc:     150,
}

// skuBags maps each sellable SKU to the bags one unit of it consumes.
var skuBags = map[string]Counts{
	// lavanda
	"1": {1, 0, 0, 0, 0}, // 8kg
	"2": {2, 0, 0, 0, 0}, // 16kg
	"3": {0, 1, 0, 0, 0}, // 20kg
	"4": {3, 0, 0, 0, 0}, // 24kg
	"5": {1, 1, 0, 0, 0}, // 28kg (8+20)
	"6": {4, 0, 0, 0, 0}, // 32kg
	"7": {0, 2, 0, 0, 0}, // 40kg (2x20)
	"8": {5, 0, 0, 0, 0}, // 40kg (5x8)

	// lavanda con carbón activado
	"9":  {0, 0, 1, 0, 0}, // 8kg
	"10": {0, 0, 2, 0, 0}, // 16kg
	"11": {0, 0, 0, 1, 0}, // 20kg
	"12": {0, 0, 3, 0, 0}, // 24kg
	"13": {0, 0, 1, 1, 0}, // 28kg (8+20)
	"14": {0, 0, 4, 0, 0}, // 32kg
	"15": {0, 0, 0, 2, 0}, // 40kg (2x20)
	"16": {0, 0, 5, 0, 0}, // 40kg (5x8)

	// talco de bebé con carbón activado
	"17": {0, 0, 0, 0, 1}, // 20kg
	"18": {0, 0, 0, 0, 2}, // 40kg (2x20)
}

// Decompose returns the bags consumed by one sold unit of sku. The second
// return value is false for unknown SKUs, including the empty string.
func Decompose(sku string) (Counts, bool) {
	c, ok := skuBags[sku]
	return c, ok
}

// Entry is one row of the SKU decomposition table.
type Entry struct {
	SKU  string `json:"sku"`
	Bags Counts `json:"bags"`
}

// Catalog lists the decomposition table ordered by numeric SKU.
func Catalog() []Entry {
	entries := make([]Entry, 0, len(skuBags))
	for sku, c := range skuBags {
		entries = append(entries, Entry{SKU: sku, Bags: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, errA := strconv.Atoi(entries[i].SKU)
		b, errB := strconv.Atoi(entries[j].SKU)
		if errA != nil || errB != nil {
			return entries[i].SKU < entries[j].SKU
		}
		return a < b
	})
	return entries
}
