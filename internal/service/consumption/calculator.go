package consumption

import (
	"sort"
	"strings"

	"github.com/mamadbah2/bagstock/internal/domain/bags"
	"github.com/mamadbah2/bagstock/internal/domain/models"
)

// Decomposer resolves the bags consumed by one unit of a SKU.
type Decomposer func(sku string) (bags.Counts, bool)

// Calculator turns aggregated sales rows into bag consumption and inventory.
// It holds no mutable state and may be shared between goroutines.
type Calculator struct {
	decompose    Decomposer
	initialStock bags.Counts
}

// NewCalculator builds a calculator over the given decomposition table and
// initial stock. A nil decomposer falls back to bags.Decompose.
func NewCalculator(decompose Decomposer, initialStock bags.Counts) *Calculator {
	if decompose == nil {
		decompose = bags.Decompose
	}
	return &Calculator{decompose: decompose, initialStock: initialStock}
}

// Compute aggregates the signed bag consumption of rows.
//
// Credit notes subtract from consumption. Rows whose SKU has no known
// decomposition are skipped; if they carry units their SKU is reported in
// UnmappedSKUs. Detail lines are ordered by total bag movement, largest
// first, keeping input order among ties.
func (c *Calculator) Compute(rows []models.SalesAggregateRow) models.ConsumptionReport {
	var consumed bags.Counts
	detail := make([]models.ConsumptionDetailLine, 0, len(rows))
	unmapped := make(map[string]struct{})

	for _, row := range rows {
		sku := strings.TrimSpace(row.SKU)
		units := row.DocumentType.Sign() * row.Units

		perUnit, ok := c.decompose(sku)
		if !ok {
			if row.Units != 0 {
				unmapped[sku] = struct{}{}
			}
			continue
		}

		delta := perUnit.Scale(units)
		consumed = consumed.Add(delta)

		detail = append(detail, models.ConsumptionDetailLine{
			SKU:          sku,
			Name:         row.Name,
			DocumentType: row.DocumentType,
			Units:        units,
			Bags:         delta,
		})
	}

	sort.SliceStable(detail, func(i, j int) bool {
		return detail[i].Movement() > detail[j].Movement()
	})

	return models.ConsumptionReport{
		Consumed:     consumed,
		InitialStock: c.initialStock,
		Detail:       detail,
		UnmappedSKUs: sortedNonBlank(unmapped),
	}
}

func sortedNonBlank(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for sku := range set {
		if sku != "" {
			out = append(out, sku)
		}
	}
	sort.Strings(out)
	return out
}

// InitialStock returns the stock the inventory is derived from.
func (c *Calculator) InitialStock() bags.Counts { return c.initialStock }
