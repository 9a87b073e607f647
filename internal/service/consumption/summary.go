package consumption

import (
	"fmt"
	"strings"

	"github.com/mamadbah2/bagstock/internal/domain/bags"
)

// Summary renders the report as plain text for chat delivery.
func Summary(result Result) string {
	report := result.Report
	inventory := report.Inventory()

	var b strings.Builder
	fmt.Fprintf(&b, "Consumo de bolsas (%s)\n", result.Window)
	for _, u := range bags.Units {
		fmt.Fprintf(&b, "- %s: consumo %d, inventario %d\n", u.Label(), report.Consumed[u], inventory[u])
	}
	fmt.Fprintf(&b, "Total 8kg: consumo %d, inventario %d\n", report.Consumed8(), inventory.SmallTotal())
	fmt.Fprintf(&b, "Total 20kg: consumo %d, inventario %d", report.Consumed20(), inventory.LargeTotal())
	if len(report.UnmappedSKUs) > 0 {
		fmt.Fprintf(&b, "\nSKUs sin mapa: %s", joinSKUs(report.UnmappedSKUs))
	}
	return b.String()
}

// InventorySummary lists the bags currently on hand.
func InventorySummary(result Result) string {
	inventory := result.Report.Inventory()

	var b strings.Builder
	fmt.Fprintf(&b, "Inventario de bolsas al %s\n", result.Window.To.Format(dateLayout))
	for _, u := range bags.Units {
		fmt.Fprintf(&b, "- %s: %d de %d\n", u.Label(), inventory[u], result.Report.InitialStock[u])
	}
	fmt.Fprintf(&b, "Total 8kg: %d | Total 20kg: %d", inventory.SmallTotal(), inventory.LargeTotal())
	return b.String()
}

// UnmappedSummary lists SKUs sold in the window that have no bag decomposition.
func UnmappedSummary(result Result) string {
	if len(result.Report.UnmappedSKUs) == 0 {
		return fmt.Sprintf("Sin SKUs pendientes de mapa (%s).", result.Window)
	}
	return fmt.Sprintf("SKUs sin mapa (%s): %s", result.Window, joinSKUs(result.Report.UnmappedSKUs))
}

func joinSKUs(skus []string) string {
	return strings.Join(skus, ", ")
}
