package models

import (
	"encoding/json"

	"github.com/mamadbah2/bagstock/internal/domain/bags"
)

// ConsumptionDetailLine is the signed bag movement caused by one aggregate row.
type ConsumptionDetailLine struct {
	SKU          string
	Name         string
	DocumentType DocumentType
	Units        int
	Bags         bags.Counts
}

// Movement is the total number of bags moved in either direction.
func (l ConsumptionDetailLine) Movement() int { return l.Bags.AbsSum() }

// MarshalJSON keeps the flat shape consumed by existing report views,
// including the combined 8kg/20kg columns.
func (l ConsumptionDetailLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		SKU          string       `json:"sku"`
		Name         string       `json:"nombre"`
		DocumentType DocumentType `json:"tipo_doc"`
		Units        int          `json:"unidades_sku"`
		Bags8Lav     int          `json:"bolsas_8_lav"`
		Bags20Lav    int          `json:"bolsas_20_lav"`
		Bags8Carbon  int          `json:"bolsas_8_carbon"`
		Bags20Carbon int          `json:"bolsas_20_carbon"`
		Bags20Talc   int          `json:"bolsas_20_talco"`
		Bags8        int          `json:"bolsas_8"`
		Bags20       int          `json:"bolsas_20"`
	}{
		SKU:          l.SKU,
		Name:         l.Name,
		DocumentType: l.DocumentType,
		Units:        l.Units,
		Bags8Lav:     l.Bags[bags.SmallLavender],
		Bags20Lav:    l.Bags[bags.LargeLavender],
		Bags8Carbon:  l.Bags[bags.SmallCarbon],
		Bags20Carbon: l.Bags[bags.LargeCarbon],
		Bags20Talc:   l.Bags[bags.LargeTalc],
		Bags8:        l.Bags.SmallTotal(),
		Bags20:       l.Bags.LargeTotal(),
	})
}

// ConsumptionReport is the outcome of one consumption computation. Inventory
// and the combined 8kg/20kg figures are always derived from Consumed and
// InitialStock.
type ConsumptionReport struct {
	Consumed     bags.Counts
	InitialStock bags.Counts
	Detail       []ConsumptionDetailLine
	UnmappedSKUs []string
}

// Inventory is initial stock minus consumption, per unit. It may go negative.
func (r ConsumptionReport) Inventory() bags.Counts {
	return r.InitialStock.Sub(r.Consumed)
}

func (r ConsumptionReport) Consumed8() int      { return r.Consumed.SmallTotal() }
func (r ConsumptionReport) Consumed20() int     { return r.Consumed.LargeTotal() }
func (r ConsumptionReport) InitialStock8() int  { return r.InitialStock.SmallTotal() }
func (r ConsumptionReport) InitialStock20() int { return r.InitialStock.LargeTotal() }
func (r ConsumptionReport) Inventory8() int     { return r.Inventory().SmallTotal() }
func (r ConsumptionReport) Inventory20() int    { return r.Inventory().LargeTotal() }

// MarshalJSON flattens the report into the key layout used by the views.
func (r ConsumptionReport) MarshalJSON() ([]byte, error) {
	inventory := r.Inventory()
	out := make(map[string]any, 3*len(bags.Units)+8)
	for _, u := range bags.Units {
		out["consumo_"+u.Key()] = r.Consumed[u]
		out["stock_inicial_"+u.Key()] = r.InitialStock[u]
		out["inventario_"+u.Key()] = inventory[u]
	}
	out["consumo_8"] = r.Consumed8()
	out["consumo_20"] = r.Consumed20()
	out["inventario_8"] = inventory.SmallTotal()
	out["inventario_20"] = inventory.LargeTotal()
	out["stock_inicial_8"] = r.InitialStock8()
	out["stock_inicial_20"] = r.InitialStock20()

	detail := r.Detail
	if detail == nil {
		detail = []ConsumptionDetailLine{}
	}
	unmapped := r.UnmappedSKUs
	if unmapped == nil {
		unmapped = []string{}
	}
	out["detalle"] = detail
	out["skus_sin_mapa"] = unmapped
	return json.Marshal(out)
}
