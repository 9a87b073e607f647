package models

import "time"

// ConsumptionSnapshot is the persisted summary of a scheduled or on-demand report.
type ConsumptionSnapshot struct {
	RunID        string         `bson:"run_id" json:"run_id"`
	From         time.Time      `bson:"desde" json:"desde"`
	To           time.Time      `bson:"hasta" json:"hasta"`
	Consumed     map[string]int `bson:"consumo" json:"consumo"`
	InitialStock map[string]int `bson:"stock_inicial" json:"stock_inicial"`
	Inventory    map[string]int `bson:"inventario" json:"inventario"`
	Consumed8    int            `bson:"consumo_8" json:"consumo_8"`
	Consumed20   int            `bson:"consumo_20" json:"consumo_20"`
	Inventory8   int            `bson:"inventario_8" json:"inventario_8"`
	Inventory20  int            `bson:"inventario_20" json:"inventario_20"`
	DetailLines  int            `bson:"lineas_detalle" json:"lineas_detalle"`
	UnmappedSKUs []string       `bson:"skus_sin_mapa" json:"skus_sin_mapa"`
	CreatedAt    time.Time      `bson:"created_at" json:"created_at"`
}
