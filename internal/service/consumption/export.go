package consumption

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/bagstock/internal/domain/bags"
)

const (
	summarySheet  = "Consumo"
	detailSheet   = "Detalle"
	unmappedSheet = "Sin mapa"
)

// WriteWorkbook renders result as an xlsx workbook with a per-unit summary
// sheet and one row per detail line.
func WriteWorkbook(w io.Writer, result Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, result); err != nil {
		return err
	}

	if _, err := f.NewSheet(detailSheet); err != nil {
		return fmt.Errorf("create detail sheet: %w", err)
	}
	if err := writeDetailSheet(f, result); err != nil {
		return err
	}

	if len(result.Report.UnmappedSKUs) > 0 {
		if _, err := f.NewSheet(unmappedSheet); err != nil {
			return fmt.Errorf("create unmapped sheet: %w", err)
		}
		if err := setRow(f, unmappedSheet, 1, []interface{}{"SKU"}); err != nil {
			return err
		}
		for i, sku := range result.Report.UnmappedSKUs {
			if err := setRow(f, unmappedSheet, i+2, []interface{}{sku}); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result Result) error {
	report := result.Report
	inventory := report.Inventory()

	rows := [][]interface{}{
		{"Desde", result.Window.From.Format(dateLayout)},
		{"Hasta", result.Window.To.Format(dateLayout)},
		{},
		{"Bolsa", "Stock inicial", "Consumo", "Inventario"},
	}
	for _, u := range bags.Units {
		rows = append(rows, []interface{}{u.Label(), report.InitialStock[u], report.Consumed[u], inventory[u]})
	}
	rows = append(rows,
		[]interface{}{"Total 8kg", report.InitialStock8(), report.Consumed8(), report.Inventory8()},
		[]interface{}{"Total 20kg", report.InitialStock20(), report.Consumed20(), report.Inventory20()},
	)

	for i, row := range rows {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeDetailSheet(f *excelize.File, result Result) error {
	header := []interface{}{"SKU", "Nombre", "Tipo doc", "Unidades"}
	for _, u := range bags.Units {
		header = append(header, "Bolsas "+u.Key())
	}
	if err := setRow(f, detailSheet, 1, header); err != nil {
		return err
	}

	for i, line := range result.Report.Detail {
		row := []interface{}{line.SKU, line.Name, string(line.DocumentType), line.Units}
		for _, u := range bags.Units {
			row = append(row, line.Bags[u])
		}
		if err := setRow(f, detailSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNo int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNo, err)
	}
	return nil
}
