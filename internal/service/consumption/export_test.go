package consumption

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/bagstock/internal/domain/bags"
	"github.com/mamadbah2/bagstock/internal/domain/models"
)

func TestWriteWorkbook(t *testing.T) {
	calc := NewCalculator(nil, bags.DefaultInitialStock)
	result := Result{
		Window: Window{
			From: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		},
		Report: calc.Compute([]models.SalesAggregateRow{
			{SKU: "5", Name: "Arena 28kg", DocumentType: models.DocumentInvoice, Units: 3},
			{SKU: "99", Name: "Desconocido", DocumentType: models.DocumentInvoice, Units: 1},
		}),
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, result); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	cells := []struct {
		sheet, cell, want string
	}{
		{summarySheet, "B1", "2026-10-01"},
		{summarySheet, "B2", "2026-10-15"},
		{summarySheet, "A5", "8kg lavanda"},
		{summarySheet, "B5", "1091"},
		{summarySheet, "C5", "3"},
		{summarySheet, "D5", "1088"},
		{summarySheet, "D6", "851"},
		{summarySheet, "A10", "Total 8kg"},
		{summarySheet, "C11", "3"},
		{detailSheet, "A2", "5"},
		{detailSheet, "D2", "3"},
		{detailSheet, "E2", "3"},
		{detailSheet, "F2", "3"},
		{unmappedSheet, "A2", "99"},
	}
	for _, tt := range cells {
		got, err := f.GetCellValue(tt.sheet, tt.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s, %s): %v", tt.sheet, tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("%s!%s = %q, want %q", tt.sheet, tt.cell, got, tt.want)
		}
	}
}

func TestWriteWorkbook_NoUnmappedSheet(t *testing.T) {
	result := Result{Report: NewCalculator(nil, bags.DefaultInitialStock).Compute(nil)}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, result); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		if name == unmappedSheet {
			t.Fatal("unexpected unmapped sheet")
		}
	}
}
