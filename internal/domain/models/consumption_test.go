package models

import (
	"encoding/json"
	"testing"

	"github.com/mamadbah2/bagstock/internal/domain/bags"
)

func TestConsumptionReport_DerivedFields(t *testing.T) {
	r := ConsumptionReport{
		Consumed:     bags.Counts{8, 1, 2, 3, 4},
		InitialStock: bags.Counts{10, 10, 10, 10, 10},
	}

	if got := r.Inventory(); got != (bags.Counts{2, 9, 8, 7, 6}) {
		t.Fatalf("Inventory = %v", got)
	}
	if r.Consumed8() != 10 || r.Consumed20() != 8 {
		t.Errorf("combined consumption = %d/%d, want 10/8", r.Consumed8(), r.Consumed20())
	}
	if r.InitialStock8() != 20 || r.InitialStock20() != 30 {
		t.Errorf("combined stock = %d/%d, want 20/30", r.InitialStock8(), r.InitialStock20())
	}
	if r.Inventory8() != r.InitialStock8()-r.Consumed8() {
		t.Errorf("inventario_8 %d != stock_8 - consumo_8", r.Inventory8())
	}
	if r.Inventory20() != r.InitialStock20()-r.Consumed20() {
		t.Errorf("inventario_20 %d != stock_20 - consumo_20", r.Inventory20())
	}
}

func TestConsumptionReport_MarshalJSONShape(t *testing.T) {
	r := ConsumptionReport{
		Consumed:     bags.Counts{8, 0, 0, 3, 0},
		InitialStock: bags.DefaultInitialStock,
		Detail: []ConsumptionDetailLine{{
			SKU:          "1",
			Name:         "8kg lav",
			DocumentType: DocumentInvoice,
			Units:        10,
			Bags:         bags.Counts{10, 0, 0, 0, 0},
		}},
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]json.RawMessage
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	keys := []string{
		"consumo_8_lav", "consumo_20_lav", "consumo_8_carbon", "consumo_20_carbon", "consumo_20_talco",
		"stock_inicial_8_lav", "stock_inicial_20_lav", "stock_inicial_8_carbon", "stock_inicial_20_carbon", "stock_inicial_20_talco",
		"inventario_8_lav", "inventario_20_lav", "inventario_8_carbon", "inventario_20_carbon", "inventario_20_talco",
		"consumo_8", "consumo_20", "inventario_8", "inventario_20", "stock_inicial_8", "stock_inicial_20",
		"detalle", "skus_sin_mapa",
	}
	for _, k := range keys {
		if _, ok := got[k]; !ok {
			t.Errorf("missing key %s", k)
		}
	}
	if len(got) != len(keys) {
		t.Errorf("expected %d keys, got %d", len(keys), len(got))
	}

	if string(got["inventario_8_lav"]) != "1083" {
		t.Errorf("inventario_8_lav = %s, want 1083", got["inventario_8_lav"])
	}
	if string(got["skus_sin_mapa"]) != "[]" {
		t.Errorf("skus_sin_mapa = %s, want []", got["skus_sin_mapa"])
	}

	var detail []map[string]any
	if err := json.Unmarshal(got["detalle"], &detail); err != nil {
		t.Fatalf("unmarshal detalle: %v", err)
	}
	if len(detail) != 1 {
		t.Fatalf("expected 1 detail line, got %d", len(detail))
	}
	line := detail[0]
	if line["tipo_doc"] != "factura" || line["unidades_sku"] != float64(10) {
		t.Errorf("unexpected detail line %v", line)
	}
	if line["bolsas_8"] != float64(10) || line["bolsas_20"] != float64(0) {
		t.Errorf("unexpected legacy totals in %v", line)
	}
}

func TestDocumentType_Sign(t *testing.T) {
	tests := []struct {
		doc  DocumentType
		want int
	}{
		{DocumentInvoice, 1},
		{DocumentReceipt, 1},
		{DocumentCreditNote, -1},
		{"NOTA_CREDITO", -1},
		{" Nota de Credito ", -1},
		{"credit-note", -1},
		{"Nota de Crédito", -1},
		{"NC", -1},
		{"nota-credito-electronica", 1},
		{"guia_despacho", 1},
		{"", 1},
	}

	for _, tt := range tests {
		if got := tt.doc.Sign(); got != tt.want {
			t.Errorf("%q.Sign() = %d, want %d", tt.doc, got, tt.want)
		}
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  CommandType
		args  int
	}{
		{"/consumo", CommandConsumption, 0},
		{"/Consumo 2026-01-01 2026-02-01", CommandConsumption, 2},
		{"inventario", CommandInventory, 0},
		{"/stock", CommandInventory, 0},
		{"/skus", CommandUnmapped, 0},
		{"/ayuda", CommandHelp, 0},
		{"hola", CommandUnknown, 0},
		{"   ", CommandUnknown, 0},
	}

	for _, tt := range tests {
		cmd := ParseCommand(tt.input)
		if cmd.Type != tt.want {
			t.Errorf("ParseCommand(%q).Type = %s, want %s", tt.input, cmd.Type, tt.want)
		}
		if len(cmd.Args) != tt.args {
			t.Errorf("ParseCommand(%q) args = %v, want %d", tt.input, cmd.Args, tt.args)
		}
	}
}

func TestWebhookPayload_Messages(t *testing.T) {
	raw := `{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{"messages":[
		{"from":"569","id":"a","type":"text","text":{"body":"/consumo"}},
		{"from":"569","id":"b","type":"interactive","interactive":{"type":"button_reply","button_reply":{"id":"/inventario","title":"Inventario"}}}
	]}}]}]}`

	var payload WebhookPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	msgs := payload.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Body() != "/consumo" || msgs[1].Body() != "/inventario" {
		t.Errorf("unexpected bodies %q %q", msgs[0].Body(), msgs[1].Body())
	}
}
