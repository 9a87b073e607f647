package models

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DocumentType is the kind of sales document a line was issued on. Values are
// kept verbatim from the source system; only credit notes change the sign.
type DocumentType string

const (
	DocumentInvoice    DocumentType = "factura"
	DocumentReceipt    DocumentType = "boleta"
	DocumentCreditNote DocumentType = "nota_credito"
)

var creditNoteAliases = map[string]struct{}{
	"nota_credito":    {},
	"nota_de_credito": {},
	"nc":              {},
	"credit_note":     {},
}

// IsCreditNote reports whether the document reverses a previous sale. Case,
// accents and word separators are ignored.
func (d DocumentType) IsCreditNote() bool {
	_, ok := creditNoteAliases[normalizeDocumentType(string(d))]
	return ok
}

func normalizeDocumentType(value string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), value)
	if err != nil {
		folded = value
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	return strings.Join(strings.FieldsFunc(folded, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

// Sign is -1 for credit notes and +1 for every other document type.
func (d DocumentType) Sign() int {
	if d.IsCreditNote() {
		return -1
	}
	return 1
}

// SalesAggregateRow is the unit total for one (sku, product, document type)
// group inside a reporting window. Units carries no sign yet.
type SalesAggregateRow struct {
	SKU          string       `json:"sku" bson:"sku"`
	Name         string       `json:"nombre" bson:"nombre"`
	DocumentType DocumentType `json:"tipo_doc" bson:"tipo_documento"`
	Units        int          `json:"unidades_sku" bson:"unidades"`
}

// SaleLine is a single sold item as stored by the sales collection.
type SaleLine struct {
	Date         time.Time    `bson:"fecha" json:"fecha"`
	SKU          string       `bson:"sku" json:"sku"`
	Name         string       `bson:"nombre" json:"nombre"`
	DocumentType DocumentType `bson:"tipo_documento" json:"tipo_documento"`
	Quantity     int          `bson:"cantidad" json:"cantidad"`
}
