package sheets

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/bagstock/internal/domain/models"
)

const (
	salesDataRange = "Ventas!A:E"
	dateLayout     = "2006-01-02"
)

// SalesSource reads sale lines from the "Ventas" sheet and groups them the
// same way the MongoDB aggregation does. Expected columns:
// fecha | sku | nombre | tipo_documento | cantidad.
type SalesSource struct {
	repo   Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewSalesSource wraps a sheet repository. Dates in the sheet are
// interpreted in loc.
func NewSalesSource(repo Repository, loc *time.Location, logger *zap.Logger) *SalesSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SalesSource{repo: repo, loc: loc, logger: logger}
}

type groupKey struct {
	sku, name string
	doc       models.DocumentType
}

// AggregateSales groups sheet rows dated within [start, end), preserving
// the order in which each group first appears.
func (s *SalesSource) AggregateSales(ctx context.Context, start, end time.Time) ([]models.SalesAggregateRow, error) {
	rows, err := s.repo.ReadRange(ctx, salesDataRange)
	if err != nil {
		return nil, fmt.Errorf("load sales range: %w", err)
	}

	index := make(map[groupKey]int)
	out := make([]models.SalesAggregateRow, 0)

	for i, row := range rows {
		if len(row) < 2 {
			continue
		}

		date, err := parseDate(row[0], s.loc)
		if err != nil {
			// the header row lands here as well
			s.logger.Debug("skip sales row with invalid date", zap.Int("row", i+1), zap.Any("value", row[0]), zap.Error(err))
			continue
		}
		if date.Before(start) || !date.Before(end) {
			continue
		}

		key := groupKey{
			sku:  cell(row, 1),
			name: cell(row, 2),
			doc:  models.DocumentType(cell(row, 3)),
		}

		qty, err := parseInt(cellValue(row, 4))
		if err != nil {
			s.logger.Debug("sales row with invalid quantity counted as zero", zap.Int("row", i+1), zap.Any("value", cellValue(row, 4)), zap.Error(err))
			qty = 0
		}

		if pos, ok := index[key]; ok {
			out[pos].Units += qty
			continue
		}
		index[key] = len(out)
		out = append(out, models.SalesAggregateRow{
			SKU:          key.sku,
			Name:         key.name,
			DocumentType: key.doc,
			Units:        qty,
		})
	}

	return out, nil
}

func cellValue(row []interface{}, i int) interface{} {
	if i >= len(row) {
		return nil
	}
	return row[i]
}

func cell(row []interface{}, i int) string {
	v := cellValue(row, i)
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func parseDate(value interface{}, loc *time.Location) (time.Time, error) {
	str := strings.TrimSpace(fmt.Sprint(value))
	if str == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(str) > 10 {
		str = str[:10]
	}
	return time.ParseInLocation(dateLayout, str, loc)
}

func parseInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("non-integer quantity %v", v)
		}
		return int(v), nil
	}
	str := strings.TrimSpace(fmt.Sprint(value))
	if str == "" {
		return 0, nil
	}
	return strconv.Atoi(str)
}
