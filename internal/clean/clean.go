package clean

import (
	"strconv"
	"strings"
	"time"

	"citrusflow/internal/analytics"
	"citrusflow/internal/schema"
	"citrusflow/logger"
)

// unknownLabel fills missing categorical values, matching the source data
// convention.
const unknownLabel = "Unknown"

// timestampLayouts are tried in order when parsing the order timestamp.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006.01.02",
	time.RFC3339,
}

// Clean converts the raw table into a typed dataset: currency columns to
// numbers (unparseable cells coerce to 0), the order timestamp to a
// time.Time with a derived calendar date, the cancel flag to a bool, and
// empty categoricals to "Unknown". Missing columns are tolerated and
// recorded as absent on the dataset; Clean never fails.
func Clean(table *schema.Table) *analytics.Dataset {
	log := logger.GetLogger().WithComponent("cleaner")

	cols := columnSet{table: table}
	fields := map[analytics.Field]bool{
		analytics.FieldOrderID:      table.HasColumn(schema.ColOrderID),
		analytics.FieldOrderedAt:    table.HasColumn(schema.ColOrderedAt),
		analytics.FieldContact:      table.HasColumn(schema.ColContact),
		analytics.FieldSeller:       table.HasColumn(schema.ColSeller),
		analytics.FieldProduct:      table.HasColumn(schema.ColProduct),
		analytics.FieldQuantity:     table.HasColumn(schema.ColQuantity),
		analytics.FieldUnitPrice:    table.HasColumn(schema.ColUnitPrice),
		analytics.FieldSupplyPrice:  table.HasColumn(schema.ColSupplyPrice),
		analytics.FieldPaid:         table.HasColumn(schema.ColPaid),
		analytics.FieldCancelFlag:   table.HasColumn(schema.ColCancelFlag),
		analytics.FieldPurpose:      table.HasColumn(schema.ColPurpose),
		analytics.FieldChannel:      table.HasColumn(schema.ColChannel),
		analytics.FieldRegion:       table.HasColumn(schema.ColRegion) || table.HasColumn(schema.ColZipcode),
		analytics.FieldCitrusDetail: table.HasColumn(schema.ColCitrusDetail),
		analytics.FieldVariety:      table.HasColumn(schema.ColVariety),
		analytics.FieldFruitSize:    table.HasColumn(schema.ColFruitSize),
		analytics.FieldWeight:       table.HasColumn(schema.ColWeightKg),
	}

	hasZipcode := table.HasColumn(schema.ColZipcode)
	badTimestamps := 0

	orders := make([]analytics.Order, table.Len())
	for i := range orders {
		o := analytics.Order{
			OrderID:      cols.cell(i, schema.ColOrderID),
			Contact:      cols.cell(i, schema.ColContact),
			Seller:       cols.cell(i, schema.ColSeller),
			Product:      cols.cell(i, schema.ColProduct),
			Quantity:     CoerceNumber(cols.cell(i, schema.ColQuantity)),
			UnitPrice:    CoerceNumber(cols.cell(i, schema.ColUnitPrice)),
			SupplyPrice:  CoerceNumber(cols.cell(i, schema.ColSupplyPrice)),
			Paid:         CoerceNumber(cols.cell(i, schema.ColPaid)),
			Payment:      CoerceNumber(cols.cell(i, schema.ColPayment)),
			CancelAmount: CoerceNumber(cols.cell(i, schema.ColCancelAmount)),
			Cancelled:    strings.EqualFold(cols.cell(i, schema.ColCancelFlag), "Y"),
			Purpose:      cols.cell(i, schema.ColPurpose),
			Channel:      fillUnknown(cols.cell(i, schema.ColChannel)),
			CitrusDetail: fillUnknown(cols.cell(i, schema.ColCitrusDetail)),
			Variety:      fillUnknown(cols.cell(i, schema.ColVariety)),
			FruitSize:    cols.cell(i, schema.ColFruitSize),
			Weight:       cols.cell(i, schema.ColWeightKg),
			Repurchase:   -1,
		}

		if fields[analytics.FieldOrderedAt] {
			if ts, ok := parseTimestamp(cols.cell(i, schema.ColOrderedAt)); ok {
				o.OrderedAt = ts
				o.Date = analytics.Day(ts)
			} else {
				badTimestamps++
			}
		}

		// The zipcode is the authoritative region source; the raw region
		// column is only a fallback when no zipcode column exists.
		if hasZipcode {
			o.Region = RegionFromZipcode(cols.cell(i, schema.ColZipcode))
		} else {
			o.Region = cols.cell(i, schema.ColRegion)
		}

		orders[i] = o
	}

	if badTimestamps > 0 {
		log.WithFields(logger.Fields{"rows": badTimestamps}).Warn("rows with unparseable order timestamp")
	}

	return analytics.NewDataset(orders, fields, table.Fingerprint())
}

// CoerceNumber turns a currency-as-text cell into a float64. Every rune
// except digits, '.' and '-' is stripped before parsing; anything that
// still does not parse becomes 0.
func CoerceNumber(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func fillUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}

// columnSet caches column lookups against the table.
type columnSet struct {
	table *schema.Table
	cache map[string]int
}

func (c *columnSet) cell(row int, name string) string {
	if c.cache == nil {
		c.cache = make(map[string]int)
	}
	idx, ok := c.cache[name]
	if !ok {
		i, exists := c.table.Column(name)
		if !exists {
			i = -1
		}
		c.cache[name] = i
		idx = i
	}
	if idx < 0 {
		return ""
	}
	return c.table.Cell(row, idx)
}
