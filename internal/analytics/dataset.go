package analytics

import "time"

// Field identifies a logical column of the cleaned dataset. Computations
// declare the fields they need and degrade to a defined zero result when
// one is absent, instead of scattering presence checks.
type Field string

const (
	FieldOrderID      Field = "order_id"
	FieldOrderedAt    Field = "ordered_at"
	FieldContact      Field = "contact"
	FieldSeller       Field = "seller"
	FieldProduct      Field = "product"
	FieldQuantity     Field = "quantity"
	FieldUnitPrice    Field = "unit_price"
	FieldSupplyPrice  Field = "supply_price"
	FieldPaid         Field = "paid"
	FieldCancelFlag   Field = "cancel_flag"
	FieldPurpose      Field = "purpose"
	FieldChannel      Field = "channel"
	FieldRegion       Field = "region"
	FieldCitrusDetail Field = "citrus_detail"
	FieldVariety      Field = "variety"
	FieldFruitSize    Field = "fruit_size"
	FieldWeight       Field = "weight"
)

// Order is one cleaned row of the source table. Orders are immutable
// facts; nothing downstream writes back into them except the repurchase
// annotation.
type Order struct {
	OrderID   string
	OrderedAt time.Time
	// Date is OrderedAt truncated to the calendar day (UTC midnight).
	Date    time.Time
	Contact string
	Seller  string
	Product string

	Quantity     float64
	UnitPrice    float64
	SupplyPrice  float64
	Paid         float64
	Payment      float64
	CancelAmount float64

	Cancelled bool

	Purpose      string
	Channel      string
	Region       string
	CitrusDetail string
	Variety      string
	FruitSize    string
	Weight       string

	// Repurchase is the contact's global repurchase count, broadcast to
	// each of the contact's rows by AnnotateRepurchase. -1 until annotated.
	Repurchase int
}

// Dataset is the cleaned table plus the explicit set of fields that were
// actually present in the input.
type Dataset struct {
	Orders      []Order
	Fingerprint string

	// MaxDate is the latest order date in the dataset; zero when the
	// date column is absent.
	MaxDate time.Time

	fields map[Field]bool
}

// NewDataset wraps cleaned orders with their field presence set.
func NewDataset(orders []Order, fields map[Field]bool, fingerprint string) *Dataset {
	ds := &Dataset{
		Orders:      orders,
		Fingerprint: fingerprint,
		fields:      fields,
	}
	if ds.fields == nil {
		ds.fields = make(map[Field]bool)
	}
	if ds.fields[FieldOrderedAt] {
		for _, o := range orders {
			if o.Date.After(ds.MaxDate) {
				ds.MaxDate = o.Date
			}
		}
	}
	return ds
}

// Has reports whether every given field was present in the input.
func (d *Dataset) Has(fields ...Field) bool {
	for _, f := range fields {
		if !d.fields[f] {
			return false
		}
	}
	return true
}

// Fields returns a copy of the presence set.
func (d *Dataset) Fields() map[Field]bool {
	out := make(map[Field]bool, len(d.fields))
	for f, ok := range d.fields {
		out[f] = ok
	}
	return out
}

// Day truncates t to UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
