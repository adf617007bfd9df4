package analytics

import (
	"sort"
	"time"
)

// SellerSummary is one row of the seller scorecard, recomputed from the
// dataset on every run.
type SellerSummary struct {
	Seller string `json:"seller"`

	TotalRevenue  float64 `json:"total_revenue"`
	TotalMargin   float64 `json:"total_margin"`
	OrderCount    int     `json:"order_count"`
	TotalQuantity float64 `json:"total_quantity"`
	CancelCount   int     `json:"cancel_count"`

	MarginRate     float64 `json:"margin_rate"`
	CancelRate     float64 `json:"cancel_rate"`
	AOV            float64 `json:"aov"`
	RepurchaseRate float64 `json:"repurchase_rate"`

	CustomerCount         int `json:"customer_count"`
	RepurchasingCustomers int `json:"repurchasing_customers"`

	FirstOrder  time.Time `json:"first_order"`
	LastOrder   time.Time `json:"last_order"`
	TenureDays  int       `json:"tenure_days"`
	RecencyDays int       `json:"recency_days"`
	Active      bool      `json:"active"`
}

// MarkActive flags sellers whose last order falls within windowDays of
// the dataset's newest order date. Sellers without any dated order stay
// inactive.
func MarkActive(summaries []SellerSummary, windowDays int) {
	for i := range summaries {
		s := &summaries[i]
		s.Active = !s.LastOrder.IsZero() && s.RecencyDays <= windowDays
	}
}

// SellerSummaries aggregates the dataset into one summary per seller,
// sorted by total revenue descending (stable on ties).
//
// OrderCount counts distinct order ids, so multi-line orders are not
// double-counted, while CancelCount counts cancelled rows; both follow
// the source system. The repurchase rate here counts raw row occurrences
// per contact, not distinct order dates: a contact appearing on two rows
// of the same order counts as repurchasing. That is inconsistent with
// the global annotation in AnnotateRepurchase but matches the scorecard
// users have been reading, so it is preserved as-is. Rates with a zero
// denominator are 0, never NaN.
func SellerSummaries(ds *Dataset) []SellerSummary {
	if !ds.Has(FieldSeller) {
		return nil
	}

	type acc struct {
		summary     SellerSummary
		orderIDs    map[string]struct{}
		contactRows map[string]int
	}

	accs := make(map[string]*acc)
	order := make([]string, 0)

	hasOrderID := ds.Has(FieldOrderID)
	hasContact := ds.Has(FieldContact)
	hasDate := ds.Has(FieldOrderedAt)
	hasSupply := ds.Has(FieldSupplyPrice)

	for _, o := range ds.Orders {
		a, ok := accs[o.Seller]
		if !ok {
			a = &acc{
				summary:     SellerSummary{Seller: o.Seller},
				orderIDs:    make(map[string]struct{}),
				contactRows: make(map[string]int),
			}
			accs[o.Seller] = a
			order = append(order, o.Seller)
		}

		a.summary.TotalRevenue += o.Paid
		a.summary.TotalQuantity += o.Quantity
		if hasSupply {
			a.summary.TotalMargin += o.Paid - o.SupplyPrice*o.Quantity
		}
		if o.Cancelled {
			a.summary.CancelCount++
		}

		if hasOrderID && o.OrderID != "" {
			a.orderIDs[o.OrderID] = struct{}{}
		}
		if hasContact && o.Contact != "" {
			a.contactRows[o.Contact]++
		}

		if hasDate && !o.Date.IsZero() {
			if a.summary.FirstOrder.IsZero() || o.Date.Before(a.summary.FirstOrder) {
				a.summary.FirstOrder = o.Date
			}
			if o.Date.After(a.summary.LastOrder) {
				a.summary.LastOrder = o.Date
			}
		}
	}

	summaries := make([]SellerSummary, 0, len(accs))
	for _, seller := range order {
		a := accs[seller]
		s := a.summary
		s.OrderCount = len(a.orderIDs)

		s.CustomerCount = len(a.contactRows)
		for _, rows := range a.contactRows {
			if rows > 1 {
				s.RepurchasingCustomers++
			}
		}

		s.MarginRate = ratio(s.TotalMargin, s.TotalRevenue) * 100
		s.CancelRate = ratio(float64(s.CancelCount), float64(s.OrderCount)) * 100
		s.AOV = ratio(s.TotalRevenue, float64(s.OrderCount))
		s.RepurchaseRate = ratio(float64(s.RepurchasingCustomers), float64(s.CustomerCount)) * 100

		if !s.FirstOrder.IsZero() {
			s.TenureDays = int(s.LastOrder.Sub(s.FirstOrder).Hours()/24) + 1
			s.RecencyDays = int(ds.MaxDate.Sub(s.LastOrder).Hours() / 24)
		}

		summaries = append(summaries, s)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalRevenue > summaries[j].TotalRevenue
	})

	return summaries
}

// SellerRepurchaseByDate ranks sellers by the distinct-date repurchase
// rate: a customer repurchases from a seller when they ordered on more
// than one calendar day. Sellers with fewer than minCustomers distinct
// customers are dropped. This is the stricter of the two repurchase
// definitions and is reported alongside the scorecard's raw-occurrence
// rate, not merged with it.
func SellerRepurchaseByDate(ds *Dataset, minCustomers int) []SellerSummary {
	if !ds.Has(FieldSeller, FieldContact, FieldOrderedAt) {
		return nil
	}

	type key struct{ seller, contact string }
	days := make(map[key]map[time.Time]struct{})
	revenue := make(map[string]float64)
	order := make([]string, 0)
	seen := make(map[string]struct{})

	for _, o := range ds.Orders {
		if _, ok := seen[o.Seller]; !ok {
			seen[o.Seller] = struct{}{}
			order = append(order, o.Seller)
		}
		revenue[o.Seller] += o.Paid
		if o.Contact == "" || o.Date.IsZero() {
			continue
		}
		k := key{o.Seller, o.Contact}
		if days[k] == nil {
			days[k] = make(map[time.Time]struct{})
		}
		days[k][o.Date] = struct{}{}
	}

	customers := make(map[string]int)
	repurchasers := make(map[string]int)
	for k, d := range days {
		customers[k.seller]++
		if len(d) > 1 {
			repurchasers[k.seller]++
		}
	}

	out := make([]SellerSummary, 0, len(order))
	for _, seller := range order {
		total := customers[seller]
		if total < minCustomers {
			continue
		}
		out = append(out, SellerSummary{
			Seller:                seller,
			TotalRevenue:          revenue[seller],
			CustomerCount:         total,
			RepurchasingCustomers: repurchasers[seller],
			RepurchaseRate:        ratio(float64(repurchasers[seller]), float64(total)) * 100,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RepurchaseRate > out[j].RepurchaseRate
	})

	return out
}

// ratio divides a by b, defining the result as 0 when b is 0.
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
