package analytics

import "time"

// AnnotateRepurchase computes each contact's global repurchase count and
// broadcasts it onto every one of the contact's rows. The count is the
// number of distinct calendar dates the contact ordered on, minus one:
// two line items on the same day are one purchase day, so a single-day
// customer gets 0. Rows without a contact are excluded from the grouping
// and receive 0.
//
// Note: the per-seller rate in SellerSummaries deliberately uses a
// different definition (raw row occurrences); see sellers.go.
func AnnotateRepurchase(ds *Dataset) {
	if !ds.Has(FieldContact, FieldOrderedAt) {
		for i := range ds.Orders {
			ds.Orders[i].Repurchase = 0
		}
		return
	}

	dates := make(map[string]map[time.Time]struct{})
	for _, o := range ds.Orders {
		if o.Contact == "" || o.Date.IsZero() {
			continue
		}
		if dates[o.Contact] == nil {
			dates[o.Contact] = make(map[time.Time]struct{})
		}
		dates[o.Contact][o.Date] = struct{}{}
	}

	for i := range ds.Orders {
		o := &ds.Orders[i]
		if days, ok := dates[o.Contact]; ok && o.Contact != "" {
			o.Repurchase = len(days) - 1
		} else {
			o.Repurchase = 0
		}
	}
}

// RepurchaseDistribution counts customers per global repurchase count.
// One entry per distinct contact, keyed by the contact's count.
func RepurchaseDistribution(ds *Dataset) map[int]int {
	dist := make(map[int]int)
	if !ds.Has(FieldContact) {
		return dist
	}

	seen := make(map[string]struct{})
	for _, o := range ds.Orders {
		if o.Contact == "" {
			continue
		}
		if _, dup := seen[o.Contact]; dup {
			continue
		}
		seen[o.Contact] = struct{}{}
		count := o.Repurchase
		if count < 0 {
			count = 0
		}
		dist[count]++
	}
	return dist
}
