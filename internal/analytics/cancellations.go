package analytics

import "sort"

// ProductCancellation is the cancelled-row ratio of one product.
type ProductCancellation struct {
	Product    string  `json:"product"`
	Orders     int     `json:"orders"`
	Cancelled  int     `json:"cancelled"`
	CancelRate float64 `json:"cancel_rate"`
}

// CancellationRates ranks products by their cancelled-row ratio,
// considering only products with more than minOrders rows so thin
// products do not dominate. Returns at most topN entries, descending by
// rate with stable ties.
func CancellationRates(ds *Dataset, minOrders, topN int) []ProductCancellation {
	if !ds.Has(FieldProduct, FieldCancelFlag) {
		return nil
	}

	stats := make(map[string]*ProductCancellation)
	order := make([]string, 0)
	for _, o := range ds.Orders {
		st, ok := stats[o.Product]
		if !ok {
			st = &ProductCancellation{Product: o.Product}
			stats[o.Product] = st
			order = append(order, o.Product)
		}
		st.Orders++
		if o.Cancelled {
			st.Cancelled++
		}
	}

	out := make([]ProductCancellation, 0, len(order))
	for _, product := range order {
		st := stats[product]
		if st.Orders <= minOrders {
			continue
		}
		st.CancelRate = ratio(float64(st.Cancelled), float64(st.Orders)) * 100
		out = append(out, *st)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CancelRate > out[j].CancelRate
	})

	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
