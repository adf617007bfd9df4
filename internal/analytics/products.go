package analytics

import "sort"

// NamedRevenue is a (label, revenue) pair used by the product views.
type NamedRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// NamedCount is a (label, count) pair.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NamedAverage is a (label, average) pair.
type NamedAverage struct {
	Name    string  `json:"name"`
	Average float64 `json:"average"`
}

// ProductReport bundles the product-planning views.
type ProductReport struct {
	TopProducts    []NamedRevenue `json:"top_products"`
	ByCitrusDetail []NamedRevenue `json:"by_citrus_detail"`
	ByWeight       []NamedRevenue `json:"by_weight"`
	ByFruitSize    []NamedCount   `json:"by_fruit_size"`
	AvgPaidPurpose []NamedAverage `json:"avg_paid_by_purpose"`
}

// ProductStats computes the product views: top-N products by revenue,
// revenue by citrus detail and by package weight, order counts by fruit
// size, and average paid amount by purchase purpose. Each view is empty
// when its column is absent.
func ProductStats(ds *Dataset, topN int) ProductReport {
	var report ProductReport

	if ds.Has(FieldProduct) {
		report.TopProducts = revenueBy(ds, func(o Order) string { return o.Product })
		if len(report.TopProducts) > topN {
			report.TopProducts = report.TopProducts[:topN]
		}
	}
	if ds.Has(FieldCitrusDetail) {
		report.ByCitrusDetail = revenueBy(ds, func(o Order) string { return o.CitrusDetail })
	}
	if ds.Has(FieldWeight) {
		report.ByWeight = revenueBy(ds, func(o Order) string { return o.Weight })
	}

	if ds.Has(FieldFruitSize) {
		counts := make(map[string]int)
		order := make([]string, 0)
		for _, o := range ds.Orders {
			if _, ok := counts[o.FruitSize]; !ok {
				order = append(order, o.FruitSize)
			}
			counts[o.FruitSize]++
		}
		for _, name := range order {
			report.ByFruitSize = append(report.ByFruitSize, NamedCount{Name: name, Count: counts[name]})
		}
		sort.SliceStable(report.ByFruitSize, func(i, j int) bool {
			return report.ByFruitSize[i].Count > report.ByFruitSize[j].Count
		})
	}

	if ds.Has(FieldPurpose, FieldPaid) {
		sums := make(map[string]float64)
		counts := make(map[string]int)
		order := make([]string, 0)
		for _, o := range ds.Orders {
			if o.Purpose == "" {
				continue
			}
			if _, ok := counts[o.Purpose]; !ok {
				order = append(order, o.Purpose)
			}
			sums[o.Purpose] += o.Paid
			counts[o.Purpose]++
		}
		for _, name := range order {
			report.AvgPaidPurpose = append(report.AvgPaidPurpose, NamedAverage{
				Name:    name,
				Average: ratio(sums[name], float64(counts[name])),
			})
		}
		sort.SliceStable(report.AvgPaidPurpose, func(i, j int) bool {
			return report.AvgPaidPurpose[i].Average > report.AvgPaidPurpose[j].Average
		})
	}

	return report
}

func revenueBy(ds *Dataset, key func(Order) string) []NamedRevenue {
	revenue := make(map[string]float64)
	order := make([]string, 0)
	for _, o := range ds.Orders {
		k := key(o)
		if _, ok := revenue[k]; !ok {
			order = append(order, k)
		}
		revenue[k] += o.Paid
	}

	out := make([]NamedRevenue, 0, len(order))
	for _, name := range order {
		out = append(out, NamedRevenue{Name: name, Revenue: revenue[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue > out[j].Revenue
	})
	return out
}
