package analytics

import "sort"

// RegionStat aggregates one region's order activity.
type RegionStat struct {
	Region              string  `json:"region"`
	TotalRevenue        float64 `json:"total_revenue"`
	SellerCount         int     `json:"seller_count"`
	OrderCount          int     `json:"order_count"`
	AvgRevenuePerSeller float64 `json:"avg_revenue_per_seller"`

	HighRevenueSellers int     `json:"high_revenue_sellers"`
	HighRevenuePercent float64 `json:"high_revenue_percent"`
}

// RegionReport is the region deep-dive: per-region stats plus the
// revenue threshold that separates "high revenue" sellers.
type RegionReport struct {
	Regions   []RegionStat `json:"regions"`
	Threshold float64      `json:"threshold"`
}

// RegionStats aggregates revenue, seller and order counts per region and
// flags high-revenue sellers: a (region, seller) revenue sum above the
// given quantile of all such sums. Regions are sorted by total revenue
// descending. Returns an empty report when region or seller columns are
// absent.
func RegionStats(ds *Dataset, quantile float64) RegionReport {
	if !ds.Has(FieldRegion, FieldSeller) {
		return RegionReport{}
	}

	type key struct{ region, seller string }
	sellerRevenue := make(map[key]float64)

	stats := make(map[string]*RegionStat)
	order := make([]string, 0)

	for _, o := range ds.Orders {
		st, ok := stats[o.Region]
		if !ok {
			st = &RegionStat{Region: o.Region}
			stats[o.Region] = st
			order = append(order, o.Region)
		}
		st.TotalRevenue += o.Paid
		st.OrderCount++
		sellerRevenue[key{o.Region, o.Seller}] += o.Paid
	}

	revenues := make([]float64, 0, len(sellerRevenue))
	for _, r := range sellerRevenue {
		revenues = append(revenues, r)
	}
	threshold := Quantile(revenues, quantile)

	for k, r := range sellerRevenue {
		st := stats[k.region]
		st.SellerCount++
		if r > threshold {
			st.HighRevenueSellers++
		}
	}

	out := make([]RegionStat, 0, len(order))
	for _, region := range order {
		st := stats[region]
		st.AvgRevenuePerSeller = ratio(st.TotalRevenue, float64(st.SellerCount))
		st.HighRevenuePercent = ratio(float64(st.HighRevenueSellers), float64(st.SellerCount)) * 100
		out = append(out, *st)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalRevenue > out[j].TotalRevenue
	})

	return RegionReport{Regions: out, Threshold: threshold}
}

// Quantile returns the value at quantile q (0..1) of values using linear
// interpolation, 0 for an empty slice. The input is not modified.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
