package analytics

// OverviewReport is the headline KPI block of a run.
type OverviewReport struct {
	TotalRevenue   float64 `json:"total_revenue"`
	OrderCount     int     `json:"order_count"`
	CustomerCount  int     `json:"customer_count"`
	SellerCount    int     `json:"seller_count"`
	RepurchaseRate float64 `json:"repurchase_rate"`
}

// Overview computes the headline KPIs: total revenue, distinct orders,
// distinct customers and sellers, and the share of customers whose
// global repurchase count is above zero. Expects AnnotateRepurchase to
// have run; without annotation the repurchase rate is 0.
func Overview(ds *Dataset) OverviewReport {
	var report OverviewReport

	orders := make(map[string]struct{})
	customers := make(map[string]struct{})
	repurchasers := make(map[string]struct{})
	sellers := make(map[string]struct{})

	hasOrderID := ds.Has(FieldOrderID)
	hasContact := ds.Has(FieldContact)
	hasSeller := ds.Has(FieldSeller)

	for _, o := range ds.Orders {
		report.TotalRevenue += o.Paid
		if hasOrderID && o.OrderID != "" {
			orders[o.OrderID] = struct{}{}
		}
		if hasSeller {
			sellers[o.Seller] = struct{}{}
		}
		if hasContact && o.Contact != "" {
			customers[o.Contact] = struct{}{}
			if o.Repurchase > 0 {
				repurchasers[o.Contact] = struct{}{}
			}
		}
	}

	report.OrderCount = len(orders)
	report.CustomerCount = len(customers)
	report.SellerCount = len(sellers)
	report.RepurchaseRate = ratio(float64(len(repurchasers)), float64(len(customers))) * 100

	return report
}
