package analytics

import (
	"testing"
	"time"
)

func TestTrendsDailyAndChannel(t *testing.T) {
	jan1am := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) // Monday
	jan1pm := time.Date(2024, 1, 1, 21, 0, 0, 0, time.UTC)
	jan2 := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	a := order("O1", "A", "s", jan1am, 1000)
	a.Channel = "스토어"
	b := order("O2", "B", "s", jan1pm, 2000)
	b.Channel = "스토어"
	c := order("O3", "C", "s", jan2, 500)
	c.Channel = "전화주문"

	ds := NewDataset([]Order{a, b, c}, allFields(), "fp")
	report := Trends(ds)

	if len(report.Daily) != 2 {
		t.Fatalf("expected 2 days, got %d", len(report.Daily))
	}
	if !report.Daily[0].Date.Before(report.Daily[1].Date) {
		t.Errorf("daily series must be ascending")
	}
	if report.Daily[0].Revenue != 3000 || report.Daily[0].Orders != 2 {
		t.Errorf("unexpected first day: %+v", report.Daily[0])
	}

	if len(report.ByChannel) != 2 || report.ByChannel[0].Channel != "스토어" {
		t.Errorf("unexpected channel ranking: %+v", report.ByChannel)
	}

	if report.ByHour[9] != 2 || report.ByHour[21] != 1 {
		t.Errorf("unexpected hourly counts: 9h=%d 21h=%d", report.ByHour[9], report.ByHour[21])
	}
	// 2024-01-01 is a Monday, 2024-01-02 a Tuesday.
	if report.ByWeekday[0] != 2 || report.ByWeekday[1] != 1 {
		t.Errorf("unexpected weekday counts: %v", report.ByWeekday)
	}
}

func TestTrendsMissingColumns(t *testing.T) {
	fields := allFields()
	fields[FieldOrderedAt] = false
	fields[FieldChannel] = false
	ds := NewDataset([]Order{{Seller: "s", Paid: 100}}, fields, "fp")

	report := Trends(ds)
	if len(report.Daily) != 0 || len(report.ByChannel) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestRegionStats(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mk := func(id, seller, region string, paid float64) Order {
		o := order(id, "A", seller, jan1, paid)
		o.Region = region
		return o
	}

	ds := NewDataset([]Order{
		mk("O1", "s1", "경기", 9000),
		mk("O2", "s2", "경기", 100),
		mk("O3", "s3", "서울", 200),
		mk("O4", "s4", "서울", 150),
	}, allFields(), "fp")

	report := RegionStats(ds, 0.75)
	if len(report.Regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(report.Regions))
	}
	if report.Regions[0].Region != "경기" {
		t.Errorf("regions must sort by revenue: %+v", report.Regions)
	}

	gg := report.Regions[0]
	if gg.SellerCount != 2 || gg.OrderCount != 2 {
		t.Errorf("unexpected Gyeonggi counts: %+v", gg)
	}
	if gg.AvgRevenuePerSeller != 4550 {
		t.Errorf("unexpected avg revenue per seller: %v", gg.AvgRevenuePerSeller)
	}
	// Only s1 (9000) clears the 0.75 quantile threshold.
	if gg.HighRevenueSellers != 1 {
		t.Errorf("expected 1 high-revenue seller, got %d", gg.HighRevenueSellers)
	}
	if report.Regions[1].HighRevenueSellers != 0 {
		t.Errorf("Seoul should have no high-revenue sellers")
	}
}

func TestRegionStatsMissingColumns(t *testing.T) {
	fields := allFields()
	fields[FieldRegion] = false
	ds := NewDataset([]Order{{Seller: "s", Paid: 100}}, fields, "fp")

	report := RegionStats(ds, 0.8)
	if len(report.Regions) != 0 {
		t.Fatalf("expected empty report without region column")
	}
}

func TestQuantile(t *testing.T) {
	values := []float64{100, 200, 300, 400}
	if got := Quantile(values, 0.5); got != 250 {
		t.Errorf("median: got %v, want 250", got)
	}
	if got := Quantile(values, 0); got != 100 {
		t.Errorf("q0: got %v", got)
	}
	if got := Quantile(values, 1); got != 400 {
		t.Errorf("q1: got %v", got)
	}
	if got := Quantile(nil, 0.5); got != 0 {
		t.Errorf("empty: got %v", got)
	}
}

func TestProductStats(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mk := func(id, product, detail, purpose string, paid float64) Order {
		o := order(id, "A", "s", jan1, paid)
		o.Product = product
		o.CitrusDetail = detail
		o.Purpose = purpose
		o.FruitSize = "L"
		o.Weight = "5"
		return o
	}

	ds := NewDataset([]Order{
		mk("O1", "한라봉 5kg", "한라봉", "선물", 30000),
		mk("O2", "천혜향 3kg", "천혜향", "개인소비", 15000),
		mk("O3", "한라봉 5kg", "한라봉", "선물", 30000),
	}, allFields(), "fp")

	report := ProductStats(ds, 1)
	if len(report.TopProducts) != 1 {
		t.Fatalf("topN not applied: %d", len(report.TopProducts))
	}
	if report.TopProducts[0].Name != "한라봉 5kg" || report.TopProducts[0].Revenue != 60000 {
		t.Errorf("unexpected top product: %+v", report.TopProducts[0])
	}
	if len(report.ByCitrusDetail) != 2 || report.ByCitrusDetail[0].Name != "한라봉" {
		t.Errorf("unexpected citrus ranking: %+v", report.ByCitrusDetail)
	}
	if len(report.AvgPaidPurpose) != 2 || report.AvgPaidPurpose[0].Name != "선물" {
		t.Errorf("unexpected purpose averages: %+v", report.AvgPaidPurpose)
	}
	if report.AvgPaidPurpose[0].Average != 30000 {
		t.Errorf("unexpected gift average: %v", report.AvgPaidPurpose[0].Average)
	}
	if len(report.ByFruitSize) != 1 || report.ByFruitSize[0].Count != 3 {
		t.Errorf("unexpected fruit size counts: %+v", report.ByFruitSize)
	}
}

func TestCancellationRates(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	orders := make([]Order, 0)
	// "popular": 12 rows, 6 cancelled.
	for i := 0; i < 12; i++ {
		o := order("P", "A", "s", jan1, 100)
		o.Product = "popular"
		o.Cancelled = i%2 == 0
		orders = append(orders, o)
	}
	// "thin": 2 rows, both cancelled; below the threshold.
	for i := 0; i < 2; i++ {
		o := order("T", "A", "s", jan1, 100)
		o.Product = "thin"
		o.Cancelled = true
		orders = append(orders, o)
	}

	ds := NewDataset(orders, allFields(), "fp")
	rates := CancellationRates(ds, 10, 5)
	if len(rates) != 1 {
		t.Fatalf("expected thin product filtered, got %d entries", len(rates))
	}
	if rates[0].Product != "popular" || rates[0].CancelRate != 50 {
		t.Errorf("unexpected entry: %+v", rates[0])
	}
}
