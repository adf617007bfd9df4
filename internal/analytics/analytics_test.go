package analytics

import (
	"testing"
	"time"
)

// allFields marks every field present, for tests that build orders
// directly instead of going through the cleaner.
func allFields() map[Field]bool {
	fields := make(map[Field]bool)
	for _, f := range []Field{
		FieldOrderID, FieldOrderedAt, FieldContact, FieldSeller, FieldProduct,
		FieldQuantity, FieldUnitPrice, FieldSupplyPrice, FieldPaid, FieldCancelFlag,
		FieldPurpose, FieldChannel, FieldRegion, FieldCitrusDetail, FieldVariety,
		FieldFruitSize, FieldWeight,
	} {
		fields[f] = true
	}
	return fields
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func order(id, contact, seller string, when time.Time, paid float64) Order {
	return Order{
		OrderID:    id,
		Contact:    contact,
		Seller:     seller,
		OrderedAt:  when,
		Date:       Day(when),
		Paid:       paid,
		Repurchase: -1,
	}
}

func TestAnnotateRepurchaseDistinctDates(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	jan1pm := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
	feb1 := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	ds := NewDataset([]Order{
		// A: two line items on the same day -> one purchase day.
		order("O1", "A", "s1", jan1, 100),
		order("O2", "A", "s1", jan1pm, 100),
		// B: two distinct days.
		order("O3", "B", "s1", jan1, 100),
		order("O4", "B", "s1", feb1, 100),
		// missing contact: excluded, gets 0.
		order("O5", "", "s1", jan1, 100),
	}, allFields(), "fp")

	AnnotateRepurchase(ds)

	for _, o := range ds.Orders[:2] {
		if o.Repurchase != 0 {
			t.Errorf("customer A expected repurchase 0, got %d", o.Repurchase)
		}
	}
	for _, o := range ds.Orders[2:4] {
		if o.Repurchase != 1 {
			t.Errorf("customer B expected repurchase 1, got %d", o.Repurchase)
		}
	}
	if ds.Orders[4].Repurchase != 0 {
		t.Errorf("contactless row expected repurchase 0, got %d", ds.Orders[4].Repurchase)
	}
}

func TestAnnotateRepurchaseNeverNegative(t *testing.T) {
	ds := NewDataset([]Order{
		order("O1", "A", "s1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 100),
	}, allFields(), "fp")

	AnnotateRepurchase(ds)
	if ds.Orders[0].Repurchase != 0 {
		t.Fatalf("single-day customer expected 0, got %d", ds.Orders[0].Repurchase)
	}
}

func TestAnnotateRepurchaseMissingColumns(t *testing.T) {
	fields := allFields()
	fields[FieldContact] = false
	ds := NewDataset([]Order{
		order("O1", "A", "s1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 100),
	}, fields, "fp")

	AnnotateRepurchase(ds)
	if ds.Orders[0].Repurchase != 0 {
		t.Fatalf("expected defined 0 without contact column, got %d", ds.Orders[0].Repurchase)
	}
}

func TestRepurchaseDistribution(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	ds := NewDataset([]Order{
		order("O1", "A", "s1", jan1, 100),
		order("O2", "B", "s1", jan1, 100),
		order("O3", "B", "s1", feb1, 100),
	}, allFields(), "fp")
	AnnotateRepurchase(ds)

	dist := RepurchaseDistribution(ds)
	if dist[0] != 1 || dist[1] != 1 {
		t.Fatalf("unexpected distribution: %v", dist)
	}
}

func TestOverview(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	ds := NewDataset([]Order{
		order("O1", "A", "s1", jan1, 1000),
		order("O1", "A", "s1", jan1, 500), // second line of the same order
		order("O2", "B", "s2", jan1, 2000),
		order("O3", "B", "s2", feb1, 1000),
	}, allFields(), "fp")
	AnnotateRepurchase(ds)

	ov := Overview(ds)
	if ov.TotalRevenue != 4500 {
		t.Errorf("unexpected revenue: %v", ov.TotalRevenue)
	}
	if ov.OrderCount != 3 {
		t.Errorf("expected 3 distinct orders, got %d", ov.OrderCount)
	}
	if ov.CustomerCount != 2 || ov.SellerCount != 2 {
		t.Errorf("unexpected customer/seller counts: %d/%d", ov.CustomerCount, ov.SellerCount)
	}
	// B repurchased (two days), A did not: 1 of 2 customers.
	if ov.RepurchaseRate != 50 {
		t.Errorf("expected repurchase rate 50, got %v", ov.RepurchaseRate)
	}
}
