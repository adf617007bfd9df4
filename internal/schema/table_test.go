package schema

import "testing"

func TestColumnLookup(t *testing.T) {
	table := NewTable([]string{" 주문번호 ", "셀러명"}, [][]string{{"A1", "감귤농장"}})

	idx, ok := table.Column(ColOrderID)
	if !ok || idx != 0 {
		t.Fatalf("expected trimmed header lookup to succeed, got idx=%d ok=%v", idx, ok)
	}
	if table.HasColumn(ColPaid) {
		t.Errorf("unexpected column %s", ColPaid)
	}
}

func TestCellPaddingAndBounds(t *testing.T) {
	table := NewTable([]string{"a", "b", "c"}, [][]string{{"1"}})

	if got := table.Cell(0, 2); got != "" {
		t.Errorf("expected padded cell to be empty, got %q", got)
	}
	if got := table.Cell(5, 0); got != "" {
		t.Errorf("expected out-of-range row to be empty, got %q", got)
	}
	if got := table.Cell(0, 0); got != "1" {
		t.Errorf("unexpected cell value: %q", got)
	}
}

func TestFingerprintChangesWithContent(t *testing.T) {
	a := NewTable([]string{"a", "b"}, [][]string{{"1", "2"}})
	b := NewTable([]string{"a", "b"}, [][]string{{"1", "2"}})
	c := NewTable([]string{"a", "b"}, [][]string{{"1", "3"}})

	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("identical tables should share a fingerprint")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Errorf("different content must change the fingerprint")
	}

	// Cell boundaries must matter: ["ab",""] vs ["a","b"].
	d := NewTable([]string{"a", "b"}, [][]string{{"ab", ""}})
	e := NewTable([]string{"a", "b"}, [][]string{{"a", "b"}})
	if d.Fingerprint() == e.Fingerprint() {
		t.Errorf("cell boundaries must be part of the fingerprint")
	}
}
