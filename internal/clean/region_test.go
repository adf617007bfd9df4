package clean

import "testing"

func TestRegionFromZipcode(t *testing.T) {
	cases := []struct {
		zip  string
		want string
	}{
		{"03187", "서울"},
		{"13529", "경기"},
		{"21999", "인천"},
		{"24266", "강원"},
		{"30064", "세종"},
		{"34134", "대전"},
		{"41585", "대구"},
		{"44705", "울산"},
		{"48058", "부산"},
		{"51703", "경남"},
		{"55069", "전북"},
		{"58613", "전남"},
		{"61475", "광주"},
		{"63309", "제주"},
		{"99999", "기타"},
		{"00100", "기타"},
		{"1234", "서울"}, // pads to 01234
		{"abc", "Unknown"},
		{"", "Unknown"},
	}
	for _, c := range cases {
		if got := RegionFromZipcode(c.zip); got != c.want {
			t.Errorf("RegionFromZipcode(%q) = %q, want %q", c.zip, got, c.want)
		}
	}
}
