package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		// empty -> default
		{"", 10, 10},
		// valid ints
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		// invalid -> default (no trim)
		{"x", 5, 5},
		{" 42", 7, 7},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestOffset(t *testing.T) {
	cases := []struct {
		page, size, def        int
		wantPage, wantSize, wo int
	}{
		{1, 20, 20, 1, 20, 0},
		{3, 20, 20, 3, 20, 40},
		{0, 0, 20, 1, 20, 0},
		{-2, 5, 20, 1, 5, 0},
		{2, -1, 10, 2, 10, 10},
	}
	for _, tc := range cases {
		p, s, o := Offset(tc.page, tc.size, tc.def)
		if p != tc.wantPage || s != tc.wantSize || o != tc.wo {
			t.Fatalf("Offset(%d,%d,%d) = %d,%d,%d; want %d,%d,%d",
				tc.page, tc.size, tc.def, p, s, o, tc.wantPage, tc.wantSize, tc.wo)
		}
	}
}
