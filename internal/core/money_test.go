package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1234, true}, // rounds down
		{"12.346", 1235, true}, // rounds up
		{"0.01", 1, true},
		{"100", 10000, true},
		{".50", 50, true},
		{"", 0, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		m, err := ParseAmount(tc.in)
		if tc.ok && err != nil {
			t.Errorf("ParseAmount(%q): unexpected error %v", tc.in, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("ParseAmount(%q): expected error", tc.in)
			}
			continue
		}
		if m.Cents != tc.cents {
			t.Errorf("ParseAmount(%q) = %d, want %d", tc.in, m.Cents, tc.cents)
		}
	}
}

func TestParseSignedAmount(t *testing.T) {
	m, neg, err := ParseSignedAmount("-42.50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !neg || m.Cents != 4250 {
		t.Fatalf("got cents=%d neg=%v, want 4250 true", m.Cents, neg)
	}

	m, neg, err = ParseSignedAmount("42,50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if neg || m.Cents != 4250 {
		t.Fatalf("got cents=%d neg=%v, want 4250 false", m.Cents, neg)
	}

	if _, _, err := ParseSignedAmount("0"); err == nil {
		t.Fatal("zero should be rejected")
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1234, "12.34"},
		{-1234, "-12.34"},
		{100, "1.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
