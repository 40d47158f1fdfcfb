package feature

import (
	"math"
	"testing"

	"github.com/KaramelBytes/screentime-cli/internal/dataset"
)

func TestCategorizeBoundaries(t *testing.T) {
	cases := []struct {
		hours float64
		want  string
	}{
		{0.1, Low},
		{2, Low},
		{2.01, Moderate},
		{3.5, Moderate},
		{4, Moderate},
		{4.5, High},
		{5, High},
		{6, High},
		{6.01, VeryHigh},
		{16, VeryHigh},
	}
	for _, tc := range cases {
		got, ok := Categorize(tc.hours)
		if !ok || got != tc.want {
			t.Fatalf("Categorize(%v) = %q, %v; want %q", tc.hours, got, ok, tc.want)
		}
	}
	if got, ok := Categorize(math.NaN()); ok || got != "" {
		t.Fatalf("Categorize(NaN) = %q, %v", got, ok)
	}
}

func TestCategorizeTotalOverCleanDomain(t *testing.T) {
	for h := 0.05; h <= 16; h += 0.05 {
		got, ok := Categorize(h)
		if !ok || Index(got) < 0 {
			t.Fatalf("Categorize(%v) = %q, not a known label", h, got)
		}
	}
}

func table(hours ...float64) dataset.Table {
	recs := make([]dataset.Record, len(hours))
	for i, h := range hours {
		recs[i] = dataset.Record{ScreenTime: h, Sleep: 7}
	}
	return dataset.Table{Header: []string{dataset.ColScreenTime}, Records: recs}
}

func TestDeriveIsIdempotent(t *testing.T) {
	in := table(1, 3.5, 5, 9)
	once := Derive(in)
	twice := Derive(once)
	want := []string{Low, Moderate, High, VeryHigh}
	for i := range want {
		if once.Records[i].Category != want[i] {
			t.Fatalf("record %d: %q, want %q", i, once.Records[i].Category, want[i])
		}
		if twice.Records[i].Category != once.Records[i].Category {
			t.Fatalf("record %d changed on second derivation", i)
		}
	}
	if len(twice.Header) != 2 || twice.Header[1] != dataset.ColCategory {
		t.Fatalf("header = %v", twice.Header)
	}
	if in.Records[0].Category != "" {
		t.Fatalf("input was mutated")
	}
}

func TestDeriveOverridesStaleLabel(t *testing.T) {
	in := table(5)
	in.Records[0].Category = Low
	if got := Derive(in).Records[0].Category; got != High {
		t.Fatalf("category = %q, want %q", got, High)
	}
}

func TestCounts(t *testing.T) {
	got := Counts(Derive(table(1, 1.5, 3, 7, 8, 9)))
	want := []LabelCount{{Low, 2}, {Moderate, 1}, {High, 0}, {VeryHigh, 3}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("counts = %+v, want %+v", got, want)
		}
	}
}
