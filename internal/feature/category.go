// Package feature derives the Screen_Time_Category column.
//
// Buckets are right-inclusive: Low (-inf, 2], Moderate (2, 4], High (4, 6],
// Very High (6, +inf).
package feature

import (
	"math"

	"github.com/samber/lo"

	"github.com/KaramelBytes/screentime-cli/internal/dataset"
)

// Category labels in ascending order of screen time.
const (
	Low      = "Low"
	Moderate = "Moderate"
	High     = "High"
	VeryHigh = "Very High"
)

// Labels lists every category in bucket order.
var Labels = []string{Low, Moderate, High, VeryHigh}

// Upper edges (inclusive) of Low, Moderate and High. Anything above the last edge is Very High.
var edges = []float64{2, 4, 6}

// Categorize maps daily screen time hours to a label. NaN returns "" and false.
func Categorize(hours float64) (string, bool) {
	if math.IsNaN(hours) {
		return "", false
	}
	for i, e := range edges {
		if hours <= e {
			return Labels[i], true
		}
	}
	return VeryHigh, true
}

// Derive returns a copy of t with Category set on every record. Records whose
// screen time is NaN get an empty label; the cleaner never lets those through.
func Derive(t dataset.Table) dataset.Table {
	recs := lo.Map(t.Records, func(r dataset.Record, _ int) dataset.Record {
		r.Category, _ = Categorize(r.ScreenTime)
		return r
	})
	header := t.Header
	if !lo.Contains(header, dataset.ColCategory) {
		header = append(append([]string(nil), t.Header...), dataset.ColCategory)
	}
	return dataset.Table{Name: t.Name, Header: header, Records: recs}
}

// Counts returns the number of records per label, in Labels order.
func Counts(t dataset.Table) []LabelCount {
	by := lo.CountValuesBy(t.Records, func(r dataset.Record) string { return r.Category })
	return lo.Map(Labels, func(l string, _ int) LabelCount {
		return LabelCount{Label: l, Count: by[l]}
	})
}

// LabelCount pairs a category with its record count.
type LabelCount struct {
	Label string `yaml:"label"`
	Count int    `yaml:"count"`
}

// Index returns the bucket position of a label, or -1.
func Index(label string) int {
	return lo.IndexOf(Labels, label)
}
