// Package clean turns a raw survey table into a typed table that satisfies the
// dataset invariants: no missing critical values, no exact duplicates, and
// screen time and sleep inside their plausible ranges.
package clean

import (
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/KaramelBytes/screentime-cli/internal/dataset"
)

// Plausibility bounds. Screen time must lie in (MinScreenTime, MaxScreenTime],
// sleep in [MinSleep, MaxSleep].
const (
	MinScreenTime = 0.0
	MaxScreenTime = 16.0
	MinSleep      = 2.0
	MaxSleep      = 12.0
)

// Stats counts rows removed by each step.
type Stats struct {
	Loaded            int `yaml:"loaded"`
	MissingDropped    int `yaml:"missing_dropped"`
	DuplicatesDropped int `yaml:"duplicates_dropped"`
	ParseFailures     int `yaml:"parse_failures"`
	OutliersDropped   int `yaml:"outliers_dropped"`
	Kept              int `yaml:"kept"`
}

// Dropped returns the total number of removed rows.
func (s Stats) Dropped() int {
	return s.MissingDropped + s.DuplicatesDropped + s.ParseFailures + s.OutliersDropped
}

// Clean applies missing-value removal, duplicate removal, type coercion and
// outlier filtering, in that order. The input is not modified.
func Clean(raw *dataset.RawTable) (dataset.Table, Stats) {
	st := Stats{Loaded: len(raw.Rows)}

	step := DropMissing(raw)
	st.MissingDropped = len(raw.Rows) - len(step.Rows)

	deduped := DropDuplicates(step)
	st.DuplicatesDropped = len(step.Rows) - len(deduped.Rows)

	typed := Coerce(deduped)
	parsed := DropUnparsed(typed)
	st.ParseFailures = typed.Len() - parsed.Len()

	out := FilterOutliers(parsed)
	st.OutliersDropped = parsed.Len() - out.Len()
	st.Kept = out.Len()
	return out, st
}

// DropMissing removes rows with a missing value in any critical column.
func DropMissing(raw *dataset.RawTable) *dataset.RawTable {
	idx := criticalIndexes(raw)
	rows := lo.Filter(raw.Rows, func(row []string, _ int) bool {
		for _, i := range idx {
			if i >= len(row) || dataset.IsMissing(row[i]) {
				return false
			}
		}
		return true
	})
	return raw.WithRows(rows)
}

// DropDuplicates removes rows identical across all fields to an earlier row.
func DropDuplicates(raw *dataset.RawTable) *dataset.RawTable {
	rows := lo.UniqBy(raw.Rows, rowKey)
	return raw.WithRows(rows)
}

// Coerce parses numeric columns. Unparseable cells become NaN.
func Coerce(raw *dataset.RawTable) dataset.Table {
	iAge := raw.Index(dataset.ColAge)
	iScreen := raw.Index(dataset.ColScreenTime)
	iSleep := raw.Index(dataset.ColSleep)
	iAnx := raw.Index(dataset.ColAnxiety)
	iDep := raw.Index(dataset.ColDepression)
	iPlat := raw.Index(dataset.ColPlatform)
	iSev := raw.Index(dataset.ColSeverity)
	iCat := raw.Index(dataset.ColCategory)

	recs := lo.Map(raw.Rows, func(row []string, _ int) dataset.Record {
		r := dataset.Record{
			Fields:     row,
			Age:        num(row, iAge),
			ScreenTime: num(row, iScreen),
			Sleep:      num(row, iSleep),
			Anxiety:    num(row, iAnx),
			Depression: num(row, iDep),
			Platform:   str(row, iPlat),
			Severity:   str(row, iSev),
		}
		// A pre-labeled export keeps its label until the deriver recomputes it.
		if iCat >= 0 {
			r.Category = str(row, iCat)
		}
		return r
	})
	return dataset.Table{Name: raw.Name, Header: raw.Header, Records: recs}
}

// DropUnparsed removes records whose critical fields failed coercion.
func DropUnparsed(t dataset.Table) dataset.Table {
	return t.WithRecords(lo.Reject(t.Records, func(r dataset.Record, _ int) bool {
		return r.HasMissingCritical()
	}))
}

// FilterOutliers keeps records with screen time in (0, 16] and sleep in [2, 12].
func FilterOutliers(t dataset.Table) dataset.Table {
	return t.WithRecords(lo.Filter(t.Records, func(r dataset.Record, _ int) bool {
		return InRange(r)
	}))
}

// InRange reports whether a record passes the outlier bounds. NaN fails.
func InRange(r dataset.Record) bool {
	return r.ScreenTime > MinScreenTime && r.ScreenTime <= MaxScreenTime &&
		r.Sleep >= MinSleep && r.Sleep <= MaxSleep
}

func criticalIndexes(raw *dataset.RawTable) []int {
	var idx []int
	for _, c := range dataset.CriticalColumns {
		if i := raw.Index(c); i >= 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

func rowKey(row []string) string { return strings.Join(row, "\x1f") }

func num(row []string, i int) float64 {
	if i < 0 || i >= len(row) {
		return math.NaN()
	}
	v, _ := dataset.ParseNumber(row[i])
	return v
}

func str(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
