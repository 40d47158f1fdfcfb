package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/KaramelBytes/screentime-cli/internal/dataset"
)

// Options controls the inspection report.
type Options struct {
	// SampleRows is how many leading rows to include. Zero disables the sample table.
	SampleRows int
	// TopValues caps the categorical values listed per column.
	TopValues int
}

// DefaultOptions mirrors a pandas head(): five rows.
func DefaultOptions() Options {
	return Options{SampleRows: 5, TopValues: 8}
}

// Inspection describes a raw table before cleaning.
type Inspection struct {
	Name       string
	Rows       int
	Cols       []ColumnSummary
	Duplicates int
	Samples    [][]string
	Warnings   []string
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|categorical|text|unknown
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Cells in a numeric column that failed to parse
	Invalid   int
	TopValues []CategoryCount
	Examples  []string
}

// CategoryCount is one frequent value of a categorical column.
type CategoryCount struct {
	Value string
	Count int
}

// Inspect profiles every column of t.
func Inspect(t *dataset.RawTable, opt Options) *Inspection {
	ins := &Inspection{Name: t.Name, Rows: len(t.Rows)}
	if opt.TopValues <= 0 {
		opt.TopValues = DefaultOptions().TopValues
	}

	type colAcc struct {
		nonNil int
		miss   int
		// numeric stats via Welford
		n    int
		mean float64
		m2   float64
		min  float64
		max  float64
		txt  int
		cats map[string]int
		ex   []string
	}
	accs := make([]*colAcc, len(t.Header))
	for i := range accs {
		accs[i] = &colAcc{min: math.Inf(1), max: math.Inf(-1), cats: map[string]int{}}
	}
	for _, row := range t.Rows {
		for j, c := range accs {
			v := ""
			if j < len(row) {
				v = strings.TrimSpace(row[j])
			}
			if dataset.IsMissing(v) {
				c.miss++
				continue
			}
			c.nonNil++
			if x, ok := dataset.ParseNumber(v); ok {
				c.n++
				c.min = math.Min(c.min, x)
				c.max = math.Max(c.max, x)
				delta := x - c.mean
				c.mean += delta / float64(c.n)
				c.m2 += delta * (x - c.mean)
				continue
			}
			c.txt++
			if len(c.cats) <= 10000 && len(v) <= 64 { // guard memory
				c.cats[v]++
			}
			if len(c.ex) < 3 {
				c.ex = append(c.ex, v)
			}
		}
	}

	for j, c := range accs {
		s := ColumnSummary{Name: t.Header[j], NonNull: c.nonNil, Missing: c.miss}
		switch {
		case c.n > 0 && c.n >= c.txt:
			s.Kind = "numeric"
			s.Min, s.Max, s.Mean = c.min, c.max, c.mean
			if c.n > 1 {
				s.Std = math.Sqrt(c.m2 / float64(c.n-1))
			}
			s.Invalid = c.txt
			if c.txt > 0 {
				ins.Warnings = append(ins.Warnings, fmt.Sprintf("%s: %d non-numeric value(s) will be coerced to missing", s.Name, c.txt))
			}
		case len(c.cats) > 0 && len(c.cats) < c.txt:
			s.Kind = "categorical"
			s.TopValues = topValues(c.cats, opt.TopValues)
			s.Unique = len(c.cats)
		case c.txt > 0:
			s.Kind = "text"
			s.Examples = c.ex
		default:
			s.Kind = "unknown"
		}
		ins.Cols = append(ins.Cols, s)
	}

	ins.Duplicates = len(t.Rows) - len(lo.UniqBy(t.Rows, func(r []string) string { return strings.Join(r, "\x1f") }))
	if opt.SampleRows > 0 {
		ins.Samples = t.Rows[:min(opt.SampleRows, len(t.Rows))]
	}
	if err := t.Validate(); err != nil {
		ins.Warnings = append(ins.Warnings, err.Error())
	}
	return ins
}

func topValues(cats map[string]int, limit int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > limit {
		tops = tops[:limit]
	}
	return tops
}

// Markdown renders the inspection as a compact plain-text report.
func (r *Inspection) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Shape: (%d, %d)\n", r.Rows, len(r.Cols)))
	b.WriteString(fmt.Sprintf("Duplicate rows: %d\n\n", r.Duplicates))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %d / %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, c.Missing, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if c.Invalid > 0 {
				b.WriteString(fmt.Sprintf("; invalid %d", c.Invalid))
			}
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		case "text":
			if len(c.Examples) > 0 {
				b.WriteString(" — e.g., ")
				b.WriteString(strings.Join(lo.Map(c.Examples, func(s string, _ int) string { return safeVal(s) }), " | "))
			}
		}
		b.WriteString("\n")
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		names := lo.Map(r.Cols, func(c ColumnSummary, _ int) string { return safeName(c.Name) })
		b.WriteString("| " + strings.Join(names, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(r.Cols)) + "\n")
		for _, row := range r.Samples {
			cells := make([]string, len(r.Cols))
			for i := range r.Cols {
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				cells[i] = safeVal(val)
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
