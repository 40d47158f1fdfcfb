package dataset

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Column names expected in the survey export.
const (
	ColAge        = "Age"
	ColScreenTime = "Daily_Screen_Time_Hours"
	ColSleep      = "Sleep_Duration_Hours"
	ColAnxiety    = "GAD_7_Score"
	ColDepression = "PHQ_9_Score"
	ColPlatform   = "Primary_Platform"
	ColSeverity   = "GAD_7_Severity"
	ColCategory   = "Screen_Time_Category"
)

// NumericColumns are parsed into float64 during coercion.
var NumericColumns = []string{ColAge, ColScreenTime, ColSleep, ColAnxiety, ColDepression}

// CriticalColumns must be present and non-missing for a row to survive cleaning.
var CriticalColumns = NumericColumns

// RequiredColumns must exist in the header.
var RequiredColumns = []string{ColAge, ColScreenTime, ColSleep, ColAnxiety, ColDepression, ColPlatform, ColSeverity}

// ErrSchema is matched by every *SchemaError.
var ErrSchema = errors.New("dataset schema mismatch")

// SchemaError reports required columns absent from the header or named more
// than once.
type SchemaError struct {
	Missing   []string
	Duplicate []string
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing column(s) "+strings.Join(e.Missing, ", "))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "duplicate column(s) "+strings.Join(e.Duplicate, ", "))
	}
	return fmt.Sprintf("dataset schema mismatch: %s", strings.Join(parts, "; "))
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// RawTable holds rows exactly as read, before any coercion.
type RawTable struct {
	Name   string
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewRawTable builds a RawTable and indexes its header. Rows shorter than the
// header are padded with empty strings.
func NewRawTable(name string, header []string, rows [][]string) *RawTable {
	t := &RawTable{Name: name, Header: header, Rows: make([][]string, len(rows))}
	for i, r := range rows {
		if len(r) < len(header) {
			tmp := make([]string, len(header))
			copy(tmp, r)
			r = tmp
		}
		t.Rows[i] = r
	}
	t.reindex()
	return t
}

func (t *RawTable) reindex() {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		t.index[strings.TrimSpace(h)] = i
	}
}

// Index returns the position of a column, or -1.
func (t *RawTable) Index(name string) int {
	if t.index == nil {
		t.reindex()
	}
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// WithRows returns a copy of t sharing the header but holding rows.
func (t *RawTable) WithRows(rows [][]string) *RawTable {
	return &RawTable{Name: t.Name, Header: t.Header, Rows: rows, index: t.index}
}

// Validate checks that every required column is present exactly once.
func (t *RawTable) Validate() error {
	seen := make(map[string]int, len(t.Header))
	for _, h := range t.Header {
		seen[strings.TrimSpace(h)]++
	}
	var missing, dup []string
	for _, c := range RequiredColumns {
		switch n := seen[c]; {
		case n == 0:
			missing = append(missing, c)
		case n > 1:
			dup = append(dup, c)
		}
	}
	if len(missing) > 0 || len(dup) > 0 {
		return &SchemaError{Missing: missing, Duplicate: dup}
	}
	return nil
}

// Record is one respondent. Numeric fields hold NaN when missing or unparseable.
type Record struct {
	// Fields is the original row in header order.
	Fields []string

	Age        float64
	ScreenTime float64
	Sleep      float64
	Anxiety    float64
	Depression float64
	Platform   string
	Severity   string

	// Category is empty until the feature deriver runs.
	Category string
}

// HasMissingCritical reports whether any critical numeric field is NaN.
func (r Record) HasMissingCritical() bool {
	for _, v := range []float64{r.Age, r.ScreenTime, r.Sleep, r.Anxiety, r.Depression} {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Table is the typed dataset after coercion.
type Table struct {
	Name    string
	Header  []string
	Records []Record
}

// Len returns the number of records.
func (t Table) Len() int { return len(t.Records) }

// WithRecords returns a copy of t holding recs.
func (t Table) WithRecords(recs []Record) Table {
	return Table{Name: t.Name, Header: t.Header, Records: recs}
}

// Column returns a numeric column by name. Unknown names return nil.
func (t Table) Column(name string) []float64 {
	var pick func(Record) float64
	switch name {
	case ColAge:
		pick = func(r Record) float64 { return r.Age }
	case ColScreenTime:
		pick = func(r Record) float64 { return r.ScreenTime }
	case ColSleep:
		pick = func(r Record) float64 { return r.Sleep }
	case ColAnxiety:
		pick = func(r Record) float64 { return r.Anxiety }
	case ColDepression:
		pick = func(r Record) float64 { return r.Depression }
	default:
		return nil
	}
	out := make([]float64, len(t.Records))
	for i, r := range t.Records {
		out[i] = pick(r)
	}
	return out
}
