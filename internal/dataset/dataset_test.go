package dataset

import (
	"context"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const header = "User_ID,Age,Gender,Daily_Screen_Time_Hours,Sleep_Duration_Hours,GAD_7_Score,PHQ_9_Score,Primary_Platform,GAD_7_Severity"

func TestLoadKeepsRawStrings(t *testing.T) {
	body := header + "\n" +
		"1,21,F,3.5,7,6,5,Instagram,Mild\n" +
		"2,34,M, 5 ,6.5,12,14,TikTok,Moderate\n" +
		"3,,F,NA,8,2,3,YouTube,Minimal\n"
	tbl, err := Load(strings.NewReader(body), "survey.csv", 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(tbl.Rows))
	}
	if got := tbl.Rows[1][tbl.Index(ColScreenTime)]; got != " 5 " {
		t.Fatalf("screen time cell = %q, want raw %q", got, " 5 ")
	}
	if got := tbl.Rows[2][tbl.Index(ColScreenTime)]; got != "NA" {
		t.Fatalf("missing token = %q, want NA", got)
	}
	if err := tbl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadTSVByExtension(t *testing.T) {
	body := strings.ReplaceAll(header, ",", "\t") + "\n" +
		"1\t21\tF\t3.5\t7\t6\t5\tInstagram\tMild\n"
	tbl, err := Load(strings.NewReader(body), "survey.tsv", 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Index(ColPlatform) != 7 {
		t.Fatalf("platform index = %d, want 7", tbl.Index(ColPlatform))
	}
	if tbl.Rows[0][7] != "Instagram" {
		t.Fatalf("platform = %q", tbl.Rows[0][7])
	}
}

func TestValidateReportsMissingColumns(t *testing.T) {
	body := "Age,Daily_Screen_Time_Hours,Sleep_Duration_Hours,GAD_7_Score,PHQ_9_Score,Primary_Platform\n21,3,7,5,5,X\n"
	tbl, err := Load(strings.NewReader(body), "bad.csv", 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	err = tbl.Validate()
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
	var se *SchemaError
	if !errors.As(err, &se) || len(se.Missing) != 1 || se.Missing[0] != ColSeverity {
		t.Fatalf("missing = %#v", se)
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	tbl, err := Load(strings.NewReader(header+"\n"), "survey.csv", 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl.Rows) != 0 || len(tbl.Header) != 9 {
		t.Fatalf("rows = %d, header = %v", len(tbl.Rows), tbl.Header)
	}
	if err := tbl.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateReportsDuplicateColumns(t *testing.T) {
	body := header + ",Age\n1,21,F,3.5,7,6,5,Instagram,Mild,22\n"
	tbl, err := Load(strings.NewReader(body), "dup.csv", 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := tbl.Header[len(tbl.Header)-1]; got != ColAge {
		t.Fatalf("last header = %q, want %q", got, ColAge)
	}
	err = tbl.Validate()
	var se *SchemaError
	if !errors.As(err, &se) || len(se.Missing) != 0 || len(se.Duplicate) != 1 || se.Duplicate[0] != ColAge {
		t.Fatalf("schema error = %#v", err)
	}
	if !errors.Is(err, ErrSchema) || !strings.Contains(err.Error(), "duplicate column(s) Age") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), LoadOptions{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestReadValidatesSchema(t *testing.T) {
	p := filepath.Join(t.TempDir(), "short.csv")
	if err := os.WriteFile(p, []byte("Age,Primary_Platform\n20,X\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Read(context.Background(), p, LoadOptions{}); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestParseS3URI(t *testing.T) {
	cases := []struct {
		in          string
		bucket, key string
		ok          bool
	}{
		{"s3://surveys/2024/export.csv", "surveys", "2024/export.csv", true},
		{"S3://surveys/export.csv", "surveys", "export.csv", true},
		{"s3://surveys", "", "", false},
		{"s3://surveys/", "", "", false},
		{"s3:///export.csv", "", "", false},
		{"/tmp/export.csv", "", "", false},
	}
	for _, tc := range cases {
		b, k, err := ParseS3URI(tc.in)
		if tc.ok != (err == nil) {
			t.Fatalf("%s: err = %v, want ok=%v", tc.in, err, tc.ok)
		}
		if b != tc.bucket || k != tc.key {
			t.Fatalf("%s: got (%q, %q), want (%q, %q)", tc.in, b, k, tc.bucket, tc.key)
		}
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"5", 5, true},
		{" 5 ", 5, true},
		{"3.5", 3.5, true},
		{"3,5", 3.5, true},
		{"3,25", 3.25, true},
		{"1,200", 0, false},
		{"12,000", 0, false},
		{"1,200.5", 0, false},
		{"1.200,5", 0, false},
		{"3,", 0, false},
		{"\u00A07.5 ", 7.5, true},
		{"abc", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"null", 0, false},
		{"Inf", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseNumber(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseNumber(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if !ok {
			if !math.IsNaN(got) {
				t.Fatalf("ParseNumber(%q) = %v, want NaN", tc.in, got)
			}
			continue
		}
		if got != tc.want {
			t.Fatalf("ParseNumber(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
