package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const surveyCSV = `User_ID,Age,Gender,Daily_Screen_Time_Hours,Sleep_Duration_Hours,GAD_7_Score,PHQ_9_Score,Primary_Platform,GAD_7_Severity
1,21,F,1.5,8.5,3,2,YouTube,Minimal
2,24,M,3.5,7.0,6,5,Instagram,Mild
3,29,F,"5",6.5,11,9,TikTok,Moderate
4,33,M,7.5,5.0,16,14,TikTok,Severe
4,33,M,7.5,5.0,16,14,TikTok,Severe
5,19,F,20,6.0,9,8,Snapchat,Mild
`

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) error {
	t.Helper()
	// Reset sticky flag values between invocations
	cfgFile, debug = "", false
	runInput, runOutDir, runFormat, runDelimiter, runReport, runManifest = "", "", "", "", "", ""
	runQuiet = false
	insOutputPath, insDelimiter, insHead = "", "", 5
	cfg = nil

	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeSurvey(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "social_media_mental_health.csv")
	if err := os.WriteFile(p, []byte(surveyCSV), 0o644); err != nil {
		t.Fatalf("write survey: %v", err)
	}
	return p
}

func TestCLI_NoArgsRunsConfiguredPipeline(t *testing.T) {
	home := withHome(t)
	input := writeSurvey(t, home)
	out := filepath.Join(home, "charts")

	if err := runCmd(t, "config", "set", "input_path", input); err != nil {
		t.Fatalf("config set input_path: %v", err)
	}
	if err := runCmd(t, "config", "set", "output_dir", out); err != nil {
		t.Fatalf("config set output_dir: %v", err)
	}
	if err := runCmd(t, "--quiet"); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{
		"screen_time_distribution.png",
		"screen_time_vs_anxiety.png",
		"sleep_by_screen_time_category.png",
		"anxiety_severity_by_platform.png",
	} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("missing chart %s: %v", name, err)
		}
	}
}

func TestCLI_FlagsOverrideConfigAndWriteOutputs(t *testing.T) {
	home := withHome(t)
	input := writeSurvey(t, home)
	out := filepath.Join(home, "svg")
	reportPath := filepath.Join(home, "reports", "run.md")
	manifestPath := filepath.Join(home, "reports", "run.yaml")

	err := runCmd(t, "--input", input, "--out-dir", out, "--format", "svg", "--report", reportPath, "--manifest", manifestPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "screen_time_vs_anxiety.svg")); err != nil {
		t.Fatalf("missing svg chart: %v", err)
	}
	body, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(body), "- kept: 4") || !strings.Contains(string(body), "- exact duplicate: -1") {
		t.Fatalf("unexpected report:\n%s", body)
	}
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m struct {
		RunID    string `yaml:"run_id"`
		Cleaning struct {
			Kept int `yaml:"kept"`
		} `yaml:"cleaning"`
		Charts []struct {
			Path string `yaml:"path"`
		} `yaml:"charts"`
	}
	if err := yaml.Unmarshal(raw, &m); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if m.RunID == "" || m.Cleaning.Kept != 4 || len(m.Charts) != 4 {
		t.Fatalf("manifest = %+v", m)
	}
}

func TestCLI_MissingInputFails(t *testing.T) {
	home := withHome(t)
	if err := runCmd(t, "--input", filepath.Join(home, "absent.csv"), "--quiet"); err == nil {
		t.Fatalf("expected error for missing input")
	}
}

func TestCLI_SchemaErrorFails(t *testing.T) {
	home := withHome(t)
	p := filepath.Join(home, "bad.csv")
	if err := os.WriteFile(p, []byte("Age,Daily_Screen_Time_Hours\n20,3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := runCmd(t, "--input", p, "--quiet")
	if err == nil || !strings.Contains(err.Error(), "missing column(s)") {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestCLI_InspectWritesReport(t *testing.T) {
	home := withHome(t)
	input := writeSurvey(t, home)
	out := filepath.Join(home, "inspect.md")
	if err := runCmd(t, "inspect", input, "-o", out, "--head", "2"); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	body, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{"Shape: (6, 9)", "Duplicate rows: 1", "[HEAD AND SAMPLE ROWS]"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("inspection missing %q:\n%s", want, body)
		}
	}
}

func TestCLI_ConfigSetRejectsBadValues(t *testing.T) {
	withHome(t)
	if err := runCmd(t, "config", "set", "chart_format", "bmp"); err == nil {
		t.Fatalf("expected error for bmp")
	}
	if err := runCmd(t, "config", "set", "hist_bins", "0"); err == nil {
		t.Fatalf("expected error for hist_bins=0")
	}
	if err := runCmd(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}
