// Package chart renders the four survey charts with gonum/plot. Every chart
// is a pure read of the table.
package chart

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/screentime-cli/internal/dataset"
	"github.com/KaramelBytes/screentime-cli/internal/feature"
	"github.com/KaramelBytes/screentime-cli/internal/utils"
)

// Chart names, used as output file stems.
const (
	ScreenTimeDistribution = "screen_time_distribution"
	ScreenTimeVsAnxiety    = "screen_time_vs_anxiety"
	SleepByCategory        = "sleep_by_screen_time_category"
	SeverityByPlatform     = "anxiety_severity_by_platform"
)

// ErrNoRecords is returned when there is nothing to plot.
var ErrNoRecords = errors.New("chart: no records to plot")

const unknownLabel = "Unknown"

var formats = map[string]bool{"png": true, "svg": true, "pdf": true, "jpg": true}

// severityOrder is the GAD-7 band order; unseen labels sort after these.
var severityOrder = []string{"Minimal", "Mild", "Moderate", "Severe"}

// Options controls output location and size.
type Options struct {
	OutDir string
	// Format is the file extension: png, svg, pdf or jpg.
	Format string
	// Width and Height in inches. Zero picks 6x4.
	Width, Height float64
	// HistBins for the screen time histogram. Zero picks 30.
	HistBins int
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{OutDir: "charts", Format: "png", Width: 6, Height: 4, HistBins: 30}
}

// Artifact is one rendered chart.
type Artifact struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Path  string `yaml:"path"`
}

// Render draws all four charts into opt.OutDir.
func Render(t dataset.Table, opt Options) ([]Artifact, error) {
	if t.Len() == 0 {
		return nil, ErrNoRecords
	}
	opt = withDefaults(opt)
	if !formats[opt.Format] {
		return nil, fmt.Errorf("unsupported chart format: %s (use png|svg|pdf|jpg)", opt.Format)
	}
	if err := utils.EnsureDir(opt.OutDir); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	w, h := vg.Length(opt.Width)*vg.Inch, vg.Length(opt.Height)*vg.Inch

	type job struct {
		name  string
		build func(dataset.Table, Options) (*plot.Plot, error)
		// width scale; the platform chart needs room for rotated labels
		wide float64
	}
	jobs := []job{
		{ScreenTimeDistribution, Histogram, 1},
		{ScreenTimeVsAnxiety, Scatter, 1},
		{SleepByCategory, SleepBox, 1},
		{SeverityByPlatform, SeverityBars, 10.0 / 6.0},
	}
	out := make([]Artifact, 0, len(jobs))
	for _, j := range jobs {
		p, err := j.build(t, opt)
		if err != nil {
			return out, fmt.Errorf("build %s: %w", j.name, err)
		}
		path := filepath.Join(opt.OutDir, j.name+"."+opt.Format)
		if err := p.Save(w*vg.Length(j.wide), h*vg.Length(math.Max(1, j.wide*0.75)), path); err != nil {
			return out, fmt.Errorf("save %s: %w", j.name, err)
		}
		out = append(out, Artifact{Name: j.name, Title: p.Title.Text, Path: path})
	}
	return out, nil
}

func withDefaults(opt Options) Options {
	d := DefaultOptions()
	if opt.OutDir == "" {
		opt.OutDir = d.OutDir
	}
	opt.Format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(opt.Format)), ".")
	if opt.Format == "" {
		opt.Format = d.Format
	}
	if opt.Format == "jpeg" {
		opt.Format = "jpg"
	}
	if opt.Width <= 0 {
		opt.Width = d.Width
	}
	if opt.Height <= 0 {
		opt.Height = d.Height
	}
	if opt.HistBins <= 0 {
		opt.HistBins = d.HistBins
	}
	return opt
}

// Histogram shows the distribution of daily screen time.
func Histogram(t dataset.Table, opt Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Distribution of Daily Screen Time"
	p.X.Label.Text = "Daily screen time (hours)"
	p.Y.Label.Text = "Respondents"

	bins := opt.HistBins
	if bins <= 0 {
		bins = DefaultOptions().HistBins
	}
	hist, err := plotter.NewHist(plotter.Values(t.Column(dataset.ColScreenTime)), bins)
	if err != nil {
		return nil, err
	}
	hist.FillColor = plotutil.Color(0)
	p.Add(hist)
	return p, nil
}

// Scatter plots screen time against the GAD-7 anxiety score.
func Scatter(t dataset.Table, _ Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Screen Time vs Anxiety Score"
	p.X.Label.Text = "Daily screen time (hours)"
	p.Y.Label.Text = "GAD-7 score"

	pts := make(plotter.XYs, t.Len())
	for i, r := range t.Records {
		pts[i] = plotter.XY{X: r.ScreenTime, Y: r.Anxiety}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2)
	s.GlyphStyle.Color = plotutil.Color(0)
	p.Add(s, plotter.NewGrid())
	return p, nil
}

// SleepBox draws sleep duration per screen time category, in bucket order.
// Empty categories keep their slot on the axis but have no box.
func SleepBox(t dataset.Table, _ Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Sleep Duration Across Screen Time Levels"
	p.X.Label.Text = "Screen time category"
	p.Y.Label.Text = "Sleep duration (hours)"

	groups := lo.GroupBy(t.Records, func(r dataset.Record) string { return r.Category })
	width := vg.Points(20)
	for i, label := range feature.Labels {
		recs := groups[label]
		if len(recs) == 0 {
			continue
		}
		vals := lo.Map(recs, func(r dataset.Record, _ int) float64 { return r.Sleep })
		box, err := plotter.NewBoxPlot(width, float64(i), plotter.Values(vals))
		if err != nil {
			return nil, err
		}
		box.FillColor = plotutil.Color(i)
		p.Add(box)
	}
	p.NominalX(feature.Labels...)
	p.X.Min = -0.5
	p.X.Max = float64(len(feature.Labels)) - 0.5
	return p, nil
}

// SeverityBars counts records per platform, one bar series per anxiety severity.
func SeverityBars(t dataset.Table, _ Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Anxiety Severity Across Platforms"
	p.X.Label.Text = "Primary platform"
	p.Y.Label.Text = "Respondents"

	platforms, severities, counts := CrossTab(t)
	n := len(severities)
	width := vg.Points(math.Max(4, 60/float64(n)))
	for i, sev := range severities {
		vals := make(plotter.Values, len(platforms))
		for j, plat := range platforms {
			vals[j] = float64(counts[plat][sev])
		}
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return nil, err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * width
		p.Add(bars)
		p.Legend.Add(sev, bars)
	}
	p.Legend.Top = true
	p.NominalX(platforms...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}

// CrossTab counts records by platform and severity. Platforms are sorted by
// name; severities follow the GAD-7 band order, then any others by name.
// Blank values are reported as "Unknown".
func CrossTab(t dataset.Table) (platforms, severities []string, counts map[string]map[string]int) {
	counts = map[string]map[string]int{}
	for _, r := range t.Records {
		plat, sev := orUnknown(r.Platform), orUnknown(r.Severity)
		if counts[plat] == nil {
			counts[plat] = map[string]int{}
		}
		counts[plat][sev]++
	}
	platforms = lo.Keys(counts)
	sort.Strings(platforms)

	seen := lo.Uniq(lo.Map(t.Records, func(r dataset.Record, _ int) string { return orUnknown(r.Severity) }))
	sort.Slice(seen, func(i, j int) bool {
		ri, rj := severityRank(seen[i]), severityRank(seen[j])
		if ri == rj {
			return seen[i] < seen[j]
		}
		return ri < rj
	})
	return platforms, seen, counts
}

func severityRank(s string) int {
	for i, v := range severityOrder {
		if strings.EqualFold(v, s) {
			return i
		}
	}
	return len(severityOrder)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknownLabel
	}
	return s
}
