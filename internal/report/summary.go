package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/screentime-cli/internal/chart"
	"github.com/KaramelBytes/screentime-cli/internal/clean"
	"github.com/KaramelBytes/screentime-cli/internal/dataset"
	"github.com/KaramelBytes/screentime-cli/internal/feature"
)

// Summary describes one pipeline run.
type Summary struct {
	RunID      string           `yaml:"run_id"`
	Source     string           `yaml:"source"`
	StartedAt  time.Time        `yaml:"started_at"`
	Duration   time.Duration    `yaml:"duration"`
	Cleaning   clean.Stats      `yaml:"cleaning"`
	Categories []CategoryStat   `yaml:"categories"`
	Charts     []chart.Artifact `yaml:"charts,omitempty"`
	Warnings   []string         `yaml:"warnings,omitempty"`
}

// CategoryStat is the size and mean sleep of one screen time bucket.
type CategoryStat struct {
	Label     string  `yaml:"label"`
	Count     int     `yaml:"count"`
	MeanSleep float64 `yaml:"mean_sleep_hours"`
}

// CategoryStats summarizes a labeled table per bucket, in bucket order.
// Empty buckets report a zero mean.
func CategoryStats(t dataset.Table) []CategoryStat {
	groups := lo.GroupBy(t.Records, func(r dataset.Record) string { return r.Category })
	return lo.Map(feature.Counts(t), func(lc feature.LabelCount, _ int) CategoryStat {
		cs := CategoryStat{Label: lc.Label, Count: lc.Count}
		if lc.Count > 0 {
			cs.MeanSleep = lo.SumBy(groups[lc.Label], func(r dataset.Record) float64 { return r.Sleep }) / float64(lc.Count)
		}
		return cs
	})
}

// YAML encodes the summary as a manifest.
func (s *Summary) YAML() ([]byte, error) {
	b, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return b, nil
}

// Markdown renders the run summary.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[RUN SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Run: %s\n", s.RunID))
	b.WriteString(fmt.Sprintf("Source: %s\n", s.Source))
	if !s.StartedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Started: %s (took %s)\n", s.StartedAt.Format(time.RFC3339), s.Duration.Round(time.Millisecond)))
	}

	c := s.Cleaning
	b.WriteString("\n[CLEANING]\n")
	b.WriteString(fmt.Sprintf("- loaded: %d\n", c.Loaded))
	b.WriteString(fmt.Sprintf("- missing critical value: -%d\n", c.MissingDropped))
	b.WriteString(fmt.Sprintf("- exact duplicate: -%d\n", c.DuplicatesDropped))
	b.WriteString(fmt.Sprintf("- non-numeric value: -%d\n", c.ParseFailures))
	b.WriteString(fmt.Sprintf("- outside plausible range: -%d\n", c.OutliersDropped))
	b.WriteString(fmt.Sprintf("- kept: %d", c.Kept))
	if c.Loaded > 0 {
		b.WriteString(fmt.Sprintf(" (%.1f%%)", float64(c.Kept)*100/float64(c.Loaded)))
	}
	b.WriteString("\n")

	if len(s.Categories) > 0 {
		b.WriteString("\n[SCREEN TIME CATEGORIES]\n")
		for _, cs := range s.Categories {
			if cs.Count == 0 || math.IsNaN(cs.MeanSleep) {
				b.WriteString(fmt.Sprintf("- %s: n=%d\n", cs.Label, cs.Count))
				continue
			}
			b.WriteString(fmt.Sprintf("- %s: n=%d, mean sleep %.2fh\n", cs.Label, cs.Count, cs.MeanSleep))
		}
	}
	if len(s.Charts) > 0 {
		b.WriteString("\n[CHARTS]\n")
		for _, a := range s.Charts {
			b.WriteString(fmt.Sprintf("- %s: %s\n", a.Title, a.Path))
		}
	}
	if len(s.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range s.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}
