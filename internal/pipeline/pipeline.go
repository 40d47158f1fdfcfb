// Package pipeline runs load, clean, derive and render once, in that order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KaramelBytes/screentime-cli/internal/chart"
	"github.com/KaramelBytes/screentime-cli/internal/clean"
	"github.com/KaramelBytes/screentime-cli/internal/dataset"
	"github.com/KaramelBytes/screentime-cli/internal/feature"
	"github.com/KaramelBytes/screentime-cli/internal/report"
)

// Options configures a run.
type Options struct {
	Input string
	Load  dataset.LoadOptions
	Chart chart.Options
}

// Result is everything a run produced.
type Result struct {
	Table   dataset.Table
	Summary *report.Summary
}

// Run executes the pipeline. Only input and output failures are returned as
// errors; rows with bad data are dropped and counted.
func Run(ctx context.Context, opt Options, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sum := &report.Summary{RunID: uuid.NewString(), Source: opt.Input, StartedAt: time.Now()}
	log = log.With(zap.String("run", sum.RunID))

	raw, err := dataset.Read(ctx, opt.Input, opt.Load)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", opt.Input, err)
	}
	log.Info("loaded dataset", zap.String("source", opt.Input), zap.Int("rows", len(raw.Rows)), zap.Int("columns", len(raw.Header)))

	cleaned, st := clean.Clean(raw)
	sum.Cleaning = st
	log.Info("cleaned dataset",
		zap.Int("missing_dropped", st.MissingDropped),
		zap.Int("duplicates_dropped", st.DuplicatesDropped),
		zap.Int("parse_failures", st.ParseFailures),
		zap.Int("outliers_dropped", st.OutliersDropped),
		zap.Int("kept", st.Kept),
	)

	labeled := feature.Derive(cleaned)
	sum.Categories = report.CategoryStats(labeled)
	for _, c := range sum.Categories {
		log.Debug("screen time category", zap.String("label", c.Label), zap.Int("count", c.Count), zap.Float64("mean_sleep", c.MeanSleep))
	}

	arts, err := chart.Render(labeled, opt.Chart)
	switch {
	case errors.Is(err, chart.ErrNoRecords):
		msg := "no records left after cleaning; charts skipped"
		sum.Warnings = append(sum.Warnings, msg)
		log.Warn(msg)
	case err != nil:
		return nil, fmt.Errorf("render charts: %w", err)
	default:
		for _, a := range arts {
			log.Info("wrote chart", zap.String("name", a.Name), zap.String("path", a.Path))
		}
	}
	sum.Charts = arts
	sum.Duration = time.Since(sum.StartedAt)
	return &Result{Table: labeled, Summary: sum}, nil
}
