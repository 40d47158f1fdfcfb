package cmd

import (
	"fmt"

	"github.com/KaramelBytes/screentime-cli/internal/chart"
	cfgpkg "github.com/KaramelBytes/screentime-cli/internal/config"
	"github.com/KaramelBytes/screentime-cli/internal/dataset"
	"github.com/KaramelBytes/screentime-cli/internal/pipeline"
	"github.com/KaramelBytes/screentime-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	runInput     string
	runOutDir    string
	runFormat    string
	runDelimiter string
	runReport    string
	runManifest  string
	runQuiet     bool
)

func registerRunFlags(c *cobra.Command) {
	c.Flags().StringVarP(&runInput, "input", "i", "", "dataset path or s3://bucket/key (overrides config)")
	c.Flags().StringVarP(&runOutDir, "out-dir", "o", "", "directory for chart files (overrides config)")
	c.Flags().StringVar(&runFormat, "format", "", "chart format: png | svg | pdf | jpg (overrides config)")
	c.Flags().StringVar(&runDelimiter, "delimiter", "", "field delimiter: ',' | ';' | 'tab' (default by extension)")
	c.Flags().StringVar(&runReport, "report", "", "optional path to write the run summary (Markdown)")
	c.Flags().StringVar(&runManifest, "manifest", "", "optional path to write a YAML run manifest")
	c.Flags().BoolVar(&runQuiet, "quiet", false, "suppress the run summary on stdout")
}

// runOptions merges flags over the loaded configuration.
func runOptions(c *cfgpkg.Global) (pipeline.Options, error) {
	input := pick(runInput, c.InputPath)
	delimName := pick(runDelimiter, c.Delimiter)
	delim, err := cfgpkg.ParseDelimiter(delimName)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Input: input,
		Load:  dataset.LoadOptions{Delimiter: delim, Region: c.AWSRegion},
		Chart: chart.Options{
			OutDir:   pick(runOutDir, c.OutputDir),
			Format:   pick(runFormat, c.ChartFormat),
			Width:    c.ChartWidthIn,
			Height:   c.ChartHeightIn,
			HistBins: c.HistBins,
		},
	}, nil
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	ensureConfig()
	opt, err := runOptions(cfg)
	if err != nil {
		return err
	}
	res, err := pipeline.Run(cmd.Context(), opt, logger)
	if err != nil {
		return err
	}
	sum := res.Summary

	written := false
	if path := pick(runReport, cfg.ReportPath); path != "" {
		if err := utils.SafeWriteFile(path, []byte(sum.Markdown())); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("✓ Wrote run summary to %s\n", path)
		written = true
	}
	if path := pick(runManifest, cfg.ManifestPath); path != "" {
		b, err := sum.YAML()
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(path, b); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		fmt.Printf("✓ Wrote manifest to %s\n", path)
	}
	if !written && !runQuiet {
		fmt.Println(sum.Markdown())
	}
	for _, w := range sum.Warnings {
		fmt.Printf("⚠ %s\n", w)
	}
	return nil
}

func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
