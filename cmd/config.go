package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/screentime-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set screentime configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureConfig()
		fmt.Printf("input_path: %s\n", cfg.InputPath)
		if cfg.Delimiter != "" {
			fmt.Printf("delimiter: %s\n", cfg.Delimiter)
		}
		if cfg.AWSRegion != "" {
			fmt.Printf("aws_region: %s\n", cfg.AWSRegion)
		}
		fmt.Printf("output_dir: %s\n", cfg.OutputDir)
		fmt.Printf("chart_format: %s\n", cfg.ChartFormat)
		fmt.Printf("chart_width_in: %.2f\n", cfg.ChartWidthIn)
		fmt.Printf("chart_height_in: %.2f\n", cfg.ChartHeightIn)
		fmt.Printf("hist_bins: %d\n", cfg.HistBins)
		if cfg.ReportPath != "" {
			fmt.Printf("report_path: %s\n", cfg.ReportPath)
		}
		if cfg.ManifestPath != "" {
			fmt.Printf("manifest_path: %s\n", cfg.ManifestPath)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		ensureConfig()
		switch key {
		case "input_path":
			cfg.InputPath = val
		case "delimiter":
			if _, err := cfgpkg.ParseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "aws_region":
			cfg.AWSRegion = val
		case "output_dir":
			cfg.OutputDir = val
		case "chart_format":
			switch strings.ToLower(val) {
			case "png", "svg", "pdf", "jpg":
				cfg.ChartFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid chart_format: %s (use png, svg, pdf or jpg)", val)
			}
		case "chart_width_in", "chart_height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid positive float for %s: %v", key, val)
			}
			if key == "chart_width_in" {
				cfg.ChartWidthIn = f
			} else {
				cfg.ChartHeightIn = f
			}
		case "hist_bins":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid positive int for hist_bins: %v", val)
			}
			cfg.HistBins = i
		case "report_path":
			cfg.ReportPath = val
		case "manifest_path":
			cfg.ManifestPath = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
