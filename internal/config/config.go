package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	InputPath string `mapstructure:"input_path" yaml:"input_path"`
	// Delimiter is "," "tab" or ";"; empty picks by file extension.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	AWSRegion string `mapstructure:"aws_region" yaml:"aws_region"`

	// Chart output
	OutputDir     string  `mapstructure:"output_dir" yaml:"output_dir"`
	ChartFormat   string  `mapstructure:"chart_format" yaml:"chart_format"`
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`
	HistBins      int     `mapstructure:"hist_bins" yaml:"hist_bins"`

	// Optional run outputs
	ReportPath   string `mapstructure:"report_path" yaml:"report_path"`
	ManifestPath string `mapstructure:"manifest_path" yaml:"manifest_path"`
}

// DefaultPath returns ~/.screentime/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".screentime", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.screentime/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SCREENTIME")
	v.AutomaticEnv()

	v.SetDefault("input_path", "social_media_mental_health.csv")
	v.SetDefault("delimiter", "")
	v.SetDefault("aws_region", "")
	v.SetDefault("output_dir", "charts")
	v.SetDefault("chart_format", "png")
	v.SetDefault("chart_width_in", 6.0)
	v.SetDefault("chart_height_in", 4.0)
	v.SetDefault("hist_bins", 30)
	v.SetDefault("report_path", "")
	v.SetDefault("manifest_path", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// ParseDelimiter maps a configured delimiter name to a rune; empty returns 0.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";", "semicolon":
		return ';', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %s (use ','|';'|'tab')", s)
	}
}
