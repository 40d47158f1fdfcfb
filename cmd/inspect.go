package cmd

import (
	"fmt"
	"path"

	cfgpkg "github.com/KaramelBytes/screentime-cli/internal/config"
	"github.com/KaramelBytes/screentime-cli/internal/dataset"
	"github.com/KaramelBytes/screentime-cli/internal/report"
	"github.com/KaramelBytes/screentime-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	insOutputPath string
	insDelimiter  string
	insHead       int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show shape, column types, missing values, duplicates and the first rows of a dataset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureConfig()
		location := cfg.InputPath
		if len(args) == 1 {
			location = args[0]
		}
		delim, err := cfgpkg.ParseDelimiter(pick(insDelimiter, cfg.Delimiter))
		if err != nil {
			return err
		}
		rc, err := dataset.Open(cmd.Context(), location, dataset.LoadOptions{Region: cfg.AWSRegion})
		if err != nil {
			return err
		}
		defer rc.Close()
		// Schema problems are reported in the notes instead of failing.
		raw, err := dataset.Load(rc, path.Base(location), delim)
		if err != nil {
			return err
		}
		opt := report.DefaultOptions()
		opt.SampleRows = insHead
		md := report.Inspect(raw, opt).Markdown()

		if insOutputPath != "" {
			if err := utils.SafeWriteFile(insOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote inspection to %s\n", insOutputPath)
			return nil
		}
		fmt.Println(md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&insOutputPath, "output", "o", "", "optional path to write the inspection (Markdown)")
	inspectCmd.Flags().StringVar(&insDelimiter, "delimiter", "", "field delimiter: ',' | ';' | 'tab' (default by extension)")
	inspectCmd.Flags().IntVar(&insHead, "head", 5, "number of leading rows to show (0 disables)")
}
