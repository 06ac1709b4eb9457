package export

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"clipnotes/internal/app"
	"clipnotes/internal/app/converter/export"
)

var (
	format      string
	outputPath  string
	fingerprint string
)

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "txt",
		"export format: txt (transcript), summary (summary text) or xlsx (all cached runs)")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"output file path")
	Cmd.Flags().StringVarP(&fingerprint, "fingerprint", "p", "",
		"fingerprint of the cached run to export, required for txt and summary")

	Cmd.MarkFlagRequired("output")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export cached transcripts and summaries",
	Long: `Export cached artifacts.

- txt writes the timestamped transcript of one cached run
- summary writes the topic summary of one cached run as readable text
- xlsx writes a workbook with one row per cached run`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		application := app.InitializeApp()
		defer application.Close()

		switch format {
		case "txt", "summary":
			if fingerprint == "" {
				return fmt.Errorf("--fingerprint is required for %s export", format)
			}
			entry, err := application.Cache.Lookup(fingerprint)
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("no cached run with fingerprint %s", fingerprint)
			}
			if format == "txt" {
				return export.TranscriptToText(entry, outputPath)
			}
			return export.SummaryToText(entry, outputPath)
		case "xlsx":
			entries, err := application.Cache.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("the cache is empty, nothing to export")
			}
			if err := export.ToExcel(entries, outputPath); err != nil {
				return err
			}
			fmt.Printf("exported %d runs to %s\n", len(entries), filepath.Clean(outputPath))
			return nil
		default:
			return fmt.Errorf("unknown format %q (want txt, summary or xlsx)", format)
		}
	},
}
