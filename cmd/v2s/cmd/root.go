package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"clipnotes/cmd/v2s/cmd/export"
	"clipnotes/cmd/v2s/cmd/process"
	"clipnotes/cmd/v2s/cmd/serve"
	"clipnotes/cmd/v2s/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "v2s",
	Short: "Turn local videos into timestamped transcripts and topic summaries",
	Long: `Turn local videos into timestamped transcripts and structured topic summaries.

- Transcribe with the OpenAI whisper API or a local whisper.cpp build
- Summarize the transcript into timestamped topics and highlights
- Results are cached by content fingerprint, so reprocessing an unchanged
  video is instant.`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(process.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
