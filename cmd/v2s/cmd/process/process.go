package process

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"clipnotes/internal/app"
	apperrors "clipnotes/internal/app/errors"
	"clipnotes/internal/app/model"
	"clipnotes/internal/app/pipeline"
)

var noProgress bool

func init() {
	Cmd.Flags().BoolVar(&noProgress, "no-progress", false,
		"disable the progress bar, useful when piping output")
}

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process <video file>",
	Short: "Transcribe and summarize one video, reusing cached results when possible",
	Long: `Transcribe and summarize one video file.

The video content is fingerprinted together with the configured backends;
if an identical video was already processed with the same configuration the
cached transcript and summary are shown without calling any backend.
Ctrl-C cancels the run cleanly, nothing is written to the cache.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		application := app.InitializeApp()
		defer application.Close()

		run, err := application.Pipeline.Submit(args[0])
		if err != nil {
			return fmt.Errorf("%s", plainMessage(err))
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case <-sigCh:
				fmt.Fprintln(os.Stderr, "cancelling...")
				run.Cancel()
			case <-run.Done():
			}
		}()

		renderProgress(run)

		result := run.Result()
		switch result.State {
		case model.RunCancelled:
			return fmt.Errorf("cancelled, nothing was saved")
		case model.RunFailed:
			return fmt.Errorf("%s (stage: %s)", plainMessage(result.Err), result.Stage)
		}

		if store, err := application.RecentStore(); err == nil {
			_ = store.Add(result.Entry.VideoPath, result.Entry.Fingerprint)
		}

		printSummary(result.Entry)
		return nil
	},
}

var stageLabels = map[model.Stage]string{
	model.StageFingerprinting: "Fingerprinting",
	model.StageCacheCheck:     "Checking cache",
	model.StageTranscribing:   "Transcribing",
	model.StageSummarizing:    "Summarizing",
	model.StagePersisting:     "Saving",
}

// renderProgress drains the run's event stream, showing one bar per stage.
// Stages without a completion estimate render as a spinner-style bar stuck
// at zero until the stage ends.
func renderProgress(run *pipeline.Run) {
	if noProgress {
		for range run.Events() {
		}
		return
	}

	container := mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithRefreshRate(120*time.Millisecond),
	)

	var bar *mpb.Bar
	var currentStage model.Stage
	for ev := range run.Events() {
		if ev.Stage != currentStage {
			if bar != nil {
				bar.SetTotal(100, true)
			}
			label := stageLabels[ev.Stage]
			if label == "" {
				label = string(ev.Stage)
			}
			bar = container.AddBar(100,
				mpb.PrependDecorators(
					decor.Name(label+" ", decor.WC{W: len(label) + 1, C: decor.DindentRight}),
				),
				mpb.AppendDecorators(
					decor.NewPercentage("%d", decor.WCSyncSpace),
				),
			)
			currentStage = ev.Stage
		}
		if bar != nil && ev.Fraction >= 0 {
			bar.SetCurrent(int64(ev.Fraction * 100))
		}
	}
	if bar != nil {
		bar.SetTotal(100, true)
	}
	container.Wait()
}

func printSummary(entry *model.CacheEntry) {
	if entry == nil || entry.Summary == nil {
		return
	}
	fmt.Printf("\n%d topics, model %s\n\n", len(entry.Summary.Topics), entry.Summary.Model)
	for _, topic := range entry.Summary.Topics {
		fmt.Printf("[%s - %s] %s\n", topic.Start, topic.End, topic.Title)
		if topic.Description != "" {
			fmt.Printf("  %s\n", topic.Description)
		}
		for _, h := range topic.Highlights {
			fmt.Printf("  - %s (%s) %s\n", h.Timestamp, h.Category, h.Text)
		}
	}
}

// plainMessage maps error categories to the wording shown to users.
func plainMessage(err error) string {
	switch apperrors.Category(err) {
	case apperrors.CauseNetwork:
		return "could not reach the service, check your network connection"
	case apperrors.CauseAuth:
		return "the API key was rejected, check OPENAI_API_KEY"
	case apperrors.CauseQuota:
		return "the service rate limit or quota was hit, try again later"
	case apperrors.CauseMedia:
		return "the service could not process this video's audio"
	case apperrors.CauseModelLoad:
		return "the local whisper model could not be loaded, check WHISPER_CPP_BINARY and WHISPER_CPP_MODEL"
	case apperrors.CauseSchema:
		return "the summary could not be generated in a usable format"
	case apperrors.CauseEmptyInput:
		return "the video has no usable audio to work with"
	default:
		if apperrors.Is(err, apperrors.ErrUnreadableInput) {
			return "this file cannot be processed, it is missing, empty or not a supported video"
		}
		return err.Error()
	}
}
