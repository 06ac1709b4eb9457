package audio

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Chunk is one slice of an extracted audio track. StartSec offsets the
// chunk's local timestamps back onto the video timeline.
type Chunk struct {
	Path     string
	StartSec float64
}

// Duration returns the media duration in seconds via ffprobe.
func Duration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %w", filePath, err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable ffprobe duration %q: %w", strings.TrimSpace(string(output)), err)
	}
	return duration, nil
}

// ExtractWav16k extracts the audio track as mono 16 kHz 16-bit PCM WAV,
// the input format both whisper backends accept.
func ExtractWav16k(ctx context.Context, videoPath, outPath string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("ffmpeg audio extraction failed: %w, stderr: %s", err, tail(stderr.String()))
	}
	return nil
}

// SplitWav slices a WAV file into chunks of at most chunkSec seconds and
// returns them ordered by start offset. Splitting happens on sample
// boundaries (-f segment re-encode to pcm_s16le keeps chunks self-contained).
func SplitWav(ctx context.Context, wavPath string, chunkSec int) ([]Chunk, error) {
	if chunkSec <= 0 {
		return nil, fmt.Errorf("chunkSec must be positive, got %d", chunkSec)
	}

	outDir := filepath.Join(filepath.Dir(wavPath), strings.TrimSuffix(filepath.Base(wavPath), ".wav")+"_chunks")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	pattern := filepath.Join(outDir, "chunk_%04d.wav")
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", wavPath,
		"-f", "segment",
		"-segment_time", strconv.Itoa(chunkSec),
		"-c", "pcm_s16le",
		pattern)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg split failed: %w, stderr: %s", err, tail(stderr.String()))
	}

	paths, err := filepath.Glob(filepath.Join(outDir, "chunk_*.wav"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	chunks := make([]Chunk, 0, len(paths))
	for i, p := range paths {
		chunks = append(chunks, Chunk{
			Path:     p,
			StartSec: float64(i * chunkSec),
		})
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("ffmpeg split of %s produced no chunks", wavPath)
	}
	return chunks, nil
}

// ChunkCount computes how many chunks a duration splits into.
func ChunkCount(durationSec float64, chunkSec int) int {
	if durationSec <= 0 || chunkSec <= 0 {
		return 1
	}
	return int(math.Ceil(durationSec / float64(chunkSec)))
}

// tail keeps the last few lines of ffmpeg's chatty stderr for error
// messages.
func tail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) <= 3 {
		return strings.TrimSpace(s)
	}
	return strings.Join(lines[len(lines)-3:], "\n")
}
