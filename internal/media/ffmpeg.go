package media

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Converter turns arbitrary recordings into transcription-ready audio using
// ffmpeg. Safe for concurrent use; every output file is uniquely named.
type Converter struct {
	workDir     string
	ffmpegPath  string
	ffprobePath string
	log         *slog.Logger
}

// NewConverter creates a Converter writing into workDir. Empty binary paths
// resolve via PATH.
func NewConverter(workDir string, log *slog.Logger) *Converter {
	if log == nil {
		log = slog.Default()
	}
	return &Converter{
		workDir:     workDir,
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
		log:         log,
	}
}

// EnsureAudio returns a path to an audio-only file for the given recording.
// Audio inputs pass through untouched; video inputs have their audio track
// extracted to MP3.
func (c *Converter) EnsureAudio(ctx context.Context, path string) (string, error) {
	if IsAudio(path) {
		return path, nil
	}
	if !IsVideo(path) {
		return "", fmt.Errorf("media: %q is neither audio nor video", filepath.Base(path))
	}
	dst := filepath.Join(c.workDir, uuid.NewString()+".mp3")
	cmd := exec.CommandContext(ctx, c.ffmpegPath,
		"-y", "-i", path,
		"-vn", "-acodec", "libmp3lame", "-b:a", "128k",
		dst,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("media: ffmpeg extract audio: %w: %s", err, tail(string(out), 400))
	}
	c.log.Debug("media: extracted audio track", "src", path, "dst", dst)
	return dst, nil
}

// SplitIfOversized splits the audio file into time-based segments when it
// exceeds maxBytes, returning the segment paths in playback order. Files
// within the limit are returned as a single-element slice unchanged.
func (c *Converter) SplitIfOversized(ctx context.Context, path string, maxBytes int64) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("media: stat %q: %w", path, err)
	}
	if maxBytes <= 0 || info.Size() <= maxBytes {
		return []string{path}, nil
	}

	duration, err := c.probeDuration(ctx, path)
	if err != nil {
		return nil, err
	}
	// Segment length chosen so each piece lands comfortably under the cap.
	parts := int(math.Ceil(float64(info.Size()) / float64(maxBytes)))
	segSeconds := int(duration/float64(parts+1)) + 1

	base := filepath.Join(c.workDir, uuid.NewString())
	pattern := base + "_%03d" + filepath.Ext(path)
	cmd := exec.CommandContext(ctx, c.ffmpegPath,
		"-y", "-i", path,
		"-f", "segment",
		"-segment_time", strconv.Itoa(segSeconds),
		"-c", "copy",
		pattern,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("media: ffmpeg segment: %w: %s", err, tail(string(out), 400))
	}

	segments, err := filepath.Glob(base + "_*" + filepath.Ext(path))
	if err != nil || len(segments) == 0 {
		return nil, fmt.Errorf("media: segmentation produced no files for %q", path)
	}
	c.log.Info("media: split oversized file",
		"src", path, "size", info.Size(), "segments", len(segments))
	return segments, nil
}

func (c *Converter) probeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, c.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("media: ffprobe: %w", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("media: parse ffprobe duration %q: %w", strings.TrimSpace(string(out)), err)
	}
	return duration, nil
}
