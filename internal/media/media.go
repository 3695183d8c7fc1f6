package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// video file information
type Info struct {
	Width    int
	Height   int
	Duration time.Duration
}

// Processor wraps the external ffmpeg/ffprobe commands. Failures are the
// subprocess errors surfaced verbatim; no retries happen at this layer.
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

// ExtractAudio pulls the audio track out of a video as mono 16 kHz mp3,
// the shape the transcription providers expect. The ffmpeg-go runner has no
// cancellation hook, so ctx does not interrupt a running extraction.
func (p *Processor) ExtractAudio(ctx context.Context, videoPath, outputPath string) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := FFmpegPath()
	if err != nil {
		return err
	}

	kwargs := ffmpeg.KwArgs{
		"vn":     "",
		"acodec": "libmp3lame",
		"ar":     16000,
		"ac":     1,
		"b:a":    "64k",
		"y":      "",
	}

	err = ffmpeg.Input(videoPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()

	if err != nil {
		return fmt.Errorf("ffmpeg extraction failed: %w", err)
	}

	return nil
}

// BurnSubtitles renders an ASS subtitle script into the video frames.
// Success is the existence of the output file. As with ExtractAudio, ctx
// does not interrupt a running encode.
func (p *Processor) BurnSubtitles(ctx context.Context, videoPath, assPath, outputPath string) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if _, err := os.Stat(assPath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle script not found: %s", assPath)
	}

	ffmpegPath, err := FFmpegPath()
	if err != nil {
		return err
	}

	kwargs := ffmpeg.KwArgs{
		"vf": "ass=" + assPath,
		"y":  "",
	}

	err = ffmpeg.Input(videoPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()

	if err != nil {
		return fmt.Errorf("ffmpeg burn-in failed: %w", err)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("burn-in produced no output file: %w", err)
	}

	return nil
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reads the video's resolution and duration via ffprobe.
func (p *Processor) Probe(ctx context.Context, videoPath string) (*Info, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	ffprobePath, err := FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		videoPath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &Info{}
	for _, s := range probe.Streams {
		if s.CodecType == "video" {
			info.Width = s.Width
			info.Height = s.Height
			break
		}
	}

	if probe.Format.Duration != "" {
		var seconds float64
		if _, err := fmt.Sscanf(probe.Format.Duration, "%f", &seconds); err == nil {
			info.Duration = time.Duration(seconds * float64(time.Second))
		}
	}

	if info.Width == 0 || info.Height == 0 {
		return info, fmt.Errorf("no video stream resolution in %s", videoPath)
	}

	return info, nil
}
