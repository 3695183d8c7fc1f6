package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aheeb/transcriptor/internal/caption"
	"github.com/aheeb/transcriptor/internal/media"
	"github.com/aheeb/transcriptor/internal/subtitle"
)

var burnCmd = &cobra.Command{
	Use:   "burn [video_file] [subtitle_file]",
	Short: "Burn a SubRip transcript into a video file",
	Long: `Burn the captions from a SubRip (.srt) file into the video frames.

The transcript is parsed with the same permissive rules the web editor
uses: malformed blocks are skipped, the rest are rendered bottom-center
at the video's native resolution.

Examples:
  transcriptor burn lecture.mp4 lecture.srt
  transcriptor burn talk.mp4 talk.srt -o talk-captioned.mp4`,
	Args: cobra.ExactArgs(2),
	RunE: runBurn,
}

func init() {
	rootCmd.AddCommand(burnCmd)

	burnCmd.Flags().StringP("output", "o", "", "Output file path")
}

func runBurn(cmd *cobra.Command, args []string) error {
	videoPath, srtPath := args[0], args[1]
	ctx := context.Background()

	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", videoPath)
	}

	blob, err := os.ReadFile(srtPath)
	if err != nil {
		return fmt.Errorf("failed to read transcript: %w", err)
	}

	captions := caption.ParseTranscript(string(blob))
	if len(captions) == 0 {
		return fmt.Errorf("no usable captions in %s", srtPath)
	}
	logger.Infow("parsed transcript", "file", srtPath, "captions", len(captions))

	processor := media.NewProcessor()

	res := subtitle.DefaultResolution
	if info, err := processor.Probe(ctx, videoPath); err == nil {
		res = subtitle.Resolution{Width: info.Width, Height: info.Height}
	} else {
		logger.Warnw("failed to probe video, using default resolution", "error", err)
	}

	script := subtitle.RenderASS(captions, res)

	assFile, err := os.CreateTemp("", "transcriptor-captions-*.ass")
	if err != nil {
		return fmt.Errorf("failed to create subtitle script: %w", err)
	}
	assPath := assFile.Name()
	defer os.Remove(assPath)

	if _, err := assFile.WriteString(script); err != nil {
		assFile.Close()
		return fmt.Errorf("failed to write subtitle script: %w", err)
	}
	if err := assFile.Close(); err != nil {
		return fmt.Errorf("failed to write subtitle script: %w", err)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		ext := filepath.Ext(videoPath)
		outputPath = strings.TrimSuffix(videoPath, ext) + "-captioned" + ext
	}

	logger.Infow("burning captions", "video", videoPath, "output", outputPath)

	if err := processor.BurnSubtitles(ctx, videoPath, assPath, outputPath); err != nil {
		return fmt.Errorf("burn-in failed: %w", err)
	}

	logger.Infow("done", "output", outputPath)
	return nil
}
