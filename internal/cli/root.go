package cli

import (
	"github.com/aheeb/transcriptor/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "transcriptor",
	Short: "Web-based video captioning with AI transcription",
	Long: `Transcriptor turns videos into captioned videos.

Upload a video, let AI transcribe the audio into editable captions,
adjust timing, text and placement, then burn the captions into a new
video file with ffmpeg.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
