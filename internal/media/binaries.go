package media

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
)

var (
	resolveOnce sync.Once
	resolveErr  error
	ffmpegBin   string
	ffprobeBin  string
)

// FFmpegPath locates the ffmpeg binary, preferring an explicit
// TRANSCRIPTOR_FFMPEG_PATH over the system PATH.
func FFmpegPath() (string, error) {
	resolve()
	if resolveErr != nil {
		return "", resolveErr
	}
	return ffmpegBin, nil
}

// FFprobePath locates the ffprobe binary, preferring an explicit
// TRANSCRIPTOR_FFPROBE_PATH over the system PATH.
func FFprobePath() (string, error) {
	resolve()
	if resolveErr != nil {
		return "", resolveErr
	}
	return ffprobeBin, nil
}

func resolve() {
	resolveOnce.Do(func() {
		ffmpegBin = os.Getenv("TRANSCRIPTOR_FFMPEG_PATH")
		ffprobeBin = os.Getenv("TRANSCRIPTOR_FFPROBE_PATH")

		if ffmpegBin == "" {
			found, err := exec.LookPath("ffmpeg")
			if err != nil {
				resolveErr = fmt.Errorf("ffmpeg not found: install it or set TRANSCRIPTOR_FFMPEG_PATH")
				return
			}
			ffmpegBin = found
		}

		if ffprobeBin == "" {
			found, err := exec.LookPath("ffprobe")
			if err != nil {
				resolveErr = fmt.Errorf("ffprobe not found: install it or set TRANSCRIPTOR_FFPROBE_PATH")
				return
			}
			ffprobeBin = found
		}
	})
}
