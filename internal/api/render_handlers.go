package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aheeb/transcriptor/internal/database"
	"github.com/aheeb/transcriptor/internal/subtitle"
)

type renderJobResponse struct {
	JobID       string `json:"jobId"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

func toRenderJobResponse(job *database.RenderJob) renderJobResponse {
	resp := renderJobResponse{
		JobID:  job.ID,
		Status: job.Status,
		Error:  job.Error,
	}
	if job.Status == database.RenderStatusComplete {
		resp.DownloadURL = "/api/videos/" + formatID(job.VideoID) + "/render/download"
	}
	return resp
}

// StartRenderHandler kicks off a burn-in run in the background and returns
// the job to poll.
func (app *App) StartRenderHandler(w http.ResponseWriter, r *http.Request) {
	video, ok := app.videoFromRequest(w, r)
	if !ok {
		return
	}

	captions, err := app.Captions.GetCaptionsByVideoID(video.ID)
	if err != nil {
		app.Logger.Errorw("failed to list captions", "video", video.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to load captions")
		return
	}
	if len(captions) == 0 {
		respondError(w, http.StatusBadRequest, "No captions to render")
		return
	}

	job, err := app.Jobs.CreateJob(video.ID)
	if err != nil {
		app.Logger.Errorw("failed to create render job", "video", video.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to start render")
		return
	}

	go app.runRender(job, video)

	respondJSON(w, http.StatusAccepted, toRenderJobResponse(job))
}

// runRender does the actual burn-in: render the caption set as an ASS
// script, hand it to ffmpeg and record the outcome on the job. The request
// that started the job is long gone, so this runs on a background context.
func (app *App) runRender(job *database.RenderJob, video *database.Video) {
	ctx := context.Background()

	fail := func(msg string, err error) {
		app.Logger.Errorw("render failed", "job", job.ID, "video", video.ID, "error", err)
		if markErr := app.Jobs.MarkError(job.ID, msg+": "+err.Error()); markErr != nil {
			app.Logger.Errorw("failed to record render failure", "job", job.ID, "error", markErr)
		}
	}

	videoPath, err := app.Storage.FullPath(video.StoredName)
	if err != nil {
		fail("failed to locate video file", err)
		return
	}

	captions, err := app.Captions.GetCaptionsByVideoID(video.ID)
	if err != nil {
		fail("failed to load captions", err)
		return
	}

	res := subtitle.Resolution{Width: video.Width, Height: video.Height}
	if res.Width <= 0 || res.Height <= 0 {
		if info, err := app.Media.Probe(ctx, videoPath); err == nil {
			res = subtitle.Resolution{Width: info.Width, Height: info.Height}
			if err := app.Videos.UpdateVideoResolution(video.ID, info.Width, info.Height); err != nil {
				app.Logger.Warnw("failed to persist probed resolution", "video", video.ID, "error", err)
			}
		} else {
			app.Logger.Warnw("falling back to default resolution", "video", video.ID, "error", err)
			res = subtitle.DefaultResolution
		}
	}

	script := subtitle.RenderASS(captions, res)

	assFile, err := os.CreateTemp("", "transcriptor-captions-*.ass")
	if err != nil {
		fail("failed to create subtitle script", err)
		return
	}
	assPath := assFile.Name()
	defer os.Remove(assPath)

	if _, err := assFile.WriteString(script); err != nil {
		assFile.Close()
		fail("failed to write subtitle script", err)
		return
	}
	if err := assFile.Close(); err != nil {
		fail("failed to write subtitle script", err)
		return
	}

	outputName := "rendered-" + job.ID + ".mp4"
	outputPath := filepath.Join(app.Storage.BasePath(), outputName)

	if err := app.Media.BurnSubtitles(ctx, videoPath, assPath, outputPath); err != nil {
		fail("burn-in failed", err)
		return
	}

	if err := app.Jobs.MarkComplete(job.ID, outputName); err != nil {
		app.Logger.Errorw("failed to record render completion", "job", job.ID, "error", err)
		return
	}

	app.Logger.Infow("render complete", "job", job.ID, "video", video.ID, "output", outputName)
}

// RenderStatusHandler reports the most recent job for a video. Clients poll
// this until the status leaves processing.
func (app *App) RenderStatusHandler(w http.ResponseWriter, r *http.Request) {
	video, ok := app.videoFromRequest(w, r)
	if !ok {
		return
	}

	job, err := app.Jobs.LatestJobByVideoID(video.ID)
	if err != nil {
		respondError(w, http.StatusNotFound, "No render job for this video")
		return
	}

	respondJSON(w, http.StatusOK, toRenderJobResponse(job))
}

func (app *App) DownloadRenderHandler(w http.ResponseWriter, r *http.Request) {
	video, ok := app.videoFromRequest(w, r)
	if !ok {
		return
	}

	job, err := app.Jobs.LatestJobByVideoID(video.ID)
	if err != nil {
		respondError(w, http.StatusNotFound, "No render job for this video")
		return
	}
	if job.Status != database.RenderStatusComplete {
		respondError(w, http.StatusConflict, "Render is not complete")
		return
	}

	file, err := app.Storage.OpenFile(job.OutputPath)
	if err != nil {
		respondError(w, http.StatusNotFound, "Rendered file not found")
		return
	}
	defer file.Close()

	stat, err := file.(interface{ Stat() (os.FileInfo, error) }).Stat()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error accessing rendered file")
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", `attachment; filename="captioned-`+video.Filename+`"`)
	http.ServeContent(w, r, job.OutputPath, stat.ModTime(), file)
}
