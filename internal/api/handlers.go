package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aheeb/transcriptor/internal/database"
	"github.com/aheeb/transcriptor/internal/logging"
	"github.com/aheeb/transcriptor/internal/media"
	"github.com/aheeb/transcriptor/internal/secret"
	"github.com/aheeb/transcriptor/internal/storage"
	"github.com/aheeb/transcriptor/internal/transcribe"
)

// MediaProcessor is the slice of ffmpeg functionality the handlers need.
type MediaProcessor interface {
	ExtractAudio(ctx context.Context, videoPath, outputPath string) error
	BurnSubtitles(ctx context.Context, videoPath, assPath, outputPath string) error
	Probe(ctx context.Context, videoPath string) (*media.Info, error)
}

// TranscriberFactory builds a transcriber for one generate request.
type TranscriberFactory func(
	ctx context.Context,
	provider transcribe.Provider,
	apiKey string,
	opts transcribe.Options,
) (transcribe.Transcriber, error)

type App struct {
	Logger        *logging.Logger
	Storage       storage.Storage
	Videos        *database.VideoRepository
	Captions      *database.CaptionRepository
	Jobs          *database.RenderRepository
	Media         MediaProcessor
	Secrets       *secret.Store
	MaxUploadSize int64

	// NewTranscriber defaults to the provider factory; tests swap it out.
	NewTranscriber TranscriberFactory
}

func (app *App) transcriberFactory() TranscriberFactory {
	if app.NewTranscriber != nil {
		return app.NewTranscriber
	}
	return transcribe.Factory
}

type videoResponse struct {
	ID          int64  `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	CreatedAt   string `json:"createdAt"`
}

func toVideoResponse(v *database.Video) videoResponse {
	return videoResponse{
		ID:          v.ID,
		Filename:    v.Filename,
		ContentType: v.ContentType,
		Size:        v.Size,
		Width:       v.Width,
		Height:      v.Height,
		CreatedAt:   v.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (app *App) UploadVideoHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)

	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "File too large")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	// browsers often send octet-stream, so fall back to the extension
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if ext != ".mp4" && ext != ".mov" && ext != ".webm" && ext != ".mkv" {
			respondError(w, http.StatusBadRequest, "Only video files are allowed")
			return
		}
		contentType = "video/mp4"
	}

	storedName, err := app.Storage.SaveFile(file, storage.FileInfo{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	})
	if err != nil {
		app.Logger.Errorw("failed to save upload", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	video := &database.Video{
		Filename:    header.Filename,
		StoredName:  storedName,
		ContentType: contentType,
		Size:        header.Size,
	}

	// the probed resolution drives subtitle rendering later; an upload
	// whose streams can't be read yet is still accepted
	if path, err := app.Storage.FullPath(storedName); err == nil {
		if info, err := app.Media.Probe(r.Context(), path); err == nil {
			video.Width = info.Width
			video.Height = info.Height
		} else {
			app.Logger.Warnw("failed to probe upload", "file", storedName, "error", err)
		}
	}

	if err := app.Videos.InsertVideo(video); err != nil {
		app.Storage.DeleteFile(storedName)
		app.Logger.Errorw("failed to insert video", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to save video information")
		return
	}

	respondJSON(w, http.StatusCreated, toVideoResponse(video))
}

func (app *App) ListVideosHandler(w http.ResponseWriter, r *http.Request) {
	videos, err := app.Videos.ListVideos()
	if err != nil {
		app.Logger.Errorw("failed to list videos", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to load videos")
		return
	}

	responses := make([]videoResponse, 0, len(videos))
	for i := range videos {
		responses = append(responses, toVideoResponse(&videos[i]))
	}

	respondJSON(w, http.StatusOK, responses)
}

func (app *App) GetVideoHandler(w http.ResponseWriter, r *http.Request) {
	video, ok := app.videoFromRequest(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, toVideoResponse(video))
}

func (app *App) StreamVideoHandler(w http.ResponseWriter, r *http.Request) {
	video, ok := app.videoFromRequest(w, r)
	if !ok {
		return
	}

	file, err := app.Storage.OpenFile(video.StoredName)
	if err != nil {
		respondError(w, http.StatusNotFound, "Video file not found")
		return
	}
	defer file.Close()

	stat, err := file.(interface{ Stat() (os.FileInfo, error) }).Stat()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error accessing video file")
		return
	}

	w.Header().Set("Content-Type", video.ContentType)

	// ServeContent handles Range requests for seeking in the player
	http.ServeContent(w, r, video.Filename, stat.ModTime(), file)
}

type credentialRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
}

// SaveCredentialHandler stores a speech-to-text API key in the encrypted
// secret store so generate requests can omit it.
func (app *App) SaveCredentialHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	provider := transcribe.Provider(req.Provider)
	if provider != transcribe.ProviderOpenAI && provider != transcribe.ProviderGemini {
		respondError(w, http.StatusBadRequest, "Unsupported provider")
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		respondError(w, http.StatusBadRequest, "API key must not be empty")
		return
	}

	if err := app.Secrets.Save(credentialName(provider), req.APIKey); err != nil {
		app.Logger.Errorw("failed to save credential", "provider", req.Provider, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to save credential")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func credentialName(provider transcribe.Provider) string {
	return string(provider) + "_api_key"
}

func (app *App) videoFromRequest(w http.ResponseWriter, r *http.Request) (*database.Video, bool) {
	id, err := parseID(chi.URLParam(r, "videoID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid video id")
		return nil, false
	}

	video, err := app.Videos.GetVideoByID(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Video not found")
		return nil, false
	}

	return video, true
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
