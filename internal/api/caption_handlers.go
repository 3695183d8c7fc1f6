package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aheeb/transcriptor/internal/caption"
	"github.com/aheeb/transcriptor/internal/secret"
	"github.com/aheeb/transcriptor/internal/transcribe"
)

type generateRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
	Language string `json:"language"`
	Model    string `json:"model"`
	Prompt   string `json:"prompt"`
}

// GenerateCaptionsHandler runs the full pipeline for one video: extract the
// audio track, transcribe it, parse the transcript and replace the video's
// caption set with the result.
func (app *App) GenerateCaptionsHandler(w http.ResponseWriter, r *http.Request) {
	video, ok := app.videoFromRequest(w, r)
	if !ok {
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	provider := transcribe.Provider(req.Provider)
	if provider == "" {
		provider = transcribe.ProviderOpenAI
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		stored, err := app.Secrets.Load(credentialName(provider))
		if err != nil {
			if errors.Is(err, secret.ErrNotFound) {
				respondError(w, http.StatusBadRequest, "No API key provided or stored for this provider")
				return
			}
			app.Logger.Errorw("failed to load credential", "provider", string(provider), "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to load stored credential")
			return
		}
		apiKey = stored
	}

	transcriber, err := app.transcriberFactory()(r.Context(), provider, apiKey, transcribe.Options{
		Language: req.Language,
		Model:    req.Model,
		Prompt:   req.Prompt,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to configure transcription: "+err.Error())
		return
	}

	videoPath, err := app.Storage.FullPath(video.StoredName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to locate video file")
		return
	}

	audioFile, err := os.CreateTemp("", "transcriptor-audio-*.mp3")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create working file")
		return
	}
	audioPath := audioFile.Name()
	audioFile.Close()
	defer os.Remove(audioPath)

	if err := app.Media.ExtractAudio(r.Context(), videoPath, audioPath); err != nil {
		app.Logger.Errorw("audio extraction failed", "video", video.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to extract audio from video")
		return
	}

	transcript, err := transcriber.Transcribe(r.Context(), audioPath)
	if err != nil {
		app.Logger.Errorw("transcription failed", "video", video.ID, "error", err)
		respondError(w, http.StatusBadGateway, "Transcription failed: "+err.Error())
		return
	}

	captions := caption.ParseTranscript(transcript)

	// a regenerate replaces the previous caption set wholesale
	if err := app.Captions.DeleteCaptionsByVideoID(video.ID); err != nil {
		app.Logger.Errorw("failed to clear captions", "video", video.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to replace captions")
		return
	}

	inserted := make([]caption.Caption, 0, len(captions))
	for i := range captions {
		c := captions[i]
		c.ID = 0
		c.VideoID = video.ID
		if err := app.Captions.InsertCaption(&c); err != nil {
			app.Logger.Errorw("failed to insert caption", "video", video.ID, "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to store captions")
			return
		}
		inserted = append(inserted, c)
	}

	respondJSON(w, http.StatusOK, inserted)
}

func (app *App) ListCaptionsHandler(w http.ResponseWriter, r *http.Request) {
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

	if captions == nil {
		captions = []caption.Caption{}
	}
	respondJSON(w, http.StatusOK, captions)
}

type captionRequest struct {
	StartTime string          `json:"startTime"`
	EndTime   string          `json:"endTime"`
	Text      string          `json:"text"`
	Style     json.RawMessage `json:"style"`
}

func (req captionRequest) style() (*caption.Style, error) {
	if len(req.Style) == 0 || string(req.Style) == "null" {
		return nil, nil
	}
	var s caption.Style
	if err := json.Unmarshal(req.Style, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (app *App) CreateCaptionHandler(w http.ResponseWriter, r *http.Request) {
	video, ok := app.videoFromRequest(w, r)
	if !ok {
		return
	}

	var req captionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	style, err := req.style()
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid style payload")
		return
	}

	c := caption.Caption{
		VideoID:   video.ID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Text:      req.Text,
		Style:     style,
	}
	if err := c.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := app.Captions.InsertCaption(&c); err != nil {
		app.Logger.Errorw("failed to insert caption", "video", video.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to store caption")
		return
	}

	respondJSON(w, http.StatusCreated, c)
}

// UpdateCaptionHandler replaces the caption's timing, text and style. A
// request without a style field keeps the stored style; an explicit null
// clears it.
func (app *App) UpdateCaptionHandler(w http.ResponseWriter, r *http.Request) {
	current, ok := app.captionFromRequest(w, r)
	if !ok {
		return
	}

	var req captionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated := *current
	updated.StartTime = req.StartTime
	updated.EndTime = req.EndTime
	updated.Text = req.Text

	if len(req.Style) > 0 {
		style, err := req.style()
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid style payload")
			return
		}
		updated.Style = style
	}

	if err := updated.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := app.Captions.UpdateCaption(&updated); err != nil {
		app.Logger.Errorw("failed to update caption", "caption", updated.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update caption")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (app *App) DeleteCaptionHandler(w http.ResponseWriter, r *http.Request) {
	current, ok := app.captionFromRequest(w, r)
	if !ok {
		return
	}

	if err := app.Captions.DeleteCaption(current.ID); err != nil {
		app.Logger.Errorw("failed to delete caption", "caption", current.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete caption")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type splitRequest struct {
	Offset int `json:"offset"`
}

type splitResponse struct {
	First  caption.Caption `json:"first"`
	Second caption.Caption `json:"second"`
}

// SplitCaptionHandler divides a caption at a text cursor offset. The split
// timestamp is derived server-side from the offset, the first half is
// updated in place and the second half inserted as a new record.
func (app *App) SplitCaptionHandler(w http.ResponseWriter, r *http.Request) {
	current, ok := app.captionFromRequest(w, r)
	if !ok {
		return
	}

	var req splitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cursor, err := caption.CursorTimestamp(*current, req.Offset)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	first, second, err := caption.Split(*current, req.Offset, cursor)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := app.Captions.UpdateCaption(&first); err != nil {
		app.Logger.Errorw("failed to update split caption", "caption", first.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update caption")
		return
	}

	second.ID = 0
	if err := app.Captions.InsertCaption(&second); err != nil {
		app.Logger.Errorw("failed to insert split caption", "video", second.VideoID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to store caption")
		return
	}

	respondJSON(w, http.StatusOK, splitResponse{First: first, Second: second})
}

type positionRequest struct {
	Position *caption.Position `json:"position"`
}

// UpdateAllPositionsHandler moves every caption of the video to one shared
// position. The coordinate is clamped to the normalized [0,1] range; only
// the position entry of each caption's style is touched.
func (app *App) UpdateAllPositionsHandler(w http.ResponseWriter, r *http.Request) {
	video, ok := app.videoFromRequest(w, r)
	if !ok {
		return
	}

	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Position == nil {
		respondError(w, http.StatusBadRequest, "No position provided")
		return
	}

	pos := caption.ClampPosition(req.Position.X, req.Position.Y)

	if err := app.Captions.UpdateAllPositions(video.ID, pos); err != nil {
		app.Logger.Errorw("failed to update positions", "video", video.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update caption positions")
		return
	}

	captions, err := app.Captions.GetCaptionsByVideoID(video.ID)
	if err != nil {
		app.Logger.Errorw("failed to list captions", "video", video.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to load captions")
		return
	}

	respondJSON(w, http.StatusOK, captions)
}

func (app *App) captionFromRequest(w http.ResponseWriter, r *http.Request) (*caption.Caption, bool) {
	id, err := parseID(chi.URLParam(r, "captionID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid caption id")
		return nil, false
	}

	c, err := app.Captions.GetCaptionByID(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Caption not found")
		return nil, false
	}

	return c, true
}
