package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/videos", app.UploadVideoHandler)
		r.Get("/videos", app.ListVideosHandler)

		r.Route("/videos/{videoID}", func(r chi.Router) {
			r.Get("/", app.GetVideoHandler)
			r.Get("/stream", app.StreamVideoHandler)

			r.Post("/captions/generate", app.GenerateCaptionsHandler)
			r.Get("/captions", app.ListCaptionsHandler)
			r.Post("/captions", app.CreateCaptionHandler)
			r.Put("/captions/positions", app.UpdateAllPositionsHandler)

			r.Post("/render", app.StartRenderHandler)
			r.Get("/render/status", app.RenderStatusHandler)
			r.Get("/render/download", app.DownloadRenderHandler)
		})

		r.Route("/captions/{captionID}", func(r chi.Router) {
			r.Put("/", app.UpdateCaptionHandler)
			r.Delete("/", app.DeleteCaptionHandler)
			r.Post("/split", app.SplitCaptionHandler)
		})

		r.Put("/settings/credential", app.SaveCredentialHandler)
	})

	return r
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
