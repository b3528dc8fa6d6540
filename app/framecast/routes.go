package framecast

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/framecast/core/health"
	"github.com/dmitrymomot/framecast/core/logger"
	"github.com/dmitrymomot/framecast/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

var viewerTemplate = template.Must(template.ParseFS(templateFS, "templates/viewer.html"))

type viewerData struct {
	Title       string
	StreamPath  string
	FrameHeight int
	FPS         int
}

// statsResponse is the body of GET /stats.
type statsResponse struct {
	FramesProduced  uint64 `json:"frames_produced"`
	SessionsStarted uint64 `json:"sessions_started"`
	SessionsActive  int64  `json:"sessions_active"`
	Subscribers     int    `json:"subscribers"`
	Refused         uint64 `json:"refused"`
	Running         bool   `json:"running"`
}

func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID(),
		middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger: a.logger,
			Skip: func(r *http.Request) bool {
				return strings.HasPrefix(r.URL.Path, "/health/") || r.URL.Path == "/snapshot.jpg"
			},
		}),
		middleware.SecurityHeaders(middleware.ViewerSecurity),
	)

	r.Get("/", a.index)
	r.Get("/ws", a.acceptor.ServeHTTP)
	r.Get("/snapshot.jpg", a.snapshot)
	r.Get("/stats", a.stats)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness(a.logger, a.ready))

	return r
}

// index upgrades WebSocket requests and serves the viewer page to browsers.
func (a *App) index(w http.ResponseWriter, r *http.Request) {
	if websocket.IsWebSocketUpgrade(r) {
		a.acceptor.ServeHTTP(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := viewerTemplate.Execute(w, viewerData{
		Title:       "framecast",
		StreamPath:  "/ws",
		FrameHeight: a.config.FrameHeight,
		FPS:         a.config.FPS,
	})
	if err != nil {
		a.logger.ErrorContext(r.Context(), "failed to render viewer",
			logger.Component("http"),
			logger.Error(err))
	}
}

func (a *App) snapshot(w http.ResponseWriter, r *http.Request) {
	payload, ok := a.loop.Latest()
	if !ok {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(payload)
}

func (a *App) stats(w http.ResponseWriter, r *http.Request) {
	s := a.loop.Stats()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(statsResponse{
		FramesProduced:  s.FramesProduced,
		SessionsStarted: s.SessionsStarted,
		SessionsActive:  s.SessionsActive,
		Subscribers:     s.Subscribers,
		Refused:         a.acceptor.Refused(),
		Running:         s.IsRunning,
	})
}
