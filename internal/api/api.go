package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/NoteHub-io/notehub/internal/apierr"
	"github.com/NoteHub-io/notehub/internal/auth"
	"github.com/NoteHub-io/notehub/internal/config"
	"github.com/NoteHub-io/notehub/internal/storage"
	"github.com/NoteHub-io/notehub/internal/store"
)

type Api struct {
	Config   *config.Config
	Store    *store.Store
	Auth     *auth.Auth
	Uploader storage.Uploader
	Router   *chi.Mux
}

// NewApi wires the HTTP surface: auth routes, the notes CRUD, and the avatar
// upload, all behind CORS and the standard middleware stack.
func NewApi(cfg *config.Config, st *store.Store, a *auth.Auth, uploader storage.Uploader) (*Api, error) {
	if cfg.APIPort == 0 {
		return nil, fmt.Errorf("must have at least a port to start API")
	}

	api := &Api{
		Config:   cfg,
		Store:    st,
		Auth:     a,
		Uploader: uploader,
		Router:   chi.NewRouter(),
	}
	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{api.Config.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apierr.Write(w, apierr.NotFound("Route not found"))
	})

	r.Get("/heartbeat", api.Heartbeat)

	// Public auth surface
	api.Auth.RegisterRoutes(r)

	// Everything below requires a valid session
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(api.Store))

		r.Get("/notes", api.ListNotesHandler)
		r.Post("/notes", api.CreateNoteHandler)
		r.Get("/notes/{noteId}", api.GetNoteHandler)
		r.Patch("/notes/{noteId}", api.UpdateNoteHandler)
		r.Delete("/notes/{noteId}", api.DeleteNoteHandler)

		r.Patch("/users/me/avatar", api.UpdateAvatarHandler)
	})
}

// Serve blocks, listening on the configured port.
func (api *Api) Serve() {
	log.Printf("Starting API server on 0.0.0.0:%d", api.Config.APIPort)
	log.Fatal(http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort), api.Router))
}

func (api *Api) Heartbeat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
