package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/meur/athletefolio/internal/auth"
	"github.com/meur/athletefolio/internal/logging"
	"github.com/meur/athletefolio/internal/mail"
	"github.com/meur/athletefolio/internal/objectstore"
	"github.com/meur/athletefolio/internal/schema"
	"github.com/meur/athletefolio/internal/storage"
	"github.com/meur/athletefolio/internal/transcode"
	"github.com/meur/athletefolio/internal/upload"
	"github.com/meur/athletefolio/internal/wizard"
)

// ProfilePath is where public profile pages live
const ProfilePath = "/athletes"

// Deps are the collaborators a Server is built from
type Deps struct {
	Store   *storage.Store
	Objects objectstore.Store
	Mailer  mail.Mailer
	Logger  *zap.Logger

	// MediaDir, when set, is served under MediaPrefix
	MediaDir    string
	MediaPrefix string
	// StaticDir, when set, is served at the root for the built frontend
	StaticDir string

	AllowedOrigins    []string
	MaxUploadBytes    int64
	UploadConcurrency int
}

// Server holds the HTTP server dependencies
type Server struct {
	store      *storage.Store
	schema     *schema.Schema
	uploads    *upload.Orchestrator
	submitter  *wizard.Submitter
	transcoder *transcode.Transcoder
	mailer     mail.Mailer
	log        *zap.Logger
	deps       Deps
	router     chi.Router
}

// New creates a new API server
func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Mailer == nil {
		d.Mailer = mail.NewLogMailer(d.Logger)
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = 32 << 20
	}
	if d.MediaPrefix == "" {
		d.MediaPrefix = "/media"
	}

	sc := schema.Athlete()
	uploads := upload.New(d.Objects, sc,
		upload.WithConcurrency(d.UploadConcurrency),
		upload.WithLogger(d.Logger.Named("upload")))

	s := &Server{
		store:      d.Store,
		schema:     sc,
		uploads:    uploads,
		submitter:  wizard.NewSubmitter(uploads, d.Store, d.Logger.Named("submit")),
		transcoder: transcode.New(d.Logger.Named("transcode")),
		mailer:     d.Mailer,
		log:        d.Logger,
		deps:       d,
		router:     chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(logging.Requests(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/schema", s.handleGetSchema)

		// Directory
		r.Get("/athletes", s.handleListAthletes)
		r.Get("/athletes/{id}", s.handleGetAthlete)

		// Contact form
		r.Post("/contact", s.handleContact)

		// Own profile
		r.Route("/me", func(r chi.Router) {
			r.Use(auth.Require(s.store, s.log))
			r.Post("/draft/validate", s.handleValidateDraft)
			r.Get("/profile", s.handleGetOwnProfile)
			r.Post("/profile", s.handleSubmitProfile)
			r.Put("/profile/published", s.handleSetPublished)
			r.Delete("/profile", s.handleDeleteProfile)
		})
	})

	if s.deps.MediaDir != "" {
		FileServer(s.router, s.deps.MediaPrefix, http.Dir(s.deps.MediaDir))
	}
	if s.deps.StaticDir != "" {
		FileServer(s.router, "/", http.Dir(s.deps.StaticDir))
	}

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
