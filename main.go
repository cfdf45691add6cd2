package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"notekeeper/config"
	"notekeeper/db"
	"notekeeper/handlers"
	appmw "notekeeper/middleware"
	"notekeeper/store"
	"notekeeper/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	database, err := db.Connect(cfg.DSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	users := store.NewMySQLUserStore(database)
	notes := store.NewMySQLNoteStore(database)
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL, cfg.CookieName, cfg.Production())

	router := newRouter(cfg, logger, users, notes, tokens)

	logger.Info("server listening", "addr", cfg.Addr, "env", cfg.Env)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.Production() {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newRouter(cfg *config.Config, logger *slog.Logger, users store.UserStore, notes store.NoteStore, tokens *token.Manager) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	authHandler := &handlers.AuthHandler{
		Users:      users,
		Tokens:     tokens,
		Log:        logger,
		Production: cfg.Production(),
	}
	noteHandler := &handlers.NoteHandler{
		Notes:      notes,
		Log:        logger,
		Production: cfg.Production(),
	}
	auth := &appmw.Auth{Tokens: tokens, Users: users, Log: logger}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)
		r.Post("/signout", authHandler.Signout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/me", authHandler.Me)
		})
	})

	r.Route("/api/note", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/all", noteHandler.GetAll)
		r.Post("/add", noteHandler.Add)
		r.Put("/edit/{id}", noteHandler.Edit)
		r.Delete("/delete/{id}", noteHandler.Delete)
		r.Put("/update-note-pinned/{id}", noteHandler.UpdatePinned)
		r.Get("/search", noteHandler.Search)
	})

	return r
}

// corsMiddleware allows credentialed requests from the configured origins
// only. Unlisted origins get no CORS headers and the browser blocks them.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := map[string]bool{}
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Cookie, X-Requested-With")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
