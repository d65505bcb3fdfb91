package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"urbanexplorer/internal/auth"
	"urbanexplorer/internal/feed"
	"urbanexplorer/internal/ratelimiter"
	"urbanexplorer/internal/stats"
	"urbanexplorer/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         store.Storage
	logger        *zap.SugaredLogger
	authenticator auth.Authenticator
	rateLimiter   *ratelimiter.FixedWindowRateLimiter
	stats         *stats.Updater
	feed          *feed.Assembler
	startedAt     time.Time
}

type config struct {
	addr        string
	env         string
	corsOrigins []string
	db          dbConfig
	auth        authConfig
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret        string
	refreshSecret string
	iss           string
}

type basicConfig struct {
	user string
	pass string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(app.RateLimiterMiddleware)

	// Request context timeout; handlers stop work once ctx.Done() fires.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", app.rootHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/locations", func(r chi.Router) {
			r.Get("/nearby", app.nearbyLocationsHandler)
			r.Get("/search", app.searchLocationsHandler)
			r.Get("/{locationID}", app.getLocationHandler)

			// Privileged write: recomputes the denormalized rating stats.
			r.With(app.BasicAuthMiddleware()).Post("/{locationID}/stats", app.updateLocationStatsHandler)
		})

		r.Route("/feed", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.getFeedHandler)
			r.Post("/", app.getFeedHandler)
		})
	})

	return r
}

// rootHandler returns the service banner.
func (app *application) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "Urban Explorer API",
		"version": version,
		"status":  "running",
		"docs":    "/api/health",
	})
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
