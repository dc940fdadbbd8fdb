package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/jsreddy/splitscenario/internal/auth"
	"github.com/jsreddy/splitscenario/internal/config"
	"github.com/jsreddy/splitscenario/internal/extract"
	"github.com/jsreddy/splitscenario/internal/middleware"
	"github.com/jsreddy/splitscenario/internal/service"
	"github.com/jsreddy/splitscenario/internal/storage/sqlite"
	"github.com/jsreddy/splitscenario/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	extractor := extract.NewClient(extract.Config{
		BaseURL: cfg.OpenRouterBaseURL,
		APIKey:  cfg.OpenRouterAPIKey,
		Model:   cfg.OpenRouterModel,
	})

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)
	authService := service.NewAuthService(authenticator, jwtManager, slog.Default())
	scenarioService := service.NewScenarioService(store, extractor)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/signup", authService.Signup)
	mux.HandleFunc("POST /api/auth/login", authService.Login)

	mux.Handle("POST /api/scenario/create",
		middleware.RequireAuth(jwtManager, http.HandlerFunc(scenarioService.Create)))
	mux.Handle("GET /api/scenario/{$}",
		middleware.RequireAuth(jwtManager, http.HandlerFunc(scenarioService.List)))
	mux.Handle("DELETE /api/scenario/{id}",
		middleware.RequireAuth(jwtManager, http.HandlerFunc(scenarioService.Delete)))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	handler := middleware.Logging(middleware.CORS(mux))

	// h2c enables HTTP/2 without TLS for local and proxied deployments.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	slog.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
